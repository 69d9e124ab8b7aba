package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/careergate/internal/types"
)

// CreateCompatibilityResult persists a result and its skill gaps atomically.
// IDs left nil are assigned.
func (db *DB) CreateCompatibilityResult(ctx context.Context, r *types.CompatibilityResult) (*types.CompatibilityResult, error) {
	out := *r
	if out.ID == uuid.Nil {
		out.ID = uuid.New()
	}
	out.Gaps = make([]types.SkillGap, len(r.Gaps))
	copy(out.Gaps, r.Gaps)

	err := db.inTx(ctx, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx,
			`INSERT INTO compatibility_results (id, user_id, job_id, compatibility_score, skill_match_score,
			                                    experience_match_score, resume_match_score, ai_analysis_summary)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			 RETURNING created_at`,
			out.ID, out.CandidateID, out.JobID, out.CompatibilityScore, out.SkillMatchScore,
			out.ExperienceMatchScore, out.ResumeMatchScore, out.AIAnalysisSummary,
		).Scan(&out.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to create compatibility result: %w", err)
		}

		for i := range out.Gaps {
			g := &out.Gaps[i]
			if g.ID == uuid.Nil {
				g.ID = uuid.New()
			}
			_, err := tx.Exec(ctx,
				`INSERT INTO skill_gaps (id, compatibility_result_id, skill_name, required_rating,
				                         user_rating, gap, improvement_suggestions, position)
				 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
				g.ID, out.ID, g.SkillName, g.RequiredRating, g.UserRating, g.Gap, g.ImprovementSuggestions, i,
			)
			if err != nil {
				return fmt.Errorf("failed to insert skill gap %q: %w", g.SkillName, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

const resultColumns = `id, user_id, job_id, compatibility_score, skill_match_score,
	experience_match_score, resume_match_score, ai_analysis_summary, created_at`

func scanResult(row pgx.Row) (*types.CompatibilityResult, error) {
	var r types.CompatibilityResult
	err := row.Scan(&r.ID, &r.CandidateID, &r.JobID, &r.CompatibilityScore, &r.SkillMatchScore,
		&r.ExperienceMatchScore, &r.ResumeMatchScore, &r.AIAnalysisSummary, &r.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// GetCompatibilityResult retrieves a result with its gaps.
// Returns nil, nil when not found.
func (db *DB) GetCompatibilityResult(ctx context.Context, resultID uuid.UUID) (*types.CompatibilityResult, error) {
	r, err := scanResult(db.pool.QueryRow(ctx,
		`SELECT `+resultColumns+` FROM compatibility_results WHERE id = $1`, resultID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get compatibility result: %w", err)
	}
	if err := db.loadGaps(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

// LatestCompatibilityResult retrieves the most recent result for a
// (candidate, job) pair. Returns nil, nil when none exists.
func (db *DB) LatestCompatibilityResult(ctx context.Context, candidateID, jobID uuid.UUID) (*types.CompatibilityResult, error) {
	r, err := scanResult(db.pool.QueryRow(ctx,
		`SELECT `+resultColumns+` FROM compatibility_results
		 WHERE user_id = $1 AND job_id = $2
		 ORDER BY created_at DESC, id DESC
		 LIMIT 1`,
		candidateID, jobID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get latest compatibility result: %w", err)
	}
	if err := db.loadGaps(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

func (db *DB) loadGaps(ctx context.Context, r *types.CompatibilityResult) error {
	rows, err := db.pool.Query(ctx,
		`SELECT id, skill_name, required_rating, user_rating, gap, improvement_suggestions
		 FROM skill_gaps WHERE compatibility_result_id = $1 ORDER BY position`,
		r.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to get skill gaps: %w", err)
	}
	defer rows.Close()

	r.Gaps = []types.SkillGap{}
	for rows.Next() {
		var g types.SkillGap
		if err := rows.Scan(&g.ID, &g.SkillName, &g.RequiredRating, &g.UserRating, &g.Gap, &g.ImprovementSuggestions); err != nil {
			return fmt.Errorf("failed to scan skill gap: %w", err)
		}
		r.Gaps = append(r.Gaps, g)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to read skill gaps: %w", err)
	}
	return nil
}
