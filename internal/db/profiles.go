package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/careergate/internal/types"
)

// UpsertProfile creates or replaces a candidate profile. The skill set is
// replaced as a whole in the same transaction.
func (db *DB) UpsertProfile(ctx context.Context, p *types.Profile) (*types.Profile, error) {
	var ref types.ResumeRef
	if p.Resume != nil {
		ref = *p.Resume
	}

	out := *p
	err := db.inTx(ctx, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx,
			`INSERT INTO profiles (user_id, total_experience, current_ctc, expected_ctc, notice_period_days,
			                       resume_url, resume_path, resume_type, resume_text, updated_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW())
			 ON CONFLICT (user_id) DO UPDATE SET
			     total_experience = EXCLUDED.total_experience,
			     current_ctc = EXCLUDED.current_ctc,
			     expected_ctc = EXCLUDED.expected_ctc,
			     notice_period_days = EXCLUDED.notice_period_days,
			     resume_url = EXCLUDED.resume_url,
			     resume_path = EXCLUDED.resume_path,
			     resume_type = EXCLUDED.resume_type,
			     resume_text = EXCLUDED.resume_text,
			     updated_at = NOW()
			 RETURNING updated_at`,
			p.CandidateID, p.TotalExperience, p.CurrentCTC, p.ExpectedCTC, p.NoticePeriodDays,
			ref.URL, ref.StoragePath, ref.ContentType, p.ResumeText,
		).Scan(&out.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to upsert profile: %w", err)
		}

		if _, err := tx.Exec(ctx, `DELETE FROM profile_skills WHERE user_id = $1`, p.CandidateID); err != nil {
			return fmt.Errorf("failed to clear profile skills: %w", err)
		}

		for i, s := range p.Skills {
			_, err := tx.Exec(ctx,
				`INSERT INTO profile_skills (user_id, skill_name, rating, position) VALUES ($1, $2, $3, $4)`,
				p.CandidateID, s.SkillName, s.Rating, i,
			)
			if err != nil {
				return fmt.Errorf("failed to insert profile skill %q: %w", s.SkillName, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// GetProfile retrieves a candidate profile with its skills.
// Returns nil, nil when the candidate has no profile.
func (db *DB) GetProfile(ctx context.Context, candidateID uuid.UUID) (*types.Profile, error) {
	var (
		p         types.Profile
		ref       types.ResumeRef
		updatedAt time.Time
	)
	err := db.pool.QueryRow(ctx,
		`SELECT user_id, total_experience, current_ctc, expected_ctc, notice_period_days,
		        resume_url, resume_path, resume_type, resume_text, updated_at
		 FROM profiles WHERE user_id = $1`,
		candidateID,
	).Scan(&p.CandidateID, &p.TotalExperience, &p.CurrentCTC, &p.ExpectedCTC, &p.NoticePeriodDays,
		&ref.URL, &ref.StoragePath, &ref.ContentType, &p.ResumeText, &updatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	p.UpdatedAt = updatedAt
	if !ref.IsZero() {
		p.Resume = &ref
	}

	rows, err := db.pool.Query(ctx,
		`SELECT skill_name, rating FROM profile_skills WHERE user_id = $1 ORDER BY position`,
		candidateID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get profile skills: %w", err)
	}
	defer rows.Close()

	p.Skills = []types.SkillRating{}
	for rows.Next() {
		var s types.SkillRating
		if err := rows.Scan(&s.SkillName, &s.Rating); err != nil {
			return nil, fmt.Errorf("failed to scan profile skill: %w", err)
		}
		p.Skills = append(p.Skills, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read profile skills: %w", err)
	}
	return &p, nil
}
