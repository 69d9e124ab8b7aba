package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/careergate/internal/types"
)

// CreateJob inserts a job and its required skills. A nil ID is assigned.
func (db *DB) CreateJob(ctx context.Context, j *types.Job) (*types.Job, error) {
	out := *j
	if out.ID == uuid.Nil {
		out.ID = uuid.New()
	}

	err := db.inTx(ctx, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx,
			`INSERT INTO jobs (id, recruiter_id, title, company_name, description,
			                   min_experience, max_experience, min_ctc, max_ctc)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			 RETURNING created_at`,
			out.ID, out.RecruiterID, out.Title, out.CompanyName, out.Description,
			out.MinExperience, out.MaxExperience, out.MinCTC, out.MaxCTC,
		).Scan(&out.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to create job: %w", err)
		}

		for i, s := range out.RequiredSkills {
			_, err := tx.Exec(ctx,
				`INSERT INTO job_required_skills (job_id, skill_name, min_rating, position) VALUES ($1, $2, $3, $4)`,
				out.ID, s.SkillName, s.MinRating, i,
			)
			if err != nil {
				return fmt.Errorf("failed to insert required skill %q: %w", s.SkillName, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// GetJob retrieves a job with its required skills in declaration order.
// Returns nil, nil when not found.
func (db *DB) GetJob(ctx context.Context, jobID uuid.UUID) (*types.Job, error) {
	var j types.Job
	err := db.pool.QueryRow(ctx,
		`SELECT id, recruiter_id, title, company_name, description,
		        min_experience, max_experience, min_ctc, max_ctc, created_at
		 FROM jobs WHERE id = $1`,
		jobID,
	).Scan(&j.ID, &j.RecruiterID, &j.Title, &j.CompanyName, &j.Description,
		&j.MinExperience, &j.MaxExperience, &j.MinCTC, &j.MaxCTC, &j.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get job: %w", err)
	}

	rows, err := db.pool.Query(ctx,
		`SELECT skill_name, min_rating FROM job_required_skills WHERE job_id = $1 ORDER BY position`,
		jobID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get required skills: %w", err)
	}
	defer rows.Close()

	j.RequiredSkills = []types.RequiredSkill{}
	for rows.Next() {
		var s types.RequiredSkill
		if err := rows.Scan(&s.SkillName, &s.MinRating); err != nil {
			return nil, fmt.Errorf("failed to scan required skill: %w", err)
		}
		j.RequiredSkills = append(j.RequiredSkills, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read required skills: %w", err)
	}
	return &j, nil
}
