package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jonathan/careergate/internal/types"
)

// GetCandidateStats aggregates dashboard numbers over the latest result per
// job and the candidate's roadmaps that still have open items.
func (db *DB) GetCandidateStats(ctx context.Context, candidateID uuid.UUID) (*types.CandidateStats, error) {
	var stats types.CandidateStats
	err := db.pool.QueryRow(ctx,
		`WITH latest AS (
		     SELECT DISTINCT ON (job_id) compatibility_score, skill_match_score
		     FROM compatibility_results
		     WHERE user_id = $1
		     ORDER BY job_id, created_at DESC, id DESC
		 )
		 SELECT COALESCE(AVG(compatibility_score), 0)::float8,
		        COALESCE(AVG(skill_match_score), 0)::float8,
		        COUNT(*)::int
		 FROM latest`,
		candidateID,
	).Scan(&stats.AverageCompatibility, &stats.AverageSkillScore, &stats.JobsAnalysed)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate compatibility stats: %w", err)
	}

	err = db.pool.QueryRow(ctx,
		`SELECT COUNT(*)::int FROM roadmaps r
		 WHERE r.user_id = $1
		   AND EXISTS (SELECT 1 FROM learning_items li WHERE li.roadmap_id = r.id AND NOT li.completed)`,
		candidateID,
	).Scan(&stats.ActiveRoadmaps)
	if err != nil {
		return nil, fmt.Errorf("failed to count active roadmaps: %w", err)
	}
	return &stats, nil
}

// GetRecruiterStats counts the recruiter's jobs and aggregates every result
// computed against them. A recruiter with no jobs gets all zeros.
func (db *DB) GetRecruiterStats(ctx context.Context, recruiterID uuid.UUID, topMatchScore int) (*types.RecruiterStats, error) {
	var stats types.RecruiterStats
	err := db.pool.QueryRow(ctx,
		`SELECT (SELECT COUNT(*) FROM jobs WHERE recruiter_id = $1)::int,
		        COUNT(DISTINCT cr.user_id)::int,
		        COALESCE(AVG(cr.skill_match_score), 0)::float8,
		        COUNT(*) FILTER (WHERE cr.compatibility_score >= $2)::int
		 FROM compatibility_results cr
		 JOIN jobs j ON j.id = cr.job_id
		 WHERE j.recruiter_id = $1`,
		recruiterID, topMatchScore,
	).Scan(&stats.JobsPosted, &stats.TotalApplicants, &stats.AverageSkillScore, &stats.TopMatches)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate recruiter stats: %w", err)
	}
	return &stats, nil
}
