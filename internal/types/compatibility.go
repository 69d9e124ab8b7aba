package types

import (
	"time"

	"github.com/google/uuid"
)

// CompatibilityResult is an immutable snapshot of one candidate/job analysis.
// CompatibilityScore is always derived from the three sub-scores.
type CompatibilityResult struct {
	ID                   uuid.UUID  `json:"id"`
	CandidateID          uuid.UUID  `json:"candidate_id"`
	JobID                uuid.UUID  `json:"job_id"`
	CompatibilityScore   int        `json:"compatibility_score"`
	SkillMatchScore      int        `json:"skill_match_score"`
	ExperienceMatchScore int        `json:"experience_match_score"`
	ResumeMatchScore     int        `json:"resume_match_score"`
	AIAnalysisSummary    string     `json:"ai_analysis_summary"`
	Gaps                 []SkillGap `json:"skill_gaps"`
	CreatedAt            time.Time  `json:"created_at"`
}

// SkillGap is a required skill the candidate falls short on. Gap is always > 0.
type SkillGap struct {
	ID                     uuid.UUID `json:"id"`
	SkillName              string    `json:"skill_name"`
	RequiredRating         int       `json:"required_rating"`
	UserRating             int       `json:"user_rating"`
	Gap                    int       `json:"gap"`
	ImprovementSuggestions string    `json:"improvement_suggestions"`
}
