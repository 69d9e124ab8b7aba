// Package types provides type definitions for structured data used throughout the careergate system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"time"

	"github.com/google/uuid"
)

// SkillRating is a candidate's self-assessed rating for one skill.
type SkillRating struct {
	SkillName string `json:"skill_name" validate:"required,max=100"`
	Rating    int    `json:"rating" validate:"min=1,max=5"`
}

// ResumeRef points at an uploaded resume file.
type ResumeRef struct {
	URL         string `json:"url,omitempty" validate:"omitempty,url"`
	StoragePath string `json:"storage_path,omitempty"`
	ContentType string `json:"content_type,omitempty"`
}

// IsZero reports whether the reference points nowhere.
func (r *ResumeRef) IsZero() bool {
	return r == nil || (r.URL == "" && r.StoragePath == "")
}

// Profile is the candidate-owned record matched against jobs.
// Skills are replaced as a set on every update.
type Profile struct {
	CandidateID      uuid.UUID     `json:"candidate_id"`
	TotalExperience  float64       `json:"total_experience" validate:"gte=0"`
	CurrentCTC       float64       `json:"current_ctc" validate:"gte=0"`
	ExpectedCTC      float64       `json:"expected_ctc" validate:"gte=0"`
	NoticePeriodDays int           `json:"notice_period_days" validate:"gte=0"`
	Resume           *ResumeRef    `json:"resume,omitempty"`
	ResumeText       string        `json:"resume_text,omitempty"`
	Skills           []SkillRating `json:"skills" validate:"dive"`
	UpdatedAt        time.Time     `json:"updated_at"`
}

// HasResume reports whether the profile carries a usable resume reference.
func (p *Profile) HasResume() bool {
	return !p.Resume.IsZero()
}
