package types

import (
	"time"

	"github.com/google/uuid"
)

// RequiredSkill is a skill a job asks for, with the minimum acceptable rating.
type RequiredSkill struct {
	SkillName string `json:"skill_name" validate:"required,max=100"`
	MinRating int    `json:"min_rating" validate:"min=1,max=5"`
}

// Job is a recruiter-owned posting.
type Job struct {
	ID             uuid.UUID       `json:"id"`
	RecruiterID    uuid.UUID       `json:"recruiter_id"`
	Title          string          `json:"title" validate:"required,max=200"`
	CompanyName    string          `json:"company_name" validate:"required,max=200"`
	Description    string          `json:"description"`
	MinExperience  float64         `json:"min_experience" validate:"gte=0"`
	MaxExperience  float64         `json:"max_experience" validate:"gte=0"`
	MinCTC         float64         `json:"min_ctc" validate:"gte=0"`
	MaxCTC         float64         `json:"max_ctc" validate:"gte=0"`
	RequiredSkills []RequiredSkill `json:"required_skills" validate:"dive"`
	CreatedAt      time.Time       `json:"created_at"`
}
