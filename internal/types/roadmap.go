package types

import (
	"time"

	"github.com/google/uuid"
)

// Roadmap is the learning plan for one candidate/job pair.
type Roadmap struct {
	ID                    uuid.UUID      `json:"id"`
	CandidateID           uuid.UUID      `json:"candidate_id"`
	JobID                 uuid.UUID      `json:"job_id"`
	CompatibilityResultID uuid.UUID      `json:"compatibility_result_id"`
	JobTitle              string         `json:"job_title,omitempty"`
	CreatedAt             time.Time      `json:"created_at"`
	Items                 []LearningItem `json:"items,omitempty"`
}

// LearningItem is one day of a roadmap. (WeekNo, DayNo) is unique per roadmap.
type LearningItem struct {
	ID                 uuid.UUID  `json:"id"`
	RoadmapID          uuid.UUID  `json:"roadmap_id"`
	WeekNo             int        `json:"week_no"`
	DayNo              int        `json:"day_no"`
	Title              string     `json:"title"`
	Description        string     `json:"description"`
	YouTubeVideoID     string     `json:"youtube_video_id,omitempty"`
	YouTubeSearchQuery string     `json:"youtube_search_query,omitempty"`
	ArticleLinks       []string   `json:"article_links"`
	Completed          bool       `json:"completed"`
	CompletedAt        *time.Time `json:"completed_at,omitempty"`
}

// LearningItemDraft is a learning item before it is persisted.
type LearningItemDraft struct {
	WeekNo             int      `json:"week_no"`
	DayNo              int      `json:"day_no"`
	Title              string   `json:"title"`
	Description        string   `json:"description"`
	YouTubeVideoID     string   `json:"youtube_video_id,omitempty"`
	YouTubeSearchQuery string   `json:"youtube_search_query,omitempty"`
	ArticleLinks       []string `json:"article_links"`
}

// Progress is computed from learning items at read time and never stored.
type Progress struct {
	RoadmapID      uuid.UUID      `json:"roadmap_id"`
	TotalItems     int            `json:"total_items"`
	CompletedItems int            `json:"completed_items"`
	Percent        int            `json:"percent"`
	Weeks          []WeekProgress `json:"weeks"`
}

// WeekProgress is the per-week slice of Progress.
type WeekProgress struct {
	WeekNo         int `json:"week_no"`
	TotalItems     int `json:"total_items"`
	CompletedItems int `json:"completed_items"`
	Percent        int `json:"percent"`
}

// CandidateStats backs the candidate dashboard.
type CandidateStats struct {
	AverageCompatibility float64 `json:"average_compatibility"`
	AverageSkillScore    float64 `json:"average_skill_score"`
	ActiveRoadmaps       int     `json:"active_roadmaps"`
	JobsAnalysed         int     `json:"jobs_analysed"`
}

// RecruiterStats backs the recruiter dashboard. Counts cover every
// compatibility result computed against the recruiter's jobs.
type RecruiterStats struct {
	JobsPosted        int     `json:"jobs_posted"`
	TotalApplicants   int     `json:"total_applicants"`
	AverageSkillScore float64 `json:"average_skill_score"`
	TopMatches        int     `json:"top_matches"`
}
