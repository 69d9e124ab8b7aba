// Package analysis defines the collaborator boundaries that supply semantic judgments:
// compatibility scoring and learning plan content.
package analysis

import (
	"context"

	"github.com/jonathan/careergate/internal/skills"
	"github.com/jonathan/careergate/internal/types"
)

// AnalysisRequest is everything the analysis collaborator sees about one pair.
type AnalysisRequest struct {
	Job             *types.Job
	TotalExperience float64
	Ratings         []types.SkillRating
	ResumeText      string
	Matches         []skills.Match
}

// AnalysisResponse is the collaborator's untrusted judgment.
// Nil scores mean the collaborator left them out.
type AnalysisResponse struct {
	ExperienceMatchScore *int
	ResumeMatchScore     *int
	Summary              string
	Suggestions          map[string]string
}

// SuggestionFor looks up an improvement suggestion by normalized skill name.
// It returns "" when the collaborator gave none.
func (r *AnalysisResponse) SuggestionFor(skill string) string {
	if r == nil {
		return ""
	}
	if s, ok := r.Suggestions[skill]; ok {
		return s
	}
	want := skills.NormalizeName(skill)
	for name, s := range r.Suggestions {
		if skills.NormalizeName(name) == want {
			return s
		}
	}
	return ""
}

// Analyzer scores experience and resume relevance for a candidate/job pair.
type Analyzer interface {
	Analyze(ctx context.Context, req AnalysisRequest) (*AnalysisResponse, error)
}

// PlanRequest asks for learning content that closes the given gaps.
type PlanRequest struct {
	Job     *types.Job
	Summary string
	Gaps    []types.SkillGap
	Weeks   int
}

// PlanGenerator produces draft learning items. Output is untrusted and repaired by the caller.
type PlanGenerator interface {
	GeneratePlan(ctx context.Context, req PlanRequest) ([]types.LearningItemDraft, error)
}

// SuggestedWeeks sizes a plan from the total rating shortfall: two points per week,
// between two and eight weeks.
func SuggestedWeeks(gaps []types.SkillGap) int {
	total := 0
	for _, g := range gaps {
		total += g.Gap
	}
	return max(2, min(8, (total+1)/2))
}
