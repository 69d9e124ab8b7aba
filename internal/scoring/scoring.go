// Package scoring combines skill, experience and resume sub-scores into a compatibility score.
package scoring

import (
	"fmt"
	"math"
	"strings"

	"github.com/jonathan/careergate/internal/skills"
)

const weightTolerance = 1e-6

// Weights are the coefficients of the compatibility formula.
type Weights struct {
	Skill      float64 `json:"skill"`
	Experience float64 `json:"experience"`
	Resume     float64 `json:"resume"`
}

// DefaultWeights returns the 50/25/25 split.
func DefaultWeights() Weights {
	return Weights{Skill: 0.5, Experience: 0.25, Resume: 0.25}
}

// Validate checks the weights are non-negative and sum to 1.
func (w Weights) Validate() error {
	if w.Skill < 0 || w.Experience < 0 || w.Resume < 0 {
		return fmt.Errorf("scoring weights must be non-negative: %+v", w)
	}
	if sum := w.Skill + w.Experience + w.Resume; math.Abs(sum-1) > weightTolerance {
		return fmt.Errorf("scoring weights must sum to 1, got %.6f", sum)
	}
	return nil
}

// SubScores are the collaborator-supplied parts of an analysis.
// A nil score means the collaborator omitted it.
type SubScores struct {
	Experience *int
	Resume     *int
}

// Scores is a complete, internally consistent score set.
type Scores struct {
	Compatibility int `json:"compatibility_score"`
	Skill         int `json:"skill_match_score"`
	Experience    int `json:"experience_match_score"`
	Resume        int `json:"resume_match_score"`
}

// IncompleteError reports sub-scores missing from an analysis response.
type IncompleteError struct {
	Missing []string
}

func (e *IncompleteError) Error() string {
	return fmt.Sprintf("incomplete analysis: missing %s", strings.Join(e.Missing, ", "))
}

// SkillMatchScore is the share of required skills met, as a rounded percentage.
// A job with no required skills is a vacuous full match.
func SkillMatchScore(matches []skills.Match) int {
	if len(matches) == 0 {
		return 100
	}
	return int(math.Round(100 * float64(skills.MetCount(matches)) / float64(len(matches))))
}

// Combine applies the weights to three in-range sub-scores.
func Combine(skill, experience, resume int, w Weights) int {
	return clamp(int(math.Round(
		w.Skill*float64(skill) + w.Experience*float64(experience) + w.Resume*float64(resume),
	)))
}

// Aggregate builds the full score set. Collaborator scores are re-clamped to [0,100].
func Aggregate(matches []skills.Match, sub SubScores, w Weights) (Scores, error) {
	var missing []string
	if sub.Experience == nil {
		missing = append(missing, "experience_match_score")
	}
	if sub.Resume == nil {
		missing = append(missing, "resume_match_score")
	}
	if len(missing) > 0 {
		return Scores{}, &IncompleteError{Missing: missing}
	}

	s := Scores{
		Skill:      SkillMatchScore(matches),
		Experience: clamp(*sub.Experience),
		Resume:     clamp(*sub.Resume),
	}
	s.Compatibility = Combine(s.Skill, s.Experience, s.Resume, w)
	return s, nil
}

func clamp(v int) int {
	return max(0, min(100, v))
}
