// Package skills compares a candidate's rated skills against a job's required skills.
package skills

import (
	"strings"

	"github.com/jonathan/careergate/internal/types"
)

// Match is one required skill paired with the candidate's rating for it.
// UserRating is 0 when the candidate never rated the skill.
type Match struct {
	SkillName      string `json:"skill_name"`
	RequiredRating int    `json:"required_rating"`
	UserRating     int    `json:"user_rating"`
}

// Met reports whether the candidate's rating reaches the requirement.
func (m Match) Met() bool {
	return m.UserRating >= m.RequiredRating
}

// Shortfall is RequiredRating - UserRating, or 0 when the requirement is met.
func (m Match) Shortfall() int {
	if m.Met() {
		return 0
	}
	return m.RequiredRating - m.UserRating
}

// NormalizeName trims, collapses inner whitespace and lower-cases a skill name.
// Skill names are free text, so this is the only identity they have.
func NormalizeName(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}

// Compare returns one entry per required skill, in the job's order.
func Compare(ratings []types.SkillRating, required []types.RequiredSkill) []Match {
	byName := make(map[string]int, len(ratings))
	for _, r := range ratings {
		key := NormalizeName(r.SkillName)
		if key == "" {
			continue
		}
		// Duplicates are rejected upstream; keep the highest if one slips through.
		if r.Rating > byName[key] {
			byName[key] = r.Rating
		}
	}

	matches := make([]Match, 0, len(required))
	for _, req := range required {
		matches = append(matches, Match{
			SkillName:      strings.TrimSpace(req.SkillName),
			RequiredRating: req.MinRating,
			UserRating:     byName[NormalizeName(req.SkillName)],
		})
	}
	return matches
}

// Gaps keeps only the matches where the candidate falls short.
func Gaps(matches []Match) []Match {
	gaps := make([]Match, 0, len(matches))
	for _, m := range matches {
		if !m.Met() {
			gaps = append(gaps, m)
		}
	}
	return gaps
}

// MetCount counts matches where the requirement is reached.
func MetCount(matches []Match) int {
	n := 0
	for _, m := range matches {
		if m.Met() {
			n++
		}
	}
	return n
}
