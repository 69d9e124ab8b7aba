package skills

import (
	"testing"

	"github.com/jonathan/careergate/internal/types"
	"github.com/stretchr/testify/assert"
)

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Java", "java"},
		{"  Spring   Boot ", "spring boot"},
		{"SQL\t", "sql"},
		{"", ""},
		{"   ", ""},
		{"C++", "c++"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeName(tt.input))
		})
	}
}

func TestCompare_CandidateAgainstJob(t *testing.T) {
	ratings := []types.SkillRating{
		{SkillName: "Java", Rating: 4},
		{SkillName: "SQL", Rating: 2},
	}
	required := []types.RequiredSkill{
		{SkillName: "Java", MinRating: 3},
		{SkillName: "SQL", MinRating: 4},
		{SkillName: "Docker", MinRating: 2},
	}

	matches := Compare(ratings, required)

	assert.Equal(t, []Match{
		{SkillName: "Java", RequiredRating: 3, UserRating: 4},
		{SkillName: "SQL", RequiredRating: 4, UserRating: 2},
		{SkillName: "Docker", RequiredRating: 2, UserRating: 0},
	}, matches)

	gaps := Gaps(matches)
	assert.Len(t, gaps, 2)
	assert.Equal(t, "SQL", gaps[0].SkillName)
	assert.Equal(t, 2, gaps[0].Shortfall())
	assert.Equal(t, "Docker", gaps[1].SkillName)
	assert.Equal(t, 2, gaps[1].Shortfall())
	assert.Equal(t, 1, MetCount(matches))
}

func TestCompare_CaseAndWhitespaceInsensitive(t *testing.T) {
	ratings := []types.SkillRating{{SkillName: "  postgreSQL ", Rating: 5}}
	required := []types.RequiredSkill{{SkillName: "PostgreSQL", MinRating: 3}}

	matches := Compare(ratings, required)

	assert.Len(t, matches, 1)
	assert.Equal(t, 5, matches[0].UserRating)
	assert.True(t, matches[0].Met())
	assert.Empty(t, Gaps(matches))
}

func TestCompare_EmptyInputs(t *testing.T) {
	assert.Empty(t, Compare(nil, nil))

	matches := Compare(nil, []types.RequiredSkill{{SkillName: "Go", MinRating: 1}})
	assert.Equal(t, []Match{{SkillName: "Go", RequiredRating: 1, UserRating: 0}}, matches)

	assert.Empty(t, Compare([]types.SkillRating{{SkillName: "Go", Rating: 5}}, nil))
}

func TestCompare_ExactRatingMeetsRequirement(t *testing.T) {
	matches := Compare(
		[]types.SkillRating{{SkillName: "Go", Rating: 3}},
		[]types.RequiredSkill{{SkillName: "go", MinRating: 3}},
	)
	assert.True(t, matches[0].Met())
	assert.Equal(t, 0, matches[0].Shortfall())
}
