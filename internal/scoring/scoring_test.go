package scoring

import (
	"errors"
	"math"
	"testing"

	"github.com/jonathan/careergate/internal/skills"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func TestSkillMatchScore(t *testing.T) {
	tests := []struct {
		name     string
		matches  []skills.Match
		expected int
	}{
		{
			name:     "zero required skills is a full match",
			matches:  nil,
			expected: 100,
		},
		{
			name: "one of three met",
			matches: []skills.Match{
				{SkillName: "Java", RequiredRating: 3, UserRating: 4},
				{SkillName: "SQL", RequiredRating: 4, UserRating: 2},
				{SkillName: "Docker", RequiredRating: 2, UserRating: 0},
			},
			expected: 33,
		},
		{
			name: "two of three met rounds up",
			matches: []skills.Match{
				{SkillName: "a", RequiredRating: 1, UserRating: 1},
				{SkillName: "b", RequiredRating: 1, UserRating: 1},
				{SkillName: "c", RequiredRating: 2, UserRating: 1},
			},
			expected: 67,
		},
		{
			name:     "none met",
			matches:  []skills.Match{{SkillName: "a", RequiredRating: 5, UserRating: 4}},
			expected: 0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SkillMatchScore(tt.matches))
		})
	}
}

func TestAggregate_ScoreDerivedFromSubScores(t *testing.T) {
	matches := []skills.Match{
		{SkillName: "Java", RequiredRating: 3, UserRating: 4},
		{SkillName: "SQL", RequiredRating: 4, UserRating: 2},
		{SkillName: "Docker", RequiredRating: 2, UserRating: 0},
	}
	w := DefaultWeights()

	scores, err := Aggregate(matches, SubScores{Experience: intPtr(80), Resume: intPtr(70)}, w)
	require.NoError(t, err)

	assert.Equal(t, 33, scores.Skill)
	assert.Equal(t, 80, scores.Experience)
	assert.Equal(t, 70, scores.Resume)
	expected := int(math.Round(w.Skill*33 + w.Experience*80 + w.Resume*70))
	assert.Equal(t, expected, scores.Compatibility)
}

func TestAggregate_ConsistentForAnyValidWeights(t *testing.T) {
	weights := []Weights{
		DefaultWeights(),
		{Skill: 0.6, Experience: 0.2, Resume: 0.2},
		{Skill: 1, Experience: 0, Resume: 0},
	}
	for _, w := range weights {
		require.NoError(t, w.Validate())
		for exp := 0; exp <= 100; exp += 25 {
			scores, err := Aggregate(nil, SubScores{Experience: intPtr(exp), Resume: intPtr(100 - exp)}, w)
			require.NoError(t, err)
			assert.Equal(t, Combine(scores.Skill, scores.Experience, scores.Resume, w), scores.Compatibility)
			assert.GreaterOrEqual(t, scores.Compatibility, 0)
			assert.LessOrEqual(t, scores.Compatibility, 100)
		}
	}
}

func TestAggregate_ZeroRequiredSkills(t *testing.T) {
	scores, err := Aggregate(nil, SubScores{Experience: intPtr(0), Resume: intPtr(0)}, DefaultWeights())
	require.NoError(t, err)
	assert.Equal(t, 100, scores.Skill)
	assert.Equal(t, 50, scores.Compatibility)
}

func TestAggregate_ClampsOutOfRangeSubScores(t *testing.T) {
	scores, err := Aggregate(nil, SubScores{Experience: intPtr(140), Resume: intPtr(-5)}, DefaultWeights())
	require.NoError(t, err)
	assert.Equal(t, 100, scores.Experience)
	assert.Equal(t, 0, scores.Resume)
	assert.Equal(t, 75, scores.Compatibility)
}

func TestAggregate_MissingSubScores(t *testing.T) {
	tests := []struct {
		name    string
		sub     SubScores
		missing []string
	}{
		{"missing experience", SubScores{Resume: intPtr(50)}, []string{"experience_match_score"}},
		{"missing resume", SubScores{Experience: intPtr(50)}, []string{"resume_match_score"}},
		{"missing both", SubScores{}, []string{"experience_match_score", "resume_match_score"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Aggregate(nil, tt.sub, DefaultWeights())
			var incomplete *IncompleteError
			require.True(t, errors.As(err, &incomplete))
			assert.Equal(t, tt.missing, incomplete.Missing)
		})
	}
}

func TestWeights_Validate(t *testing.T) {
	assert.NoError(t, DefaultWeights().Validate())
	assert.Error(t, Weights{Skill: 0.5, Experience: 0.5, Resume: 0.5}.Validate())
	assert.Error(t, Weights{Skill: 1.5, Experience: -0.25, Resume: -0.25}.Validate())
	assert.NoError(t, Weights{Skill: 0.7, Experience: 0.2, Resume: 0.1}.Validate())
}
