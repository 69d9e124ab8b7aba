package types

import (
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateProfile(t *testing.T) {
	tests := []struct {
		name    string
		profile Profile
		wantErr bool
		tag     string
	}{
		{
			name: "valid profile",
			profile: Profile{
				TotalExperience: 3,
				Skills:          []SkillRating{{SkillName: "Java", Rating: 4}, {SkillName: "SQL", Rating: 2}},
			},
		},
		{
			name:    "empty skill set is valid",
			profile: Profile{},
		},
		{
			name:    "rating above five",
			profile: Profile{Skills: []SkillRating{{SkillName: "Go", Rating: 6}}},
			wantErr: true,
			tag:     "max",
		},
		{
			name:    "rating below one",
			profile: Profile{Skills: []SkillRating{{SkillName: "Go", Rating: 0}}},
			wantErr: true,
			tag:     "min",
		},
		{
			name:    "negative experience",
			profile: Profile{TotalExperience: -1},
			wantErr: true,
			tag:     "gte",
		},
		{
			name: "duplicate skill differing only in case and spacing",
			profile: Profile{Skills: []SkillRating{
				{SkillName: "Spring Boot", Rating: 3},
				{SkillName: "  spring   boot ", Rating: 2},
			}},
			wantErr: true,
			tag:     "unique_skill",
		},
		{
			name:    "invalid resume url",
			profile: Profile{Resume: &ResumeRef{URL: "not a url"}},
			wantErr: true,
			tag:     "url",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateProfile(&tt.profile)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			var verrs validator.ValidationErrors
			require.True(t, errors.As(err, &verrs))
			assert.Equal(t, tt.tag, verrs[0].Tag())
		})
	}
}

func TestValidateJob(t *testing.T) {
	base := func() Job {
		return Job{
			Title:          "Backend Engineer",
			CompanyName:    "Acme",
			MinExperience:  1,
			MaxExperience:  4,
			MinCTC:         10,
			MaxCTC:         20,
			RequiredSkills: []RequiredSkill{{SkillName: "Java", MinRating: 3}},
		}
	}

	t.Run("valid job", func(t *testing.T) {
		j := base()
		assert.NoError(t, ValidateJob(&j))
	})

	t.Run("zero required skills is valid", func(t *testing.T) {
		j := base()
		j.RequiredSkills = nil
		assert.NoError(t, ValidateJob(&j))
	})

	t.Run("min experience above max", func(t *testing.T) {
		j := base()
		j.MinExperience = 5
		err := ValidateJob(&j)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "max_experience")
	})

	t.Run("min ctc above max", func(t *testing.T) {
		j := base()
		j.MinCTC = 30
		err := ValidateJob(&j)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "max_ctc")
	})

	t.Run("duplicate required skill", func(t *testing.T) {
		j := base()
		j.RequiredSkills = append(j.RequiredSkills, RequiredSkill{SkillName: "JAVA", MinRating: 2})
		err := ValidateJob(&j)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unique_skill")
	})

	t.Run("missing title", func(t *testing.T) {
		j := base()
		j.Title = ""
		assert.Error(t, ValidateJob(&j))
	})
}

func TestProfile_HasResume(t *testing.T) {
	assert.False(t, (&Profile{}).HasResume())
	assert.False(t, (&Profile{Resume: &ResumeRef{}}).HasResume())
	assert.True(t, (&Profile{Resume: &ResumeRef{StoragePath: "resumes/a.pdf"}}).HasResume())
	assert.True(t, (&Profile{Resume: &ResumeRef{URL: "https://cdn.example.com/a.pdf"}}).HasResume())
}
