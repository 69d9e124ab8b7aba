package types

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterStructValidation(profileStructLevel, Profile{})
	v.RegisterStructValidation(jobStructLevel, Job{})
	return v
}

// ValidateProfile checks rating bounds, non-negative numbers and skill name uniqueness.
func ValidateProfile(p *Profile) error {
	return validate.Struct(p)
}

// ValidateJob checks rating bounds, min/max ordering and skill name uniqueness.
func ValidateJob(j *Job) error {
	return validate.Struct(j)
}

func profileStructLevel(sl validator.StructLevel) {
	p := sl.Current().Interface().(Profile)
	seen := make(map[string]bool, len(p.Skills))
	for _, s := range p.Skills {
		key := skillKey(s.SkillName)
		if seen[key] {
			sl.ReportError(s.SkillName, "skills", "Skills", "unique_skill", s.SkillName)
			return
		}
		seen[key] = true
	}
}

func jobStructLevel(sl validator.StructLevel) {
	j := sl.Current().Interface().(Job)
	if j.MinExperience > j.MaxExperience {
		sl.ReportError(j.MaxExperience, "max_experience", "MaxExperience", "gtefield", "min_experience")
	}
	if j.MinCTC > j.MaxCTC {
		sl.ReportError(j.MaxCTC, "max_ctc", "MaxCTC", "gtefield", "min_ctc")
	}
	seen := make(map[string]bool, len(j.RequiredSkills))
	for _, s := range j.RequiredSkills {
		key := skillKey(s.SkillName)
		if seen[key] {
			sl.ReportError(s.SkillName, "required_skills", "RequiredSkills", "unique_skill", s.SkillName)
			return
		}
		seen[key] = true
	}
}

// skillKey mirrors skills.NormalizeName; types cannot import skills.
func skillKey(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}
