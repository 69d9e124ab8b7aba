package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/jonathan/careergate/internal/llm"
	"github.com/jonathan/careergate/internal/prompts"
	"github.com/jonathan/careergate/internal/schemas"
	schemafiles "github.com/jonathan/careergate/schemas"
)

// maxResumeChars bounds the resume text placed in a prompt.
const maxResumeChars = 20000

// LLMAnalyzer implements Analyzer on top of an llm.Client.
type LLMAnalyzer struct {
	client llm.Client
	tier   llm.ModelTier
}

// NewLLMAnalyzer creates an analyzer using the standard model tier.
func NewLLMAnalyzer(client llm.Client) *LLMAnalyzer {
	return &LLMAnalyzer{client: client, tier: llm.TierStandard}
}

// Analyze asks the model for experience and resume scores plus per-skill suggestions.
func (a *LLMAnalyzer) Analyze(ctx context.Context, req AnalysisRequest) (*AnalysisResponse, error) {
	if req.Job == nil {
		return nil, fmt.Errorf("analysis request has no job")
	}

	prompt, err := prompts.Render(prompts.CompatibilityFile, prompts.KeyAnalyzeCompatibility, map[string]string{
		"JobTitle":        req.Job.Title,
		"CompanyName":     req.Job.CompanyName,
		"ExperienceRange": fmt.Sprintf("%g-%g", req.Job.MinExperience, req.Job.MaxExperience),
		"JobDescription":  req.Job.Description,
		"SkillMatches":    formatMatches(req),
		"TotalExperience": fmt.Sprintf("%g", req.TotalExperience),
		"ResumeText":      truncateRunes(req.ResumeText, maxResumeChars),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build analysis prompt: %w", err)
	}

	raw, err := a.client.GenerateJSON(ctx, prompt, a.tier)
	if err != nil {
		return nil, &CallError{Message: "analysis request failed", Cause: err}
	}
	return parseAnalysis(raw)
}

type analysisPayload struct {
	ExperienceMatchScore *float64         `json:"experience_match_score"`
	ResumeMatchScore     *float64         `json:"resume_match_score"`
	Summary              string           `json:"summary"`
	SkillSuggestions     map[string]string `json:"skill_suggestions"`
}

func parseAnalysis(raw string) (*AnalysisResponse, error) {
	raw = llm.CleanJSONBlock(raw)
	if err := schemas.Validate(schemafiles.AnalysisResponse, raw); err != nil {
		return nil, &ParseError{Message: "analysis response failed schema validation", Cause: err}
	}

	var p analysisPayload
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return nil, &ParseError{Message: "failed to decode analysis response", Cause: err}
	}

	return &AnalysisResponse{
		ExperienceMatchScore: roundScore(p.ExperienceMatchScore),
		ResumeMatchScore:     roundScore(p.ResumeMatchScore),
		Summary:              strings.TrimSpace(p.Summary),
		Suggestions:          p.SkillSuggestions,
	}, nil
}

func formatMatches(req AnalysisRequest) string {
	if len(req.Matches) == 0 {
		return "(none listed)"
	}
	var sb strings.Builder
	for _, m := range req.Matches {
		fmt.Fprintf(&sb, "- %s: %d / %d\n", m.SkillName, m.RequiredRating, m.UserRating)
	}
	return strings.TrimRight(sb.String(), "\n")
}

// roundScore clamps before converting; out-of-range floats do not survive int().
func roundScore(v *float64) *int {
	if v == nil {
		return nil
	}
	n := int(math.Round(math.Max(0, math.Min(100, *v))))
	return &n
}

func truncateRunes(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit])
}
