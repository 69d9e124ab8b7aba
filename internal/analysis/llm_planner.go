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
	"github.com/jonathan/careergate/internal/types"
	schemafiles "github.com/jonathan/careergate/schemas"
)

// LLMPlanGenerator implements PlanGenerator on top of an llm.Client.
type LLMPlanGenerator struct {
	client llm.Client
	tier   llm.ModelTier
}

// NewLLMPlanGenerator creates a plan generator using the advanced model tier.
func NewLLMPlanGenerator(client llm.Client) *LLMPlanGenerator {
	return &LLMPlanGenerator{client: client, tier: llm.TierAdvanced}
}

// GeneratePlan asks the model for a week/day plan and flattens it into drafts.
// The drafts are not yet validated beyond their JSON shape.
func (g *LLMPlanGenerator) GeneratePlan(ctx context.Context, req PlanRequest) ([]types.LearningItemDraft, error) {
	if req.Job == nil {
		return nil, fmt.Errorf("plan request has no job")
	}

	weeks := req.Weeks
	if weeks <= 0 {
		weeks = SuggestedWeeks(req.Gaps)
	}
	focus := prompts.KeyFocusGaps
	if len(req.Gaps) == 0 {
		focus = prompts.KeyFocusReadiness
	}
	focusText, err := prompts.Get(prompts.RoadmapFile, focus)
	if err != nil {
		return nil, fmt.Errorf("failed to build plan prompt: %w", err)
	}

	prompt, err := prompts.Render(prompts.RoadmapFile, prompts.KeyGenerateRoadmap, map[string]string{
		"JobTitle":       req.Job.Title,
		"CompanyName":    req.Job.CompanyName,
		"JobDescription": req.Job.Description,
		"Summary":        req.Summary,
		"SkillGaps":      formatGaps(req.Gaps),
		"Focus":          focusText,
		"Weeks":          fmt.Sprintf("%d", weeks),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build plan prompt: %w", err)
	}

	raw, err := g.client.GenerateJSON(ctx, prompt, g.tier)
	if err != nil {
		return nil, &CallError{Message: "plan request failed", Cause: err}
	}
	return parsePlan(raw)
}

type planDay struct {
	WeekNo             *float64 `json:"weekNo"`
	DayNo              *float64 `json:"dayNo"`
	Title              string   `json:"title"`
	Description        string   `json:"description"`
	YouTubeVideoID     string   `json:"youtubeVideoId"`
	YouTubeSearchQuery string   `json:"youtubeSearchQuery"`
	ArticleLinks       []string `json:"articleLinks"`
}

type planPayload struct {
	Weeks []struct {
		WeekNo *float64  `json:"weekNo"`
		Days   []planDay `json:"days"`
	} `json:"weeks"`
	Items []planDay `json:"items"`
}

// parsePlan accepts {"weeks":[{"weekNo","days":[...]}]} or {"items":[...]}.
// Missing week or day numbers fall back to the position in the response.
func parsePlan(raw string) ([]types.LearningItemDraft, error) {
	raw = llm.CleanJSONBlock(raw)
	if err := schemas.Validate(schemafiles.PlanResponse, raw); err != nil {
		return nil, &ParseError{Message: "plan response failed schema validation", Cause: err}
	}

	var p planPayload
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return nil, &ParseError{Message: "failed to decode plan response", Cause: err}
	}

	var drafts []types.LearningItemDraft
	for wi, week := range p.Weeks {
		weekNo := numberOr(week.WeekNo, wi+1)
		for di, day := range week.Days {
			drafts = append(drafts, day.draft(weekNo, numberOr(day.DayNo, di+1)))
		}
	}
	for i, item := range p.Items {
		drafts = append(drafts, item.draft(numberOr(item.WeekNo, 1), numberOr(item.DayNo, i+1)))
	}
	return drafts, nil
}

func (d planDay) draft(weekNo, dayNo int) types.LearningItemDraft {
	return types.LearningItemDraft{
		WeekNo:             weekNo,
		DayNo:              dayNo,
		Title:              d.Title,
		Description:        d.Description,
		YouTubeVideoID:     d.YouTubeVideoID,
		YouTubeSearchQuery: d.YouTubeSearchQuery,
		ArticleLinks:       d.ArticleLinks,
	}
}

// numberOr keeps week and day numbers inside int32; repair handles the rest.
func numberOr(v *float64, fallback int) int {
	if v == nil {
		return fallback
	}
	return int(math.Round(math.Max(0, math.Min(math.MaxInt32, *v))))
}

func formatGaps(gaps []types.SkillGap) string {
	if len(gaps) == 0 {
		return "(no gaps)"
	}
	var sb strings.Builder
	for _, g := range gaps {
		fmt.Fprintf(&sb, "- %s: %d -> %d\n", g.SkillName, g.UserRating, g.RequiredRating)
	}
	return strings.TrimRight(sb.String(), "\n")
}
