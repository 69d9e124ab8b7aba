package analysis

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/jonathan/careergate/internal/llm"
	"github.com/jonathan/careergate/internal/skills"
	"github.com/jonathan/careergate/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubClient is a canned llm.Client.
type stubClient struct {
	response string
	err      error
	prompts  []string
	tiers    []llm.ModelTier
}

func (s *stubClient) GenerateContent(ctx context.Context, prompt string, tier llm.ModelTier) (string, error) {
	return s.GenerateJSON(ctx, prompt, tier)
}

func (s *stubClient) GenerateJSON(_ context.Context, prompt string, tier llm.ModelTier) (string, error) {
	s.prompts = append(s.prompts, prompt)
	s.tiers = append(s.tiers, tier)
	return s.response, s.err
}

func (s *stubClient) GetModel(llm.ModelTier) string { return "stub" }
func (s *stubClient) Close() error                  { return nil }

func testJob() *types.Job {
	return &types.Job{
		Title:         "Backend Engineer",
		CompanyName:   "Acme",
		Description:   "Build Java services backed by PostgreSQL.",
		MinExperience: 2,
		MaxExperience: 5,
		RequiredSkills: []types.RequiredSkill{
			{SkillName: "Java", MinRating: 3},
			{SkillName: "SQL", MinRating: 4},
		},
	}
}

func TestLLMAnalyzer_Analyze(t *testing.T) {
	client := &stubClient{response: "```json\n" + `{
		"experience_match_score": 72.6,
		"resume_match_score": 64,
		"summary": "  Strong Java, limited SQL.  ",
		"skill_suggestions": {"SQL": "Practise window functions."}
	}` + "\n```"}
	analyzer := NewLLMAnalyzer(client)

	job := testJob()
	ratings := []types.SkillRating{{SkillName: "Java", Rating: 4}, {SkillName: "SQL", Rating: 2}}
	resp, err := analyzer.Analyze(context.Background(), AnalysisRequest{
		Job:             job,
		TotalExperience: 3,
		Ratings:         ratings,
		ResumeText:      "Five years of Spring Boot.",
		Matches:         skills.Compare(ratings, job.RequiredSkills),
	})
	require.NoError(t, err)

	require.NotNil(t, resp.ExperienceMatchScore)
	assert.Equal(t, 73, *resp.ExperienceMatchScore)
	require.NotNil(t, resp.ResumeMatchScore)
	assert.Equal(t, 64, *resp.ResumeMatchScore)
	assert.Equal(t, "Strong Java, limited SQL.", resp.Summary)
	assert.Equal(t, "Practise window functions.", resp.SuggestionFor("sql"))
	assert.Equal(t, "", resp.SuggestionFor("Docker"))

	require.Len(t, client.prompts, 1)
	assert.Equal(t, llm.TierStandard, client.tiers[0])
	prompt := client.prompts[0]
	assert.Contains(t, prompt, "Backend Engineer")
	assert.Contains(t, prompt, "- SQL: 4 / 2")
	assert.Contains(t, prompt, "Five years of Spring Boot.")
	assert.Contains(t, prompt, "2-5")
	assert.NotContains(t, prompt, "{{.")
}

func TestLLMAnalyzer_MissingScoresAreNil(t *testing.T) {
	analyzer := NewLLMAnalyzer(&stubClient{response: `{"summary": "partial"}`})

	resp, err := analyzer.Analyze(context.Background(), AnalysisRequest{Job: testJob()})
	require.NoError(t, err)
	assert.Nil(t, resp.ExperienceMatchScore)
	assert.Nil(t, resp.ResumeMatchScore)
}

func TestLLMAnalyzer_ClampsOutOfRangeScores(t *testing.T) {
	tests := []struct {
		name     string
		response string
		wantExp  int
		wantRes  int
	}{
		{name: "huge", response: `{"experience_match_score": 1e30, "resume_match_score": -1e30}`, wantExp: 100, wantRes: 0},
		{name: "slightly out", response: `{"experience_match_score": 100.4, "resume_match_score": -0.4}`, wantExp: 100, wantRes: 0},
		{name: "in range", response: `{"experience_match_score": 99.5, "resume_match_score": 0.5}`, wantExp: 100, wantRes: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := NewLLMAnalyzer(&stubClient{response: tt.response}).Analyze(context.Background(), AnalysisRequest{Job: testJob()})
			require.NoError(t, err)
			require.NotNil(t, resp.ExperienceMatchScore)
			require.NotNil(t, resp.ResumeMatchScore)
			assert.Equal(t, tt.wantExp, *resp.ExperienceMatchScore)
			assert.Equal(t, tt.wantRes, *resp.ResumeMatchScore)
		})
	}
}

func TestLLMAnalyzer_Errors(t *testing.T) {
	t.Run("provider failure", func(t *testing.T) {
		cause := errors.New("quota exceeded")
		analyzer := NewLLMAnalyzer(&stubClient{err: cause})

		_, err := analyzer.Analyze(context.Background(), AnalysisRequest{Job: testJob()})
		var callErr *CallError
		require.True(t, errors.As(err, &callErr))
		assert.ErrorIs(t, err, cause)
	})

	t.Run("deadline is preserved", func(t *testing.T) {
		analyzer := NewLLMAnalyzer(&stubClient{err: context.DeadlineExceeded})

		_, err := analyzer.Analyze(context.Background(), AnalysisRequest{Job: testJob()})
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})

	t.Run("malformed JSON", func(t *testing.T) {
		analyzer := NewLLMAnalyzer(&stubClient{response: `{"experience_match_score": `})

		_, err := analyzer.Analyze(context.Background(), AnalysisRequest{Job: testJob()})
		var parseErr *ParseError
		assert.True(t, errors.As(err, &parseErr))
	})

	t.Run("wrong types", func(t *testing.T) {
		analyzer := NewLLMAnalyzer(&stubClient{response: `{"experience_match_score": "high", "resume_match_score": 50}`})

		_, err := analyzer.Analyze(context.Background(), AnalysisRequest{Job: testJob()})
		var parseErr *ParseError
		assert.True(t, errors.As(err, &parseErr))
	})

	t.Run("no job", func(t *testing.T) {
		analyzer := NewLLMAnalyzer(&stubClient{})
		_, err := analyzer.Analyze(context.Background(), AnalysisRequest{})
		assert.Error(t, err)
	})
}

func TestLLMPlanGenerator_NestedWeeks(t *testing.T) {
	client := &stubClient{response: `{
		"weeks": [
			{"weekNo": 1, "days": [
				{"dayNo": 1, "title": "SQL joins", "description": "Inner and outer joins", "youtubeVideoId": "HXV3zeQKqGY", "articleLinks": ["https://www.postgresql.org/docs/current/tutorial-join.html"]},
				{"title": "Indexes", "youtubeSearchQuery": "postgres indexes tutorial"}
			]},
			{"days": [{"dayNo": 1, "title": "Docker basics"}]}
		]
	}`}
	gen := NewLLMPlanGenerator(client)

	drafts, err := gen.GeneratePlan(context.Background(), PlanRequest{
		Job:     testJob(),
		Summary: "Needs SQL depth",
		Gaps:    []types.SkillGap{{SkillName: "SQL", RequiredRating: 4, UserRating: 2, Gap: 2}},
	})
	require.NoError(t, err)
	require.Len(t, drafts, 3)

	assert.Equal(t, types.LearningItemDraft{
		WeekNo:         1,
		DayNo:          1,
		Title:          "SQL joins",
		Description:    "Inner and outer joins",
		YouTubeVideoID: "HXV3zeQKqGY",
		ArticleLinks:   []string{"https://www.postgresql.org/docs/current/tutorial-join.html"},
	}, drafts[0])
	assert.Equal(t, 1, drafts[1].WeekNo)
	assert.Equal(t, 2, drafts[1].DayNo)
	assert.Equal(t, "postgres indexes tutorial", drafts[1].YouTubeSearchQuery)
	assert.Equal(t, 2, drafts[2].WeekNo)
	assert.Equal(t, 1, drafts[2].DayNo)

	assert.Equal(t, llm.TierAdvanced, client.tiers[0])
	prompt := client.prompts[0]
	assert.Contains(t, prompt, "- SQL: 2 -> 4")
	assert.Contains(t, prompt, "Plan 2 weeks")
	assert.Contains(t, prompt, "Needs SQL depth")
	assert.Contains(t, prompt, "closing the skill gaps")
}

func TestLLMPlanGenerator_FlatItemsAndReadinessFocus(t *testing.T) {
	client := &stubClient{response: `{"items": [{"weekNo": 0, "dayNo": 0, "title": "Mock interview"}, {"title": "Portfolio"}]}`}
	gen := NewLLMPlanGenerator(client)

	drafts, err := gen.GeneratePlan(context.Background(), PlanRequest{Job: testJob()})
	require.NoError(t, err)
	require.Len(t, drafts, 2)
	// Explicit zeros pass through for repair; missing numbers are positional.
	assert.Equal(t, 0, drafts[0].WeekNo)
	assert.Equal(t, 0, drafts[0].DayNo)
	assert.Equal(t, 1, drafts[1].WeekNo)
	assert.Equal(t, 2, drafts[1].DayNo)

	assert.Contains(t, client.prompts[0], "role-readiness")
}

func TestLLMPlanGenerator_OutOfRangeNumbersStayInInt32(t *testing.T) {
	client := &stubClient{response: `{"items": [{"weekNo": 1e10, "dayNo": -1e30, "title": "Far future"}]}`}

	drafts, err := NewLLMPlanGenerator(client).GeneratePlan(context.Background(), PlanRequest{Job: testJob()})
	require.NoError(t, err)
	require.Len(t, drafts, 1)
	assert.Equal(t, math.MaxInt32, drafts[0].WeekNo)
	assert.Equal(t, 0, drafts[0].DayNo)
}

func TestLLMPlanGenerator_EmptyPlanIsNotAnError(t *testing.T) {
	gen := NewLLMPlanGenerator(&stubClient{response: `{"weeks": []}`})

	drafts, err := gen.GeneratePlan(context.Background(), PlanRequest{Job: testJob()})
	require.NoError(t, err)
	assert.Empty(t, drafts)
}

func TestLLMPlanGenerator_Errors(t *testing.T) {
	t.Run("unrecognised shape", func(t *testing.T) {
		gen := NewLLMPlanGenerator(&stubClient{response: `{"plan": "read books"}`})
		_, err := gen.GeneratePlan(context.Background(), PlanRequest{Job: testJob()})
		var parseErr *ParseError
		assert.True(t, errors.As(err, &parseErr))
	})

	t.Run("provider failure", func(t *testing.T) {
		gen := NewLLMPlanGenerator(&stubClient{err: errors.New("503")})
		_, err := gen.GeneratePlan(context.Background(), PlanRequest{Job: testJob()})
		var callErr *CallError
		assert.True(t, errors.As(err, &callErr))
	})
}

func TestSuggestedWeeks(t *testing.T) {
	tests := []struct {
		name     string
		gaps     []types.SkillGap
		expected int
	}{
		{"no gaps", nil, 2},
		{"small total", []types.SkillGap{{Gap: 1}, {Gap: 2}}, 2},
		{"medium total", []types.SkillGap{{Gap: 4}, {Gap: 3}, {Gap: 3}}, 5},
		{"capped", []types.SkillGap{{Gap: 4}, {Gap: 4}, {Gap: 4}, {Gap: 4}, {Gap: 4}}, 8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SuggestedWeeks(tt.gaps))
		})
	}
}
