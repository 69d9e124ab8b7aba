// Package pipeline orchestrates compatibility analysis and learning roadmap
// generation for (candidate, job) pairs.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/careergate/internal/analysis"
	"github.com/jonathan/careergate/internal/events"
	"github.com/jonathan/careergate/internal/ingestion"
	"github.com/jonathan/careergate/internal/scoring"
	"github.com/jonathan/careergate/internal/skills"
	"github.com/jonathan/careergate/internal/types"
)

// DefaultCollaboratorTimeout bounds a single analysis or content call.
const DefaultCollaboratorTimeout = 45 * time.Second

// TopMatchScore is the compatibility score at which a result counts as a top match.
const TopMatchScore = 80

// CompatibilityOptions holds optional dependencies. Zero values get defaults.
type CompatibilityOptions struct {
	Weights   scoring.Weights
	Timeout   time.Duration
	Locker    Locker
	Publisher events.Publisher
	Resumes   ingestion.ResumeSource
	Logger    *slog.Logger
}

// CompatibilityService computes and reads compatibility results.
type CompatibilityService struct {
	store     CompatibilityStore
	analyzer  analysis.Analyzer
	resumes   ingestion.ResumeSource
	publisher events.Publisher
	locker    Locker
	weights   scoring.Weights
	timeout   time.Duration
	logger    *slog.Logger
	group     KeyedGroup
}

// NewCompatibilityService wires a service. It fails on invalid weights.
func NewCompatibilityService(store CompatibilityStore, analyzer analysis.Analyzer, opts CompatibilityOptions) (*CompatibilityService, error) {
	if opts.Weights == (scoring.Weights{}) {
		opts.Weights = scoring.DefaultWeights()
	}
	if err := opts.Weights.Validate(); err != nil {
		return nil, err
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultCollaboratorTimeout
	}
	if opts.Locker == nil {
		opts.Locker = NopLocker{}
	}
	if opts.Publisher == nil {
		opts.Publisher = events.NopPublisher{}
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	return &CompatibilityService{
		store:     store,
		analyzer:  analyzer,
		resumes:   opts.Resumes,
		publisher: opts.Publisher,
		locker:    opts.Locker,
		weights:   opts.Weights,
		timeout:   opts.Timeout,
		logger:    opts.Logger,
	}, nil
}

// Weights returns the weights results are scored with.
func (s *CompatibilityService) Weights() scoring.Weights {
	return s.weights
}

// ComputeCompatibility analyses a candidate against a job and persists a new
// result with its skill gaps. Concurrent calls for the same pair share one
// computation.
func (s *CompatibilityService) ComputeCompatibility(ctx context.Context, candidateID, jobID uuid.UUID) (*types.CompatibilityResult, error) {
	key := Key("compatibility", candidateID, jobID)

	// The shared call must not die with whichever caller happened to start it.
	callCtx := context.WithoutCancel(ctx)
	v, shared, err := s.group.Do(ctx, key, func() (any, error) {
		return s.compute(callCtx, key, candidateID, jobID)
	})
	if err != nil {
		return nil, err
	}
	if shared {
		s.logger.Debug("joined in-flight compatibility analysis", slog.String("key", key))
	}
	return v.(*types.CompatibilityResult), nil
}

func (s *CompatibilityService) compute(ctx context.Context, key string, candidateID, jobID uuid.UUID) (*types.CompatibilityResult, error) {
	profile, err := s.store.GetProfile(ctx, candidateID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, ErrProfileNotFound
	}
	if !profile.HasResume() {
		return nil, ErrResumeRequired
	}

	job, err := s.store.GetJob(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, ErrJobNotFound
	}

	release, err := s.locker.Acquire(ctx, key)
	if err != nil {
		return nil, err
	}
	defer release()

	resumeText, err := s.resumeText(ctx, profile)
	if err != nil {
		return nil, err
	}

	matches := skills.Compare(profile.Skills, job.RequiredSkills)
	resp, err := s.analyze(ctx, analysis.AnalysisRequest{
		Job:             withCleanDescription(job),
		TotalExperience: profile.TotalExperience,
		Ratings:         profile.Skills,
		ResumeText:      resumeText,
		Matches:         matches,
	})
	if err != nil {
		return nil, err
	}

	scores, err := scoring.Aggregate(matches, scoring.SubScores{
		Experience: resp.ExperienceMatchScore,
		Resume:     resp.ResumeMatchScore,
	}, s.weights)
	if err != nil {
		return nil, classify(ctx, "analysis", err)
	}

	saved, err := s.store.CreateCompatibilityResult(ctx, &types.CompatibilityResult{
		ID:                   uuid.New(),
		CandidateID:          candidateID,
		JobID:                jobID,
		CompatibilityScore:   scores.Compatibility,
		SkillMatchScore:      scores.Skill,
		ExperienceMatchScore: scores.Experience,
		ResumeMatchScore:     scores.Resume,
		AIAnalysisSummary:    resp.Summary,
		Gaps:                 buildGaps(matches, resp),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to save compatibility result: %w", err)
	}

	s.logger.Info("compatibility computed",
		slog.String("candidate_id", candidateID.String()),
		slog.String("job_id", jobID.String()),
		slog.Int("compatibility_score", saved.CompatibilityScore),
		slog.Int("gaps", len(saved.Gaps)))

	publish(ctx, s.publisher, s.logger, events.New(events.CompatibilityComputed, candidateID, map[string]any{
		"result_id":           saved.ID,
		"job_id":              jobID,
		"compatibility_score": saved.CompatibilityScore,
	}))
	return saved, nil
}

// resumeText prefers the stored text and falls back to downloading the
// referenced file. A reference that yields no text is no resume at all.
func (s *CompatibilityService) resumeText(ctx context.Context, profile *types.Profile) (string, error) {
	text := profile.ResumeText
	if strings.TrimSpace(text) == "" && s.resumes != nil && profile.Resume.StoragePath != "" {
		callCtx, cancel := context.WithTimeout(ctx, s.timeout)
		defer cancel()
		downloaded, err := s.resumes.ResumeText(callCtx, *profile.Resume)
		if err != nil {
			return "", classifyCall(ctx, callCtx, "resume", err)
		}
		text = downloaded
	}
	if strings.TrimSpace(text) == "" {
		return "", ErrResumeRequired
	}
	return text, nil
}

func (s *CompatibilityService) analyze(ctx context.Context, req analysis.AnalysisRequest) (*analysis.AnalysisResponse, error) {
	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	resp, err := s.analyzer.Analyze(callCtx, req)
	if err != nil {
		s.logger.Warn("analysis collaborator failed",
			slog.Duration("elapsed", time.Since(start)),
			slog.Any("error", err))
		return nil, classifyCall(ctx, callCtx, "analysis", err)
	}
	if resp == nil {
		return nil, &CollaboratorError{Collaborator: "analysis", Kind: KindMalformed}
	}
	return resp, nil
}

// buildGaps keeps the shortfalls only, so every gap is strictly positive.
// A missing suggestion is an empty string, never a failure.
func buildGaps(matches []skills.Match, resp *analysis.AnalysisResponse) []types.SkillGap {
	short := skills.Gaps(matches)
	gaps := make([]types.SkillGap, 0, len(short))
	for _, m := range short {
		gaps = append(gaps, types.SkillGap{
			ID:                     uuid.New(),
			SkillName:              m.SkillName,
			RequiredRating:         m.RequiredRating,
			UserRating:             m.UserRating,
			Gap:                    m.Shortfall(),
			ImprovementSuggestions: resp.SuggestionFor(m.SkillName),
		})
	}
	return gaps
}

// withCleanDescription returns a copy of job with HTML stripped from its
// description. The stored job is left untouched.
func withCleanDescription(job *types.Job) *types.Job {
	clean, err := ingestion.CleanDescription(job.Description)
	if err != nil {
		return job
	}
	cp := *job
	cp.Description = clean
	return &cp
}

// GetResult reads one of the candidate's results.
func (s *CompatibilityService) GetResult(ctx context.Context, candidateID, resultID uuid.UUID) (*types.CompatibilityResult, error) {
	r, err := s.store.GetCompatibilityResult(ctx, resultID)
	if err != nil {
		return nil, err
	}
	if r == nil || r.CandidateID != candidateID {
		return nil, ErrResultNotFound
	}
	return r, nil
}

// Latest reads the candidate's most recent result for a job. It never waits
// on an in-flight computation.
func (s *CompatibilityService) Latest(ctx context.Context, candidateID, jobID uuid.UUID) (*types.CompatibilityResult, error) {
	r, err := s.store.LatestCompatibilityResult(ctx, candidateID, jobID)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, ErrResultNotFound
	}
	return r, nil
}

// RecruiterStats aggregates the recruiter dashboard over every result
// computed against the recruiter's jobs. The skill average keeps one decimal.
func (s *CompatibilityService) RecruiterStats(ctx context.Context, recruiterID uuid.UUID) (*types.RecruiterStats, error) {
	stats, err := s.store.GetRecruiterStats(ctx, recruiterID, TopMatchScore)
	if err != nil {
		return nil, err
	}
	out := *stats
	out.AverageSkillScore = math.Round(out.AverageSkillScore*10) / 10
	return &out, nil
}

func publish(ctx context.Context, p events.Publisher, logger *slog.Logger, event events.Event) {
	if err := p.Publish(ctx, event); err != nil {
		logger.Warn("failed to publish event",
			slog.String("type", string(event.Type)),
			slog.Any("error", err))
	}
}
