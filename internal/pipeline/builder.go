package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/careergate/internal/analysis"
	"github.com/jonathan/careergate/internal/repair"
	"github.com/jonathan/careergate/internal/types"
	"github.com/jonathan/careergate/internal/videos"
)

// videoLookupConcurrency caps parallel video searches for one roadmap.
const videoLookupConcurrency = 4

// RoadmapBuilder turns a compatibility result into validated learning item drafts.
type RoadmapBuilder struct {
	generator analysis.PlanGenerator
	videos    *videos.Resolver
	timeout   time.Duration
	logger    *slog.Logger
}

// NewRoadmapBuilder creates a builder. resolver may be nil, in which case
// items fall back to the curated video catalogue.
func NewRoadmapBuilder(generator analysis.PlanGenerator, resolver *videos.Resolver, timeout time.Duration, logger *slog.Logger) *RoadmapBuilder {
	if timeout <= 0 {
		timeout = DefaultCollaboratorTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &RoadmapBuilder{generator: generator, videos: resolver, timeout: timeout, logger: logger}
}

// Build asks the content collaborator for a plan once and repairs it.
// A plan with no items fails with ErrEmptyRoadmap.
func (b *RoadmapBuilder) Build(ctx context.Context, job *types.Job, result *types.CompatibilityResult) ([]types.LearningItemDraft, error) {
	req := analysis.PlanRequest{
		Job:     withCleanDescription(job),
		Summary: result.AIAnalysisSummary,
		Gaps:    result.Gaps,
		Weeks:   analysis.SuggestedWeeks(result.Gaps),
	}

	callCtx, cancel := context.WithTimeout(ctx, b.timeout)
	drafts, err := b.generator.GeneratePlan(callCtx, req)
	if err != nil {
		err = classifyCall(ctx, callCtx, "content", err)
		cancel()
		return nil, err
	}
	cancel()

	if len(drafts) == 0 {
		return nil, ErrEmptyRoadmap
	}

	items, report := repair.NormalizeItems(drafts)
	if report.Changed() {
		b.logger.Info("repaired learning plan",
			slog.String("job_id", job.ID.String()),
			slog.Int("renumbered", report.Renumbered),
			slog.Int("coerced_weeks", report.CoercedWeeks),
			slog.Int("coerced_days", report.CoercedDays),
			slog.Int("dropped_links", report.DroppedLinks),
			slog.Int("untitled", report.UntitledItems))
	}
	if err := repair.CheckOrdering(items); err != nil {
		return nil, fmt.Errorf("learning plan still invalid after repair: %w", err)
	}

	if err := b.resolveVideos(ctx, items); err != nil {
		return nil, err
	}
	return items, nil
}

// resolveVideos fills each item's video id. Lookups are best-effort per item,
// so only cancellation of ctx can fail the build.
func (b *RoadmapBuilder) resolveVideos(ctx context.Context, items []types.LearningItemDraft) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(videoLookupConcurrency)

	for i := range items {
		it := &items[i]
		g.Go(func() error {
			it.YouTubeVideoID = b.videos.Resolve(gctx, it.Title, it.YouTubeSearchQuery, it.YouTubeVideoID)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}
