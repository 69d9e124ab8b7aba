package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/jonathan/careergate/internal/events"
	"github.com/jonathan/careergate/internal/types"
)

// RoadmapOptions holds optional dependencies. Zero values get defaults.
type RoadmapOptions struct {
	Locker    Locker
	Publisher events.Publisher
	Logger    *slog.Logger
}

// RoadmapService generates roadmaps idempotently per (candidate, job) and
// tracks item completion.
type RoadmapService struct {
	store     RoadmapStore
	builder   *RoadmapBuilder
	locker    Locker
	publisher events.Publisher
	logger    *slog.Logger
	group     KeyedGroup
}

// NewRoadmapService wires a service.
func NewRoadmapService(store RoadmapStore, builder *RoadmapBuilder, opts RoadmapOptions) *RoadmapService {
	if opts.Locker == nil {
		opts.Locker = NopLocker{}
	}
	if opts.Publisher == nil {
		opts.Publisher = events.NopPublisher{}
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &RoadmapService{
		store:     store,
		builder:   builder,
		locker:    opts.Locker,
		publisher: opts.Publisher,
		logger:    opts.Logger,
	}
}

type generated struct {
	roadmap *types.Roadmap
	created bool
}

// Generate returns the roadmap for the pair, building it from the latest
// compatibility result on first call. Later calls return the stored roadmap
// without contacting the content collaborator. created is true only for the
// caller whose call persisted the roadmap.
func (s *RoadmapService) Generate(ctx context.Context, candidateID, jobID uuid.UUID) (*types.Roadmap, bool, error) {
	existing, err := s.store.GetRoadmapByPair(ctx, candidateID, jobID)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		return existing, false, nil
	}

	key := Key("roadmap", candidateID, jobID)
	callCtx := context.WithoutCancel(ctx)
	ran := false
	v, _, err := s.group.Do(ctx, key, func() (any, error) {
		ran = true
		return s.generate(callCtx, key, candidateID, jobID)
	})
	if err != nil {
		return nil, false, err
	}
	g := v.(generated)
	return g.roadmap, g.created && ran, nil
}

func (s *RoadmapService) generate(ctx context.Context, key string, candidateID, jobID uuid.UUID) (generated, error) {
	job, err := s.store.GetJob(ctx, jobID)
	if err != nil {
		return generated{}, err
	}
	if job == nil {
		return generated{}, ErrJobNotFound
	}

	result, err := s.store.LatestCompatibilityResult(ctx, candidateID, jobID)
	if err != nil {
		return generated{}, err
	}
	if result == nil {
		return generated{}, ErrCompatibilityRequired
	}

	release, err := s.locker.Acquire(ctx, key)
	if err != nil {
		return generated{}, err
	}
	defer release()

	// Another caller may have finished between the first check and the lock.
	existing, err := s.store.GetRoadmapByPair(ctx, candidateID, jobID)
	if err != nil {
		return generated{}, err
	}
	if existing != nil {
		return generated{roadmap: existing}, nil
	}

	items, err := s.builder.Build(ctx, job, result)
	if err != nil {
		return generated{}, err
	}

	rm, created, err := s.store.CreateRoadmap(ctx, &types.Roadmap{
		ID:                    uuid.New(),
		CandidateID:           candidateID,
		JobID:                 jobID,
		CompatibilityResultID: result.ID,
		JobTitle:              job.Title,
	}, items)
	if err != nil {
		return generated{}, fmt.Errorf("failed to save roadmap: %w", err)
	}
	if rm.JobTitle == "" {
		rm.JobTitle = job.Title
	}

	if created {
		s.logger.Info("roadmap generated",
			slog.String("candidate_id", candidateID.String()),
			slog.String("job_id", jobID.String()),
			slog.String("roadmap_id", rm.ID.String()),
			slog.Int("items", len(rm.Items)))
		publish(ctx, s.publisher, s.logger, events.New(events.RoadmapGenerated, candidateID, map[string]any{
			"roadmap_id": rm.ID,
			"job_id":     jobID,
			"items":      len(rm.Items),
		}))
	}
	return generated{roadmap: rm, created: created}, nil
}

// MarkComplete marks one of the candidate's items complete. Completing an
// item twice is a no-op.
func (s *RoadmapService) MarkComplete(ctx context.Context, candidateID, itemID uuid.UUID) (*types.LearningItem, error) {
	item, err := s.store.GetLearningItem(ctx, candidateID, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrItemNotFound
	}
	if item.Completed {
		return item, nil
	}

	updated, err := s.store.MarkLearningItemComplete(ctx, candidateID, itemID)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, ErrItemNotFound
	}

	publish(ctx, s.publisher, s.logger, events.New(events.ItemCompleted, candidateID, map[string]any{
		"roadmap_id": updated.RoadmapID,
		"item_id":    updated.ID,
		"week_no":    updated.WeekNo,
		"day_no":     updated.DayNo,
	}))
	return updated, nil
}

// Get returns one of the candidate's roadmaps with items in (week, day) order.
func (s *RoadmapService) Get(ctx context.Context, candidateID, roadmapID uuid.UUID) (*types.Roadmap, error) {
	rm, err := s.store.GetRoadmap(ctx, roadmapID)
	if err != nil {
		return nil, err
	}
	if rm == nil || rm.CandidateID != candidateID {
		return nil, ErrRoadmapNotFound
	}
	return rm, nil
}

// GetProgress derives completion totals for one of the candidate's roadmaps.
func (s *RoadmapService) GetProgress(ctx context.Context, candidateID, roadmapID uuid.UUID) (*types.Progress, error) {
	rm, err := s.Get(ctx, candidateID, roadmapID)
	if err != nil {
		return nil, err
	}
	p := ComputeProgress(rm.ID, rm.Items)
	return &p, nil
}

// List returns the candidate's roadmaps without items.
func (s *RoadmapService) List(ctx context.Context, candidateID uuid.UUID) ([]types.Roadmap, error) {
	return s.store.ListRoadmaps(ctx, candidateID)
}

// Stats aggregates the candidate dashboard numbers.
func (s *RoadmapService) Stats(ctx context.Context, candidateID uuid.UUID) (*types.CandidateStats, error) {
	return s.store.GetCandidateStats(ctx, candidateID)
}
