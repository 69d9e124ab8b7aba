package pipeline

import (
	"context"

	"github.com/google/uuid"

	"github.com/jonathan/careergate/internal/types"
)

// CompatibilityStore is the storage the compatibility service needs.
// Reads return nil, nil when the record does not exist.
type CompatibilityStore interface {
	GetProfile(ctx context.Context, candidateID uuid.UUID) (*types.Profile, error)
	GetJob(ctx context.Context, jobID uuid.UUID) (*types.Job, error)
	CreateCompatibilityResult(ctx context.Context, r *types.CompatibilityResult) (*types.CompatibilityResult, error)
	GetCompatibilityResult(ctx context.Context, resultID uuid.UUID) (*types.CompatibilityResult, error)
	LatestCompatibilityResult(ctx context.Context, candidateID, jobID uuid.UUID) (*types.CompatibilityResult, error)
	GetRecruiterStats(ctx context.Context, recruiterID uuid.UUID, topMatchScore int) (*types.RecruiterStats, error)
}

// RoadmapStore is the storage the roadmap service needs.
// Reads return nil, nil when the record does not exist.
type RoadmapStore interface {
	GetJob(ctx context.Context, jobID uuid.UUID) (*types.Job, error)
	LatestCompatibilityResult(ctx context.Context, candidateID, jobID uuid.UUID) (*types.CompatibilityResult, error)
	CreateRoadmap(ctx context.Context, rm *types.Roadmap, items []types.LearningItemDraft) (*types.Roadmap, bool, error)
	GetRoadmap(ctx context.Context, roadmapID uuid.UUID) (*types.Roadmap, error)
	GetRoadmapByPair(ctx context.Context, candidateID, jobID uuid.UUID) (*types.Roadmap, error)
	ListRoadmaps(ctx context.Context, candidateID uuid.UUID) ([]types.Roadmap, error)
	ListLearningItems(ctx context.Context, roadmapID uuid.UUID) ([]types.LearningItem, error)
	GetLearningItem(ctx context.Context, candidateID, itemID uuid.UUID) (*types.LearningItem, error)
	MarkLearningItemComplete(ctx context.Context, candidateID, itemID uuid.UUID) (*types.LearningItem, error)
	GetCandidateStats(ctx context.Context, candidateID uuid.UUID) (*types.CandidateStats, error)
}
