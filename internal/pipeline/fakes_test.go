package pipeline

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/jonathan/careergate/internal/analysis"
	"github.com/jonathan/careergate/internal/types"
)

// memStore is an in-memory CompatibilityStore and RoadmapStore.
type memStore struct {
	mu       sync.Mutex
	profiles map[uuid.UUID]*types.Profile
	jobs     map[uuid.UUID]*types.Job
	results  []*types.CompatibilityResult
	roadmaps map[uuid.UUID]*types.Roadmap
	items    map[uuid.UUID]*types.LearningItem
}

func newMemStore() *memStore {
	return &memStore{
		profiles: map[uuid.UUID]*types.Profile{},
		jobs:     map[uuid.UUID]*types.Job{},
		roadmaps: map[uuid.UUID]*types.Roadmap{},
		items:    map[uuid.UUID]*types.LearningItem{},
	}
}

func (m *memStore) addProfile(p *types.Profile) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.profiles[p.CandidateID] = p
}

func (m *memStore) addJob(j *types.Job) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.jobs[j.ID] = j
}

func (m *memStore) addResult(r *types.CompatibilityResult) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.results = append(m.results, r)
}

func (m *memStore) resultCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.results)
}

func (m *memStore) roadmapCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.roadmaps)
}

func (m *memStore) GetProfile(_ context.Context, candidateID uuid.UUID) (*types.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.profiles[candidateID], nil
}

func (m *memStore) GetJob(_ context.Context, jobID uuid.UUID) (*types.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.jobs[jobID], nil
}

func (m *memStore) CreateCompatibilityResult(_ context.Context, r *types.CompatibilityResult) (*types.CompatibilityResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *r
	m.results = append(m.results, &cp)
	return &cp, nil
}

func (m *memStore) GetCompatibilityResult(_ context.Context, resultID uuid.UUID) (*types.CompatibilityResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.results {
		if r.ID == resultID {
			return r, nil
		}
	}
	return nil, nil
}

func (m *memStore) LatestCompatibilityResult(_ context.Context, candidateID, jobID uuid.UUID) (*types.CompatibilityResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := len(m.results) - 1; i >= 0; i-- {
		r := m.results[i]
		if r.CandidateID == candidateID && r.JobID == jobID {
			return r, nil
		}
	}
	return nil, nil
}

func (m *memStore) CreateRoadmap(_ context.Context, rm *types.Roadmap, drafts []types.LearningItemDraft) (*types.Roadmap, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.roadmaps {
		if existing.CandidateID == rm.CandidateID && existing.JobID == rm.JobID {
			return m.withItems(existing), false, nil
		}
	}

	cp := *rm
	cp.Items = nil
	m.roadmaps[cp.ID] = &cp
	for _, d := range drafts {
		it := &types.LearningItem{
			ID:                 uuid.New(),
			RoadmapID:          cp.ID,
			WeekNo:             d.WeekNo,
			DayNo:              d.DayNo,
			Title:              d.Title,
			Description:        d.Description,
			YouTubeVideoID:     d.YouTubeVideoID,
			YouTubeSearchQuery: d.YouTubeSearchQuery,
			ArticleLinks:       d.ArticleLinks,
		}
		m.items[it.ID] = it
	}
	return m.withItems(&cp), true, nil
}

// withItems must be called with mu held.
func (m *memStore) withItems(rm *types.Roadmap) *types.Roadmap {
	cp := *rm
	cp.Items = []types.LearningItem{}
	for _, it := range m.items {
		if it.RoadmapID == rm.ID {
			cp.Items = append(cp.Items, *it)
		}
	}
	sort.Slice(cp.Items, func(i, j int) bool {
		if cp.Items[i].WeekNo != cp.Items[j].WeekNo {
			return cp.Items[i].WeekNo < cp.Items[j].WeekNo
		}
		return cp.Items[i].DayNo < cp.Items[j].DayNo
	})
	return &cp
}

func (m *memStore) GetRoadmap(_ context.Context, roadmapID uuid.UUID) (*types.Roadmap, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rm, ok := m.roadmaps[roadmapID]
	if !ok {
		return nil, nil
	}
	return m.withItems(rm), nil
}

func (m *memStore) GetRoadmapByPair(_ context.Context, candidateID, jobID uuid.UUID) (*types.Roadmap, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, rm := range m.roadmaps {
		if rm.CandidateID == candidateID && rm.JobID == jobID {
			return m.withItems(rm), nil
		}
	}
	return nil, nil
}

func (m *memStore) ListRoadmaps(_ context.Context, candidateID uuid.UUID) ([]types.Roadmap, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []types.Roadmap{}
	for _, rm := range m.roadmaps {
		if rm.CandidateID == candidateID {
			out = append(out, *rm)
		}
	}
	return out, nil
}

func (m *memStore) ListLearningItems(_ context.Context, roadmapID uuid.UUID) ([]types.LearningItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.withItems(&types.Roadmap{ID: roadmapID}).Items, nil
}

func (m *memStore) ownedItem(candidateID, itemID uuid.UUID) *types.LearningItem {
	it, ok := m.items[itemID]
	if !ok {
		return nil
	}
	if rm := m.roadmaps[it.RoadmapID]; rm == nil || rm.CandidateID != candidateID {
		return nil
	}
	return it
}

func (m *memStore) GetLearningItem(_ context.Context, candidateID, itemID uuid.UUID) (*types.LearningItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if it := m.ownedItem(candidateID, itemID); it != nil {
		cp := *it
		return &cp, nil
	}
	return nil, nil
}

func (m *memStore) MarkLearningItemComplete(_ context.Context, candidateID, itemID uuid.UUID) (*types.LearningItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	it := m.ownedItem(candidateID, itemID)
	if it == nil {
		return nil, nil
	}
	it.Completed = true
	cp := *it
	return &cp, nil
}

func (m *memStore) GetCandidateStats(_ context.Context, candidateID uuid.UUID) (*types.CandidateStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stats := &types.CandidateStats{}
	for _, rm := range m.roadmaps {
		if rm.CandidateID == candidateID {
			stats.ActiveRoadmaps++
		}
	}
	return stats, nil
}

func (m *memStore) GetRecruiterStats(_ context.Context, recruiterID uuid.UUID, topMatchScore int) (*types.RecruiterStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stats := &types.RecruiterStats{}
	for _, j := range m.jobs {
		if j.RecruiterID == recruiterID {
			stats.JobsPosted++
		}
	}

	applicants := map[uuid.UUID]bool{}
	var skillTotal int
	var counted int
	for _, r := range m.results {
		j := m.jobs[r.JobID]
		if j == nil || j.RecruiterID != recruiterID {
			continue
		}
		applicants[r.CandidateID] = true
		skillTotal += r.SkillMatchScore
		counted++
		if r.CompatibilityScore >= topMatchScore {
			stats.TopMatches++
		}
	}
	stats.TotalApplicants = len(applicants)
	if counted > 0 {
		stats.AverageSkillScore = float64(skillTotal) / float64(counted)
	}
	return stats, nil
}

// fakeAnalyzer returns a fixed response, optionally blocking until release is closed.
type fakeAnalyzer struct {
	resp    *analysis.AnalysisResponse
	err     error
	calls   atomic.Int32
	started chan struct{}
	release chan struct{}

	mu       sync.Mutex
	requests []analysis.AnalysisRequest
}

func (f *fakeAnalyzer) Analyze(ctx context.Context, req analysis.AnalysisRequest) (*analysis.AnalysisResponse, error) {
	if f.calls.Add(1) == 1 && f.started != nil {
		close(f.started)
	}
	f.mu.Lock()
	f.requests = append(f.requests, req)
	f.mu.Unlock()

	if f.release != nil {
		select {
		case <-f.release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return f.resp, f.err
}

func (f *fakeAnalyzer) lastRequest() analysis.AnalysisRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests[len(f.requests)-1]
}

// fakePlanner returns fixed drafts, optionally blocking until release is closed.
type fakePlanner struct {
	drafts  []types.LearningItemDraft
	err     error
	calls   atomic.Int32
	started chan struct{}
	release chan struct{}

	mu       sync.Mutex
	requests []analysis.PlanRequest
}

func (f *fakePlanner) GeneratePlan(ctx context.Context, req analysis.PlanRequest) ([]types.LearningItemDraft, error) {
	if f.calls.Add(1) == 1 && f.started != nil {
		close(f.started)
	}
	f.mu.Lock()
	f.requests = append(f.requests, req)
	f.mu.Unlock()

	if f.release != nil {
		select {
		case <-f.release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return f.drafts, f.err
}

// busyLocker reports every key as held elsewhere.
type busyLocker struct{}

func (busyLocker) Acquire(context.Context, string) (func(), error) {
	return nil, ErrAnalysisInProgress
}

func intPtr(v int) *int { return &v }
