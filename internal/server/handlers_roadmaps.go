package server

import (
	"net/http"

	"github.com/jonathan/careergate/internal/types"
)

// RoadmapListResponse is the body of GET /roadmaps.
type RoadmapListResponse struct {
	Roadmaps []types.Roadmap `json:"roadmaps"`
}

// DashboardResponse is the body of GET /dashboard/candidate.
type DashboardResponse struct {
	Stats    *types.CandidateStats `json:"stats"`
	Roadmaps []types.Roadmap       `json:"roadmaps"`
}

// handleGenerateRoadmap answers 201 for a new roadmap and 200 when the pair
// already had one.
func (s *Server) handleGenerateRoadmap(w http.ResponseWriter, r *http.Request) {
	candidateID, jobID, ok := s.callerAndPath(w, r, "job_id")
	if !ok {
		return
	}

	roadmap, created, err := s.deps.Roadmaps.Generate(r.Context(), candidateID, jobID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	s.jsonResponse(w, status, roadmap)
}

func (s *Server) handleListRoadmaps(w http.ResponseWriter, r *http.Request) {
	candidateID, ok := s.candidateID(w, r)
	if !ok {
		return
	}

	roadmaps, err := s.deps.Roadmaps.List(r.Context(), candidateID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if roadmaps == nil {
		roadmaps = []types.Roadmap{}
	}
	s.jsonResponse(w, http.StatusOK, RoadmapListResponse{Roadmaps: roadmaps})
}

func (s *Server) handleGetRoadmap(w http.ResponseWriter, r *http.Request) {
	candidateID, roadmapID, ok := s.callerAndPath(w, r, "id")
	if !ok {
		return
	}

	roadmap, err := s.deps.Roadmaps.Get(r.Context(), candidateID, roadmapID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, roadmap)
}

func (s *Server) handleGetProgress(w http.ResponseWriter, r *http.Request) {
	candidateID, roadmapID, ok := s.callerAndPath(w, r, "id")
	if !ok {
		return
	}

	progress, err := s.deps.Roadmaps.GetProgress(r.Context(), candidateID, roadmapID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, progress)
}

func (s *Server) handleCompleteItem(w http.ResponseWriter, r *http.Request) {
	candidateID, itemID, ok := s.callerAndPath(w, r, "item_id")
	if !ok {
		return
	}

	item, err := s.deps.Roadmaps.MarkComplete(r.Context(), candidateID, itemID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, item)
}

func (s *Server) handleCandidateDashboard(w http.ResponseWriter, r *http.Request) {
	candidateID, ok := s.candidateID(w, r)
	if !ok {
		return
	}

	stats, err := s.deps.Roadmaps.Stats(r.Context(), candidateID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	roadmaps, err := s.deps.Roadmaps.List(r.Context(), candidateID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if roadmaps == nil {
		roadmaps = []types.Roadmap{}
	}
	s.jsonResponse(w, http.StatusOK, DashboardResponse{Stats: stats, Roadmaps: roadmaps})
}

// The caller is the recruiter: jobs record their creator's ID.
func (s *Server) handleRecruiterDashboard(w http.ResponseWriter, r *http.Request) {
	recruiterID, ok := s.candidateID(w, r)
	if !ok {
		return
	}

	stats, err := s.deps.Compatibility.RecruiterStats(r.Context(), recruiterID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, stats)
}
