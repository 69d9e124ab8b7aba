package server

import (
	"net/http"
)

func (s *Server) handleComputeCompatibility(w http.ResponseWriter, r *http.Request) {
	candidateID, jobID, ok := s.callerAndPath(w, r, "job_id")
	if !ok {
		return
	}

	result, err := s.deps.Compatibility.ComputeCompatibility(r.Context(), candidateID, jobID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, result)
}

func (s *Server) handleLatestCompatibility(w http.ResponseWriter, r *http.Request) {
	candidateID, jobID, ok := s.callerAndPath(w, r, "job_id")
	if !ok {
		return
	}

	result, err := s.deps.Compatibility.Latest(r.Context(), candidateID, jobID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, result)
}

func (s *Server) handleGetCompatibility(w http.ResponseWriter, r *http.Request) {
	candidateID, resultID, ok := s.callerAndPath(w, r, "id")
	if !ok {
		return
	}

	result, err := s.deps.Compatibility.GetResult(r.Context(), candidateID, resultID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, result)
}
