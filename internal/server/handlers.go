package server

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/careergate/internal/pipeline"
	"github.com/jonathan/careergate/internal/types"
)

// ProfileRequest is the body of PUT /profile. Skills replace the stored set.
type ProfileRequest struct {
	TotalExperience  float64             `json:"total_experience"`
	CurrentCTC       float64             `json:"current_ctc"`
	ExpectedCTC      float64             `json:"expected_ctc"`
	NoticePeriodDays int                 `json:"notice_period_days"`
	Resume           *types.ResumeRef    `json:"resume,omitempty"`
	Skills           []types.SkillRating `json:"skills"`
}

// JobRequest is the body of POST /jobs.
type JobRequest struct {
	Title          string                `json:"title"`
	CompanyName    string                `json:"company_name"`
	Description    string                `json:"description"`
	MinExperience  float64               `json:"min_experience"`
	MaxExperience  float64               `json:"max_experience"`
	MinCTC         float64               `json:"min_ctc"`
	MaxCTC         float64               `json:"max_ctc"`
	RequiredSkills []types.RequiredSkill `json:"required_skills"`
}

func (s *Server) handlePutProfile(w http.ResponseWriter, r *http.Request) {
	candidateID, ok := s.candidateID(w, r)
	if !ok {
		return
	}

	var req ProfileRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	profile := &types.Profile{
		CandidateID:      candidateID,
		TotalExperience:  req.TotalExperience,
		CurrentCTC:       req.CurrentCTC,
		ExpectedCTC:      req.ExpectedCTC,
		NoticePeriodDays: req.NoticePeriodDays,
		Resume:           req.Resume,
		Skills:           req.Skills,
		UpdatedAt:        time.Now().UTC(),
	}
	if profile.Skills == nil {
		profile.Skills = []types.SkillRating{}
	}
	if err := types.ValidateProfile(profile); err != nil {
		s.writeError(w, r, err)
		return
	}

	saved, err := s.deps.Profiles.UpsertProfile(r.Context(), profile)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, saved)
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	candidateID, ok := s.candidateID(w, r)
	if !ok {
		return
	}

	profile, err := s.deps.Profiles.GetProfile(r.Context(), candidateID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if profile == nil {
		s.writeError(w, r, pipeline.ErrProfileNotFound)
		return
	}
	s.jsonResponse(w, http.StatusOK, profile)
}

func (s *Server) handleCreateJob(w http.ResponseWriter, r *http.Request) {
	recruiterID, ok := s.candidateID(w, r)
	if !ok {
		return
	}

	var req JobRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	job := &types.Job{
		RecruiterID:    recruiterID,
		Title:          req.Title,
		CompanyName:    req.CompanyName,
		Description:    req.Description,
		MinExperience:  req.MinExperience,
		MaxExperience:  req.MaxExperience,
		MinCTC:         req.MinCTC,
		MaxCTC:         req.MaxCTC,
		RequiredSkills: req.RequiredSkills,
	}
	if job.RequiredSkills == nil {
		job.RequiredSkills = []types.RequiredSkill{}
	}
	if err := types.ValidateJob(job); err != nil {
		s.writeError(w, r, err)
		return
	}

	created, err := s.deps.Jobs.CreateJob(r.Context(), job)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, created)
}

func (s *Server) handleGetJob(w http.ResponseWriter, r *http.Request) {
	jobID, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	job, err := s.deps.Jobs.GetJob(r.Context(), jobID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if job == nil {
		s.writeError(w, r, pipeline.ErrJobNotFound)
		return
	}
	s.jsonResponse(w, http.StatusOK, job)
}

// callerAndPath resolves the caller and one UUID path parameter, writing the
// error response itself when either is missing.
func (s *Server) callerAndPath(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, uuid.UUID, bool) {
	candidateID, ok := s.candidateID(w, r)
	if !ok {
		return uuid.Nil, uuid.Nil, false
	}
	id, err := pathID(r, name)
	if err != nil {
		s.writeError(w, r, err)
		return uuid.Nil, uuid.Nil, false
	}
	return candidateID, id, true
}
