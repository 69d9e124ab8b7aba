// Package server provides the HTTP REST API for compatibility scoring and
// learning roadmaps.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/careergate/internal/server/middleware"
	"github.com/jonathan/careergate/internal/server/ratelimit"
	"github.com/jonathan/careergate/internal/types"
)

const maxBodyBytes = 1 << 20

// ProfileStore reads and replaces candidate profiles.
type ProfileStore interface {
	UpsertProfile(ctx context.Context, p *types.Profile) (*types.Profile, error)
	GetProfile(ctx context.Context, candidateID uuid.UUID) (*types.Profile, error)
}

// JobStore creates and reads job postings.
type JobStore interface {
	CreateJob(ctx context.Context, j *types.Job) (*types.Job, error)
	GetJob(ctx context.Context, jobID uuid.UUID) (*types.Job, error)
}

// CompatibilityService computes and reads compatibility results.
type CompatibilityService interface {
	ComputeCompatibility(ctx context.Context, candidateID, jobID uuid.UUID) (*types.CompatibilityResult, error)
	GetResult(ctx context.Context, candidateID, resultID uuid.UUID) (*types.CompatibilityResult, error)
	Latest(ctx context.Context, candidateID, jobID uuid.UUID) (*types.CompatibilityResult, error)
	RecruiterStats(ctx context.Context, recruiterID uuid.UUID) (*types.RecruiterStats, error)
}

// RoadmapService generates roadmaps and tracks progress.
type RoadmapService interface {
	Generate(ctx context.Context, candidateID, jobID uuid.UUID) (*types.Roadmap, bool, error)
	Get(ctx context.Context, candidateID, roadmapID uuid.UUID) (*types.Roadmap, error)
	GetProgress(ctx context.Context, candidateID, roadmapID uuid.UUID) (*types.Progress, error)
	List(ctx context.Context, candidateID uuid.UUID) ([]types.Roadmap, error)
	MarkComplete(ctx context.Context, candidateID, itemID uuid.UUID) (*types.LearningItem, error)
	Stats(ctx context.Context, candidateID uuid.UUID) (*types.CandidateStats, error)
}

// Deps are the collaborators the server routes to.
type Deps struct {
	Profiles      ProfileStore
	Jobs          JobStore
	Compatibility CompatibilityService
	Roadmaps      RoadmapService
	Tokens        middleware.TokenValidator
	RateLimiter   *ratelimit.Limiter // nil disables rate limiting
	Logger        *slog.Logger
	// Health reports dependency health for GET /health; nil means always healthy.
	Health func(ctx context.Context) error
}

// Config holds server configuration
type Config struct {
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// Server represents the HTTP server
type Server struct {
	httpServer      *http.Server
	deps            Deps
	logger          *slog.Logger
	rateLimiter     *ratelimit.Limiter
	shutdownTimeout time.Duration
}

// New creates a new server instance
func New(cfg Config, deps Deps) (*Server, error) {
	if deps.Profiles == nil || deps.Jobs == nil || deps.Compatibility == nil || deps.Roadmaps == nil {
		return nil, fmt.Errorf("server requires profile, job, compatibility and roadmap services")
	}
	if deps.Tokens == nil {
		return nil, fmt.Errorf("server requires a token validator")
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if cfg.ReadTimeout == 0 {
		cfg.ReadTimeout = 30 * time.Second
	}
	if cfg.WriteTimeout == 0 {
		// Compatibility and roadmap calls wait on LLM collaborators.
		cfg.WriteTimeout = 3 * time.Minute
	}
	if cfg.ShutdownTimeout == 0 {
		cfg.ShutdownTimeout = 30 * time.Second
	}

	s := &Server{
		deps:            deps,
		logger:          deps.Logger,
		rateLimiter:     deps.RateLimiter,
		shutdownTimeout: cfg.ShutdownTimeout,
	}

	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           s.Handler(),
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       60 * time.Second,
	}

	return s, nil
}

// Handler returns the routed handler wrapped in the middleware chain.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)

	// Profile
	mux.HandleFunc("PUT /profile", s.handlePutProfile)
	mux.HandleFunc("GET /profile", s.handleGetProfile)

	// Jobs
	mux.HandleFunc("POST /jobs", s.handleCreateJob)
	mux.HandleFunc("GET /jobs/{id}", s.handleGetJob)

	// Compatibility
	mux.HandleFunc("POST /jobs/{job_id}/compatibility", s.handleComputeCompatibility)
	mux.HandleFunc("GET /jobs/{job_id}/compatibility", s.handleLatestCompatibility)
	mux.HandleFunc("GET /compatibility/{id}", s.handleGetCompatibility)

	// Roadmaps
	mux.HandleFunc("POST /roadmaps/generate/{job_id}", s.handleGenerateRoadmap)
	mux.HandleFunc("GET /roadmaps", s.handleListRoadmaps)
	mux.HandleFunc("GET /roadmaps/{id}", s.handleGetRoadmap)
	mux.HandleFunc("GET /roadmaps/{id}/progress", s.handleGetProgress)
	mux.HandleFunc("PATCH /roadmaps/items/{item_id}/complete", s.handleCompleteItem)

	// Dashboard
	mux.HandleFunc("GET /dashboard/candidate", s.handleCandidateDashboard)
	mux.HandleFunc("GET /dashboard/recruiter", s.handleRecruiterDashboard)

	auth := middleware.AuthMiddleware(s.deps.Tokens, "GET /health")
	return s.withRateLimit(s.withLogging(s.withCORS(auth(mux))))
}

// Start serves until ctx is done, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.httpServer.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is Start on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", slog.String("addr", ln.Addr().String()))
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}

	s.logger.Info("server stopped")
	return nil
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// statusRecorder captures the status code for access logs.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Info("request",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", rec.status),
			slog.Duration("duration", time.Since(start)),
			slog.String("remote", r.RemoteAddr))
	})
}

// withRateLimit adds rate limiting middleware
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	if s.rateLimiter == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowed, info := s.rateLimiter.Allow(s.extractClientID(r), r.URL.Path, r.Method)
		s.setRateLimitHeaders(w, info)
		if !allowed {
			s.rateLimitResponse(w, r, info)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// extractClientID uses the IP from RemoteAddr. Forwarded headers are not
// trusted.
func (s *Server) extractClientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func (s *Server) setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", info.Limit))
		w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", info.Remaining))
		w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", info.ResetTime.Unix()))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response with rate limit information.
func (s *Server) rateLimitResponse(w http.ResponseWriter, r *http.Request, info ratelimit.Info) {
	response := map[string]any{
		"error":     "rate_limit_exceeded",
		"message":   "Rate limit exceeded. Please try again later.",
		"limit":     info.Limit,
		"remaining": info.Remaining,
	}
	if !info.ResetTime.IsZero() {
		response["reset_at"] = info.ResetTime.Format(time.RFC3339)
	}
	if info.RetryAfter > 0 {
		seconds := int(info.RetryAfter.Seconds() + 0.999)
		response["retry_after"] = seconds
		w.Header().Set("Retry-After", fmt.Sprintf("%d", seconds))
	}

	s.logger.Warn("rate limit exceeded",
		slog.String("client", s.extractClientID(r)),
		slog.String("path", r.URL.Path),
		slog.Int("limit", info.Limit))

	s.jsonResponse(w, http.StatusTooManyRequests, response)
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.deps.Health != nil {
		if err := s.deps.Health(r.Context()); err != nil {
			s.logger.Warn("health check failed", slog.Any("error", err))
			s.jsonResponse(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("failed to encode JSON response", slog.Any("error", err))
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, code, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message, "code": code})
}

// writeError maps err to a status and writes it. Internal errors are logged
// and replaced with a generic message.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := HTTPStatus(err)
	message := err.Error()
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", status),
			slog.Any("error", err))
		if status == http.StatusInternalServerError {
			message = "internal server error"
		}
	}
	s.errorResponse(w, status, errorCode(err), message)
}

// candidateID returns the authenticated caller, writing 401 when absent.
func (s *Server) candidateID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := middleware.GetCandidateID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "unauthorized", "unauthorized")
		return uuid.Nil, false
	}
	return id, true
}

// pathID parses a UUID path parameter.
func pathID(r *http.Request, name string) (uuid.UUID, error) {
	raw := r.PathValue(name)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, &ErrValidation{Field: name, Message: fmt.Sprintf("%q is not a valid id", raw)}
	}
	return id, nil
}

// decodeJSON decodes a size-limited request body, rejecting unknown fields.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return &ErrValidation{Field: "body", Message: err.Error()}
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return &ErrValidation{Field: "body", Message: "must contain a single JSON object"}
	}
	return nil
}
