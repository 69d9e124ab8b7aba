package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/jonathan/careergate/internal/analysis"
	"github.com/jonathan/careergate/internal/scoring"
)

// Input and concurrency errors. Callers fix state (or retry later) and call again.
var (
	ErrProfileNotFound       = errors.New("profile not found")
	ErrResumeRequired        = errors.New("resume required: upload a resume before calculating compatibility")
	ErrJobNotFound           = errors.New("job not found")
	ErrAnalysisInProgress    = errors.New("analysis already in progress for this job")
	ErrCompatibilityRequired = errors.New("calculate compatibility first")
	ErrResultNotFound        = errors.New("compatibility result not found")
	ErrRoadmapNotFound       = errors.New("roadmap not found")
	ErrItemNotFound          = errors.New("learning item not found")
	ErrEmptyRoadmap          = errors.New("content generator returned no learning items")
)

// Collaborator error sentinels, matched through errors.Is on a *CollaboratorError.
var (
	ErrCollaboratorUnavailable = errors.New("collaborator unavailable")
	ErrCollaboratorTimeout     = errors.New("collaborator timed out")
	ErrIncompleteAnalysis      = errors.New("incomplete analysis")
	ErrMalformedResponse       = errors.New("malformed collaborator response")
)

// CollaboratorKind classifies a collaborator failure.
type CollaboratorKind string

const (
	KindUnavailable CollaboratorKind = "unavailable"
	KindTimeout     CollaboratorKind = "timeout"
	KindIncomplete  CollaboratorKind = "incomplete"
	KindMalformed   CollaboratorKind = "malformed"
)

// CollaboratorError is the single failure category for the analysis and
// content collaborators. Nothing is persisted when one is returned.
type CollaboratorError struct {
	Collaborator string
	Kind         CollaboratorKind
	Cause        error
}

func (e *CollaboratorError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s collaborator %s: %v", e.Collaborator, e.Kind, e.Cause)
	}
	return fmt.Sprintf("%s collaborator %s", e.Collaborator, e.Kind)
}

func (e *CollaboratorError) Unwrap() error {
	return e.Cause
}

// Is matches the sentinel for the error's kind.
func (e *CollaboratorError) Is(target error) bool {
	switch target {
	case ErrCollaboratorUnavailable:
		return e.Kind == KindUnavailable
	case ErrCollaboratorTimeout:
		return e.Kind == KindTimeout
	case ErrIncompleteAnalysis:
		return e.Kind == KindIncomplete
	case ErrMalformedResponse:
		return e.Kind == KindMalformed
	}
	return false
}

// classify wraps a collaborator failure. ctx is the caller's context, used to
// tell our own deadline apart from a caller cancellation.
func classify(ctx context.Context, collaborator string, err error) error {
	kind := KindUnavailable

	var (
		parseErr      *analysis.ParseError
		incompleteErr *scoring.IncompleteError
	)
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		kind = KindTimeout
	case errors.Is(err, context.Canceled) && ctx.Err() != nil:
		return ctx.Err()
	case errors.As(err, &parseErr):
		kind = KindMalformed
	case errors.As(err, &incompleteErr):
		kind = KindIncomplete
	}

	return &CollaboratorError{Collaborator: collaborator, Kind: kind, Cause: err}
}

// classifyCall is classify for a call made under callCtx, a deadline-bound
// child of ctx. Hitting that deadline is a timeout even when the collaborator
// reports it some other way.
func classifyCall(ctx, callCtx context.Context, collaborator string, err error) error {
	if ctx.Err() == nil && errors.Is(callCtx.Err(), context.DeadlineExceeded) {
		return &CollaboratorError{Collaborator: collaborator, Kind: KindTimeout, Cause: err}
	}
	return classify(ctx, collaborator, err)
}
