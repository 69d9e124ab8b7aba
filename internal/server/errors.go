package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/jonathan/careergate/internal/pipeline"
)

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		validationErr *ErrValidation
		fieldErrs     validator.ValidationErrors
		collabErr     *pipeline.CollaboratorError
	)

	switch {
	case errors.As(err, &validationErr), errors.As(err, &fieldErrs):
		return http.StatusBadRequest
	case errors.Is(err, pipeline.ErrProfileNotFound),
		errors.Is(err, pipeline.ErrJobNotFound),
		errors.Is(err, pipeline.ErrResultNotFound),
		errors.Is(err, pipeline.ErrRoadmapNotFound),
		errors.Is(err, pipeline.ErrItemNotFound):
		return http.StatusNotFound
	case errors.Is(err, pipeline.ErrAnalysisInProgress):
		return http.StatusConflict
	case errors.Is(err, pipeline.ErrResumeRequired),
		errors.Is(err, pipeline.ErrCompatibilityRequired),
		errors.Is(err, pipeline.ErrEmptyRoadmap):
		return http.StatusUnprocessableEntity
	case errors.Is(err, pipeline.ErrCollaboratorTimeout), errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.As(err, &collabErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// errorCode is the machine-readable code sent alongside the message.
func errorCode(err error) string {
	var collabErr *pipeline.CollaboratorError
	if errors.As(err, &collabErr) {
		return "collaborator_" + string(collabErr.Kind)
	}

	switch HTTPStatus(err) {
	case http.StatusBadRequest:
		return "invalid_request"
	case http.StatusNotFound:
		return "not_found"
	case http.StatusConflict:
		return "in_progress"
	case http.StatusUnprocessableEntity:
		return "precondition_failed"
	case http.StatusGatewayTimeout:
		return "timeout"
	default:
		return "internal"
	}
}
