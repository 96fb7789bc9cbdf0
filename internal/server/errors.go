package server

import (
	"context"
	"errors"
	"net/http"

	"evogame/internal/engine"
)

const (
	ErrTypeValidation = "validation"
	ErrTypeNotFound   = "not_found"
	ErrTypeNotReady   = "not_ready"
	ErrTypeBadRequest = "bad_request"
	ErrTypeCancelled  = "cancelled"
	ErrTypeInternal   = "internal"
)

// APIError is the body of every non-2xx response.
type APIError struct {
	Type      string         `json:"type"`
	Message   string         `json:"message"`
	Field     string         `json:"field,omitempty"`
	Context   map[string]any `json:"context,omitempty"`
	RequestID string         `json:"request_id,omitempty"`
}

func (e APIError) Error() string {
	return e.Message
}

// classify maps engine errors onto a status and error body.
func classify(err error) (int, APIError) {
	var verr *engine.ValidationError
	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest, APIError{
			Type:    ErrTypeValidation,
			Message: verr.Error(),
			Field:   verr.Field,
			Context: map[string]any{"constraint": verr.Constraint},
		}
	case errors.Is(err, engine.ErrNotReady):
		return http.StatusConflict, APIError{Type: ErrTypeNotReady, Message: err.Error()}
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable, APIError{Type: ErrTypeCancelled, Message: err.Error()}
	case errors.Is(err, errSessionNotFound):
		return http.StatusNotFound, APIError{Type: ErrTypeNotFound, Message: err.Error()}
	default:
		return http.StatusInternalServerError, APIError{Type: ErrTypeInternal, Message: err.Error()}
	}
}
