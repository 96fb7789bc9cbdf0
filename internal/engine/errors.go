package engine

import (
	"errors"
	"fmt"
)

// ErrNotReady is returned by operations that need a prior Setup.
var ErrNotReady = errors.New("engine not ready: setup has not been called")

// ValidationError names the parameter and the constraint it violated.
type ValidationError struct {
	Field      string
	Constraint string
	Value      any
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s (got %v)", e.Field, e.Constraint, e.Value)
}

func invalid(field string, value any, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Constraint: fmt.Sprintf(format, args...), Value: value}
}
