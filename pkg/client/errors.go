package client

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound maps 404 responses: unknown doctor or appointment.
	// Surfaced as a message, no retry.
	ErrNotFound = errors.New("resource not found")

	// ErrConflict maps 409 responses: the slot was taken by someone else
	// between resolution and submission. Callers re-resolve availability.
	ErrConflict = errors.New("slot already taken")

	// ErrUnauthorized maps 401/403 responses.
	ErrUnauthorized = errors.New("not authorized")
)

// ValidationError is raised before any request leaves the client. The
// backend never sees a call that fails local validation.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	return "validation failed: " + e.Fields[0]
}

// TransientError wraps timeouts, connection failures and 5xx responses.
// The operation may be retried.
type TransientError struct {
	Err error
}

func (e *TransientError) Error() string {
	return fmt.Sprintf("backend unavailable: %v", e.Err)
}

func (e *TransientError) Unwrap() error {
	return e.Err
}

// IsTransient reports whether err allows a retry affordance.
func IsTransient(err error) bool {
	var te *TransientError
	return errors.As(err, &te)
}
