package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Sentinel errors for errors.Is() checking.
var (
	ErrNotFound    = errors.New("not found")
	ErrValidation  = errors.New("validation error")
	ErrConflict    = errors.New("conflict")
	ErrForbidden   = errors.New("forbidden")
	ErrUnavailable = errors.New("unavailable")

	// ErrInvalidState reports a command issued against a match whose status
	// does not allow it (e.g. recording a plate appearance before the start).
	ErrInvalidState = errors.New("invalid state")

	// ErrInvalidTransition reports an aggregate rule violation such as a
	// fourth out or a second re-entry of the same starter.
	ErrInvalidTransition = errors.New("invalid state transition")

	ErrUnauthenticated       = errors.New("unauthenticated")
	ErrNothingToUndo         = errors.New("nothing to undo")
	ErrNothingToRedo         = errors.New("nothing to redo")
	ErrStateChangedSinceUndo = errors.New("state changed since action was recorded")

	// ErrCompensationFailed means a partially persisted command could not be
	// reverted. Stored state and the event log may disagree and an operator
	// must reconcile them.
	ErrCompensationFailed = errors.New("compensation failed")
)

// ValidationError provides programmatic access to field-level validation failures.
// Use errors.Is(err, ErrValidation) for simple checks, or errors.As(err, &verr) to
// access verr.Fields for per-field error details.
type ValidationError struct {
	Fields map[string]string
}

// NewValidationError returns a ValidationError for a single field.
func NewValidationError(field, msg string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: msg}}
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for field := range e.Fields {
		keys = append(keys, field)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, field := range keys {
		parts = append(parts, field+": "+e.Fields[field])
	}
	return fmt.Sprintf("%s: %s", ErrValidation.Error(), strings.Join(parts, "; "))
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// Validation message constants shared by aggregates and request DTOs.
const (
	MsgRequired        = "is required"
	MsgUnknownValue    = "is not a recognized value"
	MsgMustBePositive  = "must be greater than zero"
	MsgDuplicatePlayer = "player appears more than once"
	MsgDuplicateJersey = "jersey number is already in use"
	MsgAlreadyExists   = "already exists"
)
