package domain

import "context"

// Action is a single persistence step with rollback capability.
//
// Action is defined in the domain layer so that domain services can reference
// it without depending on the application layer (dependency inversion).
type Action interface {
	// Execute performs the step. The context carries cancellation and
	// deadline signals that the implementation should respect.
	Execute(ctx context.Context) error

	// Rollback reverses the effect of a previously successful Execute call.
	// Rollback is only called if Execute returned nil.
	Rollback(ctx context.Context) error

	// Description returns a human-readable description of the step for
	// logging purposes (e.g., "append 3 events to m-1/inning").
	Description() string
}

// ActionFunc adapts plain functions to Action. A nil RollbackFn makes
// Rollback a no-op.
type ActionFunc struct {
	Name       string
	ExecuteFn  func(ctx context.Context) error
	RollbackFn func(ctx context.Context) error
}

// Execute implements Action.
func (a ActionFunc) Execute(ctx context.Context) error { return a.ExecuteFn(ctx) }

// Rollback implements Action.
func (a ActionFunc) Rollback(ctx context.Context) error {
	if a.RollbackFn == nil {
		return nil
	}
	return a.RollbackFn(ctx)
}

// Description implements Action.
func (a ActionFunc) Description() string { return a.Name }
