package ports

import "context"

// HealthChecker reports whether one dependency of the scorekeeper can be
// reached: the event store, a notification stream, the webhook sink.
type HealthChecker interface {
	// Name keys the result in the readiness response, so it must be unique
	// per dependency ("sqlite", "redis:scorebook.matches").
	Name() string
	HealthCheck(ctx context.Context) error
}

// HealthRegistry collects checkers at wiring time and runs them on demand.
type HealthRegistry interface {
	// Register adds checker, replacing any earlier checker of the same name.
	Register(checker HealthChecker)

	// CheckAll maps each checker name to its result; nil means healthy.
	CheckAll(ctx context.Context) map[string]error
}
