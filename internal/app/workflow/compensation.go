package workflow

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jsamuelsen11/scorebook/internal/platform/logging"
	"github.com/jsamuelsen11/scorebook/internal/ports"
)

// CompensationResult reports a compensated operation. Compensated is only
// meaningful when Attempted is true.
type CompensationResult[R Result] struct {
	Result      R
	Success     bool
	Attempted   bool
	Compensated bool
	Errors      []ports.Problem
}

// WithCompensation runs op. When op fails or panics, compensate runs with
// op's result. A failing compensator is logged at ERROR with
// requires_manual_intervention=true and reported as a compensation_failed
// problem.
func WithCompensation[R Result](ctx context.Context, name string, op Operation[R], compensate func(ctx context.Context, r R) error) CompensationResult[R] {
	var res CompensationResult[R]
	res.Result, res.Errors = attemptOnce(ctx, name, op)
	if res.Errors == nil {
		res.Success = true
		return res
	}

	logger := logging.FromContext(ctx)
	logger.WarnContext(ctx, "operation failed, compensating",
		slog.String("operation", name),
		slog.Any("problems", res.Errors),
	)

	res.Attempted = true
	err := safeCompensate(ctx, compensate, res.Result)
	if err == nil {
		res.Compensated = true
		logger.InfoContext(ctx, "compensation applied", slog.String("operation", name))
		return res
	}

	logger.ErrorContext(ctx, "compensation failed",
		slog.String("operation", name),
		slog.Bool("requires_manual_intervention", true),
		slog.Any("error", err),
	)
	res.Errors = append(res.Errors, ports.Problem{
		Kind:    ports.ProblemCompensationFailed,
		Message: fmt.Sprintf("compensating %s: %v", name, err),
	})
	return res
}

// safeCompensate converts a compensator panic into an error.
func safeCompensate[R Result](ctx context.Context, compensate func(context.Context, R) error, r R) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("compensator panicked: %v", rec)
		}
	}()
	return compensate(ctx, r)
}
