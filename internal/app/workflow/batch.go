package workflow

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jsamuelsen11/scorebook/internal/platform/logging"
	"github.com/jsamuelsen11/scorebook/internal/ports"
)

// BatchOp is one operation of a transactional batch. Rollback is optional;
// it receives the result the operation returned.
type BatchOp[R Result] struct {
	Name     string
	Run      Operation[R]
	Rollback func(ctx context.Context, r R) error
}

// BatchResult reports a batch run. Results holds the result of every
// operation that completed, in order. FailedIndex is -1 when every operation
// succeeded.
type BatchResult[R Result] struct {
	Success     bool
	Results     []R
	FailedIndex int
	RolledBack  bool
	Errors      []ports.Problem
}

// RunBatch runs ops one at a time, in order. The first operation that fails
// (or panics) stops the batch: later operations are never invoked and the
// completed ones are rolled back in reverse order.
//
// Rollback is best effort. Nothing underneath the batch is atomic, so
// rollback failures are logged and reported but never retried.
func RunBatch[R Result](ctx context.Context, name string, ops []BatchOp[R]) BatchResult[R] {
	logger := logging.FromContext(ctx)
	res := BatchResult[R]{FailedIndex: -1, Results: make([]R, 0, len(ops))}

	for i, op := range ops {
		logger.DebugContext(ctx, "executing batch operation",
			slog.String("operation", name),
			slog.Int("index", i),
			slog.Int("total", len(ops)),
			slog.String("action", op.Name),
		)

		r, problems := attemptOnce(ctx, op.Name, op.Run)
		if problems == nil {
			res.Results = append(res.Results, r)
			continue
		}

		logger.ErrorContext(ctx, "batch operation failed, rolling back",
			slog.String("operation", name),
			slog.Int("failed_index", i),
			slog.String("action", op.Name),
			slog.Any("problems", problems),
		)
		res.FailedIndex = i
		for _, p := range problems {
			p.Message = fmt.Sprintf("operation %d (%s) failed: %s", i, op.Name, p.Message)
			res.Errors = append(res.Errors, p)
		}
		res.Errors = append(res.Errors, rollbackBatch(ctx, logger, name, ops[:i], res.Results)...)
		res.RolledBack = true
		return res
	}

	res.Success = true
	return res
}

// rollbackBatch rolls back ops in reverse order and returns a problem for
// every rollback that failed.
func rollbackBatch[R Result](ctx context.Context, logger *slog.Logger, name string, ops []BatchOp[R], results []R) []ports.Problem {
	var problems []ports.Problem
	for i := len(ops) - 1; i >= 0; i-- {
		op := ops[i]
		logger.InfoContext(ctx, "rolling back batch operation",
			slog.String("operation", name),
			slog.Int("index", i),
			slog.String("action", op.Name),
		)
		if op.Rollback == nil {
			continue
		}

		if err := op.Rollback(ctx, results[i]); err != nil {
			logger.ErrorContext(ctx, "batch rollback failed",
				slog.String("operation", name),
				slog.Int("index", i),
				slog.String("action", op.Name),
				slog.Bool("requires_manual_intervention", true),
				slog.Any("error", err),
			)
			problems = append(problems, ports.Problem{
				Kind:    ports.ProblemCompensationFailed,
				Message: fmt.Sprintf("rolling back operation %d (%s): %v", i, op.Name, err),
			})
		}
	}
	return problems
}
