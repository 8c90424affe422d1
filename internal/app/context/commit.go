package appctx

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jsamuelsen11/scorebook/internal/domain"
	"github.com/jsamuelsen11/scorebook/internal/platform/logging"
)

// Commit executes the staged steps in insertion order. If a step fails, the
// steps that completed are rolled back in reverse order and the step's error
// is returned.
//
// A failed rollback does not stop the remaining rollbacks. When any rollback
// fails the stored state can no longer be trusted: Commit logs the failure at
// ERROR with requires_manual_intervention=true and the returned error also
// matches domain.ErrCompensationFailed.
//
// Returns ErrAlreadyCommitted if called more than once.
func (cc *CommandContext) Commit(ctx context.Context) error {
	if cc.committed {
		return ErrAlreadyCommitted
	}
	cc.committed = true

	logger := logging.FromContext(ctx)

	for i, item := range cc.items {
		logger.DebugContext(ctx, "executing step",
			slog.String("operation", "CommandContext.Commit"),
			slog.Int("step", i+1),
			slog.Int("total", len(cc.items)),
			slog.String("action", item.Description()),
		)

		if err := item.Execute(ctx); err != nil {
			logger.ErrorContext(ctx, "step failed, initiating rollback",
				slog.String("operation", "CommandContext.Commit"),
				slog.Int("failed_step", i+1),
				slog.String("action", item.Description()),
				slog.Any("error", err),
			)
			stepErr := fmt.Errorf("executing %s: %w", item.Description(), err)

			if rbErr := rollbackItems(ctx, cc.items, i-1, logger); rbErr != nil {
				logger.ErrorContext(ctx, "compensation failed",
					slog.String("operation", "CommandContext.Commit"),
					slog.Bool("requires_manual_intervention", true),
					slog.Any("error", rbErr),
				)
				return errors.Join(stepErr, fmt.Errorf("%w: %w", domain.ErrCompensationFailed, rbErr))
			}
			return stepErr
		}
	}

	return nil
}

// rollbackItems rolls back items 0..upTo (inclusive) in reverse order and
// returns every rollback error joined.
func rollbackItems(ctx context.Context, items []domain.Action, upTo int, logger *slog.Logger) error {
	var errs []error
	for i := upTo; i >= 0; i-- {
		item := items[i]

		logger.InfoContext(ctx, "rolling back step",
			slog.String("operation", "CommandContext.Commit"),
			slog.Int("step", i+1),
			slog.String("action", item.Description()),
		)

		if err := item.Rollback(ctx); err != nil {
			logger.ErrorContext(ctx, "rollback failed",
				slog.String("operation", "CommandContext.Commit"),
				slog.Int("step", i+1),
				slog.String("action", item.Description()),
				slog.Any("error", err),
			)
			errs = append(errs, fmt.Errorf("rolling back %s: %w", item.Description(), err))
		}
	}
	return errors.Join(errs...)
}
