// Package workflow composes Scorekeeper commands into multi-step sequences.
//
// It provides three primitives, each usable on its own:
//
//   - Retry re-runs an operation with exponential backoff until it succeeds,
//     fails with a problem that retrying cannot fix, or runs out of attempts.
//   - RunBatch runs operations strictly in order and stops at the first
//     failure, rolling back the operations that completed.
//   - WithCompensation runs an operation and, if it fails, a compensator.
//
// MatchWorkflow builds a full scripted match on top of them.
package workflow

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"runtime/debug"
	"time"

	"go.opentelemetry.io/otel/metric"

	"github.com/jsamuelsen11/scorebook/internal/platform/logging"
	"github.com/jsamuelsen11/scorebook/internal/platform/telemetry"
	"github.com/jsamuelsen11/scorebook/internal/ports"
)

// Result is implemented by every Scorekeeper result through its embedded
// ports.Outcome.
type Result interface {
	Succeeded() bool
	Problems() []ports.Problem
}

// Operation is one attempt at a command.
type Operation[R Result] func(ctx context.Context) R

// Policy controls how many times an operation is attempted and how long to
// wait between attempts.
type Policy struct {
	MaxAttempts int
	Initial     time.Duration
	Multiplier  float64
	Max         time.Duration
}

// DefaultPolicy waits 1s, 2s, 4s, 8s and then 10s between attempts.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts: 3,
		Initial:     time.Second,
		Multiplier:  2,
		Max:         10 * time.Second,
	}
}

// Delay returns the wait before attempt k+1, where k is the 1-indexed number
// of the attempt that just failed.
func (p Policy) Delay(k int) time.Duration {
	if k < 1 {
		k = 1
	}
	delay := float64(p.Initial) * math.Pow(p.Multiplier, float64(k-1))
	if delay > float64(p.Max) {
		delay = float64(p.Max)
	}
	return time.Duration(delay)
}

// Validate reports a misconfigured policy.
func (p Policy) Validate() error {
	switch {
	case p.MaxAttempts < 1:
		return fmt.Errorf("max attempts must be >= 1, got %d", p.MaxAttempts)
	case p.Initial < 0:
		return fmt.Errorf("initial delay must be >= 0, got %s", p.Initial)
	case p.Multiplier < 1:
		return fmt.Errorf("multiplier must be >= 1, got %g", p.Multiplier)
	case p.Max < p.Initial:
		return fmt.Errorf("max delay %s is below initial delay %s", p.Max, p.Initial)
	}
	return nil
}

// Retrier bundles what Retry needs besides the operation itself.
type Retrier struct {
	Policy  Policy
	Sleeper Sleeper
	Metrics *telemetry.Metrics
}

// RetryResult carries the last attempt's result. Errors holds that attempt's
// problems, plus an exhaustion marker when every attempt failed.
type RetryResult[R Result] struct {
	Result   R
	Success  bool
	Attempts int
	Delays   []time.Duration
	Errors   []ports.Problem
}

// Retry runs op until it succeeds, reports a problem that is not retryable,
// or Policy.MaxAttempts attempts have failed. A panic inside op counts as a
// failed attempt. Cancelling ctx stops the wait between attempts but never
// interrupts an attempt in progress.
func Retry[R Result](ctx context.Context, rt Retrier, name string, op Operation[R]) RetryResult[R] {
	maxAttempts := max(rt.Policy.MaxAttempts, 1)
	sleeper := rt.Sleeper
	if sleeper == nil {
		sleeper = TimerSleeper{}
	}
	logger := logging.FromContext(ctx)

	var res RetryResult[R]
	defer func() { rt.record(ctx, name, res.Attempts, res.Success) }()

	for attempt := 1; ; attempt++ {
		res.Attempts = attempt
		res.Result, res.Errors = attemptOnce(ctx, name, op)
		if res.Errors == nil {
			res.Success = true
			return res
		}
		if !retryable(res.Errors) {
			return res
		}
		if attempt == maxAttempts {
			res.Errors = append(res.Errors, ports.Problem{
				Kind:    res.Errors[0].Kind,
				Message: fmt.Sprintf("Operation failed after %d attempts", attempt),
			})
			return res
		}

		delay := rt.Policy.Delay(attempt)
		logger.WarnContext(ctx, "retrying operation",
			slog.String("operation", name),
			slog.Int("attempt", attempt+1),
			slog.Int("max_attempts", maxAttempts),
			slog.Duration("backoff", delay),
			slog.Any("problems", res.Errors),
		)
		res.Delays = append(res.Delays, delay)

		if err := sleeper.Sleep(ctx, delay); err != nil {
			res.Errors = append(res.Errors, ports.ProblemsFromError(fmt.Errorf("waiting to retry %s: %w", name, err))...)
			return res
		}
	}
}

// attemptOnce runs op and returns nil problems on success.
func attemptOnce[R Result](ctx context.Context, name string, op Operation[R]) (r R, problems []ports.Problem) {
	defer func() {
		if rec := recover(); rec != nil {
			logging.FromContext(ctx).ErrorContext(ctx, "panic recovered in workflow operation",
				slog.String("operation", name),
				slog.Any("panic", rec),
				slog.String("stack", string(debug.Stack())),
			)
			problems = []ports.Problem{{Kind: ports.ProblemInternal, Message: fmt.Sprintf("%s panicked: %v", name, rec)}}
		}
	}()

	r = op(ctx)
	if r.Succeeded() {
		return r, nil
	}
	problems = r.Problems()
	if len(problems) == 0 {
		problems = []ports.Problem{{Kind: ports.ProblemInternal, Message: name + " failed without reporting a problem"}}
	}
	return r, problems
}

// retryable reports whether every problem is one a later attempt could fix.
func retryable(problems []ports.Problem) bool {
	for _, p := range problems {
		if !p.Kind.Retryable() {
			return false
		}
	}
	return true
}

// record counts the attempts an operation used.
func (rt Retrier) record(ctx context.Context, name string, attempts int, success bool) {
	if rt.Metrics == nil {
		return
	}
	result := "success"
	if !success {
		result = "failure"
	}
	rt.Metrics.WorkflowAttempts.Add(ctx, int64(attempts), metric.WithAttributes(
		telemetry.AttrOperation.String(name),
		telemetry.AttrResult.String(result),
	))
}
