package workflow

import (
	"context"
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/jsamuelsen11/scorebook/internal/domain"
	"github.com/jsamuelsen11/scorebook/internal/ports"
)

// recordingSleeper records requested delays without waiting.
type recordingSleeper struct {
	delays []time.Duration
	err    error
}

func (s *recordingSleeper) Sleep(_ context.Context, d time.Duration) error {
	s.delays = append(s.delays, d)
	return s.err
}

func failWith(kind ports.ProblemKind) ports.Outcome {
	return ports.Outcome{Errors: []ports.Problem{{Kind: kind, Message: string(kind)}}}
}

func TestPolicy_Delay(t *testing.T) {
	t.Parallel()
	p := DefaultPolicy()

	want := []time.Duration{1000, 2000, 4000, 8000, 10000}
	for k, w := range want {
		if got := p.Delay(k + 1); got != w*time.Millisecond {
			t.Errorf("Delay(%d) = %v, want %v", k+1, got, w*time.Millisecond)
		}
	}
	if got := p.Delay(20); got != 10*time.Second {
		t.Errorf("Delay(20) = %v, want cap of 10s", got)
	}
}

func TestPolicy_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Policy)
		wantErr bool
	}{
		{name: "default", mutate: func(*Policy) {}},
		{name: "zero attempts", mutate: func(p *Policy) { p.MaxAttempts = 0 }, wantErr: true},
		{name: "shrinking multiplier", mutate: func(p *Policy) { p.Multiplier = 0.5 }, wantErr: true},
		{name: "max below initial", mutate: func(p *Policy) { p.Max = time.Millisecond }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			p := DefaultPolicy()
			tt.mutate(&p)
			if err := p.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestRetry_RecordsBackoffSequence(t *testing.T) {
	t.Parallel()
	sleeper := &recordingSleeper{}
	policy := DefaultPolicy()
	policy.MaxAttempts = 6

	calls := 0
	res := Retry(context.Background(), Retrier{Policy: policy, Sleeper: sleeper}, "op", func(context.Context) ports.Outcome {
		calls++
		return failWith(ports.ProblemUnavailable)
	})

	if res.Success {
		t.Fatal("Retry() succeeded, want failure")
	}
	if calls != 6 || res.Attempts != 6 {
		t.Errorf("calls = %d, Attempts = %d, want 6", calls, res.Attempts)
	}
	want := []time.Duration{time.Second, 2 * time.Second, 4 * time.Second, 8 * time.Second, 10 * time.Second}
	if !slices.Equal(res.Delays, want) || !slices.Equal(sleeper.delays, want) {
		t.Errorf("Delays = %v, slept %v, want %v", res.Delays, sleeper.delays, want)
	}
	last := res.Errors[len(res.Errors)-1]
	if last.Message != "Operation failed after 6 attempts" {
		t.Errorf("last problem = %q, want exhaustion marker", last.Message)
	}
	if res.Errors[0].Kind != ports.ProblemUnavailable {
		t.Errorf("first problem kind = %s, want the attempt's own problem", res.Errors[0].Kind)
	}
}

func TestRetry_SucceedsAfterTransientFailures(t *testing.T) {
	t.Parallel()
	sleeper := &recordingSleeper{}

	calls := 0
	res := Retry(context.Background(), Retrier{Policy: DefaultPolicy(), Sleeper: sleeper}, "op",
		func(context.Context) ports.PlateAppearanceResult {
			calls++
			if calls < 3 {
				return ports.PlateAppearanceResult{Outcome: failWith(ports.ProblemInfrastructure)}
			}
			return ports.PlateAppearanceResult{Outcome: ports.Succeed(), RunsScored: 2}
		})

	if !res.Success || res.Attempts != 3 {
		t.Fatalf("Retry() = success %v after %d attempts, want success after 3", res.Success, res.Attempts)
	}
	if res.Result.RunsScored != 2 {
		t.Errorf("RunsScored = %d, want the final attempt's result", res.Result.RunsScored)
	}
	if len(res.Errors) != 0 {
		t.Errorf("Errors = %+v, want none", res.Errors)
	}
}

func TestRetry_StopsOnNonRetryableProblem(t *testing.T) {
	t.Parallel()

	for _, kind := range []ports.ProblemKind{
		ports.ProblemValidation, ports.ProblemNotFound, ports.ProblemInvalidState,
		ports.ProblemInvalidTransition, ports.ProblemForbidden, ports.ProblemStateChanged,
	} {
		t.Run(string(kind), func(t *testing.T) {
			t.Parallel()
			sleeper := &recordingSleeper{}
			res := Retry(context.Background(), Retrier{Policy: DefaultPolicy(), Sleeper: sleeper}, "op",
				func(context.Context) ports.Outcome { return failWith(kind) })

			if res.Attempts != 1 || len(sleeper.delays) != 0 {
				t.Errorf("Attempts = %d, slept %d times, want one attempt and no wait", res.Attempts, len(sleeper.delays))
			}
			if len(res.Errors) != 1 {
				t.Errorf("Errors = %+v, want only the attempt's problem", res.Errors)
			}
		})
	}
}

func TestRetry_PanicCountsAsFailure(t *testing.T) {
	t.Parallel()
	calls := 0
	res := Retry(context.Background(), Retrier{Policy: DefaultPolicy(), Sleeper: &recordingSleeper{}}, "op",
		func(context.Context) ports.Outcome {
			calls++
			if calls == 1 {
				panic("boom")
			}
			return ports.Succeed()
		})

	if !res.Success || res.Attempts != 2 {
		t.Errorf("Retry() = success %v after %d attempts, want success after 2", res.Success, res.Attempts)
	}
}

func TestRetry_StopsWhenWaitIsCancelled(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := Retry(ctx, Retrier{Policy: DefaultPolicy(), Sleeper: TimerSleeper{}}, "op",
		func(context.Context) ports.Outcome { return failWith(ports.ProblemUnavailable) })

	if res.Success || res.Attempts != 1 {
		t.Fatalf("Retry() = success %v after %d attempts, want failure after 1", res.Success, res.Attempts)
	}
	if !errors.Is(ports.Outcome{Errors: res.Errors}.Err(), domain.ErrUnavailable) {
		t.Errorf("Errors = %+v, want the attempt's problem kept", res.Errors)
	}
}

func TestTimerSleeper(t *testing.T) {
	t.Parallel()

	if err := (TimerSleeper{}).Sleep(context.Background(), time.Millisecond); err != nil {
		t.Errorf("Sleep() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := (TimerSleeper{}).Sleep(ctx, time.Hour); !errors.Is(err, context.Canceled) {
		t.Errorf("Sleep(cancelled) error = %v, want context.Canceled", err)
	}
}
