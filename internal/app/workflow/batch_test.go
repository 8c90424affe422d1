package workflow

import (
	"context"
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/jsamuelsen11/scorebook/internal/ports"
)

func TestRunBatch_StopsAtFirstFailure(t *testing.T) {
	t.Parallel()
	var invoked, rolledBack []string

	op := func(name string, ok bool) BatchOp[ports.Outcome] {
		return BatchOp[ports.Outcome]{
			Name: name,
			Run: func(context.Context) ports.Outcome {
				invoked = append(invoked, name)
				if !ok {
					return failWith(ports.ProblemInvalidTransition)
				}
				return ports.Succeed()
			},
			Rollback: func(context.Context, ports.Outcome) error {
				rolledBack = append(rolledBack, name)
				return nil
			},
		}
	}

	res := RunBatch(context.Background(), "test", []BatchOp[ports.Outcome]{
		op("A", true), op("B", false), op("C", true),
	})

	if res.Success {
		t.Fatal("RunBatch() succeeded, want failure")
	}
	if !slices.Equal(invoked, []string{"A", "B"}) {
		t.Errorf("invoked = %v, want [A B]", invoked)
	}
	if !slices.Equal(rolledBack, []string{"A"}) {
		t.Errorf("rolled back = %v, want [A]", rolledBack)
	}
	if !res.RolledBack || res.FailedIndex != 1 || len(res.Results) != 1 {
		t.Errorf("RunBatch() = %+v, want rollback applied at index 1 with one result", res)
	}
	if len(res.Errors) == 0 || !strings.Contains(res.Errors[0].Message, "operation 1") {
		t.Errorf("Errors = %+v, want a problem naming operation 1", res.Errors)
	}
}

func TestRunBatch_RollsBackInReverse(t *testing.T) {
	t.Parallel()
	var order []int

	ops := make([]BatchOp[ports.Outcome], 0, 4)
	for i := range 3 {
		ops = append(ops, BatchOp[ports.Outcome]{
			Name:     "ok",
			Run:      func(context.Context) ports.Outcome { return ports.Succeed() },
			Rollback: func(context.Context, ports.Outcome) error { order = append(order, i); return nil },
		})
	}
	ops = append(ops, BatchOp[ports.Outcome]{
		Name: "panics",
		Run:  func(context.Context) ports.Outcome { panic("boom") },
	})

	res := RunBatch(context.Background(), "test", ops)

	if res.FailedIndex != 3 || res.Errors[0].Kind != ports.ProblemInternal {
		t.Errorf("RunBatch() = %+v, want an internal failure at index 3", res)
	}
	if !slices.Equal(order, []int{2, 1, 0}) {
		t.Errorf("rollback order = %v, want [2 1 0]", order)
	}
}

func TestRunBatch_ReportsRollbackFailure(t *testing.T) {
	t.Parallel()

	res := RunBatch(context.Background(), "test", []BatchOp[ports.Outcome]{
		{
			Name:     "A",
			Run:      func(context.Context) ports.Outcome { return ports.Succeed() },
			Rollback: func(context.Context, ports.Outcome) error { return errors.New("disk full") },
		},
		{
			Name: "B",
			Run:  func(context.Context) ports.Outcome { return failWith(ports.ProblemConflict) },
		},
	})

	last := res.Errors[len(res.Errors)-1]
	if last.Kind != ports.ProblemCompensationFailed {
		t.Errorf("last problem = %+v, want compensation_failed", last)
	}
}

func TestRunBatch_AllSucceed(t *testing.T) {
	t.Parallel()

	res := RunBatch(context.Background(), "test", []BatchOp[ports.Outcome]{
		{Name: "A", Run: func(context.Context) ports.Outcome { return ports.Succeed() }},
		{Name: "B", Run: func(context.Context) ports.Outcome { return ports.Succeed() }},
	})

	if !res.Success || res.RolledBack || res.FailedIndex != -1 || len(res.Results) != 2 {
		t.Errorf("RunBatch() = %+v, want two results and no rollback", res)
	}
}
