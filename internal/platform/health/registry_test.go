package health_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/jsamuelsen11/scorebook/internal/platform/health"
	"github.com/jsamuelsen11/scorebook/mocks"
)

// blockingChecker waits for its context, like a dependency that never answers.
type blockingChecker struct{ name string }

func (b blockingChecker) Name() string { return b.name }

func (b blockingChecker) HealthCheck(ctx context.Context) error {
	<-ctx.Done()
	return ctx.Err()
}

// ignoringChecker ignores its context entirely.
type ignoringChecker struct {
	release chan struct{}
}

func (ignoringChecker) Name() string { return "stuck" }

func (c ignoringChecker) HealthCheck(context.Context) error {
	<-c.release
	return nil
}

func TestCheckAll_Empty(t *testing.T) {
	t.Parallel()

	results := health.New().CheckAll(context.Background())

	if results == nil || len(results) != 0 {
		t.Errorf("CheckAll() = %v, want empty non-nil map", results)
	}
}

func TestCheckAll_MixedHealth(t *testing.T) {
	t.Parallel()

	db := mocks.NewMockHealthChecker(t)
	db.EXPECT().Name().Return("sqlite")
	db.EXPECT().HealthCheck(mock.Anything).Return(nil)

	errRefused := errors.New("connection refused")
	stream := mocks.NewMockHealthChecker(t)
	stream.EXPECT().Name().Return("redis:scorebook.matches")
	stream.EXPECT().HealthCheck(mock.Anything).Return(errRefused)

	r := health.New()
	r.Register(db)
	r.Register(stream)

	results := r.CheckAll(context.Background())

	if len(results) != 2 {
		t.Fatalf("CheckAll() = %v, want 2 results", results)
	}
	if results["sqlite"] != nil {
		t.Errorf("sqlite check = %v, want nil", results["sqlite"])
	}
	if !errors.Is(results["redis:scorebook.matches"], errRefused) {
		t.Errorf("redis check = %v, want %v", results["redis:scorebook.matches"], errRefused)
	}
}

func TestCheckAll_ChecksRunConcurrently(t *testing.T) {
	t.Parallel()

	r := health.New(health.WithCheckTimeout(50 * time.Millisecond))
	for _, name := range []string{"a", "b", "c", "d"} {
		r.Register(blockingChecker{name: name})
	}

	start := time.Now()
	results := r.CheckAll(context.Background())

	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("CheckAll() took %v, want the checks to overlap", elapsed)
	}
	for name, err := range results {
		if !errors.Is(err, context.DeadlineExceeded) {
			t.Errorf("%s check = %v, want deadline exceeded", name, err)
		}
	}
}

func TestCheckAll_TimesOutCheckThatIgnoresContext(t *testing.T) {
	t.Parallel()

	stuck := ignoringChecker{release: make(chan struct{})}
	t.Cleanup(func() { close(stuck.release) })

	r := health.New(health.WithCheckTimeout(20 * time.Millisecond))
	r.Register(stuck)

	results := r.CheckAll(context.Background())
	if !errors.Is(results["stuck"], context.DeadlineExceeded) {
		t.Errorf("stuck check = %v, want deadline exceeded", results["stuck"])
	}
}

func TestCheckAll_ContextPropagated(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := health.New()
	r.Register(blockingChecker{name: "webhook"})

	if err := r.CheckAll(ctx)["webhook"]; !errors.Is(err, context.Canceled) {
		t.Errorf("webhook check = %v, want context.Canceled", err)
	}
}

func TestRegister_SameNameReplaces(t *testing.T) {
	t.Parallel()

	first := mocks.NewMockHealthChecker(t)
	first.EXPECT().Name().Return("sqlite")

	errSecond := errors.New("database is locked")
	second := mocks.NewMockHealthChecker(t)
	second.EXPECT().Name().Return("sqlite")
	second.EXPECT().HealthCheck(mock.Anything).Return(errSecond)

	r := health.New()
	r.Register(first)
	r.Register(second)

	results := r.CheckAll(context.Background())
	if len(results) != 1 || !errors.Is(results["sqlite"], errSecond) {
		t.Errorf("CheckAll() = %v, want only the second checker", results)
	}
}

func TestRegistry_ConcurrentRegisterAndCheck(t *testing.T) {
	t.Parallel()

	r := health.New()
	var wg sync.WaitGroup

	for i := range 40 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if i%2 == 0 {
				r.Register(blockingChecker{name: "b"})
				return
			}
			ctx, cancel := context.WithTimeout(context.Background(), time.Millisecond)
			defer cancel()
			r.CheckAll(ctx)
		}()
	}
	wg.Wait()
}
