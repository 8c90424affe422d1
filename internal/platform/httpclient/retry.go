package httpclient

import (
	"context"
	crand "crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"time"

	"github.com/jsamuelsen11/scorebook/internal/platform/logging"
)

// jitterFraction is the maximum jitter as a fraction of the delay (±25%).
const jitterFraction = 0.25

// backoffPolicy is exponential backoff with jitter. jitter returns a value
// in [0, 1); 0.5 yields the unjittered delay.
type backoffPolicy struct {
	attempts int
	initial  time.Duration
	max      time.Duration
	factor   float64
	jitter   func() float64
}

// delay returns the wait before retry number n (1 is the first retry).
func (p backoffPolicy) delay(n int) time.Duration {
	d := float64(p.initial) * math.Pow(p.factor, float64(n-1))
	if d > float64(p.max) {
		d = float64(p.max)
	}
	d += d * jitterFraction * (2*p.jitter() - 1)
	return time.Duration(max(d, 0))
}

// postWithRetry sends payload until the peer answers with a non-retryable
// status, the attempts run out, or ctx ends. It returns the last status seen.
func (c *Client) postWithRetry(ctx context.Context, url string, payload []byte) (int, error) {
	if c.backoff.attempts <= 0 {
		return 0, fmt.Errorf("httpclient: max attempts must be >= 1, got %d", c.backoff.attempts)
	}

	var (
		status int
		err    error
	)
	for attempt := 1; attempt <= c.backoff.attempts; attempt++ {
		if attempt > 1 {
			wait := c.backoff.delay(attempt - 1)
			logging.FromContext(ctx).WarnContext(ctx, "retrying webhook delivery",
				slog.String("peer_service", c.peer),
				slog.String("url", url),
				slog.Int("attempt", attempt),
				slog.Int("max_attempts", c.backoff.attempts),
				slog.Duration("backoff", wait),
				slog.Any("error", err),
			)
			if werr := sleep(ctx, wait); werr != nil {
				return status, werr
			}
		}

		status, err = c.send(ctx, url, payload)
		if !shouldRetry(status, err) {
			return status, err
		}
	}
	return status, err
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// shouldRetry retries transport errors and retryable statuses, but never a
// cancelled or expired context.
func shouldRetry(status int, err error) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return false
	case status == 0:
		return true
	default:
		return isRetryableStatus(status)
	}
}

// isRetryableStatus reports server errors and 429 Too Many Requests.
func isRetryableStatus(status int) bool {
	return status == http.StatusTooManyRequests || status >= http.StatusInternalServerError
}

// secureRandFloat64 returns a random float64 in [0, 1) using crypto/rand.
func secureRandFloat64() float64 {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0.5
	}
	return float64(binary.BigEndian.Uint64(b[:])>>11) / (1 << 53)
}
