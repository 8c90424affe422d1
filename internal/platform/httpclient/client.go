// Package httpclient posts JSON documents to a downstream HTTP endpoint with
// circuit breaking, rate limiting, retry and OpenTelemetry tracing. The
// webhook notifier is its only caller.
//
// Each PostJSON call runs through:
//
//	Circuit Breaker → Rate Limiter → OTEL Span → Retry → HTTP
//
// The breaker sees one outcome per call, after retries are exhausted, so a
// single flaky delivery does not count as several failures.
package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"

	"github.com/jsamuelsen11/scorebook/internal/domain"
	"github.com/jsamuelsen11/scorebook/internal/platform/config"
	"github.com/jsamuelsen11/scorebook/internal/platform/logging"
	"github.com/jsamuelsen11/scorebook/internal/platform/telemetry"
)

type requestIDKey struct{}

// WithRequestID stores the inbound request ID so that outbound deliveries
// carry it in X-Request-ID.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// StatusError is returned when the peer answers with a non-2xx status.
// Server errors and 429 unwrap to domain.ErrUnavailable; other statuses
// mean the peer rejected the document.
type StatusError struct {
	Peer       string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s answered HTTP %d", e.Peer, e.StatusCode)
}

func (e *StatusError) Unwrap() error {
	if isRetryableStatus(e.StatusCode) {
		return domain.ErrUnavailable
	}
	return nil
}

// Client delivers JSON documents to a single base URL.
type Client struct {
	http    *http.Client
	baseURL string
	peer    string
	breaker *gobreaker.CircuitBreaker[int]
	limiter *rate.Limiter // nil when rate limiting is disabled
	backoff backoffPolicy
	metrics *telemetry.Metrics
	logger  *slog.Logger
}

// New builds a client for cfg. peer names the downstream in spans, metrics
// and health output. A nil metrics skips metric recording.
func New(cfg *config.ClientConfig, peer string, metrics *telemetry.Metrics, logger *slog.Logger) *Client {
	logger = logging.OrDiscard(logger)

	breaker := gobreaker.NewCircuitBreaker[int](gobreaker.Settings{
		Name:        peer,
		MaxRequests: toUint32(cfg.CircuitBreaker.HalfOpenLimit),
		Timeout:     cfg.CircuitBreaker.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return int(counts.ConsecutiveFailures) >= cfg.CircuitBreaker.MaxFailures
		},
		IsSuccessful: func(err error) bool {
			// A rejected document says nothing about the peer's health.
			var se *StatusError
			return err == nil || (errors.As(err, &se) && !isRetryableStatus(se.StatusCode))
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("webhook circuit breaker state change",
				slog.String("peer_service", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()),
			)
		},
	})

	var limiter *rate.Limiter
	if cfg.RateLimit.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit.RequestsPerSecond), max(cfg.RateLimit.BurstSize, 1))
	}

	return &Client{
		http:    &http.Client{Timeout: cfg.Timeout},
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		peer:    peer,
		breaker: breaker,
		limiter: limiter,
		backoff: backoffPolicy{
			attempts: cfg.Retry.MaxAttempts,
			initial:  cfg.Retry.InitialInterval,
			max:      cfg.Retry.MaxInterval,
			factor:   cfg.Retry.Multiplier,
			jitter:   secureRandFloat64,
		},
		metrics: metrics,
		logger:  logger,
	}
}

// PostJSON marshals body and POSTs it to the base URL joined with path.
// It returns nil once the peer answers 2xx. The response body is discarded.
//
// An open breaker is reported as domain.ErrUnavailable without a network
// call.
func (c *Client) PostJSON(ctx context.Context, path string, body any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encoding %s payload: %w", c.peer, err)
	}
	url := c.baseURL + "/" + strings.TrimPrefix(path, "/")

	start := time.Now()
	status, err := c.breaker.Execute(func() (int, error) {
		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				return 0, err
			}
		}

		spanCtx, span := c.startSpan(ctx, url)
		defer span.End()

		status, err := c.postWithRetry(spanCtx, url, payload)
		if status != 0 {
			span.SetAttributes(attribute.Int("http.status_code", status))
		}
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		return status, err
	})
	c.recordMetrics(ctx, start, status, err)

	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("%s: %w: %w", c.peer, domain.ErrUnavailable, err)
	}
	return err
}

// Name identifies the downstream in health output.
func (c *Client) Name() string {
	return c.peer
}

// HealthCheck reports the breaker state without a network call. The service
// stays ready while the peer fails; readiness only reflects this as detail.
func (c *Client) HealthCheck(_ context.Context) error {
	switch state := c.breaker.State(); state {
	case gobreaker.StateClosed:
		return nil
	case gobreaker.StateHalfOpen:
		return fmt.Errorf("%s: degraded (circuit breaker half-open)", c.peer)
	case gobreaker.StateOpen:
		return fmt.Errorf("%s: failing (circuit breaker open)", c.peer)
	default:
		return fmt.Errorf("%s: unknown circuit breaker state %v", c.peer, state)
	}
}

// send performs one POST. The returned status is 0 when no response arrived.
func (c *Client) send(ctx context.Context, url string, payload []byte) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return 0, fmt.Errorf("building %s request: %w", c.peer, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if id, ok := ctx.Value(requestIDKey{}).(string); ok && id != "" {
		req.Header.Set("X-Request-ID", id)
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, err
	}
	// Drain so the connection can be reused.
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		return resp.StatusCode, &StatusError{Peer: c.peer, StatusCode: resp.StatusCode}
	}
	return resp.StatusCode, nil
}

func (c *Client) startSpan(ctx context.Context, url string) (context.Context, trace.Span) {
	tracer := otel.GetTracerProvider().Tracer(telemetry.InstrumentationName)
	return tracer.Start(ctx, "POST "+c.peer,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.method", http.MethodPost),
			attribute.String("http.url", url),
			attribute.String("peer.service", c.peer),
		),
	)
}

// recordMetrics runs outside the breaker so that rejected calls are counted.
func (c *Client) recordMetrics(ctx context.Context, start time.Time, status int, err error) {
	if c.metrics == nil {
		return
	}

	result := "success"
	switch {
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		result = "circuit_open"
	case err != nil:
		result = "error"
	}

	attrs := metric.WithAttributes(
		telemetry.AttrHTTPMethod.String(http.MethodPost),
		telemetry.AttrHTTPStatus.Int(status),
		telemetry.AttrPeerService.String(c.peer),
		telemetry.AttrResult.String(result),
	)
	c.metrics.ClientRequestDuration.Record(ctx, time.Since(start).Seconds(), attrs)
	c.metrics.ClientRequestTotal.Add(ctx, 1, attrs)
}

func toUint32(v int) uint32 {
	if v <= 0 {
		return 0
	}
	if v > math.MaxUint32 {
		return math.MaxUint32
	}
	return uint32(v)
}
