package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jsamuelsen11/scorebook/internal/domain"
	"github.com/jsamuelsen11/scorebook/internal/platform/config"
	"github.com/jsamuelsen11/scorebook/internal/ports"
)

// StreamClient is the subset of *redis.Client used by RedisStream.
type StreamClient interface {
	XAdd(ctx context.Context, a *redis.XAddArgs) *redis.StringCmd
	Ping(ctx context.Context) *redis.StatusCmd
	Close() error
}

// RedisStream appends each notification to a Redis stream. Entries carry
// "kind", "match_id", "data" (the JSON Message) and "timestamp" (unix
// seconds). The stream is trimmed approximately to MaxLen when it is set.
type RedisStream struct {
	notifier
	client StreamClient
	stream string
}

var _ ports.Notifier = (*RedisStream)(nil)

// NewRedisStream connects to cfg.URL. The connection is lazy; use
// HealthCheck to probe it.
func NewRedisStream(cfg config.RedisConfig) (*RedisStream, error) {
	opt, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}
	return NewRedisStreamWithClient(redis.NewClient(opt), cfg.Stream, cfg.MaxLen), nil
}

// NewRedisStreamWithClient publishes to stream through client.
func NewRedisStreamWithClient(client StreamClient, stream string, maxLen int64) *RedisStream {
	return &RedisStream{
		notifier: notifier{sink: streamSink{client: client, stream: stream, maxLen: maxLen, now: time.Now}},
		client:   client,
		stream:   stream,
	}
}

// Name identifies the stream in health output.
func (r *RedisStream) Name() string {
	return "redis:" + r.stream
}

// HealthCheck pings the server.
func (r *RedisStream) HealthCheck(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("%s: %w: %w", r.Name(), domain.ErrUnavailable, err)
	}
	return nil
}

// Close releases the connection pool.
func (r *RedisStream) Close() error {
	return r.client.Close()
}

type streamSink struct {
	client StreamClient
	stream string
	maxLen int64
	now    func() time.Time
}

func (s streamSink) deliver(ctx context.Context, msg Message) error {
	args, err := s.args(msg)
	if err != nil {
		return err
	}
	if err := s.client.XAdd(ctx, args).Err(); err != nil {
		return fmt.Errorf("publishing %s to %s: %w: %w", msg.Kind, s.stream, domain.ErrUnavailable, err)
	}
	return nil
}

func (s streamSink) args(msg Message) (*redis.XAddArgs, error) {
	data, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("encoding %s notification: %w", msg.Kind, err)
	}
	args := &redis.XAddArgs{
		Stream: s.stream,
		Values: map[string]any{
			"kind":      string(msg.Kind),
			"match_id":  msg.MatchID,
			"data":      string(data),
			"timestamp": s.now().Unix(),
		},
	}
	if s.maxLen > 0 {
		args.MaxLen = s.maxLen
		args.Approx = true
	}
	return args, nil
}
