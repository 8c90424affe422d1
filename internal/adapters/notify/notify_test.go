package notify_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/mock"

	"github.com/jsamuelsen11/scorebook/internal/adapters/notify"
	"github.com/jsamuelsen11/scorebook/internal/domain"
	"github.com/jsamuelsen11/scorebook/internal/domain/match"
	"github.com/jsamuelsen11/scorebook/internal/domain/play"
	"github.com/jsamuelsen11/scorebook/internal/platform/config"
	"github.com/jsamuelsen11/scorebook/internal/platform/httpclient"
	"github.com/jsamuelsen11/scorebook/internal/ports"
	"github.com/jsamuelsen11/scorebook/mocks"
)

func sampleNotification() ports.MatchNotification {
	return ports.MatchNotification{
		MatchID:  "m-1",
		HomeTeam: "Hawks",
		AwayTeam: "Owls",
		Status:   match.StatusInProgress,
		Score:    match.Score{Home: 2, Away: 1},
		Inning:   3,
		Half:     play.HalfBottom,
		At:       time.Date(2026, 5, 1, 18, 0, 0, 0, time.UTC),
	}
}

func TestLog_WritesInfoRecord(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	n := notify.NewLog(slog.New(slog.NewJSONHandler(&buf, nil)))

	if err := n.NotifyScoreUpdate(context.Background(), sampleNotification()); err != nil {
		t.Fatalf("NotifyScoreUpdate() error = %v", err)
	}

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("decoding log record: %v", err)
	}
	if rec["msg"] != "match notification" || rec["kind"] != "score_update" || rec["match_id"] != "m-1" {
		t.Errorf("record = %v", rec)
	}
	if rec["home_score"] != float64(2) || rec["half"] != "bottom" {
		t.Errorf("record = %v, want score and half", rec)
	}
}

// fakeStream records XAdd calls.
type fakeStream struct {
	added   []*redis.XAddArgs
	addErr  error
	pingErr error
	closed  bool
}

func (f *fakeStream) XAdd(_ context.Context, a *redis.XAddArgs) *redis.StringCmd {
	f.added = append(f.added, a)
	return redis.NewStringResult("1-0", f.addErr)
}

func (f *fakeStream) Ping(context.Context) *redis.StatusCmd {
	return redis.NewStatusResult("PONG", f.pingErr)
}

func (f *fakeStream) Close() error {
	f.closed = true
	return nil
}

func TestRedisStream_AppendsEntry(t *testing.T) {
	t.Parallel()
	client := &fakeStream{}
	n := notify.NewRedisStreamWithClient(client, "scorebook.matches", 1000)

	if err := n.NotifyMatchStarted(context.Background(), sampleNotification()); err != nil {
		t.Fatalf("NotifyMatchStarted() error = %v", err)
	}

	if len(client.added) != 1 {
		t.Fatalf("XAdd called %d times, want 1", len(client.added))
	}
	args := client.added[0]
	if args.Stream != "scorebook.matches" || args.MaxLen != 1000 || !args.Approx {
		t.Errorf("XAddArgs = %+v, want approximate trim of scorebook.matches to 1000", args)
	}
	values, ok := args.Values.(map[string]any)
	if !ok {
		t.Fatalf("Values = %T, want map", args.Values)
	}
	if values["kind"] != "match_started" || values["match_id"] != "m-1" {
		t.Errorf("Values = %v", values)
	}

	var msg notify.Message
	if err := json.Unmarshal([]byte(values["data"].(string)), &msg); err != nil {
		t.Fatalf("decoding data: %v", err)
	}
	if msg.Kind != notify.KindMatchStarted || msg.HomeTeam != "Hawks" || msg.Score.Home != 2 {
		t.Errorf("data = %+v", msg)
	}
}

func TestRedisStream_NoTrimWithoutMaxLen(t *testing.T) {
	t.Parallel()
	client := &fakeStream{}
	n := notify.NewRedisStreamWithClient(client, "s", 0)

	_ = n.NotifyMatchEnded(context.Background(), sampleNotification())

	if client.added[0].MaxLen != 0 || client.added[0].Approx {
		t.Errorf("XAddArgs = %+v, want no trimming", client.added[0])
	}
}

func TestRedisStream_Failures(t *testing.T) {
	t.Parallel()
	client := &fakeStream{addErr: errors.New("READONLY"), pingErr: errors.New("dial tcp: refused")}
	n := notify.NewRedisStreamWithClient(client, "s", 0)

	if err := n.NotifyScoreUpdate(context.Background(), sampleNotification()); !errors.Is(err, domain.ErrUnavailable) {
		t.Errorf("NotifyScoreUpdate() error = %v, want ErrUnavailable", err)
	}
	if err := n.HealthCheck(context.Background()); !errors.Is(err, domain.ErrUnavailable) {
		t.Errorf("HealthCheck() error = %v, want ErrUnavailable", err)
	}
	if n.Name() != "redis:s" {
		t.Errorf("Name() = %q", n.Name())
	}
	if err := n.Close(); err != nil || !client.closed {
		t.Errorf("Close() = %v, closed %v", err, client.closed)
	}
}

func TestNewRedisStream_RejectsBadURL(t *testing.T) {
	t.Parallel()

	if _, err := notify.NewRedisStream(config.RedisConfig{URL: "http://not-redis", Stream: "s"}); err == nil {
		t.Error("NewRedisStream() error = nil, want parse failure")
	}
}

func TestWebhook_PostsMessage(t *testing.T) {
	t.Parallel()

	var got notify.Message
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/hooks/scorebook" {
			t.Errorf("path = %q", r.URL.Path)
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusNoContent)
	}))
	t.Cleanup(srv.Close)

	client := httpclient.New(&config.ClientConfig{
		BaseURL:        srv.URL,
		Timeout:        time.Second,
		Retry:          config.RetryConfig{MaxAttempts: 1, InitialInterval: time.Millisecond, MaxInterval: time.Millisecond, Multiplier: 1},
		CircuitBreaker: config.CircuitBreakerConfig{MaxFailures: 5, Timeout: time.Second, HalfOpenLimit: 1},
	}, "hooks", nil, nil)
	n := notify.NewWebhook(client, "/hooks/scorebook")

	ended := sampleNotification()
	ended.Status, ended.Reason = match.StatusCompleted, "regulation complete"
	if err := n.NotifyMatchEnded(context.Background(), ended); err != nil {
		t.Fatalf("NotifyMatchEnded() error = %v", err)
	}
	if got.Kind != notify.KindMatchEnded || got.Reason != "regulation complete" || got.Status != match.StatusCompleted {
		t.Errorf("posted = %+v", got)
	}
}

type failingPoster struct{ err error }

func (p failingPoster) PostJSON(context.Context, string, any) error { return p.err }

func TestWebhook_WrapsFailure(t *testing.T) {
	t.Parallel()
	n := notify.NewWebhook(failingPoster{err: domain.ErrUnavailable}, "/h")

	err := n.NotifyMatchStarted(context.Background(), sampleNotification())
	if !errors.Is(err, domain.ErrUnavailable) || !strings.Contains(err.Error(), "match_started for match m-1") {
		t.Errorf("NotifyMatchStarted() error = %v", err)
	}
}

func TestMulti_DeliversToEveryNotifier(t *testing.T) {
	t.Parallel()
	first := mocks.NewMockNotifier(t)
	second := mocks.NewMockNotifier(t)
	n := sampleNotification()

	first.EXPECT().NotifyScoreUpdate(mock.Anything, n).Return(errors.New("offline")).Once()
	second.EXPECT().NotifyScoreUpdate(mock.Anything, n).Return(nil).Once()

	err := notify.Multi{first, second}.NotifyScoreUpdate(context.Background(), n)
	if err == nil || !strings.Contains(err.Error(), "notifier 0 (score_update): offline") {
		t.Errorf("NotifyScoreUpdate() error = %v, want the first notifier's failure", err)
	}
}

func TestMulti_Empty(t *testing.T) {
	t.Parallel()

	if err := (notify.Multi{}).NotifyMatchStarted(context.Background(), sampleNotification()); err != nil {
		t.Errorf("NotifyMatchStarted() error = %v", err)
	}
}
