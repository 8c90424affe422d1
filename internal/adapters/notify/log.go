package notify

import (
	"context"
	"log/slog"

	"github.com/jsamuelsen11/scorebook/internal/ports"
)

// Log writes each notification as an info record. It never fails.
type Log struct {
	notifier
}

var _ ports.Notifier = (*Log)(nil)

// NewLog returns a notifier that logs to logger.
func NewLog(logger *slog.Logger) *Log {
	return &Log{notifier{sink: logSink{logger: logger}}}
}

type logSink struct {
	logger *slog.Logger
}

func (s logSink) deliver(ctx context.Context, msg Message) error {
	attrs := []slog.Attr{
		slog.String("kind", string(msg.Kind)),
		slog.String("match_id", msg.MatchID),
		slog.String("status", string(msg.Status)),
		slog.Int("home_score", msg.Score.Home),
		slog.Int("away_score", msg.Score.Away),
	}
	if msg.Inning > 0 {
		attrs = append(attrs, slog.Int("inning", msg.Inning), slog.String("half", string(msg.Half)))
	}
	if msg.Reason != "" {
		attrs = append(attrs, slog.String("reason", msg.Reason))
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, "match notification", attrs...)
	return nil
}
