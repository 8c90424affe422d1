// Package logging builds the service's slog loggers and carries them through
// request and command contexts.
//
//	logger := logging.New("info", "json", os.Stderr)
//	ctx = logging.With(ctx, slog.String("match_id", id))
//	logging.FromContext(ctx).InfoContext(ctx, "plate appearance recorded")
//
// Error logs name the operation and the match, and carry the full chain:
//
//	logger.ErrorContext(ctx, "command failed",
//	    slog.String("command", "RecordPlateAppearance"),
//	    slog.String("match_id", cmd.MatchID),
//	    slog.Any("error", err),
//	)
//
// Behind the HTTP middleware the context logger already carries request_id
// and, for authenticated calls, user_id.
package logging

import (
	"context"
	"io"
	"log/slog"
	"strings"
)

type contextKey struct{}

// New creates a logger writing to w at the given level. Level is one of
// debug, info, warn (or warning) and error, case-insensitive, and defaults
// to info. Format "text" selects the text handler; anything else is JSON.
// Debug output includes the source location.
//
// Every record passes through the masq redactor before it is written.
func New(level, format string, w io.Writer) *slog.Logger {
	lvl := parseLevel(level)

	opts := &slog.HandlerOptions{
		Level:       lvl,
		AddSource:   lvl == slog.LevelDebug,
		ReplaceAttr: newRedactAttr(),
	}

	if format == "text" {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

// OrDiscard returns logger, or a logger that drops everything when logger
// is nil. Constructors use it for their optional logger argument.
func OrDiscard(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return logger
}

// WithLogger returns a new context with the given logger stored in it.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, logger)
}

// With stores a child of the context logger carrying args.
func With(ctx context.Context, args ...any) context.Context {
	return WithLogger(ctx, FromContext(ctx).With(args...))
}

// FromContext extracts a *slog.Logger from the context.
// If no logger is stored, it returns slog.Default().
func FromContext(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(contextKey{}).(*slog.Logger); ok {
		return logger
	}
	return slog.Default()
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
