// Package notify delivers match notifications to subscribers. Each sink
// implements ports.Notifier; Multi fans a notification out to every
// configured sink.
package notify

import (
	"context"
	"errors"
	"fmt"

	"github.com/jsamuelsen11/scorebook/internal/ports"
)

// Kind names the notification in every sink's payload.
type Kind string

const (
	KindMatchStarted Kind = "match_started"
	KindMatchEnded   Kind = "match_ended"
	KindScoreUpdate  Kind = "score_update"
)

// Message is the document written by the stream and webhook sinks.
type Message struct {
	Kind Kind `json:"kind"`
	ports.MatchNotification
}

// sink delivers one message. Every adapter in this package is a sink
// wrapped by notifier to satisfy ports.Notifier.
type sink interface {
	deliver(ctx context.Context, msg Message) error
}

type notifier struct {
	sink sink
}

func (n notifier) NotifyMatchStarted(ctx context.Context, m ports.MatchNotification) error {
	return n.sink.deliver(ctx, Message{Kind: KindMatchStarted, MatchNotification: m})
}

func (n notifier) NotifyMatchEnded(ctx context.Context, m ports.MatchNotification) error {
	return n.sink.deliver(ctx, Message{Kind: KindMatchEnded, MatchNotification: m})
}

func (n notifier) NotifyScoreUpdate(ctx context.Context, m ports.MatchNotification) error {
	return n.sink.deliver(ctx, Message{Kind: KindScoreUpdate, MatchNotification: m})
}

// Multi delivers every notification to each notifier in order. A failing
// notifier does not stop the rest; all failures are joined.
type Multi []ports.Notifier

var _ ports.Notifier = Multi(nil)

func (m Multi) NotifyMatchStarted(ctx context.Context, n ports.MatchNotification) error {
	return m.each(KindMatchStarted, func(t ports.Notifier) error { return t.NotifyMatchStarted(ctx, n) })
}

func (m Multi) NotifyMatchEnded(ctx context.Context, n ports.MatchNotification) error {
	return m.each(KindMatchEnded, func(t ports.Notifier) error { return t.NotifyMatchEnded(ctx, n) })
}

func (m Multi) NotifyScoreUpdate(ctx context.Context, n ports.MatchNotification) error {
	return m.each(KindScoreUpdate, func(t ports.Notifier) error { return t.NotifyScoreUpdate(ctx, n) })
}

func (m Multi) each(kind Kind, fn func(ports.Notifier) error) error {
	var errs []error
	for i, t := range m {
		if err := fn(t); err != nil {
			errs = append(errs, fmt.Errorf("notifier %d (%s): %w", i, kind, err))
		}
	}
	return errors.Join(errs...)
}
