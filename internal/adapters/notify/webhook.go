package notify

import (
	"context"
	"fmt"

	"github.com/jsamuelsen11/scorebook/internal/ports"
)

// Poster sends a JSON document to a path on a fixed peer.
// *httpclient.Client satisfies it.
type Poster interface {
	PostJSON(ctx context.Context, path string, body any) error
}

// Webhook POSTs each notification as a JSON Message to path.
type Webhook struct {
	notifier
}

var _ ports.Notifier = (*Webhook)(nil)

// NewWebhook returns a notifier that posts through client.
func NewWebhook(client Poster, path string) *Webhook {
	return &Webhook{notifier{sink: webhookSink{client: client, path: path}}}
}

type webhookSink struct {
	client Poster
	path   string
}

func (s webhookSink) deliver(ctx context.Context, msg Message) error {
	if err := s.client.PostJSON(ctx, s.path, msg); err != nil {
		return fmt.Errorf("posting %s for match %s: %w", msg.Kind, msg.MatchID, err)
	}
	return nil
}
