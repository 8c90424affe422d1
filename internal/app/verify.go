package app

import (
	"context"
	"fmt"
	"log/slog"

	appctx "github.com/jsamuelsen11/scorebook/internal/app/context"
	"github.com/jsamuelsen11/scorebook/internal/app/fanout"
	"github.com/jsamuelsen11/scorebook/internal/domain"
	"github.com/jsamuelsen11/scorebook/internal/domain/event"
	"github.com/jsamuelsen11/scorebook/internal/domain/inning"
	"github.com/jsamuelsen11/scorebook/internal/domain/match"
	"github.com/jsamuelsen11/scorebook/internal/domain/roster"
	"github.com/jsamuelsen11/scorebook/internal/ports"
)

// VerifyMatch replays every stream of the match from empty state and compares
// the result with the stored aggregates. The four streams are read
// concurrently; replay and comparison run on the calling goroutine.
func (s *Scorekeeper) VerifyMatch(ctx context.Context, matchID string) (res ports.VerifyResult) {
	ctx, end := s.observe(ctx, "VerifyMatch", matchID)
	defer func() { end(recover(), &res.Outcome) }()

	stored, err := s.load(appctx.New(ctx), matchID)
	if err != nil {
		res.Outcome = ports.Fail(err)
		return res
	}

	ids := streamIDs(matchID)
	streams, err := fanout.Map(ctx, len(ids), ids, func(ctx context.Context, id string) ([]event.Event, error) {
		events, err := s.events.ReadAll(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("reading stream %s: %w", id, err)
		}
		return events, nil
	})
	if err != nil {
		res.Outcome = ports.Fail(err)
		return res
	}

	res.Streams = make(map[string]int, len(ids))
	for i, id := range ids {
		res.Streams[id] = len(streams[i])
	}

	if err := compareReplay(stored, streams); err != nil {
		s.logger.ErrorContext(ctx, "stored state diverges from event log",
			slog.String("operation", "VerifyMatch"),
			slog.String("match_id", matchID),
			slog.Any("error", err),
		)
		res.Outcome = ports.Fail(err)
		return res
	}

	res.Outcome = ports.Succeed()
	res.Consistent = true
	return res
}

// compareReplay rebuilds each aggregate from streams, ordered as streamIDs
// returns them, and compares it with the stored copy.
func compareReplay(stored *matchState, streams [][]event.Event) error {
	m, err := match.Replay(streams[0])
	if err != nil {
		return fmt.Errorf("replaying match: %w", err)
	}
	if !m.Equal(stored.match) || m.Version != stored.match.Version {
		return fmt.Errorf("%w: match %s replays to a different state", domain.ErrConflict, stored.match.ID)
	}

	for i, r := range []*roster.Roster{stored.home, stored.away} {
		replayed, err := roster.Replay(streams[1+i])
		if err != nil {
			return fmt.Errorf("replaying roster %s: %w", r.ID, err)
		}
		if !replayed.Equal(r) || replayed.Version != r.Version {
			return fmt.Errorf("%w: roster %s replays to a different state", domain.ErrConflict, r.ID)
		}
	}

	n, err := inning.Replay(streams[3])
	if err != nil {
		return fmt.Errorf("replaying inning state: %w", err)
	}
	if !n.Equal(stored.inning) || n.Version != stored.inning.Version {
		return fmt.Errorf("%w: inning state %s replays to a different state", domain.ErrConflict, stored.inning.ID)
	}
	return nil
}
