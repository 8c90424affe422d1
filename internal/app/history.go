package app

import (
	"context"
	"fmt"
	"log/slog"

	appctx "github.com/jsamuelsen11/scorebook/internal/app/context"
	"github.com/jsamuelsen11/scorebook/internal/domain"
	"github.com/jsamuelsen11/scorebook/internal/domain/undo"
	"github.com/jsamuelsen11/scorebook/internal/ports"
)

// direction selects which side of a recorded change undo and redo restore.
type direction struct {
	op     string
	reason string
	redo   bool
	next   func(*undo.History) (undo.Action, error)
	commit func(*undo.History, string) error
}

var (
	undoing = direction{
		op:     "Undo",
		reason: "undo",
		next:   (*undo.History).NextUndo,
		commit: (*undo.History).CommitUndo,
	}
	redoing = direction{
		op:     "Redo",
		reason: "redo",
		redo:   true,
		next:   (*undo.History).NextRedo,
		commit: (*undo.History).CommitRedo,
	}
)

// Undo reverts the most recent actions by appending restoration events.
func (s *Scorekeeper) Undo(ctx context.Context, cmd ports.UndoCommand) (res ports.HistoryResult) {
	ctx, end := s.observe(ctx, "Undo", cmd.MatchID)
	defer func() { end(recover(), &res.Outcome) }()
	return s.revert(ctx, undoing, cmd.CommandID, cmd.MatchID, cmd.Limit)
}

// Redo re-applies the most recently undone actions.
func (s *Scorekeeper) Redo(ctx context.Context, cmd ports.RedoCommand) (res ports.HistoryResult) {
	ctx, end := s.observe(ctx, "Redo", cmd.MatchID)
	defer func() { end(recover(), &res.Outcome) }()
	return s.revert(ctx, redoing, cmd.CommandID, cmd.MatchID, cmd.Limit)
}

// revert moves up to limit actions between the stacks. Each action is
// persisted on its own; a failure stops the loop and the result reports how
// many actions completed before it.
func (s *Scorekeeper) revert(ctx context.Context, d direction, commandID, matchID string, limit int) ports.HistoryResult {
	var res ports.HistoryResult

	limit, err := validateLimit(matchID, limit)
	if err != nil {
		res.Outcome = ports.Fail(err)
		return res
	}
	causation := s.commandID(commandID)

	h, err := s.loadHistory(ctx, matchID)
	if err != nil {
		res.Outcome = ports.Fail(err)
		return res
	}

	var st *matchState
	for res.Processed < limit {
		a, err := d.next(h)
		if err != nil {
			if res.Processed > 0 {
				break
			}
			res.Outcome = ports.Fail(err)
			return res
		}

		n, state, err := s.revertAction(ctx, d, causation, a)
		if err != nil {
			res.Outcome = ports.Fail(err)
			s.finishHistory(&res, h, st)
			return res
		}
		st = state

		if err := d.commit(h, a.ID); err != nil {
			res.Outcome = ports.Fail(err)
			return res
		}
		if err := s.history.Save(ctx, h); err != nil {
			s.logger.ErrorContext(ctx, "failed to save undo history",
				slog.String("operation", d.op),
				slog.String("match_id", matchID),
				slog.String("action_id", a.ID),
				slog.Any("error", err),
			)
			res.Outcome = ports.Fail(fmt.Errorf("saving undo history for %s: %w", matchID, err))
			return res
		}

		res.Processed++
		res.Kinds = append(res.Kinds, a.Kind)
		res.EventsGenerated += n
	}

	s.logger.InfoContext(ctx, "history moved",
		slog.String("operation", d.op),
		slog.String("match_id", matchID),
		slog.Int("processed", res.Processed),
	)

	res.Outcome = ports.Succeed()
	s.finishHistory(&res, h, st)
	return res
}

func (s *Scorekeeper) finishHistory(res *ports.HistoryResult, h *undo.History, st *matchState) {
	res.CanUndo = h.CanUndo()
	res.CanRedo = h.CanRedo()
	if st != nil {
		res.State = st.snapshot()
	}
}

// revertAction restores the aggregates one action touched and persists the
// restoration events. It returns the number of events appended.
func (s *Scorekeeper) revertAction(ctx context.Context, d direction, causation string, a undo.Action) (int, *matchState, error) {
	cc := appctx.New(ctx)
	st, err := s.loadInProgress(cc, a.MatchID)
	if err != nil {
		return 0, nil, err
	}
	before := st.clone()

	e := a.Effects
	if e.Match != nil {
		if err := restoreTo(st.match, e.Match, d, st.match.Equal); err != nil {
			return 0, nil, err
		}
	}
	if e.Inning != nil {
		if err := restoreTo(st.inning, e.Inning, d, st.inning.Equal); err != nil {
			return 0, nil, err
		}
	}
	if e.Home != nil {
		if err := restoreTo(st.home, e.Home, d, st.home.Equal); err != nil {
			return 0, nil, err
		}
	}
	if e.Away != nil {
		if err := restoreTo(st.away, e.Away, d, st.away.Equal); err != nil {
			return 0, nil, err
		}
	}

	u := s.newUnit(cc, causation)
	s.trackAll(u, before, st)
	if err := u.commit(ctx); err != nil {
		s.persistFailed(ctx, d.op, a.MatchID, err)
		return 0, nil, err
	}
	return len(u.events), st, nil
}

// restoreTo checks that current still equals the state the change left
// behind (after for undo, before for redo) and then restores the other side.
func restoreTo[T aggregate[T]](current T, c *undo.Change[T], d direction, equal func(T) bool) error {
	expect, target := c.After, c.Before
	if d.redo {
		expect, target = c.Before, c.After
	}
	if !equal(expect) {
		return fmt.Errorf("%w: %s", domain.ErrStateChangedSinceUndo, current.AggregateID())
	}
	return current.Restore(target, d.reason)
}
