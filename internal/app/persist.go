package app

import (
	"context"
	"errors"
	"fmt"

	appctx "github.com/jsamuelsen11/scorebook/internal/app/context"
	"github.com/jsamuelsen11/scorebook/internal/domain"
	"github.com/jsamuelsen11/scorebook/internal/domain/event"
	"github.com/jsamuelsen11/scorebook/internal/ports"
)

// compensationReason tags restoration events raised while reverting a
// partially persisted command.
const compensationReason = "compensation"

// aggregate is the behavior the persistence unit needs from Match, Roster and
// Inning.
type aggregate[T any] interface {
	AggregateID() string
	AggregateVersion() int64
	Clone() T
	Restore(snapshot T, reason string) error
	Flush() []event.Event
}

// unitOfWork persists the changes of one command: every mutated aggregate is
// saved, then every stream is appended. A failure reverts the completed
// steps through the command context's rollback.
type unitOfWork struct {
	cc        *appctx.CommandContext
	stamp     func([]event.Event, string) []event.Event
	causation string
	saves     []domain.Action
	appends   []domain.Action
	events    []event.Event
}

func (s *Scorekeeper) newUnit(cc *appctx.CommandContext, causation string) *unitOfWork {
	return &unitOfWork{cc: cc, stamp: s.stamp, causation: causation}
}

// tracked is one aggregate inside a unit of work. current is the state the
// store should hold; compensation replaces it with the restored state.
// loaded is the version the command read and written the version its save
// left in the store; every store write names the version it replaces, so a
// concurrent writer surfaces as domain.ErrConflict instead of being
// overwritten.
type tracked[T aggregate[T]] struct {
	id       string
	store    ports.AggregateStore[T]
	log      ports.EventLog
	stream   event.StreamType
	before   T
	created  bool
	current  T
	events   []event.Event
	appended bool
	loaded   int64
	written  int64
	stamp    func([]event.Event, string) []event.Event
}

// track flushes the pending events of after and stages its save and append.
// before is the pre-command snapshot; created marks aggregates the command
// brought into existence. Aggregates without pending events are skipped.
func track[T aggregate[T]](u *unitOfWork, store ports.AggregateStore[T], log ports.EventLog,
	stream event.StreamType, before, after T, created bool,
) {
	pending := after.Flush()
	if len(pending) == 0 {
		return
	}
	t := &tracked[T]{
		id:      after.AggregateID(),
		store:   store,
		log:     log,
		stream:  stream,
		before:  before,
		created: created,
		current: after,
		events:  u.stamp(pending, u.causation),
		stamp:   u.stamp,
	}
	if !created {
		t.loaded = before.AggregateVersion()
	}
	u.saves = append(u.saves, t.saveAction())
	u.appends = append(u.appends, t.appendAction())
	u.events = append(u.events, t.events...)
}

func (t *tracked[T]) saveAction() domain.Action {
	return domain.ActionFunc{
		Name: fmt.Sprintf("save %s %s", t.stream, t.id),
		ExecuteFn: func(ctx context.Context) error {
			if err := t.store.Save(ctx, t.current, t.loaded); err != nil {
				return err
			}
			t.written = t.current.AggregateVersion()
			return nil
		},
		RollbackFn: func(ctx context.Context) error {
			switch {
			case t.appended:
				return t.store.Save(ctx, t.current, t.written)
			case t.created:
				return t.deleteOwn(ctx)
			default:
				return t.store.Save(ctx, t.before, t.written)
			}
		},
	}
}

// deleteOwn removes an aggregate this command created, unless another writer
// has saved over it since.
func (t *tracked[T]) deleteOwn(ctx context.Context) error {
	stored, err := t.store.FindByID(ctx, t.id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if v := stored.AggregateVersion(); v != t.written {
		return fmt.Errorf("%w: %s %s is at version %d, this command wrote %d", domain.ErrConflict, t.stream, t.id, v, t.written)
	}
	return t.store.Delete(ctx, t.id)
}

func (t *tracked[T]) appendAction() domain.Action {
	return domain.ActionFunc{
		Name: fmt.Sprintf("append %d events to %s", len(t.events), t.id),
		ExecuteFn: func(ctx context.Context) error {
			if err := t.log.Append(ctx, t.id, t.stream, t.events); err != nil {
				return err
			}
			t.appended = true
			return nil
		},
		RollbackFn: func(ctx context.Context) error {
			if t.created {
				return fmt.Errorf("stream %s was created by the failed command and cannot be reverted", t.id)
			}
			restored := t.current.Clone()
			if err := restored.Restore(t.before, compensationReason); err != nil {
				return fmt.Errorf("restoring %s: %w", t.id, err)
			}
			events := restored.Flush()
			if len(events) == 0 {
				return nil
			}
			if err := t.log.Append(ctx, t.id, t.stream, t.stamp(events, t.events[0].CausationID)); err != nil {
				return err
			}
			t.current = restored
			return nil
		},
	}
}

// commit runs every save, then every append.
func (u *unitOfWork) commit(ctx context.Context) error {
	for _, a := range append(u.saves, u.appends...) {
		if err := u.cc.AddAction(a); err != nil {
			return err
		}
	}
	return u.cc.Commit(ctx)
}
