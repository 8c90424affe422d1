// Package appctx provides the command-scoped context used by the scoring
// handlers.
//
// CommandContext extends Go's context.Context with memoized aggregate loads
// and staged persistence steps that commit in order with reverse rollback.
// A new CommandContext is created for every command, so aggregates are never
// cached across commands:
//
//	cc := appctx.New(ctx)
//
//	// Stage 1: load aggregates once per command
//	m, err := appctx.GetOrFetch(cc, "match:m-1", loadMatch)
//
//	// Stage 2: stage persistence steps
//	cc.AddAction(saveMatch)
//	cc.AddAction(appendMatchEvents)
//
//	// Stage 3: execute them
//	err = cc.Commit(ctx)
package appctx

import (
	"context"
	"errors"
	"fmt"

	"github.com/jsamuelsen11/scorebook/internal/domain"
)

// ErrAlreadyCommitted is returned when AddAction, Stage, or Commit is called
// on a CommandContext that has already been committed.
var ErrAlreadyCommitted = errors.New("appctx: command context already committed")

// ErrNilAction is returned when a nil Action is passed to AddAction or Stage.
var ErrNilAction = errors.New("appctx: nil action")

// ErrTypeMismatch is returned by GetOrFetch when a cached value's type does
// not match the requested type T. This indicates a programming error where
// the same cache key is used with different types.
var ErrTypeMismatch = errors.New("appctx: cached value type mismatch")

// CommandContext is a command-scoped context wrapper providing memoized
// loads and staged persistence. It is NOT safe for concurrent use.
type CommandContext struct {
	context.Context
	cache     map[string]cacheEntry
	items     []domain.Action
	committed bool
}

// cacheEntry stores the result of a GetOrFetch call, including any error.
type cacheEntry struct {
	value any
	err   error
}

// New creates a CommandContext wrapping ctx.
func New(ctx context.Context) *CommandContext {
	return &CommandContext{
		Context: ctx,
		cache:   make(map[string]cacheEntry),
	}
}

// GetOrFetch returns a cached value for key, or calls fetchFn to fetch and
// cache it. Both successful results and errors are cached.
//
// The same key must always be used with the same type T. If a cached value
// exists but its type does not match T, GetOrFetch returns ErrTypeMismatch.
func GetOrFetch[T any](cc *CommandContext, key string, fetchFn func(ctx context.Context) (T, error)) (T, error) {
	if entry, ok := cc.cache[key]; ok {
		if entry.err != nil {
			var zero T
			return zero, entry.err
		}
		v, ok := entry.value.(T)
		if !ok {
			var zero T
			return zero, fmt.Errorf("%w: key %q holds %T, requested %T", ErrTypeMismatch, key, entry.value, zero)
		}
		return v, nil
	}

	val, err := fetchFn(cc.Context)
	cc.cache[key] = cacheEntry{value: val, err: err}
	return val, err
}

// AddAction stages a persistence step for Commit.
func (cc *CommandContext) AddAction(action domain.Action) error {
	if action == nil {
		return ErrNilAction
	}
	if cc.committed {
		return ErrAlreadyCommitted
	}
	cc.items = append(cc.items, action)
	return nil
}

// Stage replaces the cached value for key and queues action. Later
// GetOrFetch calls for key return entity.
func (cc *CommandContext) Stage(key string, entity any, action domain.Action) error {
	if err := cc.AddAction(action); err != nil {
		return err
	}
	cc.cache[key] = cacheEntry{value: entity}
	return nil
}

// Staged returns the number of queued steps.
func (cc *CommandContext) Staged() int { return len(cc.items) }
