// Package undo holds the per-match record of undoable actions and the
// bounded two-stack history that undo and redo move them between.
//
// An action captures the before and after state of every aggregate it
// touched. Undo restores the before state and redo restores the after state;
// both append new events, so the log only ever grows.
package undo

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/jsamuelsen11/scorebook/internal/domain"
	"github.com/jsamuelsen11/scorebook/internal/domain/event"
	"github.com/jsamuelsen11/scorebook/internal/domain/inning"
	"github.com/jsamuelsen11/scorebook/internal/domain/match"
	"github.com/jsamuelsen11/scorebook/internal/domain/roster"
)

// DefaultCapacity bounds the undo stack when no limit is configured.
const DefaultCapacity = 100

// Kind identifies the command that produced an action.
type Kind string

const (
	KindPlateAppearance Kind = "plate_appearance"
	KindSubstitution    Kind = "substitution"
	KindHalfInningEnd   Kind = "half_inning_end"
)

// Change is the state of one aggregate before and after an action.
type Change[T any] struct {
	Before T `json:"before"`
	After  T `json:"after"`
}

// Effects lists the aggregates an action changed. Nil entries were untouched.
type Effects struct {
	Match  *Change[*match.Match]   `json:"match,omitempty"`
	Inning *Change[*inning.Inning] `json:"inning,omitempty"`
	Home   *Change[*roster.Roster] `json:"home,omitempty"`
	Away   *Change[*roster.Roster] `json:"away,omitempty"`
}

// Action is one undoable command outcome.
type Action struct {
	ID         string          `json:"id"`
	Kind       Kind            `json:"kind"`
	MatchID    string          `json:"match_id"`
	Command    json.RawMessage `json:"command,omitempty"`
	Events     []event.Event   `json:"events"`
	RecordedAt time.Time       `json:"recorded_at"`
	Effects    Effects         `json:"effects"`
}

// History is the undo and redo stacks of one match. The last element of each
// slice is the top of the stack.
type History struct {
	MatchID  string   `json:"match_id"`
	Undo     []Action `json:"undo"`
	Redo     []Action `json:"redo"`
	Recorded int      `json:"recorded"`
	Capacity int      `json:"capacity"`
}

// NewHistory returns an empty history. A capacity below one uses
// DefaultCapacity.
func NewHistory(matchID string, capacity int) *History {
	if capacity < 1 {
		capacity = DefaultCapacity
	}
	return &History{MatchID: matchID, Capacity: capacity}
}

// CanUndo reports whether an action is available to undo.
func (h *History) CanUndo() bool { return len(h.Undo) > 0 }

// CanRedo reports whether an action is available to redo.
func (h *History) CanRedo() bool { return len(h.Redo) > 0 }

// Record pushes a newly completed action. Any redo entries are discarded and
// the oldest undo entry is evicted once capacity is exceeded.
func (h *History) Record(a Action) error {
	if a.ID == "" {
		return errors.New("undo action has no id")
	}
	h.Undo = append(h.Undo, a)
	h.Redo = nil
	h.Recorded++
	if h.Capacity > 0 && len(h.Undo) > h.Capacity {
		h.Undo = slices.Delete(h.Undo, 0, len(h.Undo)-h.Capacity)
	}
	return h.check()
}

// NextUndo returns the action on top of the undo stack.
func (h *History) NextUndo() (Action, error) {
	if len(h.Undo) == 0 {
		return Action{}, fmt.Errorf("%w: match %s", domain.ErrNothingToUndo, h.MatchID)
	}
	return h.Undo[len(h.Undo)-1], nil
}

// NextRedo returns the action on top of the redo stack.
func (h *History) NextRedo() (Action, error) {
	if len(h.Redo) == 0 {
		return Action{}, fmt.Errorf("%w: match %s", domain.ErrNothingToRedo, h.MatchID)
	}
	return h.Redo[len(h.Redo)-1], nil
}

// CommitUndo moves the top undo action, which must be id, onto the redo
// stack.
func (h *History) CommitUndo(id string) error {
	a, err := h.NextUndo()
	if err != nil {
		return err
	}
	if a.ID != id {
		return fmt.Errorf("%w: undo stack top is %s, not %s", domain.ErrConflict, a.ID, id)
	}
	h.Undo = h.Undo[:len(h.Undo)-1]
	h.Redo = append(h.Redo, a)
	return h.check()
}

// CommitRedo moves the top redo action, which must be id, back onto the undo
// stack.
func (h *History) CommitRedo(id string) error {
	a, err := h.NextRedo()
	if err != nil {
		return err
	}
	if a.ID != id {
		return fmt.Errorf("%w: redo stack top is %s, not %s", domain.ErrConflict, a.ID, id)
	}
	h.Redo = h.Redo[:len(h.Redo)-1]
	h.Undo = append(h.Undo, a)
	return h.check()
}

// check verifies that the stacks are disjoint and never hold more actions
// than were ever recorded.
func (h *History) check() error {
	if len(h.Undo)+len(h.Redo) > h.Recorded {
		return fmt.Errorf("undo history for match %s holds %d actions but only %d were recorded",
			h.MatchID, len(h.Undo)+len(h.Redo), h.Recorded)
	}
	seen := make(map[string]bool, len(h.Undo))
	for _, a := range h.Undo {
		seen[a.ID] = true
	}
	for _, a := range h.Redo {
		if seen[a.ID] {
			return fmt.Errorf("undo history for match %s has action %s on both stacks", h.MatchID, a.ID)
		}
	}
	return nil
}

// Clone returns a copy whose stacks can be modified independently.
func (h *History) Clone() *History {
	c := *h
	c.Undo = slices.Clone(h.Undo)
	c.Redo = slices.Clone(h.Redo)
	return &c
}
