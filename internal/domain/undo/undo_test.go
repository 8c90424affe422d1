package undo

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jsamuelsen11/scorebook/internal/domain"
)

func action(id string) Action {
	return Action{ID: id, Kind: KindPlateAppearance, MatchID: "m-1"}
}

func TestHistory_UndoRedo(t *testing.T) {
	t.Parallel()

	h := NewHistory("m-1", 0)
	for _, id := range []string{"a1", "a2", "a3"} {
		if err := h.Record(action(id)); err != nil {
			t.Fatalf("Record(%s) error = %v", id, err)
		}
	}

	top, err := h.NextUndo()
	if err != nil || top.ID != "a3" {
		t.Fatalf("NextUndo() = %v, %v, want a3", top.ID, err)
	}
	if err := h.CommitUndo("a3"); err != nil {
		t.Fatalf("CommitUndo() error = %v", err)
	}
	if err := h.CommitUndo("a1"); !errors.Is(err, domain.ErrConflict) {
		t.Errorf("CommitUndo(not top) error = %v, want ErrConflict", err)
	}
	if !h.CanRedo() || len(h.Undo) != 2 {
		t.Fatalf("after undo: undo=%d redo=%d", len(h.Undo), len(h.Redo))
	}

	if err := h.CommitRedo("a3"); err != nil {
		t.Fatalf("CommitRedo() error = %v", err)
	}
	if h.CanRedo() || len(h.Undo) != 3 {
		t.Errorf("after redo: undo=%d redo=%d", len(h.Undo), len(h.Redo))
	}
}

func TestHistory_RecordClearsRedo(t *testing.T) {
	t.Parallel()

	h := NewHistory("m-1", 10)
	_ = h.Record(action("a1"))
	_ = h.Record(action("a2"))
	_ = h.CommitUndo("a2")

	if err := h.Record(action("a3")); err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	if h.CanRedo() {
		t.Error("new action did not clear the redo stack")
	}
	if _, err := h.NextRedo(); !errors.Is(err, domain.ErrNothingToRedo) {
		t.Errorf("NextRedo() error = %v, want ErrNothingToRedo", err)
	}
}

func TestHistory_EvictsOldest(t *testing.T) {
	t.Parallel()

	h := NewHistory("m-1", 2)
	for i := range 5 {
		if err := h.Record(action(fmt.Sprintf("a%d", i))); err != nil {
			t.Fatalf("Record() error = %v", err)
		}
	}

	if len(h.Undo) != 2 || h.Undo[0].ID != "a3" || h.Recorded != 5 {
		t.Errorf("history = %+v", h)
	}
}

func TestHistory_Empty(t *testing.T) {
	t.Parallel()

	h := NewHistory("m-1", 0)
	if _, err := h.NextUndo(); !errors.Is(err, domain.ErrNothingToUndo) {
		t.Errorf("NextUndo() error = %v, want ErrNothingToUndo", err)
	}
	if err := h.CommitRedo("x"); !errors.Is(err, domain.ErrNothingToRedo) {
		t.Errorf("CommitRedo() error = %v, want ErrNothingToRedo", err)
	}
}

func TestHistory_CheckDetectsCorruption(t *testing.T) {
	t.Parallel()

	h := &History{
		MatchID:  "m-1",
		Undo:     []Action{action("a1")},
		Redo:     []Action{action("a1")},
		Recorded: 2,
	}
	if err := h.check(); err == nil {
		t.Error("check() accepted an action on both stacks")
	}

	h = &History{MatchID: "m-1", Undo: []Action{action("a1"), action("a2")}, Recorded: 1}
	if err := h.check(); err == nil {
		t.Error("check() accepted more actions than recorded")
	}
}
