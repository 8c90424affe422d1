package inning

import (
	"errors"
	"testing"

	"github.com/jsamuelsen11/scorebook/internal/domain"
	"github.com/jsamuelsen11/scorebook/internal/domain/event"
	"github.com/jsamuelsen11/scorebook/internal/domain/play"
)

const lineupSize = 9

func opened(t *testing.T) *Inning {
	t.Helper()

	s := New("m-1")
	if err := s.Open(); err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	return s
}

// at returns an inning state with the given occupancy and outs, due up at
// slot 4 for the away side.
func at(t *testing.T, outs int, first, second, third string) *Inning {
	t.Helper()

	s := opened(t)
	s.Outs = outs
	s.Bases = [3]string{first, second, third}
	s.NextSlot.Away = 4
	return s
}

func record(t *testing.T, s *Inning, outcome play.Outcome, advances ...play.Advance) Play {
	t.Helper()

	p, err := s.RecordPlateAppearance(PlateAppearance{
		BatterID:   "a4",
		Slot:       s.NextSlot.For(s.BattingSide()),
		LineupSize: lineupSize,
		Outcome:    outcome,
		Advances:   advances,
	})
	if err != nil {
		t.Fatalf("RecordPlateAppearance(%s) error = %v", outcome, err)
	}
	return p
}

func TestRecordPlateAppearance_GrandSlam(t *testing.T) {
	t.Parallel()

	s := at(t, 1, "a3", "a2", "a1")
	p := record(t, s, play.OutcomeHomeRun,
		play.Advance{RunnerID: "a1", From: play.BaseThird, To: play.BaseHome},
		play.Advance{RunnerID: "a2", From: play.BaseSecond, To: play.BaseHome},
		play.Advance{RunnerID: "a3", From: play.BaseFirst, To: play.BaseHome},
	)

	if p.Runs != 4 || p.RBI != 4 {
		t.Errorf("Runs = %d, RBI = %d, want 4 and 4", p.Runs, p.RBI)
	}
	if s.Bases != [3]string{} {
		t.Errorf("Bases = %v, want empty", s.Bases)
	}
	if s.Outs != 1 || p.HalfOver {
		t.Errorf("Outs = %d, HalfOver = %v", s.Outs, p.HalfOver)
	}
	if s.NextSlot.Away != 5 {
		t.Errorf("NextSlot.Away = %d, want 5", s.NextSlot.Away)
	}
}

func TestRecordPlateAppearance_DoublePlayEndsHalf(t *testing.T) {
	t.Parallel()

	s := at(t, 1, "a3", "", "")
	p := record(t, s, play.OutcomeDoublePlay,
		play.Advance{RunnerID: "a3", From: play.BaseFirst, To: play.BaseOut},
		play.Advance{From: play.BaseBatter, To: play.BaseOut},
	)

	if p.OutsRecorded != 2 || s.Outs != 3 || !p.HalfOver {
		t.Errorf("OutsRecorded = %d, Outs = %d, HalfOver = %v", p.OutsRecorded, s.Outs, p.HalfOver)
	}

	_, err := s.RecordPlateAppearance(PlateAppearance{
		BatterID: "a5", Slot: 5, LineupSize: lineupSize, Outcome: play.OutcomeStrikeout,
	})
	if !errors.Is(err, domain.ErrInvalidTransition) {
		t.Errorf("plate appearance after third out error = %v, want ErrInvalidTransition", err)
	}
}

func TestRecordPlateAppearance_RejectsFourthOut(t *testing.T) {
	t.Parallel()

	s := at(t, 2, "a3", "", "")
	before := s.Clone()

	_, err := s.RecordPlateAppearance(PlateAppearance{
		BatterID:   "a4",
		Slot:       4,
		LineupSize: lineupSize,
		Outcome:    play.OutcomeDoublePlay,
		Advances: []play.Advance{
			{RunnerID: "a3", From: play.BaseFirst, To: play.BaseOut},
			{From: play.BaseBatter, To: play.BaseOut},
		},
	})
	if !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("error = %v, want ErrInvalidTransition", err)
	}
	if !s.Equal(before) || len(s.Pending()) != 1 {
		t.Error("rejected play changed state or raised events")
	}
}

func TestRecordPlateAppearance_RBI(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		outcome  play.Outcome
		bases    [3]string
		advances []play.Advance
		wantRuns int
		wantRBI  int
	}{
		{
			name:    "bases loaded walk",
			outcome: play.OutcomeWalk,
			bases:   [3]string{"a3", "a2", "a1"},
			advances: []play.Advance{
				{RunnerID: "a1", From: play.BaseThird, To: play.BaseHome},
				{RunnerID: "a2", From: play.BaseSecond, To: play.BaseThird},
				{RunnerID: "a3", From: play.BaseFirst, To: play.BaseSecond},
			},
			wantRuns: 1,
			wantRBI:  1,
		},
		{
			name:     "walk with bases empty",
			outcome:  play.OutcomeWalk,
			wantRuns: 0,
			wantRBI:  0,
		},
		{
			name:    "run scores on error",
			outcome: play.OutcomeError,
			bases:   [3]string{"", "", "a1"},
			advances: []play.Advance{
				{RunnerID: "a1", From: play.BaseThird, To: play.BaseHome},
			},
			wantRuns: 1,
			wantRBI:  0,
		},
		{
			name:    "sacrifice fly",
			outcome: play.OutcomeSacrificeFly,
			bases:   [3]string{"", "", "a1"},
			advances: []play.Advance{
				{RunnerID: "a1", From: play.BaseThird, To: play.BaseHome},
			},
			wantRuns: 1,
			wantRBI:  1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s := at(t, 0, tt.bases[0], tt.bases[1], tt.bases[2])
			p := record(t, s, tt.outcome, tt.advances...)
			if p.Runs != tt.wantRuns || p.RBI != tt.wantRBI {
				t.Errorf("Runs = %d, RBI = %d, want %d and %d", p.Runs, p.RBI, tt.wantRuns, tt.wantRBI)
			}
		})
	}
}

func TestRecordPlateAppearance_InvalidAdvances(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		outcome  play.Outcome
		advances []play.Advance
	}{
		{
			name:     "runner not on base",
			outcome:  play.OutcomeSingle,
			advances: []play.Advance{{RunnerID: "ghost", From: play.BaseSecond, To: play.BaseHome}},
		},
		{
			name:     "moving backwards",
			outcome:  play.OutcomeSingle,
			advances: []play.Advance{{RunnerID: "a3", From: play.BaseFirst, To: play.BaseFirst}},
		},
		{
			name:    "collision with runner who holds",
			outcome: play.OutcomeWalk,
		},
		{
			name:    "batter passes runner",
			outcome: play.OutcomeDouble,
			advances: []play.Advance{
				{RunnerID: "a3", From: play.BaseFirst, To: play.BaseSecond},
				{From: play.BaseBatter, To: play.BaseThird},
			},
		},
		{
			name:     "strikeout without an out",
			outcome:  play.OutcomeStrikeout,
			advances: []play.Advance{{From: play.BaseBatter, To: play.BaseFirst}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s := at(t, 0, "a3", "", "")
			_, err := s.RecordPlateAppearance(PlateAppearance{
				BatterID: "a4", Slot: 4, LineupSize: lineupSize, Outcome: tt.outcome, Advances: tt.advances,
			})
			if !errors.Is(err, domain.ErrValidation) {
				t.Errorf("error = %v, want ErrValidation", err)
			}
		})
	}
}

func TestRecordPlateAppearance_WrongSlot(t *testing.T) {
	t.Parallel()

	s := opened(t)
	_, err := s.RecordPlateAppearance(PlateAppearance{
		BatterID: "a2", Slot: 2, LineupSize: lineupSize, Outcome: play.OutcomeSingle,
	})
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("error = %v, want ErrValidation", err)
	}
}

func TestEndHalfInning(t *testing.T) {
	t.Parallel()

	s := at(t, 3, "a3", "", "")
	if err := s.EndHalfInning(""); err != nil {
		t.Fatalf("EndHalfInning() error = %v", err)
	}
	if s.Half != play.HalfBottom || s.Number != 1 || s.Outs != 0 || s.Bases != [3]string{} {
		t.Errorf("after top half: %+v", s)
	}

	if err := s.EndHalfInning(""); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Errorf("EndHalfInning() with 0 outs error = %v, want ErrInvalidTransition", err)
	}
	if err := s.EndHalfInning("run rule"); err != nil {
		t.Fatalf("EndHalfInning(run rule) error = %v", err)
	}
	if s.Half != play.HalfTop || s.Number != 2 {
		t.Errorf("after bottom half: inning %d %s, want 2 top", s.Number, s.Half)
	}
}

func TestReplay_Idempotent(t *testing.T) {
	t.Parallel()

	s := opened(t)
	steps := []struct {
		batter   string
		outcome  play.Outcome
		advances []play.Advance
	}{
		{batter: "a1", outcome: play.OutcomeSingle},
		{batter: "a2", outcome: play.OutcomeDouble, advances: []play.Advance{
			{RunnerID: "a1", From: play.BaseFirst, To: play.BaseThird},
		}},
		{batter: "a3", outcome: play.OutcomeSacrificeFly, advances: []play.Advance{
			{RunnerID: "a1", From: play.BaseThird, To: play.BaseHome},
		}},
		{batter: "a4", outcome: play.OutcomeStrikeout},
	}
	for i, step := range steps {
		_, err := s.RecordPlateAppearance(PlateAppearance{
			BatterID: step.batter, Slot: i + 1, LineupSize: lineupSize, Outcome: step.outcome, Advances: step.advances,
		})
		if err != nil {
			t.Fatalf("step %d: error = %v", i, err)
		}
	}
	if ok, err := s.ReplaceRunner("a2", "a10"); err != nil || !ok {
		t.Fatalf("ReplaceRunner() = %v, %v", ok, err)
	}

	events := s.Flush()
	first, err := Replay(events)
	if err != nil {
		t.Fatalf("Replay() error = %v", err)
	}
	second, err := Replay(events)
	if err != nil {
		t.Fatalf("second Replay() error = %v", err)
	}
	if !first.Equal(s) || !second.Equal(first) {
		t.Errorf("replay diverged: live %+v, replayed %+v", s, first)
	}
	if first.RunnerOn(play.BaseSecond) != "a10" || first.Outs != 2 {
		t.Errorf("replayed state = %+v", first)
	}
}

func TestRestore(t *testing.T) {
	t.Parallel()

	s := at(t, 0, "a3", "", "")
	before := s.Clone()
	record(t, s, play.OutcomeSingle, play.Advance{RunnerID: "a3", From: play.BaseFirst, To: play.BaseThird})

	if err := s.Restore(before, "undo"); err != nil {
		t.Fatalf("Restore() error = %v", err)
	}
	if !s.Equal(before) {
		t.Errorf("Restore() = %+v, want %+v", s, before)
	}
	pending := s.Pending()
	if last := pending[len(pending)-1]; last.Type != event.TypeInningRestored {
		t.Errorf("last event = %s, want %s", last.Type, event.TypeInningRestored)
	}
}
