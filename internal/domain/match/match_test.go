package match

import (
	"errors"
	"testing"
	"time"

	"github.com/jsamuelsen11/scorebook/internal/domain"
	"github.com/jsamuelsen11/scorebook/internal/domain/play"
)

var kickoff = time.Date(2026, 6, 6, 19, 0, 0, 0, time.UTC)

func startedMatch(t *testing.T) *Match {
	t.Helper()

	m := New("m-1")
	if err := m.Start("Hawks", "Owls", 0, kickoff); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	return m
}

func TestStart(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		home      string
		away      string
		innings   int
		wantErr   error
		wantFinal int
	}{
		{name: "defaults scheduled innings", home: "Hawks", away: "Owls", wantFinal: 7},
		{name: "custom length", home: "Hawks", away: "Owls", innings: 5, wantFinal: 5},
		{name: "missing home team", home: " ", away: "Owls", wantErr: domain.ErrValidation},
		{name: "negative innings", home: "Hawks", away: "Owls", innings: -1, wantErr: domain.ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			m := New("m-1")
			err := m.Start(tt.home, tt.away, tt.innings, kickoff)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Start() error = %v, want %v", err, tt.wantErr)
				}
				if len(m.Pending()) != 0 {
					t.Error("rejected Start() raised events")
				}
				return
			}
			if err != nil {
				t.Fatalf("Start() error = %v", err)
			}
			if m.Status != StatusInProgress || m.ScheduledInnings != tt.wantFinal || m.Version != 1 {
				t.Errorf("match after Start() = %+v", m)
			}
		})
	}
}

func TestStart_AlreadyStarted(t *testing.T) {
	t.Parallel()

	m := startedMatch(t)
	if err := m.Start("Hawks", "Owls", 7, kickoff); !errors.Is(err, domain.ErrInvalidState) {
		t.Errorf("second Start() error = %v, want ErrInvalidState", err)
	}
}

func TestReplay_MatchesLiveState(t *testing.T) {
	t.Parallel()

	m := startedMatch(t)
	for _, side := range []play.Side{play.SideAway, play.SideHome, play.SideHome} {
		if err := m.ScoreRun(side, "r", "b", 1, play.HalfTop); err != nil {
			t.Fatalf("ScoreRun() error = %v", err)
		}
	}
	if err := m.RestoreScore(Score{Home: 1, Away: 1}, "undo"); err != nil {
		t.Fatalf("RestoreScore() error = %v", err)
	}
	if err := m.End("regulation", kickoff.Add(2*time.Hour)); err != nil {
		t.Fatalf("End() error = %v", err)
	}

	events := m.Flush()
	replayed, err := Replay(events)
	if err != nil {
		t.Fatalf("Replay() error = %v", err)
	}
	if !replayed.Equal(m) || replayed.Version != m.Version {
		t.Errorf("Replay() = %+v, want %+v", replayed, m)
	}

	again, err := Replay(events)
	if err != nil {
		t.Fatalf("second Replay() error = %v", err)
	}
	if !again.Equal(replayed) {
		t.Error("replaying the same stream twice diverged")
	}
}

func TestApply_RejectsGap(t *testing.T) {
	t.Parallel()

	m := startedMatch(t)
	events := m.Flush()
	events[0].Seq = 2

	if _, err := Replay(events); !errors.Is(err, domain.ErrConflict) {
		t.Errorf("Replay() error = %v, want ErrConflict", err)
	}
}

func TestCompletedIsTerminal(t *testing.T) {
	t.Parallel()

	m := startedMatch(t)
	if err := m.End("", kickoff); err != nil {
		t.Fatalf("End() error = %v", err)
	}

	if err := m.ScoreRun(play.SideHome, "r", "b", 1, play.HalfBottom); !errors.Is(err, domain.ErrInvalidState) {
		t.Errorf("ScoreRun() after End error = %v, want ErrInvalidState", err)
	}
	if err := m.RestoreScore(Score{}, "undo"); !errors.Is(err, domain.ErrInvalidState) {
		t.Errorf("RestoreScore() after End error = %v, want ErrInvalidState", err)
	}
}

func TestRegulationOver(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		score  Score
		inning int
		half   play.Half
		want   bool
	}{
		{name: "early inning", score: Score{Home: 5}, inning: 3, half: play.HalfBottom, want: false},
		{name: "home ahead after top of last", score: Score{Home: 2, Away: 1}, inning: 7, half: play.HalfTop, want: true},
		{name: "away ahead after top of last", score: Score{Home: 1, Away: 2}, inning: 7, half: play.HalfTop, want: false},
		{name: "away ahead after bottom of last", score: Score{Home: 1, Away: 2}, inning: 7, half: play.HalfBottom, want: true},
		{name: "tied goes to extras", score: Score{Home: 3, Away: 3}, inning: 7, half: play.HalfBottom, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			m := &Match{ScheduledInnings: 7, Score: tt.score}
			if got := m.RegulationOver(tt.inning, tt.half); got != tt.want {
				t.Errorf("RegulationOver(%d, %s) = %v, want %v", tt.inning, tt.half, got, tt.want)
			}
		})
	}
}
