// Package match implements the Match aggregate: identity, status and score.
package match

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/jsamuelsen11/scorebook/internal/domain"
	"github.com/jsamuelsen11/scorebook/internal/domain/event"
	"github.com/jsamuelsen11/scorebook/internal/domain/play"
)

// DefaultScheduledInnings is the regulation length of a softball game.
const DefaultScheduledInnings = 7

// Status is the lifecycle stage of a match. Transitions only move forward.
type Status string

const (
	StatusNotStarted Status = "not_started"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

// IsValid returns true if the status is one of the defined constants.
func (s Status) IsValid() bool {
	switch s {
	case StatusNotStarted, StatusInProgress, StatusCompleted:
		return true
	default:
		return false
	}
}

// Score holds runs per side.
type Score struct {
	Home int `json:"home"`
	Away int `json:"away"`
}

// For returns the runs scored by side.
func (s Score) For(side play.Side) int {
	if side == play.SideHome {
		return s.Home
	}
	return s.Away
}

// Match is the aggregate root for a single game.
type Match struct {
	event.Recorder `json:"-"`

	ID               string    `json:"id"`
	HomeTeam         string    `json:"home_team"`
	AwayTeam         string    `json:"away_team"`
	Status           Status    `json:"status"`
	Score            Score     `json:"score"`
	ScheduledInnings int       `json:"scheduled_innings"`
	StartedAt        time.Time `json:"started_at,omitzero"`
	EndedAt          time.Time `json:"ended_at,omitzero"`
	Version          int64     `json:"version"`
}

// New returns an empty match that has not started.
func New(id string) *Match {
	return &Match{ID: id, Status: StatusNotStarted}
}

// AggregateID implements the storage identity contract.
func (m *Match) AggregateID() string { return m.ID }

// AggregateVersion is the sequence of the last event applied.
func (m *Match) AggregateVersion() int64 { return m.Version }

// Clone returns a copy without pending events.
func (m *Match) Clone() *Match {
	c := *m
	c.Recorder = event.Recorder{}
	return &c
}

// Equal compares derived state, ignoring version and pending events.
func (m *Match) Equal(other *Match) bool {
	if m == nil || other == nil {
		return m == other
	}
	a, b := m.Clone(), other.Clone()
	a.Version, b.Version = 0, 0
	return a.ID == b.ID && a.HomeTeam == b.HomeTeam && a.AwayTeam == b.AwayTeam &&
		a.Status == b.Status && a.Score == b.Score && a.ScheduledInnings == b.ScheduledInnings &&
		a.StartedAt.Equal(b.StartedAt) && a.EndedAt.Equal(b.EndedAt)
}

// Start moves a new match into progress.
func (m *Match) Start(homeTeam, awayTeam string, scheduledInnings int, at time.Time) error {
	if m.Status != StatusNotStarted {
		return fmt.Errorf("%w: match %s is %s", domain.ErrInvalidState, m.ID, m.Status)
	}

	fields := map[string]string{}
	if strings.TrimSpace(homeTeam) == "" {
		fields["home_team"] = domain.MsgRequired
	}
	if strings.TrimSpace(awayTeam) == "" {
		fields["away_team"] = domain.MsgRequired
	}
	if scheduledInnings < 0 {
		fields["scheduled_innings"] = domain.MsgMustBePositive
	}
	if len(fields) > 0 {
		return &domain.ValidationError{Fields: fields}
	}
	if scheduledInnings == 0 {
		scheduledInnings = DefaultScheduledInnings
	}

	return m.raise(event.MatchStarted{
		HomeTeam:         strings.TrimSpace(homeTeam),
		AwayTeam:         strings.TrimSpace(awayTeam),
		ScheduledInnings: scheduledInnings,
		StartedAt:        at.UTC(),
	})
}

// ScoreRun credits one run to side.
func (m *Match) ScoreRun(side play.Side, runnerID, batterID string, inning int, half play.Half) error {
	if err := m.requireInProgress(); err != nil {
		return err
	}
	if !side.IsValid() {
		return domain.NewValidationError("side", domain.MsgUnknownValue)
	}
	return m.raise(event.RunScored{
		Side:     side,
		RunnerID: runnerID,
		BatterID: batterID,
		Inning:   inning,
		Half:     half,
	})
}

// End completes the match.
func (m *Match) End(reason string, at time.Time) error {
	if err := m.requireInProgress(); err != nil {
		return err
	}
	return m.raise(event.MatchEnded{
		Home:    m.Score.Home,
		Away:    m.Score.Away,
		Reason:  reason,
		EndedAt: at.UTC(),
	})
}

// RestoreScore resets the score to a previously recorded value. Status is
// never touched, so restoration cannot reverse a lifecycle transition.
func (m *Match) RestoreScore(score Score, reason string) error {
	if err := m.requireInProgress(); err != nil {
		return err
	}
	if score.Home < 0 || score.Away < 0 {
		return domain.NewValidationError("score", "must not be negative")
	}
	if score == m.Score {
		return nil
	}
	return m.raise(event.ScoreRestored{Home: score.Home, Away: score.Away, Reason: reason})
}

// Restore returns the match to a snapshot taken earlier in the same status.
// A snapshot in a different status cannot be restored.
func (m *Match) Restore(snapshot *Match, reason string) error {
	if snapshot == nil || snapshot.ID != m.ID {
		return fmt.Errorf("%w: snapshot does not belong to match %s", domain.ErrConflict, m.ID)
	}
	if snapshot.Status != m.Status {
		return fmt.Errorf("%w: match %s is %s, snapshot is %s",
			domain.ErrInvalidTransition, m.ID, m.Status, snapshot.Status)
	}
	return m.RestoreScore(snapshot.Score, reason)
}

// Leader returns the side ahead on the scoreboard and false when tied.
func (m *Match) Leader() (play.Side, bool) {
	switch {
	case m.Score.Home > m.Score.Away:
		return play.SideHome, true
	case m.Score.Away > m.Score.Home:
		return play.SideAway, true
	default:
		return "", false
	}
}

// RegulationOver reports whether the game is decided once the given half
// of inning has been completed.
func (m *Match) RegulationOver(inning int, half play.Half) bool {
	if inning < m.ScheduledInnings {
		return false
	}
	leader, ok := m.Leader()
	if half == play.HalfTop {
		return ok && leader == play.SideHome
	}
	return ok
}

// WalkOff reports whether the home team has taken the lead in the bottom
// half of a regulation or extra inning.
func (m *Match) WalkOff(inning int, half play.Half) bool {
	return half == play.HalfBottom && inning >= m.ScheduledInnings && m.Score.Home > m.Score.Away
}

func (m *Match) requireInProgress() error {
	if m.Status != StatusInProgress {
		return fmt.Errorf("%w: match %s is %s", domain.ErrInvalidState, m.ID, m.Status)
	}
	return nil
}

func (m *Match) raise(p event.Payload) error {
	e := event.New(m.ID, event.StreamMatch, m.Version+1, p)
	if err := m.Apply(e); err != nil {
		return err
	}
	m.Record(e)
	return nil
}

// Apply folds one event into the aggregate. It is used both when raising new
// events and when replaying a stream.
func (m *Match) Apply(e event.Event) error {
	if e.Seq != m.Version+1 {
		return fmt.Errorf("%w: match %s expected seq %d, got %d", domain.ErrConflict, m.ID, m.Version+1, e.Seq)
	}
	if m.ID != "" && e.AggregateID != m.ID {
		return fmt.Errorf("%w: event for %s applied to match %s", domain.ErrConflict, e.AggregateID, m.ID)
	}

	switch p := e.Payload.(type) {
	case event.MatchStarted:
		m.ID = e.AggregateID
		m.HomeTeam = p.HomeTeam
		m.AwayTeam = p.AwayTeam
		m.ScheduledInnings = p.ScheduledInnings
		m.StartedAt = p.StartedAt
		m.Status = StatusInProgress
	case event.RunScored:
		if p.Side == play.SideHome {
			m.Score.Home++
		} else {
			m.Score.Away++
		}
	case event.MatchEnded:
		m.Status = StatusCompleted
		m.EndedAt = p.EndedAt
	case event.ScoreRestored:
		m.Score = Score{Home: p.Home, Away: p.Away}
	default:
		return fmt.Errorf("match %s cannot apply %s", m.ID, e.Type)
	}

	m.Version = e.Seq
	return nil
}

// Replay rebuilds a match from its full stream.
func Replay(events []event.Event) (*Match, error) {
	m := &Match{Status: StatusNotStarted}
	for _, e := range events {
		if err := m.Apply(e); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// MarshalState encodes the derived state without the version.
func (m *Match) MarshalState() (json.RawMessage, error) {
	c := m.Clone()
	c.Version = 0
	return json.Marshal(c)
}
