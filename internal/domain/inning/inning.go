// Package inning implements the InningState aggregate: inning number, half,
// outs, base occupancy and the next batting slot for each side.
//
// The aggregate is the only authority on the out count. A plate appearance
// that would record a fourth out is rejected, and reaching three outs leaves
// the state at three until EndHalfInning resets it.
package inning

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/jsamuelsen11/scorebook/internal/domain"
	"github.com/jsamuelsen11/scorebook/internal/domain/event"
	"github.com/jsamuelsen11/scorebook/internal/domain/play"
)

// OutsPerHalf is the number of outs that retires a side.
const OutsPerHalf = 3

// ID returns the aggregate id of a match's inning state.
func ID(matchID string) string {
	return matchID + "/inning"
}

// NextSlots holds the batting slot due up for each side.
type NextSlots struct {
	Home int `json:"home"`
	Away int `json:"away"`
}

// For returns the slot due up for side.
func (n NextSlots) For(side play.Side) int {
	if side == play.SideHome {
		return n.Home
	}
	return n.Away
}

func (n *NextSlots) set(side play.Side, slot int) {
	if side == play.SideHome {
		n.Home = slot
	} else {
		n.Away = slot
	}
}

// Inning is the aggregate for the live game situation of one match.
type Inning struct {
	event.Recorder `json:"-"`

	ID       string    `json:"id"`
	MatchID  string    `json:"match_id"`
	Number   int       `json:"number"`
	Half     play.Half `json:"half"`
	Outs     int       `json:"outs"`
	Bases    [3]string `json:"bases"`
	NextSlot NextSlots `json:"next_slot"`
	Version  int64     `json:"version"`
}

// New returns an unopened inning state for matchID.
func New(matchID string) *Inning {
	return &Inning{ID: ID(matchID), MatchID: matchID}
}

// AggregateID implements the storage identity contract.
func (s *Inning) AggregateID() string { return s.ID }

// AggregateVersion is the sequence of the last event applied.
func (s *Inning) AggregateVersion() int64 { return s.Version }

// BattingSide returns the side at bat in the current half.
func (s *Inning) BattingSide() play.Side { return s.Half.BattingSide() }

// RunnerOn returns the runner standing on base, if any.
func (s *Inning) RunnerOn(base play.Base) string {
	if i := base.Index(); i >= 0 {
		return s.Bases[i]
	}
	return ""
}

// BaseOf returns the base occupied by runnerID.
func (s *Inning) BaseOf(runnerID string) (play.Base, bool) {
	for i, id := range s.Bases {
		if id != "" && id == runnerID {
			return play.BaseAt(i), true
		}
	}
	return "", false
}

// Open starts the top of the first inning.
func (s *Inning) Open() error {
	if s.Version != 0 {
		return fmt.Errorf("%w: inning state %s already opened", domain.ErrInvalidState, s.ID)
	}
	return s.raise(event.InningOpened{MatchID: s.MatchID})
}

// PlateAppearance is the input to RecordPlateAppearance. Advances are the
// explicit runner movements; the batter's advance is derived from the
// outcome when omitted.
type PlateAppearance struct {
	BatterID   string
	Slot       int
	LineupSize int
	Outcome    play.Outcome
	Advances   []play.Advance
}

// Play summarizes a recorded plate appearance.
type Play struct {
	Advances     []play.Advance
	Scored       []string
	PutOut       []string
	Runs         int
	RBI          int
	OutsRecorded int
	Outs         int
	HalfOver     bool
}

// RecordPlateAppearance validates and applies one plate appearance.
func (s *Inning) RecordPlateAppearance(pa PlateAppearance) (Play, error) {
	if s.Version == 0 {
		return Play{}, fmt.Errorf("%w: inning state %s not opened", domain.ErrInvalidState, s.ID)
	}
	if s.Outs >= OutsPerHalf {
		return Play{}, fmt.Errorf("%w: %s half of inning %d already has %d outs",
			domain.ErrInvalidTransition, s.Half, s.Number, s.Outs)
	}

	side := s.BattingSide()
	if pa.LineupSize < 1 || pa.Slot < 1 || pa.Slot > pa.LineupSize {
		return Play{}, domain.NewValidationError("slot", "outside the batting order")
	}
	if due := s.NextSlot.For(side); pa.Slot != due {
		return Play{}, domain.NewValidationError("batter_id", fmt.Sprintf("slot %d is due up, not slot %d", due, pa.Slot))
	}

	advances, err := s.resolveAdvances(pa)
	if err != nil {
		return Play{}, err
	}

	var p Play
	for _, a := range advances {
		switch {
		case a.Scores():
			p.Scored = append(p.Scored, a.RunnerID)
		case a.IsOut():
			p.PutOut = append(p.PutOut, a.RunnerID)
		}
	}
	p.Advances = advances
	p.Runs = len(p.Scored)
	p.RBI = play.RBI(pa.Outcome, p.Runs)
	p.OutsRecorded = len(p.PutOut)

	if need := pa.Outcome.MinOuts(); p.OutsRecorded < need {
		return Play{}, domain.NewValidationError("advances",
			fmt.Sprintf("%s records at least %d out(s)", pa.Outcome, need))
	}
	if s.Outs+p.OutsRecorded > OutsPerHalf {
		return Play{}, fmt.Errorf("%w: %d out(s) on the play would exceed %d with %d already recorded",
			domain.ErrInvalidTransition, p.OutsRecorded, OutsPerHalf, s.Outs)
	}

	moving := slices.DeleteFunc(slices.Clone(advances), func(a play.Advance) bool {
		return a.Scores() || a.IsOut()
	})
	slices.SortStableFunc(moving, func(a, b play.Advance) int {
		return b.From.Rank() - a.From.Rank()
	})
	for _, a := range moving {
		if err := s.raise(event.RunnerAdvanced{RunnerID: a.RunnerID, From: a.From, To: a.To}); err != nil {
			return Play{}, err
		}
	}

	if err := s.raise(event.PlateAppearanceCompleted{
		BatterID:     pa.BatterID,
		Side:         side,
		Slot:         pa.Slot,
		Outcome:      pa.Outcome,
		OutsRecorded: p.OutsRecorded,
		Runs:         p.Runs,
		RBI:          p.RBI,
		Scored:       p.Scored,
		PutOut:       p.PutOut,
		NextSlot:     pa.Slot%pa.LineupSize + 1,
	}); err != nil {
		return Play{}, err
	}

	p.Outs = s.Outs
	p.HalfOver = s.Outs == OutsPerHalf
	return p, nil
}

// resolveAdvances validates the listed movements against the bases and adds
// the batter's default advance when it is missing. The result is ordered
// lead runner first, batter last.
func (s *Inning) resolveAdvances(pa PlateAppearance) ([]play.Advance, error) {
	if strings.TrimSpace(pa.BatterID) == "" {
		return nil, domain.NewValidationError("batter_id", domain.MsgRequired)
	}
	if !pa.Outcome.IsValid() {
		return nil, domain.NewValidationError("outcome", domain.MsgUnknownValue)
	}
	if len(pa.Advances) > play.MaxAdvances {
		return nil, domain.NewValidationError("advances", fmt.Sprintf("at most %d advances", play.MaxAdvances))
	}
	if _, onBase := s.BaseOf(pa.BatterID); onBase {
		return nil, domain.NewValidationError("batter_id", "batter is standing on base")
	}

	runners := map[string]bool{}
	origins := map[play.Base]bool{}
	batterListed := false
	advances := make([]play.Advance, 0, len(pa.Advances)+1)

	for i, a := range pa.Advances {
		field := fmt.Sprintf("advances[%d]", i)
		if a.IsBatter() && a.RunnerID == "" {
			a.RunnerID = pa.BatterID
		}
		switch {
		case !a.From.IsOrigin():
			return nil, domain.NewValidationError(field+".from", domain.MsgUnknownValue)
		case !a.To.IsDestination():
			return nil, domain.NewValidationError(field+".to", domain.MsgUnknownValue)
		case !a.IsOut() && a.To.Rank() <= a.From.Rank():
			return nil, domain.NewValidationError(field+".to", "must be ahead of the starting base")
		case runners[a.RunnerID] || origins[a.From]:
			return nil, domain.NewValidationError(field, "runner appears more than once")
		}
		runners[a.RunnerID] = true
		origins[a.From] = true

		if a.IsBatter() {
			if a.RunnerID != pa.BatterID {
				return nil, domain.NewValidationError(field+".runner_id", "batter advance must name the batter")
			}
			batterListed = true
		} else if s.RunnerOn(a.From) == "" || s.RunnerOn(a.From) != a.RunnerID {
			return nil, domain.NewValidationError(field+".from", "runner is not on that base")
		}
		advances = append(advances, a)
	}

	if !batterListed {
		advances = append(advances, play.Advance{
			RunnerID: pa.BatterID,
			From:     play.BaseBatter,
			To:       pa.Outcome.BatterDestination(),
		})
	}
	if pa.Outcome.IsFreePass() {
		for _, a := range advances {
			if a.IsBatter() && a.To != play.BaseFirst {
				return nil, domain.NewValidationError("advances", fmt.Sprintf("batter is awarded first base on a %s", pa.Outcome))
			}
		}
	}

	slices.SortStableFunc(advances, func(a, b play.Advance) int {
		return b.From.Rank() - a.From.Rank()
	})

	if err := s.checkFinalBases(advances); err != nil {
		return nil, err
	}
	return advances, nil
}

// checkFinalBases rejects plays that leave two runners on one base or let a
// trailing runner pass a lead runner. Runners not named in advances hold.
func (s *Inning) checkFinalBases(advances []play.Advance) error {
	type path struct{ from, to int }
	moved := map[play.Base]bool{}
	var paths []path
	for _, a := range advances {
		moved[a.From] = true
		if !a.IsOut() {
			paths = append(paths, path{from: a.From.Rank(), to: a.To.Rank()})
		}
	}
	for i, id := range s.Bases {
		base := play.BaseAt(i)
		if id != "" && !moved[base] {
			paths = append(paths, path{from: base.Rank(), to: base.Rank()})
		}
	}

	occupied := map[int]bool{}
	for _, p := range paths {
		if p.to == play.BaseHome.Rank() {
			continue
		}
		if occupied[p.to] {
			return domain.NewValidationError("advances", "two runners cannot occupy the same base")
		}
		occupied[p.to] = true
	}
	for _, lead := range paths {
		for _, trail := range paths {
			if trail.from < lead.from && trail.to > lead.to {
				return domain.NewValidationError("advances", "a runner cannot pass the runner ahead")
			}
		}
	}
	return nil
}

// EndHalfInning retires the batting side. Fewer than three outs requires a
// reason such as a run rule or time limit.
func (s *Inning) EndHalfInning(reason string) error {
	if s.Version == 0 {
		return fmt.Errorf("%w: inning state %s not opened", domain.ErrInvalidState, s.ID)
	}
	if s.Outs < OutsPerHalf && strings.TrimSpace(reason) == "" {
		return fmt.Errorf("%w: %s half of inning %d has %d outs; a reason is required to end it early",
			domain.ErrInvalidTransition, s.Half, s.Number, s.Outs)
	}
	return s.raise(event.HalfInningEnded{
		Inning: s.Number,
		Half:   s.Half,
		Outs:   s.Outs,
		Reason: strings.TrimSpace(reason),
	})
}

// ReplaceRunner puts incomingID on the base held by outgoingID. It reports
// false and raises nothing when outgoingID is not on base.
func (s *Inning) ReplaceRunner(outgoingID, incomingID string) (bool, error) {
	base, ok := s.BaseOf(outgoingID)
	if !ok {
		return false, nil
	}
	if _, onBase := s.BaseOf(incomingID); onBase {
		return false, domain.NewValidationError("incoming.id", "player is already on base")
	}
	if err := s.raise(event.RunnerSubstituted{Base: base, OutgoingID: outgoingID, IncomingID: incomingID}); err != nil {
		return false, err
	}
	return true, nil
}

// Restore replaces the inning state with a snapshot taken earlier in the
// match.
func (s *Inning) Restore(snapshot *Inning, reason string) error {
	if snapshot == nil || snapshot.ID != s.ID {
		return fmt.Errorf("%w: snapshot does not belong to inning state %s", domain.ErrConflict, s.ID)
	}
	if s.Equal(snapshot) {
		return nil
	}
	state, err := snapshot.MarshalState()
	if err != nil {
		return fmt.Errorf("encoding inning snapshot: %w", err)
	}
	return s.raise(event.InningRestored{State: state, Reason: reason})
}

func (s *Inning) raise(p event.Payload) error {
	e := event.New(s.ID, event.StreamInning, s.Version+1, p)
	if err := s.Apply(e); err != nil {
		return err
	}
	s.Record(e)
	return nil
}

// Apply folds one event into the inning state.
func (s *Inning) Apply(e event.Event) error {
	if e.Seq != s.Version+1 {
		return fmt.Errorf("%w: inning state %s expected seq %d, got %d", domain.ErrConflict, s.ID, s.Version+1, e.Seq)
	}
	if s.ID != "" && e.AggregateID != s.ID {
		return fmt.Errorf("%w: event for %s applied to inning state %s", domain.ErrConflict, e.AggregateID, s.ID)
	}

	switch p := e.Payload.(type) {
	case event.InningOpened:
		s.ID = e.AggregateID
		s.MatchID = p.MatchID
		s.Number = 1
		s.Half = play.HalfTop
		s.Outs = 0
		s.Bases = [3]string{}
		s.NextSlot = NextSlots{Home: 1, Away: 1}
	case event.RunnerAdvanced:
		if i := p.From.Index(); i >= 0 && s.Bases[i] == p.RunnerID {
			s.Bases[i] = ""
		}
		if i := p.To.Index(); i >= 0 {
			s.Bases[i] = p.RunnerID
		}
	case event.PlateAppearanceCompleted:
		for _, id := range slices.Concat(p.Scored, p.PutOut) {
			if base, ok := s.BaseOf(id); ok {
				s.Bases[base.Index()] = ""
			}
		}
		s.Outs += p.OutsRecorded
		s.NextSlot.set(p.Side, p.NextSlot)
	case event.HalfInningEnded:
		s.Outs = 0
		s.Bases = [3]string{}
		if s.Half == play.HalfBottom {
			s.Number++
			s.Half = play.HalfTop
		} else {
			s.Half = play.HalfBottom
		}
	case event.RunnerSubstituted:
		if i := p.Base.Index(); i >= 0 {
			s.Bases[i] = p.IncomingID
		}
	case event.InningRestored:
		var snap Inning
		if err := json.Unmarshal(p.State, &snap); err != nil {
			return fmt.Errorf("decoding inning state %s snapshot: %w", s.ID, err)
		}
		s.Number = snap.Number
		s.Half = snap.Half
		s.Outs = snap.Outs
		s.Bases = snap.Bases
		s.NextSlot = snap.NextSlot
	default:
		return fmt.Errorf("inning state %s cannot apply %s", s.ID, e.Type)
	}

	s.Version = e.Seq
	return nil
}

// Replay rebuilds an inning state from its full stream.
func Replay(events []event.Event) (*Inning, error) {
	s := &Inning{}
	for _, e := range events {
		if err := s.Apply(e); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Clone returns a copy without pending events.
func (s *Inning) Clone() *Inning {
	c := *s
	c.Recorder = event.Recorder{}
	return &c
}

// MarshalState encodes the derived state without the version.
func (s *Inning) MarshalState() (json.RawMessage, error) {
	c := s.Clone()
	c.Version = 0
	return json.Marshal(c)
}

// Equal compares derived state, ignoring version and pending events.
func (s *Inning) Equal(other *Inning) bool {
	if s == nil || other == nil {
		return s == other
	}
	a, errA := s.MarshalState()
	b, errB := other.MarshalState()
	return errA == nil && errB == nil && bytes.Equal(a, b)
}
