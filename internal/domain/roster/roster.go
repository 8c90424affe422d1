// Package roster implements the per-team Roster aggregate: the batting order,
// field positions, bench and substitution history of one side in a match.
//
// A starter who leaves the lineup may re-enter once, into the slot they
// started in. Eligibility is derived from the substitution history recorded in
// the aggregate itself.
package roster

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/jsamuelsen11/scorebook/internal/domain"
	"github.com/jsamuelsen11/scorebook/internal/domain/event"
	"github.com/jsamuelsen11/scorebook/internal/domain/play"
)

// ID returns the aggregate id of a side's roster in a match.
func ID(matchID string, side play.Side) string {
	return matchID + "/" + string(side)
}

// LineupEntry places a player in the batting order with a field position.
type LineupEntry struct {
	Player   play.Player   `json:"player"`
	Position play.Position `json:"position,omitempty"`
}

// Substitution is one change recorded against a batting slot.
type Substitution struct {
	OutgoingID string `json:"outgoing_id"`
	IncomingID string `json:"incoming_id"`
	Inning     int    `json:"inning"`
	ReEntry    bool   `json:"re_entry,omitempty"`
}

// Slot is one position in the batting order.
type Slot struct {
	Number    int            `json:"number"`
	PlayerID  string         `json:"player_id"`
	StarterID string         `json:"starter_id"`
	History   []Substitution `json:"history,omitempty"`
}

// Roster is the aggregate for one team's participation in a match.
type Roster struct {
	event.Recorder `json:"-"`

	ID        string                   `json:"id"`
	MatchID   string                   `json:"match_id"`
	Side      play.Side                `json:"side"`
	Team      string                   `json:"team"`
	Players   map[string]play.Player   `json:"players,omitempty"`
	Slots     []Slot                   `json:"slots,omitempty"`
	Positions map[play.Position]string `json:"positions,omitempty"`
	Version   int64                    `json:"version"`
}

// New returns an empty roster for side of matchID.
func New(matchID string, side play.Side) *Roster {
	return &Roster{ID: ID(matchID, side), MatchID: matchID, Side: side}
}

// AggregateID implements the storage identity contract.
func (r *Roster) AggregateID() string { return r.ID }

// AggregateVersion is the sequence of the last event applied.
func (r *Roster) AggregateVersion() int64 { return r.Version }

// Size returns the number of batting slots.
func (r *Roster) Size() int { return len(r.Slots) }

// Occupant returns the player currently batting in slot (1-based).
func (r *Roster) Occupant(slot int) (string, bool) {
	if slot < 1 || slot > len(r.Slots) {
		return "", false
	}
	return r.Slots[slot-1].PlayerID, true
}

// SlotOf returns the slot currently held by playerID, or 0.
func (r *Roster) SlotOf(playerID string) int {
	for _, s := range r.Slots {
		if s.PlayerID == playerID {
			return s.Number
		}
	}
	return 0
}

// IsActive reports whether playerID currently occupies a batting slot.
func (r *Roster) IsActive(playerID string) bool {
	return r.SlotOf(playerID) != 0
}

// PositionOf returns the field position held by playerID.
func (r *Roster) PositionOf(playerID string) play.Position {
	for pos, id := range r.Positions {
		if id == playerID {
			return pos
		}
	}
	return play.PositionNone
}

// Bench returns registered players who are not in the lineup, sorted by id.
func (r *Roster) Bench() []play.Player {
	var bench []play.Player
	for _, id := range slices.Sorted(maps.Keys(r.Players)) {
		if !r.IsActive(id) {
			bench = append(bench, r.Players[id])
		}
	}
	return bench
}

// Create registers the team, its starting lineup and its bench.
func (r *Roster) Create(team string, lineup []LineupEntry, bench []play.Player) error {
	if r.Version != 0 {
		return fmt.Errorf("%w: roster %s already exists", domain.ErrInvalidState, r.ID)
	}
	if err := validateSheet(team, lineup, bench); err != nil {
		return err
	}

	if err := r.raise(event.RosterCreated{
		MatchID: r.MatchID,
		Side:    r.Side,
		Team:    strings.TrimSpace(team),
		Players: slices.Clone(bench),
	}); err != nil {
		return err
	}
	for i, entry := range lineup {
		if err := r.raise(event.LineupEntryAdded{
			Slot:     i + 1,
			Player:   entry.Player,
			Position: entry.Position,
		}); err != nil {
			return err
		}
	}
	return nil
}

func validateSheet(team string, lineup []LineupEntry, bench []play.Player) error {
	ve := &domain.ValidationError{Fields: map[string]string{}}
	if strings.TrimSpace(team) == "" {
		ve.Fields["team"] = domain.MsgRequired
	}
	if len(lineup) == 0 {
		ve.Fields["lineup"] = domain.MsgRequired
	}

	ids := map[string]bool{}
	jerseys := map[string]bool{}
	positions := map[play.Position]bool{}

	checkPlayer := func(field string, p play.Player) {
		switch {
		case strings.TrimSpace(p.ID) == "":
			ve.Fields[field+".id"] = domain.MsgRequired
		case ids[p.ID]:
			ve.Fields[field+".id"] = domain.MsgDuplicatePlayer
		}
		ids[p.ID] = true
		if p.Jersey != "" {
			if jerseys[p.Jersey] {
				ve.Fields[field+".jersey"] = domain.MsgDuplicateJersey
			}
			jerseys[p.Jersey] = true
		}
	}

	for i, entry := range lineup {
		field := fmt.Sprintf("lineup[%d]", i)
		checkPlayer(field, entry.Player)
		if !entry.Position.IsValid() {
			ve.Fields[field+".position"] = domain.MsgUnknownValue
		} else if entry.Position != play.PositionNone {
			if positions[entry.Position] {
				ve.Fields[field+".position"] = "position already assigned"
			}
			positions[entry.Position] = true
		}
	}
	for i, p := range bench {
		checkPlayer(fmt.Sprintf("bench[%d]", i), p)
	}

	if len(ve.Fields) > 0 {
		return ve
	}
	return nil
}

// Substitute puts incoming into slot. Slot Size()+1 extends the lineup;
// any other valid slot replaces its current occupant. An empty position
// means the incoming player takes over the outgoing player's position.
func (r *Roster) Substitute(slot int, incoming play.Player, position play.Position, inning int) error {
	if r.Version == 0 {
		return fmt.Errorf("%w: roster %s", domain.ErrNotFound, r.ID)
	}
	if slot < 1 || slot > len(r.Slots)+1 {
		return domain.NewValidationError("slot", "must be between 1 and the lineup size plus one")
	}
	if strings.TrimSpace(incoming.ID) == "" {
		return domain.NewValidationError("incoming.id", domain.MsgRequired)
	}
	if !position.IsValid() {
		return domain.NewValidationError("position", domain.MsgUnknownValue)
	}

	player, err := r.resolve(incoming)
	if err != nil {
		return err
	}
	if r.IsActive(player.ID) {
		return domain.NewValidationError("incoming.id", "player is already in the lineup")
	}

	if slot == len(r.Slots)+1 {
		if _, left, _ := r.departure(player.ID); left {
			return fmt.Errorf("%w: player %s has left the lineup", domain.ErrInvalidTransition, player.ID)
		}
		if err := r.checkPosition(position, ""); err != nil {
			return err
		}
		return r.raise(event.LineupEntryAdded{Slot: slot, Player: player, Position: position})
	}

	current := r.Slots[slot-1]
	reEntry := false
	if from, left, reEntered := r.departure(player.ID); left {
		if current.StarterID != player.ID || from != slot || reEntered {
			return fmt.Errorf("%w: player %s is not eligible to re-enter slot %d",
				domain.ErrInvalidTransition, player.ID, slot)
		}
		reEntry = true
	}

	if position == play.PositionNone {
		position = r.PositionOf(current.PlayerID)
	}
	if err := r.checkPosition(position, current.PlayerID); err != nil {
		return err
	}

	return r.raise(event.PlayerSubstituted{
		Slot:       slot,
		OutgoingID: current.PlayerID,
		Incoming:   player,
		Position:   position,
		Inning:     inning,
		ReEntry:    reEntry,
	})
}

// departure reads the slot histories for playerID: the slot they last left,
// whether they have left at all and whether they already used their re-entry.
func (r *Roster) departure(playerID string) (slot int, left, reEntered bool) {
	for _, s := range r.Slots {
		for _, sub := range s.History {
			if sub.OutgoingID == playerID {
				slot, left = s.Number, true
			}
			if sub.IncomingID == playerID && sub.ReEntry {
				reEntered = true
			}
		}
	}
	return slot, left, reEntered
}

// resolve returns the registered player for incoming, registering a new one
// when the id is unknown. Jersey numbers stay unique across the roster.
func (r *Roster) resolve(incoming play.Player) (play.Player, error) {
	if known, ok := r.Players[incoming.ID]; ok {
		if incoming.Jersey != "" && incoming.Jersey != known.Jersey {
			return play.Player{}, domain.NewValidationError("incoming.jersey", "does not match the registered jersey")
		}
		return known, nil
	}
	if incoming.Jersey != "" {
		for _, p := range r.Players {
			if p.Jersey == incoming.Jersey {
				return play.Player{}, domain.NewValidationError("incoming.jersey", domain.MsgDuplicateJersey)
			}
		}
	}
	return incoming, nil
}

// checkPosition rejects a position held by an active player other than
// vacating.
func (r *Roster) checkPosition(position play.Position, vacating string) error {
	if position == play.PositionNone {
		return nil
	}
	if holder, ok := r.Positions[position]; ok && holder != vacating && r.IsActive(holder) {
		return domain.NewValidationError("position", "position already assigned")
	}
	return nil
}

// Restore replaces the roster with a snapshot taken earlier in the match.
func (r *Roster) Restore(snapshot *Roster, reason string) error {
	if snapshot == nil || snapshot.ID != r.ID {
		return fmt.Errorf("%w: snapshot does not belong to roster %s", domain.ErrConflict, r.ID)
	}
	if r.Equal(snapshot) {
		return nil
	}
	state, err := snapshot.MarshalState()
	if err != nil {
		return fmt.Errorf("encoding roster snapshot: %w", err)
	}
	return r.raise(event.RosterRestored{State: state, Reason: reason})
}

func (r *Roster) raise(p event.Payload) error {
	e := event.New(r.ID, event.StreamRoster, r.Version+1, p)
	if err := r.Apply(e); err != nil {
		return err
	}
	r.Record(e)
	return nil
}

// Apply folds one event into the roster.
func (r *Roster) Apply(e event.Event) error {
	if e.Seq != r.Version+1 {
		return fmt.Errorf("%w: roster %s expected seq %d, got %d", domain.ErrConflict, r.ID, r.Version+1, e.Seq)
	}
	if r.ID != "" && e.AggregateID != r.ID {
		return fmt.Errorf("%w: event for %s applied to roster %s", domain.ErrConflict, e.AggregateID, r.ID)
	}

	switch p := e.Payload.(type) {
	case event.RosterCreated:
		r.ID = e.AggregateID
		r.MatchID = p.MatchID
		r.Side = p.Side
		r.Team = p.Team
		for _, pl := range p.Players {
			r.register(pl)
		}
	case event.LineupEntryAdded:
		r.register(p.Player)
		r.Slots = append(r.Slots, Slot{Number: p.Slot, PlayerID: p.Player.ID, StarterID: p.Player.ID})
		r.assign(p.Position, p.Player.ID)
	case event.PlayerSubstituted:
		if p.Slot < 1 || p.Slot > len(r.Slots) {
			return fmt.Errorf("roster %s has no slot %d", r.ID, p.Slot)
		}
		r.register(p.Incoming)
		slot := &r.Slots[p.Slot-1]
		slot.PlayerID = p.Incoming.ID
		slot.History = append(slot.History, Substitution{
			OutgoingID: p.OutgoingID,
			IncomingID: p.Incoming.ID,
			Inning:     p.Inning,
			ReEntry:    p.ReEntry,
		})
		if pos := r.PositionOf(p.OutgoingID); pos != play.PositionNone {
			delete(r.Positions, pos)
		}
		r.assign(p.Position, p.Incoming.ID)
	case event.RosterRestored:
		var snap Roster
		if err := json.Unmarshal(p.State, &snap); err != nil {
			return fmt.Errorf("decoding roster %s snapshot: %w", r.ID, err)
		}
		r.Team = snap.Team
		r.Players = snap.Players
		r.Slots = snap.Slots
		r.Positions = snap.Positions
	default:
		return fmt.Errorf("roster %s cannot apply %s", r.ID, e.Type)
	}

	r.Version = e.Seq
	return nil
}

func (r *Roster) register(p play.Player) {
	if r.Players == nil {
		r.Players = map[string]play.Player{}
	}
	r.Players[p.ID] = p
}

func (r *Roster) assign(pos play.Position, playerID string) {
	if pos == play.PositionNone {
		return
	}
	if prev := r.PositionOf(playerID); prev != play.PositionNone {
		delete(r.Positions, prev)
	}
	if r.Positions == nil {
		r.Positions = map[play.Position]string{}
	}
	r.Positions[pos] = playerID
}

// Replay rebuilds a roster from its full stream.
func Replay(events []event.Event) (*Roster, error) {
	r := &Roster{}
	for _, e := range events {
		if err := r.Apply(e); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Clone returns a deep copy without pending events.
func (r *Roster) Clone() *Roster {
	c := &Roster{
		ID:        r.ID,
		MatchID:   r.MatchID,
		Side:      r.Side,
		Team:      r.Team,
		Players:   maps.Clone(r.Players),
		Positions: maps.Clone(r.Positions),
		Version:   r.Version,
	}
	if r.Slots != nil {
		c.Slots = make([]Slot, len(r.Slots))
		for i, s := range r.Slots {
			s.History = slices.Clone(s.History)
			c.Slots[i] = s
		}
	}
	return c
}

// MarshalState encodes the derived state without the version.
func (r *Roster) MarshalState() (json.RawMessage, error) {
	c := r.Clone()
	c.Version = 0
	return json.Marshal(c)
}

// Equal compares derived state, ignoring version and pending events.
func (r *Roster) Equal(other *Roster) bool {
	if r == nil || other == nil {
		return r == other
	}
	a, errA := r.MarshalState()
	b, errB := other.MarshalState()
	return errA == nil && errB == nil && bytes.Equal(a, b)
}
