package event

import (
	"encoding/json"
	"time"

	"github.com/jsamuelsen11/scorebook/internal/domain/play"
)

// Payload is the variant-specific body of an event. The interface is sealed;
// only this package declares implementations.
//
//sumtype:decl
type Payload interface {
	EventType() Type
	sealed()
}

// MatchStarted opens a match stream.
type MatchStarted struct {
	HomeTeam         string    `json:"home_team"`
	AwayTeam         string    `json:"away_team"`
	ScheduledInnings int       `json:"scheduled_innings"`
	StartedAt        time.Time `json:"started_at"`
}

// RunScored credits one run to the batting side.
type RunScored struct {
	Side     play.Side `json:"side"`
	RunnerID string    `json:"runner_id"`
	BatterID string    `json:"batter_id"`
	Inning   int       `json:"inning"`
	Half     play.Half `json:"half"`
}

// MatchEnded closes the match with its final score.
type MatchEnded struct {
	Home    int       `json:"home"`
	Away    int       `json:"away"`
	Reason  string    `json:"reason,omitempty"`
	EndedAt time.Time `json:"ended_at"`
}

// ScoreRestored resets the score to a previous value during undo, redo or
// compensation.
type ScoreRestored struct {
	Home   int    `json:"home"`
	Away   int    `json:"away"`
	Reason string `json:"reason"`
}

// RosterCreated registers a team and every player it may use.
type RosterCreated struct {
	MatchID string        `json:"match_id"`
	Side    play.Side     `json:"side"`
	Team    string        `json:"team"`
	Players []play.Player `json:"players"`
}

// LineupEntryAdded fills the next batting slot.
type LineupEntryAdded struct {
	Slot     int           `json:"slot"`
	Player   play.Player   `json:"player"`
	Position play.Position `json:"position,omitempty"`
}

// PlayerSubstituted replaces the occupant of a batting slot.
type PlayerSubstituted struct {
	Slot       int           `json:"slot"`
	OutgoingID string        `json:"outgoing_id"`
	Incoming   play.Player   `json:"incoming"`
	Position   play.Position `json:"position,omitempty"`
	Inning     int           `json:"inning"`
	ReEntry    bool          `json:"re_entry,omitempty"`
}

// RosterRestored replaces the roster state with a previous snapshot.
type RosterRestored struct {
	State  json.RawMessage `json:"state"`
	Reason string          `json:"reason"`
}

// InningOpened starts the top of the first inning.
type InningOpened struct {
	MatchID string `json:"match_id"`
}

// RunnerAdvanced moves a runner (or the batter) to an occupiable base.
type RunnerAdvanced struct {
	RunnerID string    `json:"runner_id"`
	From     play.Base `json:"from"`
	To       play.Base `json:"to"`
}

// PlateAppearanceCompleted closes a plate appearance. Runners listed in
// Scored and PutOut leave the bases; outs grow by OutsRecorded.
type PlateAppearanceCompleted struct {
	BatterID     string       `json:"batter_id"`
	Side         play.Side    `json:"side"`
	Slot         int          `json:"slot"`
	Outcome      play.Outcome `json:"outcome"`
	OutsRecorded int          `json:"outs_recorded"`
	Runs         int          `json:"runs"`
	RBI          int          `json:"rbi"`
	Scored       []string     `json:"scored,omitempty"`
	PutOut       []string     `json:"put_out,omitempty"`
	NextSlot     int          `json:"next_slot"`
}

// HalfInningEnded resets outs and bases and hands the bat to the other side.
type HalfInningEnded struct {
	Inning int       `json:"inning"`
	Half   play.Half `json:"half"`
	Outs   int       `json:"outs"`
	Reason string    `json:"reason,omitempty"`
}

// RunnerSubstituted puts a pinch runner on the base held by OutgoingID.
type RunnerSubstituted struct {
	Base       play.Base `json:"base"`
	OutgoingID string    `json:"outgoing_id"`
	IncomingID string    `json:"incoming_id"`
}

// InningRestored replaces the inning state with a previous snapshot.
type InningRestored struct {
	State  json.RawMessage `json:"state"`
	Reason string          `json:"reason"`
}

func (MatchStarted) EventType() Type             { return TypeMatchStarted }
func (RunScored) EventType() Type                { return TypeRunScored }
func (MatchEnded) EventType() Type               { return TypeMatchEnded }
func (ScoreRestored) EventType() Type            { return TypeScoreRestored }
func (RosterCreated) EventType() Type            { return TypeRosterCreated }
func (LineupEntryAdded) EventType() Type         { return TypeLineupEntryAdded }
func (PlayerSubstituted) EventType() Type        { return TypePlayerSubstituted }
func (RosterRestored) EventType() Type           { return TypeRosterRestored }
func (InningOpened) EventType() Type             { return TypeInningOpened }
func (RunnerAdvanced) EventType() Type           { return TypeRunnerAdvanced }
func (PlateAppearanceCompleted) EventType() Type { return TypePlateAppearanceCompleted }
func (HalfInningEnded) EventType() Type          { return TypeHalfInningEnded }
func (RunnerSubstituted) EventType() Type        { return TypeRunnerSubstituted }
func (InningRestored) EventType() Type           { return TypeInningRestored }

func (MatchStarted) sealed()             {}
func (RunScored) sealed()                {}
func (MatchEnded) sealed()               {}
func (ScoreRestored) sealed()            {}
func (RosterCreated) sealed()            {}
func (LineupEntryAdded) sealed()         {}
func (PlayerSubstituted) sealed()        {}
func (RosterRestored) sealed()           {}
func (InningOpened) sealed()             {}
func (RunnerAdvanced) sealed()           {}
func (PlateAppearanceCompleted) sealed() {}
func (HalfInningEnded) sealed()          {}
func (RunnerSubstituted) sealed()        {}
func (InningRestored) sealed()           {}
