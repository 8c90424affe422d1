package ports

import (
	"github.com/jsamuelsen11/scorebook/internal/domain/play"
	"github.com/jsamuelsen11/scorebook/internal/domain/roster"
)

// Every command carries an optional CommandID. When empty, the handler
// assigns one; it becomes the causation id of the events the command raises.

// TeamSheet is one side's starting lineup and bench.
type TeamSheet struct {
	Name   string               `json:"name"`
	Lineup []roster.LineupEntry `json:"lineup"`
	Bench  []play.Player        `json:"bench,omitempty"`
}

// StartMatchCommand creates a match, both rosters and the inning state.
type StartMatchCommand struct {
	CommandID        string    `json:"command_id,omitempty"`
	MatchID          string    `json:"match_id,omitempty"`
	Home             TeamSheet `json:"home"`
	Away             TeamSheet `json:"away"`
	ScheduledInnings int       `json:"scheduled_innings,omitempty"`
}

// RecordPlateAppearanceCommand records one batter's turn. Advances list the
// runner movements explicitly; the batter's own advance may be omitted.
type RecordPlateAppearanceCommand struct {
	CommandID string         `json:"command_id,omitempty"`
	MatchID   string         `json:"match_id"`
	BatterID  string         `json:"batter_id"`
	Outcome   play.Outcome   `json:"outcome"`
	Advances  []play.Advance `json:"advances,omitempty"`
}

// SubstitutePlayerCommand replaces the occupant of a batting slot, or adds a
// slot when Slot is one past the end of the lineup.
type SubstitutePlayerCommand struct {
	CommandID string        `json:"command_id,omitempty"`
	MatchID   string        `json:"match_id"`
	Side      play.Side     `json:"side"`
	Slot      int           `json:"slot"`
	Incoming  play.Player   `json:"incoming"`
	Position  play.Position `json:"position,omitempty"`
}

// EndHalfInningCommand retires the batting side. Reason is required when
// fewer than three outs have been recorded.
type EndHalfInningCommand struct {
	CommandID string `json:"command_id,omitempty"`
	MatchID   string `json:"match_id"`
	Reason    string `json:"reason,omitempty"`
}

// EndMatchCommand completes a match.
type EndMatchCommand struct {
	CommandID string `json:"command_id,omitempty"`
	MatchID   string `json:"match_id"`
	Reason    string `json:"reason,omitempty"`
}

// UndoCommand reverts up to Limit actions. Zero means one.
type UndoCommand struct {
	CommandID string `json:"command_id,omitempty"`
	MatchID   string `json:"match_id"`
	Limit     int    `json:"limit,omitempty"`
}

// RedoCommand re-applies up to Limit undone actions. Zero means one.
type RedoCommand struct {
	CommandID string `json:"command_id,omitempty"`
	MatchID   string `json:"match_id"`
	Limit     int    `json:"limit,omitempty"`
}
