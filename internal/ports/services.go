package ports

import (
	"context"

	"github.com/jsamuelsen11/scorebook/internal/domain/event"
)

// Scorekeeper defines the service port for match scoring commands.
// Implemented by the application layer; called by inbound adapters and the
// workflow orchestrator. Mutating commands never return a Go error: failures
// are reported in the result's Outcome so callers can inspect problem kinds.
type Scorekeeper interface {
	// StartMatch creates the match, both rosters and the inning state.
	StartMatch(ctx context.Context, cmd StartMatchCommand) StartMatchResult

	// RecordPlateAppearance records one batter's turn and any runs it drove in.
	RecordPlateAppearance(ctx context.Context, cmd RecordPlateAppearanceCommand) PlateAppearanceResult

	// SubstitutePlayer changes a batting slot and, when the outgoing player
	// is on base, the runner on that base.
	SubstitutePlayer(ctx context.Context, cmd SubstitutePlayerCommand) SubstitutionResult

	// EndHalfInning retires the batting side.
	EndHalfInning(ctx context.Context, cmd EndHalfInningCommand) HalfInningResult

	// EndMatch completes the match.
	EndMatch(ctx context.Context, cmd EndMatchCommand) EndMatchResult

	// Undo reverts the most recent actions by appending restoration events.
	Undo(ctx context.Context, cmd UndoCommand) HistoryResult

	// Redo re-applies the most recently undone actions.
	Redo(ctx context.Context, cmd RedoCommand) HistoryResult

	// MatchState returns the current projection of every aggregate.
	// Returns domain.ErrNotFound if the match does not exist.
	MatchState(ctx context.Context, matchID string) (*MatchState, error)

	// MatchEvents returns the full log of a match, ordered by stream
	// (match, home, away, inning) and then by sequence.
	MatchEvents(ctx context.Context, matchID string) ([]event.Event, error)

	// VerifyMatch replays every stream of the match from empty state and
	// compares the result with the stored aggregates.
	VerifyMatch(ctx context.Context, matchID string) VerifyResult
}

// WorkflowStep is one plate appearance followed by any substitutions made
// before the next batter. EndHalfInning forces the half to end even with
// fewer than three outs; HalfInningReason then explains why.
type WorkflowStep struct {
	PlateAppearance  *RecordPlateAppearanceCommand `json:"plate_appearance,omitempty"`
	EndHalfInning    bool                          `json:"end_half_inning,omitempty"`
	HalfInningReason string                        `json:"half_inning_reason,omitempty"`
	Substitutions    []SubstitutePlayerCommand     `json:"substitutions,omitempty"`
}

// MatchPlan is the input of a match workflow. Match ids inside steps are
// filled in from the started match.
type MatchPlan struct {
	Start             StartMatchCommand `json:"start"`
	Steps             []WorkflowStep    `json:"steps"`
	EndMatch          bool              `json:"end_match,omitempty"`
	EndReason         string            `json:"end_reason,omitempty"`
	MaxAttempts       int               `json:"max_attempts,omitempty"`
	ContinueOnFailure bool              `json:"continue_on_failure,omitempty"`
}

// WorkflowResult totals a workflow run. Totals are reported even when the
// workflow fails part way.
type WorkflowResult struct {
	Outcome
	MatchID               string      `json:"match_id,omitempty"`
	Attempts              int         `json:"attempts"`
	AtBatsProcessed       int         `json:"at_bats_processed"`
	AtBatsSuccessful      int         `json:"at_bats_successful"`
	Runs                  int         `json:"runs"`
	Substitutions         int         `json:"substitutions"`
	HalfInningsCompleted  int         `json:"half_innings_completed"`
	InningsCompleted      int         `json:"innings_completed"`
	MatchEnded            bool        `json:"match_ended"`
	CompensationAttempted bool        `json:"compensation_attempted"`
	Compensated           bool        `json:"compensated"`
	State                 *MatchState `json:"state,omitempty"`
}

// MatchWorkflow runs a scripted sequence of scoring commands.
type MatchWorkflow interface {
	Run(ctx context.Context, plan MatchPlan) WorkflowResult
}
