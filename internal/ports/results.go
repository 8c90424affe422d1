package ports

import (
	"errors"
	"fmt"
	"slices"

	"github.com/jsamuelsen11/scorebook/internal/domain"
	"github.com/jsamuelsen11/scorebook/internal/domain/inning"
	"github.com/jsamuelsen11/scorebook/internal/domain/match"
	"github.com/jsamuelsen11/scorebook/internal/domain/play"
	"github.com/jsamuelsen11/scorebook/internal/domain/roster"
	"github.com/jsamuelsen11/scorebook/internal/domain/undo"
)

// ProblemKind classifies a failure reported in a result.
type ProblemKind string

const (
	ProblemValidation         ProblemKind = "validation"
	ProblemNotFound           ProblemKind = "not_found"
	ProblemInvalidState       ProblemKind = "invalid_state"
	ProblemInvalidTransition  ProblemKind = "invalid_transition"
	ProblemConflict           ProblemKind = "conflict"
	ProblemForbidden          ProblemKind = "forbidden"
	ProblemUnauthenticated    ProblemKind = "unauthenticated"
	ProblemNothingToUndo      ProblemKind = "nothing_to_undo"
	ProblemNothingToRedo      ProblemKind = "nothing_to_redo"
	ProblemStateChanged       ProblemKind = "state_changed"
	ProblemCompensationFailed ProblemKind = "compensation_failed"
	ProblemUnavailable        ProblemKind = "unavailable"
	ProblemInfrastructure     ProblemKind = "infrastructure"
	ProblemInternal           ProblemKind = "internal"
)

// kindSentinels maps each kind to the sentinel it is derived from. Order
// matters: the first match wins in ProblemsFromError.
var kindSentinels = []struct {
	kind ProblemKind
	err  error
}{
	{ProblemCompensationFailed, domain.ErrCompensationFailed},
	{ProblemValidation, domain.ErrValidation},
	{ProblemNotFound, domain.ErrNotFound},
	{ProblemInvalidState, domain.ErrInvalidState},
	{ProblemInvalidTransition, domain.ErrInvalidTransition},
	{ProblemConflict, domain.ErrConflict},
	{ProblemForbidden, domain.ErrForbidden},
	{ProblemUnauthenticated, domain.ErrUnauthenticated},
	{ProblemNothingToUndo, domain.ErrNothingToUndo},
	{ProblemNothingToRedo, domain.ErrNothingToRedo},
	{ProblemStateChanged, domain.ErrStateChangedSinceUndo},
	{ProblemUnavailable, domain.ErrUnavailable},
}

// Sentinel returns the domain error a kind corresponds to, or nil for
// infrastructure and internal problems.
func (k ProblemKind) Sentinel() error {
	for _, ks := range kindSentinels {
		if ks.kind == k {
			return ks.err
		}
	}
	return nil
}

// Retryable reports whether repeating the same command could succeed.
// Rule violations and missing data are final; storage failures are not.
func (k ProblemKind) Retryable() bool {
	switch k {
	case ProblemConflict, ProblemUnavailable, ProblemInfrastructure, ProblemInternal:
		return true
	default:
		return false
	}
}

// Problem is one failure reported by a handler.
type Problem struct {
	Kind    ProblemKind `json:"kind"`
	Field   string      `json:"field,omitempty"`
	Message string      `json:"message"`
}

// ProblemsFromError converts an error returned by the domain or an adapter
// into result problems. Validation errors produce one problem per field.
func ProblemsFromError(err error) []Problem {
	if err == nil {
		return nil
	}

	var ve *domain.ValidationError
	if errors.As(err, &ve) && len(ve.Fields) > 0 {
		fields := make([]string, 0, len(ve.Fields))
		for f := range ve.Fields {
			fields = append(fields, f)
		}
		slices.Sort(fields)

		problems := make([]Problem, 0, len(fields))
		for _, f := range fields {
			problems = append(problems, Problem{Kind: ProblemValidation, Field: f, Message: ve.Fields[f]})
		}
		return problems
	}

	for _, ks := range kindSentinels {
		if errors.Is(err, ks.err) {
			return []Problem{{Kind: ks.kind, Message: err.Error()}}
		}
	}
	return []Problem{{Kind: ProblemInfrastructure, Message: err.Error()}}
}

// Outcome is the success flag and problem list every command result carries.
type Outcome struct {
	Success bool      `json:"success"`
	Errors  []Problem `json:"errors,omitempty"`
}

// Succeeded reports whether the command completed.
func (o Outcome) Succeeded() bool { return o.Success }

// Problems returns the reported failures.
func (o Outcome) Problems() []Problem { return o.Errors }

// Err rebuilds an error from the problems so callers can use errors.Is.
// It returns nil for a successful outcome.
func (o Outcome) Err() error {
	if o.Success {
		return nil
	}
	if len(o.Errors) == 0 {
		return errors.New("command failed")
	}

	errs := make([]error, 0, len(o.Errors))
	for _, p := range o.Errors {
		msg := p.Message
		if p.Field != "" {
			msg = p.Field + ": " + msg
		}
		if sentinel := p.Kind.Sentinel(); sentinel != nil {
			errs = append(errs, fmt.Errorf("%w: %s", sentinel, msg))
		} else {
			errs = append(errs, errors.New(msg))
		}
	}
	return errors.Join(errs...)
}

// Succeed returns a successful outcome.
func Succeed() Outcome { return Outcome{Success: true} }

// Fail returns a failed outcome built from err.
func Fail(err error) Outcome {
	return Outcome{Errors: ProblemsFromError(err)}
}

// MatchState is a snapshot of every aggregate of one match.
type MatchState struct {
	Match  *match.Match   `json:"match"`
	Inning *inning.Inning `json:"inning"`
	Home   *roster.Roster `json:"home"`
	Away   *roster.Roster `json:"away"`
}

// StartMatchResult is returned by StartMatch.
type StartMatchResult struct {
	Outcome
	MatchID string      `json:"match_id,omitempty"`
	Events  int         `json:"events"`
	State   *MatchState `json:"state,omitempty"`
}

// PlateAppearanceResult is returned by RecordPlateAppearance.
type PlateAppearanceResult struct {
	Outcome
	ActionID        string      `json:"action_id,omitempty"`
	RunsScored      int         `json:"runs_scored"`
	RBI             int         `json:"rbi"`
	Outs            int         `json:"outs"`
	HalfInningEnded bool        `json:"half_inning_ended"`
	MatchEnded      bool        `json:"match_ended"`
	Events          int         `json:"events"`
	State           *MatchState `json:"state,omitempty"`
}

// SubstitutionResult is returned by SubstitutePlayer.
type SubstitutionResult struct {
	Outcome
	ActionID       string      `json:"action_id,omitempty"`
	Slot           int         `json:"slot"`
	OutgoingID     string      `json:"outgoing_id,omitempty"`
	RunnerReplaced bool        `json:"runner_replaced"`
	Events         int         `json:"events"`
	State          *MatchState `json:"state,omitempty"`
}

// HalfInningResult is returned by EndHalfInning. Inning and Half describe the
// half now at bat.
type HalfInningResult struct {
	Outcome
	ActionID   string      `json:"action_id,omitempty"`
	Inning     int         `json:"inning"`
	Half       play.Half   `json:"half"`
	MatchEnded bool        `json:"match_ended"`
	Events     int         `json:"events"`
	State      *MatchState `json:"state,omitempty"`
}

// EndMatchResult is returned by EndMatch.
type EndMatchResult struct {
	Outcome
	Score  match.Score `json:"score"`
	Events int         `json:"events"`
	State  *MatchState `json:"state,omitempty"`
}

// HistoryResult is returned by Undo and Redo.
type HistoryResult struct {
	Outcome
	Processed       int         `json:"processed"`
	Kinds           []undo.Kind `json:"kinds,omitempty"`
	EventsGenerated int         `json:"events_generated"`
	CanUndo         bool        `json:"can_undo"`
	CanRedo         bool        `json:"can_redo"`
	State           *MatchState `json:"state,omitempty"`
}

// VerifyResult is returned by VerifyMatch. Streams maps each stream id to
// the number of events replayed from it.
type VerifyResult struct {
	Outcome
	Streams    map[string]int `json:"streams,omitempty"`
	Consistent bool           `json:"consistent"`
}
