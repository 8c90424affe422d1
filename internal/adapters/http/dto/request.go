package dto

import (
	"strconv"
	"strings"

	"github.com/jsamuelsen11/scorebook/internal/domain"
	"github.com/jsamuelsen11/scorebook/internal/ports"
)

const msgPathMismatch = "must match the match id in the path"

// BindMatchID copies the path's match id into a command. A body that names
// a different match is rejected rather than silently overwritten.
func BindMatchID(pathID string, bodyID *string) error {
	if strings.TrimSpace(pathID) == "" {
		return domain.NewValidationError("match_id", domain.MsgRequired)
	}
	if *bodyID != "" && *bodyID != pathID {
		return domain.NewValidationError("match_id", msgPathMismatch)
	}
	*bodyID = pathID
	return nil
}

// HistoryRequest is the optional body of the undo and redo endpoints.
type HistoryRequest struct {
	CommandID string `json:"command_id,omitempty"`
	Limit     int    `json:"limit,omitempty"`
}

// UndoCommand builds the command for matchID.
func (r HistoryRequest) UndoCommand(matchID string) ports.UndoCommand {
	return ports.UndoCommand{CommandID: r.CommandID, MatchID: matchID, Limit: r.Limit}
}

// RedoCommand builds the command for matchID.
func (r HistoryRequest) RedoCommand(matchID string) ports.RedoCommand {
	return ports.RedoCommand{CommandID: r.CommandID, MatchID: matchID, Limit: r.Limit}
}

// ValidatePlan rejects plans that cannot start: no steps and no request
// to end the match leaves nothing to do.
func ValidatePlan(p *ports.MatchPlan) error {
	fields := map[string]string{}
	if len(p.Steps) == 0 && !p.EndMatch {
		fields["steps"] = domain.MsgRequired
	}
	for i, s := range p.Steps {
		if s.PlateAppearance == nil && !s.EndHalfInning && len(s.Substitutions) == 0 {
			fields[stepField(i)] = "must contain a plate appearance, substitutions or end_half_inning"
		}
	}
	if len(fields) > 0 {
		return &domain.ValidationError{Fields: fields}
	}
	return nil
}

func stepField(i int) string {
	return "steps[" + strconv.Itoa(i) + "]"
}
