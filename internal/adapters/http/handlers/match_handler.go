package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jsamuelsen11/scorebook/internal/adapters/http/dto"
	"github.com/jsamuelsen11/scorebook/internal/ports"
)

// MatchHandler handles HTTP requests for scoring a single match.
type MatchHandler struct {
	scorekeeper ports.Scorekeeper
}

// NewMatchHandler creates a new MatchHandler with the given service port.
func NewMatchHandler(scorekeeper ports.Scorekeeper) *MatchHandler {
	return &MatchHandler{scorekeeper: scorekeeper}
}

// StartMatch handles POST /api/v1/matches.
func (h *MatchHandler) StartMatch(w http.ResponseWriter, r *http.Request) {
	var cmd ports.StartMatchCommand
	if !decodeJSONBody(w, r, &cmd) {
		return
	}

	res := h.scorekeeper.StartMatch(r.Context(), cmd)
	if res.Success {
		w.Header().Set("Location", "/api/v1/matches/"+res.MatchID)
	}
	writeResult(w, r, res, http.StatusCreated)
}

// GetMatch handles GET /api/v1/matches/{matchID}.
func (h *MatchHandler) GetMatch(w http.ResponseWriter, r *http.Request) {
	state, err := h.scorekeeper.MatchState(r.Context(), chi.URLParam(r, matchIDParam))
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, state)
}

// ListEvents handles GET /api/v1/matches/{matchID}/events.
func (h *MatchHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	matchID := chi.URLParam(r, matchIDParam)

	events, err := h.scorekeeper.MatchEvents(r.Context(), matchID)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToEventListResponse(matchID, events))
}

// VerifyMatch handles GET /api/v1/matches/{matchID}/verify.
func (h *MatchHandler) VerifyMatch(w http.ResponseWriter, r *http.Request) {
	res := h.scorekeeper.VerifyMatch(r.Context(), chi.URLParam(r, matchIDParam))
	writeJSON(w, dto.VerifyStatus(res), res)
}

// RecordPlateAppearance handles POST /api/v1/matches/{matchID}/plate-appearances.
func (h *MatchHandler) RecordPlateAppearance(w http.ResponseWriter, r *http.Request) {
	var cmd ports.RecordPlateAppearanceCommand
	if !decodeMatchCommand(w, r, &cmd, &cmd.MatchID) {
		return
	}

	writeResult(w, r, h.scorekeeper.RecordPlateAppearance(r.Context(), cmd), http.StatusOK)
}

// SubstitutePlayer handles POST /api/v1/matches/{matchID}/substitutions.
func (h *MatchHandler) SubstitutePlayer(w http.ResponseWriter, r *http.Request) {
	var cmd ports.SubstitutePlayerCommand
	if !decodeMatchCommand(w, r, &cmd, &cmd.MatchID) {
		return
	}

	writeResult(w, r, h.scorekeeper.SubstitutePlayer(r.Context(), cmd), http.StatusOK)
}

// EndHalfInning handles POST /api/v1/matches/{matchID}/half-innings/end.
func (h *MatchHandler) EndHalfInning(w http.ResponseWriter, r *http.Request) {
	var cmd ports.EndHalfInningCommand
	if !decodeMatchCommand(w, r, &cmd, &cmd.MatchID) {
		return
	}

	writeResult(w, r, h.scorekeeper.EndHalfInning(r.Context(), cmd), http.StatusOK)
}

// EndMatch handles POST /api/v1/matches/{matchID}/end.
func (h *MatchHandler) EndMatch(w http.ResponseWriter, r *http.Request) {
	var cmd ports.EndMatchCommand
	if !decodeMatchCommand(w, r, &cmd, &cmd.MatchID) {
		return
	}

	writeResult(w, r, h.scorekeeper.EndMatch(r.Context(), cmd), http.StatusOK)
}

// Undo handles POST /api/v1/matches/{matchID}/undo. The body is optional.
func (h *MatchHandler) Undo(w http.ResponseWriter, r *http.Request) {
	var req dto.HistoryRequest
	if !decodeOptionalJSONBody(w, r, &req) {
		return
	}

	res := h.scorekeeper.Undo(r.Context(), req.UndoCommand(chi.URLParam(r, matchIDParam)))
	writeResult(w, r, res, http.StatusOK)
}

// Redo handles POST /api/v1/matches/{matchID}/redo. The body is optional.
func (h *MatchHandler) Redo(w http.ResponseWriter, r *http.Request) {
	var req dto.HistoryRequest
	if !decodeOptionalJSONBody(w, r, &req) {
		return
	}

	res := h.scorekeeper.Redo(r.Context(), req.RedoCommand(chi.URLParam(r, matchIDParam)))
	writeResult(w, r, res, http.StatusOK)
}
