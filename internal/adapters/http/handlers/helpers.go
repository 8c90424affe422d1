package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jsamuelsen11/scorebook/internal/adapters/http/dto"
	"github.com/jsamuelsen11/scorebook/internal/domain"
	"github.com/jsamuelsen11/scorebook/internal/ports"
)

// matchIDParam is the chi URL parameter holding the match id.
const matchIDParam = "matchID"

// commandResult is satisfied by every command result through its embedded
// ports.Outcome.
type commandResult interface {
	Succeeded() bool
	Problems() []ports.Problem
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", slog.Any("error", err))
	}
}

// writeResult writes a command result with okStatus on success and the
// status of its first problem otherwise.
func writeResult(w http.ResponseWriter, r *http.Request, res commandResult, okStatus int) {
	status := dto.ResultStatus(res, okStatus)
	if status >= http.StatusInternalServerError {
		slog.ErrorContext(r.Context(), "command failed",
			slog.String("path", r.URL.Path),
			slog.Any("problems", res.Problems()),
		)
	}
	writeJSON(w, status, res)
}

// maxJSONBodyBytes is the maximum allowed size for a JSON request body (1 MB).
const maxJSONBodyBytes = 1 << 20

// decodeJSONBody decodes the request body as JSON into dst. The body is
// limited to maxJSONBodyBytes to prevent resource exhaustion. On failure,
// it writes a 400 error response and returns false.
func decodeJSONBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	return decode(w, r, dst, false)
}

// decodeOptionalJSONBody is decodeJSONBody for endpoints whose body may be
// omitted. An empty body leaves dst untouched.
func decodeOptionalJSONBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	return decode(w, r, dst, true)
}

func decode(w http.ResponseWriter, r *http.Request, dst any, optional bool) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBodyBytes)
	err := json.NewDecoder(r.Body).Decode(dst)
	if err == nil || (optional && errors.Is(err, io.EOF)) {
		return true
	}
	dto.WriteErrorResponse(w, r, &domain.ValidationError{
		Fields: map[string]string{"body": "invalid JSON"},
	})
	return false
}

// decodeMatchCommand decodes a command body and binds the path's match id
// into it. On failure it writes an error response and returns false.
func decodeMatchCommand(w http.ResponseWriter, r *http.Request, dst any, matchID *string) bool {
	if !decodeJSONBody(w, r, dst) {
		return false
	}
	if err := dto.BindMatchID(chi.URLParam(r, matchIDParam), matchID); err != nil {
		dto.WriteErrorResponse(w, r, err)
		return false
	}
	return true
}
