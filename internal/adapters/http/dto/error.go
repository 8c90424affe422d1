package dto

import (
	"cmp"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"slices"

	"github.com/jsamuelsen11/scorebook/internal/domain"
	"github.com/jsamuelsen11/scorebook/internal/ports"
)

// ErrorResponse is an RFC 9457 problem document.
type ErrorResponse struct {
	Type     string        `json:"type"`
	Title    string        `json:"title"`
	Status   int           `json:"status"`
	Detail   string        `json:"detail,omitempty"`
	Instance string        `json:"instance,omitempty"`
	Errors   []ErrorDetail `json:"errors,omitempty"`
}

// ErrorDetail locates one invalid field of the request body.
type ErrorDetail struct {
	Location string `json:"location"`
	Message  string `json:"message"`
	Value    any    `json:"value,omitempty"`
}

// statusBySentinel is checked in order; the first sentinel the error wraps
// wins. Compensation failure comes first because it wraps the step error
// that caused the rollback.
var statusBySentinel = []struct {
	sentinel error
	status   int
}{
	{domain.ErrCompensationFailed, http.StatusInternalServerError},
	{domain.ErrValidation, http.StatusBadRequest},
	{domain.ErrUnauthenticated, http.StatusUnauthorized},
	{domain.ErrForbidden, http.StatusForbidden},
	{domain.ErrNotFound, http.StatusNotFound},
	{domain.ErrConflict, http.StatusConflict},
	{domain.ErrStateChangedSinceUndo, http.StatusConflict},
	{domain.ErrInvalidState, http.StatusUnprocessableEntity},
	{domain.ErrInvalidTransition, http.StatusUnprocessableEntity},
	{domain.ErrNothingToUndo, http.StatusUnprocessableEntity},
	{domain.ErrNothingToRedo, http.StatusUnprocessableEntity},
	{domain.ErrUnavailable, http.StatusBadGateway},
}

func statusFor(err error) int {
	for _, m := range statusBySentinel {
		if errors.Is(err, m.sentinel) {
			return m.status
		}
	}
	return http.StatusInternalServerError
}

// NewErrorResponse builds the problem document for err. Unmapped errors
// become a 500 whose detail says nothing about the cause.
func NewErrorResponse(r *http.Request, err error) ErrorResponse {
	status := statusFor(err)
	resp := ErrorResponse{
		Type:     "about:blank",
		Title:    http.StatusText(status),
		Status:   status,
		Detail:   "internal server error",
		Instance: r.URL.Path,
	}
	if status != http.StatusInternalServerError {
		resp.Detail = err.Error()
	}

	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		resp.Errors = make([]ErrorDetail, 0, len(verr.Fields))
		for field, msg := range verr.Fields {
			resp.Errors = append(resp.Errors, ErrorDetail{Location: "body." + field, Message: msg})
		}
		slices.SortFunc(resp.Errors, func(a, b ErrorDetail) int { return cmp.Compare(a.Location, b.Location) })
	}
	return resp
}

// WriteErrorResponse sends err as application/problem+json. Server-side
// failures are logged here since the client only sees the generic detail.
func WriteErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	resp := NewErrorResponse(r, err)
	if resp.Status == http.StatusInternalServerError {
		slog.ErrorContext(r.Context(), "request failed", slog.String("path", r.URL.Path), slog.Any("error", err))
	}

	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(resp.Status)
	if encErr := json.NewEncoder(w).Encode(resp); encErr != nil {
		slog.ErrorContext(r.Context(), "failed to encode error response", slog.Any("error", encErr))
	}
}

// ProblemStatus picks the status for a failed command result from its first
// problem; the rest travel in the body.
func ProblemStatus(problems []ports.Problem) int {
	if len(problems) == 0 {
		return http.StatusInternalServerError
	}
	if sentinel := problems[0].Kind.Sentinel(); sentinel != nil {
		return statusFor(sentinel)
	}
	return http.StatusInternalServerError
}
