package dto_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jsamuelsen11/scorebook/internal/adapters/http/dto"
	"github.com/jsamuelsen11/scorebook/internal/domain"
	"github.com/jsamuelsen11/scorebook/internal/ports"
)

func TestNewErrorResponse_StatusMapping(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err        error
		wantStatus int
	}{
		{err: domain.NewValidationError("home.name", domain.MsgRequired), wantStatus: http.StatusBadRequest},
		{err: domain.ErrUnauthenticated, wantStatus: http.StatusUnauthorized},
		{err: domain.ErrForbidden, wantStatus: http.StatusForbidden},
		{err: domain.ErrNotFound, wantStatus: http.StatusNotFound},
		{err: domain.ErrConflict, wantStatus: http.StatusConflict},
		{err: domain.ErrStateChangedSinceUndo, wantStatus: http.StatusConflict},
		{err: domain.ErrInvalidState, wantStatus: http.StatusUnprocessableEntity},
		{err: domain.ErrInvalidTransition, wantStatus: http.StatusUnprocessableEntity},
		{err: domain.ErrNothingToUndo, wantStatus: http.StatusUnprocessableEntity},
		{err: domain.ErrNothingToRedo, wantStatus: http.StatusUnprocessableEntity},
		{err: domain.ErrUnavailable, wantStatus: http.StatusBadGateway},
		{err: fmt.Errorf("rollback: %w", domain.ErrCompensationFailed), wantStatus: http.StatusInternalServerError},
		{err: errors.New("disk on fire"), wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			t.Parallel()
			req := httptest.NewRequest(http.MethodGet, "/api/v1/matches/m-1", http.NoBody)

			resp := dto.NewErrorResponse(req, tt.err)

			if resp.Status != tt.wantStatus || resp.Title != http.StatusText(tt.wantStatus) {
				t.Errorf("NewErrorResponse() = %d %q, want %d", resp.Status, resp.Title, tt.wantStatus)
			}
			if resp.Instance != "/api/v1/matches/m-1" || resp.Type != "about:blank" {
				t.Errorf("instance/type = %q/%q", resp.Instance, resp.Type)
			}
		})
	}
}

func TestNewErrorResponse_HidesInternalDetail(t *testing.T) {
	t.Parallel()
	req := httptest.NewRequest(http.MethodGet, "/", http.NoBody)

	resp := dto.NewErrorResponse(req, errors.New("sqlite: database is locked at /var/lib/x.db"))

	if resp.Detail != "internal server error" {
		t.Errorf("Detail = %q, want a generic message", resp.Detail)
	}
}

func TestNewErrorResponse_ValidationDetails(t *testing.T) {
	t.Parallel()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/matches", http.NoBody)

	resp := dto.NewErrorResponse(req, &domain.ValidationError{Fields: map[string]string{
		"home.name": domain.MsgRequired,
		"away.name": domain.MsgRequired,
	}})

	if len(resp.Errors) != 2 {
		t.Fatalf("Errors = %+v, want 2 entries", resp.Errors)
	}
	if resp.Errors[0].Location != "body.away.name" || resp.Errors[1].Location != "body.home.name" {
		t.Errorf("Errors = %+v, want sorted body locations", resp.Errors)
	}
}

func TestWriteErrorResponse(t *testing.T) {
	t.Parallel()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/matches/m-1/undo", http.NoBody)

	dto.WriteErrorResponse(rec, req, fmt.Errorf("match m-1: %w", domain.ErrNothingToUndo))

	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want 422", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/problem+json" {
		t.Errorf("Content-Type = %q", ct)
	}
	var body dto.ErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if body.Detail != "match m-1: nothing to undo" {
		t.Errorf("Detail = %q", body.Detail)
	}
}

func TestProblemStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		kinds []ports.ProblemKind
		want  int
	}{
		{kinds: nil, want: http.StatusInternalServerError},
		{kinds: []ports.ProblemKind{ports.ProblemValidation, ports.ProblemNotFound}, want: http.StatusBadRequest},
		{kinds: []ports.ProblemKind{ports.ProblemInvalidTransition}, want: http.StatusUnprocessableEntity},
		{kinds: []ports.ProblemKind{ports.ProblemStateChanged}, want: http.StatusConflict},
		{kinds: []ports.ProblemKind{ports.ProblemUnauthenticated}, want: http.StatusUnauthorized},
		{kinds: []ports.ProblemKind{ports.ProblemUnavailable}, want: http.StatusBadGateway},
		{kinds: []ports.ProblemKind{ports.ProblemInfrastructure}, want: http.StatusInternalServerError},
		{kinds: []ports.ProblemKind{ports.ProblemCompensationFailed}, want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		problems := make([]ports.Problem, 0, len(tt.kinds))
		for _, k := range tt.kinds {
			problems = append(problems, ports.Problem{Kind: k, Message: string(k)})
		}
		if got := dto.ProblemStatus(problems); got != tt.want {
			t.Errorf("ProblemStatus(%v) = %d, want %d", tt.kinds, got, tt.want)
		}
	}
}
