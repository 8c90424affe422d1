package http_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/mock"

	adapthttp "github.com/jsamuelsen11/scorebook/internal/adapters/http"
	"github.com/jsamuelsen11/scorebook/internal/adapters/http/dto"
	"github.com/jsamuelsen11/scorebook/internal/adapters/http/handlers"
	"github.com/jsamuelsen11/scorebook/internal/ports"
	"github.com/jsamuelsen11/scorebook/mocks"
)

type testDeps struct {
	scorekeeper *mocks.MockScorekeeper
	workflow    *mocks.MockMatchWorkflow
	registry    *mocks.MockHealthRegistry
}

func newTestRouter(t *testing.T, middlewares ...func(http.Handler) http.Handler) (http.Handler, testDeps) {
	t.Helper()
	deps := testDeps{
		scorekeeper: mocks.NewMockScorekeeper(t),
		workflow:    mocks.NewMockMatchWorkflow(t),
		registry:    mocks.NewMockHealthRegistry(t),
	}

	router := adapthttp.NewRouter(
		handlers.NewMatchHandler(deps.scorekeeper),
		handlers.NewWorkflowHandler(deps.workflow),
		handlers.NewHealthHandler(deps.registry),
		middlewares...,
	)
	return router, deps
}

func TestRouter_AllRoutesRegistered(t *testing.T) {
	t.Parallel()

	router, _ := newTestRouter(t)

	expectedRoutes := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/health/live"},
		{http.MethodGet, "/health/ready"},
		{http.MethodPost, "/api/v1/matches"},
		{http.MethodGet, "/api/v1/matches/{matchID}/"},
		{http.MethodGet, "/api/v1/matches/{matchID}/events"},
		{http.MethodGet, "/api/v1/matches/{matchID}/verify"},
		{http.MethodPost, "/api/v1/matches/{matchID}/plate-appearances"},
		{http.MethodPost, "/api/v1/matches/{matchID}/substitutions"},
		{http.MethodPost, "/api/v1/matches/{matchID}/half-innings/end"},
		{http.MethodPost, "/api/v1/matches/{matchID}/end"},
		{http.MethodPost, "/api/v1/matches/{matchID}/undo"},
		{http.MethodPost, "/api/v1/matches/{matchID}/redo"},
		{http.MethodPost, "/api/v1/workflows/matches"},
	}

	chiRouter, ok := router.(*chi.Mux)
	if !ok {
		t.Fatal("router is not *chi.Mux")
	}

	registered := make(map[string]bool)
	err := chi.Walk(chiRouter, func(method, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		registered[method+" "+route] = true
		return nil
	})
	if err != nil {
		t.Fatalf("chi.Walk error: %v", err)
	}

	for _, expected := range expectedRoutes {
		key := expected.method + " " + expected.path
		if !registered[key] {
			t.Errorf("route %s not registered", key)
		}
	}
}

func TestRouter_MiddlewareApplied(t *testing.T) {
	t.Parallel()

	called := false
	testMW := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			called = true
			next.ServeHTTP(w, r)
		})
	}

	router, deps := newTestRouter(t, testMW)
	deps.registry.EXPECT().CheckAll(mock.Anything).Return(map[string]error{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

	if !called {
		t.Error("middleware was not called")
	}
}

func TestRouter_IntegrationGetMatch(t *testing.T) {
	t.Parallel()

	router, deps := newTestRouter(t)
	deps.scorekeeper.EXPECT().MatchState(mock.Anything, "m-7").Return(&ports.MatchState{}, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/matches/m-7", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}
}

func TestRouter_IntegrationUndoUsesPathID(t *testing.T) {
	t.Parallel()

	router, deps := newTestRouter(t)
	deps.scorekeeper.EXPECT().Undo(mock.Anything, ports.UndoCommand{MatchID: "m-7", Limit: 2}).
		Return(ports.HistoryResult{Outcome: ports.Succeed(), Processed: 2})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/matches/m-7/undo", strings.NewReader(`{"limit":2}`))
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d; body = %s", rec.Code, http.StatusOK, rec.Body.String())
	}
}

func TestRouter_NotFoundReturnsProblem(t *testing.T) {
	t.Parallel()

	router, _ := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nonexistent", nil))

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/problem+json" {
		t.Errorf("Content-Type = %q", ct)
	}
}

func TestRouter_MethodNotAllowed(t *testing.T) {
	t.Parallel()

	router, _ := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/api/v1/matches", nil))

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusMethodNotAllowed)
	}
	var body dto.ErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if body.Status != http.StatusMethodNotAllowed || !strings.Contains(body.Detail, "PUT") {
		t.Errorf("body = %+v", body)
	}
}
