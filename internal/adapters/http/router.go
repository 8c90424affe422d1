// Package http provides the inbound HTTP adapter including routing and server lifecycle.
package http

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jsamuelsen11/scorebook/internal/adapters/http/dto"
	"github.com/jsamuelsen11/scorebook/internal/adapters/http/handlers"
	"github.com/jsamuelsen11/scorebook/internal/domain"
)

// NewRouter creates an HTTP handler with all application routes registered.
// Middleware is applied globally in the order given.
func NewRouter(
	matchHandler *handlers.MatchHandler,
	workflowHandler *handlers.WorkflowHandler,
	healthHandler *handlers.HealthHandler,
	middlewares ...func(http.Handler) http.Handler,
) http.Handler {
	r := chi.NewRouter()

	for _, mw := range middlewares {
		r.Use(mw)
	}

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		dto.WriteErrorResponse(w, req, fmt.Errorf("route %s: %w", req.URL.Path, domain.ErrNotFound))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		resp := dto.ErrorResponse{
			Type:     "about:blank",
			Title:    http.StatusText(http.StatusMethodNotAllowed),
			Status:   http.StatusMethodNotAllowed,
			Detail:   req.Method + " is not supported on " + req.URL.Path,
			Instance: req.RequestURI,
		}
		w.Header().Set("Content-Type", "application/problem+json")
		w.WriteHeader(resp.Status)
		_ = json.NewEncoder(w).Encode(resp)
	})

	// Health endpoints (outside /api/v1 prefix).
	r.Get("/health/live", healthHandler.Liveness)
	r.Get("/health/ready", healthHandler.Readiness)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/matches", matchHandler.StartMatch)

		r.Route("/matches/{matchID}", func(r chi.Router) {
			// Queries.
			r.Get("/", matchHandler.GetMatch)
			r.Get("/events", matchHandler.ListEvents)
			r.Get("/verify", matchHandler.VerifyMatch)

			// Scoring commands.
			r.Post("/plate-appearances", matchHandler.RecordPlateAppearance)
			r.Post("/substitutions", matchHandler.SubstitutePlayer)
			r.Post("/half-innings/end", matchHandler.EndHalfInning)
			r.Post("/end", matchHandler.EndMatch)

			// History.
			r.Post("/undo", matchHandler.Undo)
			r.Post("/redo", matchHandler.Redo)
		})

		r.Post("/workflows/matches", workflowHandler.RunMatch)
	})

	return r
}
