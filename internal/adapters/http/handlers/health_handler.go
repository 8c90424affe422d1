package handlers

import (
	"net/http"
	"time"

	"github.com/jsamuelsen11/scorebook/internal/ports"
)

const (
	statusOK       = "ok"
	statusReady    = "ready"
	statusNotReady = "not_ready"
)

type healthResponse struct {
	Status    string            `json:"status"`
	CheckedAt time.Time         `json:"checked_at"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// HealthHandler serves the probe endpoints used by the orchestrator.
type HealthHandler struct {
	registry ports.HealthRegistry
	now      func() time.Time
}

func NewHealthHandler(registry ports.HealthRegistry) *HealthHandler {
	return &HealthHandler{registry: registry, now: time.Now}
}

// Liveness reports that the process is serving requests. It never touches
// the stores or the notification sinks.
func (h *HealthHandler) Liveness(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Cache-Control", "no-store")
	writeJSON(w, http.StatusOK, healthResponse{Status: statusOK, CheckedAt: h.now().UTC()})
}

// Readiness runs every registered dependency check. Any failure turns the
// response into a 503 so the instance is taken out of rotation until the
// event store and sinks recover.
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{
		Status:    statusReady,
		CheckedAt: h.now().UTC(),
		Checks:    map[string]string{},
	}

	code := http.StatusOK
	for name, err := range h.registry.CheckAll(r.Context()) {
		if err == nil {
			resp.Checks[name] = statusOK
			continue
		}
		resp.Checks[name] = err.Error()
		resp.Status = statusNotReady
		code = http.StatusServiceUnavailable
	}

	w.Header().Set("Cache-Control", "no-store")
	writeJSON(w, code, resp)
}
