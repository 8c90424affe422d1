package handlers

import (
	"net/http"

	"github.com/jsamuelsen11/scorebook/internal/adapters/http/dto"
	"github.com/jsamuelsen11/scorebook/internal/ports"
)

// WorkflowHandler runs scripted matches.
type WorkflowHandler struct {
	workflow ports.MatchWorkflow
}

// NewWorkflowHandler creates a new WorkflowHandler with the given workflow port.
func NewWorkflowHandler(workflow ports.MatchWorkflow) *WorkflowHandler {
	return &WorkflowHandler{workflow: workflow}
}

// RunMatch handles POST /api/v1/workflows/matches. The totals are returned
// even when the run fails part way.
func (h *WorkflowHandler) RunMatch(w http.ResponseWriter, r *http.Request) {
	var plan ports.MatchPlan
	if !decodeJSONBody(w, r, &plan) {
		return
	}
	if err := dto.ValidatePlan(&plan); err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	writeResult(w, r, h.workflow.Run(r.Context(), plan), http.StatusOK)
}
