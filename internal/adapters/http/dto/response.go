// Package dto provides HTTP request/response data transfer objects and
// RFC 9457 Problem Details error responses for the inbound HTTP adapter layer.
//
// Command results are written as their own JSON documents. They already
// carry success and a problem list, and the workflow totals are useful even
// when a run fails.
package dto

import (
	"net/http"

	"github.com/jsamuelsen11/scorebook/internal/domain/event"
	"github.com/jsamuelsen11/scorebook/internal/ports"
)

// ResultStatus returns okStatus for a successful result and the problem
// status otherwise.
func ResultStatus(r interface {
	Succeeded() bool
	Problems() []ports.Problem
}, okStatus int,
) int {
	if r.Succeeded() {
		return okStatus
	}
	return ProblemStatus(r.Problems())
}

// EventListResponse is the full log of one match.
type EventListResponse struct {
	MatchID string        `json:"match_id"`
	Events  []event.Event `json:"events"`
	Count   int           `json:"count"`
}

// ToEventListResponse wraps events; a nil slice is returned as [].
func ToEventListResponse(matchID string, events []event.Event) EventListResponse {
	if events == nil {
		events = []event.Event{}
	}
	return EventListResponse{MatchID: matchID, Events: events, Count: len(events)}
}

// VerifyStatus is 200 for a consistent replay, 409 when stored state and
// the log disagree, and the problem status when verification failed.
func VerifyStatus(res ports.VerifyResult) int {
	switch {
	case !res.Success:
		return ProblemStatus(res.Errors)
	case !res.Consistent:
		return http.StatusConflict
	default:
		return http.StatusOK
	}
}
