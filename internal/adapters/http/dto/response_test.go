package dto_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/jsamuelsen11/scorebook/internal/adapters/http/dto"
	"github.com/jsamuelsen11/scorebook/internal/ports"
)

func TestResultStatus(t *testing.T) {
	t.Parallel()

	ok := ports.PlateAppearanceResult{Outcome: ports.Succeed()}
	if got := dto.ResultStatus(ok, http.StatusOK); got != http.StatusOK {
		t.Errorf("ResultStatus(success) = %d, want 200", got)
	}

	failed := ports.StartMatchResult{Outcome: ports.Outcome{Errors: []ports.Problem{{Kind: ports.ProblemConflict}}}}
	if got := dto.ResultStatus(failed, http.StatusCreated); got != http.StatusConflict {
		t.Errorf("ResultStatus(conflict) = %d, want 409", got)
	}
}

func TestVerifyStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		res  ports.VerifyResult
		want int
	}{
		{res: ports.VerifyResult{Outcome: ports.Succeed(), Consistent: true}, want: http.StatusOK},
		{res: ports.VerifyResult{Outcome: ports.Succeed()}, want: http.StatusConflict},
		{res: ports.VerifyResult{Outcome: ports.Outcome{Errors: []ports.Problem{{Kind: ports.ProblemNotFound}}}}, want: http.StatusNotFound},
	}
	for _, tt := range tests {
		if got := dto.VerifyStatus(tt.res); got != tt.want {
			t.Errorf("VerifyStatus(%+v) = %d, want %d", tt.res, got, tt.want)
		}
	}
}

func TestToEventListResponse_EmptyIsArray(t *testing.T) {
	t.Parallel()

	b, err := json.Marshal(dto.ToEventListResponse("m-1", nil))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `{"match_id":"m-1","events":[],"count":0}` {
		t.Errorf("body = %s", b)
	}
}
