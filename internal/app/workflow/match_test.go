package workflow

import (
	"context"
	"errors"
	"strconv"
	"testing"

	"github.com/stretchr/testify/mock"

	"github.com/jsamuelsen11/scorebook/internal/adapters/storage/memory"
	"github.com/jsamuelsen11/scorebook/internal/app"
	"github.com/jsamuelsen11/scorebook/internal/domain"
	"github.com/jsamuelsen11/scorebook/internal/domain/match"
	"github.com/jsamuelsen11/scorebook/internal/domain/play"
	"github.com/jsamuelsen11/scorebook/internal/domain/roster"
	"github.com/jsamuelsen11/scorebook/internal/ports"
	"github.com/jsamuelsen11/scorebook/mocks"
)

var fieldPositions = []play.Position{
	play.PositionPitcher, play.PositionCatcher, play.PositionFirstBase,
	play.PositionSecondBase, play.PositionThirdBase, play.PositionShortstop,
	play.PositionLeftField, play.PositionCenterField, play.PositionRightField,
}

func teamSheet(prefix, team string) ports.TeamSheet {
	s := ports.TeamSheet{Name: team}
	for i, pos := range fieldPositions {
		n := strconv.Itoa(i + 1)
		s.Lineup = append(s.Lineup, roster.LineupEntry{
			Player:   play.Player{ID: prefix + n, Name: team + " " + n, Jersey: n},
			Position: pos,
		})
	}
	s.Bench = []play.Player{{ID: prefix + "10", Name: team + " 10", Jersey: "10"}}
	return s
}

func newScorekeeper() *app.Scorekeeper {
	return app.NewScorekeeper(app.Stores{
		Matches: memory.NewMatchStore(),
		Rosters: memory.NewRosterStore(),
		Innings: memory.NewInningStore(),
		Events:  memory.NewEventLog(),
		History: memory.NewHistoryStore(0),
	}, nil)
}

// allowAll returns an identity source that authorizes user u-1.
func allowAll(t *testing.T) *mocks.MockIdentitySource {
	t.Helper()
	id := mocks.NewMockIdentitySource(t)
	id.EXPECT().CurrentUser(mock.Anything).Return(&ports.User{ID: "u-1"}, nil)
	id.EXPECT().HasPermission(mock.Anything, "u-1", ports.PermissionScoreMatch).Return(true, nil)
	return id
}

// quietNotifier accepts any notification.
func quietNotifier(t *testing.T) *mocks.MockNotifier {
	t.Helper()
	n := mocks.NewMockNotifier(t)
	n.EXPECT().NotifyMatchStarted(mock.Anything, mock.Anything).Return(nil).Maybe()
	n.EXPECT().NotifyScoreUpdate(mock.Anything, mock.Anything).Return(nil).Maybe()
	n.EXPECT().NotifyMatchEnded(mock.Anything, mock.Anything).Return(nil).Maybe()
	return n
}

func atBat(batter string, outcome play.Outcome) ports.WorkflowStep {
	return ports.WorkflowStep{PlateAppearance: &ports.RecordPlateAppearanceCommand{BatterID: batter, Outcome: outcome}}
}

func startCommand(innings int) ports.StartMatchCommand {
	return ports.StartMatchCommand{
		MatchID:          "m-1",
		Home:             teamSheet("h", "Hawks"),
		Away:             teamSheet("a", "Owls"),
		ScheduledInnings: innings,
	}
}

func newWorkflow(scorer ports.Scorekeeper, notifier ports.Notifier, identity ports.IdentitySource) *MatchWorkflow {
	return NewMatchWorkflow(scorer, notifier, identity, nil, WithSleeper(&recordingSleeper{}))
}

func TestMatchWorkflow_PlaysFullInning(t *testing.T) {
	t.Parallel()
	notifier := mocks.NewMockNotifier(t)
	notifier.EXPECT().NotifyMatchStarted(mock.Anything, mock.Anything).Return(nil).Once()
	notifier.EXPECT().NotifyScoreUpdate(mock.Anything, mock.Anything).
		Run(func(_ context.Context, n ports.MatchNotification) {
			if n.Score.Away != 1 {
				t.Errorf("score update = %+v, want away 1", n.Score)
			}
		}).Return(nil).Once()
	notifier.EXPECT().NotifyMatchEnded(mock.Anything, mock.Anything).Return(nil).Once()

	w := newWorkflow(newScorekeeper(), notifier, allowAll(t))

	res := w.Run(context.Background(), ports.MatchPlan{
		Start: startCommand(7),
		Steps: []ports.WorkflowStep{
			atBat("a1", play.OutcomeHomeRun),
			atBat("a2", play.OutcomeStrikeout),
			atBat("a3", play.OutcomeStrikeout),
			atBat("a4", play.OutcomeStrikeout),
			{
				PlateAppearance: &ports.RecordPlateAppearanceCommand{BatterID: "h1", Outcome: play.OutcomeSingle},
				Substitutions: []ports.SubstitutePlayerCommand{
					{Side: play.SideHome, Slot: 1, Incoming: play.Player{ID: "h10"}},
				},
			},
			atBat("h2", play.OutcomeStrikeout),
			atBat("h3", play.OutcomeStrikeout),
			atBat("h4", play.OutcomeStrikeout),
		},
		EndMatch:  true,
		EndReason: "rain",
	})

	if !res.Success {
		t.Fatalf("Run() problems = %+v", res.Errors)
	}
	if res.AtBatsProcessed != 8 || res.AtBatsSuccessful != 8 {
		t.Errorf("at bats = %d/%d, want 8/8", res.AtBatsSuccessful, res.AtBatsProcessed)
	}
	if res.Runs != 1 || res.Substitutions != 1 {
		t.Errorf("Runs = %d, Substitutions = %d, want 1 and 1", res.Runs, res.Substitutions)
	}
	if res.HalfInningsCompleted != 2 || res.InningsCompleted != 1 {
		t.Errorf("half innings = %d, innings = %d, want 2 and 1", res.HalfInningsCompleted, res.InningsCompleted)
	}
	if res.Attempts != 12 {
		t.Errorf("Attempts = %d, want one per retried command (12)", res.Attempts)
	}
	if !res.MatchEnded || res.State == nil || res.State.Match.Status != match.StatusCompleted {
		t.Errorf("MatchEnded = %v, state = %+v, want completed match", res.MatchEnded, res.State)
	}
}

func TestMatchWorkflow_EndsMatchWhenRegulationIsOver(t *testing.T) {
	t.Parallel()
	w := newWorkflow(newScorekeeper(), quietNotifier(t), allowAll(t))

	res := w.Run(context.Background(), ports.MatchPlan{
		Start: startCommand(1),
		Steps: []ports.WorkflowStep{
			atBat("a1", play.OutcomeHomeRun),
			atBat("a2", play.OutcomeStrikeout),
			atBat("a3", play.OutcomeStrikeout),
			atBat("a4", play.OutcomeStrikeout),
			atBat("h1", play.OutcomeStrikeout),
			atBat("h2", play.OutcomeStrikeout),
			atBat("h3", play.OutcomeStrikeout),
			atBat("h4", play.OutcomeStrikeout),
		},
	})

	if !res.Success {
		t.Fatalf("Run() problems = %+v", res.Errors)
	}
	if !res.MatchEnded || res.AtBatsProcessed != 7 {
		t.Errorf("MatchEnded = %v after %d at bats, want ended after 7", res.MatchEnded, res.AtBatsProcessed)
	}
}

func TestMatchWorkflow_WalkOffCompletesWithoutEndMatch(t *testing.T) {
	t.Parallel()
	w := newWorkflow(newScorekeeper(), quietNotifier(t), allowAll(t))

	res := w.Run(context.Background(), ports.MatchPlan{
		Start: startCommand(1),
		Steps: []ports.WorkflowStep{
			atBat("a1", play.OutcomeStrikeout),
			atBat("a2", play.OutcomeStrikeout),
			atBat("a3", play.OutcomeStrikeout),
			atBat("h1", play.OutcomeHomeRun),
			atBat("h2", play.OutcomeSingle),
		},
		EndMatch: true,
	})

	if !res.Success {
		t.Fatalf("Run() problems = %+v", res.Errors)
	}
	if !res.MatchEnded || res.State.Match.Status != match.StatusCompleted {
		t.Errorf("MatchEnded = %v, status = %s, want completed", res.MatchEnded, res.State.Match.Status)
	}
	if res.AtBatsProcessed != 4 || res.Runs != 1 {
		t.Errorf("at bats = %d, runs = %d, want 4 and 1", res.AtBatsProcessed, res.Runs)
	}
	if res.HalfInningsCompleted != 1 || res.InningsCompleted != 1 {
		t.Errorf("half innings = %d, innings = %d, want 1 and 1", res.HalfInningsCompleted, res.InningsCompleted)
	}
}

func TestMatchWorkflow_CountsInningDecidedInTopHalf(t *testing.T) {
	t.Parallel()
	w := newWorkflow(newScorekeeper(), quietNotifier(t), allowAll(t))

	res := w.Run(context.Background(), ports.MatchPlan{
		Start: startCommand(2),
		Steps: []ports.WorkflowStep{
			atBat("a1", play.OutcomeStrikeout),
			atBat("a2", play.OutcomeStrikeout),
			atBat("a3", play.OutcomeStrikeout),
			atBat("h1", play.OutcomeHomeRun),
			atBat("h2", play.OutcomeStrikeout),
			atBat("h3", play.OutcomeStrikeout),
			atBat("h4", play.OutcomeStrikeout),
			atBat("a4", play.OutcomeStrikeout),
			atBat("a5", play.OutcomeStrikeout),
			atBat("a6", play.OutcomeStrikeout),
		},
	})

	if !res.Success {
		t.Fatalf("Run() problems = %+v", res.Errors)
	}
	if !res.MatchEnded || res.State.Match.Status != match.StatusCompleted {
		t.Errorf("MatchEnded = %v, status = %s, want completed", res.MatchEnded, res.State.Match.Status)
	}
	if res.HalfInningsCompleted != 3 || res.InningsCompleted != 2 {
		t.Errorf("half innings = %d, innings = %d, want 3 and 2", res.HalfInningsCompleted, res.InningsCompleted)
	}
}

func TestMatchWorkflow_AbortCompensates(t *testing.T) {
	t.Parallel()
	w := newWorkflow(newScorekeeper(), quietNotifier(t), allowAll(t))

	res := w.Run(context.Background(), ports.MatchPlan{
		Start: startCommand(7),
		Steps: []ports.WorkflowStep{
			atBat("a1", play.OutcomeHomeRun),
			atBat("a5", play.OutcomeSingle),
			atBat("a2", play.OutcomeSingle),
		},
	})

	if res.Success {
		t.Fatal("Run() succeeded, want failure")
	}
	if res.Errors[0].Field != "steps[1].plate_appearance.batter_id" {
		t.Errorf("Errors = %+v, want batter_id problem on step 1", res.Errors)
	}
	if !res.CompensationAttempted || !res.Compensated {
		t.Errorf("compensation attempted = %v, applied = %v, want both", res.CompensationAttempted, res.Compensated)
	}
	if res.AtBatsProcessed != 2 || res.AtBatsSuccessful != 1 || res.Runs != 1 {
		t.Errorf("totals = %+v, want 2 processed, 1 successful, 1 run", res)
	}
	if res.State == nil || res.State.Match.Score.Away != 0 {
		t.Errorf("state after compensation = %+v, want the home run undone", res.State)
	}
}

func TestMatchWorkflow_ContinueOnFailure(t *testing.T) {
	t.Parallel()
	w := newWorkflow(newScorekeeper(), quietNotifier(t), allowAll(t))

	res := w.Run(context.Background(), ports.MatchPlan{
		Start: startCommand(7),
		Steps: []ports.WorkflowStep{
			atBat("a1", play.OutcomeHomeRun),
			atBat("a5", play.OutcomeSingle),
			atBat("a2", play.OutcomeSingle),
		},
		ContinueOnFailure: true,
	})

	if !res.Success || res.CompensationAttempted {
		t.Fatalf("Run() = %+v, want completed run without compensation", res)
	}
	if res.AtBatsProcessed != 3 || res.AtBatsSuccessful != 2 {
		t.Errorf("at bats = %d/%d, want 2/3", res.AtBatsSuccessful, res.AtBatsProcessed)
	}
	if len(res.Errors) == 0 || res.Errors[0].Field != "steps[1].plate_appearance.batter_id" {
		t.Errorf("Errors = %+v, want the failed step reported", res.Errors)
	}
	if res.State.Match.Score.Away != 1 || res.State.Inning.RunnerOn(play.BaseFirst) != "a2" {
		t.Error("state does not reflect the successful steps")
	}
}

func TestMatchWorkflow_ContinueOnFailureRunsRestOfStep(t *testing.T) {
	t.Parallel()
	w := newWorkflow(newScorekeeper(), quietNotifier(t), allowAll(t))

	res := w.Run(context.Background(), ports.MatchPlan{
		Start: startCommand(7),
		Steps: []ports.WorkflowStep{{
			PlateAppearance:  &ports.RecordPlateAppearanceCommand{BatterID: "a5", Outcome: play.OutcomeSingle},
			EndHalfInning:    true,
			HalfInningReason: "time limit",
			Substitutions: []ports.SubstitutePlayerCommand{
				{Side: play.SideHome, Slot: 1, Incoming: play.Player{ID: "h10"}},
			},
		}},
		ContinueOnFailure: true,
	})

	if !res.Success {
		t.Fatalf("Run() problems = %+v", res.Errors)
	}
	if len(res.Errors) != 1 || res.Errors[0].Field != "steps[0].plate_appearance.batter_id" {
		t.Errorf("Errors = %+v, want only the plate appearance reported", res.Errors)
	}
	if res.AtBatsSuccessful != 0 || res.HalfInningsCompleted != 1 || res.Substitutions != 1 {
		t.Errorf("totals = %+v, want the half-inning end and substitution applied", res)
	}
	if res.State.Inning.Half != play.HalfBottom || !res.State.Home.IsActive("h10") {
		t.Error("state does not reflect the rest of the step")
	}
}

func TestMatchWorkflow_SubstitutionBatchRollsBack(t *testing.T) {
	t.Parallel()
	w := newWorkflow(newScorekeeper(), quietNotifier(t), allowAll(t))

	res := w.Run(context.Background(), ports.MatchPlan{
		Start: startCommand(7),
		Steps: []ports.WorkflowStep{{
			PlateAppearance: &ports.RecordPlateAppearanceCommand{BatterID: "a1", Outcome: play.OutcomeSingle},
			Substitutions: []ports.SubstitutePlayerCommand{
				{Side: play.SideAway, Slot: 1, Incoming: play.Player{ID: "a10"}},
				{Side: play.SideAway, Slot: 2, Incoming: play.Player{ID: "a10"}},
			},
		}},
		ContinueOnFailure: true,
	})

	if res.Substitutions != 0 {
		t.Errorf("Substitutions = %d, want the applied one rolled back", res.Substitutions)
	}
	if len(res.Errors) == 0 || res.Errors[0].Field == "" {
		t.Errorf("Errors = %+v, want the batch failure reported", res.Errors)
	}
	if res.State.Away.IsActive("a10") || res.State.Inning.RunnerOn(play.BaseFirst) != "a1" {
		t.Error("substitution batch left a partial lineup change")
	}
}

func TestMatchWorkflow_Authorization(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		setup     func(id *mocks.MockIdentitySource)
		wantKind  ports.ProblemKind
		wantField string
	}{
		{
			name: "no user",
			setup: func(id *mocks.MockIdentitySource) {
				id.EXPECT().CurrentUser(mock.Anything).Return(nil, domain.ErrUnauthenticated)
			},
			wantKind:  ports.ProblemValidation,
			wantField: "user",
		},
		{
			name: "missing permission",
			setup: func(id *mocks.MockIdentitySource) {
				id.EXPECT().CurrentUser(mock.Anything).Return(&ports.User{ID: "u-2"}, nil)
				id.EXPECT().HasPermission(mock.Anything, "u-2", ports.PermissionScoreMatch).Return(false, nil)
			},
			wantKind: ports.ProblemForbidden,
		},
		{
			name: "identity source down",
			setup: func(id *mocks.MockIdentitySource) {
				id.EXPECT().CurrentUser(mock.Anything).Return(nil, errors.New("connection refused"))
			},
			wantKind: ports.ProblemInfrastructure,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			id := mocks.NewMockIdentitySource(t)
			tt.setup(id)
			scorer := mocks.NewMockScorekeeper(t)

			res := newWorkflow(scorer, nil, id).Run(context.Background(), ports.MatchPlan{Start: startCommand(7)})

			if res.Success || len(res.Errors) != 1 {
				t.Fatalf("Run() = %+v, want one problem", res)
			}
			if res.Errors[0].Kind != tt.wantKind || res.Errors[0].Field != tt.wantField {
				t.Errorf("problem = %+v, want kind %s field %q", res.Errors[0], tt.wantKind, tt.wantField)
			}
		})
	}
}

func TestMatchWorkflow_RetriesStartAndSwallowsNotifierErrors(t *testing.T) {
	t.Parallel()
	scorer := mocks.NewMockScorekeeper(t)
	scorer.EXPECT().StartMatch(mock.Anything, mock.Anything).
		Return(ports.StartMatchResult{Outcome: failWith(ports.ProblemUnavailable)}).Once()
	scorer.EXPECT().StartMatch(mock.Anything, mock.Anything).
		Return(ports.StartMatchResult{Outcome: ports.Succeed(), MatchID: "m-1"}).Once()
	scorer.EXPECT().MatchState(mock.Anything, "m-1").Return(&ports.MatchState{}, nil)

	notifier := mocks.NewMockNotifier(t)
	notifier.EXPECT().NotifyMatchStarted(mock.Anything, mock.Anything).Return(errors.New("redis down"))

	sleeper := &recordingSleeper{}
	w := NewMatchWorkflow(scorer, notifier, allowAll(t), nil, WithSleeper(sleeper))

	res := w.Run(context.Background(), ports.MatchPlan{Start: startCommand(7)})

	if !res.Success {
		t.Fatalf("Run() problems = %+v", res.Errors)
	}
	if res.Attempts != 2 || len(sleeper.delays) != 1 {
		t.Errorf("Attempts = %d, waits = %d, want 2 and 1", res.Attempts, len(sleeper.delays))
	}
}

func TestMatchWorkflow_StartExhaustsAttempts(t *testing.T) {
	t.Parallel()
	scorer := mocks.NewMockScorekeeper(t)
	scorer.EXPECT().StartMatch(mock.Anything, mock.Anything).
		Return(ports.StartMatchResult{Outcome: failWith(ports.ProblemInfrastructure)}).Times(2)

	res := newWorkflow(scorer, nil, allowAll(t)).Run(context.Background(), ports.MatchPlan{
		Start:       startCommand(7),
		MaxAttempts: 2,
	})

	if res.Success || res.Attempts != 2 {
		t.Fatalf("Run() = %+v, want failure after 2 attempts", res)
	}
	last := res.Errors[len(res.Errors)-1]
	if last.Message != "Operation failed after 2 attempts" || last.Field != "start" {
		t.Errorf("last problem = %+v, want exhaustion marker on start", last)
	}
}

func TestMatchWorkflow_DuplicateStartIsNotRetried(t *testing.T) {
	t.Parallel()
	sk := newScorekeeper()
	if first := sk.StartMatch(context.Background(), startCommand(7)); !first.Success {
		t.Fatalf("StartMatch() problems = %+v", first.Errors)
	}

	res := newWorkflow(sk, nil, allowAll(t)).Run(context.Background(), ports.MatchPlan{Start: startCommand(7)})

	if res.Success || res.Attempts != 1 {
		t.Fatalf("Run() = %+v, want one failed attempt", res)
	}
	if res.Errors[0].Kind != ports.ProblemValidation || res.Errors[0].Field != "start.match_id" {
		t.Errorf("problem = %+v, want validation on start.match_id", res.Errors[0])
	}
}

func TestMatchWorkflow_RejectsNegativeMaxAttempts(t *testing.T) {
	t.Parallel()
	res := newWorkflow(mocks.NewMockScorekeeper(t), nil, mocks.NewMockIdentitySource(t)).
		Run(context.Background(), ports.MatchPlan{MaxAttempts: -1})

	if res.Success || res.Errors[0].Field != "max_attempts" {
		t.Errorf("Run() = %+v, want max_attempts validation problem", res)
	}
}
