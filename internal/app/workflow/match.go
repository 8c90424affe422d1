package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/jsamuelsen11/scorebook/internal/domain"
	"github.com/jsamuelsen11/scorebook/internal/domain/play"
	"github.com/jsamuelsen11/scorebook/internal/platform/logging"
	"github.com/jsamuelsen11/scorebook/internal/platform/telemetry"
	"github.com/jsamuelsen11/scorebook/internal/ports"
)

// Compile-time check that MatchWorkflow implements ports.MatchWorkflow.
var _ ports.MatchWorkflow = (*MatchWorkflow)(nil)

// Notification kinds, used in logs.
const (
	notifyStarted = "match_started"
	notifyScore   = "score_update"
	notifyEnded   = "match_ended"
)

// Option configures a MatchWorkflow.
type Option func(*MatchWorkflow)

// WithPolicy replaces DefaultPolicy. MatchPlan.MaxAttempts still overrides
// the policy's attempt count for a single run.
func WithPolicy(p Policy) Option {
	return func(w *MatchWorkflow) { w.retrier.Policy = p }
}

// WithSleeper replaces the real timer used between retry attempts.
func WithSleeper(s Sleeper) Option {
	return func(w *MatchWorkflow) { w.retrier.Sleeper = s }
}

// WithMetrics counts retry attempts per operation.
func WithMetrics(m *telemetry.Metrics) Option {
	return func(w *MatchWorkflow) { w.retrier.Metrics = m }
}

// WithClock replaces time.Now for notification timestamps.
func WithClock(now func() time.Time) Option {
	return func(w *MatchWorkflow) { w.now = now }
}

// WithIDGenerator replaces the generator used for match ids the plan omits.
func WithIDGenerator(newID func() string) Option {
	return func(w *MatchWorkflow) { w.newID = newID }
}

// MatchWorkflow runs a MatchPlan against a Scorekeeper: start the match,
// play every step, end the match, and keep subscribers informed.
//
// Each command is retried on infrastructure failures. When a command still
// fails and the plan does not continue on failure, the workflow stops and
// undoes every undoable action it recorded. Notification failures are
// logged and never fail the workflow.
type MatchWorkflow struct {
	scorer   ports.Scorekeeper
	notifier ports.Notifier
	identity ports.IdentitySource

	logger  *slog.Logger
	tracer  trace.Tracer
	retrier Retrier
	now     func() time.Time
	newID   func() string
}

// NewMatchWorkflow creates a workflow. A nil notifier disables
// notifications; a nil logger discards output.
func NewMatchWorkflow(scorer ports.Scorekeeper, notifier ports.Notifier, identity ports.IdentitySource, logger *slog.Logger, opts ...Option) *MatchWorkflow {
	logger = logging.OrDiscard(logger)
	w := &MatchWorkflow{
		scorer:   scorer,
		notifier: notifier,
		identity: identity,
		logger:   logger,
		tracer:   otel.Tracer(telemetry.InstrumentationName),
		retrier:  Retrier{Policy: DefaultPolicy(), Sleeper: TimerSleeper{}},
		now:      time.Now,
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run executes plan. Totals are filled in even when the run fails part way.
func (w *MatchWorkflow) Run(ctx context.Context, plan ports.MatchPlan) (res ports.WorkflowResult) {
	ctx = logging.WithLogger(ctx, w.logger)
	ctx, span := w.tracer.Start(ctx, "MatchWorkflow.Run")
	defer span.End()

	defer func() {
		if rec := recover(); rec != nil {
			w.logger.ErrorContext(ctx, "panic recovered in match workflow",
				slog.String("operation", "MatchWorkflow.Run"),
				slog.String("match_id", res.MatchID),
				slog.Any("panic", rec),
				slog.String("stack", string(debug.Stack())),
			)
			res.Success = false
			res.Errors = append(res.Errors, ports.Problem{Kind: ports.ProblemInternal, Message: "internal error"})
		}
		if !res.Success {
			span.SetStatus(codes.Error, "workflow failed")
		}
	}()

	if plan.MaxAttempts < 0 {
		res.Outcome = ports.Fail(domain.NewValidationError("max_attempts", "must not be negative"))
		return res
	}
	rt := w.retrier
	if plan.MaxAttempts > 0 {
		rt.Policy.MaxAttempts = plan.MaxAttempts
	}

	if err := w.authorize(ctx); err != nil {
		res.Outcome = ports.Fail(err)
		w.logger.WarnContext(ctx, "match workflow not authorized",
			slog.String("operation", "MatchWorkflow.Run"),
			slog.Any("error", err),
		)
		return res
	}

	start := plan.Start
	if strings.TrimSpace(start.MatchID) == "" {
		start.MatchID = w.newID()
	}
	res.MatchID = start.MatchID
	ctx = logging.With(ctx, slog.String("match_id", res.MatchID))
	span.SetAttributes(attribute.String("scorebook.match_id", res.MatchID))

	started := Retry(ctx, rt, "StartMatch", func(ctx context.Context) ports.StartMatchResult {
		return w.scorer.StartMatch(ctx, start)
	})
	res.Attempts += started.Attempts
	if !started.Success {
		res.Outcome = ports.Outcome{Errors: prefixProblems("start", started.Errors)}
		return res
	}
	w.notify(ctx, notifyStarted, w.notification(started.Result.State, ""))

	r := &run{w: w, plan: plan, rt: rt, res: &res}
	played := WithCompensation(ctx, "MatchWorkflow.play", r.play, r.compensate)

	res.Success = played.Success
	res.Errors = append(r.failures, played.Errors...)
	res.CompensationAttempted = played.Attempted
	res.Compensated = played.Compensated

	if st, err := w.scorer.MatchState(ctx, res.MatchID); err == nil {
		res.State = st
	} else {
		w.logger.WarnContext(ctx, "loading final match state",
			slog.String("operation", "MatchWorkflow.Run"),
			slog.Any("error", err),
		)
	}

	w.logger.InfoContext(ctx, "match workflow finished",
		slog.Bool("success", res.Success),
		slog.Int("attempts", res.Attempts),
		slog.Int("at_bats_processed", res.AtBatsProcessed),
		slog.Int("at_bats_successful", res.AtBatsSuccessful),
		slog.Int("runs", res.Runs),
		slog.Int("substitutions", res.Substitutions),
		slog.Int("innings_completed", res.InningsCompleted),
		slog.Bool("match_ended", res.MatchEnded),
		slog.Bool("compensated", res.Compensated),
	)
	return res
}

// authorize checks that a user is attached to ctx and may score matches.
// A missing user is a validation problem rather than an infrastructure one.
func (w *MatchWorkflow) authorize(ctx context.Context) error {
	if w.identity == nil {
		return domain.NewValidationError("user", "no identity source configured")
	}

	user, err := w.identity.CurrentUser(ctx)
	if err != nil && !errors.Is(err, domain.ErrUnauthenticated) {
		return fmt.Errorf("resolving current user: %w", err)
	}
	if user == nil || user.ID == "" {
		return domain.NewValidationError("user", "no authenticated user")
	}

	ok, err := w.identity.HasPermission(ctx, user.ID, ports.PermissionScoreMatch)
	if err != nil {
		return fmt.Errorf("checking permission for %s: %w", user.ID, err)
	}
	if !ok {
		return fmt.Errorf("%w: user %s lacks %s", domain.ErrForbidden, user.ID, ports.PermissionScoreMatch)
	}
	return nil
}

// notify delivers n and logs delivery failures.
func (w *MatchWorkflow) notify(ctx context.Context, kind string, n ports.MatchNotification) {
	if w.notifier == nil {
		return
	}

	var err error
	switch kind {
	case notifyStarted:
		err = w.notifier.NotifyMatchStarted(ctx, n)
	case notifyScore:
		err = w.notifier.NotifyScoreUpdate(ctx, n)
	case notifyEnded:
		err = w.notifier.NotifyMatchEnded(ctx, n)
	}
	if err != nil {
		logging.FromContext(ctx).WarnContext(ctx, "notification failed",
			slog.String("operation", "MatchWorkflow.notify"),
			slog.String("notification", kind),
			slog.String("match_id", n.MatchID),
			slog.Any("error", err),
		)
	}
}

func (w *MatchWorkflow) notification(st *ports.MatchState, reason string) ports.MatchNotification {
	n := ports.MatchNotification{Reason: reason, At: w.now().UTC()}
	if st == nil || st.Match == nil {
		return n
	}
	n.MatchID = st.Match.ID
	n.HomeTeam = st.Match.HomeTeam
	n.AwayTeam = st.Match.AwayTeam
	n.Status = st.Match.Status
	n.Score = st.Match.Score
	if st.Inning != nil {
		n.Inning = st.Inning.Number
		n.Half = st.Inning.Half
	}
	return n
}

// run is the mutable state of one Run call after the match has started.
type run struct {
	w    *MatchWorkflow
	plan ports.MatchPlan
	rt   Retrier
	res  *ports.WorkflowResult

	// recorded counts undoable actions that are currently applied.
	recorded  int
	failures  []ports.Problem
	matchOver bool
	// completed is set when a scorekeeper command already ended the match.
	completed bool
	endReason string
}

// play runs every step and ends the match. It returns a failed outcome
// only for failures that abort the run.
func (r *run) play(ctx context.Context) ports.Outcome {
	for i, step := range r.plan.Steps {
		if err := ctx.Err(); err != nil {
			return ports.Fail(fmt.Errorf("before step %d: %w", i, err))
		}
		if problems := r.step(ctx, i, step); problems != nil {
			return ports.Outcome{Errors: problems}
		}
		if r.matchOver {
			if skipped := len(r.plan.Steps) - i - 1; skipped > 0 {
				logging.FromContext(ctx).InfoContext(ctx, "match over, skipping remaining steps",
					slog.String("operation", "MatchWorkflow.play"),
					slog.Int("skipped", skipped),
					slog.String("reason", r.endReason),
				)
			}
			break
		}
	}

	if r.plan.EndMatch || r.matchOver {
		if problems := r.endMatch(ctx); problems != nil {
			return ports.Outcome{Errors: problems}
		}
	}
	return ports.Succeed()
}

// step runs one plate appearance, the half-inning end it signals and the
// step's substitutions. It returns the problems that abort the run.
func (r *run) step(ctx context.Context, i int, step ports.WorkflowStep) []ports.Problem {
	prefix := fmt.Sprintf("steps[%d]", i)
	halfOver := step.EndHalfInning

	if step.PlateAppearance != nil {
		cmd := *step.PlateAppearance
		cmd.MatchID = r.res.MatchID

		r.res.AtBatsProcessed++
		pa := Retry(ctx, r.rt, "RecordPlateAppearance", func(ctx context.Context) ports.PlateAppearanceResult {
			return r.w.scorer.RecordPlateAppearance(ctx, cmd)
		})
		r.res.Attempts += pa.Attempts
		if pa.Success {
			r.playedPlateAppearance(ctx, pa.Result)
			halfOver = halfOver || pa.Result.HalfInningEnded
		} else if problems := r.failed(ctx, prefix+".plate_appearance", pa.Errors); problems != nil {
			return problems
		}
	}

	if halfOver && !r.matchOver {
		cmd := ports.EndHalfInningCommand{MatchID: r.res.MatchID, Reason: step.HalfInningReason}
		half := Retry(ctx, r.rt, "EndHalfInning", func(ctx context.Context) ports.HalfInningResult {
			return r.w.scorer.EndHalfInning(ctx, cmd)
		})
		r.res.Attempts += half.Attempts
		if half.Success {
			r.endedHalfInning(half.Result)
		} else if problems := r.failed(ctx, prefix+".end_half_inning", half.Errors); problems != nil {
			return problems
		}
	}

	if len(step.Substitutions) > 0 && !r.matchOver {
		return r.substitute(ctx, prefix+".substitutions", step.Substitutions)
	}
	return nil
}

// playedPlateAppearance folds a recorded plate appearance into the totals.
// A walk-off has already completed the match, so it is neither undoable nor
// ended again.
func (r *run) playedPlateAppearance(ctx context.Context, pa ports.PlateAppearanceResult) {
	r.res.AtBatsSuccessful++
	r.res.Runs += pa.RunsScored
	if pa.RunsScored > 0 {
		r.w.notify(ctx, notifyScore, r.w.notification(pa.State, ""))
	}
	if !pa.MatchEnded {
		r.recorded++
		return
	}
	r.matchOver, r.completed, r.endReason = true, true, "walk-off"
	r.res.InningsCompleted++
}

// endedHalfInning folds a retired half-inning into the totals. An inning is
// complete after its bottom half, or after its top half when that decides
// the match.
func (r *run) endedHalfInning(half ports.HalfInningResult) {
	r.recorded++
	r.res.HalfInningsCompleted++
	if half.Half == play.HalfTop || half.MatchEnded {
		r.res.InningsCompleted++
	}
	if half.MatchEnded {
		r.matchOver, r.endReason = true, "regulation complete"
	}
}

// substitute applies subs as a transactional batch. When one is rejected
// the ones before it are undone.
func (r *run) substitute(ctx context.Context, field string, subs []ports.SubstitutePlayerCommand) []ports.Problem {
	undone := 0
	ops := make([]BatchOp[ports.SubstitutionResult], 0, len(subs))
	for j, sub := range subs {
		sub.MatchID = r.res.MatchID
		ops = append(ops, BatchOp[ports.SubstitutionResult]{
			Name: fmt.Sprintf("substitution %d", j),
			Run: func(ctx context.Context) ports.SubstitutionResult {
				return r.w.scorer.SubstitutePlayer(ctx, sub)
			},
			Rollback: func(ctx context.Context, _ ports.SubstitutionResult) error {
				u := r.w.scorer.Undo(ctx, ports.UndoCommand{MatchID: r.res.MatchID, Limit: 1})
				if err := u.Err(); err != nil {
					return err
				}
				undone++
				return nil
			},
		})
	}

	batch := RunBatch(ctx, "MatchWorkflow.substitute", ops)
	applied := len(batch.Results) - undone
	r.recorded += applied
	r.res.Substitutions += applied
	if !batch.Success {
		return r.failed(ctx, field, batch.Errors)
	}
	return nil
}

func (r *run) endMatch(ctx context.Context) []ports.Problem {
	reason := r.plan.EndReason
	if reason == "" {
		reason = r.endReason
	}
	if r.completed {
		r.res.MatchEnded = true
		st, err := r.w.scorer.MatchState(ctx, r.res.MatchID)
		if err != nil {
			logging.FromContext(ctx).WarnContext(ctx, "loading completed match state",
				slog.String("operation", "MatchWorkflow.endMatch"),
				slog.Any("error", err),
			)
		}
		r.w.notify(ctx, notifyEnded, r.w.notification(st, r.endReason))
		return nil
	}
	cmd := ports.EndMatchCommand{MatchID: r.res.MatchID, Reason: reason}

	ended := Retry(ctx, r.rt, "EndMatch", func(ctx context.Context) ports.EndMatchResult {
		return r.w.scorer.EndMatch(ctx, cmd)
	})
	r.res.Attempts += ended.Attempts
	if !ended.Success {
		return r.failed(ctx, "end_match", ended.Errors)
	}

	r.res.MatchEnded = true
	r.w.notify(ctx, notifyEnded, r.w.notification(ended.Result.State, reason))
	return nil
}

// failed prefixes problems with field. With ContinueOnFailure the problems
// are kept for the final result and nil is returned so the run goes on.
func (r *run) failed(ctx context.Context, field string, problems []ports.Problem) []ports.Problem {
	problems = prefixProblems(field, problems)
	if !r.plan.ContinueOnFailure {
		return problems
	}

	logging.FromContext(ctx).WarnContext(ctx, "workflow step failed, continuing",
		slog.String("operation", "MatchWorkflow.play"),
		slog.String("step", field),
		slog.Any("problems", problems),
	)
	r.failures = append(r.failures, problems...)
	return nil
}

// compensate undoes every action the run recorded. It runs detached from
// ctx cancellation so an abort caused by a cancelled caller still reverts.
func (r *run) compensate(ctx context.Context, _ ports.Outcome) error {
	if r.recorded == 0 {
		return nil
	}
	ctx = context.WithoutCancel(ctx)

	u := r.w.scorer.Undo(ctx, ports.UndoCommand{MatchID: r.res.MatchID, Limit: r.recorded})
	if err := u.Err(); err != nil {
		return fmt.Errorf("undoing %d actions: %w", r.recorded, err)
	}
	if u.Processed < r.recorded {
		return fmt.Errorf("undid %d of %d actions", u.Processed, r.recorded)
	}
	r.recorded = 0
	return nil
}

func prefixProblems(field string, problems []ports.Problem) []ports.Problem {
	out := make([]ports.Problem, 0, len(problems))
	for _, p := range problems {
		if p.Field == "" {
			p.Field = field
		} else {
			p.Field = field + "." + p.Field
		}
		out = append(out, p)
	}
	return out
}
