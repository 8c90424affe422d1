// Package app provides application services that orchestrate use cases by
// coordinating between domain logic and infrastructure through port interfaces.
//
// Scorekeeper implements the scoring commands. Every mutating command follows
// the same protocol: validate the command shape, load the aggregates, check
// the match status, run the aggregate operations, persist (save every mutated
// aggregate, then append every stream) and record the undoable action.
package app

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"runtime/debug"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	appctx "github.com/jsamuelsen11/scorebook/internal/app/context"
	"github.com/jsamuelsen11/scorebook/internal/domain"
	"github.com/jsamuelsen11/scorebook/internal/domain/event"
	"github.com/jsamuelsen11/scorebook/internal/domain/inning"
	"github.com/jsamuelsen11/scorebook/internal/domain/match"
	"github.com/jsamuelsen11/scorebook/internal/domain/play"
	"github.com/jsamuelsen11/scorebook/internal/domain/roster"
	"github.com/jsamuelsen11/scorebook/internal/domain/undo"
	"github.com/jsamuelsen11/scorebook/internal/platform/logging"
	"github.com/jsamuelsen11/scorebook/internal/platform/telemetry"
	"github.com/jsamuelsen11/scorebook/internal/ports"
)

// walkOffReason is the end reason recorded when the home side wins in its
// last at bat.
const walkOffReason = "walk-off"

// Compile-time check that Scorekeeper implements ports.Scorekeeper.
var _ ports.Scorekeeper = (*Scorekeeper)(nil)

// Stores groups the persistence ports the Scorekeeper writes through.
type Stores struct {
	Matches ports.MatchStore
	Rosters ports.RosterStore
	Innings ports.InningStore
	Events  ports.EventLog
	History ports.HistoryStore
}

// Option configures a Scorekeeper.
type Option func(*Scorekeeper)

// WithMetrics records command counters and durations.
func WithMetrics(m *telemetry.Metrics) Option {
	return func(s *Scorekeeper) { s.metrics = m }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Scorekeeper) { s.now = now }
}

// WithIDGenerator replaces the UUID generator used for match, command and
// event ids.
func WithIDGenerator(newID func() string) Option {
	return func(s *Scorekeeper) { s.newID = newID }
}

// WithHistoryLimit bounds the undo stack of every match.
func WithHistoryLimit(n int) Option {
	return func(s *Scorekeeper) { s.historyLimit = n }
}

// WithDefaultInnings sets the match length used when StartMatch omits it.
func WithDefaultInnings(n int) Option {
	return func(s *Scorekeeper) { s.defaultInnings = n }
}

// Scorekeeper implements ports.Scorekeeper.
type Scorekeeper struct {
	matches ports.MatchStore
	rosters ports.RosterStore
	innings ports.InningStore
	events  ports.EventLog
	history ports.HistoryStore

	logger  *slog.Logger
	metrics *telemetry.Metrics
	tracer  trace.Tracer

	now            func() time.Time
	newID          func() string
	historyLimit   int
	defaultInnings int
}

// NewScorekeeper creates a Scorekeeper writing through stores. A nil logger
// discards output.
func NewScorekeeper(stores Stores, logger *slog.Logger, opts ...Option) *Scorekeeper {
	logger = logging.OrDiscard(logger)
	s := &Scorekeeper{
		matches:        stores.Matches,
		rosters:        stores.Rosters,
		innings:        stores.Innings,
		events:         stores.Events,
		history:        stores.History,
		logger:         logger,
		tracer:         otel.Tracer(telemetry.InstrumentationName),
		now:            time.Now,
		newID:          uuid.NewString,
		historyLimit:   undo.DefaultCapacity,
		defaultInnings: match.DefaultScheduledInnings,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// StartMatch creates the match, both rosters and the inning state.
func (s *Scorekeeper) StartMatch(ctx context.Context, cmd ports.StartMatchCommand) (res ports.StartMatchResult) {
	ctx, end := s.observe(ctx, "StartMatch", cmd.MatchID)
	defer func() { end(recover(), &res.Outcome) }()

	matchID := strings.TrimSpace(cmd.MatchID)
	if matchID == "" {
		matchID = s.newID()
	}
	causation := s.commandID(cmd.CommandID)

	exists, err := s.matches.Exists(ctx, matchID)
	if err != nil {
		res.Outcome = ports.Fail(fmt.Errorf("checking match %s: %w", matchID, err))
		return res
	}
	if exists {
		res.Outcome = ports.Fail(domain.NewValidationError("match_id", domain.MsgAlreadyExists))
		return res
	}

	innings := cmd.ScheduledInnings
	if innings == 0 {
		innings = s.defaultInnings
	}

	st := &matchState{
		match:  match.New(matchID),
		home:   roster.New(matchID, play.SideHome),
		away:   roster.New(matchID, play.SideAway),
		inning: inning.New(matchID),
	}
	err = joinValidation(
		st.match.Start(cmd.Home.Name, cmd.Away.Name, innings, s.now()),
		prefixFields("home", st.home.Create(cmd.Home.Name, cmd.Home.Lineup, cmd.Home.Bench)),
		prefixFields("away", st.away.Create(cmd.Away.Name, cmd.Away.Lineup, cmd.Away.Bench)),
	)
	if err != nil {
		res.Outcome = ports.Fail(err)
		return res
	}
	if err := st.inning.Open(); err != nil {
		res.Outcome = ports.Fail(err)
		return res
	}

	u := s.newUnit(appctx.New(ctx), causation)
	s.trackAll(u, nil, st)
	if err := u.commit(ctx); err != nil {
		res.Outcome = s.persistFailed(ctx, "StartMatch", matchID, err)
		return res
	}

	s.logger.InfoContext(ctx, "match started",
		slog.String("match_id", matchID),
		slog.String("home_team", st.match.HomeTeam),
		slog.String("away_team", st.match.AwayTeam),
	)

	res.Outcome = ports.Succeed()
	res.MatchID = matchID
	res.Events = len(u.events)
	res.State = st.snapshot()
	return res
}

// RecordPlateAppearance records one batter's turn.
func (s *Scorekeeper) RecordPlateAppearance(ctx context.Context, cmd ports.RecordPlateAppearanceCommand) (res ports.PlateAppearanceResult) {
	ctx, end := s.observe(ctx, "RecordPlateAppearance", cmd.MatchID)
	defer func() { end(recover(), &res.Outcome) }()

	if err := validatePlateAppearance(cmd); err != nil {
		res.Outcome = ports.Fail(err)
		return res
	}
	causation := s.commandID(cmd.CommandID)

	cc := appctx.New(ctx)
	st, err := s.loadInProgress(cc, cmd.MatchID)
	if err != nil {
		res.Outcome = ports.Fail(err)
		return res
	}
	before := st.clone()

	side := st.inning.BattingSide()
	lineup := st.roster(side)
	slot := st.inning.NextSlot.For(side)
	if due, _ := lineup.Occupant(slot); due != cmd.BatterID {
		res.Outcome = ports.Fail(domain.NewValidationError("batter_id",
			fmt.Sprintf("%s bats in slot %d and is due up", due, slot)))
		return res
	}

	number, half := st.inning.Number, st.inning.Half
	p, err := st.inning.RecordPlateAppearance(inning.PlateAppearance{
		BatterID:   cmd.BatterID,
		Slot:       slot,
		LineupSize: lineup.Size(),
		Outcome:    cmd.Outcome,
		Advances:   cmd.Advances,
	})
	if err != nil {
		res.Outcome = ports.Fail(err)
		return res
	}
	for _, runner := range p.Scored {
		if err := st.match.ScoreRun(side, runner, cmd.BatterID, number, half); err != nil {
			res.Outcome = ports.Fail(err)
			return res
		}
	}
	walkOff := p.Runs > 0 && st.match.WalkOff(number, half)
	if walkOff {
		if err := st.match.End(walkOffReason, s.now()); err != nil {
			res.Outcome = ports.Fail(err)
			return res
		}
	}

	u := s.newUnit(cc, causation)
	s.trackAll(u, before, st)
	if err := u.commit(ctx); err != nil {
		res.Outcome = s.persistFailed(ctx, "RecordPlateAppearance", cmd.MatchID, err)
		return res
	}
	// Completion cannot be undone, so the winning plate appearance stays
	// out of the history.
	if walkOff {
		s.logger.InfoContext(ctx, "match ended",
			slog.String("match_id", cmd.MatchID),
			slog.String("reason", walkOffReason),
			slog.Int("home", st.match.Score.Home),
			slog.Int("away", st.match.Score.Away),
		)
	} else {
		s.recordAction(ctx, undo.KindPlateAppearance, causation, cmd.MatchID, cmd, u.events, before, st)
	}

	res.Outcome = ports.Succeed()
	res.ActionID = causation
	res.RunsScored = p.Runs
	res.RBI = p.RBI
	res.Outs = p.Outs
	res.HalfInningEnded = p.HalfOver
	res.MatchEnded = walkOff
	res.Events = len(u.events)
	res.State = st.snapshot()
	return res
}

// SubstitutePlayer changes a batting slot. When the outgoing player is on
// base, the incoming player takes their place there.
func (s *Scorekeeper) SubstitutePlayer(ctx context.Context, cmd ports.SubstitutePlayerCommand) (res ports.SubstitutionResult) {
	ctx, end := s.observe(ctx, "SubstitutePlayer", cmd.MatchID)
	defer func() { end(recover(), &res.Outcome) }()

	if err := validateSubstitution(cmd); err != nil {
		res.Outcome = ports.Fail(err)
		return res
	}
	causation := s.commandID(cmd.CommandID)

	cc := appctx.New(ctx)
	st, err := s.loadInProgress(cc, cmd.MatchID)
	if err != nil {
		res.Outcome = ports.Fail(err)
		return res
	}
	before := st.clone()

	r := st.roster(cmd.Side)
	outgoing, _ := r.Occupant(cmd.Slot)
	if err := r.Substitute(cmd.Slot, cmd.Incoming, cmd.Position, st.inning.Number); err != nil {
		res.Outcome = ports.Fail(err)
		return res
	}

	replaced := false
	if outgoing != "" && cmd.Side == st.inning.BattingSide() {
		replaced, err = st.inning.ReplaceRunner(outgoing, cmd.Incoming.ID)
		if err != nil {
			res.Outcome = ports.Fail(err)
			return res
		}
	}

	u := s.newUnit(cc, causation)
	s.trackAll(u, before, st)
	if err := u.commit(ctx); err != nil {
		res.Outcome = s.persistFailed(ctx, "SubstitutePlayer", cmd.MatchID, err)
		return res
	}
	s.recordAction(ctx, undo.KindSubstitution, causation, cmd.MatchID, cmd, u.events, before, st)

	res.Outcome = ports.Succeed()
	res.ActionID = causation
	res.Slot = cmd.Slot
	res.OutgoingID = outgoing
	res.RunnerReplaced = replaced
	res.Events = len(u.events)
	res.State = st.snapshot()
	return res
}

// EndHalfInning retires the batting side and reports whether regulation play
// is over.
func (s *Scorekeeper) EndHalfInning(ctx context.Context, cmd ports.EndHalfInningCommand) (res ports.HalfInningResult) {
	ctx, end := s.observe(ctx, "EndHalfInning", cmd.MatchID)
	defer func() { end(recover(), &res.Outcome) }()

	if strings.TrimSpace(cmd.MatchID) == "" {
		res.Outcome = ports.Fail(domain.NewValidationError("match_id", domain.MsgRequired))
		return res
	}
	causation := s.commandID(cmd.CommandID)

	cc := appctx.New(ctx)
	st, err := s.loadInProgress(cc, cmd.MatchID)
	if err != nil {
		res.Outcome = ports.Fail(err)
		return res
	}
	before := st.clone()

	number, half := st.inning.Number, st.inning.Half
	if err := st.inning.EndHalfInning(cmd.Reason); err != nil {
		res.Outcome = ports.Fail(err)
		return res
	}

	u := s.newUnit(cc, causation)
	s.trackAll(u, before, st)
	if err := u.commit(ctx); err != nil {
		res.Outcome = s.persistFailed(ctx, "EndHalfInning", cmd.MatchID, err)
		return res
	}
	s.recordAction(ctx, undo.KindHalfInningEnd, causation, cmd.MatchID, cmd, u.events, before, st)

	res.Outcome = ports.Succeed()
	res.ActionID = causation
	res.Inning = st.inning.Number
	res.Half = st.inning.Half
	res.MatchEnded = st.match.RegulationOver(number, half)
	res.Events = len(u.events)
	res.State = st.snapshot()
	return res
}

// EndMatch completes the match. Completion cannot be undone.
func (s *Scorekeeper) EndMatch(ctx context.Context, cmd ports.EndMatchCommand) (res ports.EndMatchResult) {
	ctx, end := s.observe(ctx, "EndMatch", cmd.MatchID)
	defer func() { end(recover(), &res.Outcome) }()

	if strings.TrimSpace(cmd.MatchID) == "" {
		res.Outcome = ports.Fail(domain.NewValidationError("match_id", domain.MsgRequired))
		return res
	}
	causation := s.commandID(cmd.CommandID)

	cc := appctx.New(ctx)
	st, err := s.loadInProgress(cc, cmd.MatchID)
	if err != nil {
		res.Outcome = ports.Fail(err)
		return res
	}
	before := st.clone()

	if err := st.match.End(cmd.Reason, s.now()); err != nil {
		res.Outcome = ports.Fail(err)
		return res
	}

	u := s.newUnit(cc, causation)
	s.trackAll(u, before, st)
	if err := u.commit(ctx); err != nil {
		res.Outcome = s.persistFailed(ctx, "EndMatch", cmd.MatchID, err)
		return res
	}

	s.logger.InfoContext(ctx, "match ended",
		slog.String("match_id", cmd.MatchID),
		slog.Int("home", st.match.Score.Home),
		slog.Int("away", st.match.Score.Away),
	)

	res.Outcome = ports.Succeed()
	res.Score = st.match.Score
	res.Events = len(u.events)
	res.State = st.snapshot()
	return res
}

// MatchState returns the current projection of every aggregate.
func (s *Scorekeeper) MatchState(ctx context.Context, matchID string) (*ports.MatchState, error) {
	st, err := s.load(appctx.New(ctx), matchID)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to load match state",
			slog.String("operation", "MatchState"),
			slog.String("match_id", matchID),
			slog.Any("error", err),
		)
		return nil, err
	}
	return st.snapshot(), nil
}

// MatchEvents returns the match, home, away and inning streams in that order.
func (s *Scorekeeper) MatchEvents(ctx context.Context, matchID string) ([]event.Event, error) {
	exists, err := s.matches.Exists(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("checking match %s: %w", matchID, err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: match %s", domain.ErrNotFound, matchID)
	}

	var all []event.Event
	for _, stream := range streamIDs(matchID) {
		events, err := s.events.ReadAll(ctx, stream)
		if err != nil {
			s.logger.ErrorContext(ctx, "failed to read stream",
				slog.String("operation", "MatchEvents"),
				slog.String("stream_id", stream),
				slog.Any("error", err),
			)
			return nil, fmt.Errorf("reading stream %s: %w", stream, err)
		}
		all = append(all, events...)
	}
	return all, nil
}

func streamIDs(matchID string) []string {
	return []string{
		matchID,
		roster.ID(matchID, play.SideHome),
		roster.ID(matchID, play.SideAway),
		inning.ID(matchID),
	}
}

// matchState holds the four aggregates of one match while a command runs.
type matchState struct {
	match  *match.Match
	home   *roster.Roster
	away   *roster.Roster
	inning *inning.Inning
}

func (st *matchState) roster(side play.Side) *roster.Roster {
	if side == play.SideHome {
		return st.home
	}
	return st.away
}

func (st *matchState) clone() *matchState {
	return &matchState{
		match:  st.match.Clone(),
		home:   st.home.Clone(),
		away:   st.away.Clone(),
		inning: st.inning.Clone(),
	}
}

func (st *matchState) snapshot() *ports.MatchState {
	c := st.clone()
	return &ports.MatchState{Match: c.match, Home: c.home, Away: c.away, Inning: c.inning}
}

// load reads the four aggregates of a match. The match is read first so a
// missing match reports domain.ErrNotFound.
func (s *Scorekeeper) load(cc *appctx.CommandContext, matchID string) (*matchState, error) {
	m, err := appctx.GetOrFetch(cc, "match:"+matchID, func(ctx context.Context) (*match.Match, error) {
		return s.matches.FindByID(ctx, matchID)
	})
	if err != nil {
		return nil, fmt.Errorf("loading match %s: %w", matchID, err)
	}

	st := &matchState{match: m}
	for _, side := range []play.Side{play.SideHome, play.SideAway} {
		id := roster.ID(matchID, side)
		r, err := appctx.GetOrFetch(cc, "roster:"+id, func(ctx context.Context) (*roster.Roster, error) {
			return s.rosters.FindByID(ctx, id)
		})
		if err != nil {
			return nil, fmt.Errorf("loading roster %s: %w", id, err)
		}
		if side == play.SideHome {
			st.home = r
		} else {
			st.away = r
		}
	}

	id := inning.ID(matchID)
	st.inning, err = appctx.GetOrFetch(cc, "inning:"+id, func(ctx context.Context) (*inning.Inning, error) {
		return s.innings.FindByID(ctx, id)
	})
	if err != nil {
		return nil, fmt.Errorf("loading inning state %s: %w", id, err)
	}
	return st, nil
}

func (s *Scorekeeper) loadInProgress(cc *appctx.CommandContext, matchID string) (*matchState, error) {
	st, err := s.load(cc, matchID)
	if err != nil {
		return nil, err
	}
	if st.match.Status != match.StatusInProgress {
		return nil, fmt.Errorf("%w: match %s is %s", domain.ErrInvalidState, matchID, st.match.Status)
	}
	return st, nil
}

// trackAll stages every aggregate of st that raised events. A nil before
// marks a newly created match.
func (s *Scorekeeper) trackAll(u *unitOfWork, before, st *matchState) {
	created := before == nil
	if created {
		before = &matchState{}
	}
	track(u, s.matches, s.events, event.StreamMatch, before.match, st.match, created)
	track(u, s.rosters, s.events, event.StreamRoster, before.home, st.home, created)
	track(u, s.rosters, s.events, event.StreamRoster, before.away, st.away, created)
	track(u, s.innings, s.events, event.StreamInning, before.inning, st.inning, created)
}

// recordAction pushes an undoable action for a persisted command. The command
// has already succeeded, so a history failure is logged but not returned.
func (s *Scorekeeper) recordAction(ctx context.Context, kind undo.Kind, id, matchID string, cmd any,
	events []event.Event, before, after *matchState,
) {
	raw, err := json.Marshal(cmd)
	if err != nil {
		raw = nil
	}
	a := undo.Action{
		ID:         id,
		Kind:       kind,
		MatchID:    matchID,
		Command:    raw,
		Events:     events,
		RecordedAt: s.now().UTC(),
		Effects:    effectsOf(before, after),
	}

	if err := s.updateHistory(ctx, matchID, func(h *undo.History) error { return h.Record(a) }); err != nil {
		s.logger.ErrorContext(ctx, "failed to record undo action",
			slog.String("operation", "recordAction"),
			slog.String("match_id", matchID),
			slog.String("action_id", id),
			slog.Any("error", err),
		)
	}
}

func (s *Scorekeeper) updateHistory(ctx context.Context, matchID string, fn func(*undo.History) error) error {
	h, err := s.loadHistory(ctx, matchID)
	if err != nil {
		return err
	}
	if err := fn(h); err != nil {
		return err
	}
	return s.history.Save(ctx, h)
}

func (s *Scorekeeper) loadHistory(ctx context.Context, matchID string) (*undo.History, error) {
	h, err := s.history.Load(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("loading undo history for %s: %w", matchID, err)
	}
	h.Capacity = s.historyLimit
	return h, nil
}

// effectsOf captures the before and after state of every aggregate whose
// version changed.
func effectsOf(before, after *matchState) undo.Effects {
	var e undo.Effects
	if after.match.Version != before.match.Version {
		e.Match = &undo.Change[*match.Match]{Before: before.match.Clone(), After: after.match.Clone()}
	}
	if after.inning.Version != before.inning.Version {
		e.Inning = &undo.Change[*inning.Inning]{Before: before.inning.Clone(), After: after.inning.Clone()}
	}
	if after.home.Version != before.home.Version {
		e.Home = &undo.Change[*roster.Roster]{Before: before.home.Clone(), After: after.home.Clone()}
	}
	if after.away.Version != before.away.Version {
		e.Away = &undo.Change[*roster.Roster]{Before: before.away.Clone(), After: after.away.Clone()}
	}
	return e
}

// stamp assigns ids, the causation id and the record time to new events.
func (s *Scorekeeper) stamp(events []event.Event, causation string) []event.Event {
	at := s.now()
	out := make([]event.Event, len(events))
	for i, e := range events {
		out[i] = e.Stamp(s.newID(), causation, at)
	}
	return out
}

func (s *Scorekeeper) commandID(id string) string {
	if id = strings.TrimSpace(id); id != "" {
		return id
	}
	return s.newID()
}

func (s *Scorekeeper) persistFailed(ctx context.Context, op, matchID string, err error) ports.Outcome {
	s.logger.ErrorContext(ctx, "failed to persist command",
		slog.String("operation", op),
		slog.String("match_id", matchID),
		slog.Any("error", err),
	)
	return ports.Fail(err)
}

// observe starts a span and returns the function that closes it. The returned
// function also converts a recovered panic into an internal problem and
// records the command metrics.
func (s *Scorekeeper) observe(ctx context.Context, op, matchID string) (context.Context, func(any, *ports.Outcome)) {
	start := time.Now()
	ctx = logging.With(logging.WithLogger(ctx, s.logger), slog.String("match_id", matchID))
	ctx, span := s.tracer.Start(ctx, "Scorekeeper."+op,
		trace.WithAttributes(attribute.String("scorebook.match_id", matchID)))

	return ctx, func(recovered any, out *ports.Outcome) {
		defer span.End()

		if recovered != nil {
			s.logger.ErrorContext(ctx, "panic recovered in command handler",
				slog.String("operation", op),
				slog.String("match_id", matchID),
				slog.Any("panic", recovered),
				slog.String("stack", string(debug.Stack())),
			)
			*out = ports.Outcome{Errors: []ports.Problem{{Kind: ports.ProblemInternal, Message: "internal error"}}}
		}

		result, problem := "success", ""
		if !out.Success {
			result = "failure"
			if len(out.Errors) > 0 {
				problem = string(out.Errors[0].Kind)
			}
			span.SetStatus(codes.Error, problem)
			s.logger.WarnContext(ctx, "command rejected",
				slog.String("operation", op),
				slog.String("match_id", matchID),
				slog.Any("problems", out.Errors),
			)
		}

		if s.metrics != nil {
			attrs := metric.WithAttributes(
				telemetry.AttrCommand.String(op),
				telemetry.AttrResult.String(result),
				telemetry.AttrProblem.String(problem),
			)
			s.metrics.CommandTotal.Add(ctx, 1, attrs)
			s.metrics.CommandDuration.Record(ctx, time.Since(start).Seconds(), attrs)
		}
	}
}
