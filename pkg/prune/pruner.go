package prune

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/WatchBeam/clock"
	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"mercator-hq/signup-pruner/pkg/signup"
	"mercator-hq/signup-pruner/pkg/telemetry/logging"
)

// Trigger names what started a run.
type Trigger string

const (
	// TriggerSingle is the one-shot run requested at activation.
	TriggerSingle Trigger = "prune_old_signups_single"

	// TriggerRecurring is the scheduled daily run.
	TriggerRecurring Trigger = "prune_old_signups"

	// TriggerManual is a run started from the command line.
	TriggerManual Trigger = "manual"
)

// Run outcomes reported to the metrics recorder.
const (
	OutcomeSuccess     = "success"
	OutcomePartial     = "partial"
	OutcomeUnavailable = "unavailable"
	OutcomeDryRun      = "dry_run"
)

// MetricsRecorder receives one call per finished run.
type MetricsRecorder interface {
	RecordPruneRun(trigger, outcome string, fetched, selected, malformed, deleted, failed int, duration time.Duration)
}

// SpanStarter starts tracing spans. Both trace.Tracer and tracing.Tracer
// satisfy it.
type SpanStarter interface {
	Start(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span)
}

// Options configures a Pruner. Zero values select the defaults.
type Options struct {
	// Clock supplies the current time. Default: the wall clock.
	Clock clock.Clock

	// Logger receives run logs. Default: slog.Default() tagged with the component.
	Logger *slog.Logger

	// Metrics records run counters. Default: none.
	Metrics MetricsRecorder

	// Tracer creates spans. Default: noop.
	Tracer SpanStarter
}

// Result summarizes one run.
type Result struct {
	RunID   string
	Trigger Trigger
	DryRun  bool

	// Cutoff is the latest registration instant that was old enough.
	Cutoff time.Time

	Fetched   int // inactive candidates returned by the store
	Selected  int // candidates registered at or before Cutoff
	Malformed int // candidates with an unparseable registration time
	Deleted   int // rows actually removed
	Failed    int // deletes that returned an error

	Duration time.Duration

	// Errors aggregates one *signup.DeleteError per failed delete, or is nil.
	Errors *multierror.Error

	// SelectedLogins lists the logins chosen for deletion, in store order.
	SelectedLogins []string
}

// Outcome classifies the result for metrics and logs.
func (r *Result) Outcome() string {
	switch {
	case r.DryRun:
		return OutcomeDryRun
	case r.Failed > 0:
		return OutcomePartial
	default:
		return OutcomeSuccess
	}
}

// Pruner deletes old unactivated signups from a signup.Store.
type Pruner struct {
	store   signup.Store
	clock   clock.Clock
	logger  *slog.Logger
	metrics MetricsRecorder
	tracer  SpanStarter
	state   atomic.Int32
}

// NewPruner creates a new pruner over store.
func NewPruner(store signup.Store, opts Options) *Pruner {
	if opts.Clock == nil {
		opts.Clock = clock.C
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Tracer == nil {
		opts.Tracer = noop.NewTracerProvider().Tracer("signup-pruner")
	}

	return &Pruner{
		store:   store,
		clock:   opts.Clock,
		logger:  opts.Logger.With("component", "signup.prune"),
		metrics: opts.Metrics,
		tracer:  opts.Tracer,
	}
}

// State returns the phase of the most recent run.
func (p *Pruner) State() State {
	return State(p.state.Load())
}

func (p *Pruner) setState(s State) {
	p.state.Store(int32(s))
}

// Prune runs one fetch, filter and delete cycle. The only returned error is a
// fetch failure matching signup.ErrStoreUnavailable; delete failures are
// reported in the Result.
func (p *Pruner) Prune(ctx context.Context, trigger Trigger, cfg Config) (*Result, error) {
	return p.run(ctx, trigger, cfg, false)
}

// Preview fetches and filters like Prune but deletes nothing.
func (p *Pruner) Preview(ctx context.Context, trigger Trigger, cfg Config) (*Result, error) {
	return p.run(ctx, trigger, cfg, true)
}

func (p *Pruner) run(ctx context.Context, trigger Trigger, cfg Config, dryRun bool) (*Result, error) {
	cfg = cfg.normalize()
	start := p.clock.Now()

	runID := logging.GetRunID(ctx)
	if runID == "" {
		runID = uuid.NewString()
		ctx = logging.WithRunID(ctx, runID)
	}
	if logging.GetTrigger(ctx) == "" {
		ctx = logging.WithTrigger(ctx, string(trigger))
	}

	result := &Result{
		RunID:   runID,
		Trigger: trigger,
		DryRun:  dryRun,
		Cutoff:  cfg.Cutoff(start),
	}

	ctx, span := p.tracer.Start(ctx, "signup.prune", trace.WithAttributes(
		attribute.String("prune.run_id", runID),
		attribute.String("prune.trigger", string(trigger)),
		attribute.Int("prune.batch_limit", cfg.BatchLimit),
		attribute.Bool("prune.dry_run", dryRun),
	))
	defer span.End()

	defer p.setState(StateIdle)

	p.setState(StateFetching)
	candidates, err := p.fetchInactiveCandidates(ctx, cfg.BatchLimit)
	if err != nil {
		result.Duration = p.clock.Now().Sub(start)
		span.RecordError(err)
		span.SetStatus(codes.Error, "fetch failed")
		p.logger.ErrorContext(ctx, "prune run aborted, signup store unavailable",
			"error", err,
		)
		p.record(result, OutcomeUnavailable)
		return result, err
	}
	result.Fetched = len(candidates)

	if len(candidates) == 0 {
		return p.finish(ctx, span, result, start), nil
	}

	p.setState(StateFiltering)
	old, malformed := signup.Partition(candidates, result.Cutoff)
	result.Selected = len(old)
	result.Malformed = len(malformed)
	for _, r := range malformed {
		p.logger.WarnContext(ctx, "skipping signup with malformed registration time",
			"user_login", r.UserLogin,
			"registered", r.Registered,
		)
	}
	for _, r := range old {
		result.SelectedLogins = append(result.SelectedLogins, r.UserLogin)
	}

	if len(old) == 0 || dryRun {
		return p.finish(ctx, span, result, start), nil
	}

	p.setState(StateDeleting)
	deleted, failures := p.deleteByLogin(ctx, old)
	result.Deleted = deleted
	result.Errors = failures
	if failures != nil {
		result.Failed = failures.Len()
	}

	return p.finish(ctx, span, result, start), nil
}

func (p *Pruner) finish(ctx context.Context, span trace.Span, result *Result, start time.Time) *Result {
	result.Duration = p.clock.Now().Sub(start)

	span.SetAttributes(
		attribute.Int("prune.fetched", result.Fetched),
		attribute.Int("prune.selected", result.Selected),
		attribute.Int("prune.malformed", result.Malformed),
		attribute.Int("prune.deleted", result.Deleted),
		attribute.Int("prune.failed", result.Failed),
	)
	if result.Failed > 0 {
		span.SetStatus(codes.Error, "some deletes failed")
	} else {
		span.SetStatus(codes.Ok, "")
	}

	outcome := result.Outcome()
	p.record(result, outcome)

	if result.Selected == 0 {
		p.logger.DebugContext(ctx, "no signups pruned",
			"fetched", result.Fetched,
			"malformed", result.Malformed,
			"cutoff", result.Cutoff,
		)
		return result
	}

	p.logger.InfoContext(ctx, "signup prune completed",
		"outcome", outcome,
		"fetched", result.Fetched,
		"selected", result.Selected,
		"deleted", result.Deleted,
		"failed", result.Failed,
		"malformed", result.Malformed,
		"cutoff", result.Cutoff,
		"duration", result.Duration,
	)
	return result
}

func (p *Pruner) record(result *Result, outcome string) {
	if p.metrics == nil {
		return
	}
	p.metrics.RecordPruneRun(string(result.Trigger), outcome,
		result.Fetched, result.Selected, result.Malformed, result.Deleted, result.Failed,
		result.Duration,
	)
}

// fetchInactiveCandidates reads one bounded batch of inactive signups.
func (p *Pruner) fetchInactiveCandidates(ctx context.Context, limit int) ([]signup.Record, error) {
	ctx, span := p.tracer.Start(ctx, "signup.fetch", trace.WithAttributes(
		attribute.Int("prune.batch_limit", limit),
	))
	defer span.End()

	records, err := p.store.FetchInactive(ctx, limit)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "fetch failed")
		return nil, err
	}

	span.SetAttributes(attribute.Int("prune.fetched", len(records)))
	p.logger.DebugContext(ctx, "fetched inactive signups",
		"count", len(records),
		"limit", limit,
	)
	return records, nil
}

// deleteByLogin deletes each record by login. A failure does not stop the
// remaining deletes, and caller cancellation is ignored once deleting starts.
func (p *Pruner) deleteByLogin(ctx context.Context, records []signup.Record) (int, *multierror.Error) {
	ctx = context.WithoutCancel(ctx)

	ctx, span := p.tracer.Start(ctx, "signup.delete", trace.WithAttributes(
		attribute.Int("prune.selected", len(records)),
	))
	defer span.End()

	var (
		deleted  int
		failures *multierror.Error
	)

	for _, r := range records {
		n, err := p.store.DeleteByLogin(ctx, r.UserLogin)
		if err != nil {
			failures = multierror.Append(failures, signup.NewDeleteError(r.UserLogin, err))
			p.logger.WarnContext(ctx, "failed to delete signup",
				"user_login", r.UserLogin,
				"error", err,
			)
			continue
		}
		if n == 0 {
			p.logger.DebugContext(ctx, "signup already removed",
				"user_login", r.UserLogin,
			)
			continue
		}
		deleted++
	}

	span.SetAttributes(attribute.Int("prune.deleted", deleted))
	if failures != nil {
		span.SetAttributes(attribute.Int("prune.failed", failures.Len()))
		span.SetStatus(codes.Error, "some deletes failed")
	}
	return deleted, failures
}
