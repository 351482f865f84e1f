package prune

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/WatchBeam/clock"
	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"mercator-hq/signup-pruner/pkg/telemetry/logging"
	"mercator-hq/signup-pruner/pkg/triggers"
)

// DefaultSchedule runs the recurring trigger once a day at midnight.
const DefaultSchedule = "@daily"

// ConfigSource returns the prune configuration for the next run.
type ConfigSource func() Config

// StaticConfig returns a ConfigSource that always yields cfg.
func StaticConfig(cfg Config) ConfigSource {
	return func() Config { return cfg }
}

// SchedulerConfig contains configuration for the Scheduler.
type SchedulerConfig struct {
	// Schedule is the cron expression for the recurring trigger.
	// Standard five-field expressions and descriptors such as "@daily" are
	// accepted. Empty disables the recurring trigger.
	Schedule string

	// Timeout bounds a single run's fetch. Zero means no timeout.
	Timeout time.Duration

	// Clock is used to wait for a one-shot trigger that is not yet due.
	Clock clock.Clock
}

// Scheduler fires the one-shot and recurring prune triggers.
type Scheduler struct {
	pruner   *Pruner
	registry triggers.Registry
	source   ConfigSource
	config   SchedulerConfig

	cron    *cron.Cron
	entry   cron.EntryID
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	mu      sync.Mutex
	logger  *slog.Logger
	running bool
	gen     uint64
}

// NewScheduler creates a scheduler that runs pruner with configuration from source.
func NewScheduler(pruner *Pruner, registry triggers.Registry, source ConfigSource, config SchedulerConfig) *Scheduler {
	if source == nil {
		source = StaticConfig(DefaultConfig())
	}
	if config.Clock == nil {
		config.Clock = clock.C
	}

	return &Scheduler{
		pruner:   pruner,
		registry: registry,
		source:   source,
		config:   config,
		cron:     cron.New(),
		logger:   slog.Default().With("component", "signup.scheduler"),
	}
}

// Start registers the recurring job and, if the one-shot trigger is
// registered, runs it in the background. The scheduler stops when ctx is
// cancelled.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return errors.New("scheduler already running")
	}

	runCtx, cancel := context.WithCancel(ctx)

	if s.config.Schedule == "" {
		s.logger.Info("prune schedule not configured, recurring trigger disabled")
	} else {
		if _, err := cron.ParseStandard(s.config.Schedule); err != nil {
			cancel()
			return fmt.Errorf("invalid cron schedule %q: %w", s.config.Schedule, err)
		}

		id, err := s.cron.AddFunc(s.config.Schedule, func() {
			s.runRecurring(runCtx)
		})
		if err != nil {
			cancel()
			return fmt.Errorf("failed to schedule pruning: %w", err)
		}
		s.entry = id
		s.cron.Start()
		s.recordNext(runCtx)
	}

	s.cancel = cancel
	s.running = true
	s.gen++
	gen := s.gen

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.runSingle(runCtx)
	}()

	s.logger.Info("prune scheduler started",
		"schedule", s.config.Schedule,
		"timeout", s.config.Timeout,
	)

	// runCtx ends either with ctx or with Stop. Only the run started here
	// may be stopped by it.
	go func() {
		<-runCtx.Done()
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.running && s.gen == gen {
			s.stopLocked()
		}
	}()

	return nil
}

// Stop stops the scheduler and waits for running jobs to complete.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}
	s.stopLocked()
}

func (s *Scheduler) stopLocked() {
	if s.entry != 0 {
		<-s.cron.Stop().Done()
		s.cron.Remove(s.entry)
		s.entry = 0
	}
	s.cancel()
	s.wg.Wait()
	s.running = false
	s.logger.Info("prune scheduler stopped")
}

// IsRunning returns true if the scheduler is running.
func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.running
}

// NextRun returns the next time the recurring trigger fires, or nil if no
// recurring job is scheduled.
func (s *Scheduler) NextRun() *time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running || s.entry == 0 {
		return nil
	}

	next := s.cron.Entry(s.entry).Next
	if next.IsZero() {
		return nil
	}
	return &next
}

// runSingle runs the one-shot trigger if it is registered, then clears it.
func (s *Scheduler) runSingle(ctx context.Context) {
	at, ok, err := s.registry.Next(ctx, triggers.HookSingle)
	if err != nil {
		s.logger.Error("failed to read one-shot trigger", "error", err)
		return
	}
	if !ok {
		return
	}

	if wait := at.Sub(s.config.Clock.Now()); wait > 0 {
		s.logger.Debug("waiting for one-shot trigger", "due", at)
		select {
		case <-s.config.Clock.After(wait):
		case <-ctx.Done():
			return
		}
	}

	s.runOnce(ctx, TriggerSingle)

	if err := s.registry.Clear(ctx, triggers.HookSingle); err != nil {
		s.logger.Error("failed to clear one-shot trigger", "error", err)
	}
}

// runRecurring runs a cron tick unless the recurring trigger was cleared.
func (s *Scheduler) runRecurring(ctx context.Context) {
	ok, err := triggers.IsScheduled(ctx, s.registry, triggers.HookRecurring)
	if err != nil {
		s.logger.Error("failed to read recurring trigger, skipping tick", "error", err)
		return
	}
	if !ok {
		s.logger.Info("recurring trigger not registered, skipping tick")
		return
	}

	s.runOnce(ctx, TriggerRecurring)
	s.recordNext(ctx)
}

func (s *Scheduler) runOnce(ctx context.Context, trigger Trigger) {
	if s.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.config.Timeout)
		defer cancel()
	}

	ctx = logging.WithRunID(ctx, uuid.NewString())
	ctx = logging.WithTrigger(ctx, string(trigger))

	s.logger.InfoContext(ctx, "starting scheduled signup pruning")

	if _, err := s.pruner.Prune(ctx, trigger, s.source()); err != nil {
		s.logger.ErrorContext(ctx, "scheduled pruning failed, retrying next tick",
			"error", err,
		)
	}
}

// recordNext stores the recurring job's next fire time, if the recurring
// trigger is still registered. Called from cron jobs, so it must not take s.mu.
func (s *Scheduler) recordNext(ctx context.Context) {
	if s.entry == 0 {
		return
	}
	ok, err := triggers.IsScheduled(ctx, s.registry, triggers.HookRecurring)
	if err != nil || !ok {
		return
	}

	next := s.cron.Entry(s.entry).Next
	if next.IsZero() {
		return
	}
	if err := s.registry.Schedule(ctx, triggers.HookRecurring, next); err != nil {
		s.logger.Warn("failed to record next run", "error", err)
	}
}
