package prune

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/WatchBeam/clock"

	"mercator-hq/signup-pruner/pkg/signup"
	"mercator-hq/signup-pruner/pkg/triggers"
)

// Lifecycle registers and clears the prune triggers.
type Lifecycle struct {
	registry      triggers.Registry
	clock         clock.Clock
	runOnActivate bool
	logger        *slog.Logger
}

// NewLifecycle creates a lifecycle over registry. When runOnActivate is set,
// activation also registers the one-shot trigger so a run happens right away.
func NewLifecycle(registry triggers.Registry, clk clock.Clock, runOnActivate bool) *Lifecycle {
	if clk == nil {
		clk = clock.C
	}
	return &Lifecycle{
		registry:      registry,
		clock:         clk,
		runOnActivate: runOnActivate,
		logger:        slog.Default().With("component", "signup.lifecycle"),
	}
}

// Activate registers the triggers unless the recurring trigger is already
// registered. It reports whether anything was registered.
func (l *Lifecycle) Activate(ctx context.Context) (bool, error) {
	scheduled, err := triggers.IsScheduled(ctx, l.registry, triggers.HookRecurring)
	if err != nil {
		return false, fmt.Errorf("activate: %w", err)
	}
	if scheduled {
		l.logger.Debug("prune triggers already registered")
		return false, nil
	}

	now := l.clock.Now()
	if l.runOnActivate {
		if err := l.registry.Schedule(ctx, triggers.HookSingle, now); err != nil {
			return false, fmt.Errorf("activate: %w", err)
		}
	}
	if err := l.registry.Schedule(ctx, triggers.HookRecurring, now); err != nil {
		return false, fmt.Errorf("activate: %w", err)
	}

	l.logger.Info("prune triggers registered",
		"run_on_activate", l.runOnActivate,
	)
	return true, nil
}

// Deactivate clears both triggers. It reports whether either was registered.
func (l *Lifecycle) Deactivate(ctx context.Context) (bool, error) {
	var found bool
	for _, hook := range []string{triggers.HookRecurring, triggers.HookSingle} {
		ok, err := triggers.IsScheduled(ctx, l.registry, hook)
		if err != nil {
			return found, fmt.Errorf("deactivate: %w", err)
		}
		if !ok {
			continue
		}
		found = true
		if err := l.registry.Clear(ctx, hook); err != nil {
			return found, fmt.Errorf("deactivate: %w", err)
		}
	}

	if found {
		l.logger.Info("prune triggers cleared")
	}
	return found, nil
}

// CheckRequired reports whether store has a signups table. A missing table
// means the install has no signup flow and pruning should stay disabled.
func CheckRequired(ctx context.Context, store signup.Store) (bool, error) {
	ok, err := store.Exists(ctx)
	if err != nil {
		return false, fmt.Errorf("check signups table: %w", err)
	}
	return ok, nil
}
