package triggers

import (
	"context"
	"fmt"
	"time"
)

// Hook names.
const (
	HookSingle    = "prune_old_signups_single"
	HookRecurring = "prune_old_signups"
)

// Registry stores the next due time of each registered hook.
type Registry interface {
	// Next returns the due time of hook and whether it is registered.
	Next(ctx context.Context, hook string) (time.Time, bool, error)

	// Schedule registers hook (or moves it) to run at the given time.
	Schedule(ctx context.Context, hook string, at time.Time) error

	// Clear unregisters hook. Clearing an unknown hook is not an error.
	Clear(ctx context.Context, hook string) error

	// Close releases backend resources.
	Close() error
}

// RegistryError represents a failure of the trigger registry backend.
type RegistryError struct {
	Backend   string // "memory" or "redis"
	Operation string // "next", "schedule", "clear"
	Hook      string
	Cause     error
}

// Error implements the error interface.
func (e *RegistryError) Error() string {
	return fmt.Sprintf("trigger registry error [backend=%s, operation=%s, hook=%s]: %v",
		e.Backend, e.Operation, e.Hook, e.Cause)
}

// Unwrap returns the underlying cause error.
func (e *RegistryError) Unwrap() error {
	return e.Cause
}

// IsScheduled reports whether hook is registered.
func IsScheduled(ctx context.Context, r Registry, hook string) (bool, error) {
	_, ok, err := r.Next(ctx, hook)
	return ok, err
}
