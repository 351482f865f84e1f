package triggers

import (
	"context"
	"sync"
	"time"
)

// MemoryRegistry is an in-process Registry.
type MemoryRegistry struct {
	mu    sync.RWMutex
	hooks map[string]time.Time
}

// NewMemoryRegistry creates an empty in-process registry.
func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{hooks: make(map[string]time.Time)}
}

func (r *MemoryRegistry) Next(ctx context.Context, hook string) (time.Time, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	at, ok := r.hooks[hook]
	return at, ok, nil
}

func (r *MemoryRegistry) Schedule(ctx context.Context, hook string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.hooks[hook] = at.UTC()
	return nil
}

func (r *MemoryRegistry) Clear(ctx context.Context, hook string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.hooks, hook)
	return nil
}

func (r *MemoryRegistry) Close() error {
	return nil
}
