package storage

import (
	"context"
	"fmt"
	"sync"

	"mercator-hq/signup-pruner/pkg/signup"
)

// MemoryStorage implements signup.Store with an insertion-ordered slice.
// This implementation is intended for testing and dry runs only.
type MemoryStorage struct {
	mu      sync.RWMutex
	records []signup.Record

	fetchErr    error
	deleteErrs  map[string]error
	deleteCalls []string
}

// NewMemoryStorage creates a new in-memory storage backend.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		deleteErrs: make(map[string]error),
	}
}

// Insert appends records in order. Logins must be unique.
func (s *MemoryStorage) Insert(records ...signup.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range records {
		if s.indexOf(r.UserLogin) >= 0 {
			return fmt.Errorf("duplicate user_login %q", r.UserLogin)
		}
		s.records = append(s.records, r)
	}
	return nil
}

// FetchInactive returns up to limit inactive records in insertion order.
func (s *MemoryStorage) FetchInactive(ctx context.Context, limit int) ([]signup.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.fetchErr != nil {
		return nil, signup.NewUnavailableError("memory", "fetch", s.fetchErr)
	}
	if limit <= 0 {
		return nil, nil
	}

	var out []signup.Record
	for _, r := range s.records {
		if r.Active {
			continue
		}
		out = append(out, r)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

// DeleteByLogin removes the record with the given login.
func (s *MemoryStorage) DeleteByLogin(ctx context.Context, userLogin string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.deleteCalls = append(s.deleteCalls, userLogin)

	if err, ok := s.deleteErrs[userLogin]; ok {
		return 0, signup.NewStoreError("memory", "delete", err)
	}

	i := s.indexOf(userLogin)
	if i < 0 {
		return 0, nil
	}
	s.records = append(s.records[:i], s.records[i+1:]...)
	return 1, nil
}

// Exists always reports true.
func (s *MemoryStorage) Exists(ctx context.Context) (bool, error) {
	return true, nil
}

// Ping fails only when a fetch failure has been injected.
func (s *MemoryStorage) Ping(ctx context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.fetchErr != nil {
		return signup.NewUnavailableError("memory", "ping", s.fetchErr)
	}
	return nil
}

// Close is a no-op.
func (s *MemoryStorage) Close() error {
	return nil
}

// FailFetch makes FetchInactive and Ping fail with err until cleared with nil.
func (s *MemoryStorage) FailFetch(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fetchErr = err
}

// FailDelete makes DeleteByLogin fail with err for one login.
func (s *MemoryStorage) FailDelete(userLogin string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleteErrs[userLogin] = err
}

// DeleteCalls returns the logins passed to DeleteByLogin, in call order.
func (s *MemoryStorage) DeleteCalls() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]string, len(s.deleteCalls))
	copy(out, s.deleteCalls)
	return out
}

// Logins returns the logins currently stored, in insertion order.
func (s *MemoryStorage) Logins() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]string, 0, len(s.records))
	for _, r := range s.records {
		out = append(out, r.UserLogin)
	}
	return out
}

// Len returns the number of stored records.
func (s *MemoryStorage) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

func (s *MemoryStorage) indexOf(userLogin string) int {
	for i, r := range s.records {
		if r.UserLogin == userLogin {
			return i
		}
	}
	return -1
}
