package prune

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/WatchBeam/clock"

	"mercator-hq/signup-pruner/pkg/signup"
)

var testNow = time.Date(2024, 6, 30, 12, 0, 0, 0, time.UTC)

// newTestClock returns a mock clock set to testNow.
func newTestClock(t *testing.T) *clock.MockClock {
	t.Helper()

	return clock.NewMockClock(testNow)
}

// daysAgo formats a registration time the way MySQL DATETIME text reads.
func daysAgo(days int) string {
	return testNow.AddDate(0, 0, -days).Format("2006-01-02 15:04:05")
}

// stubStore is a signup.Store that counts calls and lets tests hook into them.
type stubStore struct {
	mu          sync.Mutex
	records     []signup.Record
	fetchErr    error
	exists      bool
	existsErr   error
	rowsPerHit  int64
	fetchCalls  int
	deleteCalls []string

	onFetch  func()
	onDelete func(ctx context.Context, login string)
}

func (s *stubStore) FetchInactive(ctx context.Context, limit int) ([]signup.Record, error) {
	s.mu.Lock()
	s.fetchCalls++
	onFetch := s.onFetch
	s.mu.Unlock()

	if onFetch != nil {
		onFetch()
	}
	if s.fetchErr != nil {
		return nil, signup.NewUnavailableError("stub", "fetch", s.fetchErr)
	}
	if len(s.records) > limit {
		return s.records[:limit], nil
	}
	return s.records, nil
}

func (s *stubStore) DeleteByLogin(ctx context.Context, userLogin string) (int64, error) {
	s.mu.Lock()
	s.deleteCalls = append(s.deleteCalls, userLogin)
	onDelete := s.onDelete
	s.mu.Unlock()

	if onDelete != nil {
		onDelete(ctx, userLogin)
	}
	return s.rowsPerHit, nil
}

func (s *stubStore) Exists(ctx context.Context) (bool, error) { return s.exists, s.existsErr }
func (s *stubStore) Ping(ctx context.Context) error           { return nil }
func (s *stubStore) Close() error                             { return nil }

func (s *stubStore) deletes() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.deleteCalls...)
}

// runRecord is one RecordPruneRun call.
type runRecord struct {
	trigger, outcome                             string
	fetched, selected, malformed, deleted, failed int
}

type fakeMetrics struct {
	mu   sync.Mutex
	runs []runRecord
}

func (m *fakeMetrics) RecordPruneRun(trigger, outcome string, fetched, selected, malformed, deleted, failed int, duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.runs = append(m.runs, runRecord{trigger, outcome, fetched, selected, malformed, deleted, failed})
}

func (m *fakeMetrics) last(t *testing.T) runRecord {
	t.Helper()

	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.runs) == 0 {
		t.Fatal("no runs recorded")
	}
	return m.runs[len(m.runs)-1]
}

// waitFor polls cond until it holds or the deadline passes.
func waitFor(t *testing.T, timeout time.Duration, cond func() bool) bool {
	t.Helper()

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(10 * time.Millisecond)
	}
	return cond()
}
