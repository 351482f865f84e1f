package prune

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"mercator-hq/signup-pruner/pkg/signup"
	"mercator-hq/signup-pruner/pkg/signup/storage"
	"mercator-hq/signup-pruner/pkg/telemetry/logging"
)

func newMemoryPruner(t *testing.T, records ...signup.Record) (*Pruner, *storage.MemoryStorage, *fakeMetrics) {
	t.Helper()

	store := storage.NewMemoryStorage()
	if err := store.Insert(records...); err != nil {
		t.Fatalf("Insert() failed: %v", err)
	}
	metrics := &fakeMetrics{}
	pruner := NewPruner(store, Options{Clock: newTestClock(t), Metrics: metrics})
	return pruner, store, metrics
}

// TestPruner_AgeScenario stores signups aged 20, 10 and 1 days; only the
// 20 day old one passes the default 14 day threshold.
func TestPruner_AgeScenario(t *testing.T) {
	pruner, store, metrics := newMemoryPruner(t,
		signup.Record{UserLogin: "twenty", Registered: daysAgo(20)},
		signup.Record{UserLogin: "ten", Registered: daysAgo(10)},
		signup.Record{UserLogin: "one", Registered: daysAgo(1)},
	)

	result, err := pruner.Prune(context.Background(), TriggerRecurring, DefaultConfig())
	if err != nil {
		t.Fatalf("Prune() failed: %v", err)
	}

	if result.Fetched != 3 || result.Selected != 1 || result.Deleted != 1 || result.Failed != 0 {
		t.Errorf("Unexpected counts: %+v", result)
	}
	if got := store.Logins(); len(got) != 2 || got[0] != "ten" || got[1] != "one" {
		t.Errorf("Expected [ten one] remaining, got %v", got)
	}
	if want := testNow.Add(-DefaultAgeThreshold); !result.Cutoff.Equal(want) {
		t.Errorf("Cutoff = %s, want %s", result.Cutoff, want)
	}
	if result.RunID == "" {
		t.Error("Expected a run id")
	}

	run := metrics.last(t)
	if run.trigger != string(TriggerRecurring) || run.outcome != OutcomeSuccess || run.deleted != 1 {
		t.Errorf("Unexpected metrics record: %+v", run)
	}
}

func TestPruner_Idempotent(t *testing.T) {
	pruner, store, _ := newMemoryPruner(t,
		signup.Record{UserLogin: "a", Registered: daysAgo(30)},
		signup.Record{UserLogin: "b", Registered: daysAgo(30)},
		signup.Record{UserLogin: "c", Registered: daysAgo(2)},
	)
	ctx := context.Background()

	first, err := pruner.Prune(ctx, TriggerSingle, DefaultConfig())
	if err != nil {
		t.Fatalf("first Prune() failed: %v", err)
	}
	second, err := pruner.Prune(ctx, TriggerRecurring, DefaultConfig())
	if err != nil {
		t.Fatalf("second Prune() failed: %v", err)
	}

	if first.Deleted != 2 {
		t.Errorf("first run deleted %d, want 2", first.Deleted)
	}
	if second.Deleted != 0 || second.Selected != 0 {
		t.Errorf("second run should find nothing, got %+v", second)
	}
	if store.Len() != 1 {
		t.Errorf("Expected 1 remaining record, got %d", store.Len())
	}
	if len(store.DeleteCalls()) != 2 {
		t.Errorf("Expected 2 delete calls in total, got %d", len(store.DeleteCalls()))
	}
}

func TestPruner_BatchBound(t *testing.T) {
	var records []signup.Record
	for i := 0; i < 250; i++ {
		records = append(records, signup.Record{
			UserLogin:  fmt.Sprintf("user%03d", i),
			Registered: daysAgo(30),
		})
	}
	pruner, store, _ := newMemoryPruner(t, records...)
	ctx := context.Background()

	result, err := pruner.Prune(ctx, TriggerRecurring, DefaultConfig())
	if err != nil {
		t.Fatalf("Prune() failed: %v", err)
	}
	if result.Fetched != DefaultBatchLimit || result.Deleted != DefaultBatchLimit {
		t.Errorf("Expected a full batch of %d, got %+v", DefaultBatchLimit, result)
	}

	result, err = pruner.Prune(ctx, TriggerRecurring, Config{BatchLimit: 30, AgeThreshold: DefaultAgeThreshold})
	if err != nil {
		t.Fatalf("Prune() failed: %v", err)
	}
	if result.Deleted != 30 {
		t.Errorf("Expected 30 deleted, got %d", result.Deleted)
	}
	if store.Len() != 20 {
		t.Errorf("Expected 20 remaining, got %d", store.Len())
	}
}

func TestPruner_PartialFailure(t *testing.T) {
	pruner, store, metrics := newMemoryPruner(t,
		signup.Record{UserLogin: "a", Registered: daysAgo(30)},
		signup.Record{UserLogin: "b", Registered: daysAgo(30)},
		signup.Record{UserLogin: "c", Registered: daysAgo(30)},
	)
	boom := errors.New("lock wait timeout")
	store.FailDelete("b", boom)

	result, err := pruner.Prune(context.Background(), TriggerRecurring, DefaultConfig())
	if err != nil {
		t.Fatalf("Prune() must not fail on delete errors: %v", err)
	}

	if result.Deleted != 2 || result.Failed != 1 {
		t.Errorf("Expected 2 deleted and 1 failed, got %+v", result)
	}
	if got := store.DeleteCalls(); len(got) != 3 || got[2] != "c" {
		t.Errorf("Expected deletes attempted for every record, got %v", got)
	}
	if got := store.Logins(); len(got) != 1 || got[0] != "b" {
		t.Errorf("Expected [b] remaining, got %v", got)
	}

	var delErr *signup.DeleteError
	if !errors.As(result.Errors, &delErr) {
		t.Fatalf("Expected *signup.DeleteError in %v", result.Errors)
	}
	if delErr.UserLogin != "b" || !errors.Is(delErr, boom) {
		t.Errorf("Unexpected delete error: %v", delErr)
	}

	if run := metrics.last(t); run.outcome != OutcomePartial || run.failed != 1 {
		t.Errorf("Unexpected metrics record: %+v", run)
	}
}

func TestPruner_MalformedTimestamps(t *testing.T) {
	pruner, store, _ := newMemoryPruner(t,
		signup.Record{UserLogin: "garbled", Registered: "yesterday-ish"},
		signup.Record{UserLogin: "zero", Registered: "0000-00-00 00:00:00"},
		signup.Record{UserLogin: "old", Registered: daysAgo(40)},
	)

	result, err := pruner.Prune(context.Background(), TriggerRecurring, DefaultConfig())
	if err != nil {
		t.Fatalf("Prune() failed: %v", err)
	}

	if result.Malformed != 2 || result.Selected != 1 || result.Deleted != 1 {
		t.Errorf("Unexpected counts: %+v", result)
	}
	if got := store.Logins(); len(got) != 2 {
		t.Errorf("Malformed rows must be kept, got %v", got)
	}
}

func TestPruner_EmptyStore(t *testing.T) {
	store := &stubStore{rowsPerHit: 1}
	pruner := NewPruner(store, Options{Clock: newTestClock(t)})

	result, err := pruner.Prune(context.Background(), TriggerRecurring, DefaultConfig())
	if err != nil {
		t.Fatalf("Prune() failed: %v", err)
	}
	if result.Fetched != 0 || result.Deleted != 0 {
		t.Errorf("Unexpected counts: %+v", result)
	}
	if len(store.deletes()) != 0 {
		t.Errorf("Expected zero delete calls, got %v", store.deletes())
	}
}

func TestPruner_NothingOldEnough(t *testing.T) {
	store := &stubStore{
		rowsPerHit: 1,
		records: []signup.Record{
			{UserLogin: "fresh", Registered: daysAgo(3)},
		},
	}
	pruner := NewPruner(store, Options{Clock: newTestClock(t)})

	if _, err := pruner.Prune(context.Background(), TriggerRecurring, DefaultConfig()); err != nil {
		t.Fatalf("Prune() failed: %v", err)
	}
	if len(store.deletes()) != 0 {
		t.Errorf("Expected zero delete calls, got %v", store.deletes())
	}
}

func TestPruner_ZeroThreshold(t *testing.T) {
	pruner, store, _ := newMemoryPruner(t,
		signup.Record{UserLogin: "a", Registered: daysAgo(0)},
		signup.Record{UserLogin: "b", Registered: daysAgo(1)},
		signup.Record{UserLogin: "active", Registered: daysAgo(100), Active: true},
	)

	result, err := pruner.Prune(context.Background(), TriggerManual, Config{BatchLimit: 200, AgeThreshold: 0})
	if err != nil {
		t.Fatalf("Prune() failed: %v", err)
	}
	if result.Deleted != 2 {
		t.Errorf("Expected every inactive signup deleted, got %+v", result)
	}
	if got := store.Logins(); len(got) != 1 || got[0] != "active" {
		t.Errorf("Expected only the active signup left, got %v", got)
	}
}

func TestPruner_StoreUnavailable(t *testing.T) {
	store := &stubStore{fetchErr: errors.New("connection refused")}
	metrics := &fakeMetrics{}
	pruner := NewPruner(store, Options{Clock: newTestClock(t), Metrics: metrics})

	result, err := pruner.Prune(context.Background(), TriggerRecurring, DefaultConfig())
	if !errors.Is(err, signup.ErrStoreUnavailable) {
		t.Fatalf("Expected ErrStoreUnavailable, got %v", err)
	}
	if result == nil || result.Fetched != 0 {
		t.Errorf("Expected an empty result, got %+v", result)
	}
	if len(store.deletes()) != 0 {
		t.Error("No deletes may run after a failed fetch")
	}
	if run := metrics.last(t); run.outcome != OutcomeUnavailable {
		t.Errorf("Expected outcome %q, got %q", OutcomeUnavailable, run.outcome)
	}
	if pruner.State() != StateIdle {
		t.Errorf("Expected idle after failure, got %s", pruner.State())
	}
}

func TestPruner_AlreadyDeleted(t *testing.T) {
	store := &stubStore{
		rowsPerHit: 0,
		records: []signup.Record{
			{UserLogin: "gone", Registered: daysAgo(30)},
		},
	}
	pruner := NewPruner(store, Options{Clock: newTestClock(t)})

	result, err := pruner.Prune(context.Background(), TriggerRecurring, DefaultConfig())
	if err != nil {
		t.Fatalf("Prune() failed: %v", err)
	}
	if result.Selected != 1 || result.Deleted != 0 || result.Failed != 0 {
		t.Errorf("A zero-row delete is neither deleted nor failed, got %+v", result)
	}
}

func TestPruner_Preview(t *testing.T) {
	pruner, store, metrics := newMemoryPruner(t,
		signup.Record{UserLogin: "old", Registered: daysAgo(30)},
		signup.Record{UserLogin: "new", Registered: daysAgo(1)},
	)

	result, err := pruner.Preview(context.Background(), TriggerManual, DefaultConfig())
	if err != nil {
		t.Fatalf("Preview() failed: %v", err)
	}
	if !result.DryRun || result.Selected != 1 || result.Deleted != 0 {
		t.Errorf("Unexpected preview result: %+v", result)
	}
	if len(result.SelectedLogins) != 1 || result.SelectedLogins[0] != "old" {
		t.Errorf("Expected [old] selected, got %v", result.SelectedLogins)
	}
	if len(store.DeleteCalls()) != 0 {
		t.Error("Preview must not delete")
	}
	if run := metrics.last(t); run.outcome != OutcomeDryRun {
		t.Errorf("Expected outcome %q, got %q", OutcomeDryRun, run.outcome)
	}
}

func TestPruner_DeleteIgnoresCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var ctxErrs []error
	store := &stubStore{
		rowsPerHit: 1,
		records: []signup.Record{
			{UserLogin: "a", Registered: daysAgo(30)},
			{UserLogin: "b", Registered: daysAgo(30)},
		},
	}
	store.onDelete = func(ctx context.Context, login string) {
		cancel()
		ctxErrs = append(ctxErrs, ctx.Err())
	}
	pruner := NewPruner(store, Options{Clock: newTestClock(t)})

	result, err := pruner.Prune(ctx, TriggerRecurring, DefaultConfig())
	if err != nil {
		t.Fatalf("Prune() failed: %v", err)
	}
	if result.Deleted != 2 {
		t.Errorf("Expected batch to complete, got %+v", result)
	}
	for i, e := range ctxErrs {
		if e != nil {
			t.Errorf("delete %d saw cancelled context: %v", i, e)
		}
	}
}

func TestPruner_States(t *testing.T) {
	var pruner *Pruner
	var seen []State

	store := &stubStore{
		rowsPerHit: 1,
		records: []signup.Record{
			{UserLogin: "a", Registered: daysAgo(30)},
		},
	}
	store.onFetch = func() { seen = append(seen, pruner.State()) }
	store.onDelete = func(context.Context, string) { seen = append(seen, pruner.State()) }
	pruner = NewPruner(store, Options{Clock: newTestClock(t)})

	if pruner.State() != StateIdle {
		t.Fatalf("Expected idle before first run, got %s", pruner.State())
	}
	if _, err := pruner.Prune(context.Background(), TriggerRecurring, DefaultConfig()); err != nil {
		t.Fatalf("Prune() failed: %v", err)
	}

	want := []State{StateFetching, StateDeleting}
	if len(seen) != len(want) {
		t.Fatalf("Expected states %v, got %v", want, seen)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Errorf("state %d = %s, want %s", i, seen[i], want[i])
		}
	}
	if pruner.State() != StateIdle {
		t.Errorf("Expected idle after run, got %s", pruner.State())
	}
}

func TestPruner_RunIDFromContext(t *testing.T) {
	pruner, _, _ := newMemoryPruner(t)

	ctx := logging.WithRunID(context.Background(), "run-123")
	result, err := pruner.Prune(ctx, TriggerManual, DefaultConfig())
	if err != nil {
		t.Fatalf("Prune() failed: %v", err)
	}
	if result.RunID != "run-123" {
		t.Errorf("RunID = %q, want run-123", result.RunID)
	}
}

func TestConfig(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		cutoff  time.Time
		wantErr bool
	}{
		{"default", DefaultConfig(), testNow.Add(-14 * 24 * time.Hour), false},
		{"zero threshold", Config{BatchLimit: 10}, testNow, false},
		{"negative threshold", Config{BatchLimit: 10, AgeThreshold: -time.Hour}, testNow, true},
		{"zero batch", Config{AgeThreshold: time.Hour}, testNow.Add(-time.Hour), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.config.Cutoff(testNow); !got.Equal(tt.cutoff) {
				t.Errorf("Cutoff() = %s, want %s", got, tt.cutoff)
			}
			if err := tt.config.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestState_String(t *testing.T) {
	if StateDeleting.String() != "deleting" || State(42).String() != "unknown" {
		t.Error("unexpected state names")
	}
}
