package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"
)

func TestChecker_CheckReadiness(t *testing.T) {
	tests := []struct {
		name       string
		checks     map[string]CheckFunc
		wantStatus string
	}{
		{
			name:       "no checks",
			checks:     nil,
			wantStatus: StatusReady,
		},
		{
			name: "all healthy",
			checks: map[string]CheckFunc{
				"store":     func(context.Context) error { return nil },
				"scheduler": func(context.Context) error { return nil },
			},
			wantStatus: StatusReady,
		},
		{
			name: "store down",
			checks: map[string]CheckFunc{
				"store":     func(context.Context) error { return errors.New("connection refused") },
				"scheduler": func(context.Context) error { return nil },
			},
			wantStatus: StatusDegraded,
		},
		{
			name: "check times out",
			checks: map[string]CheckFunc{
				"store": func(ctx context.Context) error {
					<-ctx.Done()
					time.Sleep(10 * time.Millisecond)
					return nil
				},
			},
			wantStatus: StatusDegraded,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checker := New(50 * time.Millisecond)
			for name, check := range tt.checks {
				checker.RegisterCheck(name, check)
			}

			status := checker.CheckReadiness(context.Background())
			if status.Status != tt.wantStatus {
				t.Errorf("Status = %q, want %q (%+v)", status.Status, tt.wantStatus, status.Checks)
			}
			if len(status.Checks) != len(tt.checks) {
				t.Errorf("Expected %d check results, got %d", len(tt.checks), len(status.Checks))
			}
		})
	}
}

func TestChecker_Observer(t *testing.T) {
	checker := New(time.Second)
	checker.RegisterCheck("store", func(context.Context) error { return nil })
	checker.RegisterCheck("triggers", func(context.Context) error { return errors.New("down") })

	var mu sync.Mutex
	seen := map[string]bool{}
	checker.SetObserver(func(name string, healthy bool) {
		mu.Lock()
		defer mu.Unlock()
		seen[name] = healthy
	})

	checker.CheckReadiness(context.Background())

	if !seen["store"] || seen["triggers"] {
		t.Errorf("Unexpected observations: %v", seen)
	}
	if got := checker.ListChecks(); len(got) != 2 || got[0] != "store" {
		t.Errorf("ListChecks() = %v", got)
	}
}

func TestHandlers(t *testing.T) {
	checker := New(time.Second)
	checker.RegisterCheck("store", func(context.Context) error { return errors.New("ping failed") })

	mux := http.NewServeMux()
	Register(mux, checker, "1.2.3", "abc123", "2024-06-30")

	tests := []struct {
		method   string
		path     string
		wantCode int
	}{
		{http.MethodGet, "/health", http.StatusOK},
		{http.MethodHead, "/health", http.StatusOK},
		{http.MethodGet, "/ready", http.StatusServiceUnavailable},
		{http.MethodGet, "/version", http.StatusOK},
		{http.MethodPost, "/health", http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))
			if rec.Code != tt.wantCode {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantCode)
			}
		})
	}

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/version", nil))
	var info VersionInfo
	if err := json.NewDecoder(rec.Body).Decode(&info); err != nil {
		t.Fatalf("decode version: %v", err)
	}
	if info.Version != "1.2.3" || info.Commit != "abc123" || info.GoVersion == "" {
		t.Errorf("Unexpected version info: %+v", info)
	}
}
