package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"mercator-hq/signup-pruner/pkg/config"
	"mercator-hq/signup-pruner/pkg/telemetry/health"
)

func testServerConfig() *config.ServerConfig {
	return &config.ServerConfig{
		Enabled:         true,
		ListenAddress:   "127.0.0.1:0",
		ReadTimeout:     time.Second,
		WriteTimeout:    time.Second,
		ShutdownTimeout: time.Second,
	}
}

func TestRoutes(t *testing.T) {
	checker := health.New(time.Second)
	checker.RegisterCheck("store", func(context.Context) error { return nil })

	metrics := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "signup_pruner_runs_total 1\n")
	})

	handler := NewServer(testServerConfig(), Routes(checker, metrics, "/metrics", BuildInfo{Version: "dev"})).Handler()

	tests := []struct {
		path     string
		wantCode int
		wantBody string
	}{
		{"/health", http.StatusOK, `"status":"ok"`},
		{"/ready", http.StatusOK, `"status":"ready"`},
		{"/version", http.StatusOK, `"version":"dev"`},
		{"/metrics", http.StatusOK, "signup_pruner_runs_total"},
		{"/nope", http.StatusNotFound, ""},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))

			if rec.Code != tt.wantCode {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantCode)
			}
			if !strings.Contains(rec.Body.String(), tt.wantBody) {
				t.Errorf("body %q does not contain %q", rec.Body.String(), tt.wantBody)
			}
		})
	}
}

func TestRoutes_NoMetrics(t *testing.T) {
	mux := Routes(health.New(0), nil, "/metrics", BuildInfo{})

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestRecoverMiddleware(t *testing.T) {
	panicky := http.HandlerFunc(func(http.ResponseWriter, *http.Request) { panic("boom") })
	handler := NewServer(testServerConfig(), panicky).Handler()

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
}

func TestServer_StartAndShutdown(t *testing.T) {
	srv := NewServer(testServerConfig(), Routes(health.New(time.Second), nil, "", BuildInfo{}))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Start(ctx) }()

	deadline := time.Now().Add(2 * time.Second)
	for srv.Addr() == "" && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	addr := srv.Addr()
	if addr == "" {
		t.Fatal("server did not start")
	}

	resp, err := http.Get("http://" + addr + "/health")
	if err != nil {
		t.Fatalf("GET /health: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Start() error = %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("server did not shut down")
	}
	if srv.Addr() != "" {
		t.Error("expected Addr() to be empty after shutdown")
	}
}

func TestServer_ListenError(t *testing.T) {
	cfg := testServerConfig()
	cfg.ListenAddress = "256.0.0.1:bad"

	err := NewServer(cfg, http.NotFoundHandler()).Start(context.Background())
	if err == nil || errors.Is(err, context.Canceled) {
		t.Errorf("expected listen error, got %v", err)
	}
}
