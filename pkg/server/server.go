package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"mercator-hq/signup-pruner/pkg/config"
	"mercator-hq/signup-pruner/pkg/telemetry/health"
)

// BuildInfo is reported on /version.
type BuildInfo struct {
	Version   string
	Commit    string
	BuildTime string
}

// Server is the ops HTTP server.
type Server struct {
	config     *config.ServerConfig
	handler    http.Handler
	logger     *slog.Logger
	httpServer *http.Server

	mu       sync.RWMutex
	listener net.Listener
}

// Routes builds the ops mux. metrics may be nil to leave the metrics path
// unmounted.
func Routes(checker *health.Checker, metrics http.Handler, metricsPath string, build BuildInfo) *http.ServeMux {
	mux := http.NewServeMux()
	health.Register(mux, checker, build.Version, build.Commit, build.BuildTime)
	if metrics != nil && metricsPath != "" {
		mux.Handle(metricsPath, metrics)
	}
	return mux
}

// NewServer creates an ops server serving handler.
func NewServer(cfg *config.ServerConfig, handler http.Handler) *Server {
	logger := slog.Default().With("component", "server")
	return &Server{
		config:  cfg,
		handler: recoverMiddleware(logger, logMiddleware(logger, handler)),
		logger:  logger,
	}
}

// Start listens on the configured address and serves until ctx is
// cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.config.ListenAddress)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.config.ListenAddress, err)
	}

	s.mu.Lock()
	if s.listener != nil {
		s.mu.Unlock()
		ln.Close()
		return fmt.Errorf("server is already running")
	}
	s.listener = ln
	s.httpServer = &http.Server{
		Handler:      s.handler,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}
	srv := s.httpServer
	s.mu.Unlock()

	s.logger.Info("Starting ops server", "address", ln.Addr().String())

	errChan := make(chan error, 1)
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("server error: %w", err)
		}
		close(errChan)
	}()

	select {
	case <-ctx.Done():
		return s.shutdown()
	case err, ok := <-errChan:
		if ok {
			return err
		}
		return nil
	}
}

func (s *Server) shutdown() error {
	s.mu.RLock()
	srv := s.httpServer
	s.mu.RUnlock()

	timeout := s.config.ShutdownTimeout
	if timeout <= 0 {
		timeout = config.DefaultShutdownTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		s.logger.Error("Error during ops server shutdown", "error", err)
		return fmt.Errorf("server shutdown error: %w", err)
	}

	s.mu.Lock()
	s.listener = nil
	s.mu.Unlock()

	s.logger.Info("Ops server stopped")
	return nil
}

// Addr returns the bound address, or "" when the server is not running.
func (s *Server) Addr() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Handler returns the wrapped handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func logMiddleware(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		logger.DebugContext(r.Context(), "Ops request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

func recoverMiddleware(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if p := recover(); p != nil {
				logger.Error("Panic in ops handler", "path", r.URL.Path, "panic", p)
				http.Error(w, "internal server error", http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
