package config

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long the Watcher waits for writes to settle.
const DefaultDebounce = 250 * time.Millisecond

// Watcher reloads a configuration file when it changes on disk. It watches
// the parent directory so editors that replace the file are noticed too.
type Watcher struct {
	path     string
	debounce time.Duration
	reload   func() error
	logger   *slog.Logger
}

// NewWatcher creates a watcher for path. reload defaults to ReloadConfig.
func NewWatcher(path string, debounce time.Duration, reload func() error, logger *slog.Logger) *Watcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if reload == nil {
		reload = ReloadConfig
	}
	if logger == nil {
		logger = slog.Default().With("component", "config.watcher")
	}

	return &Watcher{
		path:     filepath.Clean(path),
		debounce: debounce,
		reload:   reload,
		logger:   logger,
	}
}

// Run blocks until ctx is cancelled, calling reload once per burst of
// changes to the file.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	defer fsw.Close()

	if err := fsw.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("failed to watch %q: %w", w.path, err)
	}

	w.logger.Info("Config watcher started",
		"path", w.path,
		"debounce_ms", w.debounce.Milliseconds(),
	)

	var (
		mu    sync.Mutex
		timer *time.Timer
	)
	defer func() {
		mu.Lock()
		if timer != nil {
			timer.Stop()
		}
		mu.Unlock()
	}()

	fire := func() {
		if ctx.Err() != nil {
			return
		}
		if err := w.reload(); err != nil {
			w.logger.Error("Config reload failed, keeping previous configuration", "error", err)
			return
		}
		w.logger.Info("Config reloaded", "path", w.path)
	}

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("Config watcher stopped")
			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			if !w.relevant(event) {
				continue
			}

			mu.Lock()
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(w.debounce, fire)
			mu.Unlock()

		case err, ok := <-fsw.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			w.logger.Error("Config watcher error", "error", err)
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != w.path {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename)
}
