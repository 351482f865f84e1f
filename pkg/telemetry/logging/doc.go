// Package logging configures the process-wide slog logger.
//
// # Overview
//
// The logging package wraps Go's standard log/slog package to provide:
//   - JSON or text output to stdout or a size-rotated file
//   - PII redaction of emails, passwords and DSN credentials
//   - Run-scoped fields (run_id, trigger, trace_id) taken from the context
//   - A level that can be changed at runtime on config reload
//
// # Usage
//
//	logger, err := logging.New(logging.Config{
//	    Level:     "info",
//	    Format:    "json",
//	    RedactPII: true,
//	    File:      "/var/log/signup-pruner.log",
//	})
//	if err != nil {
//	    return err
//	}
//	defer logger.Close()
//	logger.SetDefault()
//
//	ctx = logging.WithRunID(ctx, runID)
//	slog.InfoContext(ctx, "prune started") // includes run_id
//
// Components keep using slog.Default().With("component", ...) and pick up the
// configured handler once SetDefault has been called.
package logging
