// Package telemetry groups the pruner's observability packages.
//
//   - logging: slog handlers with run id fields, PII redaction and file rotation
//   - metrics: Prometheus collectors for prune runs and component health
//   - tracing: OpenTelemetry spans for runs, fetches and deletes
//   - health: liveness and readiness checks for the ops server
//
// The run command wires them together:
//
//	logger, _ := logging.New(logging.Config{Level: "info", RedactPII: true})
//	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
//	tracer, _ := tracing.New(&cfg.Telemetry.Tracing)
//
//	pruner := prune.NewPruner(store, prune.Options{
//		Logger:  logger.Logger,
//		Metrics: collector,
//		Tracer:  tracer,
//	})
//
// Email addresses in log values are masked to "***@domain" when redaction
// is on, so user_email never reaches the logs in clear.
package telemetry
