// Package tracing provides OpenTelemetry tracing for prune runs.
//
// When tracing is disabled the Tracer hands out noop spans. When enabled,
// spans are batched to an OTLP/gRPC collector:
//
//	telemetry:
//	  tracing:
//	    enabled: true
//	    endpoint: otel-collector:4317
//	    insecure: true
//	    sampler: always
//
// Each run produces a "signup.prune" span with "signup.fetch" and
// "signup.delete" children carrying record counts as attributes.
//
//	tracer, err := tracing.New(&cfg.Telemetry.Tracing)
//	if err != nil {
//	    return err
//	}
//	defer tracer.Shutdown(context.Background())
//	pruner := prune.NewPruner(store, prune.Options{Tracer: tracer})
package tracing
