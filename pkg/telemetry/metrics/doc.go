// Package metrics provides Prometheus metrics for the signup pruner.
//
// # Overview
//
// Every prune run reports once through Collector.RecordPruneRun. The
// collector owns a private registry so tests and the ops server never see
// metrics registered by other packages.
//
// # Metrics
//
//   - signup_pruner_runs_total{trigger,outcome}
//   - signup_pruner_run_duration_seconds{trigger}
//   - signup_pruner_candidates_fetched_total
//   - signup_pruner_records_selected_total
//   - signup_pruner_records_deleted_total
//   - signup_pruner_delete_failures_total
//   - signup_pruner_malformed_timestamps_total
//   - signup_pruner_last_success_timestamp_seconds
//   - signup_pruner_component_up{component}
//
// The name prefix is Namespace_Subsystem from MetricsConfig (default
// "signup_pruner", no subsystem).
//
// # Usage
//
//	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
//	pruner := prune.NewPruner(store, prune.Options{Metrics: collector})
//	mux.Handle(cfg.Telemetry.Metrics.Path, collector.Handler())
package metrics
