package metrics

import (
	"time"

	"mercator-hq/signup-pruner/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector is the entry point for all Prometheus metrics of the pruner.
type Collector struct {
	config   *config.MetricsConfig
	registry *prometheus.Registry

	pruneMetrics  *PruneMetrics
	healthMetrics *HealthMetrics
}

// NewCollector creates a new metrics collector with the specified configuration
// and Prometheus registry. If registry is nil, a new private registry is used.
func NewCollector(cfg *config.MetricsConfig, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	if cfg.Namespace == "" {
		cfg.Namespace = "signup_pruner"
	}
	if len(cfg.RunDurationBuckets) == 0 {
		// A run is one SELECT plus up to batch_limit single-row DELETEs.
		cfg.RunDurationBuckets = []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30, 60}
	}

	return &Collector{
		config:        cfg,
		registry:      registry,
		pruneMetrics:  NewPruneMetrics(cfg, registry),
		healthMetrics: NewHealthMetrics(cfg, registry),
	}
}

// RecordPruneRun records metrics for a finished prune run.
//
// Parameters:
//   - trigger: what started the run ("prune_old_signups", "manual", ...)
//   - outcome: "success", "partial", "unavailable" or "dry_run"
//   - fetched, selected, malformed, deleted, failed: per-run record counts
//   - duration: wall time of the run
func (c *Collector) RecordPruneRun(trigger, outcome string, fetched, selected, malformed, deleted, failed int, duration time.Duration) {
	if !c.config.Enabled {
		return
	}

	c.pruneMetrics.RecordRun(trigger, outcome, duration)
	c.pruneMetrics.RecordCounts(fetched, selected, malformed, deleted, failed)

	if outcome == "success" || outcome == "partial" {
		c.pruneMetrics.MarkSuccess(time.Now())
	}
}

// UpdateComponentHealth sets the up gauge of a component ("store",
// "scheduler", "triggers") to 1 when healthy and 0 otherwise.
func (c *Collector) UpdateComponentHealth(component string, healthy bool) {
	if !c.config.Enabled {
		return
	}

	c.healthMetrics.UpdateHealth(component, healthy)
}

// Registry returns the Prometheus registry used by this collector.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}
