package metrics

import (
	"time"

	"mercator-hq/signup-pruner/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// PruneMetrics tracks prune runs and the records they touch.
type PruneMetrics struct {
	runsTotal   *prometheus.CounterVec
	runDuration *prometheus.HistogramVec

	fetchedTotal   prometheus.Counter
	selectedTotal  prometheus.Counter
	malformedTotal prometheus.Counter
	deletedTotal   prometheus.Counter
	failuresTotal  prometheus.Counter

	lastSuccess prometheus.Gauge
}

// NewPruneMetrics creates and registers prune metrics with the provided registry.
func NewPruneMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *PruneMetrics {
	counter := func(name, help string) prometheus.Counter {
		return prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      name,
			Help:      help,
		})
	}

	pm := &PruneMetrics{
		runsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "runs_total",
				Help:      "Total number of prune runs by trigger and outcome",
			},
			[]string{"trigger", "outcome"},
		),

		runDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "run_duration_seconds",
				Help:      "Duration of prune runs in seconds",
				Buckets:   cfg.RunDurationBuckets,
			},
			[]string{"trigger"},
		),

		fetchedTotal:   counter("candidates_fetched_total", "Inactive signups returned by the store"),
		selectedTotal:  counter("records_selected_total", "Inactive signups old enough to delete"),
		malformedTotal: counter("malformed_timestamps_total", "Signups skipped because their registration time could not be parsed"),
		deletedTotal:   counter("records_deleted_total", "Signups deleted"),
		failuresTotal:  counter("delete_failures_total", "Signup deletes that returned an error"),

		lastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time of the last prune run that reached the store",
		}),
	}

	registry.MustRegister(
		pm.runsTotal,
		pm.runDuration,
		pm.fetchedTotal,
		pm.selectedTotal,
		pm.malformedTotal,
		pm.deletedTotal,
		pm.failuresTotal,
		pm.lastSuccess,
	)

	return pm
}

// RecordRun counts one run and observes its duration.
func (pm *PruneMetrics) RecordRun(trigger, outcome string, duration time.Duration) {
	pm.runsTotal.WithLabelValues(trigger, outcome).Inc()
	pm.runDuration.WithLabelValues(trigger).Observe(duration.Seconds())
}

// RecordCounts adds the per-run record counts.
func (pm *PruneMetrics) RecordCounts(fetched, selected, malformed, deleted, failed int) {
	pm.fetchedTotal.Add(float64(fetched))
	pm.selectedTotal.Add(float64(selected))
	pm.malformedTotal.Add(float64(malformed))
	pm.deletedTotal.Add(float64(deleted))
	pm.failuresTotal.Add(float64(failed))
}

// MarkSuccess sets the last-success gauge.
func (pm *PruneMetrics) MarkSuccess(at time.Time) {
	pm.lastSuccess.Set(float64(at.Unix()))
}
