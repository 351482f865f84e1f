package metrics

import (
	"mercator-hq/signup-pruner/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// HealthMetrics exposes the health of the pruner's dependencies.
type HealthMetrics struct {
	componentUp *prometheus.GaugeVec
}

// NewHealthMetrics creates and registers health metrics with the provided registry.
func NewHealthMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *HealthMetrics {
	hm := &HealthMetrics{
		componentUp: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "component_up",
				Help:      "Component health status (1=healthy, 0=unhealthy)",
			},
			[]string{"component"},
		),
	}

	registry.MustRegister(hm.componentUp)
	return hm
}

// UpdateHealth sets the gauge for component.
func (hm *HealthMetrics) UpdateHealth(component string, healthy bool) {
	value := 0.0
	if healthy {
		value = 1.0
	}
	hm.componentUp.WithLabelValues(component).Set(value)
}
