package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics records composer activity as Prometheus series
type Metrics struct {
	composeTotal  *prometheus.CounterVec
	missingFields *prometheus.CounterVec
	duration      *prometheus.HistogramVec
}

// New creates the composer metrics and registers them with reg
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		composeTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "composer_requests_total",
				Help: "Composer invocations by provider and result source",
			},
			[]string{"provider", "source"},
		),
		missingFields: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "composer_missing_fields_total",
				Help: "Fields replaced by a diagnostic placeholder",
			},
			[]string{"field"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "composer_request_duration_seconds",
				Help:    "Composer invocation latency including the provider call",
				Buckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
			},
			[]string{"provider"},
		),
	}
	reg.MustRegister(m.composeTotal, m.missingFields, m.duration)
	return m
}

// RecordCompose implements composer.Recorder
func (m *Metrics) RecordCompose(provider, source string, missing []string, elapsed time.Duration) {
	m.composeTotal.WithLabelValues(provider, source).Inc()
	for _, field := range missing {
		m.missingFields.WithLabelValues(field).Inc()
	}
	m.duration.WithLabelValues(provider).Observe(elapsed.Seconds())
}
