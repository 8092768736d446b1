package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters and histograms for the analysis flow.
type Metrics struct {
	AnalysesTotal      *prometheus.CounterVec // labels: outcome={success,validation_error}
	ValidationFailures prometheus.Counter

	// Upstream API metrics.
	UpstreamRequests *prometheus.CounterVec   // labels: source={census,bls}, outcome={success,error,empty}
	UpstreamDuration *prometheus.HistogramVec // labels: source={census,bls}

	// Result publishing metrics.
	PublishesTotal *prometheus.CounterVec // labels: outcome={success,error}
	PublishEnabled prometheus.Gauge
}

// NewMetrics creates and registers all service metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.AnalysesTotal,
		m.ValidationFailures,
		m.UpstreamRequests,
		m.UpstreamDuration,
		m.PublishesTotal,
		m.PublishEnabled,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		AnalysesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cityscout",
			Name:      "analyses_total",
			Help:      "Completed analyses by outcome.",
		}, []string{"outcome"}),
		ValidationFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "cityscout",
			Name:      "validation_failures_total",
			Help:      "Analyses rejected for invalid city or state input.",
		}),
		UpstreamRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cityscout",
			Name:      "upstream_requests_total",
			Help:      "Upstream API requests by source and outcome.",
		}, []string{"source", "outcome"}),
		UpstreamDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "cityscout",
			Name:      "upstream_request_duration_seconds",
			Help:      "Upstream API request duration in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"source"}),
		PublishesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cityscout",
			Name:      "publishes_total",
			Help:      "Analysis records published to the sink topic by outcome.",
		}, []string{"outcome"}),
		PublishEnabled: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "cityscout",
			Name:      "publish_enabled",
			Help:      "1 when result publishing is enabled, 0 otherwise.",
		}),
	}
}
