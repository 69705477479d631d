package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the alerts service.
type Metrics struct {
	HTTPRequests        *prometheus.CounterVec   // labels: route, status
	HTTPRequestDuration *prometheus.HistogramVec // labels: route

	QueryDuration *prometheus.HistogramVec // labels: query
	SnapshotSize  prometheus.Gauge

	Mutations *prometheus.CounterVec // labels: entity, action, outcome={success,error}

	// Change-event publishing metrics.
	EventsPublished prometheus.Counter
	PublishErrors   prometheus.Counter
	PublishEnabled  prometheus.Gauge
}

// NewMetrics creates and registers all service metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()

	prometheus.MustRegister(
		m.HTTPRequests,
		m.HTTPRequestDuration,
		m.QueryDuration,
		m.SnapshotSize,
		m.Mutations,
		m.EventsPublished,
		m.PublishErrors,
		m.PublishEnabled,
	)

	return m
}

// NewMetricsForTesting creates unregistered Metrics to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "safetynet",
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status code.",
		}, []string{"route", "status"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "safetynet",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration by route.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"route"}),
		QueryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "safetynet",
			Name:      "query_duration_seconds",
			Help:      "Duration of an aggregation query including the snapshot load.",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		}, []string{"query"}),
		SnapshotSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "safetynet",
			Name:      "snapshot_persons",
			Help:      "Number of persons in the most recently loaded snapshot.",
		}),
		Mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "safetynet",
			Name:      "mutations_total",
			Help:      "Dataset mutations by entity, action, and outcome.",
		}, []string{"entity", "action", "outcome"}),
		EventsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "safetynet",
			Name:      "change_events_published_total",
			Help:      "Total change events written to the events topic.",
		}),
		PublishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "safetynet",
			Name:      "change_event_publish_errors_total",
			Help:      "Total change events that could not be published.",
		}),
		PublishEnabled: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "safetynet",
			Name:      "change_events_enabled",
			Help:      "1 when change-event publishing is enabled, 0 otherwise.",
		}),
	}
}
