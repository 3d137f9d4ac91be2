package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// total requests per endpoint, method and status code
	RequestCount = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "adrotor_requests_total",
			Help: "Total API requests received",
		},
		[]string{"endpoint", "method", "status"},
	)

	// request latency in seconds per endpoint/method
	RequestLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "adrotor_request_duration_seconds",
			Help:    "Histogram of request latencies",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint", "method"},
	)

	// top slot assignments per owner and device class
	TopAssignmentCount = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "adrotor_top_assignments_total",
			Help: "Top slot assignments per owner and device",
		},
		[]string{"owner", "device"},
	)

	// number of events recorded, labelled by type
	EventCount = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "adrotor_events_total",
			Help: "Total events recorded",
		},
		[]string{"type"},
	)

	// config fetches, labelled by outcome (hit, fetch, error)
	ConfigFetchCount = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "adrotor_config_fetch_total",
			Help: "Config document lookups by outcome",
		},
		[]string{"outcome"},
	)
)

func init() {
	prometheus.MustRegister(
		RequestCount,
		RequestLatency,
		TopAssignmentCount,
		EventCount,
		ConfigFetchCount,
	)
}
