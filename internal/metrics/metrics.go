// Package metrics holds the Prometheus collectors of the service. All of
// them are registered with the default registry during package initialization.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	HTTPRequestTotals = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_request_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"method", "path"},
	)

	ReportSubmissions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "report_submissions_total",
			Help: "Submitted reports by where they were persisted",
		},
		[]string{"outcome"},
	)

	ReportsReconciled = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "report_reconciled_total",
			Help: "Locally queued reports delivered to the remote store",
		},
	)

	FallbackQueueLength = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "report_fallback_queue_length",
			Help: "Reports waiting in the local fallback queue",
		},
	)

	RateLimiterBucketsTotal = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "rate_limiter_buckets_total",
			Help: "Number of per-client rate limiter buckets",
		},
	)
)

func init() {
	prometheus.MustRegister(HTTPRequestTotals)
	prometheus.MustRegister(HTTPRequestDuration)
	prometheus.MustRegister(ReportSubmissions)
	prometheus.MustRegister(ReportsReconciled)
	prometheus.MustRegister(FallbackQueueLength)
	prometheus.MustRegister(RateLimiterBucketsTotal)
}
