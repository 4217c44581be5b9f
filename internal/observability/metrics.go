// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Upstream metrics
	UpstreamRequests *prometheus.CounterVec
	UpstreamLatency  *prometheus.HistogramVec

	// HTTP serving metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec
	HTTPInflight prometheus.Gauge

	// Trade metrics
	TradeAttempts *prometheus.CounterVec

	// View metrics
	StaleResponsesDropped prometheus.Counter
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "solana_token_desk"
	}

	return &Metrics{
		UpstreamRequests: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "upstream",
			Name:      "requests_total",
			Help:      "Total upstream HTTP requests by client and outcome",
		}, []string{"client", "outcome"}),
		UpstreamLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "upstream",
			Name:      "request_duration_seconds",
			Help:      "Upstream HTTP request duration",
			Buckets:   prometheus.DefBuckets,
		}, []string{"client"}),
		HTTPRequests: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total served HTTP requests by route and status",
		}, []string{"route", "status"}),
		HTTPDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Served HTTP request duration",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
		HTTPInflight: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_inflight",
			Help:      "HTTP requests currently being served",
		}),
		TradeAttempts: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "trade",
			Name:      "attempts_total",
			Help:      "Trade attempts by terminal state",
		}, []string{"state"}),
		StaleResponsesDropped: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "view",
			Name:      "stale_responses_dropped_total",
			Help:      "Fetch completions discarded by the generation guard",
		}),
	}
}

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// DefaultMetrics is the process-wide metrics instance.
var DefaultMetrics = NewMetrics("")

// RecordUpstreamRequest records one upstream HTTP request.
func RecordUpstreamRequest(client, outcome string, seconds float64) {
	DefaultMetrics.UpstreamRequests.WithLabelValues(client, outcome).Inc()
	DefaultMetrics.UpstreamLatency.WithLabelValues(client).Observe(seconds)
}

// RecordHTTPRequest records one served HTTP request.
func RecordHTTPRequest(route, status string, seconds float64) {
	DefaultMetrics.HTTPRequests.WithLabelValues(route, status).Inc()
	DefaultMetrics.HTTPDuration.WithLabelValues(route).Observe(seconds)
}

// RecordTradeAttempt records the terminal state of a trade attempt.
func RecordTradeAttempt(state string) {
	DefaultMetrics.TradeAttempts.WithLabelValues(state).Inc()
}

// RecordStaleResponseDropped records a discarded stale fetch completion.
func RecordStaleResponseDropped() {
	DefaultMetrics.StaleResponsesDropped.Inc()
}
