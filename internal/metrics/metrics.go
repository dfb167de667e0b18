package metrics

import "github.com/prometheus/client_golang/prometheus"

// NewRateLimitExceededTotal returns a Prometheus counter for the number of rejected HTTP requests due to rate limiting
func NewRateLimitExceededTotal() prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Name: "rate_limit_exceeded_total",
		Help: "Total number of rejected HTTP requests due to rate limiting",
	})
}

// NewGatewayRequestsTotal returns a counter of backend API calls by client and outcome
// (ok, rejected, transport).
func NewGatewayRequestsTotal() *prometheus.CounterVec {
	return prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "gateway_requests_total",
		Help: "Total number of requests sent to the API gateway",
	}, []string{"client", "outcome"})
}

// NewSessionChangesTotal returns a counter of session record writes and clears.
func NewSessionChangesTotal() *prometheus.CounterVec {
	return prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "session_changes_total",
		Help: "Total number of session record changes",
	}, []string{"kind"})
}

// NewSessionSubscribers returns a gauge of open live-session connections.
func NewSessionSubscribers() prometheus.Gauge {
	return prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "session_event_subscribers",
		Help: "Number of browser tabs listening for session changes",
	})
}
