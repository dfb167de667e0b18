package app

import (
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/dig"

	"bybud-web/internal/http/middleware"
	"bybud-web/internal/metrics"
)

type metricsOut struct {
	dig.Out

	RateLimitExceededTotal prometheus.Counter     `name:"rate_limit_exceeded_total"`
	GatewayRequestsTotal   *prometheus.CounterVec `name:"gateway_requests_total"`
	SessionChangesTotal    *prometheus.CounterVec `name:"session_changes_total"`
	SessionSubscribers     prometheus.Gauge       `name:"session_event_subscribers"`
	HTTP                   middleware.HTTPMetrics
	Gatherer               prometheus.Gatherer
}

// provideMetrics registers every collector on the default registry. A
// collector registered earlier under the same name is reused.
func provideMetrics() (metricsOut, error) {
	reg := prometheus.DefaultRegisterer
	var (
		out metricsOut
		err error
	)
	if out.RateLimitExceededTotal, err = register(reg, "rate_limit_exceeded_total", metrics.NewRateLimitExceededTotal()); err != nil {
		return metricsOut{}, err
	}
	if out.GatewayRequestsTotal, err = register(reg, "gateway_requests_total", metrics.NewGatewayRequestsTotal()); err != nil {
		return metricsOut{}, err
	}
	if out.SessionChangesTotal, err = register(reg, "session_changes_total", metrics.NewSessionChangesTotal()); err != nil {
		return metricsOut{}, err
	}
	if out.SessionSubscribers, err = register(reg, "session_event_subscribers", metrics.NewSessionSubscribers()); err != nil {
		return metricsOut{}, err
	}

	m := middleware.NewHTTPMetrics()
	if m.Requests, err = register(reg, "http_requests_total", m.Requests); err != nil {
		return metricsOut{}, err
	}
	if m.Duration, err = register(reg, "http_request_duration_seconds", m.Duration); err != nil {
		return metricsOut{}, err
	}
	out.HTTP = m
	out.Gatherer = prometheus.DefaultGatherer
	return out, nil
}

func register[T prometheus.Collector](reg prometheus.Registerer, name string, c T) (T, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(T); ok {
				return existing, nil
			}
		}
		return c, fmt.Errorf("register %s: %w", name, err)
	}
	return c, nil
}
