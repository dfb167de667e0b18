// Package opsserver exposes metrics and profiling for operators.
package opsserver

import (
	"net"
	"net/http"
	"net/netip"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const realm = "ops"

// Config holds the basic-auth credentials remote callers must present.
// Loopback callers need none; without credentials only loopback is served.
type Config struct {
	User string
	Pass string
}

// Handler serves /metrics from gatherer and chi's profiler under /debug.
func Handler(cfg Config, gatherer prometheus.Gatherer) http.Handler {
	r := chi.NewRouter()
	r.Use(loopbackOrBasicAuth(cfg))
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	r.Mount("/debug", middleware.Profiler())
	return r
}

func loopbackOrBasicAuth(cfg Config) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		deny := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("WWW-Authenticate", `Basic realm="`+realm+`"`)
			w.WriteHeader(http.StatusUnauthorized)
		})
		remote := deny
		if cfg.User != "" && cfg.Pass != "" {
			remote = middleware.BasicAuth(realm, map[string]string{cfg.User: cfg.Pass})(next).ServeHTTP
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if fromLoopback(r.RemoteAddr) {
				next.ServeHTTP(w, r)
				return
			}
			remote.ServeHTTP(w, r)
		})
	}
}

func fromLoopback(remoteAddr string) bool {
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		host = remoteAddr
	}
	addr, err := netip.ParseAddr(host)
	return err == nil && addr.Unmap().IsLoopback()
}
