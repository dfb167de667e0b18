package app

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/dig"

	"bybud-web/internal/config"
	"bybud-web/internal/http/handlers"
	"bybud-web/internal/http/middleware"
	"bybud-web/internal/http/middleware/ratelimit"
	"bybud-web/internal/http/opsserver"
	"bybud-web/internal/http/router"
	"bybud-web/internal/http/views"
	"bybud-web/internal/locale"
	"bybud-web/internal/logx"
	"bybud-web/internal/session"
)

type handlerOptionsIn struct {
	dig.In

	Config      *config.Config
	Subscribers prometheus.Gauge `name:"session_event_subscribers"`
}

type middlewaresIn struct {
	dig.In

	Config    *config.Config
	Logger    logx.Logger
	HTTP      middleware.HTTPMetrics
	Locale    *locale.Resolver
	Provider  *session.Provider
	RateLimit *ratelimit.Middleware
}

type opsServerOut struct {
	dig.Out

	Server *http.Server `name:"ops_server"`
}

func registerHTTP(container *dig.Container) error {
	serverProvider := func(cfg *config.Config, mux http.Handler) *http.Server {
		return &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.Port),
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      45 * time.Second,
			IdleTimeout:       60 * time.Second,
		}
	}
	opsProvider := func(cfg *config.Config, gatherer prometheus.Gatherer) opsServerOut {
		if !cfg.Ops.Enabled {
			return opsServerOut{}
		}
		return opsServerOut{Server: &http.Server{
			Addr:              cfg.Ops.Addr,
			Handler:           opsserver.Handler(opsserver.Config{User: cfg.Ops.User, Pass: cfg.Ops.Pass}, gatherer),
			ReadHeaderTimeout: 5 * time.Second,
		}}
	}
	return provideAll(container,
		views.New,
		handlers.NewAuthUsecase,
		handlers.NewUserUsecase,
		handlers.NewDeliveryUsecase,
		handlers.NewSessionProvider,
		func(in handlerOptionsIn) handlers.Options {
			return handlers.Options{Subscribers: in.Subscribers, SecureCookies: in.Config.Session.CookieSecure}
		},
		handlers.New,
		newRateLimitClock,
		newRateLimiter,
		newRateLimitMiddleware,
		func(in middlewaresIn) router.Middlewares {
			cookie := middleware.CookieConfig{
				Name:   in.Config.Session.Cookie,
				Secure: in.Config.Session.CookieSecure,
				MaxAge: in.Config.Session.TTL,
			}
			return router.Middlewares{
				Observability: middleware.Observability(in.Logger, in.HTTP),
				Locale:        in.Locale.Middleware,
				Session:       middleware.Session(in.Provider, cookie, in.Logger),
				LoginLimit:    in.RateLimit.Handler(),
			}
		},
		router.New,
		serverProvider,
		opsProvider,
	)
}
