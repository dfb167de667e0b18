package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"bybud-web/internal/domain"
	"bybud-web/internal/guard"
	"bybud-web/internal/http/handlers"
	"bybud-web/internal/http/views"
)

// Middleware is a chi-style middleware.
type Middleware = func(http.Handler) http.Handler

// Middlewares are the request-scoped layers New installs. Nil entries are
// skipped.
type Middlewares struct {
	Observability Middleware
	Locale        Middleware
	Session       Middleware
	LoginLimit    Middleware
}

const pageTimeout = 30 * time.Second

// New constructs a chi-based http.Handler with base middleware and routes.
func New(h *handlers.Handlers, mw Middlewares) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	use(r, mw.Observability)
	r.Use(middleware.Recoverer)

	r.Get("/ping", h.Ping)
	r.Method(http.MethodHead, "/healthcheck", http.HandlerFunc(h.HealthcheckHead))
	r.Handle("/static/*", views.Static())

	r.Group(func(r chi.Router) {
		use(r, mw.Locale)
		use(r, mw.Session)

		// Long-lived; no page timeout.
		r.Get("/session/events", h.SessionEvents)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(pageTimeout))

			r.Get("/", h.Root)
			r.Get("/home", h.Home)
			r.Get("/login", h.LoginForm)
			r.With(limit(mw.LoginLimit)...).Post("/login", h.Login)
			r.Get("/register", h.RegisterForm)
			r.Post("/register", h.Register)
			r.Post("/logout", h.Logout)

			r.Group(func(r chi.Router) {
				r.Use(guard.Require(domain.RoleCustomer))
				r.Get("/delivery", h.CustomerDeliveries)
				r.Post("/delivery/{id}/cancel", h.CancelDelivery)
				r.Get("/delivery/create", h.CreateDeliveryForm)
				r.Post("/delivery/create", h.CreateDelivery)
			})

			r.Group(func(r chi.Router) {
				r.Use(guard.Require(domain.RoleCourier))
				r.Get("/deliveries", h.CourierDeliveries)
				r.Post("/deliveries/{id}/accept", h.AcceptDelivery)
				r.Post("/deliveries/{id}/status", h.UpdateStatus)
				r.Post("/deliveries/{id}/unassign", h.UnassignDelivery)
				r.Get("/courier", h.CourierDashboard)
				r.Post("/courier/{id}/accept", h.DashboardAccept)
				r.Post("/courier/{id}/status", h.DashboardStatus)
			})

			r.With(guard.Require(domain.RoleCustomer, domain.RoleCourier)).Get("/profile", h.Profile)
		})
	})

	r.NotFound(h.NotFound)

	return r
}

func use(r chi.Router, m Middleware) {
	if m != nil {
		r.Use(m)
	}
}

func limit(m Middleware) []Middleware {
	if m == nil {
		return nil
	}
	return []Middleware{m}
}
