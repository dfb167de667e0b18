package handlers

import (
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"

	"bybud-web/internal/http/views"
	"bybud-web/internal/logx"
)

// Handlers serves every page and action of the web client.
type Handlers struct {
	logger      logx.Logger
	views       *views.Renderer
	auth        authUsecase
	users       userUsecase
	deliveries  deliveryUsecase
	sessions    sessionProvider
	upgrader    websocket.Upgrader
	subscribers prometheus.Gauge
	secure      bool
}

// Options carries the optional parts of Handlers.
type Options struct {
	// Subscribers tracks open live-session sockets; may be nil.
	Subscribers prometheus.Gauge
	// SecureCookies marks flash cookies Secure.
	SecureCookies bool
}

// New creates Handlers.
func New(
	logger logx.Logger,
	renderer *views.Renderer,
	auth authUsecase,
	users userUsecase,
	deliveries deliveryUsecase,
	sessions sessionProvider,
	opts Options,
) *Handlers {
	if logger == nil {
		logger = logx.Nop()
	}
	return &Handlers{
		logger:      logger,
		views:       renderer,
		auth:        auth,
		users:       users,
		deliveries:  deliveries,
		sessions:    sessions,
		upgrader:    websocket.Upgrader{ReadBufferSize: 512, WriteBufferSize: 1024},
		subscribers: opts.Subscribers,
		secure:      opts.SecureCookies,
	}
}

// Ping handles GET /ping and returns 200 with {"message":"pong"}.
func (h *Handlers) Ping(w http.ResponseWriter, r *http.Request) {
	writeJSON(h.logger, w, r, http.StatusOK, map[string]string{"message": "pong"})
}

// HealthcheckHead handles HEAD /healthcheck and returns 204 No Content.
func (h *Handlers) HealthcheckHead(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

// NotFound sends unknown paths to the root page.
func (h *Handlers) NotFound(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
