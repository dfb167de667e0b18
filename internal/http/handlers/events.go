package handlers

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"bybud-web/internal/logx"
	"bybud-web/internal/session"
)

const (
	eventsWriteWait  = 10 * time.Second
	eventsPongWait   = 60 * time.Second
	eventsPingPeriod = eventsPongWait * 9 / 10
)

// sessionEvent is what a tab receives; the session id stays server-side.
type sessionEvent struct {
	Key  string             `json:"key"`
	Kind session.ChangeKind `json:"kind"`
}

// SessionEvents handles GET /session/events. Every open tab of a browser
// session keeps one socket and re-reads its state when the record changes.
func (h *Handlers) SessionEvents(w http.ResponseWriter, r *http.Request) {
	sid := session.IDFrom(r.Context())
	if sid == "" {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		reqLogger(h.logger, r).Warn("session events upgrade failed", logx.Err(err))
		return
	}
	defer conn.Close()

	changes, stop := h.sessions.Subscribe(sid)
	defer stop()
	if h.subscribers != nil {
		h.subscribers.Inc()
		defer h.subscribers.Dec()
	}

	// The reader only services control frames and notices the tab leaving.
	gone := make(chan struct{})
	go func() {
		defer close(gone)
		conn.SetReadLimit(512)
		_ = conn.SetReadDeadline(time.Now().Add(eventsPongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(eventsPongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ping := time.NewTicker(eventsPingPeriod)
	defer ping.Stop()

	for {
		select {
		case <-gone:
			return
		case <-r.Context().Done():
			return
		case c, ok := <-changes:
			if !ok {
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(eventsWriteWait))
			if err := conn.WriteJSON(sessionEvent{Key: c.Key, Kind: c.Kind}); err != nil {
				return
			}
		case <-ping.C:
			_ = conn.SetWriteDeadline(time.Now().Add(eventsWriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
