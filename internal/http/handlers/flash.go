package handlers

import (
	"encoding/base64"
	"encoding/json"
	"net/http"

	"bybud-web/internal/http/views"
)

const (
	flashCookie  = "bybud_flash"
	flashSuccess = "success"
	flashError   = "error"
)

// flash queues a notification for the next rendered page.
func (h *Handlers) flash(w http.ResponseWriter, kind, msg string) {
	raw, err := json.Marshal(views.Flash{Kind: kind, Message: msg})
	if err != nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookie,
		Value:    base64.RawURLEncoding.EncodeToString(raw),
		Path:     "/",
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// popFlash returns the pending notification, if any, and clears it.
func (h *Handlers) popFlash(w http.ResponseWriter, r *http.Request) *views.Flash {
	ck, err := r.Cookie(flashCookie)
	if err != nil || ck.Value == "" {
		return nil
	}
	http.SetCookie(w, &http.Cookie{Name: flashCookie, Path: "/", MaxAge: -1, HttpOnly: true, Secure: h.secure})

	raw, err := base64.RawURLEncoding.DecodeString(ck.Value)
	if err != nil {
		return nil
	}
	var f views.Flash
	if err := json.Unmarshal(raw, &f); err != nil || f.Message == "" {
		return nil
	}
	if f.Kind != flashSuccess {
		f.Kind = flashError
	}
	return &f
}
