package middleware

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"bybud-web/internal/logx"
	"bybud-web/internal/session"
)

// CookieConfig describes the session id cookie.
type CookieConfig struct {
	Name   string
	Secure bool
	MaxAge time.Duration // 0 makes it a browser-session cookie
}

// SessionCookie returns the cookie carrying sid.
func (c CookieConfig) SessionCookie(sid string) *http.Cookie {
	ck := &http.Cookie{
		Name:     c.Name,
		Value:    sid,
		Path:     "/",
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	}
	if c.MaxAge > 0 {
		ck.MaxAge = int(c.MaxAge.Seconds())
	}
	return ck
}

// Session resolves the visitor's session state once per request and puts it
// in the request context. Visitors without a valid id cookie get a fresh one.
func Session(provider *session.Provider, cfg CookieConfig, logger logx.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = logx.Nop()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sid := ""
			if ck, err := r.Cookie(cfg.Name); err == nil {
				if _, perr := uuid.Parse(ck.Value); perr == nil {
					sid = ck.Value
				}
			}
			if sid == "" {
				sid = uuid.NewString()
				http.SetCookie(w, cfg.SessionCookie(sid))
				logger.Debug("session id issued", logx.String("path", r.URL.Path))
			}

			st := provider.Load(r.Context(), sid)
			ctx := session.WithID(r.Context(), sid)
			ctx = session.WithState(ctx, st)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
