package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"bybud-web/internal/apperr"
	"bybud-web/internal/domain"
	"bybud-web/internal/http/views"
	"bybud-web/internal/locale"
	"bybud-web/internal/logx"
	"bybud-web/internal/session"
)

func writeJSON(logger logx.Logger, w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		logger.Error("json encode failed",
			logx.String("request_id", middleware.GetReqID(r.Context())),
			logx.Err(err),
		)
	}
}

// render shows a page, consuming any pending flash.
func (h *Handlers) render(w http.ResponseWriter, r *http.Request, status int, name, title string, data any) {
	h.views.Render(w, status, name, h.page(w, r, title, data))
}

func (h *Handlers) page(w http.ResponseWriter, r *http.Request, title string, data any) views.Page {
	st := session.StateFrom(r.Context())
	return views.Page{
		Title:  title,
		Nav:    views.NavFor(st.Authenticated, st.Roles),
		Flash:  h.popFlash(w, r),
		Locale: locale.FromContext(r.Context()),
		Data:   data,
	}
}

// fail replaces a page's content with an error and raises a notification.
func (h *Handlers) fail(w http.ResponseWriter, r *http.Request, name, title string, err error, fallback string) {
	msg := apperr.Message(err, fallback)
	h.logger.Warn("page load failed",
		logx.String("request_id", middleware.GetReqID(r.Context())),
		logx.String("page", name),
		logx.Err(err),
	)
	p := h.page(w, r, title, nil)
	p.Error = msg
	p.Flash = &views.Flash{Kind: flashError, Message: fallback}
	h.views.Render(w, statusFor(err), name, p)
}

// statusFor maps an error onto the status of the re-rendered page.
func statusFor(err error) int {
	var ve *apperr.ValidationError
	var be *apperr.BackendError
	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &ve):
		return http.StatusUnprocessableEntity
	case errors.Is(err, apperr.ErrNoSession):
		return http.StatusUnauthorized
	case errors.As(err, &be) && be.Status >= 400 && be.Status < 500:
		return be.Status
	default:
		return http.StatusBadGateway
	}
}

func seeOther(w http.ResponseWriter, r *http.Request, path string) {
	http.Redirect(w, r, path, http.StatusSeeOther)
}

// record is the session record of the request.
func record(r *http.Request) domain.Session {
	rec, _ := session.RecordFrom(r.Context())
	return rec
}

func reqLogger(logger logx.Logger, r *http.Request) logx.Logger {
	return logger.With(logx.String("request_id", middleware.GetReqID(r.Context())))
}
