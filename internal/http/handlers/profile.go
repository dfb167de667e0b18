package handlers

import (
	"net/http"

	"bybud-web/internal/apperr"
	"bybud-web/internal/domain"
	"bybud-web/internal/http/views"
	"bybud-web/internal/locale"
	"bybud-web/internal/logx"
	"bybud-web/internal/session"
)

type profileData struct {
	User         *domain.User
	TokenExpires string
	Deliveries   []domain.Delivery
}

// Profile handles GET /profile: the user's details and the deliveries they
// are associated with as a customer, or as a courier when that is their
// only role.
func (h *Handlers) Profile(w http.ResponseWriter, r *http.Request) {
	rec := record(r)
	viewer, ok := domain.ViewerFor(rec, domain.RoleCustomer)
	if !ok {
		h.fail(w, r, views.PageProfile, "Profile", apperr.ErrNoSession, "Failed to load profile data")
		return
	}

	var data profileData
	u, err := h.users.GetUserDetailsByUsernameOrEmail(r.Context(), rec.Username)
	switch {
	case err == nil:
		data.User = &u
	case apperr.IsUnauthorized(err):
		h.fail(w, r, views.PageProfile, "Profile", err, "Failed to load profile data")
		return
	default:
		reqLogger(h.logger, r).Warn("profile lookup failed", logx.String("username", rec.Username), logx.Err(err))
	}

	list, err := h.deliveries.ListFor(r.Context(), viewer)
	if err != nil {
		h.fail(w, r, views.PageProfile, "Profile", err, "Failed to load profile data")
		return
	}
	data.Deliveries = list

	if exp, ok := session.TokenExpiry(rec.AccessToken); ok {
		data.TokenExpires = locale.FromContext(r.Context()).Time(exp)
	}
	h.render(w, r, http.StatusOK, views.PageProfile, "Profile", data)
}
