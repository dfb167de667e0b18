package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"bybud-web/internal/apperr"
	"bybud-web/internal/domain"
	"bybud-web/internal/http/views"
)

const (
	tabAvailable = "available"
	tabMine      = "my"
)

type courierData struct {
	Tab           string
	Available     []domain.Delivery
	Mine          []domain.Delivery
	StatusOptions []domain.DeliveryStatus
}

type dashboardData struct {
	User          *domain.User
	Deliveries    []domain.Delivery
	StatusOptions []domain.DeliveryStatus
}

func courierOf(r *http.Request) (domain.Courier, bool) {
	v, ok := domain.ViewerFor(record(r), domain.RoleCourier)
	if !ok {
		return domain.Courier{}, false
	}
	c, ok := v.(domain.Courier)
	return c, ok
}

// CourierDeliveries handles GET /deliveries?tab=available|my.
func (h *Handlers) CourierDeliveries(w http.ResponseWriter, r *http.Request) {
	tab := r.URL.Query().Get("tab")
	if tab != tabMine {
		tab = tabAvailable
	}
	c, ok := courierOf(r)
	if !ok {
		h.fail(w, r, views.PageCourierDeliveries, "Courier Dashboard", apperr.ErrNoSession, loadDeliveriesFailed)
		return
	}
	queue, err := h.deliveries.QueueFor(r.Context(), c)
	if err != nil {
		h.fail(w, r, views.PageCourierDeliveries, "Courier Dashboard", err, loadDeliveriesFailed)
		return
	}
	h.render(w, r, http.StatusOK, views.PageCourierDeliveries, "Courier Dashboard", courierData{
		Tab:           tab,
		Available:     queue.Available,
		Mine:          queue.Mine,
		StatusOptions: domain.CourierStatusOptions,
	})
}

// AcceptDelivery handles POST /deliveries/{id}/accept.
func (h *Handlers) AcceptDelivery(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := h.deliveries.AcceptDelivery(r.Context(), id); err != nil {
		h.mutationFailed(w, r, "accept", id, err, "Failed to accept delivery")
		seeOther(w, r, "/deliveries?tab="+tabAvailable)
		return
	}
	h.flash(w, flashSuccess, "Delivery accepted successfully!")
	seeOther(w, r, "/deliveries?tab="+tabMine)
}

// UpdateStatus handles POST /deliveries/{id}/status.
func (h *Handlers) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	status := domain.DeliveryStatus(r.PostFormValue("status"))
	if _, err := h.deliveries.UpdateDeliveryStatus(r.Context(), id, status); err != nil {
		h.mutationFailed(w, r, "status", id, err, "Failed to update delivery status")
	} else {
		h.flash(w, flashSuccess, "Delivery status updated successfully!")
	}
	seeOther(w, r, "/deliveries?tab="+tabMine)
}

// UnassignDelivery handles POST /deliveries/{id}/unassign. The backend clears
// the courier when the status returns to CREATED.
func (h *Handlers) UnassignDelivery(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := h.deliveries.UnassignDelivery(r.Context(), id); err != nil {
		h.mutationFailed(w, r, "unassign", id, err, "Failed to unassign delivery")
	} else {
		h.flash(w, flashSuccess, "Delivery unassigned successfully!")
	}
	seeOther(w, r, "/deliveries?tab="+tabMine)
}

// CourierDashboard handles GET /courier: the courier's own profile and
// every delivery.
func (h *Handlers) CourierDashboard(w http.ResponseWriter, r *http.Request) {
	rec := record(r)
	if rec.UserID == "" {
		h.fail(w, r, views.PageCourierDashboard, "Courier Dashboard", apperr.ErrNoSession, "Failed to load dashboard")
		return
	}
	u, err := h.users.GetUserByID(r.Context(), rec.UserID)
	if err != nil {
		h.fail(w, r, views.PageCourierDashboard, "Courier Dashboard", err, "Failed to load dashboard")
		return
	}
	list, err := h.deliveries.GetAllDeliveries(r.Context())
	if err != nil {
		h.fail(w, r, views.PageCourierDashboard, "Courier Dashboard", err, "Failed to load dashboard")
		return
	}
	h.render(w, r, http.StatusOK, views.PageCourierDashboard, "Courier Dashboard", dashboardData{
		User:          &u,
		Deliveries:    list,
		StatusOptions: domain.DashboardStatusOptions,
	})
}

// DashboardAccept handles POST /courier/{id}/accept.
func (h *Handlers) DashboardAccept(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := h.deliveries.AcceptDelivery(r.Context(), id); err != nil {
		h.mutationFailed(w, r, "accept", id, err, "Failed to accept delivery")
	} else {
		h.flash(w, flashSuccess, "Delivery accepted!")
	}
	seeOther(w, r, "/courier")
}

// DashboardStatus handles POST /courier/{id}/status.
func (h *Handlers) DashboardStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	status := domain.DeliveryStatus(r.PostFormValue("status"))
	if _, err := h.deliveries.UpdateDeliveryStatus(r.Context(), id, status); err != nil {
		h.mutationFailed(w, r, "status", id, err, "Failed to update status")
	} else {
		h.flash(w, flashSuccess, "Status updated!")
	}
	seeOther(w, r, "/courier")
}
