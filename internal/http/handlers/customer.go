package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"bybud-web/internal/apperr"
	"bybud-web/internal/domain"
	"bybud-web/internal/http/views"
	"bybud-web/internal/logx"
)

const (
	loadDeliveriesFailed = "Failed to load deliveries"
	createFailed         = "Failed to create delivery. Please try again."
)

type customerData struct {
	Deliveries []domain.Delivery
}

type createData struct {
	Message string
	Form    domain.CreateDelivery
}

// CustomerDeliveries handles GET /delivery.
func (h *Handlers) CustomerDeliveries(w http.ResponseWriter, r *http.Request) {
	viewer, ok := domain.ViewerFor(record(r), domain.RoleCustomer)
	if !ok {
		h.fail(w, r, views.PageCustomerDeliveries, "Your Deliveries", apperr.ErrNoSession, loadDeliveriesFailed)
		return
	}
	list, err := h.deliveries.ListFor(r.Context(), viewer)
	if err != nil {
		h.fail(w, r, views.PageCustomerDeliveries, "Your Deliveries", err, loadDeliveriesFailed)
		return
	}
	h.render(w, r, http.StatusOK, views.PageCustomerDeliveries, "Your Deliveries", customerData{Deliveries: list})
}

// CancelDelivery handles POST /delivery/{id}/cancel.
func (h *Handlers) CancelDelivery(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := h.deliveries.CancelDelivery(r.Context(), id); err != nil {
		h.mutationFailed(w, r, "cancel", id, err, "Failed to cancel delivery")
	} else {
		h.flash(w, flashSuccess, "Delivery canceled successfully!")
	}
	seeOther(w, r, "/delivery")
}

// CreateDeliveryForm handles GET /delivery/create.
func (h *Handlers) CreateDeliveryForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, views.PageCreateDelivery, "Create Delivery", createData{})
}

// CreateDelivery handles POST /delivery/create. The customer is always the
// signed-in user.
func (h *Handlers) CreateDelivery(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.render(w, r, http.StatusBadRequest, views.PageCreateDelivery, "Create Delivery", createData{Message: createFailed})
		return
	}
	form := domain.CreateDelivery{
		CustomerID:      record(r).DeliveryKey(),
		DeliveryDetails: strings.TrimSpace(r.PostFormValue("deliveryDetails")),
		PickupAddress:   strings.TrimSpace(r.PostFormValue("pickupAddress")),
		DeliveryAddress: strings.TrimSpace(r.PostFormValue("deliveryAddress")),
		DeliveryDate:    r.PostFormValue("deliveryDate"),
	}

	if _, err := h.deliveries.CreateDelivery(r.Context(), form); err != nil {
		reqLogger(h.logger, r).Warn("create delivery failed", logx.Err(err))
		msg := apperr.Message(err, createFailed)
		p := h.page(w, r, "Create Delivery", createData{Message: msg, Form: form})
		p.Flash = &views.Flash{Kind: flashError, Message: msg}
		h.views.Render(w, statusFor(err), views.PageCreateDelivery, p)
		return
	}

	h.flash(w, flashSuccess, "Delivery created successfully!")
	seeOther(w, r, "/delivery/create")
}

// mutationFailed logs a rejected action and queues its notification.
func (h *Handlers) mutationFailed(w http.ResponseWriter, r *http.Request, action, id string, err error, fallback string) {
	reqLogger(h.logger, r).Warn("delivery action failed",
		logx.String("action", action),
		logx.String("delivery_id", id),
		logx.Err(err),
	)
	h.flash(w, flashError, apperr.Message(err, fallback))
}
