// Package delivery maps delivery intents onto the gateway's /api/delivery
// endpoints. Status transitions are enforced by the backend; this package
// only checks that a status name is one the backend knows.
package delivery

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"bybud-web/internal/apiclient"
	"bybud-web/internal/apperr"
	"bybud-web/internal/domain"
	"bybud-web/internal/logx"
)

// Service is the delivery client.
type Service struct {
	gw     gateway
	logger logx.Logger
}

// New creates a delivery Service.
func New(gw gateway, logger logx.Logger) *Service {
	if logger == nil {
		logger = logx.Nop()
	}
	return &Service{gw: gw, logger: logger}
}

func validateCreate(d domain.CreateDelivery) error {
	if strings.TrimSpace(d.CustomerID) == "" {
		return apperr.ErrNoSession
	}
	if strings.TrimSpace(d.DeliveryDetails) == "" {
		return apperr.Invalid("deliveryDetails", "Delivery details are required")
	}
	if strings.TrimSpace(d.PickupAddress) == "" {
		return apperr.Invalid("pickupAddress", "Pickup address is required")
	}
	if strings.TrimSpace(d.DeliveryAddress) == "" {
		return apperr.Invalid("deliveryAddress", "Delivery address is required")
	}
	if strings.TrimSpace(d.DeliveryDate) == "" {
		return apperr.Invalid("deliveryDate", "Delivery date is required")
	}
	return nil
}

// CreateDelivery submits a new delivery. CustomerID must already hold the
// creator's identity from the session.
func (s *Service) CreateDelivery(ctx context.Context, payload domain.CreateDelivery) (domain.Delivery, error) {
	if err := validateCreate(payload); err != nil {
		return domain.Delivery{}, err
	}
	d, err := apiclient.Call[domain.Delivery](ctx, s.gw, apiclient.Request{
		Method: http.MethodPost,
		Body:   payload,
	})
	if err != nil {
		return domain.Delivery{}, fmt.Errorf("create delivery: %w", err)
	}
	s.logger.Info("delivery created", logx.String("delivery_id", d.ID), logx.String("customer", payload.CustomerID))
	return d, nil
}

// GetAllDeliveries lists every delivery. Couriers and admins only.
func (s *Service) GetAllDeliveries(ctx context.Context) ([]domain.Delivery, error) {
	return s.list(ctx, "", "get all deliveries")
}

// GetDeliveriesForCustomer lists the deliveries a customer created.
func (s *Service) GetDeliveriesForCustomer(ctx context.Context, customerID string) ([]domain.Delivery, error) {
	return s.list(ctx, "/customer/"+url.PathEscape(customerID), "get customer deliveries")
}

// GetDeliveriesForCourier lists the deliveries a courier accepted.
func (s *Service) GetDeliveriesForCourier(ctx context.Context, courierID string) ([]domain.Delivery, error) {
	return s.list(ctx, "/courier/"+url.PathEscape(courierID), "get courier deliveries")
}

func (s *Service) list(ctx context.Context, path, op string) ([]domain.Delivery, error) {
	list, err := apiclient.Call[[]domain.Delivery](ctx, s.gw, apiclient.Request{Path: path})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if list == nil {
		list = []domain.Delivery{}
	}
	return list, nil
}

// AcceptDelivery assigns the delivery to the calling courier.
func (s *Service) AcceptDelivery(ctx context.Context, id string) (domain.Delivery, error) {
	d, err := apiclient.Call[domain.Delivery](ctx, s.gw, apiclient.Request{
		Method: http.MethodPut,
		Path:   "/" + url.PathEscape(id) + "/accept",
	})
	if err != nil {
		return domain.Delivery{}, fmt.Errorf("accept delivery %s: %w", id, err)
	}
	s.logger.Info("delivery accepted", logx.String("delivery_id", id))
	return d, nil
}

// UpdateDeliveryStatus moves a delivery to status.
func (s *Service) UpdateDeliveryStatus(ctx context.Context, id string, status domain.DeliveryStatus) (domain.Delivery, error) {
	if !status.Valid() {
		return domain.Delivery{}, apperr.Invalid("status", fmt.Sprintf("Unknown delivery status %q", status))
	}
	d, err := apiclient.Call[domain.Delivery](ctx, s.gw, apiclient.Request{
		Method: http.MethodPut,
		Path:   "/" + url.PathEscape(id) + "/status",
		Query:  url.Values{"status": {string(status)}},
	})
	if err != nil {
		return domain.Delivery{}, fmt.Errorf("update delivery %s to %s: %w", id, status, err)
	}
	s.logger.Info("delivery status updated", logx.String("delivery_id", id), logx.String("status", string(status)))
	return d, nil
}

// CancelDelivery sets the delivery to CANCELED.
func (s *Service) CancelDelivery(ctx context.Context, id string) (domain.Delivery, error) {
	return s.UpdateDeliveryStatus(ctx, id, domain.StatusCanceled)
}

// UnassignDelivery hands a delivery back to the open queue by moving it to
// CREATED. The backend drops the courier as part of that transition.
func (s *Service) UnassignDelivery(ctx context.Context, id string) (domain.Delivery, error) {
	return s.UpdateDeliveryStatus(ctx, id, domain.StatusCreated)
}
