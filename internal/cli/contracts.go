package cli

import (
	"context"

	"bybud-web/internal/domain"
	"bybud-web/internal/service/delivery"
)

type authService interface {
	Login(ctx context.Context, identifier, password string) (domain.Session, error)
	Logout(ctx context.Context) error
}

type deliveryService interface {
	ListFor(ctx context.Context, v domain.Viewer) ([]domain.Delivery, error)
	QueueFor(ctx context.Context, c domain.Courier) (delivery.CourierQueue, error)
	CreateDelivery(ctx context.Context, payload domain.CreateDelivery) (domain.Delivery, error)
	AcceptDelivery(ctx context.Context, id string) (domain.Delivery, error)
	UpdateDeliveryStatus(ctx context.Context, id string, status domain.DeliveryStatus) (domain.Delivery, error)
	CancelDelivery(ctx context.Context, id string) (domain.Delivery, error)
	UnassignDelivery(ctx context.Context, id string) (domain.Delivery, error)
}
