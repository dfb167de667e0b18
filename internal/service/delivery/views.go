package delivery

import (
	"context"
	"fmt"

	"bybud-web/internal/domain"
)

// CourierQueue is what a courier sees: the open queue and their own deliveries.
type CourierQueue struct {
	Available []domain.Delivery
	Mine      []domain.Delivery
}

// ListFor fetches the deliveries belonging to v.
func (s *Service) ListFor(ctx context.Context, v domain.Viewer) ([]domain.Delivery, error) {
	switch v := v.(type) {
	case domain.Customer:
		return s.GetDeliveriesForCustomer(ctx, v.Key())
	case domain.Courier:
		return s.GetDeliveriesForCourier(ctx, v.Key())
	default:
		return nil, fmt.Errorf("list deliveries: unsupported viewer %T", v)
	}
}

// QueueFor fetches both courier collections. Available is the full list
// narrowed to CREATED; Mine comes filtered from the backend.
func (s *Service) QueueFor(ctx context.Context, c domain.Courier) (CourierQueue, error) {
	all, err := s.GetAllDeliveries(ctx)
	if err != nil {
		return CourierQueue{}, err
	}
	mine, err := s.GetDeliveriesForCourier(ctx, c.Key())
	if err != nil {
		return CourierQueue{}, err
	}
	return CourierQueue{Available: domain.FilterByStatus(all, domain.StatusCreated), Mine: mine}, nil
}
