package handlers

import (
	"context"

	"bybud-web/internal/domain"
	"bybud-web/internal/service/auth"
	"bybud-web/internal/service/delivery"
	"bybud-web/internal/service/user"
	"bybud-web/internal/session"
)

type authUsecase interface {
	Login(ctx context.Context, identifier, password string) (domain.Session, error)
	Logout(ctx context.Context) error
}

type userUsecase interface {
	Register(ctx context.Context, r user.Registration) (domain.User, error)
	GetUserByID(ctx context.Context, id string) (domain.User, error)
	GetUserDetailsByUsernameOrEmail(ctx context.Context, identifier string) (domain.User, error)
}

type deliveryUsecase interface {
	CreateDelivery(ctx context.Context, payload domain.CreateDelivery) (domain.Delivery, error)
	GetAllDeliveries(ctx context.Context) ([]domain.Delivery, error)
	ListFor(ctx context.Context, v domain.Viewer) ([]domain.Delivery, error)
	QueueFor(ctx context.Context, c domain.Courier) (delivery.CourierQueue, error)
	AcceptDelivery(ctx context.Context, id string) (domain.Delivery, error)
	UpdateDeliveryStatus(ctx context.Context, id string, status domain.DeliveryStatus) (domain.Delivery, error)
	CancelDelivery(ctx context.Context, id string) (domain.Delivery, error)
	UnassignDelivery(ctx context.Context, id string) (domain.Delivery, error)
}

type sessionProvider interface {
	SignIn(ctx context.Context, sid string, rec domain.Session) (session.State, error)
	SignOut(ctx context.Context, sid string) (session.State, error)
	Subscribe(sid string) (<-chan session.Change, func())
}

// NewAuthUsecase wires an auth Service into authUsecase.
func NewAuthUsecase(s *auth.Service) authUsecase { return s }

// NewUserUsecase wires a user Service into userUsecase.
func NewUserUsecase(s *user.Service) userUsecase { return s }

// NewDeliveryUsecase wires a delivery Service into deliveryUsecase.
func NewDeliveryUsecase(s *delivery.Service) deliveryUsecase { return s }

// NewSessionProvider wires a session Provider into sessionProvider.
func NewSessionProvider(p *session.Provider) sessionProvider { return p }
