// Package user maps profile intents onto the gateway's /api/users endpoints.
package user

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"bybud-web/internal/apiclient"
	"bybud-web/internal/domain"
	"bybud-web/internal/locale"
	"bybud-web/internal/logx"
)

const invalidDate = "Invalid Date"

// Service is the user client.
type Service struct {
	gw     gateway
	logger logx.Logger
}

// New creates a user Service.
func New(gw gateway, logger logx.Logger) *Service {
	if logger == nil {
		logger = logx.Nop()
	}
	return &Service{gw: gw, logger: logger}
}

// CreateUser registers a new account. No session is required.
func (s *Service) CreateUser(ctx context.Context, payload domain.CreateUser) (domain.User, error) {
	u, err := apiclient.Call[domain.User](ctx, s.gw, apiclient.Request{
		Method: http.MethodPost,
		Path:   "/register",
		Body:   payload,
	})
	if err != nil {
		return domain.User{}, fmt.Errorf("create user: %w", err)
	}
	s.logger.Info("user registered", logx.String("username", payload.Username), logx.Any("roles", payload.Roles))
	return u, nil
}

// Register validates a sign-up form and creates the account.
func (s *Service) Register(ctx context.Context, r Registration) (domain.User, error) {
	payload, err := r.Validate()
	if err != nil {
		return domain.User{}, err
	}
	return s.CreateUser(ctx, payload)
}

// GetUserByID fetches a profile and fills BirthDate with the date of birth in
// the locale carried by ctx.
func (s *Service) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	u, err := apiclient.Call[domain.User](ctx, s.gw, apiclient.Request{Path: "/" + url.PathEscape(id)})
	if err != nil {
		return domain.User{}, fmt.Errorf("get user %s: %w", id, err)
	}
	u.BirthDate = formatBirthDate(locale.FromContext(ctx), u.DateOfBirth)
	return u, nil
}

func formatBirthDate(l locale.Locale, d domain.Date) string {
	if !d.IsArray() {
		return invalidDate
	}
	return l.Date(d)
}

// GetUserDetailsByUsernameOrEmail looks a profile up by username or email.
func (s *Service) GetUserDetailsByUsernameOrEmail(ctx context.Context, identifier string) (domain.User, error) {
	u, err := apiclient.Call[domain.User](ctx, s.gw, apiclient.Request{
		Path:  "/details",
		Query: url.Values{"usernameOrEmail": {identifier}},
	})
	if err != nil {
		return domain.User{}, fmt.Errorf("get user details: %w", err)
	}
	return u, nil
}

// GetAllUsers lists every account. Admin only on the gateway side.
func (s *Service) GetAllUsers(ctx context.Context) ([]domain.User, error) {
	users, err := apiclient.Call[[]domain.User](ctx, s.gw, apiclient.Request{Path: "/admin/all"})
	if err != nil {
		return nil, fmt.Errorf("get all users: %w", err)
	}
	return users, nil
}

// UpdateUserProfile applies patch to the profile id.
func (s *Service) UpdateUserProfile(ctx context.Context, id string, patch domain.UpdateUser) (domain.User, error) {
	u, err := apiclient.Call[domain.User](ctx, s.gw, apiclient.Request{
		Method: http.MethodPut,
		Path:   "/" + url.PathEscape(id),
		Body:   patch,
	})
	if err != nil {
		return domain.User{}, fmt.Errorf("update user %s: %w", id, err)
	}
	return u, nil
}
