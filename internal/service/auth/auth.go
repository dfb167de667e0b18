// Package auth maps sign-in intents onto the gateway's /api/auth endpoints.
package auth

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"bybud-web/internal/apiclient"
	"bybud-web/internal/apperr"
	"bybud-web/internal/domain"
	"bybud-web/internal/logx"
	"bybud-web/internal/session"
)

// DefaultInvalidateReason is sent when InvalidateToken gets no reason.
const DefaultInvalidateReason = "Security measure"

// Service is the auth client.
type Service struct {
	gw     gateway
	logger logx.Logger
}

// New creates an auth Service.
func New(gw gateway, logger logx.Logger) *Service {
	if logger == nil {
		logger = logx.Nop()
	}
	return &Service{gw: gw, logger: logger}
}

type loginRequest struct {
	UsernameOrEmail string `json:"usernameOrEmail"`
	Password        string `json:"password"`
}

// Login exchanges credentials for a session record.
func (s *Service) Login(ctx context.Context, identifier, password string) (domain.Session, error) {
	rec, err := apiclient.Call[domain.Session](ctx, s.gw, apiclient.Request{
		Method: http.MethodPost,
		Path:   "/login",
		Body:   loginRequest{UsernameOrEmail: identifier, Password: password},
	})
	if err != nil {
		return domain.Session{}, fmt.Errorf("login: %w", err)
	}
	if rec.AccessToken == "" {
		return domain.Session{}, &apperr.BackendError{Client: s.gw.Name(), Status: http.StatusOK, Message: "Login response carried no token"}
	}
	return rec, nil
}

// RefreshToken trades a refresh token for a new session record.
func (s *Service) RefreshToken(ctx context.Context, refreshToken string) (domain.Session, error) {
	rec, err := apiclient.Call[domain.Session](ctx, s.gw, apiclient.Request{
		Method: http.MethodPost,
		Path:   "/refresh",
		Query:  url.Values{"refreshToken": {refreshToken}},
	})
	if err != nil {
		return domain.Session{}, fmt.Errorf("refresh token: %w", err)
	}
	return rec, nil
}

// GetUserDetails looks a user up by username or email.
func (s *Service) GetUserDetails(ctx context.Context, identifier string) (domain.User, error) {
	u, err := apiclient.Call[domain.User](ctx, s.gw, apiclient.Request{
		Path:  "/user",
		Query: url.Values{"usernameOrEmail": {identifier}},
	})
	if err != nil {
		return domain.User{}, fmt.Errorf("get user details: %w", err)
	}
	return u, nil
}

// Logout revokes the tokens of the session record carried by ctx. It fails
// fast with apperr.ErrNoTokens when either token is missing.
func (s *Service) Logout(ctx context.Context) error {
	rec, _ := session.RecordFrom(ctx)
	if rec.AccessToken == "" || rec.RefreshToken == "" {
		return apperr.ErrNoTokens
	}
	_, err := s.gw.Do(ctx, apiclient.Request{
		Method: http.MethodPost,
		Path:   "/logout",
		Query:  url.Values{"refreshToken": {rec.RefreshToken}},
	})
	if err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	s.logger.Info("tokens revoked", logx.String("username", rec.Username))
	return nil
}

// InvalidateToken asks the gateway to blacklist the current access token.
func (s *Service) InvalidateToken(ctx context.Context, reason string) error {
	rec, _ := session.RecordFrom(ctx)
	if rec.AccessToken == "" {
		return apperr.ErrNoAccessToken
	}
	if reason == "" {
		reason = DefaultInvalidateReason
	}
	_, err := s.gw.Do(ctx, apiclient.Request{
		Method: http.MethodPost,
		Path:   "/invalidate",
		Query:  url.Values{"reason": {reason}},
	})
	if err != nil {
		return fmt.Errorf("invalidate token: %w", err)
	}
	s.logger.Warn("access token invalidated", logx.String("username", rec.Username), logx.String("reason", reason))
	return nil
}
