package session

import (
	"context"
	"fmt"

	"bybud-web/internal/domain"
	"bybud-web/internal/logx"
)

// State is the authentication tri-state. The zero value is "loading":
// nothing has been resolved yet.
type State struct {
	Resolved      bool
	Authenticated bool
	Roles         []domain.Role
	// Record is the stored record even when it does not authenticate, so
	// API calls still carry whatever token it holds.
	Record domain.Session
}

// Resolve derives the state from a stored record: authenticated only when
// both an access token and a roles array are present.
func Resolve(rec domain.Session, ok bool) State {
	st := State{Resolved: true, Roles: []domain.Role{}}
	if !ok {
		return st
	}
	st.Record = rec
	if rec.AccessToken == "" || rec.Roles == nil {
		return st
	}
	st.Authenticated = true
	st.Roles = rec.Roles
	return st
}

// HasRole reports whether an authenticated state carries r.
func (s State) HasRole(r domain.Role) bool {
	if !s.Authenticated {
		return false
	}
	for _, have := range s.Roles {
		if have == r {
			return true
		}
	}
	return false
}

// Provider is the single owner of session state: every consumer asks it
// instead of parsing storage on its own.
type Provider struct {
	store  *Store
	logger logx.Logger
}

// NewProvider wraps a Store.
func NewProvider(store *Store, logger logx.Logger) *Provider {
	if logger == nil {
		logger = logx.Nop()
	}
	return &Provider{store: store, logger: logger}
}

// Load resolves the state of sid from the store.
func (p *Provider) Load(ctx context.Context, sid string) State {
	return Resolve(p.store.Read(ctx, sid))
}

// SignIn persists rec for sid and returns the resulting state.
func (p *Provider) SignIn(ctx context.Context, sid string, rec domain.Session) (State, error) {
	if err := p.store.Write(ctx, sid, rec); err != nil {
		return Resolve(domain.Session{}, false), fmt.Errorf("sign in: %w", err)
	}
	p.logger.Info("session signed in",
		logx.String("username", rec.Username),
		logx.Strings("roles", rec.RoleNames()),
	)
	return Resolve(rec, true), nil
}

// SignOut clears sid's record. The returned state is always
// unauthenticated, even when clearing the backend failed.
func (p *Provider) SignOut(ctx context.Context, sid string) (State, error) {
	err := p.store.Clear(ctx, sid)
	if err != nil {
		p.logger.Error("session clear failed", logx.Err(err))
	}
	return Resolve(domain.Session{}, false), err
}

// Subscribe streams changes to sid's record.
func (p *Provider) Subscribe(sid string) (<-chan Change, func()) {
	return p.store.Subscribe(sid)
}
