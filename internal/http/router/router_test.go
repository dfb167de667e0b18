package router_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"bybud-web/internal/apperr"
	"bybud-web/internal/domain"
	"bybud-web/internal/http/handlers"
	"bybud-web/internal/http/middleware"
	"bybud-web/internal/http/middleware/ratelimit"
	"bybud-web/internal/http/router"
	"bybud-web/internal/http/views"
	"bybud-web/internal/locale"
	"bybud-web/internal/service/delivery"
	"bybud-web/internal/session"
)

type denyAll struct{}

func (denyAll) Allow(string) bool { return false }

const cookieName = "bybud_sid"

func newRouter(t *testing.T) (http.Handler, *session.Provider) {
	t.Helper()
	provider := session.NewProvider(session.NewStore(session.NewMemoryBackend(), session.NewNotifier(), nil, nil), nil)
	renderer, err := views.New(nil)
	require.NoError(t, err)

	h := handlers.New(nil, renderer, nil, nil, nil, provider, handlers.Options{})
	return router.New(h, router.Middlewares{
		Locale:     locale.NewResolver(nil).Middleware,
		Session:    middleware.Session(provider, middleware.CookieConfig{Name: cookieName}, nil),
		LoginLimit: ratelimit.New(nil, nil, denyAll{}).Handler(),
	}), provider
}

// gatewayAuth answers logins for a single courier account.
type gatewayAuth struct {
	logouts int
}

func (g *gatewayAuth) Login(_ context.Context, identifier, password string) (domain.Session, error) {
	if identifier != "newuser10" || password != "pw123456" {
		return domain.Session{}, &apperr.BackendError{Client: "auth", Status: http.StatusUnauthorized, Message: "Invalid credentials"}
	}
	return domain.Session{
		AccessToken:  "access",
		RefreshToken: "refresh",
		UserID:       "67bf7d",
		Username:     "newuser10",
		Roles:        []domain.Role{domain.RoleCourier},
	}, nil
}

func (g *gatewayAuth) Logout(ctx context.Context) error {
	if _, ok := session.RecordFrom(ctx); !ok {
		return apperr.ErrNoTokens
	}
	g.logouts++
	return nil
}

// courierQueue serves an empty queue and nothing else.
type courierQueue struct{}

func (courierQueue) CreateDelivery(context.Context, domain.CreateDelivery) (domain.Delivery, error) {
	return domain.Delivery{}, nil
}
func (courierQueue) GetAllDeliveries(context.Context) ([]domain.Delivery, error) { return nil, nil }
func (courierQueue) ListFor(context.Context, domain.Viewer) ([]domain.Delivery, error) {
	return nil, nil
}
func (courierQueue) QueueFor(context.Context, domain.Courier) (delivery.CourierQueue, error) {
	return delivery.CourierQueue{}, nil
}
func (courierQueue) AcceptDelivery(context.Context, string) (domain.Delivery, error) {
	return domain.Delivery{}, nil
}
func (courierQueue) UpdateDeliveryStatus(context.Context, string, domain.DeliveryStatus) (domain.Delivery, error) {
	return domain.Delivery{}, nil
}
func (courierQueue) CancelDelivery(context.Context, string) (domain.Delivery, error) {
	return domain.Delivery{}, nil
}
func (courierQueue) UnassignDelivery(context.Context, string) (domain.Delivery, error) {
	return domain.Delivery{}, nil
}

func signedIn(t *testing.T, p *session.Provider, roles ...domain.Role) *http.Cookie {
	t.Helper()
	sid := uuid.NewString()
	_, err := p.SignIn(context.Background(), sid, domain.Session{AccessToken: "a", RefreshToken: "r", Username: "u", Roles: roles})
	require.NoError(t, err)
	return &http.Cookie{Name: cookieName, Value: sid}
}

func do(h http.Handler, method, path string, ck *http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if ck != nil {
		req.AddCookie(ck)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestRouter_PublicRoutes(t *testing.T) {
	h, _ := newRouter(t)

	rr := do(h, http.MethodGet, "/ping", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	require.JSONEq(t, `{"message":"pong"}`, rr.Body.String())

	require.Equal(t, http.StatusNoContent, do(h, http.MethodHead, "/healthcheck", nil).Code)

	rr = do(h, http.MethodGet, "/static/app.js", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	require.Contains(t, rr.Body.String(), "/session/events")

	rr = do(h, http.MethodGet, "/login", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	require.True(t, strings.Contains(rr.Body.String(), `action="/login"`))
	require.NotEmpty(t, rr.Result().Cookies(), "session cookie issued")

	rr = do(h, http.MethodGet, "/no/such/page", nil)
	require.Equal(t, http.StatusSeeOther, rr.Code)
	require.Equal(t, "/", rr.Header().Get("Location"))
}

func TestRouter_Guards(t *testing.T) {
	h, p := newRouter(t)
	customer := signedIn(t, p, domain.RoleCustomer)
	courier := signedIn(t, p, domain.RoleCourier)

	cases := []struct {
		name     string
		method   string
		path     string
		cookie   *http.Cookie
		location string
	}{
		{name: "guest to customer list", method: http.MethodGet, path: "/delivery", location: "/login"},
		{name: "guest to courier queue", method: http.MethodGet, path: "/deliveries", location: "/login"},
		{name: "guest to profile", method: http.MethodGet, path: "/profile", location: "/login"},
		{name: "guest action", method: http.MethodPost, path: "/deliveries/d-1/accept", location: "/login"},
		{name: "customer to courier queue", method: http.MethodGet, path: "/deliveries", cookie: customer, location: "/"},
		{name: "customer to dashboard", method: http.MethodGet, path: "/courier", cookie: customer, location: "/"},
		{name: "courier to create", method: http.MethodGet, path: "/delivery/create", cookie: courier, location: "/"},
		{name: "courier cancel", method: http.MethodPost, path: "/delivery/d-1/cancel", cookie: courier, location: "/"},
		{name: "root for courier", method: http.MethodGet, path: "/", cookie: courier, location: "/deliveries"},
		{name: "root for customer", method: http.MethodGet, path: "/", cookie: customer, location: "/profile"},
		{name: "login when signed in", method: http.MethodGet, path: "/login", cookie: customer, location: "/"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rr := do(h, tc.method, tc.path, tc.cookie)
			require.Equal(t, http.StatusSeeOther, rr.Code)
			require.Equal(t, tc.location, rr.Header().Get("Location"))
		})
	}
}

func TestRouter_CourierLoginLogoutFlow(t *testing.T) {
	store := session.NewStore(session.NewMemoryBackend(), session.NewNotifier(), nil, nil)
	provider := session.NewProvider(store, nil)
	renderer, err := views.New(nil)
	require.NoError(t, err)
	auth := &gatewayAuth{}
	h := router.New(
		handlers.New(nil, renderer, auth, nil, courierQueue{}, provider, handlers.Options{}),
		router.Middlewares{Session: middleware.Session(provider, middleware.CookieConfig{Name: cookieName}, nil)},
	)

	// The login form issues the session cookie every later step carries.
	rr := do(h, http.MethodGet, "/login", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var sid *http.Cookie
	for _, c := range rr.Result().Cookies() {
		if c.Name == cookieName {
			sid = c
		}
	}
	require.NotNil(t, sid)

	form := url.Values{"usernameOrEmail": {"newuser10"}, "password": {"pw123456"}}
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(sid)
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	require.Equal(t, http.StatusSeeOther, rr.Code)
	require.Equal(t, "/deliveries", rr.Header().Get("Location"))

	rec, ok := store.Read(context.Background(), sid.Value)
	require.True(t, ok)
	require.Equal(t, "newuser10", rec.Username)

	require.Equal(t, http.StatusOK, do(h, http.MethodGet, "/deliveries", sid).Code)

	rr = do(h, http.MethodPost, "/logout", sid)
	require.Equal(t, http.StatusSeeOther, rr.Code)
	require.Equal(t, "/login", rr.Header().Get("Location"))
	require.Equal(t, 1, auth.logouts)

	_, ok = store.Read(context.Background(), sid.Value)
	require.False(t, ok, "record cleared on logout")

	rr = do(h, http.MethodGet, "/deliveries", sid)
	require.Equal(t, http.StatusSeeOther, rr.Code)
	require.Equal(t, "/login", rr.Header().Get("Location"))
}

func TestRouter_LoginIsThrottled(t *testing.T) {
	h, _ := newRouter(t)

	rr := do(h, http.MethodPost, "/login", nil)
	require.Equal(t, http.StatusTooManyRequests, rr.Code)

	require.Equal(t, http.StatusOK, do(h, http.MethodGet, "/login", nil).Code)
}
