package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"bybud-web/internal/domain"
	"bybud-web/internal/http/views"
	"bybud-web/internal/service/delivery"
	"bybud-web/internal/service/user"
	"bybud-web/internal/session"
)

type stubAuth struct {
	login  func(ctx context.Context, identifier, password string) (domain.Session, error)
	logout func(ctx context.Context) error
}

func (s stubAuth) Login(ctx context.Context, identifier, password string) (domain.Session, error) {
	return s.login(ctx, identifier, password)
}

func (s stubAuth) Logout(ctx context.Context) error {
	if s.logout == nil {
		return nil
	}
	return s.logout(ctx)
}

type stubUsers struct {
	register func(ctx context.Context, r user.Registration) (domain.User, error)
	byID     func(ctx context.Context, id string) (domain.User, error)
	details  func(ctx context.Context, identifier string) (domain.User, error)
}

func (s stubUsers) Register(ctx context.Context, r user.Registration) (domain.User, error) {
	return s.register(ctx, r)
}

func (s stubUsers) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	return s.byID(ctx, id)
}

func (s stubUsers) GetUserDetailsByUsernameOrEmail(ctx context.Context, identifier string) (domain.User, error) {
	return s.details(ctx, identifier)
}

type stubDeliveries struct {
	create   func(ctx context.Context, p domain.CreateDelivery) (domain.Delivery, error)
	all      func(ctx context.Context) ([]domain.Delivery, error)
	listFor  func(ctx context.Context, v domain.Viewer) ([]domain.Delivery, error)
	queueFor func(ctx context.Context, c domain.Courier) (delivery.CourierQueue, error)
	accept   func(ctx context.Context, id string) (domain.Delivery, error)
	status   func(ctx context.Context, id string, s domain.DeliveryStatus) (domain.Delivery, error)
	cancel   func(ctx context.Context, id string) (domain.Delivery, error)
	unassign func(ctx context.Context, id string) (domain.Delivery, error)
}

func (s stubDeliveries) CreateDelivery(ctx context.Context, p domain.CreateDelivery) (domain.Delivery, error) {
	return s.create(ctx, p)
}

func (s stubDeliveries) GetAllDeliveries(ctx context.Context) ([]domain.Delivery, error) {
	return s.all(ctx)
}

func (s stubDeliveries) ListFor(ctx context.Context, v domain.Viewer) ([]domain.Delivery, error) {
	return s.listFor(ctx, v)
}

func (s stubDeliveries) QueueFor(ctx context.Context, c domain.Courier) (delivery.CourierQueue, error) {
	return s.queueFor(ctx, c)
}

func (s stubDeliveries) AcceptDelivery(ctx context.Context, id string) (domain.Delivery, error) {
	return s.accept(ctx, id)
}

func (s stubDeliveries) UpdateDeliveryStatus(ctx context.Context, id string, st domain.DeliveryStatus) (domain.Delivery, error) {
	return s.status(ctx, id, st)
}

func (s stubDeliveries) CancelDelivery(ctx context.Context, id string) (domain.Delivery, error) {
	return s.cancel(ctx, id)
}

func (s stubDeliveries) UnassignDelivery(ctx context.Context, id string) (domain.Delivery, error) {
	return s.unassign(ctx, id)
}

type fixture struct {
	auth       stubAuth
	users      stubUsers
	deliveries stubDeliveries
	provider   *session.Provider
	notifier   *session.Notifier
}

func newFixture() *fixture {
	n := session.NewNotifier()
	return &fixture{
		notifier: n,
		provider: session.NewProvider(session.NewStore(session.NewMemoryBackend(), n, nil, nil), nil),
	}
}

func (f *fixture) handlers(t *testing.T) *Handlers {
	t.Helper()
	r, err := views.New(nil)
	require.NoError(t, err)
	return New(nil, r, f.auth, f.users, f.deliveries, f.provider, Options{})
}

func customerSession() domain.Session {
	return domain.Session{
		AccessToken:  "access",
		RefreshToken: "refresh",
		UserID:       "u-1",
		Username:     "anna",
		Roles:        []domain.Role{domain.RoleCustomer},
	}
}

func courierSession() domain.Session {
	return domain.Session{
		AccessToken:  "access",
		RefreshToken: "refresh",
		UserID:       "u-2",
		Username:     "bud",
		Roles:        []domain.Role{domain.RoleCourier},
	}
}

// request builds a request as the session middleware would leave it.
func request(method, target string, form url.Values, rec *domain.Session) *http.Request {
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	ctx := session.WithID(req.Context(), "sid")
	if rec != nil {
		ctx = session.WithState(ctx, session.Resolve(*rec, true))
	} else {
		ctx = session.WithState(ctx, session.Resolve(domain.Session{}, false))
	}
	return req.WithContext(ctx)
}

func withID(req *http.Request, id string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", id)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func flashOf(t *testing.T, rr *httptest.ResponseRecorder) views.Flash {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, ck := range rr.Result().Cookies() {
		if ck.Name == flashCookie && ck.Value != "" {
			req.AddCookie(&http.Cookie{Name: ck.Name, Value: ck.Value})
		}
	}
	var h Handlers
	f := h.popFlash(httptest.NewRecorder(), req)
	require.NotNil(t, f, "no flash set")
	return *f
}

func TestHandlers_Ping(t *testing.T) {
	t.Parallel()

	h := New(nil, nil, nil, nil, nil, nil, Options{})

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	rr := httptest.NewRecorder()

	h.Ping(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var body map[string]string
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
	require.Equal(t, "pong", body["message"])
}

func TestHandlers_HealthcheckAndNotFound(t *testing.T) {
	t.Parallel()
	h := New(nil, nil, nil, nil, nil, nil, Options{})

	rr := httptest.NewRecorder()
	h.HealthcheckHead(rr, httptest.NewRequest(http.MethodHead, "/healthcheck", nil))
	require.Equal(t, http.StatusNoContent, rr.Code)

	rr = httptest.NewRecorder()
	h.NotFound(rr, httptest.NewRequest(http.MethodGet, "/nowhere", nil))
	require.Equal(t, http.StatusSeeOther, rr.Code)
	require.Equal(t, "/", rr.Header().Get("Location"))
}

func TestRoot_RedirectPolicy(t *testing.T) {
	t.Parallel()
	h := newFixture().handlers(t)
	customer, courier := customerSession(), courierSession()

	cases := []struct {
		name     string
		rec      *domain.Session
		code     int
		location string
	}{
		{name: "guest sees landing page", code: http.StatusOK},
		{name: "courier goes to queue", rec: &courier, code: http.StatusSeeOther, location: "/deliveries"},
		{name: "customer goes to profile", rec: &customer, code: http.StatusSeeOther, location: "/profile"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			h.Root(rr, request(http.MethodGet, "/", nil, tc.rec))
			require.Equal(t, tc.code, rr.Code)
			require.Equal(t, tc.location, rr.Header().Get("Location"))
		})
	}

	rr := httptest.NewRecorder()
	h.Root(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusServiceUnavailable, rr.Code)
}

func TestFlash_RoundTripAndClear(t *testing.T) {
	t.Parallel()
	var h Handlers

	rr := httptest.NewRecorder()
	h.flash(rr, flashSuccess, "Delivery accepted!")
	require.Equal(t, views.Flash{Kind: flashSuccess, Message: "Delivery accepted!"}, flashOf(t, rr))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: flashCookie, Value: "%%%"})
	out := httptest.NewRecorder()
	require.Nil(t, h.popFlash(out, req))
	require.Contains(t, out.Header().Get("Set-Cookie"), "Max-Age=0")
}
