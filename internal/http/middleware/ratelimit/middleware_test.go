package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	testlog "bybud-web/internal/testutil"
)

// keyRecorder allows the first n attempts and remembers which keys were asked about.
type keyRecorder struct {
	n    int
	seen []string
}

func (k *keyRecorder) Allow(key string) bool {
	k.seen = append(k.seen, key)
	return len(k.seen) <= k.n
}

func loginAttempt(remote string) *http.Request {
	r := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader("usernameOrEmail=newuser10&password=x"))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	r.RemoteAddr = remote
	return r
}

func TestMiddleware_ThrottlesLoginAttempts(t *testing.T) {
	t.Parallel()

	var reached int
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		reached++
		w.WriteHeader(http.StatusSeeOther)
	})
	counter := prometheus.NewCounter(prometheus.CounterOpts{Name: "login_denied_test_total", Help: "test"})
	rec := testlog.New()
	limiter := &keyRecorder{n: 2}
	h := New(rec.Logger(), counter, limiter).Handler()(next)

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, loginAttempt("10.0.0.7:41000"))
		codes = append(codes, w.Code)
		if w.Code == http.StatusTooManyRequests {
			require.Equal(t, "1", w.Header().Get("Retry-After"))
			require.Contains(t, w.Body.String(), "Too many attempts")
		}
	}

	require.Equal(t, []int{http.StatusSeeOther, http.StatusSeeOther, http.StatusTooManyRequests}, codes)
	require.Equal(t, 2, reached)
	require.Equal(t, []string{"10.0.0.7", "10.0.0.7", "10.0.0.7"}, limiter.seen)
	require.Equal(t, float64(1), testutil.ToFloat64(counter))

	entry, ok := rec.Find("warn", "rate limit exceeded")
	require.True(t, ok)
	path, _ := entry.Field("path")
	require.Equal(t, "/login", path)
}

func TestMiddleware_NilLimiterNeverThrottles(t *testing.T) {
	t.Parallel()

	h := New(nil, nil, nil).Handler()(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	for i := 0; i < 20; i++ {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, loginAttempt("10.0.0.7:41000"))
		require.Equal(t, http.StatusOK, w.Code)
	}
}

func TestClientIP(t *testing.T) {
	t.Parallel()

	cases := []struct {
		remote string
		want   string
	}{
		{remote: "192.0.2.1:1234", want: "192.0.2.1"},
		{remote: "[2001:db8::1]:443", want: "2001:db8::1"},
		{remote: "192.0.2.9", want: "192.0.2.9"},
		{remote: "", want: "unknown"},
	}
	for _, tc := range cases {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.RemoteAddr = tc.remote
		require.Equal(t, tc.want, clientIP(r), tc.remote)
	}
}
