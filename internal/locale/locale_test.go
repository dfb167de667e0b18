package locale_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"bybud-web/internal/domain"
	"bybud-web/internal/locale"
)

func TestResolve_PicksBestMatch(t *testing.T) {
	r := locale.NewResolver(time.UTC)

	require.Equal(t, language.AmericanEnglish, r.Resolve("").Tag)
	require.Equal(t, "02/01/2006, 15:04:05", r.Resolve("en-GB,en;q=0.8").DateTimeLayout)
	require.Equal(t, "2.1.2006, 15:04:05", r.Resolve("nb-NO,nb;q=0.9").DateTimeLayout)
	require.Equal(t, "02.01.2006", r.Resolve("ru").DateLayout)
	require.Equal(t, language.AmericanEnglish, r.Resolve("%%%").Tag)
}

func TestDateTime_ArrayFormatsCalendarFields(t *testing.T) {
	r := locale.NewResolver(time.UTC)
	d := domain.DateOf(2024, 3, 5, 14, 30, 0, 0)

	require.Equal(t, "3/5/2024, 2:30:00 PM", r.Resolve("en-US").DateTime(d))
	require.Equal(t, "05/03/2024, 14:30:00", r.Resolve("en-GB").DateTime(d))
	require.Equal(t, "5.3.2024", r.Resolve("de-DE").Date(d))
}

func TestDateTime_StringZeroAndShortArray(t *testing.T) {
	l := locale.Default(time.UTC)

	require.Equal(t, "2025-03-10", l.DateTime(domain.DateString("2025-03-10")))
	require.Equal(t, "N/A", l.DateTime(domain.Date{}))
	require.Equal(t, "Invalid Date", l.Date(domain.DateOf(2024, 3)))
}

func TestTime_UsesLocation(t *testing.T) {
	oslo, err := time.LoadLocation("Europe/Oslo")
	require.NoError(t, err)
	l := locale.NewResolver(oslo).Resolve("en-GB")

	require.Equal(t, "05/03/2024, 15:30:00", l.Time(time.Date(2024, 3, 5, 14, 30, 0, 0, time.UTC)))
}

func TestMiddleware_StoresLocale(t *testing.T) {
	r := locale.NewResolver(time.UTC)
	var got locale.Locale
	h := r.Middleware(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		got = locale.FromContext(req.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Language", "fr-FR")
	h.ServeHTTP(httptest.NewRecorder(), req)

	require.Equal(t, "02/01/2006 15:04:05", got.DateTimeLayout)
	require.Equal(t, language.AmericanEnglish, locale.FromContext(context.Background()).Tag)
}
