// Package locale picks how dates are shown to the viewer, based on the
// browser's Accept-Language header.
package locale

import (
	"context"
	"net/http"
	"time"

	"golang.org/x/text/language"

	"bybud-web/internal/domain"
)

// Locale holds the display layouts for one language.
type Locale struct {
	Tag            language.Tag
	DateLayout     string
	DateTimeLayout string
	Location       *time.Location
}

type layouts struct {
	date, dateTime string
}

var (
	tags = []language.Tag{
		language.AmericanEnglish,
		language.BritishEnglish,
		language.MustParse("nb"),
		language.German,
		language.French,
		language.Russian,
	}
	table = []layouts{
		{date: "1/2/2006", dateTime: "1/2/2006, 3:04:05 PM"},
		{date: "02/01/2006", dateTime: "02/01/2006, 15:04:05"},
		{date: "2.1.2006", dateTime: "2.1.2006, 15:04:05"},
		{date: "2.1.2006", dateTime: "2.1.2006, 15:04:05"},
		{date: "02/01/2006", dateTime: "02/01/2006 15:04:05"},
		{date: "02.01.2006", dateTime: "02.01.2006, 15:04:05"},
	}
	matcher = language.NewMatcher(tags)
)

const (
	notAvailable = "N/A"
	invalidDate  = "Invalid Date"
)

// Default is en-US in loc (time.Local when nil).
func Default(loc *time.Location) Locale {
	return build(0, loc)
}

func build(i int, loc *time.Location) Locale {
	if loc == nil {
		loc = time.Local
	}
	return Locale{Tag: tags[i], DateLayout: table[i].date, DateTimeLayout: table[i].dateTime, Location: loc}
}

// Resolver maps Accept-Language headers onto supported locales.
type Resolver struct {
	loc *time.Location
}

// NewResolver returns a Resolver rendering times in loc.
func NewResolver(loc *time.Location) *Resolver {
	return &Resolver{loc: loc}
}

// Resolve picks the best supported locale for an Accept-Language value.
func (r *Resolver) Resolve(acceptLanguage string) Locale {
	prefs, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(prefs) == 0 {
		return Default(r.loc)
	}
	_, idx, conf := matcher.Match(prefs...)
	if conf == language.No {
		return Default(r.loc)
	}
	return build(idx, r.loc)
}

// Middleware stores the viewer's locale in the request context.
func (r *Resolver) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		l := r.Resolve(req.Header.Get("Accept-Language"))
		next.ServeHTTP(w, req.WithContext(WithLocale(req.Context(), l)))
	})
}

type ctxKey struct{}

// WithLocale returns ctx carrying l.
func WithLocale(ctx context.Context, l Locale) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// FromContext returns the request locale, or the en-US default.
func FromContext(ctx context.Context) Locale {
	if l, ok := ctx.Value(ctxKey{}).(Locale); ok {
		return l
	}
	return Default(nil)
}

// DateTime renders a backend timestamp: "N/A" when absent, the raw value for
// string dates, the local date and time for component dates.
func (l Locale) DateTime(d domain.Date) string {
	return l.render(d, l.DateTimeLayout)
}

// Date renders only the calendar date part.
func (l Locale) Date(d domain.Date) string {
	return l.render(d, l.DateLayout)
}

// Time formats an absolute instant in the locale's zone.
func (l Locale) Time(t time.Time) string {
	return t.In(l.Location).Format(l.DateTimeLayout)
}

func (l Locale) render(d domain.Date, layout string) string {
	switch {
	case d.IsZero():
		return notAvailable
	case !d.IsArray():
		return d.Raw()
	}
	t, ok := d.Time(l.Location)
	if !ok {
		return invalidDate
	}
	return t.Format(layout)
}
