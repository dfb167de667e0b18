// Package views renders the server-side pages from embedded templates.
package views

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strings"

	"bybud-web/internal/domain"
	"bybud-web/internal/locale"
	"bybud-web/internal/logx"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Page names.
const (
	PageHome               = "home"
	PageLogin              = "login"
	PageRegister           = "register"
	PageCustomerDeliveries = "customer_deliveries"
	PageCourierDeliveries  = "courier_deliveries"
	PageCourierDashboard   = "courier_dashboard"
	PageCreateDelivery     = "create_delivery"
	PageProfile            = "profile"
)

var pages = []string{
	PageHome, PageLogin, PageRegister, PageCustomerDeliveries,
	PageCourierDeliveries, PageCourierDashboard, PageCreateDelivery, PageProfile,
}

// Nav selects the navigation links for the viewer.
type Nav struct {
	Authenticated bool
	Courier       bool
	Customer      bool
}

// NavFor builds the navigation for an authenticated flag and role set.
func NavFor(authenticated bool, roles []domain.Role) Nav {
	if !authenticated {
		return Nav{}
	}
	n := Nav{Authenticated: true}
	for _, r := range roles {
		switch r {
		case domain.RoleCourier:
			n.Courier = true
		case domain.RoleCustomer:
			n.Customer = true
		}
	}
	return n
}

// Flash is a one-shot notification shown on the next rendered page.
type Flash struct {
	Kind    string `json:"k"` // success or error
	Message string `json:"m"`
}

// Page is the data every template receives. When Error is set the layout
// shows it in place of the page content.
type Page struct {
	Title  string
	Nav    Nav
	Flash  *Flash
	Error  string
	Locale locale.Locale
	Data   any
}

// Renderer holds one parsed template set per page.
type Renderer struct {
	pages  map[string]*template.Template
	logger logx.Logger
}

var funcs = template.FuncMap{
	"upper": strings.ToUpper,
	"join": func(roles []domain.Role, sep string) string {
		out := make([]string, 0, len(roles))
		for _, r := range roles {
			out = append(out, string(r))
		}
		return strings.Join(out, sep)
	},
	"pair": func(a, b any) []any { return []any{a, b} },
	"yesNo": func(b bool) string {
		if b {
			return "Yes"
		}
		return "No"
	},
}

// New parses all templates.
func New(logger logx.Logger) (*Renderer, error) {
	if logger == nil {
		logger = logx.Nop()
	}
	r := &Renderer{pages: make(map[string]*template.Template, len(pages)), logger: logger}
	for _, name := range pages {
		t, err := template.New("layout.html").Funcs(funcs).ParseFS(templateFS,
			"templates/layout.html",
			"templates/partials.html",
			"templates/"+name+".html",
		)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		r.pages[name] = t
	}
	return r, nil
}

// Render writes page with status. Output is buffered so a template failure
// still yields a clean 500.
func (r *Renderer) Render(w http.ResponseWriter, status int, name string, p Page) {
	t, ok := r.pages[name]
	if !ok {
		r.logger.Error("unknown page", logx.String("page", name))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, p); err != nil {
		r.logger.Error("render failed", logx.String("page", name), logx.Err(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		r.logger.Debug("response write failed", logx.String("page", name), logx.Err(err))
	}
}

// Static serves the embedded assets; mount it under /static/.
func Static() http.Handler {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
}
