// Package guard gates routes by role. It only reads the state resolved by
// the session provider; it never looks at storage itself.
package guard

import (
	"net/http"

	"bybud-web/internal/domain"
	"bybud-web/internal/session"
)

// Decision is the outcome of checking a route's roles against a state.
type Decision int

const (
	// Checking means the state is not resolved yet; nothing is rendered.
	Checking Decision = iota
	DeniedUnauthenticated
	DeniedWrongRole
	Granted
)

func (d Decision) String() string {
	switch d {
	case Checking:
		return "checking"
	case DeniedUnauthenticated:
		return "denied_unauthenticated"
	case DeniedWrongRole:
		return "denied_wrong_role"
	case Granted:
		return "granted"
	default:
		return "unknown"
	}
}

// Redirect targets.
const (
	LoginPath   = "/login"
	DefaultPath = "/"
)

// Decide grants access iff st is authenticated and shares a role with allowed.
func Decide(st session.State, allowed ...domain.Role) Decision {
	switch {
	case !st.Resolved:
		return Checking
	case !st.Authenticated:
		return DeniedUnauthenticated
	}
	for _, r := range allowed {
		if st.HasRole(r) {
			return Granted
		}
	}
	return DeniedWrongRole
}

// Require is chi middleware applying Decide to the state in the request
// context: unauthenticated visitors go to the login page, wrong roles to the
// default page. An unresolved state is answered with 503.
func Require(allowed ...domain.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch Decide(session.StateFrom(r.Context()), allowed...) {
			case Granted:
				next.ServeHTTP(w, r)
			case DeniedUnauthenticated:
				http.Redirect(w, r, LoginPath, http.StatusSeeOther)
			case DeniedWrongRole:
				http.Redirect(w, r, DefaultPath, http.StatusSeeOther)
			default:
				http.Error(w, "session not resolved", http.StatusServiceUnavailable)
			}
		})
	}
}
