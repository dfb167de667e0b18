package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrTransport wraps network-level failures talking to the gateway.
var ErrTransport = errors.New("gateway unreachable")

// ErrNoSession is returned when an operation needs a signed-in session record.
var ErrNoSession = errors.New("no session; please log in again")

// ErrNoTokens is returned by token operations when the session lacks tokens.
var ErrNoTokens = errors.New("no tokens found; user might already be logged out")

// ErrNoAccessToken is returned when an operation needs a bearer token and the
// session has none.
var ErrNoAccessToken = errors.New("no token found")

// BackendError is a request the gateway rejected.
type BackendError struct {
	Client  string
	Status  int
	Message string
}

func (e *BackendError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if txt := http.StatusText(e.Status); txt != "" {
		return fmt.Sprintf("%s: %s", e.Client, txt)
	}
	return fmt.Sprintf("%s: status %d", e.Client, e.Status)
}

// ValidationError is a form check that failed before any request was made.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// Invalid builds a ValidationError.
func Invalid(field, msg string) error {
	return &ValidationError{Field: field, Message: msg}
}

// IsUnauthorized reports whether err is a 401/403 from the gateway.
func IsUnauthorized(err error) bool {
	var be *BackendError
	if !errors.As(err, &be) {
		return false
	}
	return be.Status == http.StatusUnauthorized || be.Status == http.StatusForbidden
}

// Message extracts the text shown to users, falling back when err carries none.
func Message(err error, fallback string) string {
	if err == nil {
		return fallback
	}
	var be *BackendError
	if errors.As(err, &be) && be.Message != "" {
		return be.Message
	}
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Message
	}
	if errors.Is(err, ErrTransport) {
		return fallback
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return fallback
}
