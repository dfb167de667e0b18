package apiclient

import (
	"net/http"

	"bybud-web/internal/session"
)

// bearerTransport attaches the access token of the session record carried
// by the request context.
type bearerTransport struct {
	next http.RoundTripper
}

func (t *bearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	rec, ok := session.RecordFrom(req.Context())
	if !ok || rec.AccessToken == "" {
		return t.next.RoundTrip(req)
	}
	req = req.Clone(req.Context())
	req.Header.Set("Authorization", "Bearer "+rec.AccessToken)
	return t.next.RoundTrip(req)
}
