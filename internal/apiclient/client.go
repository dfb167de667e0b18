// Package apiclient talks to the BYBUD API gateway. Every client attaches the
// caller's access token and normalizes failures into apperr types; nothing is
// retried.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"bybud-web/internal/apperr"
	"bybud-web/internal/logx"
)

const maxErrorBody = 4 << 10

// Request is one call relative to the client's base URL.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Body   any
}

// Response is a successful (2xx) reply.
type Response struct {
	Status int
	Body   []byte
}

// Client is a named gateway client bound to one resource prefix.
type Client struct {
	name     string
	baseURL  string
	http     *http.Client
	logger   logx.Logger
	requests *prometheus.CounterVec
}

// Options configures New. Zero values fall back to sane defaults.
type Options struct {
	Timeout   time.Duration
	Transport http.RoundTripper
	Logger    logx.Logger
	// Requests counts calls by client and outcome; may be nil.
	Requests *prometheus.CounterVec
}

// New builds a client for baseURL (gateway URL plus resource prefix).
func New(name, baseURL string, opts Options) *Client {
	base := opts.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	logger := opts.Logger
	if logger == nil {
		logger = logx.Nop()
	}
	return &Client{
		name:    name,
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout:   opts.Timeout,
			Transport: otelhttp.NewTransport(&bearerTransport{next: base}),
		},
		logger:   logger.With(logx.String("client", name)),
		requests: opts.Requests,
	}
}

// Name is the client's label in logs, metrics and errors.
func (c *Client) Name() string { return c.name }

// Do sends req. A non-2xx reply becomes *apperr.BackendError carrying the
// envelope message; a network failure wraps apperr.ErrTransport.
func (c *Client) Do(ctx context.Context, req Request) (*Response, error) {
	httpReq, err := c.newRequest(ctx, req)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		c.count("transport")
		c.logger.Error("gateway request failed",
			logx.String("method", httpReq.Method),
			logx.String("path", httpReq.URL.Path),
			logx.Err(err),
		)
		return nil, fmt.Errorf("%s: %w: %v", c.name, apperr.ErrTransport, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.count("transport")
		return nil, fmt.Errorf("%s: read body: %w: %v", c.name, apperr.ErrTransport, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.count("rejected")
		logged := body
		if len(logged) > maxErrorBody {
			logged = logged[:maxErrorBody]
		}
		c.logger.Error("gateway request rejected",
			logx.String("method", httpReq.Method),
			logx.String("path", httpReq.URL.Path),
			logx.Int("status", resp.StatusCode),
			logx.String("body", string(logged)),
		)
		return nil, &apperr.BackendError{Client: c.name, Status: resp.StatusCode, Message: envelopeMessage(body)}
	}

	c.count("ok")
	return &Response{Status: resp.StatusCode, Body: body}, nil
}

func (c *Client) newRequest(ctx context.Context, req Request) (*http.Request, error) {
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}
	u := c.baseURL + req.Path
	if len(req.Query) > 0 {
		u += "?" + req.Query.Encode()
	}

	var body io.Reader
	if req.Body != nil {
		raw, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("%s: encode request: %w", c.name, err)
		}
		body = bytes.NewReader(raw)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, fmt.Errorf("%s: build request: %w", c.name, err)
	}
	httpReq.Header.Set("Accept", "application/json")
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	return httpReq, nil
}

func (c *Client) count(outcome string) {
	if c.requests != nil {
		c.requests.WithLabelValues(c.name, outcome).Inc()
	}
}

// Doer is what domain services need from a Client.
type Doer interface {
	Name() string
	Do(ctx context.Context, req Request) (*Response, error)
}

var _ Doer = (*Client)(nil)

// Call sends req and unwraps the envelope into T.
func Call[T any](ctx context.Context, c Doer, req Request) (T, error) {
	resp, err := c.Do(ctx, req)
	if err != nil {
		var zero T
		return zero, err
	}
	return Decode[T](c.Name(), resp)
}

// IsTransport reports whether err is a network-level failure.
func IsTransport(err error) bool {
	return errors.Is(err, apperr.ErrTransport)
}
