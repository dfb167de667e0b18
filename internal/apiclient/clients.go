package apiclient

import (
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"bybud-web/internal/logx"
)

// Resource prefixes on the gateway.
const (
	AuthPrefix     = "/api/auth"
	UserPrefix     = "/api/users"
	DeliveryPrefix = "/api/delivery"
)

// Clients groups the three gateway clients.
type Clients struct {
	Auth     *Client
	User     *Client
	Delivery *Client
}

// NewClients builds the auth, user and delivery clients for gatewayURL.
func NewClients(gatewayURL string, timeout time.Duration, logger logx.Logger, requests *prometheus.CounterVec) Clients {
	base := strings.TrimRight(gatewayURL, "/")
	opts := Options{Timeout: timeout, Logger: logger, Requests: requests}
	return Clients{
		Auth:     New("auth", base+AuthPrefix, opts),
		User:     New("user", base+UserPrefix, opts),
		Delivery: New("delivery", base+DeliveryPrefix, opts),
	}
}
