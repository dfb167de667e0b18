package config

import "time"

const (
	defaultPort     = 3000
	defaultLogLevel = "info"
)

var defaultGateway = Gateway{
	URL:     "http://localhost:8080",
	Timeout: 10 * time.Second,
}

var defaultSession = Session{
	Backend: SessionMemory,
	Cookie:  "bybud_sid",
	TTL:     24 * time.Hour,
}

var defaultRedis = Redis{
	Addr:   "127.0.0.1:6379",
	Prefix: "bybud:",
}

var defaultRateLimit = RateLimit{
	Enabled:    true,
	Rate:       0.2,
	Burst:      5,
	TTL:        10 * time.Minute,
	MaxClients: 10000,
}

var defaultOps = Ops{
	Addr: "127.0.0.1:6060",
}

// DefaultPort returns the default port.
func DefaultPort() int {
	return defaultPort
}

// DefaultGateway returns the default API gateway settings.
func DefaultGateway() Gateway {
	return defaultGateway
}

// DefaultSession returns the default session settings.
func DefaultSession() Session {
	return defaultSession
}

// DefaultRedis returns the default Redis settings.
func DefaultRedis() Redis {
	return defaultRedis
}

// DefaultRateLimit returns the default login throttling settings.
func DefaultRateLimit() RateLimit {
	return defaultRateLimit
}

// DefaultOps returns the default ops server settings.
func DefaultOps() Ops {
	return defaultOps
}
