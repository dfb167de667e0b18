package config

import (
	"errors"
	"fmt"
	"log"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
)

// Session backends.
const (
	SessionMemory = "memory"
	SessionRedis  = "redis"
)

// Config stores web client settings.
type Config struct {
	Port     int
	LogLevel string
	Gateway  Gateway
	Session  Session
	Redis    Redis
	// RateLimit throttles login attempts per client IP.
	RateLimit RateLimit
	Ops       Ops
	// DisplayTimezone is the IANA zone dates are shown in; empty is local time.
	DisplayTimezone string
}

// Gateway is the backend API gateway.
type Gateway struct {
	URL     string
	Timeout time.Duration // 0 disables the client timeout
}

// Session configures where session records live and the id cookie.
type Session struct {
	Backend      string
	Cookie       string
	TTL          time.Duration
	CookieSecure bool
}

// Redis is used when Session.Backend is "redis".
type Redis struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
}

// RateLimit is the per-IP token bucket in front of POST /login.
type RateLimit struct {
	Enabled    bool
	Rate       float64
	Burst      int
	TTL        time.Duration
	MaxClients int
}

// Ops is the metrics and pprof listener.
type Ops struct {
	Enabled bool
	Addr    string
	User    string
	Pass    string
}

// Location resolves DisplayTimezone.
func (c *Config) Location() (*time.Location, error) {
	if c.DisplayTimezone == "" {
		return time.Local, nil
	}
	return time.LoadLocation(c.DisplayTimezone)
}

// Load reads configuration in order: .env (if present) → environment → flags.
func Load() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("warning: .env not loaded: %v", err)
	}

	cfg := &Config{
		Port:      defaultPort,
		LogLevel:  defaultLogLevel,
		Gateway:   DefaultGateway(),
		Session:   DefaultSession(),
		Redis:     DefaultRedis(),
		RateLimit: DefaultRateLimit(),
		Ops:       DefaultOps(),
	}

	var e envReader
	e.intVar("PORT", &cfg.Port)
	e.strVar("LOG_LEVEL", &cfg.LogLevel)
	e.strVar("GATEWAY_URL", &cfg.Gateway.URL)
	e.durationVar("GATEWAY_TIMEOUT", &cfg.Gateway.Timeout)
	e.strVar("SESSION_BACKEND", &cfg.Session.Backend)
	e.strVar("SESSION_COOKIE", &cfg.Session.Cookie)
	e.durationVar("SESSION_TTL", &cfg.Session.TTL)
	e.boolVar("SESSION_COOKIE_SECURE", &cfg.Session.CookieSecure)
	e.strVar("REDIS_ADDR", &cfg.Redis.Addr)
	e.strVar("REDIS_PASSWORD", &cfg.Redis.Password)
	e.intVar("REDIS_DB", &cfg.Redis.DB)
	e.strVar("REDIS_PREFIX", &cfg.Redis.Prefix)
	e.boolVar("LOGIN_RATE_LIMIT_ENABLED", &cfg.RateLimit.Enabled)
	e.floatVar("LOGIN_RATE_LIMIT_RATE", &cfg.RateLimit.Rate)
	e.intVar("LOGIN_RATE_LIMIT_BURST", &cfg.RateLimit.Burst)
	e.durationVar("LOGIN_RATE_LIMIT_TTL", &cfg.RateLimit.TTL)
	e.boolVar("OPS_ENABLED", &cfg.Ops.Enabled)
	e.strVar("OPS_ADDR", &cfg.Ops.Addr)
	e.strVar("OPS_USER", &cfg.Ops.User)
	e.strVar("OPS_PASS", &cfg.Ops.Pass)
	e.strVar("DISPLAY_TIMEZONE", &cfg.DisplayTimezone)
	if e.err != nil {
		return nil, e.err
	}

	fs := pflag.CommandLine
	fs.IntVarP(&cfg.Port, "port", "p", cfg.Port, "port to listen on")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level (debug, info, warn, error)")
	fs.StringVar(&cfg.Gateway.URL, "gateway-url", cfg.Gateway.URL, "API gateway base URL")
	fs.StringVar(&cfg.Session.Backend, "session-backend", cfg.Session.Backend, "session store (memory, redis)")
	fs.BoolVar(&cfg.Ops.Enabled, "ops", cfg.Ops.Enabled, "serve /metrics and /debug/pprof on the ops address")
	if err := fs.Parse(os.Args[1:]); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("invalid log level: %q", c.LogLevel)
	}
	u, err := url.Parse(c.Gateway.URL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid gateway url: %q", c.Gateway.URL)
	}
	if c.Gateway.Timeout < 0 {
		return fmt.Errorf("invalid gateway timeout: %s", c.Gateway.Timeout)
	}
	switch c.Session.Backend {
	case SessionMemory:
	case SessionRedis:
		if c.Redis.Addr == "" {
			return errors.New("redis session backend requires REDIS_ADDR")
		}
	default:
		return fmt.Errorf("invalid session backend: %q", c.Session.Backend)
	}
	if c.Session.Cookie == "" {
		return errors.New("session cookie name is empty")
	}
	if c.RateLimit.Enabled && (c.RateLimit.Rate <= 0 || c.RateLimit.Burst <= 0) {
		return fmt.Errorf("invalid login rate limit: rate=%v burst=%d", c.RateLimit.Rate, c.RateLimit.Burst)
	}
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("invalid display timezone: %w", err)
	}
	return nil
}

// envReader collects the first malformed variable.
type envReader struct{ err error }

func (e *envReader) lookup(key string) (string, bool) {
	v, ok := os.LookupEnv(key)
	v = strings.TrimSpace(v)
	return v, ok && v != "" && e.err == nil
}

func (e *envReader) fail(key, v string, err error) {
	e.err = fmt.Errorf("invalid %s=%q: %w", key, v, err)
}

func (e *envReader) strVar(key string, dst *string) {
	if v, ok := e.lookup(key); ok {
		*dst = v
	}
}

func (e *envReader) intVar(key string, dst *int) {
	if v, ok := e.lookup(key); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			e.fail(key, v, err)
			return
		}
		*dst = n
	}
}

func (e *envReader) floatVar(key string, dst *float64) {
	if v, ok := e.lookup(key); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			e.fail(key, v, err)
			return
		}
		*dst = f
	}
}

func (e *envReader) boolVar(key string, dst *bool) {
	if v, ok := e.lookup(key); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			e.fail(key, v, err)
			return
		}
		*dst = b
	}
}

func (e *envReader) durationVar(key string, dst *time.Duration) {
	if v, ok := e.lookup(key); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			e.fail(key, v, err)
			return
		}
		*dst = d
	}
}
