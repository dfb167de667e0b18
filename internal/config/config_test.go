package config_test

import (
	"io"
	"os"
	"testing"
	"time"

	"bybud-web/internal/config"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
)

var envKeys = []string{
	"PORT", "LOG_LEVEL", "GATEWAY_URL", "GATEWAY_TIMEOUT",
	"SESSION_BACKEND", "SESSION_COOKIE", "SESSION_TTL", "SESSION_COOKIE_SECURE",
	"REDIS_ADDR", "REDIS_PASSWORD", "REDIS_DB", "REDIS_PREFIX",
	"LOGIN_RATE_LIMIT_ENABLED", "LOGIN_RATE_LIMIT_RATE", "LOGIN_RATE_LIMIT_BURST", "LOGIN_RATE_LIMIT_TTL",
	"OPS_ENABLED", "OPS_ADDR", "OPS_USER", "OPS_PASS", "DISPLAY_TIMEZONE",
}

func resetEnv(t *testing.T) {
	t.Helper()
	old := pflag.CommandLine
	oldArgs := os.Args
	fs := pflag.NewFlagSet(os.Args[0], pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	pflag.CommandLine = fs
	os.Args = []string{"bybud-web"}
	t.Cleanup(func() {
		pflag.CommandLine = old
		os.Args = oldArgs
	})
	for _, k := range envKeys {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	resetEnv(t)

	cfg, err := config.Load()
	require.NoError(t, err)
	require.NotNil(t, cfg)

	require.Equal(t, 3000, cfg.Port)
	require.Equal(t, "info", cfg.LogLevel)
	require.Equal(t, config.DefaultGateway(), cfg.Gateway)
	require.Equal(t, config.SessionMemory, cfg.Session.Backend)
	require.Equal(t, "bybud_sid", cfg.Session.Cookie)
	require.False(t, cfg.Session.CookieSecure)
	require.Equal(t, config.DefaultRateLimit(), cfg.RateLimit)
	require.False(t, cfg.Ops.Enabled)

	loc, err := cfg.Location()
	require.NoError(t, err)
	require.Equal(t, time.Local, loc)
}

func TestLoad_EnvOverrides(t *testing.T) {
	resetEnv(t)

	t.Setenv("PORT", "9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("GATEWAY_URL", "https://gateway.bybud.no")
	t.Setenv("GATEWAY_TIMEOUT", "0")
	t.Setenv("SESSION_BACKEND", "redis")
	t.Setenv("SESSION_TTL", "2h")
	t.Setenv("SESSION_COOKIE_SECURE", "true")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("REDIS_DB", "2")
	t.Setenv("LOGIN_RATE_LIMIT_ENABLED", "false")
	t.Setenv("OPS_ENABLED", "1")
	t.Setenv("OPS_USER", "ops")
	t.Setenv("DISPLAY_TIMEZONE", "Europe/Oslo")

	cfg, err := config.Load()
	require.NoError(t, err)

	require.Equal(t, 9090, cfg.Port)
	require.Equal(t, "debug", cfg.LogLevel)
	require.Equal(t, "https://gateway.bybud.no", cfg.Gateway.URL)
	require.Zero(t, cfg.Gateway.Timeout)
	require.Equal(t, config.SessionRedis, cfg.Session.Backend)
	require.Equal(t, 2*time.Hour, cfg.Session.TTL)
	require.True(t, cfg.Session.CookieSecure)
	require.Equal(t, "redis:6379", cfg.Redis.Addr)
	require.Equal(t, 2, cfg.Redis.DB)
	require.Equal(t, "bybud:", cfg.Redis.Prefix)
	require.False(t, cfg.RateLimit.Enabled)
	require.True(t, cfg.Ops.Enabled)
	require.Equal(t, "ops", cfg.Ops.User)

	loc, err := cfg.Location()
	require.NoError(t, err)
	require.Equal(t, "Europe/Oslo", loc.String())
}

func TestLoad_FlagsOverrideEnv(t *testing.T) {
	resetEnv(t)
	t.Setenv("PORT", "9090")
	os.Args = []string{"bybud-web", "--port=7070", "--gateway-url=http://api:8080"}

	cfg, err := config.Load()
	require.NoError(t, err)
	require.Equal(t, 7070, cfg.Port)
	require.Equal(t, "http://api:8080", cfg.Gateway.URL)
}

func TestLoad_Invalid(t *testing.T) {
	cases := map[string]map[string]string{
		"port out of range": {"PORT": "70000"},
		"port not a number": {"PORT": "abc"},
		"log level":         {"LOG_LEVEL": "loud"},
		"gateway url":       {"GATEWAY_URL": "not a url"},
		"gateway timeout":   {"GATEWAY_TIMEOUT": "soon"},
		"session backend":   {"SESSION_BACKEND": "cookie"},
		"secure flag":       {"SESSION_COOKIE_SECURE": "maybe"},
		"rate limit rate":   {"LOGIN_RATE_LIMIT_RATE": "0"},
		"rate limit burst":  {"LOGIN_RATE_LIMIT_BURST": "x"},
		"display timezone":  {"DISPLAY_TIMEZONE": "Mars/Olympus"},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			resetEnv(t)
			for k, v := range env {
				t.Setenv(k, v)
			}
			cfg, err := config.Load()
			require.Error(t, err)
			require.Nil(t, cfg)
		})
	}
}

func TestLoad_FlagsParseError(t *testing.T) {
	resetEnv(t)
	os.Args = []string{"cmd", "--port=not-a-number"}

	cfg, err := config.Load()

	require.Error(t, err)
	require.Nil(t, cfg)
	require.Contains(t, err.Error(), "parse flags")
}
