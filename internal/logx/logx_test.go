package logx

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestErr_NilAndNonNil(t *testing.T) {
	require.Equal(t, Field{Key: "err", Value: nil}, Err(nil))
	require.Equal(t, Field{Key: "err", Value: "boom"}, Err(errors.New("boom")))
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"":        slog.LevelInfo,
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
	}
	for in, want := range cases {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		require.Equal(t, want, got, in)
	}

	_, err := ParseLevel("loud")
	require.Error(t, err)
}

func TestNewJSON_WritesFieldsAndRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	l := NewJSON(&buf, slog.LevelInfo).With(String("client", "delivery"))

	l.Debug("hidden")
	l.Info("gateway call", Int("status", 502), Strings("roles", []string{"COURIER"}))

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &entry))
	require.Equal(t, "gateway call", entry["msg"])
	require.Equal(t, "delivery", entry["client"])
	require.EqualValues(t, 502, entry["status"])
	require.NoError(t, l.Sync())
}

func TestNopLogger_NoPanic(t *testing.T) {
	l := Nop()
	l.Debug("d", String("k", "v"))
	l.Info("i", Bool("b", true))
	l.Warn("w")
	l.Error("e", Err(errors.New("x")))
	require.NotNil(t, l.With(String("x", "y")))
	require.NoError(t, l.Sync())
}
