package app

import (
	"os"

	"bybud-web/internal/config"
	"bybud-web/internal/logx"
)

// NewLogger returns the JSON logger at the configured level.
func NewLogger(cfg *config.Config) (logx.Logger, error) {
	level, err := logx.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	return logx.NewJSON(os.Stdout, level), nil
}
