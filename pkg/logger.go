package semnote

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LogLevelNone disables logging.
const LogLevelNone = "none"

// NewLogger returns a zap logger writing to stderr at the given level
// ("debug", "info", "warn", "error" or "none").
func NewLogger(level string) (*zap.Logger, error) {
	if level == LogLevelNone || level == "" {
		return zap.NewNop(), nil
	}
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.DisableStacktrace = true
	return cfg.Build()
}
