// Package logging builds the zap loggers used across the engine and keeps
// raw survey text out of log output.
package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New constructs a logger for the given environment. "local" and "dev" get
// the human-readable development encoder; everything else gets production
// JSON output. level must parse as a zap level ("debug", "info", ...).
func New(env, level string) (*zap.Logger, error) {
	var cfg zap.Config
	switch env {
	case "local", "dev", "development":
		cfg = zap.NewDevelopmentConfig()
	default:
		cfg = zap.NewProductionConfig()
	}

	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("parse log level %q: %w", level, err)
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return logger, nil
}
