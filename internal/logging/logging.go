// Package logging builds the zap loggers used across the resolver.
package logging

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New creates a logger at the given level. Pretty output uses the console
// encoder for local runs; otherwise lines are JSON.
func New(level string, pretty bool) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	var cfg zap.Config
	if pretty {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		cfg = zap.NewProductionConfig()
		cfg.EncoderConfig.TimeKey = "timestamp"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return logger, nil
}

// Timed logs the start of an operation at debug level and returns a func
// that logs its completion with the elapsed time.
func Timed(logger *zap.Logger, operation string, fields ...zap.Field) func() {
	if logger == nil || !logger.Core().Enabled(zap.DebugLevel) {
		return func() {}
	}

	start := time.Now()
	logger.Debug("starting "+operation, fields...)

	return func() {
		logger.Debug("completed "+operation, append(fields, zap.Duration("took", time.Since(start)))...)
	}
}
