// Package telemetry is the logging and metrics boundary every other
// package reaches through rather than importing zap/prometheus
// directly. A Client holds one *zap.SugaredLogger and derives child
// loggers per subsystem via With("component", ...), replacing the
// teacher's package-level log.Printf calls (pkg/server/server.go).
package telemetry

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger builds the process logger. debug switches between a
// human-readable console encoder (development) and JSON (production),
// mirroring zap.NewDevelopment/zap.NewProduction but letting the
// caller pick without constructing two separate configs.
func NewLogger(debug bool) (*zap.SugaredLogger, error) {
	cfg := zap.NewProductionConfig()
	if debug {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	cfg.DisableStacktrace = !debug

	logger, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return logger.Sugar(), nil
}

// Component returns a child logger tagged with the given subsystem
// name, e.g. telemetry.Component(l, "conn").
func Component(l *zap.SugaredLogger, name string) *zap.SugaredLogger {
	return l.With("component", name)
}

// Noop returns a logger that discards everything, for tests and
// callers that never configured one.
func Noop() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}
