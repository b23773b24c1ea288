// Package mrlog constructs the structured logger shared by every actor
// in a simulation run.
package mrlog

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a console-encoded, ISO8601-timestamped *zap.SugaredLogger
// at the given level ("debug", "info", "warn", "error"). An unrecognized
// level falls back to info.
func New(level string) (*zap.SugaredLogger, error) {
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = zapcore.InfoLevel
	}

	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	cfg.Level = zap.NewAtomicLevelAt(lvl)

	logger, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return logger.Sugar(), nil
}

// ForActor derives a child logger tagged with the actor's kind and
// worker id, so every log line is attributable without printf-style
// mailbox names.
func ForActor(base *zap.SugaredLogger, actor string, wid int) *zap.SugaredLogger {
	return base.With("actor", actor, "wid", wid)
}
