//go:build !tinygo

package logx

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a zap logger at the given level ("debug", "info", ...),
// installs it as the zap global and returns its sugared form with a sync func.
// Debug level selects the development encoder.
func New(level string) (Logger, func(), error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, nil, err
	}
	cfg := zap.NewProductionConfig()
	if lvl == zapcore.DebugLevel {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)

	logger, err := cfg.Build()
	if err != nil {
		return nil, nil, err
	}
	zap.ReplaceGlobals(logger)
	return logger.Sugar(), func() { _ = logger.Sync() }, nil
}

// Nop discards everything.
func Nop() Logger { return zap.NewNop().Sugar() }
