package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ZapAdapter backs the Logger interface with a zap.SugaredLogger so the
// rest of the code never sees zap types directly.
type ZapAdapter struct {
	sugar *zap.SugaredLogger
}

// NewZapAdapter creates a console-encoded zap logger. Debug level output
// is enabled when debug is true.
func NewZapAdapter(debug bool) (*ZapAdapter, error) {
	config := zap.NewDevelopmentConfig()
	config.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	if debug {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	config.DisableStacktrace = true

	zapLogger, err := config.Build()
	if err != nil {
		return nil, err
	}

	return &ZapAdapter{
		sugar: zapLogger.Sugar(),
	}, nil
}

func (z *ZapAdapter) Debugf(format string, args ...interface{}) {
	z.sugar.Debugf(format, args...)
}

func (z *ZapAdapter) Infof(format string, args ...interface{}) {
	z.sugar.Infof(format, args...)
}

func (z *ZapAdapter) Warnf(format string, args ...interface{}) {
	z.sugar.Warnf(format, args...)
}

func (z *ZapAdapter) Errorf(format string, args ...interface{}) {
	z.sugar.Errorf(format, args...)
}

// Sync flushes buffered log entries. Call before process exit.
func (z *ZapAdapter) Sync() error {
	return z.sugar.Sync()
}
