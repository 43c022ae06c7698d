package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger creates the process logger.
func NewLogger(debug bool) *zap.Logger {
	if debug {
		return NewLoggerWithLevel("debug")
	}
	return NewLoggerWithLevel("info")
}

// NewLoggerWithLevel creates a logger at the named level. An
// unrecognized level falls back to info.
func NewLoggerWithLevel(level string) *zap.Logger {
	config := zap.NewProductionConfig()

	var lvl zapcore.Level
	if err := lvl.Set(level); err != nil {
		lvl = zapcore.InfoLevel
	}
	config.Level = zap.NewAtomicLevelAt(lvl)

	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.EncoderConfig.EncodeDuration = zapcore.StringDurationEncoder
	config.DisableStacktrace = true

	logger, err := config.Build()
	if err != nil {
		panic("failed to initialize logging: " + err.Error())
	}

	return logger
}
