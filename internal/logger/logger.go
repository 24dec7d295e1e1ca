package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New creates a zap logger. Debug mode uses the human-readable development
// encoder with colored levels; otherwise production JSON output.
func New(debug bool) (*zap.Logger, error) {
	var config zap.Config

	if debug {
		config = zap.NewDevelopmentConfig()
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		config = zap.NewProductionConfig()
	}

	return config.Build()
}

// MustNew creates a logger and panics if it fails.
func MustNew(debug bool) *zap.Logger {
	log, err := New(debug)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	return log
}
