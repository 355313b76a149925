package kerastuner

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Logger is the package logger. It defaults to zap's production
	// configuration writing to stderr.
	Logger *zap.Logger
)

func init() {
	var err error

	config := zap.NewProductionConfig()
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	Logger, err = config.Build()
	if err != nil {
		panic(err)
	}
}

// SetLogLevel raises the minimum level of the package logger.
func SetLogLevel(level zapcore.Level) {
	Logger = Logger.WithOptions(zap.IncreaseLevel(level))
}

// SetLogger replaces the package logger, e.g. with zap.NewNop to silence
// the package.
func SetLogger(logger *zap.Logger) {
	Logger = logger
}
