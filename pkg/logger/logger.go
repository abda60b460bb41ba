package logger

import (
	"sync"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	Log      *zap.Logger
	onceInit sync.Once
	initErr  error
)

// Init builds the process logger once. Later calls return the same instance,
// or the error the first build failed with.
func Init(level zapcore.Level, meta ...zap.Field) error {
	onceInit.Do(func() {
		Log, initErr = build(configure(level), meta...)
	})
	return initErr
}

func build(cfg zap.Config, meta ...zap.Field) (*zap.Logger, error) {
	instance, err := cfg.Build(zap.AddCaller())
	if err != nil {
		return nil, errors.Wrap(err, "build logger")
	}
	return instance.With(meta...), nil
}

// ParseLevel maps a config string to a zap level, falling back to info.
func ParseLevel(s string) zapcore.Level {
	level, err := zapcore.ParseLevel(s)
	if err != nil {
		return zapcore.InfoLevel
	}
	return level
}

func configure(level zapcore.Level) zap.Config {
	encoder := zap.NewProductionEncoderConfig()
	encoder.TimeKey = "timestamp"
	encoder.EncodeTime = zapcore.ISO8601TimeEncoder
	encoder.EncodeLevel = zapcore.CapitalColorLevelEncoder
	encoder.EncodeCaller = zapcore.ShortCallerEncoder
	encoder.EncodeDuration = zapcore.SecondsDurationEncoder
	encoder.EncodeName = zapcore.FullNameEncoder
	encoder.CallerKey = "caller"
	return zap.Config{
		Level:             zap.NewAtomicLevelAt(level),
		Development:       false,
		DisableCaller:     false,
		DisableStacktrace: true,
		Encoding:          "console",
		EncoderConfig:     encoder,
		// stdout belongs to command output
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
	}
}
