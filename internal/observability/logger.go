package observability

import (
	"log"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the narrow logging surface services depend on.
type Logger interface {
	Info(msg string)
	Error(msg string)
}

type zapLogger struct {
	sugar *zap.SugaredLogger
}

func (l *zapLogger) Info(msg string)  { l.sugar.Info(msg) }
func (l *zapLogger) Error(msg string) { l.sugar.Error(msg) }

func NewLogger(level string) Logger {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "json"
	switch level {
	case "debug":
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	case "warn":
		cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	case "error":
		cfg.Level = zap.NewAtomicLevelAt(zap.ErrorLevel)
	default:
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	built, err := cfg.Build()
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	return &zapLogger{sugar: built.Sugar()}
}
