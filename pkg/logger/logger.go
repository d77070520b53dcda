// Package logger wraps zap's SugaredLogger behind a small key/value
// interface so the rest of the service never imports zap directly.
package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Logger interface {
	Debug(msg string, fields ...interface{})
	Info(msg string, fields ...interface{})
	Warn(msg string, fields ...interface{})
	Error(msg string, fields ...interface{})
	Fatal(msg string, fields ...interface{})

	// With returns a child logger carrying the given key/value pairs on
	// every subsequent line.
	With(fields ...interface{}) Logger
}

type zapLogger struct {
	sugar *zap.SugaredLogger
}

// New builds a production JSON logger at the given level. Unknown level
// strings fall back to info.
func New(level string) Logger {
	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(parseLevel(level))

	config.EncoderConfig = zapcore.EncoderConfig{
		TimeKey:        "timestamp",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		MessageKey:     "message",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	l, err := config.Build(zap.AddCallerSkip(1))
	if err != nil {
		panic(err)
	}

	return &zapLogger{sugar: l.Sugar()}
}

func parseLevel(level string) zapcore.Level {
	switch level {
	case "debug":
		return zapcore.DebugLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

func (l *zapLogger) Debug(msg string, fields ...interface{}) { l.sugar.Debugw(msg, fields...) }
func (l *zapLogger) Info(msg string, fields ...interface{})  { l.sugar.Infow(msg, fields...) }
func (l *zapLogger) Warn(msg string, fields ...interface{})  { l.sugar.Warnw(msg, fields...) }
func (l *zapLogger) Error(msg string, fields ...interface{}) { l.sugar.Errorw(msg, fields...) }
func (l *zapLogger) Fatal(msg string, fields ...interface{}) { l.sugar.Fatalw(msg, fields...) }

func (l *zapLogger) With(fields ...interface{}) Logger {
	return &zapLogger{sugar: l.sugar.With(fields...)}
}
