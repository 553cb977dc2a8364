// Package logger builds the zap logger used by the salescast command.
package logger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger wraps zap.SugaredLogger for command-level logging. Library
// packages receive the structured logger from Zap.
type Logger struct {
	*zap.SugaredLogger
}

// ParseLevel converts a level name such as "debug" or "warn".
func ParseLevel(level string) (zapcore.Level, error) {
	var l zapcore.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return zapcore.InfoLevel, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	return l, nil
}

// New creates a logger writing to stderr. Development mode uses a colored
// console encoder, otherwise JSON. An unknown level falls back to info.
func New(level string, development bool) (*Logger, error) {
	var config zap.Config
	if development {
		config = zap.NewDevelopmentConfig()
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		config = zap.NewProductionConfig()
		config.Encoding = "json"
	}
	config.OutputPaths = []string{"stderr"}
	config.ErrorOutputPaths = []string{"stderr"}

	zapLevel, err := ParseLevel(level)
	if err != nil {
		zapLevel = zapcore.InfoLevel
	}
	config.Level = zap.NewAtomicLevelAt(zapLevel)

	base, err := config.Build(zap.AddStacktrace(zapcore.ErrorLevel))
	if err != nil {
		return nil, err
	}
	return &Logger{SugaredLogger: base.Sugar()}, nil
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return &Logger{SugaredLogger: zap.NewNop().Sugar()}
}

// Zap returns the structured logger for library packages.
func (l *Logger) Zap() *zap.Logger {
	return l.SugaredLogger.Desugar()
}

// WithFields returns a logger with additional key-value pairs.
func (l *Logger) WithFields(fields ...interface{}) *Logger {
	return &Logger{SugaredLogger: l.SugaredLogger.With(fields...)}
}

// WithError returns a logger with an error field.
func (l *Logger) WithError(err error) *Logger {
	return l.WithFields("error", err.Error())
}
