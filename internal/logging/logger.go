// Package logging provides leveled, prefixed logging for the filesystem
// subsystems, backed by log/slog with a tint handler.
package logging

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

// LevelTrace sits below slog.LevelDebug and is used for very detailed
// per-operation tracing.
const LevelTrace = slog.Level(-8)

// Setup installs the process-wide slog handler. It is called once at
// startup, before any subsystem logger is used.
func Setup(w io.Writer, level slog.Level) {
	slog.SetDefault(slog.New(
		tint.NewHandler(w, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
		}),
	))
}

// ParseLevel maps a level name (as found in LOG_LEVEL) to a slog level.
// Unknown names fall back to INFO.
func ParseLevel(name string) slog.Level {
	switch strings.ToUpper(name) {
	case "ERROR":
		return slog.LevelError
	case "WARN":
		return slog.LevelWarn
	case "INFO":
		return slog.LevelInfo
	case "DEBUG":
		return slog.LevelDebug
	case "TRACE":
		return LevelTrace
	default:
		return slog.LevelInfo
	}
}

// Logger is a thin subsystem-scoped logger. It resolves the default slog
// logger at call time, so package-level loggers created before Setup still
// pick up the configured handler.
type Logger struct {
	sub string
}

// GetLogger returns the root logger.
func GetLogger() *Logger {
	return &Logger{}
}

// WithPrefix returns a logger tagged with a subsystem name.
func (l *Logger) WithPrefix(sub string) *Logger {
	return &Logger{sub: sub}
}

func (l *Logger) log(level slog.Level, msg string, args ...any) {
	logger := slog.Default()
	if !logger.Enabled(context.Background(), level) {
		return
	}
	if l.sub != "" {
		args = append(args, slog.String("sub", l.sub))
	}
	logger.Log(context.Background(), level, msg, args...)
}

// Error logs an error message.
func (l *Logger) Error(msg string, args ...any) {
	l.log(slog.LevelError, msg, args...)
}

// Warn logs a warning message.
func (l *Logger) Warn(msg string, args ...any) {
	l.log(slog.LevelWarn, msg, args...)
}

// Info logs an informational message.
func (l *Logger) Info(msg string, args ...any) {
	l.log(slog.LevelInfo, msg, args...)
}

// Debug logs a debug message.
func (l *Logger) Debug(msg string, args ...any) {
	l.log(slog.LevelDebug, msg, args...)
}

// Trace logs a very detailed trace message.
func (l *Logger) Trace(msg string, args ...any) {
	l.log(LevelTrace, msg, args...)
}
