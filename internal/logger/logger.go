package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
)

var log *slog.Logger

// New wraps an slog handler. Exposed so tests can swap the output.
func New(h slog.Handler) *slog.Logger {
	return slog.New(h)
}

// NewJSONHandler mirrors slog.NewJSONHandler for callers of New.
func NewJSONHandler(w io.Writer, opts *slog.HandlerOptions) slog.Handler {
	return slog.NewJSONHandler(w, opts)
}

func Init() {
	level := slog.LevelInfo
	if os.Getenv("LOG_LEVEL") == "debug" {
		level = slog.LevelDebug
	}
	log = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
}

func ensure() *slog.Logger {
	if log == nil {
		Init()
	}
	return log
}

func Info(msg string, args ...interface{}) {
	ensure().Info(msg, args...)
}

func Infof(format string, v ...interface{}) {
	ensure().Info(fmt.Sprintf(format, v...))
}

func Error(msg string, args ...interface{}) {
	ensure().Error(msg, args...)
}

func Errorf(format string, v ...interface{}) {
	ensure().Error(fmt.Sprintf(format, v...))
}

func Debug(msg string, args ...interface{}) {
	ensure().Debug(msg, args...)
}

func Debugf(format string, v ...interface{}) {
	ensure().Debug(fmt.Sprintf(format, v...))
}

func Fatal(msg string) {
	ensure().Error(msg)
	os.Exit(1)
}

func Fatalf(format string, v ...interface{}) {
	ensure().Error(fmt.Sprintf(format, v...))
	os.Exit(1)
}

// WithError returns a logger with the error attached as a field.
func WithError(err error) *slog.Logger {
	return ensure().With("error", err)
}

// WithFields returns a logger with the given fields attached.
func WithFields(fields map[string]interface{}) *slog.Logger {
	args := make([]interface{}, 0, len(fields)*2)
	for k, v := range fields {
		args = append(args, k, v)
	}
	return ensure().With(args...)
}
