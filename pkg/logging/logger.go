package logging

import (
	"log/slog"
	"os"
	"strings"
)

// Logger wraps slog with JSON output to stdout.
type Logger struct {
	*slog.Logger
}

// New creates a Logger at the given level ("debug", "info", "warn", "error").
func New(level string) *Logger {
	var l slog.Level
	switch strings.ToLower(level) {
	case "debug":
		l = slog.LevelDebug
	case "warn":
		l = slog.LevelWarn
	case "error":
		l = slog.LevelError
	default:
		l = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: l})
	return &Logger{Logger: slog.New(handler)}
}

// With returns a Logger with the given attributes attached.
func (lg *Logger) With(args ...any) *Logger {
	return &Logger{Logger: lg.Logger.With(args...)}
}
