package logging

import (
	"io"
	"log/slog"
)

// New builds the process logger. Belt commands keep stdout reserved for
// command output (resolved classpath, derived listeners), so callers pass
// stderr as the writer.
func New(w io.Writer, logFormat, logLevel string) *slog.Logger {
	var level slog.Level

	switch logLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	case "info":
	default:
		level = slog.LevelInfo
	}

	var handler slog.Handler

	switch logFormat {
	case "json":
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{
			Level: level,
		})
	case "text":
		handler = slog.NewTextHandler(w, &slog.HandlerOptions{
			Level: level,
		})
	default:
		handler = slog.NewTextHandler(w, &slog.HandlerOptions{
			Level: level,
		})
	}

	logger := slog.New(handler)

	slog.SetDefault(logger)

	return logger
}
