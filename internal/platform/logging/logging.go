// Package logging configures structured slog loggers for service processes.
package logging

import (
	"log/slog"
	"os"
	"strings"
)

// New creates a JSON slog logger tagged with the service name.
// Level is read from STRIDEBOUND_LOG_LEVEL (debug|info|warn|error),
// defaulting to info.
func New(service string) *slog.Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: levelFromEnv(),
	})
	return slog.New(handler).With("service", strings.TrimSpace(service))
}

func levelFromEnv() slog.Level {
	switch strings.ToLower(strings.TrimSpace(os.Getenv("STRIDEBOUND_LOG_LEVEL"))) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
