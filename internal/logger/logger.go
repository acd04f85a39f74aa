package logger

import (
	"log/slog"
	"os"
	"strings"
)

// New constructs a text logger for one pipeline component. The level
// comes from VERIDICT_LOG_LEVEL (default info); operational logs go to
// stderr so report output on stdout stays clean.
func New(component string) *slog.Logger {
	level := parseLevel(os.Getenv("VERIDICT_LOG_LEVEL"))
	h := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	return slog.New(h).With("component", component)
}

func parseLevel(raw string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(raw)) {
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
