// Package logging wires the platform's slog stack: JSON to stdout, a
// fan-out handler, and an asynchronous database sink for errors with a
// retention cleanup loop.
package logging

import (
	"log/slog"
	"os"
	"strings"
)

// Setup installs the stdout JSON logger. main swaps the default for a
// MultiHandler once the database sink is available.
func Setup() {
	slog.SetDefault(slog.New(StdoutHandler()))
}

// StdoutHandler returns the JSON console handler at the level configured
// via LOG_LEVEL (default info).
func StdoutHandler() slog.Handler {
	return slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: Level()})
}

// Level reads LOG_LEVEL from the environment.
func Level() slog.Level {
	switch strings.ToLower(os.Getenv("LOG_LEVEL")) {
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
