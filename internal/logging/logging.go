// Package logging provides the structured logger shared by the
// indexing pipeline and CLI commands.
package logging

import (
	"log/slog"
	"os"
)

var logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

// Default returns the shared logger.
func Default() *slog.Logger {
	return logger
}

// SetLevel adjusts the minimum level the shared logger emits.
func SetLevel(level slog.Level) {
	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
