// Package logging provides the structured logger used across the library.
package logging

import (
	"log/slog"
	"os"
)

// NewLogger creates an slog.Logger based on the running mode.
// In production it returns a JSON handler; otherwise a text handler at debug
// level for development.
func NewLogger(mode string) *slog.Logger {
	var handler slog.Handler
	if mode == "production" {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	} else {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})
	}
	return slog.New(handler)
}
