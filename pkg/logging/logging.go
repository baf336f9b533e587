// Package logging builds the colorized slog handler used by the cmds.
// Library code never logs through a global; it takes an injected
// *slog.Logger and this package only serves the entrypoints.
package logging

import (
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

// New returns a tinted stderr logger at the given level.
func New(level slog.Level) *slog.Logger {
	handler := tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: time.RFC3339,
		AddSource:  true,
	})
	return slog.New(handler)
}

// ParseLevel maps a config spelling onto a slog level, defaulting to Info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
