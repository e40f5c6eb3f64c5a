// Package logger builds the process-wide slog logger.
package logger

import (
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

// New returns a colored tint logger for development and a JSON logger for every other
// environment.
func New(w io.Writer, env string) *slog.Logger {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "", "development", "dev", "local":
		return slog.New(tint.NewHandler(w, &tint.Options{
			Level:      slog.LevelDebug,
			TimeFormat: time.Kitchen,
			AddSource:  true,
		}))
	default:
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}))
	}
}
