package infra

import (
	"log/slog"
	"os"
	"runtime/debug"
	"strings"
)

// NewLogger builds the process-wide slog logger from the configured
// level. Text output; this runs under a supervisor that already
// timestamps and ships lines.
func NewLogger(cfg *Config) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(cfg.App.LogLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	return slog.New(handler)
}

// Recover logs a panic with its stack instead of letting the runtime
// kill the process silently. Use as `defer infra.Recover()` at goroutine
// entry points.
func Recover() {
	if r := recover(); r != nil {
		slog.Error("💥 Panic recovered",
			slog.Any("panic", r),
			slog.String("stack", string(debug.Stack())))
	}
}
