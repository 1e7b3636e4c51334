package app

import (
	"log/slog"
	"os"
	"strings"

	"github.com/trakaido/trakaido-backend/internal/config"
)

// NewLogger builds the server-wide *slog.Logger from LogConfig and installs
// it via slog.SetDefault, so library code that logs through the default
// logger lands in the same stream.
//
// Format "json" is the deployed shape; "text" adds source info for local
// runs. Level is debug, info, warn, or error (case-insensitive), defaulting
// to info. Output is always os.Stderr.
func NewLogger(cfg config.LogConfig) *slog.Logger {
	level := parseLevel(cfg.Level)

	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: strings.EqualFold(cfg.Format, "text"),
	}

	var handler slog.Handler
	if strings.EqualFold(cfg.Format, "json") {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)

	return logger
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
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
