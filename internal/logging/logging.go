// Package logging configures the process-wide slog logger from the
// application configuration.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/delvedns/delvedns/internal/config"
)

// Configure builds a logger from cfg, installs it as the slog default,
// and returns it. Output goes to stderr.
func Configure(cfg config.LoggingConfig) *slog.Logger {
	return ConfigureWriter(cfg, os.Stderr)
}

// ConfigureWriter is Configure with an explicit output writer. Used by
// tests to capture output.
func ConfigureWriter(cfg config.LoggingConfig, out io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: ParseLevel(cfg.Level)}

	var handler slog.Handler
	if cfg.Structured && strings.EqualFold(cfg.StructuredFormat, "json") {
		handler = slog.NewJSONHandler(out, opts)
	} else {
		handler = slog.NewTextHandler(out, opts)
	}

	attrs := make([]slog.Attr, 0, len(cfg.ExtraFields)+1)
	for k, v := range cfg.ExtraFields {
		attrs = append(attrs, slog.String(k, v))
	}
	if cfg.IncludePID {
		attrs = append(attrs, slog.Int("pid", os.Getpid()))
	}
	if len(attrs) > 0 {
		handler = handler.WithAttrs(attrs)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

// ParseLevel maps a level name to its slog level. Unknown names fall
// back to INFO.
func ParseLevel(s string) slog.Level {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
