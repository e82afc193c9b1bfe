package logging

import (
	"io"
	"log/slog"
	"strings"
)

// Supported output formats.
const (
	FormatJSON = "json"
	FormatText = "text"
)

// LoggerConfig holds configuration for the logger.
type LoggerConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// SetDefaults fills an empty level and format.
func (c *LoggerConfig) SetDefaults() bool {
	changed := false

	if c.Level == "" {
		c.Level = "info"
		changed = true
	}

	if c.Format == "" {
		c.Format = FormatJSON
		changed = true
	}

	return changed
}

// NewLogger creates a new slog.Logger writing to w.
// The level defaults to INFO if invalid or empty; unknown formats fall back to JSON.
func NewLogger(config LoggerConfig, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{
		AddSource:   false,
		Level:       parseLevel(config.Level),
		ReplaceAttr: nil,
	}

	var handler slog.Handler

	if strings.EqualFold(config.Format, FormatText) {
		handler = slog.NewTextHandler(w, opts)
	} else {
		handler = slog.NewJSONHandler(w, opts)
	}

	return slog.New(handler)
}

func parseLevel(level string) slog.Level {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
