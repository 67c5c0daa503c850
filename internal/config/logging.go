package config

import (
	"cmp"
	"fmt"
	"log/slog"
	"os"
	"strings"
)

const (
	EnvLoggingLevel  = "MOODLOG_LOG_LEVEL"
	EnvLoggingFormat = "MOODLOG_LOG_FORMAT"

	LogFormatText = "text"
	LogFormatJSON = "json"
)

// LoggingConfig selects the slog handler written to stderr.
type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// SlogLevel returns the configured level. Finalize has already rejected
// unknown names, so the fallback is only reached for unfinalized configs.
func (c *LoggingConfig) SlogLevel() slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.Level)); err != nil {
		return slog.LevelInfo
	}
	return lvl
}

func (c *LoggingConfig) Finalize() error {
	c.Level = strings.ToLower(cmp.Or(os.Getenv(EnvLoggingLevel), c.Level, "info"))
	c.Format = strings.ToLower(cmp.Or(os.Getenv(EnvLoggingFormat), c.Format, LogFormatText))

	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.Level)); err != nil {
		return fmt.Errorf("invalid level %q", c.Level)
	}
	if c.Format != LogFormatText && c.Format != LogFormatJSON {
		return fmt.Errorf("unsupported format %q", c.Format)
	}
	return nil
}

func (c *LoggingConfig) Merge(overlay *LoggingConfig) {
	c.Level = cmp.Or(overlay.Level, c.Level)
	c.Format = cmp.Or(overlay.Format, c.Format)
}
