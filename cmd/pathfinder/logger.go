package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// logLevel parses a level name such as "debug" or "WARN". An empty name
// means info.
func logLevel(name string) (slog.Level, error) {
	if name == "" {
		return slog.LevelInfo, nil
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(name)); err != nil {
		return 0, fmt.Errorf("log_level %q: must be 'debug', 'info', 'warn' or 'error'", name)
	}
	return level, nil
}

// newLogger builds the driver logger from the configured level and format.
// It does not set the global logger.
func (c *Config) newLogger(w io.Writer) (*slog.Logger, error) {
	level, err := logLevel(c.LogLevel)
	if err != nil {
		return nil, err
	}

	opts := &slog.HandlerOptions{Level: level}
	switch strings.ToLower(c.LogFormat) {
	case "", "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("log_format %q: must be 'text' or 'json'", c.LogFormat)
	}
}
