package config

import (
	"io"
	"time"

	"github.com/rs/zerolog"
)

// ParseLevel parses a zerolog level name. Unknown names select info.
func ParseLevel(level string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		return zerolog.InfoLevel
	}
	return lvl
}

// NewLogger returns a human-readable logger writing to w.
func NewLogger(level string, w io.Writer) zerolog.Logger {
	console := zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: time.RFC3339,
		NoColor:    true,
	}

	return zerolog.New(console).
		Level(ParseLevel(level)).
		With().
		Timestamp().
		Logger()
}
