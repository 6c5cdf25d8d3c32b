// Package logging bootstraps the process logger.
package logging

import (
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// New builds the root logger for a process. Output is structured JSON;
// LOG_LEVEL selects the level (default info) and LOG_PRETTY=1 switches to
// the human-readable console writer for local development.
func New(service string) zerolog.Logger {
	level := zerolog.InfoLevel
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		if parsed, err := zerolog.ParseLevel(strings.ToLower(v)); err == nil {
			level = parsed
		}
	}

	var out = zerolog.New(os.Stdout)
	if os.Getenv("LOG_PRETTY") == "1" {
		out = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	return out.Level(level).With().
		Timestamp().
		Str("service", service).
		Logger()
}
