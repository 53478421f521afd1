// Package logging configures structured logging for the service layer.
package logging

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

// New returns a JSON logger tagged with the service name. An empty or
// unknown level falls back to info.
func New(service, level string) zerolog.Logger {
	return build(os.Stderr, service, level)
}

// NewConsole returns a human-readable logger for CLI use.
func NewConsole(service, level string) zerolog.Logger {
	return build(zerolog.ConsoleWriter{Out: os.Stderr}, service, level)
}

func build(w io.Writer, service, level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(w).Level(lvl).With().
		Timestamp().
		Str("service", service).
		Logger()
}
