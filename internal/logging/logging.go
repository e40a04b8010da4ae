// Package logging provides the configured zerolog logger.
package logging

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"

	"friendsearch/internal/config"
)

// New returns a logger for serviceName writing to w
func New(w io.Writer, serviceName string, level zerolog.Level) zerolog.Logger {
	return zerolog.New(w).Level(level).With().
		Str("service", serviceName).
		Timestamp().
		Logger()
}

// Open builds a logger from the log settings. The terminal belongs to the UI,
// so output goes to the configured file; an empty file name means stderr.
// The returned closer must be called on shutdown.
func Open(settings config.LogSettings, serviceName string) (zerolog.Logger, io.Closer, error) {
	level, err := zerolog.ParseLevel(settings.Level)
	if err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("invalid log level %q: %w", settings.Level, err)
	}
	if level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	if settings.File == "" {
		return New(os.Stderr, serviceName, level), io.NopCloser(nil), nil
	}

	f, err := os.OpenFile(settings.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("could not open log file: %w", err)
	}
	return New(f, serviceName, level), f, nil
}
