package logger

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New creates the process-wide logger. Development environments get a
// human-readable console writer, everything else gets plain JSON.
func New(service, environment string) zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	var logger zerolog.Logger
	if environment == "development" {
		output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
		logger = zerolog.New(output)
	} else {
		logger = zerolog.New(os.Stderr)
	}

	return logger.With().
		Timestamp().
		Str("service", service).
		Logger()
}
