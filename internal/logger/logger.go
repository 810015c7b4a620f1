package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/edusight/gradescan-backend/internal/config"
)

// Setup initializes the global zerolog logger from configuration.
// LogFormat "pretty" selects human-readable dev output; anything else
// emits JSON for production. LogLevel falls back to info when unparsable.
//
// Returns the configured logger instance.
func Setup(cfg *config.Config) zerolog.Logger {
	var writer io.Writer

	if cfg.LogFormat == "pretty" {
		writer = zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
		}
	} else {
		writer = os.Stdout
	}

	lvl, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		lvl = zerolog.InfoLevel
	}

	zerolog.SetGlobalLevel(lvl)

	log := zerolog.New(writer).
		With().
		Timestamp().
		Caller().
		Str("service", "gradescan-backend").
		Logger()

	return log
}
