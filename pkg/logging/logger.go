// Package logging provides structured logging for catalogsync using zerolog.
// Terminals get human-readable console output; everything else gets JSON so
// ingestion runs can be shipped to a log pipeline as-is.
//
// Example usage:
//
//	log := logging.Default()
//	log.Info().Str("entry_group", name).Msg("Entry Group created")
//
//	ctx = logging.WithEntryGroup(ctx, name)
//	logging.FromContext(ctx).Debug().Msg("Upserting entries")
package logging

import (
	"sync/atomic"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var defaultLogger atomic.Pointer[zerolog.Logger]

func init() {
	SetDefault(NewLoggerFromConfig(ConfigFromEnv()))
}

// Default returns the process wide logger used when a context carries none.
func Default() *zerolog.Logger {
	return defaultLogger.Load()
}

// SetDefault replaces the process wide logger, zerolog's global log.Logger included.
func SetDefault(logger zerolog.Logger) {
	defaultLogger.Store(&logger)
	log.Logger = logger
}

// Debug starts a debug event on the default logger.
func Debug() *zerolog.Event { return Default().Debug() }

// Info starts an info event on the default logger.
func Info() *zerolog.Event { return Default().Info() }

// Warn starts a warn event on the default logger.
func Warn() *zerolog.Event { return Default().Warn() }

// Error starts an error event on the default logger.
func Error() *zerolog.Event { return Default().Error() }
