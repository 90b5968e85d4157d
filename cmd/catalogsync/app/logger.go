package app

import (
	"fmt"
	"slices"

	"github.com/rs/zerolog"

	"github.com/agentstation/catalogsync/pkg/logging"
)

var logLevels = []string{"trace", "debug", "info", "warn", "error"}

// NewLogger builds the CLI logger. Level precedence: --log-level or
// LOG_LEVEL, then --quiet (warn), then --verbose (debug), then info.
// Conflicting settings are reported on the logger itself.
func NewLogger(config *Config) zerolog.Logger {
	level, warning := determineLogLevel(config)

	logger := logging.NewLoggerFromConfig(&logging.Config{
		Level:     level,
		Format:    config.LogFormat,
		Output:    config.LogOutput,
		NoColor:   config.NoColor,
		AddCaller: level == "debug" || level == "trace",
	})
	if warning != "" {
		logger.Warn().Msg(warning)
	}
	return logger
}

// determineLogLevel returns the level and, when flags conflict or the level
// is unknown, a warning to log.
func determineLogLevel(config *Config) (level, warning string) {
	switch {
	case config.LogLevel != "":
		if validLogLevel(config.LogLevel) {
			return config.LogLevel, ""
		}
		return "info", fmt.Sprintf("invalid log level %q, using \"info\"", config.LogLevel)
	case config.Verbose && config.Quiet:
		return "warn", "both --verbose and --quiet specified, using --quiet"
	case config.Quiet:
		return "warn", ""
	case config.Verbose:
		return "debug", ""
	}
	return "info", ""
}

func validLogLevel(level string) bool {
	return slices.Contains(logLevels, level)
}
