package logging

import (
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"

	"github.com/agentstation/catalogsync/pkg/constants"
)

// Config describes a logger.
type Config struct {
	Level      string         // trace, debug, info, warn, error, disabled
	Format     string         // json, console or auto (console on a terminal)
	Output     string         // stderr, stdout, discard or a file path
	TimeFormat string         // console timestamps: kitchen, rfc3339, rfc3339nano or a Go layout
	NoColor    bool           // plain console output
	AddCaller  bool           // file:line on every event, implied at debug and below
	Fields     map[string]any // added to every event
}

// ConfigFromEnv reads LOG_LEVEL, DEBUG, LOG_FORMAT, LOG_OUTPUT and NO_COLOR.
func ConfigFromEnv() *Config {
	level := os.Getenv("LOG_LEVEL")
	if level == "" && os.Getenv("DEBUG") != "" {
		level = "debug"
	}
	return &Config{
		Level:   level,
		Format:  os.Getenv("LOG_FORMAT"),
		Output:  os.Getenv("LOG_OUTPUT"),
		NoColor: os.Getenv("NO_COLOR") != "",
	}
}

// NewLoggerFromConfig builds a logger from cfg and sets the zerolog global
// level to the configured one. A nil cfg reads the environment.
func NewLoggerFromConfig(cfg *Config) zerolog.Logger {
	if cfg == nil {
		cfg = ConfigFromEnv()
	}

	level := parseLevel(cfg.Level)
	zerolog.SetGlobalLevel(level)

	logCtx := zerolog.New(cfg.writer()).Level(level).With().Timestamp()
	if cfg.AddCaller || level <= zerolog.DebugLevel {
		logCtx = logCtx.Caller()
	}

	keys := make([]string, 0, len(cfg.Fields))
	for k := range cfg.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		logCtx = addField(logCtx, k, cfg.Fields[k])
	}
	return logCtx.Logger()
}

func (cfg *Config) writer() io.Writer {
	out := openOutput(cfg.Output)

	format := strings.ToLower(cfg.Format)
	if format == "" || format == "auto" {
		format = "json"
		if f, ok := out.(*os.File); ok && isTerminal(f) {
			format = "console"
		}
	}
	if format != "console" && format != "pretty" {
		return out
	}
	return zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: timeLayout(cfg.TimeFormat),
		NoColor:    cfg.NoColor,
	}
}

// openOutput falls back to stderr when a log file cannot be opened.
func openOutput(output string) io.Writer {
	switch strings.ToLower(output) {
	case "", "stderr":
		return os.Stderr
	case "stdout":
		return os.Stdout
	case "discard", "none":
		return io.Discard
	}
	f, err := os.OpenFile(output, os.O_CREATE|os.O_APPEND|os.O_WRONLY, constants.FilePermissions)
	if err != nil {
		return os.Stderr
	}
	return f
}

func isTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

var levelAliases = map[string]zerolog.Level{
	"":         zerolog.InfoLevel,
	"warning":  zerolog.WarnLevel,
	"none":     zerolog.Disabled,
	"off":      zerolog.Disabled,
	"disabled": zerolog.Disabled,
}

// parseLevel defaults to info on anything zerolog does not know.
func parseLevel(s string) zerolog.Level {
	s = strings.ToLower(s)
	if l, ok := levelAliases[s]; ok {
		return l
	}
	l, err := zerolog.ParseLevel(s)
	if err != nil {
		return zerolog.InfoLevel
	}
	return l
}

var timeLayouts = map[string]string{
	"":            time.Kitchen,
	"kitchen":     time.Kitchen,
	"rfc3339":     time.RFC3339,
	"rfc3339nano": time.RFC3339Nano,
}

func timeLayout(s string) string {
	if layout, ok := timeLayouts[strings.ToLower(s)]; ok {
		return layout
	}
	if strings.Contains(s, "2006") || strings.Contains(s, "15:04") {
		return s
	}
	return time.Kitchen
}

func addField(ctx zerolog.Context, key string, value any) zerolog.Context {
	switch v := value.(type) {
	case string:
		return ctx.Str(key, v)
	case int:
		return ctx.Int(key, v)
	case bool:
		return ctx.Bool(key, v)
	case time.Duration:
		return ctx.Dur(key, v)
	case time.Time:
		return ctx.Time(key, v)
	case error:
		return ctx.AnErr(key, v)
	default:
		return ctx.Interface(key, v)
	}
}
