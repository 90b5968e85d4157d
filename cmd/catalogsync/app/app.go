// Package app provides the application context and dependency management
// for the catalogsync CLI. It centralizes configuration, logging and the
// construction of catalog clients.
package app

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/agentstation/catalogsync"
	"github.com/agentstation/catalogsync/internal/auth/adc"
	"github.com/agentstation/catalogsync/internal/cmd/application"
	"github.com/agentstation/catalogsync/internal/cmd/output"
	"github.com/agentstation/catalogsync/pkg/errors"
)

var _ application.Application = (*App)(nil)

// App represents the catalogsync application with all its dependencies.
type App struct {
	// Version information
	version string
	commit  string
	date    string
	builtBy string

	config *Config
	logger *zerolog.Logger

	// clientOptions are appended to every client, e.g. an injected service
	clientOptions []catalogsync.Option

	// Default client (lazy-initialized, singleton)
	mu     sync.RWMutex
	client catalogsync.Client
}

// New creates a new App instance with the given version information.
func New(version, commit, date, builtBy string, opts ...Option) (*App, error) {
	app := &App{
		version: version,
		commit:  commit,
		date:    date,
		builtBy: builtBy,
	}

	config, err := LoadConfig()
	if err != nil {
		return nil, errors.WrapResource("load", "config", "", err)
	}
	app.config = config

	logger := NewLogger(config)
	app.logger = &logger

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	return app, nil
}

// Version returns the version information.
func (a *App) Version() string {
	return a.version
}

// Commit returns the git commit hash.
func (a *App) Commit() string {
	return a.commit
}

// Date returns the build date.
func (a *App) Date() string {
	return a.date
}

// BuiltBy returns the build system identifier.
func (a *App) BuiltBy() string {
	return a.builtBy
}

// Config returns the application configuration.
func (a *App) Config() *Config {
	return a.config
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger {
	return a.logger
}

// OutputFormat returns the explicit --format, or the format detected from stdout.
func (a *App) OutputFormat() string {
	return string(output.DetectFormat(a.config.Format))
}

// Settings returns the catalog coordinates set by flags, environment or
// config file. gcloud defaults are not included.
func (a *App) Settings() application.Settings {
	return application.Settings{
		ProjectID:         a.config.ProjectID,
		LocationID:        a.config.LocationID,
		EntryGroupID:      a.config.EntryGroupID,
		MonitoringEnabled: a.config.EnableMonitoring,
		TaskID:            a.config.TaskID,
		Timeout:           a.config.Timeout,
	}
}

// Client creates a catalogsync client. Without opts the client is created
// once and shared.
func (a *App) Client(ctx context.Context, opts ...catalogsync.Option) (catalogsync.Client, error) {
	if len(opts) > 0 {
		c, err := catalogsync.New(ctx, append(a.baseOptions(), opts...)...)
		if err != nil {
			return nil, errors.WrapResource("create", "client", "with custom options", err)
		}
		return c, nil
	}

	a.mu.RLock()
	if a.client != nil {
		c := a.client
		a.mu.RUnlock()
		return c, nil
	}
	a.mu.RUnlock()

	a.mu.Lock()
	defer a.mu.Unlock()

	// Double-check after acquiring write lock
	if a.client != nil {
		return a.client, nil
	}

	c, err := catalogsync.New(ctx, a.baseOptions()...)
	if err != nil {
		return nil, errors.WrapResource("create", "client", "", err)
	}
	a.client = c
	return c, nil
}

// Shutdown performs graceful shutdown of the application.
func (a *App) Shutdown(_ context.Context) error {
	a.logger.Debug().Msg("Shutting down")
	return nil
}

// baseOptions constructs client options from the configuration, falling
// back to the gcloud defaults for project and location.
func (a *App) baseOptions() []catalogsync.Option {
	project := a.config.ProjectID
	if project == "" {
		var file *adc.File
		if path := adc.FindFile(); path != "" {
			file, _ = adc.ParseFile(path)
		}
		project, _ = adc.ResolveProject(file)
	}
	location := a.config.LocationID
	if location == "" {
		location, _ = adc.ResolveLocation()
	}

	opts := []catalogsync.Option{
		catalogsync.WithProject(project),
		catalogsync.WithLocation(location),
		catalogsync.WithEntryGroup(a.config.EntryGroupID),
		catalogsync.WithMonitoring(a.config.EnableMonitoring),
	}
	if a.config.TaskID != "" {
		opts = append(opts, catalogsync.WithTaskID(a.config.TaskID))
	}
	return append(opts, a.clientOptions...)
}

// Option is a functional option for configuring the App.
type Option func(*App) error

// WithConfig sets a custom configuration.
func WithConfig(config *Config) Option {
	return func(a *App) error {
		a.config = config
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(a *App) error {
		a.logger = logger
		return nil
	}
}

// WithClientOptions appends options to every client the app creates
// (useful for testing with an in-memory catalog service).
func WithClientOptions(opts ...catalogsync.Option) Option {
	return func(a *App) error {
		a.clientOptions = append(a.clientOptions, opts...)
		return nil
	}
}
