// Package application provides the application interface for catalogsync
// commands.
//
// Commands accept this interface rather than the concrete App type so they
// can be tested with Mock:
//
//	mock := &application.Mock{
//	    ClientFunc: func(ctx context.Context, opts ...catalogsync.Option) (catalogsync.Client, error) {
//	        return catalogsync.New(ctx, append(opts, catalogsync.WithCatalogService(fake))...)
//	    },
//	}
//	cmd := search.NewCommand(mock)
package application

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/agentstation/catalogsync"
)

// Settings are the catalog coordinates resolved from flags, environment,
// config file and gcloud config. Empty values were not configured.
type Settings struct {
	ProjectID         string        `json:"project_id" yaml:"project_id"`
	LocationID        string        `json:"location_id" yaml:"location_id"`
	EntryGroupID      string        `json:"entry_group_id" yaml:"entry_group_id"`
	MonitoringEnabled bool          `json:"enable_monitoring" yaml:"enable_monitoring"`
	TaskID            string        `json:"task_id,omitempty" yaml:"task_id,omitempty"`
	Timeout           time.Duration `json:"timeout,omitempty" yaml:"timeout,omitempty"` // zero means none
}

// Application provides what commands need from the app.
//
// Thread Safety: All methods must be safe for concurrent access.
type Application interface {
	// Client creates a catalogsync client from the settings. opts are applied
	// after the settings and take precedence.
	Client(ctx context.Context, opts ...catalogsync.Option) (catalogsync.Client, error)

	// Settings returns the resolved catalog coordinates.
	Settings() Settings

	// Logger returns the configured logger instance.
	Logger() *zerolog.Logger

	// OutputFormat returns the configured output format (table, json, yaml, wide).
	OutputFormat() string

	// Version returns the application version string.
	Version() string
}
