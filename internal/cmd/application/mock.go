package application

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/agentstation/catalogsync"
)

var _ Application = (*Mock)(nil)

// Mock provides a mock implementation of Application for testing.
// If a function field is nil, the method returns a default value.
type Mock struct {
	ClientFunc       func(ctx context.Context, opts ...catalogsync.Option) (catalogsync.Client, error)
	SettingsValue    Settings
	LoggerFunc       func() *zerolog.Logger
	OutputFormatFunc func() string
	VersionFunc      func() string
}

// Client returns a client using the mock function or nil.
func (m *Mock) Client(ctx context.Context, opts ...catalogsync.Option) (catalogsync.Client, error) {
	if m.ClientFunc != nil {
		return m.ClientFunc(ctx, opts...)
	}
	return nil, nil
}

// Settings returns SettingsValue.
func (m *Mock) Settings() Settings {
	return m.SettingsValue
}

// Logger returns a logger using the mock function or a no-op logger.
func (m *Mock) Logger() *zerolog.Logger {
	if m.LoggerFunc != nil {
		return m.LoggerFunc()
	}
	logger := zerolog.Nop()
	return &logger
}

// OutputFormat returns output format using the mock function or "table".
func (m *Mock) OutputFormat() string {
	if m.OutputFormatFunc != nil {
		return m.OutputFormatFunc()
	}
	return "table"
}

// Version returns version using the mock function or "dev".
func (m *Mock) Version() string {
	if m.VersionFunc != nil {
		return m.VersionFunc()
	}
	return "dev"
}
