// Command catalogsync reconciles Google Cloud Data Catalog metadata with a
// YAML manifest.
package main

import (
	"context"
	"os"
	"time"

	"github.com/agentstation/catalogsync/cmd/catalogsync/app"
)

// Set by goreleaser.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
	builtBy = "unknown"
)

const shutdownTimeout = 5 * time.Second

func main() {
	a, err := app.New(version, commit, date, builtBy)
	if err != nil {
		app.ExitOnError(err)
	}

	ctx, cancel := app.ContextWithSignals(context.Background())
	err = a.Execute(ctx, os.Args[1:])
	cancel()

	// ctx may already be cancelled by a signal
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	if shutdownErr := a.Shutdown(shutdownCtx); shutdownErr != nil {
		a.Logger().Warn().Err(shutdownErr).Msg("Shutdown failed")
	}
	shutdownCancel()

	if err != nil {
		app.ExitOnError(err)
	}
}
