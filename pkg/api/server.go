package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/clusterops/runbook/pkg/diagnoser"
	"github.com/clusterops/runbook/pkg/logging"
	"github.com/clusterops/runbook/pkg/rule"
	"github.com/clusterops/runbook/pkg/server"
)

const (
	name           = "runbook-api-server"
	versionDefault = "dev"
)

var (
	// overridden during build with ldflags to reflect actual version info
	// e.g., -X "github.com/clusterops/runbook/pkg/api.version=1.0.0"
	version = versionDefault
	commit  = "unknown"
	date    = "unknown"
)

// Serve starts the API server and blocks until shutdown.
// It configures logging, loads the rule store, sets up routes, and handles
// graceful shutdown. A malformed built-in rule set is fatal here: the
// process refuses to serve until the definitions are fixed.
func Serve() error {
	ctx := context.Background()

	logging.SetDefaultStructuredLogger(name, version)
	slog.Info("starting",
		"name", name,
		"version", version,
		"commit", commit,
		"date", date,
	)

	store, err := rule.DefaultStore(ctx)
	if err != nil {
		slog.Error("rule store failed to load", "error", err)
		return err
	}
	slog.Info("rule store loaded", "rules", store.Len(), "kinds", len(store.Kinds()))

	svc := diagnoser.New(
		diagnoser.WithVersion(version),
		diagnoser.WithStore(store),
	)

	r := map[string]http.HandlerFunc{
		"/v1/diagnose": svc.HandleDiagnose,
	}

	s := server.New(
		server.WithName(name),
		server.WithVersion(version),
		server.WithHandler(r),
	)

	if err := s.Run(ctx); err != nil {
		slog.Error("server exited with error", "error", err)
		return err
	}

	return nil
}
