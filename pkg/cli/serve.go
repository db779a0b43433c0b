package cli

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/clusterops/runbook/pkg/api"
)

func serveCmd() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the diagnosis HTTP API server",
		Description: `Serve the rule engine over HTTP. The server exposes POST /v1/diagnose
plus /health, /ready, and /metrics. Configuration comes from the
environment (PORT, LOG_LEVEL).`,
		Action: func(_ context.Context, _ *cli.Command) error {
			return api.Serve()
		},
	}
}
