// Package cli implements the runbook command-line interface.
//
// Commands:
//
//	diagnose - diagnose one resource from live cluster state or a fact file
//	sweep    - diagnose every pod in a namespace
//	rules    - list, validate, push, and pull rule sets
//	serve    - run the diagnosis HTTP API
package cli

import (
	"context"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/clusterops/runbook/pkg/logging"
)

const name = "runbook"

var (
	// overridden during build with ldflags to reflect actual version info
	// e.g., -X "github.com/clusterops/runbook/pkg/cli.version=1.0.0"
	version = "dev"
)

// Execute runs the CLI and returns the process exit code.
func Execute() int {
	logging.SetDefaultStructuredLogger(name, version)

	root := &cli.Command{
		Name:    name,
		Usage:   "Diagnose Kubernetes resources against troubleshooting runbook rules",
		Version: version,
		Commands: []*cli.Command{
			diagnoseCmd(),
			sweepCmd(),
			rulesCmd(),
			serveCmd(),
		},
	}

	if err := root.Run(context.Background(), os.Args); err != nil {
		slog.Error("command failed", "error", err)
		return 1
	}
	return 0
}
