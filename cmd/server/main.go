package main

import (
	"log/slog"
	"os"

	"github.com/clusterops/runbook/pkg/api"
)

func main() {
	if err := api.Serve(); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}
