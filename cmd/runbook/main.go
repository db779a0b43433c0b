package main

import (
	"os"

	"github.com/clusterops/runbook/pkg/cli"
)

func main() {
	os.Exit(cli.Execute())
}
