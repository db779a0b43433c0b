package cli

import (
	"context"
	"log/slog"

	"github.com/urfave/cli/v3"

	"github.com/clusterops/runbook/pkg/diagnosis"
	"github.com/clusterops/runbook/pkg/serializer"
)

func sweepCmd() *cli.Command {
	return &cli.Command{
		Name:                  "sweep",
		EnableShellCompletion: true,
		Usage:                 "Diagnose every pod in a namespace",
		Description: `Sweep a namespace, diagnosing each pod concurrently against the Pod
rule set. Healthy pods are omitted from the output unless --all is set:

  runbook sweep --namespace production
  runbook sweep -n production --all -t table`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "namespace",
				Aliases: []string{"n"},
				Value:   "default",
				Usage:   "namespace to sweep",
			},
			&cli.BoolFlag{
				Name:  "all",
				Usage: "include healthy pods in the output",
			},
			&cli.StringFlag{
				Name:  "rules-dir",
				Usage: "load rules from a directory instead of the built-in set",
			},
			outputFlag,
			formatFlag,
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			outFormat, err := parseOutputFormat(cmd)
			if err != nil {
				return err
			}

			svc, err := diagnoserFromFlags(ctx, cmd)
			if err != nil {
				return err
			}

			results, err := svc.SweepPods(ctx, cmd.String("namespace"))
			if err != nil {
				return err
			}

			if !cmd.Bool("all") {
				unhealthy := make([]*diagnosis.Diagnosis, 0, len(results))
				for _, d := range results {
					if !d.Healthy() {
						unhealthy = append(unhealthy, d)
					}
				}
				results = unhealthy
			}

			ser := serializer.NewFileWriterOrStdout(outFormat, cmd.String("output"))
			defer func() {
				if err := ser.Close(); err != nil {
					slog.Warn("failed to close serializer", "error", err)
				}
			}()

			return ser.Serialize(results)
		},
	}
}
