package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/urfave/cli/v3"

	"github.com/clusterops/runbook/pkg/collector"
	"github.com/clusterops/runbook/pkg/diagnoser"
	"github.com/clusterops/runbook/pkg/fact"
	"github.com/clusterops/runbook/pkg/rule"
	"github.com/clusterops/runbook/pkg/serializer"
)

func diagnoseCmd() *cli.Command {
	return &cli.Command{
		Name:                  "diagnose",
		Aliases:               []string{"diag"},
		EnableShellCompletion: true,
		Usage:                 "Diagnose one resource against the runbook rule set",
		Description: `Diagnose a resource either from live cluster state or from a previously
captured fact bundle:

  runbook diagnose --kind Pod --namespace default --name my-pod
  runbook diagnose --kind Pod --facts facts.yaml
  runbook diagnose --kind Ingress -n shop --name storefront -t table

The diagnosis lists every matched rule's remediation in priority order.
An empty match list means the observed facts triggered no runbook rule.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "kind",
				Aliases:  []string{"k"},
				Required: true,
				Usage:    fmt.Sprintf("resource kind to diagnose (%v)", rule.SupportedKinds()),
			},
			&cli.StringFlag{
				Name:    "namespace",
				Aliases: []string{"n"},
				Value:   "default",
				Usage:   "namespace of the resource",
			},
			&cli.StringFlag{
				Name:  "name",
				Usage: "name of the resource to collect evidence from",
			},
			&cli.StringFlag{
				Name:    "facts",
				Aliases: []string{"f"},
				Usage:   "fact bundle file (yaml or json) to diagnose instead of live state",
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

			kind, _ := rule.ParseKind(cmd.String("kind"))

			svc, err := diagnoserFromFlags(ctx, cmd)
			if err != nil {
				return err
			}

			var d any
			if factsPath := cmd.String("facts"); factsPath != "" {
				facts, err := loadFactBundle(factsPath)
				if err != nil {
					return err
				}
				d, err = svc.Diagnose(ctx, kind, facts)
				if err != nil {
					return err
				}
			} else {
				resourceName := cmd.String("name")
				if resourceName == "" {
					return fmt.Errorf("either --name or --facts is required")
				}
				ref := collector.Ref{Namespace: cmd.String("namespace"), Name: resourceName}
				d, err = svc.DiagnoseResource(ctx, kind, ref)
				if err != nil {
					return err
				}
			}

			ser := serializer.NewFileWriterOrStdout(outFormat, cmd.String("output"))
			defer func() {
				if err := ser.Close(); err != nil {
					slog.Warn("failed to close serializer", "error", err)
				}
			}()

			return ser.Serialize(d)
		},
	}
}

// diagnoserFromFlags builds the diagnosis service, honoring --rules-dir.
func diagnoserFromFlags(ctx context.Context, cmd *cli.Command) (*diagnoser.Service, error) {
	opts := []diagnoser.Option{diagnoser.WithVersion(version)}

	if dir := cmd.String("rules-dir"); dir != "" {
		store, err := rule.LoadDir(dir)
		if err != nil {
			return nil, fmt.Errorf("failed to load rules from %q: %w", dir, err)
		}
		opts = append(opts, diagnoser.WithStore(store))
	} else if _, err := rule.DefaultStore(ctx); err != nil {
		return nil, err
	}

	return diagnoser.New(opts...), nil
}

// loadFactBundle reads a fact bundle from a YAML or JSON file of scalars.
func loadFactBundle(path string) (fact.Bundle, error) {
	var raw map[string]any
	if err := serializer.ReadFile(path, &raw); err != nil {
		return nil, err
	}

	facts := make(fact.Bundle, len(raw))
	for k, rv := range raw {
		v, err := fact.FromAny(rv)
		if err != nil {
			return nil, fmt.Errorf("fact %q: %w", k, err)
		}
		facts[k] = v
	}
	return facts, nil
}
