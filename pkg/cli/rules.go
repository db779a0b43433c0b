package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/clusterops/runbook/pkg/rule"
	"github.com/clusterops/runbook/pkg/rulepack"
	"github.com/clusterops/runbook/pkg/serializer"
)

// ruleSummary is the list representation of one rule.
type ruleSummary struct {
	ID       string    `json:"id" yaml:"id"`
	Kind     rule.Kind `json:"kind" yaml:"kind"`
	Priority int       `json:"priority" yaml:"priority"`
	Action   string    `json:"action,omitempty" yaml:"action,omitempty"`
}

func rulesCmd() *cli.Command {
	return &cli.Command{
		Name:  "rules",
		Usage: "Inspect and distribute rule sets",
		Commands: []*cli.Command{
			rulesListCmd(),
			rulesValidateCmd(),
			rulesPushCmd(),
			rulesPullCmd(),
		},
	}
}

func rulesListCmd() *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List loaded rules, optionally filtered by kind",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "kind",
				Aliases: []string{"k"},
				Usage:   "only list rules for this kind",
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

			store, err := storeFromFlags(ctx, cmd)
			if err != nil {
				return err
			}

			kinds := store.Kinds()
			if kindStr := cmd.String("kind"); kindStr != "" {
				kind, ok := rule.ParseKind(kindStr)
				if !ok {
					return fmt.Errorf("unknown kind %q, supported kinds: %v", kindStr, rule.SupportedKinds())
				}
				kinds = []rule.Kind{kind}
			}

			var summaries []ruleSummary
			for _, kind := range kinds {
				for _, r := range store.RulesFor(kind) {
					summaries = append(summaries, ruleSummary{
						ID:       r.ID,
						Kind:     r.Kind,
						Priority: r.Priority,
						Action:   r.Remediation.Action,
					})
				}
			}

			ser := serializer.NewFileWriterOrStdout(outFormat, cmd.String("output"))
			defer func() {
				if err := ser.Close(); err != nil {
					slog.Warn("failed to close serializer", "error", err)
				}
			}()

			return ser.Serialize(summaries)
		},
	}
}

func rulesValidateCmd() *cli.Command {
	return &cli.Command{
		Name:  "validate",
		Usage: "Validate a directory of rule files",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "dir",
				Aliases:  []string{"d"},
				Required: true,
				Usage:    "directory of rule yaml files",
			},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			dir := cmd.String("dir")
			store, err := rule.LoadDir(dir)
			if err != nil {
				return err
			}
			fmt.Printf("OK: %d rules across %d kinds\n", store.Len(), len(store.Kinds()))
			return nil
		},
	}
}

func rulesPushCmd() *cli.Command {
	return &cli.Command{
		Name:  "push",
		Usage: "Push a rule directory to an OCI registry as a rule pack",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "dir",
				Aliases:  []string{"d"},
				Required: true,
				Usage:    "directory of rule yaml files",
			},
			&cli.StringFlag{
				Name:     "ref",
				Aliases:  []string{"r"},
				Required: true,
				Usage:    "registry reference (e.g. registry.example.com/runbook/rules)",
			},
			&cli.StringFlag{
				Name:  "tag",
				Value: "latest",
				Usage: "tag to publish",
			},
			&cli.BoolFlag{
				Name:  "plain-http",
				Usage: "use plain HTTP for the registry",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			client := &rulepack.Client{PlainHTTP: cmd.Bool("plain-http")}
			digest, err := client.Push(ctx, cmd.String("dir"), cmd.String("ref"), cmd.String("tag"))
			if err != nil {
				return err
			}
			fmt.Println(digest)
			return nil
		},
	}
}

func rulesPullCmd() *cli.Command {
	return &cli.Command{
		Name:  "pull",
		Usage: "Pull a rule pack from an OCI registry into a directory",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "ref",
				Aliases:  []string{"r"},
				Required: true,
				Usage:    "registry reference (e.g. registry.example.com/runbook/rules)",
			},
			&cli.StringFlag{
				Name:  "tag",
				Value: "latest",
				Usage: "tag to pull",
			},
			&cli.StringFlag{
				Name:     "dir",
				Aliases:  []string{"d"},
				Required: true,
				Usage:    "destination directory",
			},
			&cli.BoolFlag{
				Name:  "plain-http",
				Usage: "use plain HTTP for the registry",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			dir := cmd.String("dir")
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("failed to create %q: %w", dir, err)
			}
			client := &rulepack.Client{PlainHTTP: cmd.Bool("plain-http")}
			store, err := client.Pull(ctx, cmd.String("ref"), cmd.String("tag"), dir)
			if err != nil {
				return err
			}
			fmt.Printf("pulled %d rules across %d kinds into %s\n", store.Len(), len(store.Kinds()), dir)
			return nil
		},
	}
}

func storeFromFlags(ctx context.Context, cmd *cli.Command) (*rule.Store, error) {
	if dir := cmd.String("rules-dir"); dir != "" {
		return rule.LoadDir(dir)
	}
	return rule.DefaultStore(ctx)
}
