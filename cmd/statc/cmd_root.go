package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/udisondev/statforge/internal/config"
	"github.com/udisondev/statforge/internal/db"
)

const appName = "statc"

// app carries what commands share: config and the store factory.
type app struct {
	cfg       config.Statc
	openStore func(ctx context.Context, cfg config.StoreConfig) (db.EntityStatStore, func(), error)
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Stat definition compiler",
		Long: appName + " compiles stat definition documents (JSON or YAML) into resolvable stats.\n\n" +
			"Template files and stat files default to template_files / stat_files from the config\n" +
			"(" + config.DefaultPath + ", override with " + config.PathEnv + ").",
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	root.AddCommand(
		newCheckCmd(a),
		newResolveCmd(a),
		newEntityCmd(a),
		newExportCmd(a),
		newStoreCmd(a),
	)
	return root
}

// filesOr returns args, or fallback when no args were given.
func filesOr(args, fallback []string) []string {
	if len(args) > 0 {
		return args
	}
	return fallback
}
