package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/udisondev/statforge/internal/stat"
	"github.com/udisondev/statforge/internal/statdef"
)

func newResolveCmd(a *app) *cobra.Command {
	var (
		files     []string
		breakdown bool
	)
	cmd := &cobra.Command{
		Use:   "resolve [STAT...]",
		Short: "Load direct stat definitions and print resolved values (all stats when none named)",
		RunE: func(cmd *cobra.Command, args []string) error {
			docs, err := loadDocuments(cmd.Context(), filesOr(files, a.cfg.StatFiles))
			if err != nil {
				return err
			}
			r, err := statdef.LoadDocument(mergeDocuments(docs))
			if err != nil {
				return err
			}

			ids := r.IDs()
			if len(args) > 0 {
				ids = ids[:0]
				for _, name := range args {
					ids = append(ids, stat.ID(name))
				}
			}
			for _, id := range ids {
				res, err := r.Resolve(id, nil)
				if err != nil {
					return err
				}
				printResolved(cmd.OutOrStdout(), res, breakdown)
			}
			return nil
		},
	}
	cmd.Flags().StringArrayVarP(&files, "file", "f", nil, "stats document (repeatable; default: stat_files from config)")
	cmd.Flags().BoolVarP(&breakdown, "breakdown", "b", false, "print every source and transform contribution")
	return cmd
}

func printResolved(w io.Writer, res stat.Resolved, breakdown bool) {
	fmt.Fprintf(w, "%s = %g\n", res.ID, res.Value)
	if !breakdown {
		return
	}
	for _, c := range res.Sources {
		fmt.Fprintf(w, "  source    %-32s %g\n", c.Description, c.Value)
	}
	for _, c := range res.Transforms {
		fmt.Fprintf(w, "  transform %-32s %g\n", c.Description, c.Value)
	}
}
