package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/udisondev/statforge/internal/statdef"
)

func newCheckCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "check [FILE...]",
		Short: "Parse and compile definition files, list stats and template parameters",
		RunE: func(cmd *cobra.Command, args []string) error {
			paths := filesOr(args, append(append([]string(nil), a.cfg.TemplateFiles...), a.cfg.StatFiles...))
			docs, err := loadDocuments(cmd.Context(), paths)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for i, doc := range docs {
				fmt.Fprintf(out, "%s: %d stats, %d templates\n", paths[i], len(doc.Stats), len(doc.Templates))
				for _, s := range doc.Stats {
					fmt.Fprintf(out, "  stat %s (%d sources, %d transforms)\n", s.Name, len(s.Sources), len(s.Transforms))
				}
				for _, t := range doc.Templates {
					line := fmt.Sprintf("  template %s(%s)", t.Name, strings.Join(t.Placeholders(), ", "))
					if t.Description != "" {
						line += "  " + t.Description
					}
					fmt.Fprintln(out, line)
				}
			}

			merged := mergeDocuments(docs)
			if _, err := statdef.NewRegistry(merged.Templates...); err != nil {
				return err
			}
			// Direct stats must compile; templates are checked on instantiation.
			if _, err := statdef.LoadDocument(merged); err != nil {
				return err
			}
			fmt.Fprintln(out, "ok")
			return nil
		},
	}
}
