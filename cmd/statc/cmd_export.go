package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/udisondev/statforge/internal/statdef"
)

func newExportCmd(a *app) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "export [FILE...]",
		Short: "Merge definition files and print them as one normalized document",
		RunE: func(cmd *cobra.Command, args []string) error {
			paths := filesOr(args, append(append([]string(nil), a.cfg.TemplateFiles...), a.cfg.StatFiles...))
			docs, err := loadDocuments(cmd.Context(), paths)
			if err != nil {
				return err
			}
			merged := mergeDocuments(docs)
			if _, err := statdef.NewRegistry(merged.Templates...); err != nil {
				return err
			}

			var out []byte
			switch format {
			case "json":
				out, err = statdef.EncodeJSON(merged)
			case "yaml":
				out, err = statdef.EncodeYAML(merged)
			default:
				return fmt.Errorf("unknown format %q (json, yaml)", format)
			}
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
	cmd.Flags().StringVar(&format, "format", "json", "output format: json or yaml")
	return cmd
}
