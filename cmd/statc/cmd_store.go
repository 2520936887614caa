package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/udisondev/statforge/internal/entity"
)

func newStoreCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "store",
		Short: "Manage stored per-entity stat configs",
	}

	var file string
	put := &cobra.Command{
		Use:   "put ENTITY",
		Short: "Replace the entity's stat configs with the mappings in --file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mappings, err := readMappings(file)
			if err != nil {
				return err
			}
			store, closeStore, err := a.openStore(cmd.Context(), a.cfg.Store)
			if err != nil {
				return err
			}
			defer closeStore()

			if err := store.Save(cmd.Context(), args[0], entity.ConfigsForEntity(args[0], mappings)); err != nil {
				return err
			}
			slog.Info("stored entity stats", "entity", args[0], "count", len(mappings))
			return nil
		},
	}
	put.Flags().StringVarP(&file, "file", "f", "", "YAML/JSON list of {stat_type, template_name, params}")
	_ = put.MarkFlagRequired("file")

	get := &cobra.Command{
		Use:   "get ENTITY",
		Short: "Print the entity's stat configs as YAML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, closeStore, err := a.openStore(cmd.Context(), a.cfg.Store)
			if err != nil {
				return err
			}
			defer closeStore()

			configs, err := store.LoadByEntity(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if len(configs) == 0 {
				return fmt.Errorf("no stored stats for entity %q", args[0])
			}
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(configs); err != nil {
				return err
			}
			return enc.Close()
		},
	}

	rm := &cobra.Command{
		Use:   "rm ENTITY",
		Short: "Delete the entity's stat configs",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, closeStore, err := a.openStore(cmd.Context(), a.cfg.Store)
			if err != nil {
				return err
			}
			defer closeStore()
			return store.Delete(cmd.Context(), args[0])
		},
	}

	ls := &cobra.Command{
		Use:   "ls",
		Short: "List entities with stored stat configs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, closeStore, err := a.openStore(cmd.Context(), a.cfg.Store)
			if err != nil {
				return err
			}
			defer closeStore()

			ids, err := store.EntityIDs(cmd.Context())
			if err != nil {
				return err
			}
			for _, id := range ids {
				fmt.Fprintln(cmd.OutOrStdout(), id)
			}
			return nil
		},
	}

	cmd.AddCommand(put, get, rm, ls)
	return cmd
}
