package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/udisondev/statforge/internal/entity"
	"github.com/udisondev/statforge/internal/stat"
)

func newEntityCmd(a *app) *cobra.Command {
	var (
		templateFiles []string
		entityID      string
		statsFile     string
		fromStore     bool
		breakdown     bool
	)
	cmd := &cobra.Command{
		Use:   "entity",
		Short: "Instantiate templates for one entity and print its resolved stats",
		Long: "Applies the entity's stat configs in the given order. A stat must come after\n" +
			"the stats it depends on; no reordering is done.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if (statsFile == "") == !fromStore {
				return fmt.Errorf("exactly one of --stats or --from-store is required")
			}
			ctx := cmd.Context()

			reg, err := loadRegistry(ctx, filesOr(templateFiles, a.cfg.TemplateFiles))
			if err != nil {
				return err
			}

			var configs []entity.StatConfig
			if fromStore {
				store, closeStore, err := a.openStore(ctx, a.cfg.Store)
				if err != nil {
					return err
				}
				defer closeStore()
				if configs, err = store.LoadByEntity(ctx, entityID); err != nil {
					return err
				}
				if len(configs) == 0 {
					return fmt.Errorf("no stored stats for entity %q", entityID)
				}
			} else {
				mappings, err := readMappings(statsFile)
				if err != nil {
					return err
				}
				configs = entity.ConfigsForEntity(entityID, mappings)
			}

			m := entity.NewManager(reg)
			r := stat.NewResolver()
			if err := m.LoadEntityStats(r, configs); err != nil {
				return err
			}

			seen := make(map[string]struct{}, len(configs))
			for _, c := range configs {
				if _, dup := seen[c.StatType]; dup {
					continue
				}
				seen[c.StatType] = struct{}{}
				res, err := m.ResolveStat(r, entityID, c.StatType, nil)
				if err != nil {
					return err
				}
				printResolved(cmd.OutOrStdout(), res, breakdown)
			}
			return nil
		},
	}
	cmd.Flags().StringArrayVarP(&templateFiles, "templates", "t", nil, "templates document (repeatable; default: template_files from config)")
	cmd.Flags().StringVar(&entityID, "entity", "", "entity id")
	cmd.Flags().StringVar(&statsFile, "stats", "", "YAML/JSON list of {stat_type, template_name, params}")
	cmd.Flags().BoolVar(&fromStore, "from-store", false, "load the entity's stat configs from the store")
	cmd.Flags().BoolVarP(&breakdown, "breakdown", "b", false, "print every source and transform contribution")
	_ = cmd.MarkFlagRequired("entity")
	return cmd
}
