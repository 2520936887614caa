package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"runtime"

	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/udisondev/statforge/internal/config"
	"github.com/udisondev/statforge/internal/db"
	"github.com/udisondev/statforge/internal/entity"
	"github.com/udisondev/statforge/internal/statdef"
)

// loadDocuments reads and parses files concurrently. The result is in
// argument order regardless of completion order.
func loadDocuments(ctx context.Context, paths []string) ([]*statdef.Document, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("no definition files given")
	}

	docs := make([]*statdef.Document, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("reading %s: %w", path, err)
			}
			doc, err := statdef.Parse(data)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			docs[i] = doc
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return docs, nil
}

// mergeDocuments concatenates stats and templates in file order.
func mergeDocuments(docs []*statdef.Document) *statdef.Document {
	merged := &statdef.Document{}
	for _, d := range docs {
		merged.Stats = append(merged.Stats, d.Stats...)
		merged.Templates = append(merged.Templates, d.Templates...)
	}
	return merged
}

func loadRegistry(ctx context.Context, paths []string) (*statdef.Registry, error) {
	docs, err := loadDocuments(ctx, paths)
	if err != nil {
		return nil, err
	}
	reg, err := statdef.NewRegistry(mergeDocuments(docs).Templates...)
	if err != nil {
		return nil, err
	}
	slog.Info("loaded stat templates", "count", reg.Len(), "files", len(paths))
	return reg, nil
}

// readMappings reads a YAML/JSON list of {stat_type, template_name, params}.
func readMappings(path string) ([]entity.Mapping, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var mappings []entity.Mapping
	if err := yaml.Unmarshal(data, &mappings); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	for i, m := range mappings {
		if m.StatType == "" || m.TemplateName == "" {
			return nil, fmt.Errorf("%s: entry %d: stat_type and template_name are required", path, i)
		}
	}
	return mappings, nil
}

// openStore opens the configured entity stat store.
func openStore(ctx context.Context, cfg config.StoreConfig) (db.EntityStatStore, func(), error) {
	switch cfg.Driver {
	case config.DriverSQLite:
		s, err := db.OpenSQLite(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return s, func() {
			if err := s.Close(); err != nil {
				slog.Error("closing sqlite store", "error", err)
			}
		}, nil

	case config.DriverPostgres:
		dsn := cfg.Database.DSN()
		if err := db.RunMigrations(ctx, dsn); err != nil {
			return nil, nil, err
		}
		d, err := db.New(ctx, dsn)
		if err != nil {
			return nil, nil, err
		}
		return db.NewEntityStatRepository(d.Pool()), d.Close, nil

	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}
