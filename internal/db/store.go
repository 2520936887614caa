// Package db persists per-entity stat configurations.
//
// Only entity.StatConfig rows (entity, stat type, template, params) are
// stored; template definitions stay in text files.
package db

import (
	"context"

	"github.com/udisondev/statforge/internal/entity"
)

// EntityStatStore loads and saves the ordered stat configs of an entity.
type EntityStatStore interface {
	// LoadByEntity returns configs in saved order; empty for an unknown entity.
	LoadByEntity(ctx context.Context, entityID string) ([]entity.StatConfig, error)
	// Save replaces every config of the entity.
	Save(ctx context.Context, entityID string, configs []entity.StatConfig) error
	Delete(ctx context.Context, entityID string) error
	EntityIDs(ctx context.Context) ([]string, error)
}

var (
	_ EntityStatStore = (*EntityStatRepository)(nil)
	_ EntityStatStore = (*SQLiteStore)(nil)
)
