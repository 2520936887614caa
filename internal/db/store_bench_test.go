package db

import (
	"context"
	"fmt"
	"testing"

	"github.com/udisondev/statforge/internal/entity"
	"github.com/udisondev/statforge/internal/statdef"
	"github.com/udisondev/statforge/internal/testutil"
)

func makeConfigs(entityID string, count int) []entity.StatConfig {
	configs := make([]entity.StatConfig, count)
	for i := range count {
		configs[i] = entity.StatConfig{
			EntityID:     entityID,
			StatType:     fmt.Sprintf("Stat%d", i),
			TemplateName: "Attribute",
			Params:       statdef.Params{"value": float64(i)},
		}
	}
	return configs
}

// BenchmarkSQLiteStore_Save_20Configs benchmarks replacing 20 configs.
// Expected: ~1-5ms (DELETE + 20 INSERTs + COMMIT, WAL).
func BenchmarkSQLiteStore_Save_20Configs(b *testing.B) {
	ctx := context.Background()
	store, err := OpenSQLite(ctx, testutil.SQLitePath(b))
	if err != nil {
		b.Fatalf("OpenSQLite: %v", err)
	}
	defer store.Close()
	configs := makeConfigs("bench", 20)

	b.ResetTimer()
	for range b.N {
		if err := store.Save(ctx, "bench", configs); err != nil {
			b.Fatalf("Save: %v", err)
		}
	}
}

// BenchmarkSQLiteStore_LoadByEntity_20Configs benchmarks loading 20 configs.
func BenchmarkSQLiteStore_LoadByEntity_20Configs(b *testing.B) {
	ctx := context.Background()
	store, err := OpenSQLite(ctx, testutil.SQLitePath(b))
	if err != nil {
		b.Fatalf("OpenSQLite: %v", err)
	}
	defer store.Close()
	if err := store.Save(ctx, "bench", makeConfigs("bench", 20)); err != nil {
		b.Fatalf("seeding configs: %v", err)
	}

	b.ResetTimer()
	for range b.N {
		if _, err := store.LoadByEntity(ctx, "bench"); err != nil {
			b.Fatalf("LoadByEntity: %v", err)
		}
	}
}

// BenchmarkEntityStatRepository_Save_20Configs benchmarks the postgres replace (requires DB).
func BenchmarkEntityStatRepository_Save_20Configs(b *testing.B) {
	pool := testutil.SetupTestDB(b)
	repo := NewEntityStatRepository(pool)
	configs := makeConfigs("bench", 20)

	ctx := context.Background()
	b.ResetTimer()
	for range b.N {
		if err := repo.Save(ctx, "bench", configs); err != nil {
			b.Fatalf("Save: %v", err)
		}
	}
}
