package db

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/statforge/internal/entity"
	"github.com/udisondev/statforge/internal/stat"
	"github.com/udisondev/statforge/internal/statdef"
	"github.com/udisondev/statforge/internal/testutil"
)

// testStore runs the EntityStatStore contract against one implementation.
func testStore(t *testing.T, store EntityStatStore) {
	ctx := testutil.ContextWithTimeout(t, 30*time.Second)

	t.Run("unknown entity is empty", func(t *testing.T) {
		configs, err := store.LoadByEntity(ctx, "nobody")
		require.NoError(t, err)
		assert.Empty(t, configs)
	})

	t.Run("round trip keeps order", func(t *testing.T) {
		want := testutil.ArcherConfigs("archer_1")
		require.NoError(t, store.Save(ctx, "archer_1", want))

		got, err := store.LoadByEntity(ctx, "archer_1")
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("save replaces", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, "archer_1", []entity.StatConfig{
			{StatType: "STR", TemplateName: "Attribute", Params: statdef.Params{"value": 7}},
			{StatType: "DEX", TemplateName: "Attribute"},
		}))

		got, err := store.LoadByEntity(ctx, "archer_1")
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "STR", got[0].StatType)
		assert.Equal(t, "archer_1", got[0].EntityID)
		assert.Equal(t, statdef.Params{"value": 7}, got[0].Params)
		assert.Equal(t, statdef.Params{}, got[1].Params)
	})

	t.Run("entity ids and delete", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, "mage_1", testutil.ArcherConfigs("mage_1")))

		ids, err := store.EntityIDs(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"archer_1", "mage_1"}, ids)

		require.NoError(t, store.Delete(ctx, "archer_1"))
		ids, err = store.EntityIDs(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"mage_1"}, ids)
	})

	t.Run("stored configs load into a resolver", func(t *testing.T) {
		reg, err := statdef.RegistryFromText([]byte(testutil.TemplatesJSON))
		require.NoError(t, err)

		configs, err := store.LoadByEntity(ctx, "mage_1")
		require.NoError(t, err)

		m := entity.NewManager(reg)
		r := stat.NewResolver()
		require.NoError(t, m.LoadEntityStats(r, configs))

		hp, err := m.ResolveStat(r, "mage_1", "HP", nil)
		require.NoError(t, err)
		assert.InDelta(t, 480.0, hp.Value, 1e-9)
	})
}

func TestSQLiteStore(t *testing.T) {
	ctx := testutil.ContextWithTimeout(t, 10*time.Second)

	store, err := OpenSQLite(ctx, testutil.SQLitePath(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	testStore(t, store)
}

func TestSQLiteStore_ReopenKeepsData(t *testing.T) {
	ctx := testutil.ContextWithTimeout(t, 10*time.Second)
	path := testutil.SQLitePath(t)

	store, err := OpenSQLite(ctx, path)
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx, "p", testutil.ArcherConfigs("p")))
	require.NoError(t, store.Close())

	// Migrations are idempotent on an existing file.
	store, err = OpenSQLite(ctx, path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	got, err := store.LoadByEntity(ctx, "p")
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestOpenSQLite_EmptyPath(t *testing.T) {
	_, err := OpenSQLite(testutil.ContextWithTimeout(t, time.Second), "  ")
	assert.Error(t, err)
}

func TestEntityStatRepository(t *testing.T) {
	pool := testutil.SetupTestDB(t)
	testStore(t, NewEntityStatRepository(pool))
}
