package search

import (
	"context"
	"testing"

	"github.com/questx-lab/tileset/config"
	"github.com/questx-lab/tileset/pkg/xcontext"
	"github.com/stretchr/testify/require"
)

func newMemIndex(t *testing.T) *bleveIndex {
	cfg := config.Default()
	cfg.Search.IndexDir = ""
	index := NewBleveIndex(xcontext.WithConfigs(context.Background(), cfg))
	t.Cleanup(index.Close)
	return index
}

func TestBleveIndex(t *testing.T) {
	ctx := context.Background()
	index := newMemIndex(t)

	require.NoError(t, index.IndexTileset(ctx, "1", TilesetData{
		Name:     "forest",
		Image:    "forest.png",
		WangSets: []string{"Grass", "Path", "Water"},
	}))
	require.NoError(t, index.IndexTileset(ctx, "2", TilesetData{
		Name:     "dungeon",
		Image:    "dungeon.png",
		WangSets: []string{"Lava"},
	}))

	ids, err := index.SearchTileset(ctx, "water", 0, 10)
	require.NoError(t, err)
	require.Equal(t, []string{"1"}, ids)

	ids, err = index.SearchTileset(ctx, "dungeon", 0, 10)
	require.NoError(t, err)
	require.Equal(t, []string{"2"}, ids)

	// Re-indexing replaces the previous document.
	require.NoError(t, index.IndexTileset(ctx, "2", TilesetData{Name: "cave", WangSets: []string{"Water"}}))
	ids, err = index.SearchTileset(ctx, "dungeon", 0, 10)
	require.NoError(t, err)
	require.Empty(t, ids)

	ids, err = index.SearchTileset(ctx, "water", 0, 10)
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"1", "2"}, ids)

	require.NoError(t, index.DeleteTileset(ctx, "1"))
	ids, err = index.SearchTileset(ctx, "water", 0, 10)
	require.NoError(t, err)
	require.Equal(t, []string{"2"}, ids)
}

func TestBleveIndex_OnDisk(t *testing.T) {
	ctx := context.Background()
	cfg := config.Default()
	cfg.Search.IndexDir = t.TempDir()

	index := NewBleveIndex(xcontext.WithConfigs(ctx, cfg))
	require.NoError(t, index.IndexTileset(ctx, "1", TilesetData{Name: "forest"}))
	index.Close()

	reopened := NewBleveIndex(xcontext.WithConfigs(ctx, cfg))
	defer reopened.Close()

	ids, err := reopened.SearchTileset(ctx, "forest", 0, 10)
	require.NoError(t, err)
	require.Equal(t, []string{"1"}, ids)
}
