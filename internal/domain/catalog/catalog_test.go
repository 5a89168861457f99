package catalog

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/questx-lab/tileset/assets"
	"github.com/questx-lab/tileset/internal/domain/tileset"
	"github.com/stretchr/testify/require"
)

func countingLoader(calls *int32) Loader {
	return func(ctx context.Context) (*tileset.Tileset, error) {
		atomic.AddInt32(calls, 1)
		return tileset.ParseBytes(assets.DefaultTileset)
	}
}

func TestCatalog_LoadOnce(t *testing.T) {
	c := New()
	ctx := context.Background()

	var calls int32
	var wg sync.WaitGroup
	results := make([]*tileset.Tileset, 32)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ts, err := c.Load(ctx, "forest", countingLoader(&calls))
			require.NoError(t, err)
			results[i] = ts
		}(i)
	}
	wg.Wait()

	require.Equal(t, int32(1), atomic.LoadInt32(&calls))
	for _, ts := range results {
		require.Same(t, results[0], ts)
	}
	require.Equal(t, 1, c.Len())
}

func TestCatalog_ErrorNotCached(t *testing.T) {
	c := New()
	ctx := context.Background()

	_, err := c.Load(ctx, "broken", func(context.Context) (*tileset.Tileset, error) {
		return nil, errors.New("boom")
	})
	require.Error(t, err)
	require.Zero(t, c.Len())

	var calls int32
	ts, err := c.Load(ctx, "broken", countingLoader(&calls))
	require.NoError(t, err)
	require.Equal(t, 528, ts.TileCount)
	require.Equal(t, int32(1), calls)
}

func TestCatalog_EvictAndClose(t *testing.T) {
	c := New()
	ctx := context.Background()

	var calls int32
	_, err := c.Load(ctx, "a", countingLoader(&calls))
	require.NoError(t, err)
	_, err = c.Load(ctx, "b", countingLoader(&calls))
	require.NoError(t, err)
	require.Equal(t, []string{"a", "b"}, c.Keys())

	c.Evict("a")
	_, err = c.Load(ctx, "a", countingLoader(&calls))
	require.NoError(t, err)
	require.Equal(t, int32(3), calls)

	c.Close()
	require.Zero(t, c.Len())
	require.Empty(t, c.Keys())
}

func TestCatalog_Default(t *testing.T) {
	c := New()

	ts, err := c.Default(context.Background())
	require.NoError(t, err)
	require.Equal(t, "StarRealmsCozyForestPack24x24", ts.Name)

	again, err := c.Default(context.Background())
	require.NoError(t, err)
	require.Same(t, ts, again)
	require.Equal(t, []string{DefaultKey}, c.Keys())
}

func TestFileLoader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "forest.tsx")
	require.NoError(t, os.WriteFile(path, assets.DefaultTileset, 0o644))

	c := New()
	ts, err := c.Load(context.Background(), path, FileLoader(path))
	require.NoError(t, err)
	require.Equal(t, 22, ts.Columns)

	_, err = c.Load(context.Background(), "missing", FileLoader(filepath.Join(t.TempDir(), "missing.tsx")))
	require.Error(t, err)
}
