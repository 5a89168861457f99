package catalog

import (
	"context"
	"sort"
	"sync"

	"github.com/puzpuzpuz/xsync"
	"github.com/questx-lab/tileset/assets"
	"github.com/questx-lab/tileset/internal/domain/tileset"
)

// DefaultKey is the key of the embedded tileset.
const DefaultKey = "default:" + assets.DefaultTilesetName

type Loader func(ctx context.Context) (*tileset.Tileset, error)

type entry struct {
	once    sync.Once
	tileset *tileset.Tileset
	err     error
}

// Catalog keeps parsed tilesets in memory. Each key is loaded once even when
// requested concurrently. Failed loads are not kept.
type Catalog struct {
	entries *xsync.MapOf[string, *entry]
}

func New() *Catalog {
	return &Catalog{entries: xsync.NewMapOf[*entry]()}
}

func (c *Catalog) Load(ctx context.Context, key string, loader Loader) (*tileset.Tileset, error) {
	e, _ := c.entries.LoadOrStore(key, &entry{})
	e.once.Do(func() {
		e.tileset, e.err = loader(ctx)
	})

	if e.err != nil {
		if current, ok := c.entries.Load(key); ok && current == e {
			c.entries.Delete(key)
		}

		return nil, e.err
	}

	return e.tileset, nil
}

// Default returns the embedded tileset.
func (c *Catalog) Default(ctx context.Context) (*tileset.Tileset, error) {
	return c.Load(ctx, DefaultKey, BytesLoader(assets.DefaultTileset))
}

func (c *Catalog) Evict(key string) {
	c.entries.Delete(key)
}

func (c *Catalog) Len() int {
	return c.entries.Size()
}

func (c *Catalog) Keys() []string {
	var keys []string
	c.entries.Range(func(key string, _ *entry) bool {
		keys = append(keys, key)
		return true
	})

	sort.Strings(keys)
	return keys
}

// Close drops every cached tileset.
func (c *Catalog) Close() {
	for _, key := range c.Keys() {
		c.entries.Delete(key)
	}
}

func FileLoader(path string) Loader {
	return func(context.Context) (*tileset.Tileset, error) {
		return tileset.ParseFile(path)
	}
}

func BytesLoader(b []byte) Loader {
	return func(context.Context) (*tileset.Tileset, error) {
		return tileset.ParseBytes(b)
	}
}
