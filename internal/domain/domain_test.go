package domain

import (
	"context"
	"image"
	"image/color"
	"testing"

	"github.com/questx-lab/tileset/internal/common"
	"github.com/questx-lab/tileset/internal/domain/catalog"
	"github.com/questx-lab/tileset/internal/domain/search"
	"github.com/questx-lab/tileset/internal/repository"
	"github.com/questx-lab/tileset/pkg/testutil"
	"github.com/stretchr/testify/require"
)

type testDomains struct {
	tileset   *tilesetDomain
	autotile  *autotileDomain
	preview   *previewDomain
	paint     *paintDomain
	repo      repository.TilesetRepository
	catalog   *catalog.Catalog
	storage   *testutil.MemoryStorage
	publisher *testutil.RecordPublisher
}

func newTestDomains(ctx context.Context) *testDomains {
	repo := repository.NewTilesetRepository(testutil.NewMemoryRedisClient())
	cat := catalog.New()
	store := testutil.NewMemoryStorage()
	publisher := &testutil.RecordPublisher{}

	return &testDomains{
		tileset:   NewTilesetDomain(repo, cat, search.NewBleveIndex(ctx), store, publisher),
		autotile:  NewAutotileDomain(repo, cat),
		preview:   NewPreviewDomain(repo, cat, store),
		paint:     NewPaintDomain(repo, cat),
		repo:      repo,
		catalog:   cat,
		storage:   store,
		publisher: publisher,
	}
}

// testImage returns a png where every tile of 24x24 px has its own color.
func testImage(t *testing.T, width, height int) []byte {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			id := (y/24)*22 + x/24
			img.Set(x, y, color.RGBA{R: uint8(id), G: uint8(id >> 8), B: 200, A: 255})
		}
	}

	b, err := common.EncodePNG(img)
	require.NoError(t, err)
	return b
}

func Test_checkTilesetName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "asset name", input: "StarRealmsCozyForestPack24x24"},
		{name: "with space and dot", input: "forest v1.2"},
		{name: "empty", input: "", wantErr: true},
		{name: "blank", input: "   ", wantErr: true},
		{name: "slash", input: "a/b", wantErr: true},
		{name: "too long", input: string(make([]byte, 65)), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := checkTilesetName(tt.input)
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func Test_loadTileset(t *testing.T) {
	ctx := testutil.MockContext()
	d := newTestDomains(ctx)

	ts, err := loadTileset(ctx, d.repo, d.catalog, DefaultTilesetID)
	require.NoError(t, err)
	require.Equal(t, "StarRealmsCozyForestPack24x24", ts.Name)

	again, err := loadTileset(ctx, d.repo, d.catalog, "")
	require.NoError(t, err)
	require.Same(t, ts, again)

	_, err = loadTileset(ctx, d.repo, d.catalog, "missing")
	require.Error(t, err)
	require.Equal(t, "Not found tileset", err.Error())
	require.Equal(t, 1, d.catalog.Len())
}
