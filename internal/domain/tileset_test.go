package domain

import (
	"context"
	"errors"
	"testing"

	"github.com/questx-lab/tileset/assets"
	"github.com/questx-lab/tileset/internal/domain/tileset"
	"github.com/questx-lab/tileset/internal/model"
	"github.com/questx-lab/tileset/pkg/errorx"
	"github.com/questx-lab/tileset/pkg/testutil"
	"github.com/stretchr/testify/require"
)

func importDefault(t *testing.T, ctx context.Context, d *testDomains) string {
	resp, err := d.tileset.Import(ctx, &model.ImportTilesetRequest{
		TSX:   string(assets.DefaultTileset),
		Image: testImage(t, 550, 576),
	})
	require.NoError(t, err)
	require.NotEmpty(t, resp.ID)
	return resp.ID
}

func Test_tilesetDomain_Import(t *testing.T) {
	ctx := testutil.MockContextWithAdmin("alice")
	d := newTestDomains(ctx)

	resp, err := d.tileset.Import(ctx, &model.ImportTilesetRequest{
		TSX:   string(assets.DefaultTileset),
		Image: testImage(t, 550, 576),
	})
	require.NoError(t, err)
	require.Len(t, resp.Warnings, 1)
	require.Equal(t, tileset.IssueImageWidth, resp.Warnings[0].Code)
	require.Equal(t, "warning", resp.Warnings[0].Severity)

	require.Equal(t, 2, d.storage.Len())
	require.Equal(t, []string{TilesetImportedEvent}, d.publisher.Keys())

	got, err := d.tileset.Get(ctx, &model.GetTilesetRequest{ID: resp.ID})
	require.NoError(t, err)
	require.Equal(t, "StarRealmsCozyForestPack24x24", got.Tileset.Name)
	require.Equal(t, 528, got.Tileset.TileCount)
	require.Equal(t, 22, got.Tileset.Columns)
	require.Equal(t, "StarRealmsCozyForestPack24x24/StarRealmsCozyForestPack24x24.tsx", got.Tileset.TSXPath)
	require.Equal(t, "StarRealmsCozyForestPack24x24/StarRealmsCozyForestPack24x24.png", got.Tileset.ImagePath)
	require.Len(t, got.Tileset.WangSets, 3)
	require.Equal(t, model.WangSet{
		Name: "Grass", Type: "mixed", Tile: 89, Colors: []string{"#ff0000"}, TileCount: 25,
	}, got.Tileset.WangSets[0])
	require.Equal(t, "Path", got.Tileset.WangSets[1].Name)
	require.Equal(t, "Water", got.Tileset.WangSets[2].Name)

	_, err = d.tileset.Import(ctx, &model.ImportTilesetRequest{
		TSX:   string(assets.DefaultTileset),
		Image: testImage(t, 550, 576),
	})
	require.True(t, errors.Is(err, errorx.New(errorx.AlreadyExists, "")))

	_, err = d.tileset.Import(ctx, &model.ImportTilesetRequest{
		Name:  "forest copy",
		TSX:   string(assets.DefaultTileset),
		Image: testImage(t, 550, 576),
	})
	require.NoError(t, err)
	require.Equal(t, 4, d.storage.Len())
}

func Test_tilesetDomain_Import_Invalid(t *testing.T) {
	brokenProbability := []byte(`<?xml version="1.0" encoding="UTF-8"?>
<tileset version="1.10" name="broken" tilewidth="24" tileheight="24" tilecount="4" columns="2">
 <image source="broken.png" width="48" height="48"/>
 <tile id="1" probability="2"/>
</tileset>
`)

	tests := []struct {
		name    string
		ctx     context.Context
		req     *model.ImportTilesetRequest
		wantErr error
	}{
		{
			name: "not admin",
			ctx:  testutil.MockContext(),
			req: &model.ImportTilesetRequest{
				TSX:   string(assets.DefaultTileset),
				Image: testImage(t, 550, 576),
			},
			wantErr: errorx.New(errorx.PermissionDenied, "Permission denied"),
		},
		{
			name:    "missing tsx",
			ctx:     testutil.MockContextWithAdmin("alice"),
			req:     &model.ImportTilesetRequest{Image: testImage(t, 550, 576)},
			wantErr: errorx.New(errorx.BadRequest, "Not found tsx"),
		},
		{
			name:    "missing image",
			ctx:     testutil.MockContextWithAdmin("alice"),
			req:     &model.ImportTilesetRequest{TSX: string(assets.DefaultTileset)},
			wantErr: errorx.New(errorx.BadRequest, "Not found image"),
		},
		{
			name: "not a tileset",
			ctx:  testutil.MockContextWithAdmin("alice"),
			req: &model.ImportTilesetRequest{
				TSX:   "<map/>",
				Image: testImage(t, 550, 576),
			},
			wantErr: errorx.New(errorx.BadRequest, "Invalid tileset file"),
		},
		{
			name: "image size differs",
			ctx:  testutil.MockContextWithAdmin("alice"),
			req: &model.ImportTilesetRequest{
				TSX:   string(assets.DefaultTileset),
				Image: testImage(t, 528, 576),
			},
			wantErr: errorx.New(errorx.BadRequest, "Image is 528x576, tileset declares 550x576"),
		},
		{
			name: "invalid name",
			ctx:  testutil.MockContextWithAdmin("alice"),
			req: &model.ImportTilesetRequest{
				Name:  "../forest",
				TSX:   string(assets.DefaultTileset),
				Image: testImage(t, 550, 576),
			},
			wantErr: errorx.New(errorx.BadRequest, "Tileset name contains invalid characters"),
		},
		{
			name: "validation error",
			ctx:  testutil.MockContextWithAdmin("alice"),
			req: &model.ImportTilesetRequest{
				TSX:   string(brokenProbability),
				Image: testImage(t, 48, 48),
			},
			wantErr: errorx.New(errorx.InvalidTileset, ""),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newTestDomains(tt.ctx)
			_, err := d.tileset.Import(tt.ctx, tt.req)
			require.Error(t, err)

			var errx errorx.Error
			require.True(t, errors.As(err, &errx))
			require.Equal(t, tt.wantErr.(errorx.Error).Code, errx.Code)
			if msg := tt.wantErr.Error(); msg != "" {
				require.Equal(t, msg, err.Error())
			}

			require.Zero(t, d.storage.Len())
			require.Empty(t, d.publisher.Keys())
		})
	}
}

func Test_tilesetDomain_GetList(t *testing.T) {
	ctx := testutil.MockContextWithAdmin("alice")
	d := newTestDomains(ctx)

	for _, name := range []string{"beach", "forest", "forest night"} {
		_, err := d.tileset.Import(ctx, &model.ImportTilesetRequest{
			Name:  name,
			TSX:   string(assets.DefaultTileset),
			Image: testImage(t, 550, 576),
		})
		require.NoError(t, err)
	}

	resp, err := d.tileset.GetList(ctx, &model.GetTilesetsRequest{Limit: 10})
	require.NoError(t, err)
	require.Len(t, resp.Tilesets, 3)
	require.Equal(t, "beach", resp.Tilesets[0].Name)

	resp, err = d.tileset.GetList(ctx, &model.GetTilesetsRequest{Q: "forest", Limit: 10})
	require.NoError(t, err)
	require.Len(t, resp.Tilesets, 2)
	require.Equal(t, "forest", resp.Tilesets[0].Name)
	require.Equal(t, "forest night", resp.Tilesets[1].Name)

	// The default limit of tests is 1.
	resp, err = d.tileset.GetList(ctx, &model.GetTilesetsRequest{Offset: 1})
	require.NoError(t, err)
	require.Len(t, resp.Tilesets, 1)
	require.Equal(t, "forest", resp.Tilesets[0].Name)

	_, err = d.tileset.GetList(ctx, &model.GetTilesetsRequest{Limit: 51})
	require.Equal(t, errorx.New(errorx.BadRequest, "Exceed the maximum of limit (50)"), err)

	_, err = d.tileset.GetList(ctx, &model.GetTilesetsRequest{Limit: -1})
	require.Equal(t, errorx.New(errorx.BadRequest, "Limit must be positive"), err)
}

func Test_tilesetDomain_SearchAndDelete(t *testing.T) {
	ctx := testutil.MockContextWithAdmin("alice")
	d := newTestDomains(ctx)
	id := importDefault(t, ctx, d)

	resp, err := d.tileset.Search(ctx, &model.SearchTilesetsRequest{Q: "water", Limit: 10})
	require.NoError(t, err)
	require.Len(t, resp.Tilesets, 1)
	require.Equal(t, id, resp.Tilesets[0].ID)

	_, err = d.tileset.Search(ctx, &model.SearchTilesetsRequest{})
	require.Equal(t, errorx.New(errorx.BadRequest, "Empty query"), err)

	_, err = d.tileset.Delete(testutil.MockContext(), &model.DeleteTilesetRequest{ID: id})
	require.Equal(t, errorx.New(errorx.PermissionDenied, "Permission denied"), err)

	_, err = d.tileset.Delete(ctx, &model.DeleteTilesetRequest{ID: id})
	require.NoError(t, err)
	require.Equal(t, []string{TilesetImportedEvent, TilesetDeletedEvent}, d.publisher.Keys())
	require.Empty(t, d.catalog.Keys())

	_, err = d.tileset.Get(ctx, &model.GetTilesetRequest{ID: id})
	require.Equal(t, errorx.New(errorx.NotFound, "Not found tileset"), err)

	resp, err = d.tileset.Search(ctx, &model.SearchTilesetsRequest{Q: "water", Limit: 10})
	require.NoError(t, err)
	require.Empty(t, resp.Tilesets)

	_, err = d.tileset.Delete(ctx, &model.DeleteTilesetRequest{ID: id})
	require.Equal(t, errorx.New(errorx.NotFound, "Not found tileset"), err)
}

func Test_tilesetDomain_Validate(t *testing.T) {
	ctx := testutil.MockContext()
	d := newTestDomains(ctx)

	resp, err := d.tileset.Validate(ctx, &model.ValidateTilesetRequest{TSX: string(assets.DefaultTileset)})
	require.NoError(t, err)
	require.True(t, resp.Valid)
	require.Len(t, resp.Issues, 1)
	require.Equal(t, tileset.IssueImageWidth, resp.Issues[0].Code)
	require.Equal(t, 528, resp.Summary.TileCount)
	require.Equal(t, 24, resp.Summary.Rows)
	require.Equal(t, 15, resp.Summary.ProbabilityOverrides)
	require.Equal(t, []string{"Grass", "Path", "Water"}, resp.Summary.WangSets)
	require.Equal(t, 51, resp.Summary.WangTiles)

	resp, err = d.tileset.Validate(ctx, &model.ValidateTilesetRequest{TSX: "<tileset"})
	require.NoError(t, err)
	require.False(t, resp.Valid)
	require.Len(t, resp.Issues, 1)
	require.Equal(t, "parse", resp.Issues[0].Code)
	require.Nil(t, resp.Summary)

	_, err = d.tileset.Validate(ctx, &model.ValidateTilesetRequest{})
	require.Error(t, err)
}

func Test_tilesetDomain_Export(t *testing.T) {
	ctx := testutil.MockContextWithAdmin("alice")
	d := newTestDomains(ctx)
	id := importDefault(t, ctx, d)

	for _, tilesetID := range []string{DefaultTilesetID, id} {
		resp, err := d.tileset.Export(ctx, &model.ExportTilesetRequest{ID: tilesetID})
		require.NoError(t, err)
		require.Equal(t, "tsx", resp.Format)
		require.Equal(t, string(assets.DefaultTileset), resp.TSX)
	}

	resp, err := d.tileset.Export(ctx, &model.ExportTilesetRequest{ID: id, Format: "json"})
	require.NoError(t, err)
	require.Equal(t, "json", resp.Format)
	require.Equal(t, "StarRealmsCozyForestPack24x24", resp.Name)
	require.IsType(t, &tileset.Tileset{}, resp.Tileset)

	_, err = d.tileset.Export(ctx, &model.ExportTilesetRequest{ID: id, Format: "tmx"})
	require.Equal(t, errorx.New(errorx.BadRequest, "Unsupported format tmx"), err)

	_, err = d.tileset.Export(ctx, &model.ExportTilesetRequest{ID: "missing"})
	require.Equal(t, errorx.New(errorx.NotFound, "Not found tileset"), err)
}
