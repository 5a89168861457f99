package domain

import (
	"context"

	"github.com/questx-lab/tileset/internal/domain/autotile"
	"github.com/questx-lab/tileset/internal/domain/catalog"
	"github.com/questx-lab/tileset/internal/domain/tilemap"
	"github.com/questx-lab/tileset/internal/model"
	"github.com/questx-lab/tileset/internal/repository"
	"github.com/questx-lab/tileset/pkg/errorx"
	"github.com/questx-lab/tileset/pkg/xcontext"
)

type AutotileDomain interface {
	Resolve(context.Context, *model.ResolveAutotileRequest) (*model.ResolveAutotileResponse, error)
	RandomFill(context.Context, *model.RandomFillRequest) (*model.RandomFillResponse, error)
}

type autotileDomain struct {
	tilesetRepo repository.TilesetRepository
	catalog     *catalog.Catalog
}

func NewAutotileDomain(tilesetRepo repository.TilesetRepository, cat *catalog.Catalog) *autotileDomain {
	return &autotileDomain{tilesetRepo: tilesetRepo, catalog: cat}
}

func (d *autotileDomain) Resolve(
	ctx context.Context, req *model.ResolveAutotileRequest,
) (*model.ResolveAutotileResponse, error) {
	if len(req.Corners) < 2 || len(req.Corners[0]) < 2 {
		return nil, errorx.New(errorx.BadRequest, "Corner grid must be at least 2x2")
	}

	if err := checkCells(ctx, len(req.Corners[0])-1, len(req.Corners)-1); err != nil {
		return nil, err
	}

	ts, err := loadTileset(ctx, d.tilesetRepo, d.catalog, req.TilesetID)
	if err != nil {
		return nil, err
	}

	terrain, err := autotile.NewTerrainFromCorners(req.Corners)
	if err != nil {
		return nil, errorx.New(errorx.BadRequest, "Invalid corner grid: %v", err)
	}

	resolver, err := autotile.NewResolver(ts, req.WangSet)
	if err != nil {
		return nil, errorx.New(errorx.NotFound, "Not found wang set %s", req.WangSet)
	}

	layer, err := resolver.Resolve(terrain, req.Seed)
	if err != nil {
		return nil, errorx.New(errorx.BadRequest, "Cannot resolve terrain: %v", err)
	}

	resp := &model.ResolveAutotileResponse{
		Width:   layer.Width,
		Height:  layer.Height,
		Tiles:   layer.Rows(),
		Inexact: convertAutotileCells(resolver.Inexact(terrain)),
	}

	if req.WithMap {
		m, err := tilemap.NewMap(layer.Width, layer.Height, ts.TileWidth, ts.TileHeight, ts.Name+".tsx")
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot create map: %v", err)
			return nil, errorx.Unknown
		}

		if _, err := m.AddTileLayer(req.WangSet, layer.Tiles, "base64", "zlib"); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot add map layer: %v", err)
			return nil, errorx.Unknown
		}

		resp.Map, err = m.Marshal()
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot marshal map: %v", err)
			return nil, errorx.Unknown
		}
	}

	return resp, nil
}

func (d *autotileDomain) RandomFill(
	ctx context.Context, req *model.RandomFillRequest,
) (*model.RandomFillResponse, error) {
	if req.Width <= 0 || req.Height <= 0 {
		return nil, errorx.New(errorx.BadRequest, "Size must be positive")
	}

	if err := checkCells(ctx, req.Width, req.Height); err != nil {
		return nil, err
	}

	ts, err := loadTileset(ctx, d.tilesetRepo, d.catalog, req.TilesetID)
	if err != nil {
		return nil, err
	}

	var picker *autotile.Picker
	switch {
	case len(req.Tiles) > 0:
		picker, err = autotile.NewPicker(ts, req.Tiles)
	case req.WangSet != "":
		picker, err = autotile.NewWangSetPicker(ts, req.WangSet, req.Color)
	default:
		return nil, errorx.New(errorx.BadRequest, "Either tiles or wang set is required")
	}

	if err != nil {
		return nil, errorx.New(errorx.BadRequest, "Cannot pick tiles: %v", err)
	}

	layer, err := picker.Fill(req.Width, req.Height, req.Seed)
	if err != nil {
		return nil, errorx.New(errorx.BadRequest, "Cannot fill layer: %v", err)
	}

	return &model.RandomFillResponse{
		Width:  layer.Width,
		Height: layer.Height,
		Tiles:  layer.Rows(),
	}, nil
}

func checkCells(ctx context.Context, width, height int) error {
	maxCells := xcontext.Configs(ctx).Autotile.MaxCells
	if maxCells > 0 && (width > maxCells/height || width*height > maxCells) {
		return errorx.New(errorx.BadRequest, "Exceed the maximum of cells (%d)", maxCells)
	}

	return nil
}
