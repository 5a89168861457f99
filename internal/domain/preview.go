package domain

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"

	"github.com/questx-lab/tileset/internal/common"
	"github.com/questx-lab/tileset/internal/domain/catalog"
	"github.com/questx-lab/tileset/internal/model"
	"github.com/questx-lab/tileset/internal/repository"
	"github.com/questx-lab/tileset/pkg/errorx"
	"github.com/questx-lab/tileset/pkg/storage"
	"github.com/questx-lab/tileset/pkg/xcontext"
	"golang.org/x/exp/slices"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

type PreviewDomain interface {
	Generate(context.Context, *model.GeneratePreviewsRequest) (*model.GeneratePreviewsResponse, error)
}

type previewDomain struct {
	tilesetRepo repository.TilesetRepository
	catalog     *catalog.Catalog
	storage     storage.Storage
}

func NewPreviewDomain(
	tilesetRepo repository.TilesetRepository,
	cat *catalog.Catalog,
	storage storage.Storage,
) *previewDomain {
	return &previewDomain{tilesetRepo: tilesetRepo, catalog: cat, storage: storage}
}

func (d *previewDomain) Generate(
	ctx context.Context, req *model.GeneratePreviewsRequest,
) (*model.GeneratePreviewsResponse, error) {
	if xcontext.RequestAdmin(ctx) == "" {
		return nil, errorx.New(errorx.PermissionDenied, "Permission denied")
	}

	e, err := d.tilesetRepo.GetByID(ctx, req.TilesetID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found tileset")
		}

		xcontext.Logger(ctx).Errorf("Cannot get tileset: %v", err)
		return nil, errorx.Unknown
	}

	ts, err := loadTileset(ctx, d.tilesetRepo, d.catalog, e.ID)
	if err != nil {
		return nil, err
	}

	tiles := slices.Clone(req.Tiles)
	if len(tiles) == 0 {
		for _, ws := range ts.WangSets {
			if ws.Tile >= 0 {
				tiles = append(tiles, ws.Tile)
			}
		}
	}

	slices.Sort(tiles)
	tiles = slices.Compact(tiles)
	if len(tiles) == 0 {
		return nil, errorx.New(errorx.BadRequest, "No tile to preview")
	}

	for _, id := range tiles {
		if !ts.HasTile(id) {
			return nil, errorx.New(errorx.BadRequest, "Tile %d is out of range", id)
		}
	}

	cfg := xcontext.Configs(ctx)
	data, err := d.storage.Download(ctx, cfg.Storage.Bucket, e.ImagePath)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot download tileset image: %v", err)
		return nil, errorx.New(errorx.Internal, "Unable to download tileset image")
	}

	img, err := common.DecodeImage("", bytes.NewReader(data))
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot decode tileset image: %v", err)
		return nil, errorx.Unknown
	}

	objects := make([]*storage.UploadObject, len(tiles))
	g, _ := errgroup.WithContext(ctx)
	if cfg.Preview.Concurrency > 0 {
		g.SetLimit(cfg.Preview.Concurrency)
	}

	for i, id := range tiles {
		i, id := i, id
		g.Go(func() error {
			tile, err := ts.TileImage(img, id)
			if err != nil {
				return err
			}

			b, err := common.EncodePNG(common.Thumbnail(tile, cfg.Preview.Size))
			if err != nil {
				return err
			}

			objects[i] = &storage.UploadObject{
				Bucket:   cfg.Storage.Bucket,
				Prefix:   path.Join(cfg.Preview.Prefix, e.ID),
				FileName: fmt.Sprintf("%d.png", id),
				Mime:     "image/png",
				Data:     b,
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot render previews: %v", err)
		return nil, errorx.Unknown
	}

	resp, err := d.storage.BulkUpload(ctx, objects)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot upload previews: %v", err)
		return nil, errorx.New(errorx.Internal, "Unable to upload previews")
	}

	previews := []model.Preview{}
	for i, r := range resp {
		previews = append(previews, model.Preview{Tile: tiles[i], URL: r.Url})
	}

	return &model.GeneratePreviewsResponse{Previews: previews}, nil
}
