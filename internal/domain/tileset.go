package domain

import (
	"bytes"
	"context"
	"errors"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/questx-lab/tileset/internal/common"
	"github.com/questx-lab/tileset/internal/domain/catalog"
	"github.com/questx-lab/tileset/internal/domain/search"
	"github.com/questx-lab/tileset/internal/domain/tileset"
	"github.com/questx-lab/tileset/internal/entity"
	"github.com/questx-lab/tileset/internal/model"
	"github.com/questx-lab/tileset/internal/repository"
	"github.com/questx-lab/tileset/pkg/errorx"
	"github.com/questx-lab/tileset/pkg/pubsub"
	"github.com/questx-lab/tileset/pkg/storage"
	"github.com/questx-lab/tileset/pkg/xcontext"
	"gorm.io/gorm"
)

const (
	TilesetImportedEvent = "tileset.imported"
	TilesetDeletedEvent  = "tileset.deleted"
)

type TilesetDomain interface {
	Import(context.Context, *model.ImportTilesetRequest) (*model.ImportTilesetResponse, error)
	Get(context.Context, *model.GetTilesetRequest) (*model.GetTilesetResponse, error)
	GetList(context.Context, *model.GetTilesetsRequest) (*model.GetTilesetsResponse, error)
	Search(context.Context, *model.SearchTilesetsRequest) (*model.SearchTilesetsResponse, error)
	Delete(context.Context, *model.DeleteTilesetRequest) (*model.DeleteTilesetResponse, error)
	Validate(context.Context, *model.ValidateTilesetRequest) (*model.ValidateTilesetResponse, error)
	Export(context.Context, *model.ExportTilesetRequest) (*model.ExportTilesetResponse, error)
}

type tilesetDomain struct {
	tilesetRepo repository.TilesetRepository
	catalog     *catalog.Catalog
	indexer     search.Indexer
	storage     storage.Storage
	publisher   pubsub.Publisher
}

func NewTilesetDomain(
	tilesetRepo repository.TilesetRepository,
	cat *catalog.Catalog,
	indexer search.Indexer,
	storage storage.Storage,
	publisher pubsub.Publisher,
) *tilesetDomain {
	return &tilesetDomain{
		tilesetRepo: tilesetRepo,
		catalog:     cat,
		indexer:     indexer,
		storage:     storage,
		publisher:   publisher,
	}
}

func (d *tilesetDomain) Import(
	ctx context.Context, req *model.ImportTilesetRequest,
) (*model.ImportTilesetResponse, error) {
	admin := xcontext.RequestAdmin(ctx)
	if admin == "" {
		return nil, errorx.New(errorx.PermissionDenied, "Permission denied")
	}

	tsxObject, imageObject, err := d.importObjects(ctx, req)
	if err != nil {
		return nil, err
	}

	ts, err := tileset.ParseBytes(tsxObject.Data)
	if err != nil {
		xcontext.Logger(ctx).Debugf("Cannot parse tileset: %v", err)
		return nil, errorx.New(errorx.BadRequest, "Invalid tileset file")
	}

	report := tileset.Validate(ts)
	if err := report.Err(); err != nil {
		return nil, err
	}

	name := req.Name
	if name == "" {
		name = ts.Name
	}

	if err := checkTilesetName(name); err != nil {
		return nil, err
	}

	img, err := common.DecodeImage("", bytes.NewReader(imageObject.Data))
	if err != nil {
		xcontext.Logger(ctx).Debugf("Cannot decode tileset image: %v", err)
		return nil, errorx.New(errorx.BadRequest, "Invalid tileset image")
	}

	size := img.Bounds().Size()
	if size.X != ts.Image.Width || size.Y != ts.Image.Height {
		return nil, errorx.New(errorx.BadRequest,
			"Image is %dx%d, tileset declares %dx%d", size.X, size.Y, ts.Image.Width, ts.Image.Height)
	}

	_, err = d.tilesetRepo.GetByName(ctx, name)
	if err == nil {
		return nil, errorx.New(errorx.AlreadyExists, "Tileset %s already exists", name)
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		xcontext.Logger(ctx).Errorf("Cannot get tileset by name: %v", err)
		return nil, errorx.Unknown
	}

	bucket := xcontext.Configs(ctx).Storage.Bucket
	tsxObject.Bucket, imageObject.Bucket = bucket, bucket
	tsxObject.Prefix, imageObject.Prefix = name, name
	tsxObject.FileName = name + ".tsx"
	imageObject.FileName = path.Base(ts.Image.Source)

	resp, err := d.storage.BulkUpload(ctx, []*storage.UploadObject{tsxObject, imageObject})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot upload tileset: %v", err)
		return nil, errorx.New(errorx.Internal, "Unable to upload tileset")
	}

	properties := entity.Map{}
	for _, p := range ts.Properties {
		properties[p.Name] = p.Value
	}

	e := &entity.Tileset{
		Base:         entity.Base{ID: uuid.NewString()},
		Name:         name,
		TiledVersion: ts.TiledVersion,
		TileWidth:    ts.TileWidth,
		TileHeight:   ts.TileHeight,
		TileCount:    ts.TileCount,
		Columns:      ts.Columns,
		Spacing:      ts.Spacing,
		Margin:       ts.Margin,
		ImageSource:  ts.Image.Source,
		ImageWidth:   ts.Image.Width,
		ImageHeight:  ts.Image.Height,
		Properties:   properties,
		TSXPath:      resp[0].FileName,
		ImagePath:    resp[1].FileName,
		Content:      tsxObject.Data,
	}

	wangSets := []entity.WangSet{}
	for i, ws := range ts.WangSets {
		colors := entity.Array[string]{}
		for _, c := range ws.Colors {
			colors = append(colors, c.Color)
		}

		wangSets = append(wangSets, entity.WangSet{
			Base:      entity.Base{ID: uuid.NewString()},
			Name:      ws.Name,
			Position:  i,
			Type:      entity.WangSetType(ws.Type),
			Tile:      ws.Tile,
			Colors:    colors,
			TileCount: len(ws.Tiles),
		})
	}

	if err := d.tilesetRepo.Create(ctx, e, wangSets); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create tileset: %v", err)
		return nil, errorx.Unknown
	}

	if err := d.indexer.IndexTileset(ctx, e.ID, searchData(ts, name)); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot index tileset %s: %v", e.ID, err)
	}

	_, err = d.catalog.Load(ctx, tilesetCacheKey(e.ID), catalog.BytesLoader(e.Content))
	if err != nil {
		xcontext.Logger(ctx).Warnf("Cannot cache tileset %s: %v", e.ID, err)
	}

	d.publish(ctx, TilesetImportedEvent, model.TilesetEvent{ID: e.ID, Name: name, By: admin})

	return &model.ImportTilesetResponse{
		ID:       e.ID,
		Warnings: convertIssues(report.Warnings()),
	}, nil
}

// importObjects reads the tsx and image files from a multipart form, or from the
// json body otherwise.
func (d *tilesetDomain) importObjects(
	ctx context.Context, req *model.ImportTilesetRequest,
) (*storage.UploadObject, *storage.UploadObject, error) {
	httpReq := xcontext.HTTPRequest(ctx)
	if httpReq != nil && strings.HasPrefix(httpReq.Header.Get("Content-Type"), "multipart/form-data") {
		if err := httpReq.ParseMultipartForm(xcontext.Configs(ctx).File.MaxSize); err != nil {
			return nil, nil, errorx.New(errorx.BadRequest, "Request must be multipart form")
		}

		tsxObject, err := formToStorageObject(ctx, "tsx", "application/xml")
		if err != nil {
			return nil, nil, err
		}

		imageObject, err := formToStorageObject(ctx, "image", "image/png")
		if err != nil {
			return nil, nil, err
		}

		if req.Name == "" {
			req.Name = httpReq.PostFormValue("name")
		}

		return tsxObject, imageObject, nil
	}

	if req.TSX == "" {
		return nil, nil, errorx.New(errorx.BadRequest, "Not found tsx")
	}

	if len(req.Image) == 0 {
		return nil, nil, errorx.New(errorx.BadRequest, "Not found image")
	}

	maxSize := xcontext.Configs(ctx).File.MaxSize
	if int64(len(req.TSX)) > maxSize || int64(len(req.Image)) > maxSize {
		return nil, nil, errorx.New(errorx.BadRequest, "File too large (at most %d bytes)", maxSize)
	}

	tsxObject := &storage.UploadObject{Mime: "application/xml", Data: []byte(req.TSX)}
	imageObject := &storage.UploadObject{Mime: "image/png", Data: req.Image}
	return tsxObject, imageObject, nil
}

func (d *tilesetDomain) Get(
	ctx context.Context, req *model.GetTilesetRequest,
) (*model.GetTilesetResponse, error) {
	e, err := d.tilesetRepo.GetByID(ctx, req.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found tileset")
		}

		xcontext.Logger(ctx).Errorf("Cannot get tileset: %v", err)
		return nil, errorx.Unknown
	}

	wangSets, err := d.tilesetRepo.GetWangSets(ctx, e.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get wang sets: %v", err)
		return nil, errorx.Unknown
	}

	return &model.GetTilesetResponse{Tileset: convertTileset(e, wangSets)}, nil
}

func (d *tilesetDomain) GetList(
	ctx context.Context, req *model.GetTilesetsRequest,
) (*model.GetTilesetsResponse, error) {
	limit, err := checkLimit(ctx, req.Limit)
	if err != nil {
		return nil, err
	}

	result, err := d.tilesetRepo.GetList(ctx, repository.GetListTilesetFilter{
		NamePrefix: req.Q,
		Offset:     req.Offset,
		Limit:      limit,
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get tileset list: %v", err)
		return nil, errorx.Unknown
	}

	tilesets := []model.Tileset{}
	for i := range result {
		tilesets = append(tilesets, convertTileset(&result[i], nil))
	}

	return &model.GetTilesetsResponse{Tilesets: tilesets}, nil
}

func (d *tilesetDomain) Search(
	ctx context.Context, req *model.SearchTilesetsRequest,
) (*model.SearchTilesetsResponse, error) {
	if req.Q == "" {
		return nil, errorx.New(errorx.BadRequest, "Empty query")
	}

	limit, err := checkLimit(ctx, req.Limit)
	if err != nil {
		return nil, err
	}

	ids, err := d.indexer.SearchTileset(ctx, req.Q, req.Offset, limit)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot search tileset: %v", err)
		return nil, errorx.Unknown
	}

	result, err := d.tilesetRepo.GetByIDs(ctx, ids)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get tilesets by ids: %v", err)
		return nil, errorx.Unknown
	}

	byID := map[string]*entity.Tileset{}
	for i := range result {
		byID[result[i].ID] = &result[i]
	}

	// Keep the search ranking, skipping ids deleted since they were indexed.
	tilesets := []model.Tileset{}
	for _, id := range ids {
		if e, ok := byID[id]; ok {
			tilesets = append(tilesets, convertTileset(e, nil))
		}
	}

	return &model.SearchTilesetsResponse{Tilesets: tilesets}, nil
}

func (d *tilesetDomain) Delete(
	ctx context.Context, req *model.DeleteTilesetRequest,
) (*model.DeleteTilesetResponse, error) {
	admin := xcontext.RequestAdmin(ctx)
	if admin == "" {
		return nil, errorx.New(errorx.PermissionDenied, "Permission denied")
	}

	e, err := d.tilesetRepo.GetByID(ctx, req.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found tileset")
		}

		xcontext.Logger(ctx).Errorf("Cannot get tileset: %v", err)
		return nil, errorx.Unknown
	}

	if err := d.tilesetRepo.DeleteByID(ctx, e.ID); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot delete tileset: %v", err)
		return nil, errorx.Unknown
	}

	d.catalog.Evict(tilesetCacheKey(e.ID))
	if err := d.indexer.DeleteTileset(ctx, e.ID); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot delete tileset %s from index: %v", e.ID, err)
	}

	d.publish(ctx, TilesetDeletedEvent, model.TilesetEvent{ID: e.ID, Name: e.Name, By: admin})

	return &model.DeleteTilesetResponse{}, nil
}

func (d *tilesetDomain) Validate(
	ctx context.Context, req *model.ValidateTilesetRequest,
) (*model.ValidateTilesetResponse, error) {
	if req.TSX == "" {
		return nil, errorx.New(errorx.BadRequest, "Not found tsx")
	}

	ts, err := tileset.ParseBytes([]byte(req.TSX))
	if err != nil {
		return &model.ValidateTilesetResponse{
			Valid: false,
			Issues: []model.Issue{{
				Severity: string(tileset.SeverityError),
				Code:     "parse",
				Message:  err.Error(),
			}},
		}, nil
	}

	report := tileset.Validate(ts)
	return &model.ValidateTilesetResponse{
		Valid:   len(report.Errors()) == 0,
		Issues:  convertIssues(report.Issues),
		Summary: convertSummary(ts.Summary()),
	}, nil
}

func (d *tilesetDomain) Export(
	ctx context.Context, req *model.ExportTilesetRequest,
) (*model.ExportTilesetResponse, error) {
	ts, err := loadTileset(ctx, d.tilesetRepo, d.catalog, req.ID)
	if err != nil {
		return nil, err
	}

	switch req.Format {
	case "", "tsx":
		b, err := ts.MarshalTSX()
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot encode tileset: %v", err)
			return nil, errorx.Unknown
		}

		return &model.ExportTilesetResponse{Name: ts.Name, Format: "tsx", TSX: string(b)}, nil
	case "json":
		return &model.ExportTilesetResponse{Name: ts.Name, Format: "json", Tileset: ts}, nil
	default:
		return nil, errorx.New(errorx.BadRequest, "Unsupported format %s", req.Format)
	}
}

func (d *tilesetDomain) publish(ctx context.Context, event string, msg model.TilesetEvent) {
	pack, err := pubsub.NewPack(event, msg)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create pack of %s: %v", event, err)
		return
	}

	topic := xcontext.Configs(ctx).Kafka.Topic
	if err := d.publisher.Publish(ctx, topic, pack); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot publish %s: %v", event, err)
	}
}

func searchData(ts *tileset.Tileset, name string) search.TilesetData {
	data := search.TilesetData{
		Name:     name,
		Image:    ts.Image.Source,
		WangSets: ts.WangSetNames(),
	}

	for _, ws := range ts.WangSets {
		for _, c := range ws.Colors {
			if c.Name != "" {
				data.Colors = append(data.Colors, c.Name)
			}
		}
	}

	return data
}

func formToStorageObject(ctx context.Context, name, mime string) (*storage.UploadObject, error) {
	file, _, err := xcontext.HTTPRequest(ctx).FormFile(name)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get the %s: %v", name, err)
		return nil, errorx.New(errorx.BadRequest, "Cannot get the %s", name)
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot read file: %v", err)
		return nil, errorx.Unknown
	}

	return &storage.UploadObject{
		Mime: mime,
		Data: content,
	}, nil
}
