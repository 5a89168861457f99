package domain

import (
	"context"
	"encoding/json"
	"net/url"

	"github.com/mitchellh/mapstructure"
	"github.com/puzpuzpuz/xsync"
	"github.com/questx-lab/tileset/internal/domain/autotile"
	"github.com/questx-lab/tileset/internal/domain/catalog"
	"github.com/questx-lab/tileset/internal/model"
	"github.com/questx-lab/tileset/internal/repository"
	"github.com/questx-lab/tileset/pkg/errorx"
	"github.com/questx-lab/tileset/pkg/idutil"
	"github.com/questx-lab/tileset/pkg/ws"
	"github.com/questx-lab/tileset/pkg/xcontext"
)

type PaintDomain interface {
	ServePaint(context.Context, *ws.Connection) error
	ActiveSessions() int
}

type paintDomain struct {
	tilesetRepo repository.TilesetRepository
	catalog     *catalog.Catalog
	sessions    *xsync.MapOf[string, *autotile.Painter]
}

func NewPaintDomain(tilesetRepo repository.TilesetRepository, cat *catalog.Catalog) *paintDomain {
	return &paintDomain{
		tilesetRepo: tilesetRepo,
		catalog:     cat,
		sessions:    xsync.NewMapOf[*autotile.Painter](),
	}
}

func (d *paintDomain) ServePaint(ctx context.Context, conn *ws.Connection) error {
	req, err := parsePaintQuery(xcontext.HTTPRequest(ctx).URL.Query())
	if err != nil {
		return conn.Write(model.PaintMessage{Type: model.PaintError, Message: err.Error()})
	}

	return d.serve(ctx, req, conn.R, conn.Write)
}

func (d *paintDomain) ActiveSessions() int {
	return d.sessions.Size()
}

// serve runs one paint session until in is closed or ctx is done. Every message
// sent to write is a model.PaintMessage.
func (d *paintDomain) serve(
	ctx context.Context,
	req *model.OpenPaintRequest,
	in <-chan []byte,
	write func(any) error,
) error {
	id, painter, err := d.open(ctx, req)
	if err != nil {
		return write(model.PaintMessage{Type: model.PaintError, Message: err.Error()})
	}
	defer d.sessions.Delete(id)

	layer := painter.Layer()
	err = write(model.PaintMessage{
		Type:    model.PaintInit,
		Session: id,
		Width:   layer.Width,
		Height:  layer.Height,
		Tiles:   layer.Rows(),
	})
	if err != nil {
		return err
	}

	xcontext.Logger(ctx).Debugf("Paint session %s opened", id)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-in:
			if !ok {
				xcontext.Logger(ctx).Debugf("Paint session %s closed", id)
				return nil
			}

			if err := write(d.handle(painter, msg)); err != nil {
				return err
			}
		}
	}
}

func (d *paintDomain) open(
	ctx context.Context, req *model.OpenPaintRequest,
) (string, *autotile.Painter, error) {
	if req.Width <= 0 || req.Height <= 0 {
		return "", nil, errorx.New(errorx.BadRequest, "Size must be positive")
	}

	if err := checkCells(ctx, req.Width, req.Height); err != nil {
		return "", nil, err
	}

	ts, err := loadTileset(ctx, d.tilesetRepo, d.catalog, req.TilesetID)
	if err != nil {
		return "", nil, err
	}

	resolver, err := autotile.NewResolver(ts, req.WangSet)
	if err != nil {
		return "", nil, errorx.New(errorx.NotFound, "Not found wang set %s", req.WangSet)
	}

	terrain, err := autotile.NewTerrain(req.Width, req.Height)
	if err != nil {
		return "", nil, errorx.New(errorx.BadRequest, "Invalid terrain: %v", err)
	}
	terrain.Fill(req.Color)

	painter, err := autotile.NewPainter(resolver, terrain, req.Seed)
	if err != nil {
		return "", nil, errorx.New(errorx.BadRequest, "Cannot resolve terrain: %v", err)
	}

	id, err := idutil.NewStringID()
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot generate session id: %v", err)
		return "", nil, errorx.Unknown
	}

	d.sessions.Store(id, painter)
	return id, painter, nil
}

func (d *paintDomain) handle(painter *autotile.Painter, msg []byte) model.PaintMessage {
	var cmd model.PaintCommand
	if err := json.Unmarshal(msg, &cmd); err != nil {
		return model.PaintMessage{Type: model.PaintError, Message: "Invalid paint command"}
	}

	cells, err := painter.Paint(cmd.X, cmd.Y, cmd.Color)
	if err != nil {
		return model.PaintMessage{Type: model.PaintError, Message: err.Error()}
	}

	return model.PaintMessage{Type: model.PaintCells, Cells: convertPaintCells(cells)}
}

func parsePaintQuery(query url.Values) (*model.OpenPaintRequest, error) {
	values := map[string]any{}
	for k := range query {
		values[k] = query.Get(k)
	}

	req := &model.OpenPaintRequest{}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		Result:           req,
	})
	if err != nil {
		return nil, err
	}

	if err := decoder.Decode(values); err != nil {
		return nil, errorx.New(errorx.BadRequest, "Invalid paint query")
	}

	return req, nil
}
