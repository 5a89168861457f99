package domain

import (
	"time"

	"github.com/questx-lab/tileset/internal/domain/autotile"
	"github.com/questx-lab/tileset/internal/domain/tileset"
	"github.com/questx-lab/tileset/internal/entity"
	"github.com/questx-lab/tileset/internal/model"
)

const defaultTimeLayout string = time.RFC3339Nano

func convertTileset(ts *entity.Tileset, wangSets []entity.WangSet) model.Tileset {
	if ts == nil {
		return model.Tileset{}
	}

	result := model.Tileset{
		ID:           ts.ID,
		Name:         ts.Name,
		TiledVersion: ts.TiledVersion,
		TileWidth:    ts.TileWidth,
		TileHeight:   ts.TileHeight,
		TileCount:    ts.TileCount,
		Columns:      ts.Columns,
		Spacing:      ts.Spacing,
		Margin:       ts.Margin,
		ImageSource:  ts.ImageSource,
		ImageWidth:   ts.ImageWidth,
		ImageHeight:  ts.ImageHeight,
		Properties:   ts.Properties,
		TSXPath:      ts.TSXPath,
		ImagePath:    ts.ImagePath,
		CreatedAt:    ts.CreatedAt.Format(defaultTimeLayout),
	}

	for _, ws := range wangSets {
		result.WangSets = append(result.WangSets, convertWangSet(ws))
	}

	return result
}

func convertWangSet(ws entity.WangSet) model.WangSet {
	return model.WangSet{
		Name:      ws.Name,
		Type:      string(ws.Type),
		Tile:      ws.Tile,
		Colors:    ws.Colors,
		TileCount: ws.TileCount,
	}
}

func convertIssues(issues []tileset.Issue) []model.Issue {
	result := []model.Issue{}
	for _, i := range issues {
		result = append(result, model.Issue{
			Severity: string(i.Severity),
			Code:     i.Code,
			Message:  i.Message,
		})
	}

	return result
}

func convertSummary(s tileset.Summary) *model.TilesetSummary {
	return &model.TilesetSummary{
		Name:                 s.Name,
		TileWidth:            s.TileWidth,
		TileHeight:           s.TileHeight,
		TileCount:            s.TileCount,
		Columns:              s.Columns,
		Rows:                 s.Rows,
		Image:                s.Image,
		ProbabilityOverrides: s.Overrides,
		WangSets:             s.WangSets,
		WangTiles:            s.WangTiles,
		TiledVersion:         s.TiledVersion,
	}
}

func convertAutotileCells(cells []autotile.Cell) []model.AutotileCell {
	result := []model.AutotileCell{}
	for _, c := range cells {
		result = append(result, model.AutotileCell{X: c.X, Y: c.Y, Tile: c.Tile})
	}

	return result
}

func convertPaintCells(cells []autotile.Cell) []model.PaintCell {
	result := []model.PaintCell{}
	for _, c := range cells {
		result = append(result, model.PaintCell{X: c.X, Y: c.Y, Tile: c.Tile, Exact: c.Exact})
	}

	return result
}
