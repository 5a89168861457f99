package tileset

import (
	"fmt"
	"image"
)

// TileRect returns the source rectangle of tile id in the tileset image.
func (t *Tileset) TileRect(id int) (image.Rectangle, error) {
	if !t.HasTile(id) {
		return image.Rectangle{}, fmt.Errorf("tile %d is outside [0, %d]", id, t.TileCount-1)
	}

	if t.Columns <= 0 {
		return image.Rectangle{}, fmt.Errorf("tileset %s has no columns", t.Name)
	}

	col, row := id%t.Columns, id/t.Columns
	x := t.Margin + col*(t.TileWidth+t.Spacing)
	y := t.Margin + row*(t.TileHeight+t.Spacing)
	return image.Rect(x, y, x+t.TileWidth, y+t.TileHeight), nil
}

type subImager interface {
	SubImage(r image.Rectangle) image.Image
}

// TileImage cuts tile id out of the decoded tileset image. The result shares
// pixels with img.
func (t *Tileset) TileImage(img image.Image, id int) (image.Image, error) {
	rect, err := t.TileRect(id)
	if err != nil {
		return nil, err
	}

	rect = rect.Add(img.Bounds().Min)
	if !rect.In(img.Bounds()) {
		return nil, fmt.Errorf("tile %d at %v is outside image bounds %v", id, rect, img.Bounds())
	}

	si, ok := img.(subImager)
	if !ok {
		return nil, fmt.Errorf("image type %T cannot be sliced", img)
	}

	return si.SubImage(rect), nil
}
