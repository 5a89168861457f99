package tilemap

import (
	"fmt"
	"image"
)

// CollisionLayer marks blocked cells. A cell is blocked when its tile is not
// empty, or when a rectangle of a collision object layer overlaps it.
type CollisionLayer struct {
	Width      int
	Height     int
	TileWidth  int
	TileHeight int
	blocked    [][]bool
}

func (m *Map) CollisionLayer(name string) (*CollisionLayer, error) {
	l, ok := m.Layer(name)
	if !ok {
		return nil, fmt.Errorf("not found collision layer %s", name)
	}

	c := &CollisionLayer{
		Width:      m.Width,
		Height:     m.Height,
		TileWidth:  m.TileWidth,
		TileHeight: m.TileHeight,
		blocked:    make([][]bool, m.Width),
	}
	for i := range c.blocked {
		c.blocked[i] = make([]bool, m.Height)
	}

	switch l.Type {
	case LayerTile:
		if l.Width != m.Width || l.Height != m.Height {
			return nil, fmt.Errorf("collision layer %s is %dx%d, map is %dx%d",
				name, l.Width, l.Height, m.Width, m.Height)
		}

		for i, gid := range l.GIDs {
			c.blocked[i%l.Width][i/l.Width] = ClearFlags(gid) != 0
		}

	case LayerObject:
		for _, o := range l.Objects {
			c.blockRect(o.Rect())
		}

	default:
		return nil, fmt.Errorf("layer %s of type %s cannot be a collision layer", name, l.Type)
	}

	return c, nil
}

func (c *CollisionLayer) blockRect(r image.Rectangle) {
	if r.Empty() {
		return
	}

	x0, y0 := r.Min.X/c.TileWidth, r.Min.Y/c.TileHeight
	x1, y1 := (r.Max.X-1)/c.TileWidth, (r.Max.Y-1)/c.TileHeight
	for x := x0; x <= x1; x++ {
		for y := y0; y <= y1; y++ {
			if x >= 0 && y >= 0 && x < c.Width && y < c.Height {
				c.blocked[x][y] = true
			}
		}
	}
}

// IsBlocked treats cells outside the map as blocked.
func (c *CollisionLayer) IsBlocked(x, y int) bool {
	if x < 0 || y < 0 || x >= c.Width || y >= c.Height {
		return true
	}

	return c.blocked[x][y]
}

func (c *CollisionLayer) PixelToTile(px, py int) image.Point {
	return image.Pt(px/c.TileWidth, py/c.TileHeight)
}

// IsPointBlocked reports whether the pixel lies on a blocked cell.
func (c *CollisionLayer) IsPointBlocked(px, py int) bool {
	if px < 0 || py < 0 {
		return true
	}

	p := c.PixelToTile(px, py)
	return c.IsBlocked(p.X, p.Y)
}
