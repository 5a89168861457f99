package autotile

import (
	"fmt"
	"math"

	"github.com/questx-lab/tileset/internal/domain/tileset"
)

// Terrain stores the wang color of every cell corner of a w*h map, so it is a
// (w+1)*(h+1) grid. Color 0 means no terrain.
type Terrain struct {
	width   int
	height  int
	corners []int
}

func NewTerrain(width, height int) (*Terrain, error) {
	if width <= 0 || height <= 0 || width == math.MaxInt || height == math.MaxInt {
		return nil, fmt.Errorf("invalid terrain size %dx%d", width, height)
	}

	n, err := cellCount(width+1, height+1)
	if err != nil {
		return nil, fmt.Errorf("invalid terrain: %w", err)
	}

	return &Terrain{
		width:   width,
		height:  height,
		corners: make([]int, n),
	}, nil
}

// NewTerrainFromCorners builds a terrain from rows of corner colors. All rows
// must have the same length and there must be at least two rows and columns.
func NewTerrainFromCorners(rows [][]int) (*Terrain, error) {
	if len(rows) < 2 || len(rows[0]) < 2 {
		return nil, fmt.Errorf("corner grid needs at least 2x2 entries")
	}

	t, err := NewTerrain(len(rows[0])-1, len(rows)-1)
	if err != nil {
		return nil, err
	}

	for y, row := range rows {
		if len(row) != t.width+1 {
			return nil, fmt.Errorf("corner row %d has %d entries, want %d", y, len(row), t.width+1)
		}

		for x, c := range row {
			if err := t.SetCorner(x, y, c); err != nil {
				return nil, err
			}
		}
	}

	return t, nil
}

func (t *Terrain) Width() int  { return t.width }
func (t *Terrain) Height() int { return t.height }

func (t *Terrain) inCorners(x, y int) bool {
	return x >= 0 && y >= 0 && x <= t.width && y <= t.height
}

func (t *Terrain) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < t.width && y < t.height
}

func (t *Terrain) SetCorner(x, y, color int) error {
	if !t.inCorners(x, y) {
		return fmt.Errorf("corner (%d,%d) is outside %dx%d", x, y, t.width+1, t.height+1)
	}

	if color < 0 {
		return fmt.Errorf("negative color %d", color)
	}

	t.corners[y*(t.width+1)+x] = color
	return nil
}

// Corner returns 0 outside the grid.
func (t *Terrain) Corner(x, y int) int {
	if !t.inCorners(x, y) {
		return 0
	}

	return t.corners[y*(t.width+1)+x]
}

func (t *Terrain) Fill(color int) {
	for i := range t.corners {
		t.corners[i] = color
	}
}

// MaxColor returns the highest color painted anywhere.
func (t *Terrain) MaxColor() int {
	m := 0
	for _, c := range t.corners {
		if c > m {
			m = c
		}
	}

	return m
}

// Desired returns the wang id cell (x,y) needs. An edge is colored only when both
// of its corners carry the same color, otherwise it is left unconstrained.
func (t *Terrain) Desired(x, y int) tileset.WangID {
	tl := t.Corner(x, y)
	tr := t.Corner(x+1, y)
	br := t.Corner(x+1, y+1)
	bl := t.Corner(x, y+1)

	var id tileset.WangID
	id[tileset.CornerTopLeft] = tl
	id[tileset.CornerTopRight] = tr
	id[tileset.CornerBottomRight] = br
	id[tileset.CornerBottomLeft] = bl
	id[tileset.EdgeTop] = edge(tl, tr)
	id[tileset.EdgeRight] = edge(tr, br)
	id[tileset.EdgeBottom] = edge(bl, br)
	id[tileset.EdgeLeft] = edge(tl, bl)
	return id
}

func edge(a, b int) int {
	if a == b {
		return a
	}

	return 0
}
