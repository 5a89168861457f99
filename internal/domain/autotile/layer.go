package autotile

import (
	"fmt"
	"math"
)

// Empty marks a cell without a tile.
const Empty = -1

// Layer is a row-major grid of local tile ids.
type Layer struct {
	Width  int   `json:"width"`
	Height int   `json:"height"`
	Tiles  []int `json:"tiles"`
}

// MaxCells bounds the number of cells of any layer or corner grid.
const MaxCells = 1 << 24

// cellCount returns width*height, or an error when the size is not positive
// or exceeds MaxCells.
func cellCount(width, height int) (int, error) {
	if width <= 0 || height <= 0 {
		return 0, fmt.Errorf("invalid size %dx%d", width, height)
	}

	if width > math.MaxInt/height || width*height > MaxCells {
		return 0, fmt.Errorf("size %dx%d exceeds %d cells", width, height, MaxCells)
	}

	return width * height, nil
}

func NewLayer(width, height int) (*Layer, error) {
	n, err := cellCount(width, height)
	if err != nil {
		return nil, err
	}

	tiles := make([]int, n)
	for i := range tiles {
		tiles[i] = Empty
	}

	return &Layer{Width: width, Height: height, Tiles: tiles}, nil
}

func (l *Layer) Get(x, y int) (int, bool) {
	if x < 0 || y < 0 || x >= l.Width || y >= l.Height {
		return Empty, false
	}

	return l.Tiles[y*l.Width+x], true
}

func (l *Layer) Set(x, y, id int) error {
	if x < 0 || y < 0 || x >= l.Width || y >= l.Height {
		return fmt.Errorf("cell (%d,%d) is outside %dx%d", x, y, l.Width, l.Height)
	}

	l.Tiles[y*l.Width+x] = id
	return nil
}

// Rows returns the layer as a slice of rows.
func (l *Layer) Rows() [][]int {
	rows := make([][]int, l.Height)
	for y := range rows {
		rows[y] = l.Tiles[y*l.Width : (y+1)*l.Width]
	}

	return rows
}

// Cell is one resolved position. Exact is false when no wang tile matched and
// the nearest one was used.
type Cell struct {
	X     int  `json:"x"`
	Y     int  `json:"y"`
	Tile  int  `json:"tile"`
	Exact bool `json:"exact"`
}
