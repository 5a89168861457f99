package autotile

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/questx-lab/tileset/internal/domain/tileset"
)

// Picker draws tiles at random, weighted by their tileset probability.
type Picker struct {
	ids     []int
	weights []float64
}

func NewPicker(ts *tileset.Tileset, ids []int) (*Picker, error) {
	if len(ids) == 0 {
		return nil, errors.New("picker needs at least one tile")
	}

	p := &Picker{}
	total := 0.0
	for _, id := range ids {
		if !ts.HasTile(id) {
			return nil, fmt.Errorf("tile %d is outside [0, %d]", id, ts.TileCount-1)
		}

		w := ts.Probability(id)
		if w <= 0 {
			continue
		}

		p.ids = append(p.ids, id)
		p.weights = append(p.weights, w)
		total += w
	}

	if total <= 0 {
		return nil, errors.New("every tile has zero probability")
	}

	return p, nil
}

// NewWangSetPicker picks among the tiles whose wang id is fully painted with a
// single color, the interior variants of that terrain.
func NewWangSetPicker(ts *tileset.Tileset, setName string, color int) (*Picker, error) {
	set, ok := ts.WangSet(setName)
	if !ok {
		return nil, fmt.Errorf("tileset %s has no wang set %q", ts.Name, setName)
	}

	full := tileset.WangID{color, color, color, color, color, color, color, color}
	var ids []int
	for _, wt := range set.Tiles {
		if wt.WangID == full {
			ids = append(ids, wt.TileID)
		}
	}

	return NewPicker(ts, ids)
}

func (p *Picker) Pick(rng *rand.Rand) int {
	return p.ids[weightedIndex(p.weights, rng)]
}

// Fill builds a width*height layer of picked tiles.
func (p *Picker) Fill(width, height int, seed int64) (*Layer, error) {
	layer, err := NewLayer(width, height)
	if err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewSource(seed))
	for i := range layer.Tiles {
		layer.Tiles[i] = p.Pick(rng)
	}

	return layer, nil
}
