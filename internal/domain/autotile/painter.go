package autotile

import (
	"fmt"
	"math/rand"
	"sync"
)

// Painter keeps a terrain and its resolved layer in sync while corners are
// painted one at a time.
type Painter struct {
	mu       sync.Mutex
	resolver *Resolver
	terrain  *Terrain
	layer    *Layer
	rng      *rand.Rand
}

func NewPainter(r *Resolver, t *Terrain, seed int64) (*Painter, error) {
	layer, err := r.Resolve(t, seed)
	if err != nil {
		return nil, err
	}

	return &Painter{
		resolver: r,
		terrain:  t,
		layer:    layer,
		rng:      rand.New(rand.NewSource(seed)),
	}, nil
}

// Paint sets one corner and re-resolves the cells around it. It returns the cells
// whose tile changed.
func (p *Painter) Paint(x, y, color int) ([]Cell, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if color > len(p.resolver.set.Colors) {
		return nil, fmt.Errorf("color %d is outside [0, %d]", color, len(p.resolver.set.Colors))
	}

	if p.terrain.inCorners(x, y) && p.terrain.Corner(x, y) == color {
		return nil, nil
	}

	if err := p.terrain.SetCorner(x, y, color); err != nil {
		return nil, err
	}

	var changed []Cell
	for _, pos := range [][2]int{{x - 1, y - 1}, {x, y - 1}, {x - 1, y}, {x, y}} {
		cx, cy := pos[0], pos[1]
		if !p.terrain.InBounds(cx, cy) {
			continue
		}

		id, exact := p.resolver.Pick(p.terrain.Desired(cx, cy), p.rng)
		old, _ := p.layer.Get(cx, cy)
		if old == id {
			continue
		}

		p.layer.Tiles[cy*p.layer.Width+cx] = id
		changed = append(changed, Cell{X: cx, Y: cy, Tile: id, Exact: exact})
	}

	return changed, nil
}

// Layer returns a copy of the current layer.
func (p *Painter) Layer() *Layer {
	p.mu.Lock()
	defer p.mu.Unlock()

	tiles := make([]int, len(p.layer.Tiles))
	copy(tiles, p.layer.Tiles)
	return &Layer{Width: p.layer.Width, Height: p.layer.Height, Tiles: tiles}
}
