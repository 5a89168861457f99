package autotile

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/questx-lab/tileset/internal/domain/tileset"
)

type candidate struct {
	tileID int
	wangID tileset.WangID
	weight float64
}

// Resolver chooses wang tiles of one wang set for desired wang ids.
type Resolver struct {
	set        *tileset.WangSet
	candidates []candidate
}

func NewResolver(ts *tileset.Tileset, setName string) (*Resolver, error) {
	set, ok := ts.WangSet(setName)
	if !ok {
		return nil, fmt.Errorf("tileset %s has no wang set %q", ts.Name, setName)
	}

	if len(set.Tiles) == 0 {
		return nil, fmt.Errorf("wang set %q has no tiles", setName)
	}

	r := &Resolver{set: set}
	for _, wt := range set.Tiles {
		weight := ts.Probability(wt.TileID)
		for _, color := range wt.WangID {
			if c, ok := set.Color(color); ok {
				weight *= c.Probability
			}
		}

		r.candidates = append(r.candidates, candidate{
			tileID: wt.TileID,
			wangID: wt.WangID,
			weight: weight,
		})
	}

	return r, nil
}

func (r *Resolver) WangSet() *tileset.WangSet {
	return r.set
}

// Candidates returns the tiles matching every colored entry of want. Tiles whose
// unconstrained entries are also equal to want come first.
func (r *Resolver) Candidates(want tileset.WangID) []int {
	matched := r.match(want)
	ids := make([]int, 0, len(matched))
	for _, c := range matched {
		ids = append(ids, c.tileID)
	}

	return ids
}

func (r *Resolver) match(want tileset.WangID) []candidate {
	var out []candidate
	for _, c := range r.candidates {
		if c.wangID.Matches(want) {
			out = append(out, c)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return exactDistance(out[i].wangID, want) < exactDistance(out[j].wangID, want)
	})

	return out
}

// exactDistance counts every differing entry, unconstrained ones included.
func exactDistance(a, b tileset.WangID) int {
	n := 0
	for i := range a {
		if a[i] != b[i] {
			n++
		}
	}

	return n
}

// Pick chooses a tile for want, weighted by probability among the best matches.
// When nothing matches it returns the nearest tile and ok=false. A wildcard want
// yields Empty.
func (r *Resolver) Pick(want tileset.WangID, rng *rand.Rand) (int, bool) {
	if want.IsWildcard() {
		return Empty, true
	}

	matched := r.match(want)
	if len(matched) == 0 {
		return r.nearest(want), false
	}

	best := exactDistance(matched[0].wangID, want)
	top := matched[:1]
	for i := 1; i < len(matched) && exactDistance(matched[i].wangID, want) == best; i++ {
		top = matched[:i+1]
	}

	weights := make([]float64, len(top))
	for i, c := range top {
		weights[i] = c.weight
	}

	return top[weightedIndex(weights, rng)].tileID, true
}

func (r *Resolver) nearest(want tileset.WangID) int {
	best := r.candidates[0]
	for _, c := range r.candidates[1:] {
		cm, bm := c.wangID.Mismatches(want), best.wangID.Mismatches(want)
		if cm < bm || (cm == bm && exactDistance(c.wangID, want) < exactDistance(best.wangID, want)) {
			best = c
		}
	}

	return best.tileID
}

// Resolve picks a tile for every cell of t. The same seed gives the same layer.
func (r *Resolver) Resolve(t *Terrain, seed int64) (*Layer, error) {
	if t.MaxColor() > len(r.set.Colors) {
		return nil, fmt.Errorf("terrain uses color %d, wang set %q has %d",
			t.MaxColor(), r.set.Name, len(r.set.Colors))
	}

	rng := rand.New(rand.NewSource(seed))
	layer, err := NewLayer(t.Width(), t.Height())
	if err != nil {
		return nil, err
	}

	for y := 0; y < t.Height(); y++ {
		for x := 0; x < t.Width(); x++ {
			id, _ := r.Pick(t.Desired(x, y), rng)
			layer.Tiles[y*layer.Width+x] = id
		}
	}

	return layer, nil
}

// Inexact lists the cells of t that no wang tile matches exactly.
func (r *Resolver) Inexact(t *Terrain) []Cell {
	var cells []Cell
	for y := 0; y < t.Height(); y++ {
		for x := 0; x < t.Width(); x++ {
			want := t.Desired(x, y)
			if want.IsWildcard() || len(r.match(want)) > 0 {
				continue
			}

			cells = append(cells, Cell{X: x, Y: y, Tile: r.nearest(want)})
		}
	}

	return cells
}

// weightedIndex falls back to a uniform choice when all weights are zero.
func weightedIndex(weights []float64, rng *rand.Rand) int {
	total := 0.0
	for _, w := range weights {
		total += w
	}

	if total <= 0 {
		return rng.Intn(len(weights))
	}

	v := rng.Float64() * total
	for i, w := range weights {
		if v < w {
			return i
		}
		v -= w
	}

	return len(weights) - 1
}
