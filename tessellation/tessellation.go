// Copyright © 2026 The EEMS2-Go Authors
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package tessellation implements the Voronoi partition of a habitat
// into tiles, each carrying a signed log-scale rate perturbation. Two
// independent tessellations coexist in a chain state: one for
// migration effects and one for coalescence effects. A Tessellation is
// a small set of owned vectors (seeds, effects, a colors cache); it
// never holds back-pointers to the demes it colors.
package tessellation

import (
	"math"
	"math/rand/v2"

	"github.com/ibdsurface/eems2/graph"
	"github.com/ibdsurface/eems2/habitat"
)

// A Tessellation is a Voronoi partition of a habitat into tiles, each
// with a scalar log-rate effect.
type Tessellation struct {
	seeds   []habitat.Point
	effects []float64

	// colors[d] is the tile index nearest to deme d.
	// It is a pure function of seeds and the graph and is
	// recomputed by Recolor whenever seeds change.
	colors []int
}

// New creates a tessellation with T tiles, seeds drawn uniformly from
// the habitat, and effects drawn from a truncated Normal(0, sigma2)
// prior with the given bound. Colors are left empty; call Recolor
// before use.
func New(t int, hab *habitat.Habitat, rng *rand.Rand, sigma2, bound float64) *Tessellation {
	if t < 1 {
		panic("tessellation: at least one tile is required")
	}
	ts := &Tessellation{
		seeds:   make([]habitat.Point, t),
		effects: make([]float64, t),
	}
	for i := 0; i < t; i++ {
		ts.seeds[i] = hab.Sample(rng)
		ts.effects[i] = truncatedNormal(rng, sigma2, bound)
	}
	return ts
}

// truncatedNormal draws from Normal(0, sigma2) truncated to
// [-bound, bound] by rejection.
func truncatedNormal(rng *rand.Rand, sigma2, bound float64) float64 {
	sd := math.Sqrt(sigma2)
	for {
		v := rng.NormFloat64() * sd
		if v >= -bound && v <= bound {
			return v
		}
	}
}

// Tiles returns the number of tiles.
func (t *Tessellation) Tiles() int {
	return len(t.seeds)
}

// Seed returns the k-th tile seed.
func (t *Tessellation) Seed(k int) habitat.Point {
	return t.seeds[k]
}

// Effect returns the k-th tile's log-rate effect.
func (t *Tessellation) Effect(k int) float64 {
	return t.effects[k]
}

// Color returns the tile index that deme d belongs to. Recolor must
// have been called after the most recent seed change.
func (t *Tessellation) Color(d int) int {
	return t.colors[d]
}

// Colors returns the full deme-to-tile assignment. The returned slice
// must not be modified.
func (t *Tessellation) Colors() []int {
	return t.colors
}

// Clone returns a deep copy of the tessellation.
func (t *Tessellation) Clone() *Tessellation {
	c := &Tessellation{
		seeds:   append([]habitat.Point(nil), t.seeds...),
		effects: append([]float64(nil), t.effects...),
		colors:  append([]int(nil), t.colors...),
	}
	return c
}

// Recolor recomputes the colors cache: for each deme, the index of its
// nearest seed by Euclidean distance, ties broken by the smallest tile
// index.
func (t *Tessellation) Recolor(g *graph.Graph) {
	n := g.NumDemes()
	if cap(t.colors) < n {
		t.colors = make([]int, n)
	} else {
		t.colors = t.colors[:n]
	}
	for d := 0; d < n; d++ {
		deme := g.Deme(d)
		p := habitat.Point{X: deme.X, Y: deme.Y}
		best := 0
		bestDist := habitat.Dist2(p, t.seeds[0])
		for k := 1; k < len(t.seeds); k++ {
			dist := habitat.Dist2(p, t.seeds[k])
			if dist < bestDist {
				bestDist = dist
				best = k
			}
		}
		t.colors[d] = best
	}
}

// SetEffect overwrites the k-th tile's effect in place.
func (t *Tessellation) SetEffect(k int, v float64) {
	t.effects[k] = v
}

// MoveSeed overwrites the k-th tile's seed in place. The caller is
// responsible for calling Recolor afterward.
func (t *Tessellation) MoveSeed(k int, p habitat.Point) {
	t.seeds[k] = p
}

// AddTile appends a new tile with the given seed and effect. The
// caller is responsible for calling Recolor afterward.
func (t *Tessellation) AddTile(p habitat.Point, effect float64) {
	t.seeds = append(t.seeds, p)
	t.effects = append(t.effects, effect)
}

// RemoveTile deletes the k-th tile. The caller is responsible for
// calling Recolor afterward. It panics if only one tile remains.
func (t *Tessellation) RemoveTile(k int) {
	if len(t.seeds) <= 1 {
		panic("tessellation: cannot remove the last remaining tile")
	}
	t.seeds = append(t.seeds[:k], t.seeds[k+1:]...)
	t.effects = append(t.effects[:k], t.effects[k+1:]...)
}

// MaxAbsEffect returns the largest |effect| across all tiles.
func (t *Tessellation) MaxAbsEffect() float64 {
	var m float64
	for _, e := range t.effects {
		if e < 0 {
			e = -e
		}
		if e > m {
			m = e
		}
	}
	return m
}

// AllSeedsInside reports whether every tile seed lies inside hab.
func (t *Tessellation) AllSeedsInside(hab *habitat.Habitat) bool {
	for _, s := range t.seeds {
		if !hab.Contains(s) {
			return false
		}
	}
	return true
}
