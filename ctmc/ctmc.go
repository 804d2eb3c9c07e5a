// Copyright © 2026 The EEMS2-Go Authors
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package ctmc assembles the generator matrix Q of the structured
// coalescent continuous-time Markov chain over the pair-state space
// (spec.md §4.1). The generator is stored as a sparse, row-major
// adjacency structure and exposes a mat-vec closure so the propagator
// package never needs to materialize the full N×N matrix; a dense
// materialization is also available for small habitats (used by the
// cross-check tests' explicit-matrix reference).
package ctmc

import (
	"fmt"

	"github.com/ibdsurface/eems2/graph"
	"github.com/ibdsurface/eems2/pairstate"
	"gonum.org/v1/gonum/mat"
)

// entry is a single off-diagonal nonzero of a Q row.
type entry struct {
	col  int
	rate float64
}

// A Generator is the sparse pair-state CTMC generator Q. It is
// immutable once built; a new Generator must be built whenever the
// migration or coalescence rate fields change (i.e. every accepted
// proposal).
type Generator struct {
	d int // number of demes
	n int // number of states (pairs + coalesced)

	rows []([]entry) // rows[s], s in [0, n-1); row n-1 (coalesced) is all zero
	diag []float64   // diag[s] = -sum of off-diagonal rates on row s
}

// NumStates returns the total number of states N.
func (g *Generator) NumStates() int {
	return g.n
}

// Coalesced returns the index of the absorbing state.
func (g *Generator) Coalesced() int {
	return g.n - 1
}

// Build assembles the generator for a graph of D demes given the
// per-deme coalescence rates w (len D) and the per-edge migration
// rates m, aligned with g.Neighbors (m[u][i] is the rate on the edge
// from u to g.Neighbors(u)[i]).
func Build(g *graph.Graph, w []float64, m [][]float64) (*Generator, error) {
	d := g.NumDemes()
	if len(w) != d {
		return nil, fmt.Errorf("ctmc: coalescence rate vector has length %d, want %d", len(w), d)
	}
	if len(m) != d {
		return nil, fmt.Errorf("ctmc: migration rate table has length %d, want %d", len(m), d)
	}

	n := pairstate.NumStates(d)
	gen := &Generator{
		d:    d,
		n:    n,
		rows: make([][]entry, n-1),
		diag: make([]float64, n-1),
	}

	for i := 0; i < d; i++ {
		for j := i; j < d; j++ {
			s := pairstate.Index(i, j, d)
			var sum float64
			var row []entry

			for idx, k := range g.Neighbors(i) {
				rate := m[i][idx]
				target := pairstate.Index(k, j, d)
				row = append(row, entry{col: target, rate: rate})
				sum += rate
			}
			for idx, k := range g.Neighbors(j) {
				rate := m[j][idx]
				target := pairstate.Index(i, k, d)
				row = append(row, entry{col: target, rate: rate})
				sum += rate
			}
			if i == j {
				row = append(row, entry{col: gen.Coalesced(), rate: w[i]})
				sum += w[i]
			}

			gen.rows[s] = row
			gen.diag[s] = -sum
		}
	}
	return gen, nil
}

// MatVec computes dst = Q*src. dst and src must both have length
// NumStates(); dst may not alias src.
func (g *Generator) MatVec(dst, src []float64) {
	for s, row := range g.rows {
		sum := g.diag[s] * src[s]
		for _, e := range row {
			sum += e.rate * src[e.col]
		}
		dst[s] = sum
	}
	dst[g.n-1] = 0
}

// Dense materializes Q as a dense N×N matrix. It is intended for small
// habitats only (test scenarios and the explicit-matrix propagator
// path); N grows as O(D²) so this is quadratic in memory.
func (g *Generator) Dense() *mat.Dense {
	q := mat.NewDense(g.n, g.n, nil)
	for s, row := range g.rows {
		q.Set(s, s, g.diag[s])
		for _, e := range row {
			q.Set(s, e.col, q.At(s, e.col)+e.rate)
		}
	}
	return q
}

// RowSumResidual returns the maximum absolute row sum of Q across all
// non-absorbing rows, which must be ~0 by construction (spec.md §8).
func (g *Generator) RowSumResidual() float64 {
	var maxAbs float64
	for s, row := range g.rows {
		sum := g.diag[s]
		for _, e := range row {
			sum += e.rate
		}
		if sum < 0 {
			sum = -sum
		}
		if sum > maxAbs {
			maxAbs = sum
		}
	}
	return maxAbs
}
