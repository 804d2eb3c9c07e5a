// Copyright © 2026 The EEMS2-Go Authors
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package ratefield derives the coalescence-rate and migration-rate
// fields over a habitat graph from a pair of tessellations (spec.md
// §3, "Rate fields derived from a tessellation").
package ratefield

import (
	"math"

	"github.com/ibdsurface/eems2/graph"
	"github.com/ibdsurface/eems2/tessellation"
)

// Coalescence returns the per-deme coalescence rate
//
//	w[d] = exp(muQ + effectsQ[colorsQ[d]])
//
// for every deme in g, using the tile assignment already cached in q
// (Recolor must have been called on q for the current graph).
func Coalescence(g *graph.Graph, q *tessellation.Tessellation, muQ float64) []float64 {
	n := g.NumDemes()
	w := make([]float64, n)
	for d := 0; d < n; d++ {
		w[d] = math.Exp(muQ + q.Effect(q.Color(d)))
	}
	return w
}

// Migration returns the migration rate on every edge (u, v) of g as
//
//	m[u,v] = 0.5*(exp(muM+effectsM[colorsM[u]]) + exp(muM+effectsM[colorsM[v]]))
//
// represented as a slice indexed by deme, each entry a slice of rates aligned
// with graph.Neighbors(u); rate[i] is the migration rate on the edge
// to graph.Neighbors(u)[i]. Non-edges implicitly carry rate 0 and are
// never represented.
func Migration(g *graph.Graph, m *tessellation.Tessellation, muM float64) [][]float64 {
	n := g.NumDemes()
	rate := make([]float64, n)
	for d := 0; d < n; d++ {
		rate[d] = math.Exp(muM + m.Effect(m.Color(d)))
	}

	out := make([][]float64, n)
	for u := 0; u < n; u++ {
		nb := g.Neighbors(u)
		row := make([]float64, len(nb))
		for i, v := range nb {
			row[i] = 0.5 * (rate[u] + rate[v])
		}
		out[u] = row
	}
	return out
}
