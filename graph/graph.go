// Copyright © 2026 The EEMS2-Go Authors
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package graph implements the triangulated deme graph over which the
// migration surface is estimated: a set of demes with 2-D coordinates
// and an undirected edge list, a subset of which carry samples
// ("observed" demes). A Graph is immutable after construction; it is
// built externally (from a precomputed triangulation, see the eemsio
// package) and consumed by the ctmc and tessellation packages.
package graph

import "fmt"

// Deme is a single vertex of the habitat graph.
type Deme struct {
	X, Y float64

	// Observed reports whether this deme carries samples.
	Observed bool
}

// A Graph is a connected planar triangulation of a habitat: demes with
// coordinates, plus an undirected adjacency list.
type Graph struct {
	demes     []Deme
	neighbors [][]int

	// observed holds the deme indices that carry samples,
	// in ascending order.
	observed []int
}

// New builds a Graph from a list of demes and an edge list of
// (deme, deme) pairs. Edges are treated as undirected; duplicates and
// self-loops are ignored. It panics if an edge references a deme index
// out of range.
func New(demes []Deme, edges [][2]int) *Graph {
	g := &Graph{
		demes:     append([]Deme(nil), demes...),
		neighbors: make([][]int, len(demes)),
	}

	seen := make(map[[2]int]bool, len(edges))
	for _, e := range edges {
		u, v := e[0], e[1]
		if u < 0 || u >= len(demes) || v < 0 || v >= len(demes) {
			panic(fmt.Sprintf("graph: edge (%d,%d) references a deme out of range [0,%d)", u, v, len(demes)))
		}
		if u == v {
			continue
		}
		key := [2]int{u, v}
		if u > v {
			key = [2]int{v, u}
		}
		if seen[key] {
			continue
		}
		seen[key] = true
		g.neighbors[u] = append(g.neighbors[u], v)
		g.neighbors[v] = append(g.neighbors[v], u)
	}

	for i, d := range g.demes {
		if d.Observed {
			g.observed = append(g.observed, i)
		}
	}
	return g
}

// NumDemes returns the number of demes (vertices) in the graph.
func (g *Graph) NumDemes() int {
	return len(g.demes)
}

// Deme returns the d-th deme.
func (g *Graph) Deme(d int) Deme {
	return g.demes[d]
}

// Neighbors returns the neighbors of deme d, in the order they were
// added to the graph. The returned slice must not be modified.
func (g *Graph) Neighbors(d int) []int {
	return g.neighbors[d]
}

// Degree returns the number of neighbors of deme d.
func (g *Graph) Degree(d int) int {
	return len(g.neighbors[d])
}

// Observed returns the indices of the observed demes, in ascending
// order. The returned slice must not be modified.
func (g *Graph) Observed() []int {
	return g.observed
}

// NumObserved returns the number of observed demes.
func (g *Graph) NumObserved() int {
	return len(g.observed)
}

// NumEdges returns the number of undirected edges in the graph.
func (g *Graph) NumEdges() int {
	var n int
	for _, ns := range g.neighbors {
		n += len(ns)
	}
	return n / 2
}

// Connected reports whether the graph is connected, using a breadth
// first search from deme 0. A disconnected graph violates the core's
// assumption of a connected planar triangulation (spec.md §1 Non-goals)
// and callers should treat a false result as a fatal configuration
// error.
func (g *Graph) Connected() bool {
	if len(g.demes) == 0 {
		return true
	}
	visited := make([]bool, len(g.demes))
	queue := []int{0}
	visited[0] = true
	count := 1
	for len(queue) > 0 {
		d := queue[0]
		queue = queue[1:]
		for _, n := range g.neighbors[d] {
			if !visited[n] {
				visited[n] = true
				count++
				queue = append(queue, n)
			}
		}
	}
	return count == len(g.demes)
}
