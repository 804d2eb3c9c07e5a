// Copyright © 2026 The EEMS2-Go Authors
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package habitat defines the planar polygon domain over which the
// coalescence and migration rate surfaces are estimated. A Habitat is
// immutable after construction and supports point-in-polygon membership
// tests and uniform sampling of interior points.
package habitat

import "math/rand/v2"

// Point is a coordinate in the habitat plane.
type Point struct {
	X, Y float64
}

// A Habitat is a closed polygon in the plane.
type Habitat struct {
	// vertices of the closed polygon, in order.
	// The first and last vertex need not coincide;
	// the edge between them is implied.
	vertices []Point

	minX, maxX float64
	minY, maxY float64
}

// New builds a Habitat from an ordered list of polygon vertices. The
// polygon is treated as closed (the edge from the last vertex to the
// first is implied). At least three vertices are required.
func New(vertices []Point) *Habitat {
	if len(vertices) < 3 {
		panic("habitat: at least three vertices are required")
	}

	h := &Habitat{
		vertices: append([]Point(nil), vertices...),
	}
	h.minX, h.maxX = vertices[0].X, vertices[0].X
	h.minY, h.maxY = vertices[0].Y, vertices[0].Y
	for _, v := range vertices[1:] {
		if v.X < h.minX {
			h.minX = v.X
		}
		if v.X > h.maxX {
			h.maxX = v.X
		}
		if v.Y < h.minY {
			h.minY = v.Y
		}
		if v.Y > h.maxY {
			h.maxY = v.Y
		}
	}
	return h
}

// Vertices returns a copy of the polygon vertices.
func (h *Habitat) Vertices() []Point {
	return append([]Point(nil), h.vertices...)
}

// Bounds returns the axis-aligned bounding box of the habitat.
func (h *Habitat) Bounds() (minX, minY, maxX, maxY float64) {
	return h.minX, h.minY, h.maxX, h.maxY
}

// Contains reports whether p lies inside the habitat polygon, using
// the standard ray-casting algorithm. Points exactly on the boundary
// may be reported either way.
func (h *Habitat) Contains(p Point) bool {
	if p.X < h.minX || p.X > h.maxX || p.Y < h.minY || p.Y > h.maxY {
		return false
	}

	inside := false
	n := len(h.vertices)
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		vi, vj := h.vertices[i], h.vertices[j]
		if (vi.Y > p.Y) == (vj.Y > p.Y) {
			continue
		}
		xIntersect := (vj.X-vi.X)*(p.Y-vi.Y)/(vj.Y-vi.Y) + vi.X
		if p.X < xIntersect {
			inside = !inside
		}
	}
	return inside
}

// Sample draws a point uniformly distributed over the habitat interior
// using rejection sampling against the bounding box. rng must be
// non-nil.
func (h *Habitat) Sample(rng *rand.Rand) Point {
	for {
		p := Point{
			X: h.minX + rng.Float64()*(h.maxX-h.minX),
			Y: h.minY + rng.Float64()*(h.maxY-h.minY),
		}
		if h.Contains(p) {
			return p
		}
	}
}

// Area returns the (unsigned) area of the habitat polygon via the
// shoelace formula.
func (h *Habitat) Area() float64 {
	var sum float64
	n := len(h.vertices)
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		sum += h.vertices[j].X*h.vertices[i].Y - h.vertices[i].X*h.vertices[j].Y
	}
	if sum < 0 {
		sum = -sum
	}
	return sum / 2
}

// Dist2 returns the squared Euclidean distance between two points.
func Dist2(a, b Point) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return dx*dx + dy*dy
}
