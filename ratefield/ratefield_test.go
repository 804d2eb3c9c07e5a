package ratefield

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/ibdsurface/eems2/graph"
	"github.com/ibdsurface/eems2/habitat"
	"github.com/ibdsurface/eems2/tessellation"
)

func hab() *habitat.Habitat {
	return habitat.New([]habitat.Point{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10}})
}

func rngZero() *rand.Rand {
	return rand.New(rand.NewPCG(0, 0))
}

func flatFields(t *testing.T) (*graph.Graph, *tessellation.Tessellation, *tessellation.Tessellation) {
	demes := []graph.Deme{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 0}}
	g := graph.New(demes, [][2]int{{0, 1}, {1, 2}})

	q := tessellation.New(1, hab(), rngZero(), 1, 3)
	q.SetEffect(0, 0)
	q.Recolor(g)

	m := tessellation.New(1, hab(), rngZero(), 1, 3)
	m.SetEffect(0, 0)
	m.Recolor(g)

	return g, m, q
}

func TestUniformCoalescence(t *testing.T) {
	g, _, q := flatFields(t)
	w := Coalescence(g, q, -6)
	want := math.Exp(-6)
	for i, wi := range w {
		if math.Abs(wi-want) > 1e-12 {
			t.Fatalf("w[%d] = %v, want %v", i, wi, want)
		}
	}
}

func TestUniformMigration(t *testing.T) {
	g, m, _ := flatFields(t)
	rates := Migration(g, m, -2)
	want := math.Exp(-2)
	for u, row := range rates {
		for i, r := range row {
			if math.Abs(r-want) > 1e-12 {
				t.Fatalf("Migration[%d][%d] = %v, want %v", u, i, r, want)
			}
		}
	}
}
