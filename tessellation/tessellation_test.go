package tessellation

import (
	"math/rand/v2"
	"testing"

	"github.com/ibdsurface/eems2/graph"
	"github.com/ibdsurface/eems2/habitat"
)

func testHabitat() *habitat.Habitat {
	return habitat.New([]habitat.Point{
		{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10},
	})
}

func testGraph() *graph.Graph {
	demes := make([]graph.Deme, 0, 25)
	var edges [][2]int
	for y := 0; y < 5; y++ {
		for x := 0; x < 5; x++ {
			demes = append(demes, graph.Deme{X: float64(x) * 2, Y: float64(y) * 2})
			id := y*5 + x
			if x > 0 {
				edges = append(edges, [2]int{id, id - 1})
			}
			if y > 0 {
				edges = append(edges, [2]int{id, id - 5})
			}
		}
	}
	return graph.New(demes, edges)
}

func TestRecolorMatchesNearestSeed(t *testing.T) {
	hab := testHabitat()
	g := testGraph()
	rng := rand.New(rand.NewPCG(7, 11))
	ts := New(4, hab, rng, 1, 3)
	ts.Recolor(g)

	for d := 0; d < g.NumDemes(); d++ {
		deme := g.Deme(d)
		p := habitat.Point{X: deme.X, Y: deme.Y}
		want := 0
		wantDist := habitat.Dist2(p, ts.Seed(0))
		for k := 1; k < ts.Tiles(); k++ {
			dist := habitat.Dist2(p, ts.Seed(k))
			if dist < wantDist {
				wantDist = dist
				want = k
			}
		}
		if got := ts.Color(d); got != want {
			t.Fatalf("deme %d: Color() = %d, want %d (nearest seed by brute force)", d, got, want)
		}
	}
}

func TestCloneIsIndependent(t *testing.T) {
	hab := testHabitat()
	g := testGraph()
	rng := rand.New(rand.NewPCG(1, 2))
	ts := New(3, hab, rng, 1, 3)
	ts.Recolor(g)

	clone := ts.Clone()
	clone.SetEffect(0, 99)
	clone.MoveSeed(0, habitat.Point{X: 1, Y: 1})

	if ts.Effect(0) == 99 {
		t.Errorf("mutating clone affected original effect")
	}
	if ts.Seed(0) == (habitat.Point{X: 1, Y: 1}) {
		t.Errorf("mutating clone affected original seed")
	}
}

func TestAddRemoveTile(t *testing.T) {
	hab := testHabitat()
	g := testGraph()
	rng := rand.New(rand.NewPCG(3, 4))
	ts := New(2, hab, rng, 1, 3)

	ts.AddTile(habitat.Point{X: 5, Y: 5}, 0.5)
	if ts.Tiles() != 3 {
		t.Fatalf("Tiles() = %d after AddTile, want 3", ts.Tiles())
	}
	ts.Recolor(g)

	ts.RemoveTile(1)
	if ts.Tiles() != 2 {
		t.Fatalf("Tiles() = %d after RemoveTile, want 2", ts.Tiles())
	}
}

func TestRemoveLastTilePanics(t *testing.T) {
	hab := testHabitat()
	rng := rand.New(rand.NewPCG(5, 6))
	ts := New(1, hab, rng, 1, 3)

	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic when removing the last tile")
		}
	}()
	ts.RemoveTile(0)
}

func TestMaxAbsEffect(t *testing.T) {
	hab := testHabitat()
	rng := rand.New(rand.NewPCG(9, 10))
	ts := New(3, hab, rng, 1, 3)
	ts.SetEffect(0, -2.5)
	ts.SetEffect(1, 1.0)
	ts.SetEffect(2, 0.1)
	if got := ts.MaxAbsEffect(); got != 2.5 {
		t.Fatalf("MaxAbsEffect() = %v, want 2.5", got)
	}
}
