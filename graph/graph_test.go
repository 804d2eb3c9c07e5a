package graph

import "testing"

func line3() *Graph {
	demes := []Deme{
		{X: 0, Y: 0, Observed: true},
		{X: 1, Y: 0},
		{X: 2, Y: 0, Observed: true},
	}
	return New(demes, [][2]int{{0, 1}, {1, 2}})
}

func TestNeighbors(t *testing.T) {
	g := line3()
	if got := g.Neighbors(1); len(got) != 2 {
		t.Fatalf("deme 1 should have 2 neighbors, got %v", got)
	}
	if got := g.Neighbors(0); len(got) != 1 || got[0] != 1 {
		t.Fatalf("deme 0 neighbors = %v, want [1]", got)
	}
}

func TestObserved(t *testing.T) {
	g := line3()
	if got := g.Observed(); len(got) != 2 || got[0] != 0 || got[1] != 2 {
		t.Fatalf("Observed() = %v, want [0 2]", got)
	}
	if g.NumObserved() != 2 {
		t.Fatalf("NumObserved() = %d, want 2", g.NumObserved())
	}
}

func TestConnected(t *testing.T) {
	if !line3().Connected() {
		t.Errorf("line3 should be connected")
	}

	disc := New([]Deme{{}, {}, {}}, nil)
	if disc.Connected() {
		t.Errorf("graph with no edges over 3 demes should not be connected")
	}
}

func TestNumEdges(t *testing.T) {
	g := line3()
	if g.NumEdges() != 2 {
		t.Fatalf("NumEdges() = %d, want 2", g.NumEdges())
	}
}

func TestDuplicateEdgeIgnored(t *testing.T) {
	g := New([]Deme{{}, {}}, [][2]int{{0, 1}, {1, 0}})
	if g.NumEdges() != 1 {
		t.Fatalf("NumEdges() = %d, want 1 (duplicate reversed edge)", g.NumEdges())
	}
}
