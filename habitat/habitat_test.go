package habitat

import (
	"math/rand/v2"
	"testing"
)

func square() *Habitat {
	return New([]Point{
		{X: 0, Y: 0},
		{X: 10, Y: 0},
		{X: 10, Y: 10},
		{X: 0, Y: 10},
	})
}

func TestContains(t *testing.T) {
	h := square()

	tests := []struct {
		p    Point
		want bool
	}{
		{Point{5, 5}, true},
		{Point{0.1, 0.1}, true},
		{Point{-1, 5}, false},
		{Point{5, 11}, false},
		{Point{15, 15}, false},
	}
	for _, tt := range tests {
		if got := h.Contains(tt.p); got != tt.want {
			t.Errorf("Contains(%v) = %v, want %v", tt.p, got, tt.want)
		}
	}
}

func TestArea(t *testing.T) {
	h := square()
	if a := h.Area(); a != 100 {
		t.Errorf("Area() = %v, want 100", a)
	}
}

func TestSampleInsideHabitat(t *testing.T) {
	h := square()
	rng := rand.New(rand.NewPCG(1, 2))
	for i := 0; i < 1000; i++ {
		p := h.Sample(rng)
		if !h.Contains(p) {
			t.Fatalf("Sample() = %v, not inside habitat", p)
		}
	}
}

func TestConcavePolygon(t *testing.T) {
	// an L-shaped habitat
	h := New([]Point{
		{0, 0}, {2, 0}, {2, 1}, {1, 1}, {1, 2}, {0, 2},
	})
	if !h.Contains(Point{0.5, 0.5}) {
		t.Errorf("expected (0.5,0.5) inside L-shape")
	}
	if h.Contains(Point{1.5, 1.5}) {
		t.Errorf("expected (1.5,1.5) outside L-shape (in the notch)")
	}
}
