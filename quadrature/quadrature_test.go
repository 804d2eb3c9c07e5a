package quadrature

import (
	"math"
	"testing"
)

func TestLaguerre30IntegratesXETimesX(t *testing.T) {
	r, err := New(30)
	if err != nil {
		t.Fatal(err)
	}
	// The rule's weight function is x*e^-x, so integrating x*e^-x
	// means f(x) = 1 at every node.
	fx := make([]float64, r.Len())
	for i := range r.X {
		fx[i] = 1
	}
	got := r.Integrate(fx)
	if math.Abs(got-1.0) > 1e-12 {
		t.Fatalf("integral of x*e^-x = %v, want 1.0 within 1e-12", got)
	}
}

func TestLaguerre50IntegratesXETimesX(t *testing.T) {
	r, err := New(50)
	if err != nil {
		t.Fatal(err)
	}
	fx := make([]float64, r.Len())
	for i := range r.X {
		fx[i] = 1
	}
	got := r.Integrate(fx)
	if math.Abs(got-1.0) > 1e-9 {
		t.Fatalf("integral of x*e^-x = %v, want 1.0", got)
	}
}

func TestInvalidOrder(t *testing.T) {
	if _, err := New(10); err == nil {
		t.Fatal("expected error for unsupported quadrature order")
	}
}

func TestScalePreservesLength(t *testing.T) {
	r, _ := New(30)
	s := r.Scale(1e-8, 4e6)
	if s.Len() != r.Len() {
		t.Fatalf("Scale changed rule length")
	}
	for i := range s.X {
		if s.X[i] <= 0 {
			t.Fatalf("scaled abscissa %d not positive", i)
		}
	}
}
