package propagator

import (
	"math"
	"testing"

	"github.com/ibdsurface/eems2/ctmc"
	"github.com/ibdsurface/eems2/graph"
	"gonum.org/v1/gonum/mat"
)

// smallGenerator builds a 3-deme line graph CTMC generator for testing.
func smallGenerator(t *testing.T) *ctmc.Generator {
	demes := []graph.Deme{{}, {}, {}}
	g := graph.New(demes, [][2]int{{0, 1}, {1, 2}})
	w := []float64{1e-3, 1e-3, 1e-3}
	m := [][]float64{{0.1}, {0.1, 0.1}, {0.1}}
	gen, err := ctmc.Build(g, w, m)
	if err != nil {
		t.Fatal(err)
	}
	return gen
}

func TestKrylovVsFullMatrix(t *testing.T) {
	gen := smallGenerator(t)
	n := gen.NumStates()
	times := []float64{1e5, 5e5, 1e6, 5e6}

	full := explicitPropagate(t, gen, times)

	got, err := GlobalKrylov(gen, n, times)
	if err != nil {
		t.Fatalf("GlobalKrylov: %v", err)
	}

	var maxDiff float64
	for i := 0; i < n; i++ {
		for j := range times {
			d := math.Abs(got.At(i, j) - full.At(i, j))
			if d > maxDiff {
				maxDiff = d
			}
		}
	}
	if maxDiff > 1e-6 {
		t.Fatalf("max |Krylov - full| = %v, want < 1e-6", maxDiff)
	}
}

func TestSIDJEAgreesWithFullMatrix(t *testing.T) {
	gen := smallGenerator(t)
	n := gen.NumStates()
	times := []float64{1e5, 5e5, 1e6, 5e6}

	full := explicitPropagate(t, gen, times)

	got, err := SIDJE(gen, 6, times)
	if err != nil {
		t.Fatalf("SIDJE: %v", err)
	}

	var maxDiff float64
	for i := 0; i < n; i++ {
		for j := range times {
			d := math.Abs(got.At(i, j) - full.At(i, j))
			if d > maxDiff {
				maxDiff = d
			}
		}
	}
	if maxDiff > 1e-4 {
		t.Fatalf("max |SIDJE - full| = %v, want < 1e-4", maxDiff)
	}
}

// explicitPropagate computes exp(tQ)*e_N directly via dense Padé, used
// as a ground truth for small state spaces.
func explicitPropagate(t *testing.T, gen *ctmc.Generator, times []float64) *mat.Dense {
	t.Helper()
	q := gen.Dense()
	n := gen.NumStates()

	el := make([]float64, n)
	el[gen.Coalesced()] = 1
	e := mat.NewVecDense(n, el)

	out := mat.NewDense(n, len(times), nil)
	for k, tk := range times {
		var qt mat.Dense
		qt.Scale(tk, q)
		exp, err := Pade66(&qt)
		if err != nil {
			t.Fatalf("Pade66: %v", err)
		}
		var col mat.VecDense
		col.MulVec(exp, e)
		for i := 0; i < n; i++ {
			out.Set(i, k, col.AtVec(i))
		}
	}
	return out
}

func TestProbabilityColumnsAreFiniteAndNonNegative(t *testing.T) {
	gen := smallGenerator(t)
	times := []float64{1e4, 1e5, 1e6}
	got, err := SIDJE(gen, 6, times)
	if err != nil {
		t.Fatal(err)
	}
	r, c := got.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			v := got.At(i, j)
			if math.IsNaN(v) || math.IsInf(v, 0) {
				t.Fatalf("P[%d][%d] = %v, not finite", i, j, v)
			}
		}
	}
}
