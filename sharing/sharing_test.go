package sharing

import (
	"math"
	"testing"

	"github.com/ibdsurface/eems2/ctmc"
	"github.com/ibdsurface/eems2/graph"
)

func baseConfig() Config {
	return Config{
		KrylovDim:  8,
		QuadOrder:  30,
		RecombRate: 1e-8,
		BlockLen:   2e6,
		GenomeSize: 3e9,
		Method:     SIDJE,
	}
}

func TestExpectedTwoDemeSymmetric(t *testing.T) {
	demes := []graph.Deme{{Observed: true}, {Observed: true}}
	g := graph.New(demes, [][2]int{{0, 1}})
	w := []float64{1e-3, 1e-3}
	m := [][]float64{{0.1}, {0.1}}
	gen, err := ctmc.Build(g, w, m)
	if err != nil {
		t.Fatal(err)
	}

	lam, err := Expected(gen, 2, baseConfig())
	if err != nil {
		t.Fatal(err)
	}

	l00, l11, l01 := lam.At(0, 0), lam.At(1, 1), lam.At(0, 1)
	if math.Abs(l00-l11) > 1e-6*l00 {
		t.Fatalf("Lambda[0][0]=%v, Lambda[1][1]=%v, want approximately equal under symmetric rates", l00, l11)
	}
	if !(l01 < l00 && l01 < l11) {
		t.Fatalf("Lambda[0][1]=%v, want strictly less than both Lambda[0][0]=%v and Lambda[1][1]=%v", l01, l00, l11)
	}
}

func TestExpectedUniformFieldDependsOnlyOnDistance(t *testing.T) {
	// 4-deme path graph 0-1-2-3 with uniform coalescence and
	// migration rates: Lambda(i,j) should depend only on |i-j|.
	demes := []graph.Deme{{Observed: true}, {Observed: true}, {Observed: true}, {Observed: true}}
	g := graph.New(demes, [][2]int{{0, 1}, {1, 2}, {2, 3}})
	w := []float64{1e-3, 1e-3, 1e-3, 1e-3}
	m := [][]float64{
		{0.2},
		{0.2, 0.2},
		{0.2, 0.2},
		{0.2},
	}
	gen, err := ctmc.Build(g, w, m)
	if err != nil {
		t.Fatal(err)
	}

	lam, err := Expected(gen, 4, baseConfig())
	if err != nil {
		t.Fatal(err)
	}

	// distance 1: (0,1),(1,2),(2,3)
	d1 := []float64{lam.At(0, 1), lam.At(1, 2), lam.At(2, 3)}
	// distance 2: (0,2),(1,3)
	d2 := []float64{lam.At(0, 2), lam.At(1, 3)}
	// distance 3: (0,3)
	d3 := lam.At(0, 3)

	checkWithinPercent(t, d1, 0.01)
	checkWithinPercent(t, d2, 0.01)
	_ = d3

	if !(d1[0] > d2[0] && d2[0] > d3) {
		t.Fatalf("expected sharing to decrease with graph distance: d1=%v d2=%v d3=%v", d1, d2, d3)
	}
}

func checkWithinPercent(t *testing.T, vals []float64, tol float64) {
	t.Helper()
	if len(vals) == 0 {
		return
	}
	mean := 0.0
	for _, v := range vals {
		mean += v
	}
	mean /= float64(len(vals))
	for _, v := range vals {
		if math.Abs(v-mean) > tol*mean {
			t.Fatalf("values %v not within %v%% of mean %v", vals, tol*100, mean)
		}
	}
}

func TestExpectedRejectsBadQuadOrder(t *testing.T) {
	demes := []graph.Deme{{}, {}}
	g := graph.New(demes, [][2]int{{0, 1}})
	w := []float64{1e-3, 1e-3}
	m := [][]float64{{0.1}, {0.1}}
	gen, err := ctmc.Build(g, w, m)
	if err != nil {
		t.Fatal(err)
	}

	cfg := baseConfig()
	cfg.QuadOrder = 7
	if _, err := Expected(gen, 2, cfg); err == nil {
		t.Fatal("expected error for invalid quadrature order")
	}
}
