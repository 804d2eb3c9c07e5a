package likelihood

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestPoissonLogLikeMatchesManualSum(t *testing.T) {
	lambda := mat.NewSymDense(2, []float64{2, 0.5, 0.5, 3})
	counts := mat.NewSymDense(2, []float64{10, 10, 10, 10})
	observed := mat.NewSymDense(2, []float64{5, 2, 2, 8})

	got, err := PoissonLogLike(lambda, []int{0, 1}, counts, observed)
	if err != nil {
		t.Fatal(err)
	}

	want := 5*math.Log(2) - 10*2 +
		2*math.Log(0.5) - 10*0.5 +
		8*math.Log(3) - 10*3
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("PoissonLogLike() = %v, want %v", got, want)
	}
}

func TestPoissonLogLikeRejectsNonPositiveLambda(t *testing.T) {
	lambda := mat.NewSymDense(1, []float64{-1})
	counts := mat.NewSymDense(1, []float64{1})
	observed := mat.NewSymDense(1, []float64{1})

	if _, err := PoissonLogLike(lambda, []int{0}, counts, observed); err == nil {
		t.Fatal("expected NumericError for negative lambda")
	}
}

func TestPoissonLogLikeSubsetsFullMatrix(t *testing.T) {
	// full 3-deme lambda, but only demes 0 and 2 are observed.
	full := mat.NewSymDense(3, []float64{
		1, 9, 2,
		9, 9, 9,
		2, 9, 4,
	})
	counts := mat.NewSymDense(2, []float64{1, 1, 1, 1})
	observed := mat.NewSymDense(2, []float64{1, 1, 1, 1})

	got, err := PoissonLogLike(full, []int{0, 2}, counts, observed)
	if err != nil {
		t.Fatal(err)
	}
	want := math.Log(1) - 1 + math.Log(2) - 2 + math.Log(4) - 4
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("PoissonLogLike() = %v, want %v (should ignore deme 1)", got, want)
	}
}
