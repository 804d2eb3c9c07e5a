package propagator

import (
	"math/rand/v2"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestPade66AgreesWithGonumExp(t *testing.T) {
	rng := rand.New(rand.NewPCG(42, 7))
	const n = 6

	// build a random symmetric negative-definite matrix
	a := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			v := rng.Float64()*2 - 1
			a.Set(i, j, v)
			a.Set(j, i, v)
		}
	}
	var h mat.Dense
	h.Mul(a, a.T())
	h.Scale(-1, &h)

	got, err := Pade66(&h)
	if err != nil {
		t.Fatalf("Pade66: %v", err)
	}

	var want mat.Dense
	want.Exp(&h)

	var diff mat.Dense
	diff.Sub(got, &want)
	num := mat.Norm(&diff, 2)
	den := mat.Norm(&want, 2)
	if den == 0 {
		t.Fatal("reference exp norm is zero")
	}
	if num/den > 1e-8 {
		t.Fatalf("relative Frobenius error = %v, want < 1e-8", num/den)
	}
}

func TestPade66Identity(t *testing.T) {
	h := mat.NewDense(3, 3, nil)
	got, err := Pade66(h)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			want := 0.0
			if i == j {
				want = 1
			}
			if d := got.At(i, j) - want; d > 1e-12 || d < -1e-12 {
				t.Fatalf("exp(0)[%d][%d] = %v, want %v", i, j, got.At(i, j), want)
			}
		}
	}
}
