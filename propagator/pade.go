// Copyright © 2026 The EEMS2-Go Authors
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package propagator

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// padeOrder is the fixed degree p of the (p,p) Padé approximant
// (spec.md §4.2).
const padeOrder = 6

// padeCoeffs returns the Padé(6,6) coefficients c_0..c_6 for exp,
// c_0 = 1, c_k = c_{k-1}*(p+1-k)/(k*(2p+1-k)).
func padeCoeffs() [padeOrder + 1]float64 {
	var c [padeOrder + 1]float64
	c[0] = 1
	p := float64(padeOrder)
	for k := 1; k <= padeOrder; k++ {
		kf := float64(k)
		c[k] = c[k-1] * (p + 1 - kf) / (kf * (2*p + 1 - kf))
	}
	return c
}

// infNorm returns the induced infinity norm of a: the largest absolute
// row sum.
func infNorm(a *mat.Dense) float64 {
	r, c := a.Dims()
	var max float64
	for i := 0; i < r; i++ {
		var sum float64
		for j := 0; j < c; j++ {
			v := a.At(i, j)
			if v < 0 {
				v = -v
			}
			sum += v
		}
		if sum > max {
			max = sum
		}
	}
	return max
}

func identity(n int) *mat.Dense {
	m := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		m.Set(i, i, 1)
	}
	return m
}

func scaledIdentity(n int, v float64) *mat.Dense {
	m := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		m.Set(i, i, v)
	}
	return m
}

// Pade66 computes exp(h) via scaled-and-squared Padé(6,6)
// approximation (spec.md §4.2, transcribed from the padm routine of
// expokit). h must be square; it is not modified.
func Pade66(h *mat.Dense) (*mat.Dense, error) {
	n, cols := h.Dims()
	if n != cols {
		panic("propagator: Pade66 requires a square matrix")
	}

	hs := mat.DenseCopyOf(h)
	norm := infNorm(hs)
	s := 0.0
	if norm > 0.5 {
		s = math.Max(0, math.Floor(math.Log2(norm))+2)
		hs.Scale(math.Pow(2, -s), hs)
	}

	c := padeCoeffs()
	id := identity(n)

	var h2 mat.Dense
	h2.Mul(hs, hs)

	q := scaledIdentity(n, c[padeOrder])
	p := scaledIdentity(n, c[padeOrder-1])

	odd := true
	for k := padeOrder - 1; k > 0; k-- {
		if odd {
			var tmp mat.Dense
			tmp.Mul(q, &h2)
			tmp.Add(&tmp, scaledIdentity(n, c[k-1]))
			q = &tmp
		} else {
			var tmp mat.Dense
			tmp.Mul(p, &h2)
			tmp.Add(&tmp, scaledIdentity(n, c[k-1]))
			p = &tmp
		}
		odd = !odd
	}

	var e mat.Dense
	if odd {
		var qh mat.Dense
		qh.Mul(q, hs)
		var qMinusP mat.Dense
		qMinusP.Sub(&qh, p)

		var x mat.Dense
		if err := x.Solve(&qMinusP, p); err != nil {
			return nil, &NumericError{Op: "Pade66 LU solve", Err: err}
		}
		var twoX mat.Dense
		twoX.Scale(2, &x)
		var sum mat.Dense
		sum.Add(id, &twoX)
		e.Scale(-1, &sum)
	} else {
		var ph mat.Dense
		ph.Mul(p, hs)
		var qMinusP mat.Dense
		qMinusP.Sub(q, &ph)

		var x mat.Dense
		if err := x.Solve(&qMinusP, &ph); err != nil {
			return nil, &NumericError{Op: "Pade66 LU solve", Err: err}
		}
		var twoX mat.Dense
		twoX.Scale(2, &x)
		e.Add(id, &twoX)
	}

	for k := 0; k < int(s); k++ {
		var sq mat.Dense
		sq.Mul(&e, &e)
		e = sq
	}
	return &e, nil
}
