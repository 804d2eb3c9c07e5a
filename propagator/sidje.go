// Copyright © 2026 The EEMS2-Go Authors
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package propagator

import (
	"github.com/ibdsurface/eems2/ctmc"
	"gonum.org/v1/gonum/mat"
)

// btol is the Lanczos breakdown tolerance used by SIDJE stepping
// (spec.md §4.2 method (b)).
const btol = 1e-5

// SIDJE approximates P(:,t_k) = exp(t_k Q)·e_N for an ascending time
// grid using adaptive Krylov stepping (spec.md §4.2 method (b)): the
// chain walks the grid in order, rebuilding a fresh m-dimensional
// Krylov basis at each step from the current probability vector. This
// is the recommended production method.
func SIDJE(gen *ctmc.Generator, m int, times []float64) (*mat.Dense, error) {
	n := gen.NumStates()
	p := mat.NewDense(n, len(times), nil)

	w := make([]float64, n)
	w[gen.Coalesced()] = 1
	beta := norm(w)

	tnow := 0.0
	for step, t := range times {
		tstep := t - tnow

		v := make([][]float64, m+1)
		for i := range v {
			v[i] = make([]float64, n)
		}
		h := mat.NewDense(m+2, m+2, nil)
		for i := range w {
			v[0][i] = w[i] / beta
		}

		k1 := 2
		mb := m
		broke := false
		for j := 0; j < m; j++ {
			z := make([]float64, n)
			gen.MatVec(z, v[j])
			for i := 0; i <= j; i++ {
				d := dot(v[i], z)
				h.Set(i, j, d)
				axpy(z, -d, v[i])
			}
			s := norm(z)
			if s < btol*beta {
				if j < 1 {
					return nil, &NumericError{Op: "SIDJE Lanczos breakdown before j>1"}
				}
				// v[0..j] span an invariant subspace: step exactly
				// within it.
				k1 = 0
				mb = j + 1
				broke = true
				break
			}
			h.Set(j+1, j, s)
			scale(z, 1/s)
			v[j+1] = z
		}
		if !broke {
			h.Set(m+1, m, 1)
		}

		mx := mb + k1
		hsub := mat.NewDense(mx, mx, nil)
		hsub.Copy(h.Slice(0, mx, 0, mx))
		hsub.Scale(tstep, hsub)

		f, err := Pade66(hsub)
		if err != nil {
			return nil, err
		}

		mx2 := mb
		if k1-1 > 0 {
			mx2 = mb + k1 - 1
		}
		newW := make([]float64, n)
		for k := 0; k < mx2; k++ {
			coef := beta * f.At(k, 0)
			axpy(newW, coef, v[k])
		}
		w = newW
		beta = norm(w)

		for i := 0; i < n; i++ {
			p.Set(i, step, w[i])
		}
		tnow = t
	}
	return p, nil
}
