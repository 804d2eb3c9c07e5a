// Copyright © 2026 The EEMS2-Go Authors
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package propagator

import (
	"math"

	"github.com/ibdsurface/eems2/ctmc"
	"gonum.org/v1/gonum/mat"
)

// Arnoldi builds an m-dimensional Krylov subspace of gen's generator
// rooted at the coalesced-state indicator e_N, returning the
// orthonormal basis V (N×m') and the upper Hessenberg projection H
// (m'×m'), where m' <= m is the actual dimension reached before a
// Lanczos breakdown (an exact invariant subspace), if any.
//
// This is method (a) of spec.md §4.2: a single global Krylov subspace,
// reused for every quadrature time point.
func Arnoldi(gen *ctmc.Generator, m int) (v *mat.Dense, h *mat.Dense, dim int) {
	n := gen.NumStates()
	if m > n {
		m = n
	}

	basis := make([][]float64, m)
	hess := mat.NewDense(m, m, nil)

	start := make([]float64, n)
	start[gen.Coalesced()] = 1
	basis[0] = start

	dim = m
	for k := 1; k < m; k++ {
		z := make([]float64, n)
		gen.MatVec(z, basis[k-1])
		for i := 0; i < k; i++ {
			d := dot(basis[i], z)
			hess.Set(i, k-1, d)
			axpy(z, -d, basis[i])
		}
		nrm := norm(z)
		hess.Set(k, k-1, nrm)
		if nrm == 0 {
			dim = k
			break
		}
		scale(z, 1/nrm)
		basis[k] = z
	}
	if dim == m {
		// last column of H: project Q*v_{m-1} onto the basis.
		z := make([]float64, n)
		gen.MatVec(z, basis[m-1])
		for i := 0; i < m; i++ {
			d := dot(basis[i], z)
			hess.Set(i, m-1, d)
			axpy(z, -d, basis[i])
		}
	}

	v = mat.NewDense(n, dim, nil)
	for k := 0; k < dim; k++ {
		for i := 0; i < n; i++ {
			v.Set(i, k, basis[k][i])
		}
	}
	if dim == m {
		h = hess
	} else {
		h = mat.NewDense(dim, dim, nil)
		h.Copy(hess.Slice(0, dim, 0, dim))
	}
	return v, h, dim
}

// GlobalKrylov approximates P(:,t_k) = exp(t_k Q)·e_N for each of the
// given time points using a single Arnoldi factorization of dimension
// m, per spec.md §4.2 method (a). times must be sorted ascending; the
// result columns are aligned with times (not required to be a
// cumulative grid, unlike SIDJE).
func GlobalKrylov(gen *ctmc.Generator, m int, times []float64) (*mat.Dense, error) {
	n := gen.NumStates()
	v, h, dim := Arnoldi(gen, m)

	p := mat.NewDense(n, len(times), nil)
	for k, t := range times {
		var ht mat.Dense
		ht.Scale(t, h)
		e, err := Pade66(&ht)
		if err != nil {
			return nil, err
		}

		// P(:,t_k) = V * E * V^T * e_N = V * E[:,0] since
		// V^T * e_N = e_1 (the start vector was e_N itself).
		col := make([]float64, dim)
		for i := 0; i < dim; i++ {
			col[i] = e.At(i, 0)
		}
		var out mat.VecDense
		out.MulVec(v, mat.NewVecDense(dim, col))
		for i := 0; i < n; i++ {
			p.Set(i, k, out.AtVec(i))
		}
	}
	return p, nil
}

func dot(a, b []float64) float64 {
	var s float64
	for i := range a {
		s += a[i] * b[i]
	}
	return s
}

func norm(a []float64) float64 {
	return math.Sqrt(dot(a, a))
}

func axpy(z []float64, alpha float64, x []float64) {
	for i := range z {
		z[i] += alpha * x[i]
	}
}

func scale(z []float64, alpha float64) {
	for i := range z {
		z[i] *= alpha
	}
}
