// Copyright © 2026 The EEMS2-Go Authors
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package sharing composes the ctmc, propagator, and quadrature
// packages into the expected pairwise IBD-sharing matrix Λ (spec.md
// §2 data flow, §4.3). It is the one place in the core that knows how
// the coalescence-time density is approximated from propagator output
// via finite differences, and how the quadrature is applied to turn
// that density into an expected block count.
package sharing

import (
	"fmt"
	"math"

	"github.com/ibdsurface/eems2/ctmc"
	"github.com/ibdsurface/eems2/pairstate"
	"github.com/ibdsurface/eems2/propagator"
	"github.com/ibdsurface/eems2/quadrature"
	"gonum.org/v1/gonum/mat"
)

// NumericError reports a non-finite or negative Λ entry (spec.md §7).
// An unsupported quadrature order and propagator failures are returned
// as the quadrature and propagator packages' own errors.
type NumericError struct {
	I, J int
	Lam  float64
}

func (e *NumericError) Error() string {
	return fmt.Sprintf("sharing: Lambda[%d][%d] = %v is not finite and non-negative", e.I, e.J, e.Lam)
}

// Method selects the propagator implementation used to approximate
// exp(tQ)·e_N.
type Method int

const (
	// SIDJE is the recommended default: adaptive Krylov stepping
	// (spec.md §4.2 method (b)).
	SIDJE Method = iota
	// GlobalKrylov builds a single Krylov subspace reused across all
	// quadrature points (spec.md §4.2 method (a)).
	GlobalKrylov
)

// Config collects the numerical resource policy knobs of spec.md §5.
type Config struct {
	// KrylovDim is the Krylov subspace dimension m.
	KrylovDim int

	// QuadOrder is the Gauss-Laguerre order, 30 or 50.
	QuadOrder int

	// RecombRate is the per-bp recombination rate r.
	RecombRate float64

	// BlockLen is the IBD block-length cutoff L, in base pairs.
	BlockLen float64

	// GenomeSize is the genome size G (default 3e9).
	GenomeSize float64

	// Method selects the propagator algorithm.
	Method Method
}

// Expected computes the D×D expected pairwise IBD-sharing matrix Λ for
// the CTMC generator gen over d demes, per spec.md §4.3.
func Expected(gen *ctmc.Generator, d int, cfg Config) (*mat.SymDense, error) {
	rule, err := quadrature.New(cfg.QuadOrder)
	if err != nil {
		return nil, err
	}
	scaled := rule.Scale(cfg.RecombRate, cfg.BlockLen)

	var p *mat.Dense
	switch cfg.Method {
	case GlobalKrylov:
		p, err = propagator.GlobalKrylov(gen, cfg.KrylovDim, scaled.X)
	default:
		p, err = propagator.SIDJE(gen, cfg.KrylovDim, scaled.X)
	}
	if err != nil {
		return nil, err
	}

	nquad := scaled.Len()
	lambda := mat.NewSymDense(d, nil)
	f := make([]float64, nquad)
	for i := 0; i < d; i++ {
		for j := i; j < d; j++ {
			s := pairstate.Index(i, j, d)

			f[0] = 0
			for k := 1; k < nquad; k++ {
				dt := scaled.X[k] - scaled.X[k-1]
				f[k] = (p.At(s, k) - p.At(s, k-1)) / dt
			}

			lam := cfg.GenomeSize * scaled.Integrate(f)
			if math.IsNaN(lam) || math.IsInf(lam, 0) || lam < 0 {
				return nil, &NumericError{I: i, J: j, Lam: lam}
			}
			lambda.SetSym(i, j, lam)
		}
	}
	return lambda, nil
}
