// Copyright © 2026 The EEMS2-Go Authors
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package likelihood implements the Poisson log-likelihood of observed
// IBD block-sharing counts given the expected pairwise sharing matrix
// Λ produced by the sharing package (spec.md §4.4).
package likelihood

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// NumericError reports a non-finite or non-positive Λ entry that would
// make the log-likelihood undefined. Per spec.md §7 this is treated as
// a rejected proposal, not a fatal error.
type NumericError struct {
	I, J int
	Lam  float64
}

func (e *NumericError) Error() string {
	return fmt.Sprintf("likelihood: Lambda[%d][%d] = %v is not a valid Poisson rate", e.I, e.J, e.Lam)
}

// PoissonLogLike computes
//
//	ℓ = Σ_{i<=j in observed} observed[i,j]*log(Λ[i,j]) - counts[i,j]*Λ[i,j]
//
// where lambda is the full D×D expected-sharing matrix and
// observedDemes lists the graph deme indices corresponding to the rows
///columns of the O×O counts and observed matrices (spec.md §4.4).
// Constant factorial terms are dropped since they cancel in the
// Metropolis-Hastings acceptance ratio.
func PoissonLogLike(lambda *mat.SymDense, observedDemes []int, counts, observed *mat.SymDense) (float64, error) {
	o := len(observedDemes)
	if r, _ := counts.Dims(); r != o {
		return 0, fmt.Errorf("likelihood: counts matrix has %d rows, want %d observed demes", r, o)
	}
	if r, _ := observed.Dims(); r != o {
		return 0, fmt.Errorf("likelihood: observed matrix has %d rows, want %d observed demes", r, o)
	}

	var ll float64
	for i := 0; i < o; i++ {
		di := observedDemes[i]
		for j := i; j < o; j++ {
			dj := observedDemes[j]
			lam := lambda.At(di, dj)
			if math.IsNaN(lam) || math.IsInf(lam, 0) || lam <= 0 {
				return 0, &NumericError{I: di, J: dj, Lam: lam}
			}
			ll += observed.At(i, j)*math.Log(lam) - counts.At(i, j)*lam
		}
	}
	return ll, nil
}
