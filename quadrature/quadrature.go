// Copyright © 2026 The EEMS2-Go Authors
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package quadrature implements the Gauss-Laguerre integration used to
// turn a coalescence-time density into the expected number of shared
// IBD blocks (spec.md §4.3). It embeds the 30- and 50-point rules
// verbatim, and provides the recombination/block-length rescaling
// needed before handing the abscissae to the propagator as a time
// grid.
package quadrature

import "fmt"

// A Rule is a generalized Gauss-Laguerre quadrature rule: abscissae X
// and weights W for integrating f(x)*x*e^{-x} on [0, ∞).
type Rule struct {
	X []float64
	W []float64
}

// New returns the embedded 30- or 50-point Gauss-Laguerre rule. It
// returns an error for any other order, per spec.md §4.3.
func New(order int) (Rule, error) {
	switch order {
	case 30:
		return Rule{X: append([]float64(nil), laguerre30X...), W: append([]float64(nil), laguerre30W...)}, nil
	case 50:
		return Rule{X: append([]float64(nil), laguerre50X...), W: append([]float64(nil), laguerre50W...)}, nil
	default:
		return Rule{}, fmt.Errorf("quadrature: order must be 30 or 50, got %d", order)
	}
}

// Len returns the number of quadrature nodes.
func (r Rule) Len() int {
	return len(r.X)
}

// Scale rescales the rule in place for the substitution u = 2rLt used
// in spec.md §4.3:
//
//	Λ_s = G * (1/(2rL²)) * ∫ f_s(x/(2rL)) x e^{-x} dx
//
// After Scale, r.X holds the time points to hand to the propagator and
// r.W holds the corresponding weights (already divided by 2rL²).
func (r Rule) Scale(recombRate, blockLen float64) Rule {
	denom := 2 * recombRate * blockLen
	scaled := Rule{
		X: make([]float64, len(r.X)),
		W: make([]float64, len(r.W)),
	}
	for i := range r.X {
		scaled.X[i] = r.X[i] / denom
		scaled.W[i] = r.W[i] / (denom * blockLen)
	}
	return scaled
}

// Integrate approximates ∫ f(x) x e^{-x} dx over [0, ∞) given samples
// of f at the rule's abscissae.
func (r Rule) Integrate(fx []float64) float64 {
	var sum float64
	for i, w := range r.W {
		sum += w * fx[i]
	}
	return sum
}
