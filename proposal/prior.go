// Copyright © 2026 The EEMS2-Go Authors
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package proposal

import (
	"math"
	"math/rand/v2"

	"github.com/ibdsurface/eems2/habitat"
	"github.com/ibdsurface/eems2/tessellation"
	"gonum.org/v1/gonum/stat/distuv"
)

// wideSD is the standard deviation of the vague Normal prior placed on
// the mean log-rates μ_m, μ_q (spec.md §4.5: "wide variance").
const wideSD = 100

// negBinomLogPmf is the log probability mass of the tile-count prior
// (spec.md §6 negBiSize/negBiProb; SPEC_FULL.md §4.5). gonum's distuv
// package has no NegativeBinomial distribution, so the pmf is computed
// directly from its log-gamma definition; this is the one prior term
// evaluated without distuv, justified in DESIGN.md.
//
//	P(k) = Γ(k+r)/(Γ(r)·k!) · p^r · (1-p)^k
func negBinomLogPmf(k int, r, p float64) float64 {
	if k < 0 {
		return math.Inf(-1)
	}
	kf := float64(k)
	logCoef := lgamma(kf+r) - lgamma(r) - lgamma(kf+1)
	return logCoef + r*math.Log(p) + kf*math.Log(1-p)
}

// lgamma returns log(Γ(x)), discarding math.Lgamma's sign result
// (always positive here: r, k+r, k+1 are all positive).
func lgamma(x float64) float64 {
	v, _ := math.Lgamma(x)
	return v
}

// truncatedNormalLogPdf is the log-density of Normal(0, sigma2)
// truncated to [-bound, bound] at x, per spec.md §4.5's effect prior.
func truncatedNormalLogPdf(x, sigma2, bound float64) float64 {
	if x < -bound || x > bound {
		return math.Inf(-1)
	}
	n := distuv.Normal{Mu: 0, Sigma: math.Sqrt(sigma2)}
	logMass := math.Log(n.CDF(bound) - n.CDF(-bound))
	return n.LogProb(x) - logMass
}

// LogPrior computes π, the sum of tile-count, effect, seed, and
// mean-log-rate prior terms for both tessellations (spec.md §4.5). The
// σ² hyperparameters are Gibbs-updated outside the Metropolis-Hastings
// loop, so their Inverse-Gamma prior is not included. ν's uniform prior
// enters only as a bound check (-Inf outside [0, NuMax]), since its
// density is constant inside the interval.
func LogPrior(tm, tq *tessellation.Tessellation, hab *habitat.Habitat, muM, muQ, sigma2M, sigma2Q, nu float64, cfg Config) float64 {
	if nu < 0 || nu > cfg.NuMax {
		return math.Inf(-1)
	}

	logArea := math.Log(hab.Area())
	lp := negBinomLogPmf(tm.Tiles(), cfg.NegBiSize, cfg.NegBiProb) +
		negBinomLogPmf(tq.Tiles(), cfg.NegBiSize, cfg.NegBiProb)

	for k := 0; k < tm.Tiles(); k++ {
		lp += truncatedNormalLogPdf(tm.Effect(k), sigma2M, cfg.MEffctHalfInterval)
		lp -= logArea
	}
	for k := 0; k < tq.Tiles(); k++ {
		lp += truncatedNormalLogPdf(tq.Effect(k), sigma2Q, cfg.QEffctHalfInterval)
		lp -= logArea
	}

	muPrior := distuv.Normal{Mu: 0, Sigma: wideSD}
	lp += muPrior.LogProb(muM) + muPrior.LogProb(muQ)

	return lp
}

// GibbsSigma2 draws a new tile-effect variance from its conjugate
// Inverse-Gamma(a + T/2, b + Σeffect²/2) posterior (spec.md §4.5,
// §4.6). gonum's distuv.Gamma.Rand requires a math/rand (v1) Source,
// incompatible with the math/rand/v2 *rand.Rand threaded everywhere
// else in this module (spec.md §5: "the RNG is owned exclusively by
// the driver"), so the Gamma deviate is drawn directly on rng via the
// Marsaglia-Tsang method and inverted; SampleTileCount draws its
// deviates on rng the same way (see DESIGN.md).
func GibbsSigma2(rng *rand.Rand, effects []float64, priorA, priorB float64) float64 {
	var ss float64
	for _, e := range effects {
		ss += e * e
	}
	a := priorA + float64(len(effects))/2
	b := priorB + ss/2
	g := gammaDeviate(rng, a, b) // rate = b
	return 1 / g
}

// SampleTileCount draws a tile count from the configured
// Negative-Binomial(size, prob) prior via the standard Gamma-Poisson
// mixture representation (a NegBinom(r,p) variate is Poisson(λ) with
// λ~Gamma(r, rate=p/(1-p))) — the same rng-based sampling approach as
// GibbsSigma2, for the same distuv.Src incompatibility reason.
func SampleTileCount(rng *rand.Rand, size, prob float64) int {
	rate := prob / (1 - prob)
	lambda := gammaDeviate(rng, size, rate)
	return poissonDeviate(rng, lambda)
}

// poissonDeviate draws from Poisson(lambda) via Knuth's product-of-
// uniforms algorithm, adequate for the modest tile counts this prior
// is expected to produce.
func poissonDeviate(rng *rand.Rand, lambda float64) int {
	if lambda <= 0 {
		return 0
	}
	l := math.Exp(-lambda)
	k := 0
	p := 1.0
	for {
		k++
		p *= rng.Float64()
		if p <= l {
			break
		}
	}
	return k - 1
}

// gammaDeviate draws from Gamma(shape, rate) via Marsaglia & Tsang
// (2000), the standard rejection method for shape >= 1; shapes below 1
// are boosted via the usual u^(1/shape) trick.
func gammaDeviate(rng *rand.Rand, shape, rate float64) float64 {
	if shape < 1 {
		u := rng.Float64()
		return gammaDeviate(rng, shape+1, rate) * math.Pow(u, 1/shape)
	}
	d := shape - 1.0/3.0
	c := 1 / math.Sqrt(9*d)
	for {
		x := rng.NormFloat64()
		v := 1 + c*x
		if v <= 0 {
			continue
		}
		v = v * v * v
		u := rng.Float64()
		if u < 1-0.0331*x*x*x*x {
			return d * v / rate
		}
		if math.Log(u) < 0.5*x*x+d*(1-v+math.Log(v)) {
			return d * v / rate
		}
	}
}
