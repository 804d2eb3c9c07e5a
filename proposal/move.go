// Copyright © 2026 The EEMS2-Go Authors
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package proposal

import (
	"math"
	"math/rand/v2"

	"github.com/ibdsurface/eems2/graph"
	"github.com/ibdsurface/eems2/habitat"
	"github.com/ibdsurface/eems2/tessellation"
)

// Target bundles the pieces of chain state a Move reads and mutates.
// Sigma2M/Sigma2Q are read-only from the proposal engine's point of
// view (they change only via chain.Driver's Gibbs step, never inside a
// Metropolis-Hastings move).
type Target struct {
	TessM, TessQ     *tessellation.Tessellation
	Graph            *graph.Graph
	Hab              *habitat.Habitat
	MuM, MuQ         *float64
	Nu               *float64
	Sigma2M, Sigma2Q float64
}

// A Move is one candidate RJ-MCMC update: a Kind tag, the log
// proposal-ratio contribution ("ratioln" in spec.md §4.5, nonzero only
// for birth/death), and Do/Undo closures that mutate Target in place.
// Valid reports whether the move survived the trivial-rejection checks
// of spec.md §4.5 (effect bound, habitat membership, tile-count
// bounds); an invalid Move must be treated as α=0 without calling Do.
type Move struct {
	Kind      Kind
	LogQRatio float64
	Valid     bool

	do   func()
	undo func()
}

// Do applies the move in place.
func (m Move) Do() {
	if m.do != nil {
		m.do()
	}
}

// Undo reverts a previously applied move.
func (m Move) Undo() {
	if m.undo != nil {
		m.undo()
	}
}

// New constructs a candidate Move of the given kind by drawing from
// rng and checking it against tgt (spec.md §4.5).
func New(rng *rand.Rand, kind Kind, tgt Target, cfg Config) Move {
	switch kind {
	case RateOneQ:
		return rateOne(rng, kind, tgt.TessQ, cfg.QEffctProposalS2, cfg.QEffctHalfInterval)
	case RateOneM:
		return rateOne(rng, kind, tgt.TessM, cfg.MEffctProposalS2, cfg.MEffctHalfInterval)
	case MeanRateM:
		return meanRate(rng, kind, tgt.MuM, cfg.MrateMuProposalS2)
	case MeanRateQ:
		return meanRate(rng, kind, tgt.MuQ, cfg.QrateMuProposalS2)
	case MoveOneQ:
		return moveOne(rng, kind, tgt.TessQ, tgt.Graph, tgt.Hab, cfg.QSeedsProposalS2)
	case MoveOneM:
		return moveOne(rng, kind, tgt.TessM, tgt.Graph, tgt.Hab, cfg.MSeedsProposalS2)
	case BirthDeathQ:
		return birthDeath(rng, kind, tgt.TessQ, tgt.Graph, tgt.Hab, tgt.Sigma2Q, cfg.QEffctHalfInterval, cfg)
	case BirthDeathM:
		return birthDeath(rng, kind, tgt.TessM, tgt.Graph, tgt.Hab, tgt.Sigma2M, cfg.MEffctHalfInterval, cfg)
	case DF:
		return dfMove(rng, tgt.Nu, cfg.DfProposalS2, cfg.NuMax)
	default:
		panic("proposal: unknown move kind")
	}
}

func rateOne(rng *rand.Rand, kind Kind, t *tessellation.Tessellation, s2, bound float64) Move {
	k := rng.IntN(t.Tiles())
	old := t.Effect(k)
	next := old + rng.NormFloat64()*math.Sqrt(s2)
	if next < -bound || next > bound {
		return Move{Kind: kind, Valid: false}
	}
	return Move{
		Kind:  kind,
		Valid: true,
		do:    func() { t.SetEffect(k, next) },
		undo:  func() { t.SetEffect(k, old) },
	}
}

func meanRate(rng *rand.Rand, kind Kind, mu *float64, s2 float64) Move {
	old := *mu
	next := old + rng.NormFloat64()*math.Sqrt(s2)
	return Move{
		Kind:  kind,
		Valid: true,
		do:    func() { *mu = next },
		undo:  func() { *mu = old },
	}
}

func moveOne(rng *rand.Rand, kind Kind, t *tessellation.Tessellation, g *graph.Graph, hab *habitat.Habitat, s2 float64) Move {
	k := rng.IntN(t.Tiles())
	old := t.Seed(k)
	sd := math.Sqrt(s2)
	next := habitat.Point{X: old.X + rng.NormFloat64()*sd, Y: old.Y + rng.NormFloat64()*sd}
	if !hab.Contains(next) {
		return Move{Kind: kind, Valid: false}
	}
	return Move{
		Kind:  kind,
		Valid: true,
		do:    func() { t.MoveSeed(k, next); t.Recolor(g) },
		undo:  func() { t.MoveSeed(k, old); t.Recolor(g) },
	}
}

// birthDeath implements the RJ-MCMC birth/death move. Both the new
// tile's seed and its effect are drawn directly from their priors
// (uniform over the habitat, truncated Normal(0, sigma2)), which lets
// the proposal density cancel against the corresponding prior terms in
// the Metropolis-Hastings ratio (Green 1995); the LogQRatio returned
// here is exactly the residual after that cancellation — see
// DESIGN.md for the derivation, since the birth/death Jacobian is not
// specified in spec.md §4.5 beyond "incorporating the tile-count
// Jacobian and proposal densities".
func birthDeath(rng *rand.Rand, kind Kind, t *tessellation.Tessellation, g *graph.Graph, hab *habitat.Habitat, sigma2, bound float64, cfg Config) Move {
	tiles := t.Tiles()
	birth := rng.Float64() < 0.5

	if birth {
		if tiles >= cfg.MaxTiles {
			return Move{Kind: kind, Valid: false}
		}
		seed := hab.Sample(rng)
		effect := tessellationTruncatedNormal(rng, sigma2, bound)
		logArea := math.Log(hab.Area())
		ratio := -math.Log(float64(tiles+1)) + logArea - truncatedNormalLogPdf(effect, sigma2, bound)
		return Move{
			Kind:      kind,
			Valid:     true,
			LogQRatio: ratio,
			do:        func() { t.AddTile(seed, effect); t.Recolor(g) },
			undo:      func() { t.RemoveTile(tiles); t.Recolor(g) },
		}
	}

	if tiles <= cfg.MinTiles {
		return Move{Kind: kind, Valid: false}
	}
	k := rng.IntN(tiles)
	oldSeed := t.Seed(k)
	oldEffect := t.Effect(k)
	logArea := math.Log(hab.Area())
	ratio := math.Log(float64(tiles)) - logArea + truncatedNormalLogPdf(oldEffect, sigma2, bound)
	return Move{
		Kind:      kind,
		Valid:     true,
		LogQRatio: ratio,
		do:        func() { t.RemoveTile(k); t.Recolor(g) },
		undo:      func() { t.AddTile(oldSeed, oldEffect); t.Recolor(g) },
	}
}

// tessellationTruncatedNormal mirrors tessellation.New's own rejection
// sampler so birth draws exactly from the same prior the tessellation
// package uses at initialization.
func tessellationTruncatedNormal(rng *rand.Rand, sigma2, bound float64) float64 {
	sd := math.Sqrt(sigma2)
	for {
		v := rng.NormFloat64() * sd
		if v >= -bound && v <= bound {
			return v
		}
	}
}

func dfMove(rng *rand.Rand, nu *float64, s2, nuMax float64) Move {
	old := *nu
	next := old + rng.NormFloat64()*math.Sqrt(s2)
	if next < 0 || next > nuMax {
		return Move{Kind: DF, Valid: false}
	}
	return Move{
		Kind:  DF,
		Valid: true,
		do:    func() { *nu = next },
		undo:  func() { *nu = old },
	}
}
