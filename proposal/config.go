// Copyright © 2026 The EEMS2-Go Authors
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package proposal

// Config collects the proposal-variance and prior-shape parameters of
// spec.md §6 that the proposal engine needs directly (the remaining
// keys of eemscfg.Config concern I/O and chain length, not the moves
// themselves).
type Config struct {
	MEffctProposalS2  float64
	QEffctProposalS2  float64
	MSeedsProposalS2  float64
	QSeedsProposalS2  float64
	MrateMuProposalS2 float64
	QrateMuProposalS2 float64
	DfProposalS2      float64

	MEffctHalfInterval float64
	QEffctHalfInterval float64

	// NegBiSize, NegBiProb parameterize the tile-count prior
	// (spec.md §6's negBiSize/negBiProb keys; see SPEC_FULL.md §4.5
	// for why this replaces the Poisson(λ) prior spec.md's prose
	// describes).
	NegBiSize float64
	NegBiProb float64

	// MinTiles is the minimum tile count a tessellation may hold;
	// death moves are rejected below it (spec.md §4.5: "forbid death
	// when tiles=1").
	MinTiles int

	// MaxTiles is the maximum tile count a tessellation may hold;
	// birth moves are rejected above it.
	MaxTiles int

	// NuMax bounds the uniform prior on the degrees-of-freedom
	// hyperparameter ν (spec.md §4.5: "ν Uniform on configured
	// interval"). Not itself a spec.md §6 config key; a stand-in
	// constant since the source's ν interval is undocumented.
	NuMax float64
}

// DefaultConfig returns proposal defaults consistent with
// eemscfg.Default().
func DefaultConfig() Config {
	return Config{
		MEffctProposalS2:   0.1,
		QEffctProposalS2:   0.1,
		MSeedsProposalS2:   0.01,
		QSeedsProposalS2:   0.01,
		MrateMuProposalS2:  0.05,
		QrateMuProposalS2:  0.05,
		DfProposalS2:       1,
		MEffctHalfInterval: 0.1,
		QEffctHalfInterval: 0.1,
		NegBiSize:          10,
		NegBiProb:          0.5,
		MinTiles:           1,
		MaxTiles:           200,
		NuMax:              100,
	}
}
