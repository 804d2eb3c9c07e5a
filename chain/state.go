// Copyright © 2026 The EEMS2-Go Authors
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package chain implements the RJ-MCMC driver of spec.md §4.6: chain
// state lifecycle (INIT → BURN_IN → SAMPLING → DONE), per-iteration
// move selection and Metropolis-Hastings acceptance, periodic Gibbs
// updates of the tile-effect variances, thinned accumulation into the
// eemsio output files, checkpointing, and a self-check that guards
// against incremental-likelihood drift.
package chain

import (
	"github.com/ibdsurface/eems2/tessellation"
)

// State is the full RJ-MCMC chain state S of spec.md §3.
type State struct {
	TessM, TessQ     *tessellation.Tessellation
	MuM, MuQ         float64
	Sigma2M, Sigma2Q float64
	Nu               float64

	LogPrior float64
	LogLike  float64
}

// Clone returns a deep copy of the state, including independent
// tessellations.
func (s State) Clone() State {
	c := s
	c.TessM = s.TessM.Clone()
	c.TessQ = s.TessQ.Clone()
	return c
}
