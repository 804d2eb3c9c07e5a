// Copyright © 2026 The EEMS2-Go Authors
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package chain

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/ibdsurface/eems2/ctmc"
	"github.com/ibdsurface/eems2/eemscfg"
	"github.com/ibdsurface/eems2/eemsio"
	"github.com/ibdsurface/eems2/graph"
	"github.com/ibdsurface/eems2/habitat"
	"github.com/ibdsurface/eems2/likelihood"
	"github.com/ibdsurface/eems2/proposal"
	"github.com/ibdsurface/eems2/ratefield"
	"github.com/ibdsurface/eems2/sharing"
	"github.com/ibdsurface/eems2/tessellation"
	"gonum.org/v1/gonum/mat"
)

// Phase is the chain's lifecycle stage (spec.md §4.6).
type Phase int

const (
	Init Phase = iota
	BurnIn
	Sampling
	Done
)

func (p Phase) String() string {
	switch p {
	case Init:
		return "INIT"
	case BurnIn:
		return "BURN_IN"
	case Sampling:
		return "SAMPLING"
	case Done:
		return "DONE"
	default:
		return "?"
	}
}

// InvariantViolation reports a self-check disagreement beyond
// tolerance between the incrementally tracked log-likelihood and a
// from-scratch recomputation (spec.md §7, §8). It is fatal.
type InvariantViolation struct {
	Iter               int
	Tracked, Recomputed float64
}

func (e *InvariantViolation) Error() string {
	return fmt.Sprintf("chain: self-check failed at iteration %d: tracked ll=%v, recomputed ll=%v", e.Iter, e.Tracked, e.Recomputed)
}

// selfCheckTol is the relative tolerance for the ℓ self-check
// (spec.md §8: "agree ... to within 1e−6 relative").
const selfCheckTol = 1e-6

// hyperPriorA, hyperPriorB parameterize the Inverse-Gamma prior each
// tile-effect variance's Gibbs update is conjugate to (spec.md §4.5).
// Weakly informative, matching the teacher's convention of small fixed
// hyperpriors rather than exposing yet more config keys.
const hyperPriorA, hyperPriorB = 2.0, 1.0

// Driver runs the RJ-MCMC chain of spec.md §4.6.
type Driver struct {
	rng *rand.Rand
	src *rand.PCG

	g   *graph.Graph
	hab *habitat.Habitat

	observedDemes    []int
	counts, observed *mat.SymDense

	cfg  eemscfg.Config
	pcfg proposal.Config
	scfg sharing.Config

	weights [proposal.NumKinds]float64

	state State
	iter  int
	phase Phase

	proposed, accepted [proposal.NumKinds]int

	out *eemsio.Writer

	hyperEvery    int
	selfCheckEvery int

	// Log is a hook for one-line progress and diagnostic messages, in
	// the teacher's fmt.Fprintf-to-writer style (SPEC_FULL.md §3). The
	// driver's own iteration loop does not call it.
	Log func(format string, args ...any)
}

// Config bundles the pieces NewDriver needs beyond eemscfg.Config
// itself: the graph/habitat geometry and observed-pair data that
// eemscfg intentionally leaves to the I/O layer.
type Config struct {
	Cfg           eemscfg.Config
	Graph         *graph.Graph
	Habitat       *habitat.Habitat
	ObservedDemes []int
	Counts        *mat.SymDense
	Observed      *mat.SymDense
	Seed1, Seed2  uint64
	Out           *eemsio.Writer
}

// NewDriver constructs a Driver in phase INIT: it draws initial tile
// counts, seeds, and effects from their priors, and computes the
// initial π and ℓ (spec.md §4.6 step 1-2).
func NewDriver(c Config) (*Driver, error) {
	if !c.Graph.Connected() {
		return nil, &eemscfg.ConfigError{Key: "gridpath", Msg: "deme graph is not connected"}
	}

	d := &Driver{
		src:            rand.NewPCG(c.Seed1, c.Seed2),
		g:              c.Graph,
		hab:            c.Habitat,
		observedDemes:  c.ObservedDemes,
		counts:         c.Counts,
		observed:       c.Observed,
		cfg:            c.Cfg,
		weights:        proposal.DefaultWeights(),
		phase:          Init,
		out:            c.Out,
		hyperEvery:     100,
		selfCheckEvery: 10000,
		Log:            func(string, ...any) {},
	}
	d.rng = rand.New(d.src)
	d.pcfg = proposalConfigFrom(c.Cfg)
	d.scfg = sharingConfigFrom(c.Cfg)

	d.state = d.drawInitialState()
	d.recomputeAll()

	return d, nil
}

func proposalConfigFrom(c eemscfg.Config) proposal.Config {
	return proposal.Config{
		MEffctProposalS2:   c.MEffctProposalS2,
		QEffctProposalS2:   c.QEffctProposalS2,
		MSeedsProposalS2:   c.MSeedsProposalS2,
		QSeedsProposalS2:   c.QSeedsProposalS2,
		MrateMuProposalS2:  c.MrateMuProposalS2,
		QrateMuProposalS2:  c.QrateMuProposalS2,
		DfProposalS2:       c.DfProposalS2,
		MEffctHalfInterval: c.MEffctHalfInterval,
		QEffctHalfInterval: c.QEffctHalfInterval,
		NegBiSize:          c.NegBiSize,
		NegBiProb:          c.NegBiProb,
		MinTiles:           1,
		MaxTiles:           200,
		NuMax:              100,
	}
}

func sharingConfigFrom(c eemscfg.Config) sharing.Config {
	return sharing.Config{
		KrylovDim:  20,
		QuadOrder:  30,
		RecombRate: c.RecombinationRate,
		BlockLen:   c.BlockLengthCutoff,
		GenomeSize: c.GenomeSize,
		Method:     sharing.SIDJE,
	}
}

func (d *Driver) drawInitialState() State {
	nM := clampTiles(proposal.SampleTileCount(d.rng, d.pcfg.NegBiSize, d.pcfg.NegBiProb), d.pcfg)
	nQ := clampTiles(proposal.SampleTileCount(d.rng, d.pcfg.NegBiSize, d.pcfg.NegBiProb), d.pcfg)

	s := State{
		Sigma2M: 1,
		Sigma2Q: 1,
		Nu:      1,
	}
	s.TessM = tessellation.New(nM, d.hab, d.rng, s.Sigma2M, d.pcfg.MEffctHalfInterval)
	s.TessQ = tessellation.New(nQ, d.hab, d.rng, s.Sigma2Q, d.pcfg.QEffctHalfInterval)
	s.TessM.Recolor(d.g)
	s.TessQ.Recolor(d.g)
	return s
}

func clampTiles(n int, cfg proposal.Config) int {
	if n < cfg.MinTiles {
		return cfg.MinTiles
	}
	if n > cfg.MaxTiles {
		return cfg.MaxTiles
	}
	return n
}

// lambda computes the expected sharing matrix Λ for the current state.
func (d *Driver) lambda(s State) (*mat.SymDense, error) {
	w := ratefield.Coalescence(d.g, s.TessQ, s.MuQ)
	m := ratefield.Migration(d.g, s.TessM, s.MuM)
	gen, err := ctmc.Build(d.g, w, m)
	if err != nil {
		return nil, err
	}
	return sharing.Expected(gen, d.g.NumDemes(), d.scfg)
}

// logLikelihood computes ℓ for the current state, from scratch.
func (d *Driver) logLikelihood(s State) (float64, error) {
	lam, err := d.lambda(s)
	if err != nil {
		return 0, err
	}
	return likelihood.PoissonLogLike(lam, d.observedDemes, d.counts, d.observed)
}

// recomputeAll recomputes π and ℓ from scratch and stores them in
// d.state; used at initialization and by the self-check.
func (d *Driver) recomputeAll() {
	d.state.LogPrior = proposal.LogPrior(d.state.TessM, d.state.TessQ, d.hab, d.state.MuM, d.state.MuQ, d.state.Sigma2M, d.state.Sigma2Q, d.state.Nu, d.pcfg)
	ll, err := d.logLikelihood(d.state)
	if err != nil {
		ll = math.Inf(-1)
	}
	d.state.LogLike = ll
}

// Phase returns the driver's current lifecycle stage.
func (d *Driver) Phase() Phase { return d.phase }

// Iteration returns the number of iterations executed so far.
func (d *Driver) Iteration() int { return d.iter }

// State returns the current chain state (read-only use expected;
// mutating the returned tessellations directly bypasses bookkeeping).
func (d *Driver) State() State { return d.state }

// AcceptanceRate returns the empirical acceptance rate for one move
// kind over the run so far (spec.md §8 testable property).
func (d *Driver) AcceptanceRate(k proposal.Kind) float64 {
	if d.proposed[k] == 0 {
		return 0
	}
	return float64(d.accepted[k]) / float64(d.proposed[k])
}

// Run advances the chain through burn-in and sampling to completion
// (spec.md §4.6). numBurn and numSample come from eemscfg.Config's
// numBurnIter/numMCMCIter; thinEvery from numThinIter.
func (d *Driver) Run(numBurn, numSample, thinEvery int) error {
	d.phase = BurnIn
	for i := 0; i < numBurn; i++ {
		if err := d.step(); err != nil {
			return err
		}
	}

	d.phase = Sampling
	for i := 0; i < numSample; i++ {
		if err := d.step(); err != nil {
			return err
		}
		if (i+1)%thinEvery == 0 {
			if err := d.accumulate(); err != nil {
				return err
			}
		}
	}

	d.phase = Done
	return nil
}

// step executes one Metropolis-Hastings (or RJ-MCMC) iteration
// (spec.md §4.6 step 3).
func (d *Driver) step() error {
	d.iter++

	kind := selectKind(d.rng, d.weights)
	tgt := proposal.Target{
		TessM: d.state.TessM, TessQ: d.state.TessQ,
		Graph: d.g, Hab: d.hab,
		MuM: &d.state.MuM, MuQ: &d.state.MuQ, Nu: &d.state.Nu,
		Sigma2M: d.state.Sigma2M, Sigma2Q: d.state.Sigma2Q,
	}
	if kind == proposal.DF && d.phase == BurnIn && d.iter <= 1000 {
		// spec.md §4.5: M_DF "may be disabled during early burn-in".
		return nil
	}

	d.proposed[kind]++
	mv := proposal.New(d.rng, kind, tgt, d.pcfg)
	if !mv.Valid {
		return nil
	}

	mv.Do()
	newPi := proposal.LogPrior(d.state.TessM, d.state.TessQ, d.hab, d.state.MuM, d.state.MuQ, d.state.Sigma2M, d.state.Sigma2Q, d.state.Nu, d.pcfg)

	var newLL float64
	var numErr error
	if !math.IsInf(newPi, -1) {
		newLL, numErr = d.logLikelihood(d.state)
	} else {
		newLL = math.Inf(-1)
	}

	if numErr != nil || math.IsNaN(newLL) {
		// spec.md §7: proposal-local NumericError -> silent rejection.
		mv.Undo()
		return nil
	}

	logAlpha := (newPi - d.state.LogPrior) + (newLL - d.state.LogLike) + mv.LogQRatio
	if math.Log(d.rng.Float64()) < logAlpha {
		d.state.LogPrior = newPi
		d.state.LogLike = newLL
		d.accepted[kind]++
	} else {
		mv.Undo()
	}

	if d.iter%d.hyperEvery == 0 {
		d.gibbsUpdate()
	}
	if d.selfCheckEvery > 0 && d.iter%d.selfCheckEvery == 0 {
		if err := d.selfCheck(); err != nil {
			return err
		}
	}
	return nil
}

func selectKind(rng *rand.Rand, weights [proposal.NumKinds]float64) proposal.Kind {
	var total float64
	for _, w := range weights {
		total += w
	}
	u := rng.Float64() * total
	var acc float64
	for k, w := range weights {
		acc += w
		if u < acc {
			return proposal.Kind(k)
		}
	}
	return proposal.Kind(len(weights) - 1)
}

// gibbsUpdate performs the periodic Gibbs updates of σ²_m, σ²_q
// conditional on the current effects (spec.md §4.6 step 3).
func (d *Driver) gibbsUpdate() {
	mEffects := allEffects(d.state.TessM)
	qEffects := allEffects(d.state.TessQ)
	d.state.Sigma2M = proposal.GibbsSigma2(d.rng, mEffects, hyperPriorA, hyperPriorB)
	d.state.Sigma2Q = proposal.GibbsSigma2(d.rng, qEffects, hyperPriorA, hyperPriorB)
	d.state.LogPrior = proposal.LogPrior(d.state.TessM, d.state.TessQ, d.hab, d.state.MuM, d.state.MuQ, d.state.Sigma2M, d.state.Sigma2Q, d.state.Nu, d.pcfg)
}

func allEffects(t *tessellation.Tessellation) []float64 {
	e := make([]float64, t.Tiles())
	for k := range e {
		e[k] = t.Effect(k)
	}
	return e
}

// selfCheck recomputes ℓ from scratch and compares it against the
// incrementally tracked value (spec.md §4.6, §8).
func (d *Driver) selfCheck() error {
	recomputed, err := d.logLikelihood(d.state)
	if err != nil {
		return err
	}
	tracked := d.state.LogLike
	denom := math.Abs(tracked)
	if denom == 0 {
		denom = 1
	}
	if math.Abs(recomputed-tracked)/denom > selfCheckTol {
		return &InvariantViolation{Iter: d.iter, Tracked: tracked, Recomputed: recomputed}
	}
	d.state.LogLike = recomputed
	return nil
}

// accumulate snapshots the current state into the eemsio.Writer
// (spec.md §4.6 step 3, only during SAMPLING).
func (d *Driver) accumulate() error {
	if d.out == nil {
		return nil
	}
	if err := d.out.AppendTheta(d.state.MuM, d.state.MuQ, d.state.Sigma2M, d.state.Sigma2Q); err != nil {
		return err
	}
	if err := d.out.AppendPiLogl(d.state.LogPrior, d.state.LogLike); err != nil {
		return err
	}
	if err := d.out.AppendTiles(d.state.TessM.Tiles(), d.state.TessQ.Tiles()); err != nil {
		return err
	}
	if err := d.out.AppendMRates(allEffects(d.state.TessM)); err != nil {
		return err
	}
	if err := d.out.AppendQRates(allEffects(d.state.TessQ)); err != nil {
		return err
	}
	mx, my := seedCoords(d.state.TessM)
	if err := d.out.AppendMSeeds(mx, my); err != nil {
		return err
	}
	qx, qy := seedCoords(d.state.TessQ)
	return d.out.AppendQSeeds(qx, qy)
}

func seedCoords(t *tessellation.Tessellation) (xs, ys []float64) {
	xs = make([]float64, t.Tiles())
	ys = make([]float64, t.Tiles())
	for k := range xs {
		s := t.Seed(k)
		xs[k] = s.X
		ys[k] = s.Y
	}
	return xs, ys
}

// FinalLambda computes Λ for the current (final) state, for
// `rdistJtDobsJtDhatJ.txt` (spec.md §6).
func (d *Driver) FinalLambda() (*mat.SymDense, error) {
	return d.lambda(d.state)
}

// Checkpoint snapshots the driver into an eemsio.Checkpoint.
func (d *Driver) Checkpoint() (eemsio.Checkpoint, error) {
	return eemsio.NewCheckpoint(d.iter, d.state.MuM, d.state.MuQ, d.state.Sigma2M, d.state.Sigma2Q, d.state.Nu, d.state.TessM, d.state.TessQ, d.src)
}

// Resume rebuilds a Driver from a checkpoint plus the pieces eemsio
// does not persist (config and observation data), matching spec.md §8
// scenario 4: running K more iterations from a checkpoint at K must
// equal running 2K iterations from the same seed.
func Resume(c Config, cp eemsio.Checkpoint) (*Driver, error) {
	if !c.Graph.Connected() {
		return nil, &eemscfg.ConfigError{Key: "gridpath", Msg: "deme graph is not connected"}
	}
	src, err := cp.PCG()
	if err != nil {
		return nil, err
	}

	d := &Driver{
		src:            src,
		g:              c.Graph,
		hab:            c.Habitat,
		observedDemes:  c.ObservedDemes,
		counts:         c.Counts,
		observed:       c.Observed,
		cfg:            c.Cfg,
		weights:        proposal.DefaultWeights(),
		phase:          Sampling,
		out:            c.Out,
		iter:           cp.Iter,
		hyperEvery:     100,
		selfCheckEvery: 10000,
		Log:            func(string, ...any) {},
	}
	d.rng = rand.New(d.src)
	d.pcfg = proposalConfigFrom(c.Cfg)
	d.scfg = sharingConfigFrom(c.Cfg)

	tm := &tessellation.Tessellation{}
	tq := &tessellation.Tessellation{}
	for i, s := range cp.MSeeds {
		tm.AddTile(s, cp.MEffects[i])
	}
	for i, s := range cp.QSeeds {
		tq.AddTile(s, cp.QEffects[i])
	}
	tm.Recolor(d.g)
	tq.Recolor(d.g)

	d.state = State{
		TessM: tm, TessQ: tq,
		MuM: cp.MuM, MuQ: cp.MuQ,
		Sigma2M: cp.Sigma2M, Sigma2Q: cp.Sigma2Q,
		Nu: cp.Nu,
	}
	d.recomputeAll()
	return d, nil
}
