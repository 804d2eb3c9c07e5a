// Copyright © 2026 The EEMS2-Go Authors
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package resume implements the eems2 resume command: it continues an
// interrupted RJ-MCMC chain from its lastState.txt checkpoint.
package resume

import (
	"fmt"

	"github.com/ibdsurface/eems2/chain"
	"github.com/ibdsurface/eems2/eemscfg"
	"github.com/ibdsurface/eems2/eemsio"
	"github.com/ibdsurface/eems2/habitat"
	"github.com/js-arias/command"
)

var Command = &command.Command{
	Usage: `resume <config-file>`,
	Short: "resume an EEMS2 MCMC chain from its checkpoint",
	Long: `
Command resume reads an EEMS2 configuration file whose prevpath key names a
lastState.txt checkpoint written by a previous run, and continues sampling
for numMCMCIter further iterations (spec.md §4.6, resume equals running
straight through with the same seed). The mcmc*.txt accumulators under
mcmcpath are recreated, so they hold only the samples of the resumed run;
samples written by the previous run are not kept.
	`,
	Run: runCmd,
}

func runCmd(c *command.Command, args []string) error {
	if len(args) < 1 {
		return c.UsageError("expecting configuration file")
	}

	cfg, err := eemscfg.Read(args[0])
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if cfg.PrevPath == "" {
		return &eemscfg.ConfigError{Key: "prevpath", Msg: "resume requires a checkpoint path"}
	}

	cp, err := eemsio.ReadLastState(cfg.PrevPath)
	if err != nil {
		return err
	}

	g, ipmap, err := eemsio.ReadGrid(cfg.GridPath+".demes", cfg.GridPath+".edges", cfg.GridPath+".ipmap")
	if err != nil {
		return err
	}
	outerPts, err := eemsio.ReadOuter(cfg.DataPath + ".outer")
	if err != nil {
		return err
	}
	sims, err := eemsio.ReadSims(cfg.DataPath + ".sims")
	if err != nil {
		return err
	}

	observedDemes := g.Observed()
	counts, observed := eemsio.Aggregate(ipmap, observedDemes, sims)
	hab := habitat.New(outerPts)

	out, err := eemsio.NewWriter(cfg.MCMCPath)
	if err != nil {
		return err
	}
	defer out.Close()

	d, err := chain.Resume(chain.Config{
		Cfg:           cfg,
		Graph:         g,
		Habitat:       hab,
		ObservedDemes: observedDemes,
		Counts:        counts,
		Observed:      observed,
		Out:           out,
	}, cp)
	if err != nil {
		return err
	}

	fmt.Fprintf(c.Stdout(), "eems2: resuming from iteration %d\n", d.Iteration())
	if err := d.Run(0, cfg.NumMCMCIter, cfg.NumThinIter); err != nil {
		return err
	}

	lam, err := d.FinalLambda()
	if err != nil {
		return err
	}
	if err := eemsio.WriteRdist(cfg.MCMCPath+"/rdistJtDobsJtDhatJ.txt", lam); err != nil {
		return err
	}

	newCP, err := d.Checkpoint()
	if err != nil {
		return err
	}
	if err := eemsio.WriteLastState(cfg.MCMCPath+"/lastState.txt", newCP); err != nil {
		return err
	}

	fmt.Fprintf(c.Stdout(), "eems2: done, %d iterations\n", d.Iteration())
	return nil
}
