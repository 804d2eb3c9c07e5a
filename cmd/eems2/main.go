// Copyright © 2026 The EEMS2-Go Authors
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// EEMS2 estimates effective migration surfaces from pairwise
// IBD-sharing data using a structured-coalescent RJ-MCMC chain.
package main

import (
	"github.com/ibdsurface/eems2/cmd/eems2/resume"
	"github.com/ibdsurface/eems2/cmd/eems2/run"
	"github.com/js-arias/command"
)

var app = &command.Command{
	Usage: "eems2 <command> [<argument>...]",
	Short: "estimate effective migration surfaces from IBD sharing data",
}

func init() {
	app.Add(run.Command)
	app.Add(resume.Command)
}

func main() {
	app.Main()
}
