// Copyright © 2026 The EEMS2-Go Authors
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package eemsio

import (
	"bufio"
	"encoding/csv"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"strconv"
	"time"

	"github.com/ibdsurface/eems2/habitat"
	"github.com/ibdsurface/eems2/tessellation"
)

// Checkpoint captures everything chain.Driver needs to resume an
// MCMC run bit-for-bit, per spec.md §8 scenario 4 (resume equals
// running straight through from the same seed): the iteration count,
// hyperparameters, both tessellations' seeds and effects, and the RNG
// stream state.
type Checkpoint struct {
	Iter int

	MuM, MuQ         float64
	Sigma2M, Sigma2Q float64
	Nu               float64

	MSeeds   []habitat.Point
	MEffects []float64
	QSeeds   []habitat.Point
	QEffects []float64

	// RNGState is the marshaled state of the math/rand/v2 PCG source
	// driving the chain (rand.PCG.MarshalBinary).
	RNGState []byte
}

// NewCheckpoint snapshots the tessellations and RNG into a Checkpoint.
func NewCheckpoint(iter int, muM, muQ, sigma2M, sigma2Q, nu float64, tm, tq *tessellation.Tessellation, src *rand.PCG) (Checkpoint, error) {
	state, err := src.MarshalBinary()
	if err != nil {
		return Checkpoint{}, fmt.Errorf("eemsio: marshaling RNG state: %v", err)
	}
	c := Checkpoint{
		Iter:     iter,
		MuM:      muM,
		MuQ:      muQ,
		Sigma2M:  sigma2M,
		Sigma2Q:  sigma2Q,
		Nu:       nu,
		RNGState: state,
	}
	for k := 0; k < tm.Tiles(); k++ {
		c.MSeeds = append(c.MSeeds, tm.Seed(k))
		c.MEffects = append(c.MEffects, tm.Effect(k))
	}
	for k := 0; k < tq.Tiles(); k++ {
		c.QSeeds = append(c.QSeeds, tq.Seed(k))
		c.QEffects = append(c.QEffects, tq.Effect(k))
	}
	return c, nil
}

// PCG reconstructs the RNG source stored in the checkpoint.
func (c Checkpoint) PCG() (*rand.PCG, error) {
	src := rand.NewPCG(1, 1)
	if err := src.UnmarshalBinary(c.RNGState); err != nil {
		return nil, fmt.Errorf("eemsio: unmarshaling RNG state: %v", err)
	}
	return src, nil
}

var checkpointHeader = []string{"kind", "a", "b", "c"}

// WriteLastState writes the resume checkpoint `lastState.txt`
// (spec.md §6), reusing the teacher's tab-delimited, timestamped
// project-file layout.
func WriteLastState(path string, c Checkpoint) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return &IOError{Path: path, Err: err}
	}
	defer func() {
		e := f.Close()
		if e != nil && err == nil {
			err = &IOError{Path: path, Err: e}
		}
	}()

	bw := bufio.NewWriter(f)
	fmt.Fprintf(bw, "# eems2 checkpoint\n")
	fmt.Fprintf(bw, "# saved on: %s\n", time.Now().Format(time.RFC3339))
	tsv := csv.NewWriter(bw)
	tsv.Comma = '\t'

	rows := [][]string{
		checkpointHeader,
		{"iter", strconv.Itoa(c.Iter), "", ""},
		{"muM", fstr(c.MuM), "", ""},
		{"muQ", fstr(c.MuQ), "", ""},
		{"sigma2M", fstr(c.Sigma2M), "", ""},
		{"sigma2Q", fstr(c.Sigma2Q), "", ""},
		{"nu", fstr(c.Nu), "", ""},
		{"rngstate", hex.EncodeToString(c.RNGState), "", ""},
	}
	for i, s := range c.MSeeds {
		rows = append(rows, []string{"mtile", fstr(s.X), fstr(s.Y), fstr(c.MEffects[i])})
	}
	for i, s := range c.QSeeds {
		rows = append(rows, []string{"qtile", fstr(s.X), fstr(s.Y), fstr(c.QEffects[i])})
	}

	for _, row := range rows {
		if err := tsv.Write(row); err != nil {
			return &IOError{Path: path, Err: err}
		}
	}
	tsv.Flush()
	if err := tsv.Error(); err != nil {
		return &IOError{Path: path, Err: err}
	}
	return bw.Flush()
}

// ReadLastState reads a checkpoint written by WriteLastState.
func ReadLastState(path string) (Checkpoint, error) {
	f, err := os.Open(path)
	if err != nil {
		return Checkpoint{}, &IOError{Path: path, Err: err}
	}
	defer f.Close()

	tsv := csv.NewReader(f)
	tsv.Comma = '\t'
	tsv.Comment = '#'
	tsv.FieldsPerRecord = -1

	if _, err := tsv.Read(); err != nil {
		return Checkpoint{}, &IOError{Path: path, Err: fmt.Errorf("header: %v", err)}
	}

	var c Checkpoint
	for {
		row, err := tsv.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return Checkpoint{}, &IOError{Path: path, Err: err}
		}
		if len(row) == 0 {
			continue
		}
		switch row[0] {
		case "iter":
			c.Iter, err = strconv.Atoi(row[1])
		case "muM":
			c.MuM, err = strconv.ParseFloat(row[1], 64)
		case "muQ":
			c.MuQ, err = strconv.ParseFloat(row[1], 64)
		case "sigma2M":
			c.Sigma2M, err = strconv.ParseFloat(row[1], 64)
		case "sigma2Q":
			c.Sigma2Q, err = strconv.ParseFloat(row[1], 64)
		case "nu":
			c.Nu, err = strconv.ParseFloat(row[1], 64)
		case "rngstate":
			c.RNGState, err = hex.DecodeString(row[1])
		case "mtile", "qtile":
			var x, y, e float64
			if x, err = strconv.ParseFloat(row[1], 64); err == nil {
				if y, err = strconv.ParseFloat(row[2], 64); err == nil {
					e, err = strconv.ParseFloat(row[3], 64)
				}
			}
			if err == nil {
				if row[0] == "mtile" {
					c.MSeeds = append(c.MSeeds, habitat.Point{X: x, Y: y})
					c.MEffects = append(c.MEffects, e)
				} else {
					c.QSeeds = append(c.QSeeds, habitat.Point{X: x, Y: y})
					c.QEffects = append(c.QEffects, e)
				}
			}
		default:
			err = fmt.Errorf("unknown checkpoint row kind %q", row[0])
		}
		if err != nil {
			return Checkpoint{}, &IOError{Path: path, Err: err}
		}
	}
	return c, nil
}
