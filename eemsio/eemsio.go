// Copyright © 2026 The EEMS2-Go Authors
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package eemsio implements the "external collaborator" file formats
// of spec.md §6: the `.coord`/`.outer`/`.sims` sample inputs, the
// `.demes`/`.edges`/`.ipmap` grid triple, and the `mcmc*.txt` MCMC
// output accumulators, `lastState.txt` checkpoint, and
// `rdistJtDobsJtDhatJ.txt` final expected-sharing dump. All
// tab-delimited formats reuse the teacher's `encoding/csv` idiom from
// `project/project.go` and `project/io.go`.
package eemsio

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/ibdsurface/eems2/graph"
	"github.com/ibdsurface/eems2/habitat"
	"gonum.org/v1/gonum/mat"
)

// IOError reports a missing or malformed input file (spec.md §7). It
// is fatal at startup.
type IOError struct {
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("eemsio: %s: %v", e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

func readFloatRows(path string, wantCols int) ([][]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &IOError{Path: path, Err: err}
	}
	defer f.Close()

	var rows [][]float64
	sc := bufio.NewScanner(f)
	ln := 0
	for sc.Scan() {
		ln++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if wantCols > 0 && len(fields) != wantCols {
			return nil, &IOError{Path: path, Err: fmt.Errorf("line %d: got %d fields, want %d", ln, len(fields), wantCols)}
		}
		row := make([]float64, len(fields))
		for i, s := range fields {
			v, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return nil, &IOError{Path: path, Err: fmt.Errorf("line %d: %v", ln, err)}
			}
			row[i] = v
		}
		rows = append(rows, row)
	}
	if err := sc.Err(); err != nil {
		return nil, &IOError{Path: path, Err: err}
	}
	return rows, nil
}

// ReadCoord reads a `.coord` file: N rows of sample X/Y coordinates.
func ReadCoord(path string) ([][2]float64, error) {
	rows, err := readFloatRows(path, 2)
	if err != nil {
		return nil, err
	}
	out := make([][2]float64, len(rows))
	for i, r := range rows {
		out[i] = [2]float64{r[0], r[1]}
	}
	return out, nil
}

// ReadOuter reads a `.outer` file: the closed polygon of habitat
// vertices. A repeated final vertex (closing the ring) is dropped, if
// present, since habitat.New expects an open vertex list.
func ReadOuter(path string) ([]habitat.Point, error) {
	rows, err := readFloatRows(path, 2)
	if err != nil {
		return nil, err
	}
	if len(rows) < 3 {
		return nil, &IOError{Path: path, Err: fmt.Errorf("polygon has %d vertices, want at least 3", len(rows))}
	}
	n := len(rows)
	if rows[0][0] == rows[n-1][0] && rows[0][1] == rows[n-1][1] {
		rows = rows[:n-1]
	}
	pts := make([]habitat.Point, len(rows))
	for i, r := range rows {
		pts[i] = habitat.Point{X: r[0], Y: r[1]}
	}
	return pts, nil
}

// ReadSims reads a `.sims` file: a symmetric N×N matrix of pairwise
// shared IBD-block counts, whitespace-delimited, one row per line.
func ReadSims(path string) (*mat.SymDense, error) {
	rows, err := readFloatRows(path, 0)
	if err != nil {
		return nil, err
	}
	n := len(rows)
	sym := mat.NewSymDense(n, nil)
	for i, r := range rows {
		if len(r) != n {
			return nil, &IOError{Path: path, Err: fmt.Errorf("row %d has %d columns, want %d (matrix must be square)", i, len(r), n)}
		}
		for j := i; j < n; j++ {
			sym.SetSym(i, j, r[j])
		}
	}
	return sym, nil
}

// ReadGrid reads the precomputed triangulation triple: `.demes`
// (vertex coordinates, one per line), `.edges` (pairs of 0-based deme
// indices, one edge per line), and `.ipmap` (one line per sample,
// giving the 0-based deme index the sample is assigned to).
func ReadGrid(demesPath, edgesPath, ipmapPath string) (*graph.Graph, []int, error) {
	demeRows, err := readFloatRows(demesPath, 2)
	if err != nil {
		return nil, nil, err
	}

	f, err := os.Open(edgesPath)
	if err != nil {
		return nil, nil, &IOError{Path: edgesPath, Err: err}
	}
	defer f.Close()
	var edges [][2]int
	sc := bufio.NewScanner(f)
	ln := 0
	for sc.Scan() {
		ln++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 2 {
			return nil, nil, &IOError{Path: edgesPath, Err: fmt.Errorf("line %d: want 2 fields, got %d", ln, len(fields))}
		}
		a, err1 := strconv.Atoi(fields[0])
		b, err2 := strconv.Atoi(fields[1])
		if err1 != nil || err2 != nil {
			return nil, nil, &IOError{Path: edgesPath, Err: fmt.Errorf("line %d: non-integer deme index", ln)}
		}
		edges = append(edges, [2]int{a, b})
	}
	if err := sc.Err(); err != nil {
		return nil, nil, &IOError{Path: edgesPath, Err: err}
	}

	ipf, err := os.Open(ipmapPath)
	if err != nil {
		return nil, nil, &IOError{Path: ipmapPath, Err: err}
	}
	defer ipf.Close()
	var ipmap []int
	isc := bufio.NewScanner(ipf)
	for isc.Scan() {
		line := strings.TrimSpace(isc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		d, err := strconv.Atoi(line)
		if err != nil {
			return nil, nil, &IOError{Path: ipmapPath, Err: err}
		}
		ipmap = append(ipmap, d)
	}
	if err := isc.Err(); err != nil {
		return nil, nil, &IOError{Path: ipmapPath, Err: err}
	}

	observed := make(map[int]bool, len(ipmap))
	for _, d := range ipmap {
		observed[d] = true
	}
	demes := make([]graph.Deme, len(demeRows))
	for i, r := range demeRows {
		demes[i] = graph.Deme{X: r[0], Y: r[1], Observed: observed[i]}
	}

	g := graph.New(demes, edges)
	return g, ipmap, nil
}

// Aggregate collapses an individual-level `.sims` matrix into a
// deme-level pair of matrices restricted to observedDemes: counts[i,j]
// is the number of sampled individual pairs assigned to demes
// (observedDemes[i], observedDemes[j]), and observed[i,j] is the sum
// of their shared-block counts (spec.md §4.4's Λ is a per-pair rate,
// so both the exposure and the total need to be tracked separately).
func Aggregate(ipmap []int, observedDemes []int, sims *mat.SymDense) (counts, observed *mat.SymDense) {
	index := make(map[int]int, len(observedDemes))
	for i, d := range observedDemes {
		index[d] = i
	}

	o := len(observedDemes)
	counts = mat.NewSymDense(o, nil)
	observed = mat.NewSymDense(o, nil)

	n := len(ipmap)
	for a := 0; a < n; a++ {
		ia, ok := index[ipmap[a]]
		if !ok {
			continue
		}
		for b := a + 1; b < n; b++ {
			ib, ok := index[ipmap[b]]
			if !ok {
				continue
			}
			i, j := ia, ib
			if i > j {
				i, j = j, i
			}
			counts.SetSym(i, j, counts.At(i, j)+1)
			observed.SetSym(i, j, observed.At(i, j)+sims.At(a, b))
		}
	}
	return counts, observed
}

// csvWriter wraps a buffered tab-delimited writer over an
// append-friendly file handle, matching project.Write's style.
type csvWriter struct {
	f *os.File
	w *csv.Writer
}

func newCSVWriter(path string) (*csvWriter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, &IOError{Path: path, Err: err}
	}
	w := csv.NewWriter(f)
	w.Comma = '\t'
	return &csvWriter{f: f, w: w}, nil
}

func (c *csvWriter) write(row []string) error {
	if err := c.w.Write(row); err != nil {
		return &IOError{Path: c.f.Name(), Err: err}
	}
	return nil
}

func (c *csvWriter) close() error {
	c.w.Flush()
	if err := c.w.Error(); err != nil {
		c.f.Close()
		return &IOError{Path: c.f.Name(), Err: err}
	}
	return c.f.Close()
}

func fstr(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }

// Writer accumulates one row per thinning tick into each of the
// per-run `mcmc*.txt` files (spec.md §6), flushed on Close.
type Writer struct {
	thetas *csvWriter
	pilogl *csvWriter
	mtiles *csvWriter
	qtiles *csvWriter
	mrates *csvWriter
	qrates *csvWriter
	xcoord *csvWriter
	ycoord *csvWriter
	wcoord *csvWriter
	zcoord *csvWriter
}

// NewWriter creates the mcmc*.txt files inside dir, truncating any
// that already exist.
func NewWriter(dir string) (*Writer, error) {
	open := func(name string) (*csvWriter, error) { return newCSVWriter(dir + "/" + name) }

	w := &Writer{}
	var err error
	if w.thetas, err = open("mcmcthetas.txt"); err != nil {
		return nil, err
	}
	if w.pilogl, err = open("mcmcpilogl.txt"); err != nil {
		return nil, err
	}
	if w.mtiles, err = open("mcmcmtiles.txt"); err != nil {
		return nil, err
	}
	if w.qtiles, err = open("mcmcqtiles.txt"); err != nil {
		return nil, err
	}
	if w.mrates, err = open("mcmcmrates.txt"); err != nil {
		return nil, err
	}
	if w.qrates, err = open("mcmcqrates.txt"); err != nil {
		return nil, err
	}
	if w.xcoord, err = open("mcmcxcoord.txt"); err != nil {
		return nil, err
	}
	if w.ycoord, err = open("mcmcycoord.txt"); err != nil {
		return nil, err
	}
	if w.wcoord, err = open("mcmcwcoord.txt"); err != nil {
		return nil, err
	}
	if w.zcoord, err = open("mcmczcoord.txt"); err != nil {
		return nil, err
	}
	return w, nil
}

// AppendTheta appends one sample of (μ_m, μ_q, σ²_m, σ²_q).
func (w *Writer) AppendTheta(muM, muQ, sigma2M, sigma2Q float64) error {
	return w.thetas.write([]string{fstr(muM), fstr(muQ), fstr(sigma2M), fstr(sigma2Q)})
}

// AppendPiLogl appends one sample of (log-prior, log-likelihood).
func (w *Writer) AppendPiLogl(pi, logl float64) error {
	return w.pilogl.write([]string{fstr(pi), fstr(logl)})
}

// AppendTiles appends one sample of (tiles_m, tiles_q).
func (w *Writer) AppendTiles(mTiles, qTiles int) error {
	if err := w.mtiles.write([]string{strconv.Itoa(mTiles)}); err != nil {
		return err
	}
	return w.qtiles.write([]string{strconv.Itoa(qTiles)})
}

func writeConcat(c *csvWriter, vals []float64) error {
	row := make([]string, len(vals))
	for i, v := range vals {
		row[i] = fstr(v)
	}
	return c.write(row)
}

// AppendMRates appends one sample of the per-tile migration effects,
// concatenated on a single row.
func (w *Writer) AppendMRates(effects []float64) error { return writeConcat(w.mrates, effects) }

// AppendQRates appends one sample of the per-tile coalescence effects.
func (w *Writer) AppendQRates(effects []float64) error { return writeConcat(w.qrates, effects) }

// AppendMSeeds appends one sample of the migration-tessellation seed
// coordinates (x, y concatenated across tiles into two rows).
func (w *Writer) AppendMSeeds(xs, ys []float64) error {
	if err := writeConcat(w.xcoord, xs); err != nil {
		return err
	}
	return writeConcat(w.ycoord, ys)
}

// AppendQSeeds appends one sample of the coalescence-tessellation seed
// coordinates (w, z concatenated across tiles into two rows).
func (w *Writer) AppendQSeeds(ws, zs []float64) error {
	if err := writeConcat(w.wcoord, ws); err != nil {
		return err
	}
	return writeConcat(w.zcoord, zs)
}

// Close flushes and closes every accumulator file.
func (w *Writer) Close() error {
	closers := []*csvWriter{w.thetas, w.pilogl, w.mtiles, w.qtiles, w.mrates, w.qrates, w.xcoord, w.ycoord, w.wcoord, w.zcoord}
	var first error
	for _, c := range closers {
		if err := c.close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// WriteRdist writes the final expected pairwise sharing matrix Λ to
// `rdistJtDobsJtDhatJ.txt`, one row per deme, whitespace-delimited.
func WriteRdist(path string, lambda *mat.SymDense) (err error) {
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
	n, _ := lambda.Dims()
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if j > 0 {
				fmt.Fprint(bw, " ")
			}
			fmt.Fprint(bw, fstr(lambda.At(i, j)))
		}
		fmt.Fprint(bw, "\n")
	}
	return bw.Flush()
}
