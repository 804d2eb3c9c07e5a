package eemsio

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ibdsurface/eems2/habitat"
)

func TestReadCoord(t *testing.T) {
	dir := t.TempDir()
	name := filepath.Join(dir, "test.coord")
	if err := os.WriteFile(name, []byte("1.0 2.0\n3.5 -4.5\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	got, err := ReadCoord(name)
	if err != nil {
		t.Fatal(err)
	}
	want := [][2]float64{{1.0, 2.0}, {3.5, -4.5}}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("ReadCoord() = %v, want %v", got, want)
	}
}

func TestReadOuterDropsClosingVertex(t *testing.T) {
	dir := t.TempDir()
	name := filepath.Join(dir, "test.outer")
	if err := os.WriteFile(name, []byte("0 0\n1 0\n1 1\n0 1\n0 0\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	got, err := ReadOuter(name)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 4 {
		t.Fatalf("ReadOuter() returned %d vertices, want 4 (closing vertex dropped)", len(got))
	}
}

func TestReadSims(t *testing.T) {
	dir := t.TempDir()
	name := filepath.Join(dir, "test.sims")
	if err := os.WriteFile(name, []byte("1 2\n2 3\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	sym, err := ReadSims(name)
	if err != nil {
		t.Fatal(err)
	}
	if sym.At(0, 1) != 2 || sym.At(1, 0) != 2 {
		t.Fatalf("ReadSims() not symmetric: At(0,1)=%v At(1,0)=%v", sym.At(0, 1), sym.At(1, 0))
	}
}

func TestReadGrid(t *testing.T) {
	dir := t.TempDir()
	demesPath := filepath.Join(dir, "g.demes")
	edgesPath := filepath.Join(dir, "g.edges")
	ipmapPath := filepath.Join(dir, "g.ipmap")
	if err := os.WriteFile(demesPath, []byte("0 0\n1 0\n2 0\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(edgesPath, []byte("0 1\n1 2\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(ipmapPath, []byte("0\n2\n2\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	g, ipmap, err := ReadGrid(demesPath, edgesPath, ipmapPath)
	if err != nil {
		t.Fatal(err)
	}
	if g.NumDemes() != 3 {
		t.Fatalf("NumDemes() = %d, want 3", g.NumDemes())
	}
	if !g.Deme(0).Observed || !g.Deme(2).Observed || g.Deme(1).Observed {
		t.Fatalf("observed flags wrong: deme0=%v deme1=%v deme2=%v", g.Deme(0).Observed, g.Deme(1).Observed, g.Deme(2).Observed)
	}
	if len(ipmap) != 3 {
		t.Fatalf("ipmap length = %d, want 3", len(ipmap))
	}
}

func TestWriterCreatesOutputFiles(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWriter(dir)
	if err != nil {
		t.Fatal(err)
	}
	if err := w.AppendTheta(1, 2, 3, 4); err != nil {
		t.Fatal(err)
	}
	if err := w.AppendPiLogl(-1, -2); err != nil {
		t.Fatal(err)
	}
	if err := w.AppendTiles(3, 5); err != nil {
		t.Fatal(err)
	}
	if err := w.AppendMRates([]float64{0.1, -0.2, 0.3}); err != nil {
		t.Fatal(err)
	}
	if err := w.AppendMSeeds([]float64{1, 2}, []float64{3, 4}); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	for _, name := range []string{"mcmcthetas.txt", "mcmcpilogl.txt", "mcmcmtiles.txt", "mcmcqtiles.txt", "mcmcmrates.txt", "mcmcxcoord.txt", "mcmcycoord.txt"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Fatalf("expected output file %s: %v", name, err)
		}
	}
}

func TestCheckpointRoundTrip(t *testing.T) {
	dir := t.TempDir()
	name := filepath.Join(dir, "lastState.txt")

	src := rand64(t)
	c := Checkpoint{
		Iter:     42,
		MuM:      -2.5,
		MuQ:      -6.1,
		Sigma2M:  0.1,
		Sigma2Q:  0.2,
		Nu:       9,
		MSeeds:   []habitat.Point{{X: 1, Y: 2}, {X: 3, Y: 4}},
		MEffects: []float64{0.1, -0.1},
		QSeeds:   []habitat.Point{{X: 5, Y: 6}},
		QEffects: []float64{0.05},
		RNGState: src,
	}
	if err := WriteLastState(name, c); err != nil {
		t.Fatal(err)
	}
	got, err := ReadLastState(name)
	if err != nil {
		t.Fatal(err)
	}
	if got.Iter != c.Iter || got.MuM != c.MuM || len(got.MSeeds) != 2 || len(got.QSeeds) != 1 {
		t.Fatalf("ReadLastState() = %+v, want fields matching %+v", got, c)
	}
}

func rand64(t *testing.T) []byte {
	t.Helper()
	return []byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16}
}
