package eemscfg

import (
	"os"
	"path/filepath"
	"testing"
)

func TestReadWriteRoundTrip(t *testing.T) {
	dir := t.TempDir()
	name := filepath.Join(dir, "params.ini")

	c := Default()
	c.DataPath = "example"
	c.GridPath = "grid"
	c.NDemes = 30
	c.NumMCMCIter = 500
	c.NumThinIter = 10

	if err := Write(name, c); err != nil {
		t.Fatal(err)
	}

	got, err := Read(name)
	if err != nil {
		t.Fatal(err)
	}
	if got.DataPath != c.DataPath || got.NDemes != c.NDemes || got.NumMCMCIter != c.NumMCMCIter {
		t.Fatalf("Read() after Write() = %+v, want fields matching %+v", got, c)
	}
}

func TestReadRejectsUnknownKey(t *testing.T) {
	dir := t.TempDir()
	name := filepath.Join(dir, "params.ini")
	if err := os.WriteFile(name, []byte("bogusKey = 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Read(name); err == nil {
		t.Fatal("expected ConfigError for unknown key")
	}
}

func TestReadRejectsMalformedLine(t *testing.T) {
	dir := t.TempDir()
	name := filepath.Join(dir, "params.ini")
	if err := os.WriteFile(name, []byte("not-an-assignment\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Read(name); err == nil {
		t.Fatal("expected error for malformed line")
	}
}

func TestValidateCatchesOutOfRangeProb(t *testing.T) {
	c := Default()
	c.NDemes = 10
	c.NegBiProb = 1.5
	if err := c.Validate(); err == nil {
		t.Fatal("expected ConfigError for negBiProb outside (0,1)")
	}
}
