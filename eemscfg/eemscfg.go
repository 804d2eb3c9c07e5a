// Copyright © 2026 The EEMS2-Go Authors
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package eemscfg implements reading and writing of the EEMS2 run
// configuration (spec.md §6), an INI-flavored `key = value` file in
// the line-oriented style the rest of this module's ancestry uses for
// its own parameter files.
package eemscfg

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// ConfigError reports a malformed or out-of-range configuration
// parameter (spec.md §7). It is fatal at startup.
type ConfigError struct {
	Key string
	Msg string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("eemscfg: %s: %s", e.Key, e.Msg)
}

// Config holds every key of spec.md §6.
type Config struct {
	// Paths
	DataPath string
	MCMCPath string
	PrevPath string
	GridPath string

	// Sample sizes
	NIndiv int
	NSites int
	NDemes int

	// Chain lengths
	NumMCMCIter int
	NumBurnIter int
	NumThinIter int

	// Prior shapes
	MrateShape float64
	QrateShape float64

	// Proposal variances
	MEffctProposalS2  float64
	QEffctProposalS2  float64
	MSeedsProposalS2  float64
	QSeedsProposalS2  float64
	MrateMuProposalS2 float64
	QrateMuProposalS2 float64
	DfProposalS2      float64

	// Tile-count prior (negative binomial)
	NegBiSize float64
	NegBiProb float64

	// Effect bounds
	MEffctHalfInterval float64
	QEffctHalfInterval float64

	// Sharing model
	GenomeSize        float64
	RecombinationRate float64
	BlockLengthCutoff float64

	Diploid bool
	Testing bool
}

// Default returns a Config with the constants spec.md names as
// defaults (genome size, and the numerical-resource-policy constants
// that are not themselves configuration keys but need a starting
// point before Read overrides them).
func Default() Config {
	return Config{
		NumMCMCIter:        1000000,
		NumBurnIter:        1000000,
		NumThinIter:        9999,
		MrateShape:         0.001,
		QrateShape:         0.001,
		MEffctProposalS2:   0.1,
		QEffctProposalS2:   0.1,
		MSeedsProposalS2:   0.01,
		QSeedsProposalS2:   0.01,
		MrateMuProposalS2:  0.05,
		QrateMuProposalS2:  0.05,
		DfProposalS2:       1,
		NegBiSize:          10,
		NegBiProb:          0.5,
		MEffctHalfInterval: 0.1,
		QEffctHalfInterval: 0.1,
		GenomeSize:         3e9,
		RecombinationRate:  1e-8,
		BlockLengthCutoff:  2e6,
		Diploid:            true,
	}
}

// fieldSetters maps a lower-cased config key to a setter closure.
// Keeping this as a map (rather than a reflect-based scan) matches the
// teacher's preference for explicit, enumerable parameter keys
// (walkparam.Param) over reflection.
func (c *Config) fieldSetters() map[string]func(string) error {
	setStr := func(dst *string) func(string) error {
		return func(v string) error { *dst = v; return nil }
	}
	setInt := func(key string, dst *int) func(string) error {
		return func(v string) error {
			n, err := strconv.Atoi(strings.TrimSpace(v))
			if err != nil {
				return &ConfigError{Key: key, Msg: fmt.Sprintf("not an integer: %q", v)}
			}
			*dst = n
			return nil
		}
	}
	setFloat := func(key string, dst *float64) func(string) error {
		return func(v string) error {
			f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
			if err != nil {
				return &ConfigError{Key: key, Msg: fmt.Sprintf("not a number: %q", v)}
			}
			*dst = f
			return nil
		}
	}
	setBool := func(key string, dst *bool) func(string) error {
		return func(v string) error {
			b, err := strconv.ParseBool(strings.TrimSpace(v))
			if err != nil {
				return &ConfigError{Key: key, Msg: fmt.Sprintf("not a boolean: %q", v)}
			}
			*dst = b
			return nil
		}
	}

	return map[string]func(string) error{
		"datapath": setStr(&c.DataPath),
		"mcmcpath": setStr(&c.MCMCPath),
		"prevpath": setStr(&c.PrevPath),
		"gridpath": setStr(&c.GridPath),

		"nindiv": setInt("nIndiv", &c.NIndiv),
		"nsites": setInt("nSites", &c.NSites),
		"ndemes": setInt("nDemes", &c.NDemes),

		"nummcmciter": setInt("numMCMCIter", &c.NumMCMCIter),
		"numburniter": setInt("numBurnIter", &c.NumBurnIter),
		"numthiniter": setInt("numThinIter", &c.NumThinIter),

		"mrateshape": setFloat("mrateShape", &c.MrateShape),
		"qrateshape": setFloat("qrateShape", &c.QrateShape),

		"meffctproposals2":  setFloat("mEffctProposalS2", &c.MEffctProposalS2),
		"qeffctproposals2":  setFloat("qEffctProposalS2", &c.QEffctProposalS2),
		"mseedsproposals2":  setFloat("mSeedsProposalS2", &c.MSeedsProposalS2),
		"qseedsproposals2":  setFloat("qSeedsProposalS2", &c.QSeedsProposalS2),
		"mratemuproposals2": setFloat("mrateMuProposalS2", &c.MrateMuProposalS2),
		"qratemuproposals2": setFloat("qrateMuProposalS2", &c.QrateMuProposalS2),
		"dfproposals2":      setFloat("dfProposalS2", &c.DfProposalS2),

		"negbisize": setFloat("negBiSize", &c.NegBiSize),
		"negbiprob": setFloat("negBiProb", &c.NegBiProb),

		"meffcthalfinterval": setFloat("mEffctHalfInterval", &c.MEffctHalfInterval),
		"qeffcthalfinterval": setFloat("qEffctHalfInterval", &c.QEffctHalfInterval),

		"genomesize":        setFloat("genomeSize", &c.GenomeSize),
		"recombinationrate": setFloat("recombinationRate", &c.RecombinationRate),
		"blocklengthcutoff": setFloat("blockLengthCutoff", &c.BlockLengthCutoff),

		"diploid": setBool("diploid", &c.Diploid),
		"testing": setBool("testing", &c.Testing),
	}
}

// Read reads a Config from a `key = value` parameter file, one
// assignment per line, blank lines and lines starting with '#'
// ignored.
func Read(name string) (Config, error) {
	f, err := os.Open(name)
	if err != nil {
		return Config{}, err
	}
	defer f.Close()

	c := Default()
	setters := c.fieldSetters()

	sc := bufio.NewScanner(f)
	ln := 0
	for sc.Scan() {
		ln++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		i := strings.Index(line, "=")
		if i < 0 {
			return Config{}, fmt.Errorf("eemscfg: %s:%d: expecting \"key = value\", got %q", name, ln, line)
		}
		key := strings.ToLower(strings.TrimSpace(line[:i]))
		val := strings.TrimSpace(line[i+1:])

		set, ok := setters[key]
		if !ok {
			return Config{}, &ConfigError{Key: key, Msg: fmt.Sprintf("unknown parameter at %s:%d", name, ln)}
		}
		if err := set(val); err != nil {
			return Config{}, err
		}
	}
	if err := sc.Err(); err != nil {
		return Config{}, err
	}

	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate checks parameter ranges that Read cannot enforce per-field
// (spec.md §7: ConfigError is fatal at startup).
func (c Config) Validate() error {
	if c.NDemes <= 0 {
		return &ConfigError{Key: "nDemes", Msg: "must be positive"}
	}
	if c.NumMCMCIter <= 0 {
		return &ConfigError{Key: "numMCMCIter", Msg: "must be positive"}
	}
	if c.NumThinIter <= 0 {
		return &ConfigError{Key: "numThinIter", Msg: "must be positive"}
	}
	if c.NegBiProb <= 0 || c.NegBiProb >= 1 {
		return &ConfigError{Key: "negBiProb", Msg: "must be in (0, 1)"}
	}
	if c.NegBiSize <= 0 {
		return &ConfigError{Key: "negBiSize", Msg: "must be positive"}
	}
	if c.MEffctHalfInterval <= 0 || c.QEffctHalfInterval <= 0 {
		return &ConfigError{Key: "EffctHalfInterval", Msg: "effect bounds must be positive"}
	}
	if c.GenomeSize <= 0 || c.RecombinationRate <= 0 || c.BlockLengthCutoff <= 0 {
		return &ConfigError{Key: "genomeSize/recombinationRate/blockLengthCutoff", Msg: "must be positive"}
	}
	return nil
}

// Write writes a Config back out in the same `key = value` format,
// preceded by a one-line comment header.
func Write(name string, c Config) (err error) {
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	defer func() {
		e := f.Close()
		if e != nil && err == nil {
			err = e
		}
	}()

	bw := bufio.NewWriter(f)
	fmt.Fprintf(bw, "# eems2 configuration\n")

	pairs := []struct {
		key string
		val string
	}{
		{"datapath", c.DataPath},
		{"mcmcpath", c.MCMCPath},
		{"prevpath", c.PrevPath},
		{"gridpath", c.GridPath},
		{"nIndiv", strconv.Itoa(c.NIndiv)},
		{"nSites", strconv.Itoa(c.NSites)},
		{"nDemes", strconv.Itoa(c.NDemes)},
		{"numMCMCIter", strconv.Itoa(c.NumMCMCIter)},
		{"numBurnIter", strconv.Itoa(c.NumBurnIter)},
		{"numThinIter", strconv.Itoa(c.NumThinIter)},
		{"mrateShape", strconv.FormatFloat(c.MrateShape, 'g', -1, 64)},
		{"qrateShape", strconv.FormatFloat(c.QrateShape, 'g', -1, 64)},
		{"mEffctProposalS2", strconv.FormatFloat(c.MEffctProposalS2, 'g', -1, 64)},
		{"qEffctProposalS2", strconv.FormatFloat(c.QEffctProposalS2, 'g', -1, 64)},
		{"mSeedsProposalS2", strconv.FormatFloat(c.MSeedsProposalS2, 'g', -1, 64)},
		{"qSeedsProposalS2", strconv.FormatFloat(c.QSeedsProposalS2, 'g', -1, 64)},
		{"mrateMuProposalS2", strconv.FormatFloat(c.MrateMuProposalS2, 'g', -1, 64)},
		{"qrateMuProposalS2", strconv.FormatFloat(c.QrateMuProposalS2, 'g', -1, 64)},
		{"dfProposalS2", strconv.FormatFloat(c.DfProposalS2, 'g', -1, 64)},
		{"negBiSize", strconv.FormatFloat(c.NegBiSize, 'g', -1, 64)},
		{"negBiProb", strconv.FormatFloat(c.NegBiProb, 'g', -1, 64)},
		{"mEffctHalfInterval", strconv.FormatFloat(c.MEffctHalfInterval, 'g', -1, 64)},
		{"qEffctHalfInterval", strconv.FormatFloat(c.QEffctHalfInterval, 'g', -1, 64)},
		{"genomeSize", strconv.FormatFloat(c.GenomeSize, 'g', -1, 64)},
		{"recombinationRate", strconv.FormatFloat(c.RecombinationRate, 'g', -1, 64)},
		{"blockLengthCutoff", strconv.FormatFloat(c.BlockLengthCutoff, 'g', -1, 64)},
		{"diploid", strconv.FormatBool(c.Diploid)},
		{"testing", strconv.FormatBool(c.Testing)},
	}
	for _, p := range pairs {
		fmt.Fprintf(bw, "%s = %s\n", p.key, p.val)
	}
	return bw.Flush()
}
