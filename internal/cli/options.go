package cli

import (
	"flag"
	"fmt"
	"strings"
	"time"

	"enigma/internal/keyspace"
	"enigma/internal/machine"
)

// NewFlagSet returns a FlagSet with ContinueOnError and a short usage banner.
func NewFlagSet(name, summary string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "%s: %s\n\nUsage of %s:\n", name, summary, name)
		fs.PrintDefaults()
	}
	return fs
}

func registerMachine(fs *flag.FlagSet, o *MachineOptions, prefix string) {
	fs.StringVar(&o.Rotors, prefix+"rotors", "I,II,III", "Rotor selection, left to right (e.g., I,II,III)")
	fs.StringVar(&o.Reflector, prefix+"reflector", "B", "Reflector type (A, B, or C)")
	fs.StringVar(&o.Rings, prefix+"rings", "AAA", "Ring settings (e.g., AAA, MCK)")
	fs.StringVar(&o.Positions, prefix+"positions", "AAA", "Initial rotor start positions (e.g., AAA, MCK)")
	plugs := "p"
	if prefix != "" {
		plugs = prefix + "plugs"
	}
	fs.StringVar(&o.Plugs, plugs, "", "Plugboard connections (e.g., AB CD EF)")
	if prefix != "" {
		return
	}
	for i, name := range []string{"first", "second", "third"} {
		fs.IntVar(&o.PositionNumbers[i], fmt.Sprintf("r%d", i+1), 0, fmt.Sprintf("Position of %s rotor (1-26), overrides -positions", name))
		fs.IntVar(&o.RingNumbers[i], fmt.Sprintf("ring%d", i+1), 0, fmt.Sprintf("Ring setting of %s rotor (1-26), overrides -rings", name))
	}
}

// EncryptOptions configures the enigma command.
type EncryptOptions struct {
	Machine    MachineOptions
	RoundTrip  bool
	ShowConfig bool
	Format     string
	Verbose    bool
	Quiet      bool
}

// ParseEncryptArgs registers the enigma flags on fs and parses argv.
func ParseEncryptArgs(fs *flag.FlagSet, argv []string) (EncryptOptions, error) {
	var o EncryptOptions
	registerMachine(fs, &o.Machine, "")
	fs.BoolVar(&o.RoundTrip, "roundtrip", false, "Print plaintext, ciphertext and the decryption after resetting the rotors")
	fs.BoolVar(&o.ShowConfig, "show-config", false, "Print the machine settings before processing input")
	fs.StringVar(&o.Format, "format", "text", "Settings output format: text, json or yaml")
	fs.BoolVar(&o.Verbose, "v", false, "Verbose logging")
	fs.BoolVar(&o.Quiet, "q", false, "Suppress logging")
	if err := fs.Parse(argv); err != nil {
		return o, err
	}
	if fs.NArg() > 0 {
		return o, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	return o, nil
}

// CrackOptions configures the enigma-crack command.
type CrackOptions struct {
	Ciphertext string
	Plaintext  string
	// Machine is used to produce the ciphertext when none is given.
	Machine MachineOptions

	SearchRotors     string
	SearchReflectors string
	SearchRings      string
	SearchPositions  string
	Plugs            int
	PlugCandidates   string

	Workers         int
	Sequential      bool
	Timeout         time.Duration
	Format          string
	NoMatchExitCode int
	Verbose         bool
	Quiet           bool
}

// ParseCrackArgs registers the enigma-crack flags on fs and parses argv.
func ParseCrackArgs(fs *flag.FlagSet, argv []string) (CrackOptions, error) {
	var o CrackOptions
	fs.StringVar(&o.Ciphertext, "ciphertext", "", "Ciphertext to attack (encrypted from -plaintext with -key-* settings when empty)")
	fs.StringVar(&o.Plaintext, "plaintext", "", "Known plaintext [required]")
	registerMachine(fs, &o.Machine, "key-")

	fs.StringVar(&o.SearchRotors, "rotors", "I,II,III", "Candidate rotors; every ordered triple is tried")
	fs.StringVar(&o.SearchReflectors, "reflectors", "ABC", "Candidate reflectors")
	fs.StringVar(&o.SearchRings, "rings", "", "Candidate ring letters, e.g. A-Z or AB (default all)")
	fs.StringVar(&o.SearchPositions, "positions", "", "Candidate start letters, e.g. A-Z or AB (default all)")
	fs.IntVar(&o.Plugs, "plugs", 0, "Try every subset of the first N candidate plug pairs (AB, AC, ...)")
	fs.StringVar(&o.PlugCandidates, "plug-candidates", "", "Explicit candidate plug pairs, e.g. \"AB CD\" (overrides -plugs)")

	fs.IntVar(&o.Workers, "workers", 0, "Number of worker goroutines (default NumCPU)")
	fs.BoolVar(&o.Sequential, "seq", false, "Search on a single worker")
	fs.DurationVar(&o.Timeout, "timeout", 0, "Give up after this long. Ex: 30s or 1m")
	fs.StringVar(&o.Format, "format", "text", "Output format: text, json or yaml")
	fs.IntVar(&o.NoMatchExitCode, "no-match-exit-code", 1, "Exit code when the search space holds no key")
	fs.BoolVar(&o.Verbose, "v", false, "Verbose logging")
	fs.BoolVar(&o.Quiet, "q", false, "Suppress logging")
	if err := fs.Parse(argv); err != nil {
		return o, err
	}
	if fs.NArg() > 0 {
		return o, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	if o.Plaintext == "" {
		return o, fmt.Errorf("-plaintext is required")
	}
	if o.Plugs < 0 || o.Plugs > keyspace.MaxPlugCandidates {
		return o, fmt.Errorf("-plugs must be between 0 and %d", keyspace.MaxPlugCandidates)
	}
	if o.Sequential {
		o.Workers = 1
	}
	return o, nil
}

// Space builds the search space described by the options.
func (o CrackOptions) Space() (keyspace.Space, error) {
	s := keyspace.Space{Rotors: ParseRotorList(o.SearchRotors)}
	for _, r := range strings.ToUpper(o.SearchReflectors) {
		if r == ',' || r == ' ' {
			continue
		}
		s.Reflectors = append(s.Reflectors, string(r))
	}
	var err error
	if s.Rings, err = ParseLetterSet("ring candidates", o.SearchRings); err != nil {
		return s, err
	}
	if s.Starts, err = ParseLetterSet("position candidates", o.SearchPositions); err != nil {
		return s, err
	}
	if o.PlugCandidates != "" {
		if s.PlugPairs, err = machine.ParsePlugs(o.PlugCandidates); err != nil {
			return s, err
		}
	} else {
		s.PlugPairs = keyspace.CandidatePairs(o.Plugs)
	}
	return s, s.Validate()
}
