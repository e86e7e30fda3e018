package cli

import (
	"strconv"
	"strings"

	"enigma/internal/machine"
)

// Normalize prepares user text for the machine: whitespace is dropped and
// letters are upper-cased. Anything else is rejected.
func Normalize(msg string) (string, error) {
	s := strings.ToUpper(strings.Join(strings.Fields(msg), ""))
	if err := machine.CheckText("message", s); err != nil {
		return "", err
	}
	return s, nil
}

// ParseRotorList splits "I,II,III" or "I-II-III".
func ParseRotorList(s string) []string {
	f := func(r rune) bool { return r == ',' || r == '-' || r == ' ' }
	return strings.FieldsFunc(strings.ToUpper(s), f)
}

// ParseLetterSet reads letters and ranges such as "A-F" or "AEX" into
// indices. An empty string yields nil.
func ParseLetterSet(field, s string) ([]int, error) {
	s = strings.ToUpper(strings.ReplaceAll(s, " ", ""))
	var out []int
	for i := 0; i < len(s); i++ {
		lo, ok := machine.Index(s[i])
		if !ok {
			return nil, &machine.ConfigurationError{Field: field, Value: s, Reason: "letters must be A-Z"}
		}
		hi := lo
		if i+2 < len(s) && s[i+1] == '-' {
			hi, ok = machine.Index(s[i+2])
			if !ok || hi < lo {
				return nil, &machine.ConfigurationError{Field: field, Value: s, Reason: "bad letter range"}
			}
			i += 2
		}
		for c := lo; c <= hi; c++ {
			out = append(out, c)
		}
	}
	return out, nil
}

// MachineOptions holds the flags that describe one machine setup.
type MachineOptions struct {
	Rotors    string
	Reflector string
	Rings     string
	Positions string
	Plugs     string

	// PositionNumbers and RingNumbers are the numeric -r1..-r3 and
	// -ring1..-ring3 flags. Zero leaves the letter setting alone.
	PositionNumbers [3]int
	RingNumbers     [3]int
}

// Config validates the options and builds the machine setup.
func (o MachineOptions) Config() (machine.Config, error) {
	var cfg machine.Config
	names := ParseRotorList(o.Rotors)
	if len(names) != 3 {
		return cfg, &machine.ConfigurationError{Field: "rotors", Value: o.Rotors, Reason: "exactly three rotors must be specified"}
	}
	rings, err := threeLetters("ring settings", o.Rings)
	if err != nil {
		return cfg, err
	}
	starts, err := threeLetters("rotor positions", o.Positions)
	if err != nil {
		return cfg, err
	}
	if err := overrideNumbers("ring settings", rings, o.RingNumbers); err != nil {
		return cfg, err
	}
	if err := overrideNumbers("rotor positions", starts, o.PositionNumbers); err != nil {
		return cfg, err
	}
	plugs, err := machine.ParsePlugs(o.Plugs)
	if err != nil {
		return cfg, err
	}
	for i := range cfg.Rotors {
		cfg.Rotors[i] = machine.RotorSetting{Name: names[i], Ring: rings[i], Start: starts[i]}
	}
	cfg.Reflector = strings.ToUpper(o.Reflector)
	cfg.Plugs = plugs
	return cfg, cfg.Validate()
}

func threeLetters(field, s string) ([]int, error) {
	s = strings.ToUpper(s)
	if len(s) != 3 {
		return nil, &machine.ConfigurationError{Field: field, Value: s, Reason: "three letters are required, e.g. AAA or MCK"}
	}
	return machine.ParseLetters(field, s)
}

// overrideNumbers replaces letters with 1-based numeric settings where set.
func overrideNumbers(field string, letters []int, nums [3]int) error {
	for i, n := range nums {
		if n == 0 {
			continue
		}
		if n < 1 || n > machine.Letters {
			return &machine.ConfigurationError{Field: field, Value: strconv.Itoa(n), Reason: "numeric settings must be 1-26"}
		}
		letters[i] = n - 1
	}
	return nil
}
