package machine

import (
	"strings"
)

// Pair is one plugboard cable joining two letters (0..25).
type Pair struct {
	A, B int
}

func (p Pair) String() string {
	return string([]byte{Letter(p.A), Letter(p.B)})
}

// ParsePair parses a two letter cable such as "AB".
func ParsePair(s string) (Pair, error) {
	s = strings.ToUpper(s)
	if len(s) != 2 {
		return Pair{}, &ConfigurationError{Field: "plugboard pair", Value: s, Reason: "must be two letters"}
	}
	a, okA := Index(s[0])
	b, okB := Index(s[1])
	if !okA || !okB {
		return Pair{}, &ConfigurationError{Field: "plugboard pair", Value: s, Reason: "plugboard connections must be between A and Z"}
	}
	return Pair{A: a, B: b}, nil
}

// ParsePlugs parses space separated cables, e.g. "KH AB CE IJ".
// An empty string yields no cables.
func ParsePlugs(s string) ([]Pair, error) {
	fields := strings.Fields(s)
	pairs := make([]Pair, 0, len(fields))
	for _, f := range fields {
		p, err := ParsePair(f)
		if err != nil {
			return nil, err
		}
		pairs = append(pairs, p)
	}
	return pairs, nil
}

// FormatPlugs is the inverse of ParsePlugs.
func FormatPlugs(pairs []Pair) string {
	parts := make([]string, len(pairs))
	for i, p := range pairs {
		parts[i] = p.String()
	}
	return strings.Join(parts, " ")
}

// Plugboard is a symmetric letter swap table. Letters without a cable map to
// themselves.
type Plugboard [Letters]int

// NewPlugboard wires the given cables. Each letter may carry at most one cable.
func NewPlugboard(pairs []Pair) (Plugboard, error) {
	var pb Plugboard
	for i := range pb {
		pb[i] = i
	}
	for _, p := range pairs {
		if p.A < 0 || p.A >= Letters || p.B < 0 || p.B >= Letters {
			return Plugboard{}, &ConfigurationError{Field: "plugboard pair", Value: p.String(), Reason: "plugboard connections must be between A and Z"}
		}
		if p.A == p.B {
			return Plugboard{}, &ConfigurationError{Field: "plugboard pair", Value: p.String(), Reason: "a letter cannot be connected to itself"}
		}
		if pb[p.A] != p.A {
			return Plugboard{}, &ConfigurationError{Field: "plugboard pair", Value: p.String(), Reason: "letter " + string(Letter(p.A)) + " is already connected"}
		}
		if pb[p.B] != p.B {
			return Plugboard{}, &ConfigurationError{Field: "plugboard pair", Value: p.String(), Reason: "letter " + string(Letter(p.B)) + " is already connected"}
		}
		pb[p.A] = p.B
		pb[p.B] = p.A
	}
	return pb, nil
}

// Swap passes one letter through the board.
func (pb *Plugboard) Swap(c int) int {
	return pb[c]
}
