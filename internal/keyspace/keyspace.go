// Package keyspace enumerates candidate machine settings for an exhaustive
// key search.
//
// The order is reflector, rotor order, ring settings, start positions and
// finally plugboard variants. Sequences are lazy; nothing is materialised
// beyond the per-partition plugboard variant list.
package keyspace

import (
	"iter"
	"slices"

	"enigma/internal/machine"
)

// MaxPlugCandidates bounds the candidate cable list, since every subset of it
// is tried.
const MaxPlugCandidates = 20

// Space is the set of settings to search. Empty Rings or Starts mean all 26
// letters. Empty PlugPairs leaves the plugboard empty.
type Space struct {
	Reflectors []string
	Rotors     []string
	Rings      []int
	Starts     []int
	PlugPairs  []machine.Pair
}

// Point is one fully specified candidate.
type Point struct {
	Reflector string
	Order     [3]string
	Rings     [3]int
	Starts    [3]int
	Plugs     []machine.Pair
}

// Config converts p into a machine setup.
func (p Point) Config() machine.Config {
	cfg := machine.Config{Reflector: p.Reflector, Plugs: slices.Clone(p.Plugs)}
	for i := range cfg.Rotors {
		cfg.Rotors[i] = machine.RotorSetting{Name: p.Order[i], Ring: p.Rings[i], Start: p.Starts[i]}
	}
	return cfg
}

// Partition is one independent slice of the outer dimensions.
type Partition struct {
	Reflector string
	Order     [3]string
	LeftRing  int
}

// Validate checks the space against the catalog.
func (s Space) Validate() error {
	if len(s.Reflectors) == 0 {
		return &machine.ConfigurationError{Field: "reflectors", Reason: "at least one reflector is required"}
	}
	for i, r := range s.Reflectors {
		if !machine.IsReflector(r) {
			return &machine.ConfigurationError{Field: "reflectors", Value: r, Reason: "invalid reflector type"}
		}
		if slices.Contains(s.Reflectors[:i], r) {
			return &machine.ConfigurationError{Field: "reflectors", Value: r, Reason: "listed twice"}
		}
	}
	for i, r := range s.Rotors {
		if !machine.IsRotor(r) {
			return &machine.ConfigurationError{Field: "rotors", Value: r, Reason: "invalid rotor type"}
		}
		if slices.Contains(s.Rotors[:i], r) {
			return &machine.ConfigurationError{Field: "rotors", Value: r, Reason: "listed twice"}
		}
	}
	if len(s.Rotors) < 3 {
		return &machine.ConfigurationError{Field: "rotors", Reason: "at least three distinct rotors are required"}
	}
	if err := checkLetters("rings", s.Rings); err != nil {
		return err
	}
	if err := checkLetters("start positions", s.Starts); err != nil {
		return err
	}
	if len(s.PlugPairs) > MaxPlugCandidates {
		return &machine.ConfigurationError{Field: "plugboard candidates", Reason: "at most 20 candidate pairs can be searched"}
	}
	seen := make([]machine.Pair, 0, len(s.PlugPairs))
	for _, p := range s.PlugPairs {
		if _, err := machine.NewPlugboard([]machine.Pair{p}); err != nil {
			return err
		}
		p = unordered(p)
		if slices.Contains(seen, p) {
			return &machine.ConfigurationError{Field: "plugboard candidates", Value: p.String(), Reason: "listed twice"}
		}
		seen = append(seen, p)
	}
	return nil
}

// unordered puts the lower letter first; AB and BA are the same cable.
func unordered(p machine.Pair) machine.Pair {
	if p.B < p.A {
		p.A, p.B = p.B, p.A
	}
	return p
}

func checkLetters(field string, letters []int) error {
	for i, c := range letters {
		if c < 0 || c >= machine.Letters {
			return &machine.ConfigurationError{Field: field, Reason: "letters must be A-Z"}
		}
		if slices.Contains(letters[:i], c) {
			return &machine.ConfigurationError{Field: field, Value: string(machine.Letter(c)), Reason: "listed twice"}
		}
	}
	return nil
}

func (s Space) rings() []int { return orAll(s.Rings) }
func (s Space) starts() []int { return orAll(s.Starts) }

func orAll(letters []int) []int {
	if len(letters) > 0 {
		return letters
	}
	all := make([]int, machine.Letters)
	for i := range all {
		all[i] = i
	}
	return all
}

// Orders returns every ordered choice of three distinct rotors.
func (s Space) Orders() [][3]string {
	var out [][3]string
	for _, a := range s.Rotors {
		for _, b := range s.Rotors {
			if b == a {
				continue
			}
			for _, c := range s.Rotors {
				if c == a || c == b {
					continue
				}
				out = append(out, [3]string{a, b, c})
			}
		}
	}
	return out
}

// Partitions slices the space by reflector, rotor order and left ring so that
// workers can take them independently.
func (s Space) Partitions() []Partition {
	orders := s.Orders()
	rings := s.rings()
	out := make([]Partition, 0, len(s.Reflectors)*len(orders)*len(rings))
	for _, ref := range s.Reflectors {
		for _, o := range orders {
			for _, r := range rings {
				out = append(out, Partition{Reflector: ref, Order: o, LeftRing: r})
			}
		}
	}
	return out
}

// Points yields every candidate inside one partition. The yielded Point's
// Plugs slice is shared with later points and must not be modified.
func (s Space) Points(p Partition) iter.Seq[Point] {
	rings, starts := s.rings(), s.starts()
	plugs := PlugSubsets(s.PlugPairs)
	return func(yield func(Point) bool) {
		pt := Point{Reflector: p.Reflector, Order: p.Order}
		pt.Rings[0] = p.LeftRing
		for _, r1 := range rings {
			pt.Rings[1] = r1
			for _, r2 := range rings {
				pt.Rings[2] = r2
				for _, s0 := range starts {
					pt.Starts[0] = s0
					for _, s1 := range starts {
						pt.Starts[1] = s1
						for _, s2 := range starts {
							pt.Starts[2] = s2
							for _, pl := range plugs {
								pt.Plugs = pl
								if !yield(pt) {
									return
								}
							}
						}
					}
				}
			}
		}
	}
}

// All chains every partition in order.
func (s Space) All() iter.Seq[Point] {
	return func(yield func(Point) bool) {
		for _, p := range s.Partitions() {
			for pt := range s.Points(p) {
				if !yield(pt) {
					return
				}
			}
		}
	}
}

// Size is the number of candidates All yields.
func (s Space) Size() uint64 {
	r, st := uint64(len(s.rings())), uint64(len(s.starts()))
	return uint64(len(s.Reflectors)) * uint64(len(s.Orders())) *
		r * r * r * st * st * st * uint64(len(PlugSubsets(s.PlugPairs)))
}
