package machine

import (
	"errors"
	"testing"
)

func TestPlugboardSymmetry(t *testing.T) {
	for _, s := range []string{"", "AB", "KH AB CE IJ", "AZ BY CX DW EV FU GT HS IR JQ KP LO MN"} {
		pairs, err := ParsePlugs(s)
		if err != nil {
			t.Fatal(err)
		}
		pb, err := NewPlugboard(pairs)
		if err != nil {
			t.Fatalf("%q: %v", s, err)
		}
		wired := make(map[int]bool)
		for _, p := range pairs {
			wired[p.A], wired[p.B] = true, true
			if pb.Swap(p.A) != p.B || pb.Swap(p.B) != p.A {
				t.Fatalf("%q: cable %s not wired both ways", s, p)
			}
		}
		for c := 0; c < Letters; c++ {
			if pb.Swap(pb.Swap(c)) != c {
				t.Fatalf("%q: swap twice moved %c", s, Letter(c))
			}
			if !wired[c] && pb.Swap(c) != c {
				t.Fatalf("%q: unwired %c maps to %c", s, Letter(c), Letter(pb.Swap(c)))
			}
		}
	}
}

func TestParsePlugs(t *testing.T) {
	pairs, err := ParsePlugs("kh  AB")
	if err != nil {
		t.Fatal(err)
	}
	if got := FormatPlugs(pairs); got != "KH AB" {
		t.Fatalf("FormatPlugs = %q", got)
	}
	for _, bad := range []string{"A", "ABC", "A1"} {
		_, err := ParsePlugs(bad)
		var ce *ConfigurationError
		if !errors.As(err, &ce) {
			t.Fatalf("%q: expected ConfigurationError, got %v", bad, err)
		}
	}
}

func TestNewPlugboardRejectsReuse(t *testing.T) {
	_, err := NewPlugboard([]Pair{{A: 0, B: 1}, {A: 2, B: 0}})
	if err == nil {
		t.Fatal("expected error for A used twice")
	}
}

func TestCatalog(t *testing.T) {
	if got := Rotors(); len(got) != 5 || got[0] != "I" || got[4] != "V" {
		t.Fatalf("Rotors() = %v", got)
	}
	if got := Reflectors(); len(got) != 3 {
		t.Fatalf("Reflectors() = %v", got)
	}
	for _, name := range Rotors() {
		w := wheels[name]
		for i := 0; i < Letters; i++ {
			if w.rev[w.fwd[i]] != i {
				t.Fatalf("rotor %s: inverse wiring broken at %c", name, Letter(i))
			}
		}
	}
	if _, err := buildWheel("ABCDEFGHIJKLMNOPQRSTUVWXYA", 'A'); err == nil {
		t.Fatal("expected non-bijective wiring to be rejected")
	}
	if _, err := buildReflector("ABCDEFGHIJKLMNOPQRSTUVWXYZ"); err == nil {
		t.Fatal("expected identity reflector to be rejected")
	}
	if _, err := buildReflector(rotorWirings["I"]); err == nil {
		t.Fatal("expected non-involution to be rejected")
	}
}
