package machine

import "fmt"

var rotorWirings = map[string]string{
	"I":   "EKMFLGDQVZNTOWYHXUSPAIBRCJ",
	"II":  "AJDKSIRUXBLHWTMCQGZNPYFVOE",
	"III": "BDFHJLCPRTXVZNYEIWGAKMUSQO",
	"IV":  "ESOVPZJAYQUIRHXLNFTGKDCMWB",
	"V":   "VZBRGITYUPSDNHLXAWMJQOFECK",
}

// Window letter a rotor shows when its pawl catches the rotor to its left.
var rotorNotches = map[string]byte{
	"I":   'Q',
	"II":  'E',
	"III": 'V',
	"IV":  'J',
	"V":   'Z',
}

var reflectorWirings = map[string]string{
	"A": "EJMZALYXVBWFCRQUONTSPIKHGD",
	"B": "YRUHQSLDPXNGOKMIEBFZCWVJAT",
	"C": "FVPJIAOYEDRZXWGCTKUQSBNMHL",
}

var (
	rotorOrder     = []string{"I", "II", "III", "IV", "V"}
	reflectorOrder = []string{"A", "B", "C"}
)

type wheel struct {
	fwd   [Letters]int
	rev   [Letters]int
	notch int
}

var (
	wheels      = make(map[string]*wheel, len(rotorWirings))
	reflections = make(map[string]*[Letters]int, len(reflectorWirings))
)

func init() {
	for _, name := range rotorOrder {
		w, err := buildWheel(rotorWirings[name], rotorNotches[name])
		if err != nil {
			panic(fmt.Sprintf("machine: rotor %s: %v", name, err))
		}
		wheels[name] = w
	}
	for _, name := range reflectorOrder {
		r, err := buildReflector(reflectorWirings[name])
		if err != nil {
			panic(fmt.Sprintf("machine: reflector %s: %v", name, err))
		}
		reflections[name] = r
	}
}

func buildWheel(wiring string, notch byte) (*wheel, error) {
	if len(wiring) != Letters {
		return nil, fmt.Errorf("wiring has %d letters", len(wiring))
	}
	n, ok := Index(notch)
	if !ok {
		return nil, fmt.Errorf("notch %q outside A-Z", notch)
	}
	w := &wheel{notch: n}
	for i := range w.rev {
		w.rev[i] = -1
	}
	for i := 0; i < Letters; i++ {
		c, ok := Index(wiring[i])
		if !ok {
			return nil, fmt.Errorf("wiring letter %q outside A-Z", wiring[i])
		}
		if w.rev[c] != -1 {
			return nil, fmt.Errorf("wiring is not a bijection: %c used twice", wiring[i])
		}
		w.fwd[i] = c
		w.rev[c] = i
	}
	return w, nil
}

func buildReflector(wiring string) (*[Letters]int, error) {
	if len(wiring) != Letters {
		return nil, fmt.Errorf("wiring has %d letters", len(wiring))
	}
	var t [Letters]int
	for i := 0; i < Letters; i++ {
		c, ok := Index(wiring[i])
		if !ok {
			return nil, fmt.Errorf("wiring letter %q outside A-Z", wiring[i])
		}
		t[i] = c
	}
	for i, c := range t {
		if c == i {
			return nil, fmt.Errorf("%c reflects to itself", Letter(i))
		}
		if t[c] != i {
			return nil, fmt.Errorf("not an involution at %c", Letter(i))
		}
	}
	return &t, nil
}

// Rotors lists the rotor catalog in its conventional order.
func Rotors() []string {
	return append([]string(nil), rotorOrder...)
}

// Reflectors lists the reflector catalog.
func Reflectors() []string {
	return append([]string(nil), reflectorOrder...)
}

// IsRotor reports whether name is in the rotor catalog.
func IsRotor(name string) bool {
	_, ok := wheels[name]
	return ok
}

// IsReflector reports whether name is in the reflector catalog.
func IsReflector(name string) bool {
	_, ok := reflections[name]
	return ok
}
