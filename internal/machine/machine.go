// Package machine simulates a three rotor Enigma with a reflector and a
// plugboard.
//
// A Machine is built from a Config and owns all of its mutable state, so
// independent machines can run concurrently without coordination. Encrypting
// and decrypting are the same operation; decrypting requires a machine at the
// same start positions that were used to encrypt (see Reset).
package machine

import (
	"fmt"
	"slices"
	"strings"
)

// RotorSetting binds a catalog rotor to one of the three slots.
// Ring and Start are letter indices and are reduced modulo 26.
type RotorSetting struct {
	Name  string
	Ring  int
	Start int
}

// Config is a complete machine setup. Rotors run left, middle, right.
type Config struct {
	Rotors    [3]RotorSetting
	Reflector string
	Plugs     []Pair
}

// DefaultConfig is I-II-III, rings AAA, start AAA, reflector B, no plugs.
func DefaultConfig() Config {
	return Config{
		Rotors: [3]RotorSetting{
			{Name: "I"},
			{Name: "II"},
			{Name: "III"},
		},
		Reflector: "B",
	}
}

// Validate checks rotor identities, the reflector and the plugboard.
func (c Config) Validate() error {
	for i, r := range c.Rotors {
		if !IsRotor(r.Name) {
			return &ConfigurationError{Field: "rotor", Value: r.Name, Reason: "invalid rotor type"}
		}
		for j := 0; j < i; j++ {
			if c.Rotors[j].Name == r.Name {
				return &ConfigurationError{Field: "rotor order", Value: c.RotorOrder(), Reason: "rotors must be distinct"}
			}
		}
	}
	if !IsReflector(c.Reflector) {
		return &ConfigurationError{Field: "reflector", Value: c.Reflector, Reason: "invalid reflector type"}
	}
	_, err := NewPlugboard(c.Plugs)
	return err
}

// RotorOrder renders the rotor names as "I-II-III".
func (c Config) RotorOrder() string {
	return c.Rotors[0].Name + "-" + c.Rotors[1].Name + "-" + c.Rotors[2].Name
}

// Rings renders the ring settings as letters, e.g. "AAA".
func (c Config) Rings() string {
	return string([]byte{Letter(c.Rotors[0].Ring), Letter(c.Rotors[1].Ring), Letter(c.Rotors[2].Ring)})
}

// Starts renders the start positions as letters.
func (c Config) Starts() string {
	return string([]byte{Letter(c.Rotors[0].Start), Letter(c.Rotors[1].Start), Letter(c.Rotors[2].Start)})
}

func (c Config) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "reflector=%s rotors=%s rings=%s start=%s", c.Reflector, c.RotorOrder(), c.Rings(), c.Starts())
	if len(c.Plugs) > 0 {
		fmt.Fprintf(&b, " plugs=%q", FormatPlugs(c.Plugs))
	}
	return b.String()
}

// Clone returns a copy that shares no memory with c.
func (c Config) Clone() Config {
	c.Plugs = slices.Clone(c.Plugs)
	return c
}

type rotor struct {
	*wheel
	ring int
	pos  int
}

func (r *rotor) atNotch() bool { return r.pos == r.notch }

func (r *rotor) advance() { r.pos = mod(r.pos + 1) }

func (r *rotor) forward(c int) int {
	shift := r.pos - r.ring
	return mod(r.fwd[mod(c+shift)] - shift)
}

func (r *rotor) backward(c int) int {
	shift := r.pos - r.ring
	return mod(r.rev[mod(c+shift)] - shift)
}

// Machine is one configured machine instance.
type Machine struct {
	cfg       Config
	rotors    [3]rotor
	reflector *[Letters]int
	plugboard Plugboard
}

// New validates cfg and builds an independent machine at its start positions.
func New(cfg Config) (*Machine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	pb, err := NewPlugboard(cfg.Plugs)
	if err != nil {
		return nil, err
	}
	m := &Machine{
		cfg:       cfg.Clone(),
		reflector: reflections[cfg.Reflector],
		plugboard: pb,
	}
	for i, s := range cfg.Rotors {
		m.rotors[i] = rotor{wheel: wheels[s.Name], ring: mod(s.Ring)}
	}
	m.Reset()
	return m, nil
}

// Config returns the setup the machine was built from.
func (m *Machine) Config() Config {
	return m.cfg.Clone()
}

// Reset moves the rotors back to the configured start positions.
func (m *Machine) Reset() {
	for i := range m.rotors {
		m.rotors[i].pos = mod(m.cfg.Rotors[i].Start)
	}
}

// Positions reports the current window letters as indices, left to right.
func (m *Machine) Positions() [3]int {
	return [3]int{m.rotors[0].pos, m.rotors[1].pos, m.rotors[2].pos}
}

// step advances the rotors before a letter is enciphered. A middle rotor
// sitting on its notch moves together with the left rotor, which gives the
// double step on consecutive key presses.
func (m *Machine) step() {
	left, middle, right := &m.rotors[0], &m.rotors[1], &m.rotors[2]
	switch {
	case middle.atNotch():
		middle.advance()
		left.advance()
	case right.atNotch():
		middle.advance()
	}
	right.advance()
}

func (m *Machine) press(c int) int {
	m.step()

	c = m.plugboard.Swap(c)
	for i := 2; i >= 0; i-- {
		c = m.rotors[i].forward(c)
	}
	c = m.reflector[c]
	for i := 0; i < 3; i++ {
		c = m.rotors[i].backward(c)
	}
	return m.plugboard.Swap(c)
}

// Encrypt runs msg through the machine from its current positions. msg must
// contain only A-Z; anything else fails before a single rotor moves.
func (m *Machine) Encrypt(msg string) (string, error) {
	if err := CheckText("message", msg); err != nil {
		return "", err
	}
	out := make([]byte, len(msg))
	for i := 0; i < len(msg); i++ {
		out[i] = Letter(m.press(int(msg[i] - 'A')))
	}
	return string(out), nil
}

// Transform enciphers src into dst, which must hold at least len(src) bytes.
// Like Encrypt it rejects anything outside A-Z before the rotors move.
func (m *Machine) Transform(dst, src []byte) error {
	if len(dst) < len(src) {
		return fmt.Errorf("enigma: destination holds %d bytes, need %d", len(dst), len(src))
	}
	if err := CheckText("message", string(src)); err != nil {
		return err
	}
	for i, c := range src {
		dst[i] = Letter(m.press(int(c - 'A')))
	}
	return nil
}

// Matches enciphers src from the current positions and reports whether the
// output equals want. It stops at the first differing letter, leaving the
// rotors wherever that happened. A byte outside A-Z in src never matches.
func (m *Machine) Matches(src, want []byte) bool {
	if len(src) != len(want) {
		return false
	}
	for i, c := range src {
		if c < 'A' || c > 'Z' {
			return false
		}
		if Letter(m.press(int(c-'A'))) != want[i] {
			return false
		}
	}
	return true
}

// Encrypt builds a fresh machine from cfg and enciphers msg.
func Encrypt(cfg Config, msg string) (string, error) {
	m, err := New(cfg)
	if err != nil {
		return "", err
	}
	return m.Encrypt(msg)
}

// Decrypt is Encrypt under another name: the machine is its own inverse when
// started from the same positions.
func Decrypt(cfg Config, msg string) (string, error) {
	return Encrypt(cfg, msg)
}
