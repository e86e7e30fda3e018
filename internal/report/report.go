// Package report renders machine settings and search outcomes.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"enigma/internal/machine"
	"enigma/internal/search"
)

// Format selects an output encoding.
type Format string

const (
	Text Format = "text"
	JSON Format = "json"
	YAML Format = "yaml"
)

// ParseFormat accepts text, json or yaml (case-insensitive).
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case Text, JSON, YAML:
		return f, nil
	}
	return "", fmt.Errorf("unknown output format %q (want text, json or yaml)", s)
}

// Key is the printable form of a machine.Config.
type Key struct {
	Reflector string   `json:"reflector" yaml:"reflector"`
	Rotors    string   `json:"rotors" yaml:"rotors"`
	Rings     string   `json:"rings" yaml:"rings"`
	Start     string   `json:"start" yaml:"start"`
	Plugs     []string `json:"plugs,omitempty" yaml:"plugs,omitempty"`
}

// Outcome is the printable form of a search.Result.
type Outcome struct {
	RunID      string `json:"run_id" yaml:"run_id"`
	Found      bool   `json:"found" yaml:"found"`
	Key        *Key   `json:"key,omitempty" yaml:"key,omitempty"`
	Plaintext  string `json:"plaintext,omitempty" yaml:"plaintext,omitempty"`
	Candidates uint64 `json:"candidates" yaml:"candidates"`
	Evaluated  uint64 `json:"evaluated" yaml:"evaluated"`
	Workers    int    `json:"workers" yaml:"workers"`
	Elapsed    string `json:"elapsed" yaml:"elapsed"`
}

// KeyOf converts cfg.
func KeyOf(cfg machine.Config) Key {
	k := Key{
		Reflector: cfg.Reflector,
		Rotors:    cfg.RotorOrder(),
		Rings:     cfg.Rings(),
		Start:     cfg.Starts(),
	}
	for _, p := range cfg.Plugs {
		k.Plugs = append(k.Plugs, p.String())
	}
	return k
}

// OutcomeOf converts res.
func OutcomeOf(res search.Result) Outcome {
	o := Outcome{
		RunID:      res.RunID.String(),
		Found:      res.Found,
		Candidates: res.Candidates,
		Evaluated:  res.Evaluated,
		Workers:    res.Workers,
		Elapsed:    res.Elapsed.String(),
	}
	if res.Found {
		k := KeyOf(res.Config)
		o.Key = &k
		o.Plaintext = res.Plaintext
	}
	return o
}

// WriteConfig renders cfg to w.
func WriteConfig(w io.Writer, f Format, cfg machine.Config) error {
	k := KeyOf(cfg)
	if f == Text {
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		writeKey(tw, k)
		return tw.Flush()
	}
	return encode(w, f, k)
}

// WriteResult renders res to w.
func WriteResult(w io.Writer, f Format, res search.Result) error {
	o := OutcomeOf(res)
	if f != Text {
		return encode(w, f, o)
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	if o.Found {
		fmt.Fprintln(tw, "Found!")
	} else {
		fmt.Fprintln(tw, "Not found.")
	}
	fmt.Fprintf(tw, "run\t%s\n", o.RunID)
	if o.Key != nil {
		writeKey(tw, *o.Key)
		fmt.Fprintf(tw, "plaintext\t%s\n", o.Plaintext)
	}
	fmt.Fprintf(tw, "evaluated\t%d of %d\n", o.Evaluated, o.Candidates)
	fmt.Fprintf(tw, "workers\t%d\n", o.Workers)
	fmt.Fprintf(tw, "elapsed\t%s\n", o.Elapsed)
	return tw.Flush()
}

func writeKey(w io.Writer, k Key) {
	fmt.Fprintf(w, "reflector\t%s\n", k.Reflector)
	fmt.Fprintf(w, "rotors\t%s\n", k.Rotors)
	fmt.Fprintf(w, "rings\t%s\n", k.Rings)
	fmt.Fprintf(w, "start\t%s\n", k.Start)
	plugs := strings.Join(k.Plugs, " ")
	if plugs == "" {
		plugs = "none"
	}
	fmt.Fprintf(w, "plugs\t%s\n", plugs)
}

func encode(w io.Writer, f Format, v any) error {
	switch f {
	case JSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("json encode: %w", err)
		}
		return nil
	case YAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("yaml encode: %w", err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("yaml encode: %w", err)
		}
		return nil
	}
	return fmt.Errorf("unknown output format %q", f)
}
