package search

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"enigma/internal/keyspace"
	"enigma/internal/machine"
)

const weather = "WEATHERREPORTFORTHENORTHSEASECTOR"

func quiet() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func secretConfig() machine.Config {
	return machine.Config{
		Rotors: [3]machine.RotorSetting{
			{Name: "II", Ring: 0, Start: 3},
			{Name: "I", Ring: 1, Start: 0},
			{Name: "III", Ring: 0, Start: 2},
		},
		Reflector: "C",
		Plugs:     []machine.Pair{{A: 0, B: 3}},
	}
}

func spaceAround() keyspace.Space {
	return keyspace.Space{
		Reflectors: []string{"B", "C"},
		Rotors:     []string{"I", "II", "III"},
		Rings:      []int{0, 1},
		Starts:     []int{0, 1, 2, 3},
		PlugPairs:  keyspace.CandidatePairs(3),
	}
}

func encrypt(t *testing.T, cfg machine.Config, msg string) string {
	t.Helper()
	ct, err := machine.Encrypt(cfg, msg)
	if err != nil {
		t.Fatal(err)
	}
	return ct
}

func TestSearchFindsKey(t *testing.T) {
	ct := encrypt(t, secretConfig(), weather)
	for _, workers := range []int{1, 4} {
		res, err := Search(context.Background(), Request{
			Ciphertext: ct,
			Plaintext:  weather,
			Space:      spaceAround(),
			Workers:    workers,
			Logger:     quiet(),
		})
		if err != nil {
			t.Fatalf("workers=%d: %v", workers, err)
		}
		if !res.Found {
			t.Fatalf("workers=%d: key not found after %d candidates", workers, res.Evaluated)
		}
		pt, err := machine.Decrypt(res.Config, ct)
		if err != nil {
			t.Fatal(err)
		}
		if pt != weather || res.Plaintext != weather {
			t.Fatalf("workers=%d: recovered %s decrypts to %s", workers, res.Config, pt)
		}
		if res.Evaluated == 0 || res.Evaluated > res.Candidates {
			t.Fatalf("evaluated %d of %d", res.Evaluated, res.Candidates)
		}
		if res.RunID.String() == "" || res.Workers != workers {
			t.Fatalf("unexpected result metadata %+v", res)
		}
	}
}

func TestSearchHelloWorldDefaultKey(t *testing.T) {
	ct := encrypt(t, machine.DefaultConfig(), "HELLOWORLD")
	res, err := Search(context.Background(), Request{
		Ciphertext: ct,
		Plaintext:  "HELLOWORLD",
		Space: keyspace.Space{
			Reflectors: []string{"A", "B", "C"},
			Rotors:     []string{"I", "II", "III"},
			Rings:      []int{0},
			Starts:     []int{0, 1, 2},
		},
		Workers: 3,
		Logger:  quiet(),
	})
	if err != nil {
		t.Fatal(err)
	}
	if !res.Found {
		t.Fatal("expected a key")
	}
	if pt, _ := machine.Decrypt(res.Config, ct); pt != "HELLOWORLD" {
		t.Fatalf("recovered key decrypts to %s", pt)
	}
}

func TestSearchNotFound(t *testing.T) {
	ct := encrypt(t, secretConfig(), weather)
	space := spaceAround()
	space.Reflectors = []string{"A", "B"}
	res, err := Search(context.Background(), Request{
		Ciphertext: ct,
		Plaintext:  weather,
		Space:      space,
		Workers:    3,
		Logger:     quiet(),
	})
	if err != nil {
		t.Fatalf("NotFound must not be an error, got %v", err)
	}
	if res.Found {
		t.Fatalf("unexpected key %s", res.Config)
	}
	if res.Evaluated != space.Size() {
		t.Fatalf("evaluated %d, want the whole space of %d", res.Evaluated, space.Size())
	}
}

func TestSearchStopsAllWorkersAfterFirstMatch(t *testing.T) {
	var buf bytes.Buffer
	var mu sync.Mutex
	logger := slog.New(slog.NewTextHandler(&lockedWriter{w: &buf, mu: &mu}, nil))

	var matches atomic.Int64
	const workers = 8
	res, err := Search(context.Background(), Request{
		Ciphertext: "ABCDEFGHIJ",
		Match: func(string) bool {
			matches.Add(1)
			return true
		},
		Space: keyspace.Space{
			Reflectors: machine.Reflectors(),
			Rotors:     machine.Rotors(),
		},
		Workers: workers,
		Logger:  logger,
	})
	if err != nil {
		t.Fatal(err)
	}
	if !res.Found {
		t.Fatal("expected the seeded match to be reported")
	}
	// Each worker finishes at most the candidate it was on when the flag went up.
	if res.Evaluated > workers {
		t.Fatalf("evaluated %d candidates after an immediate match with %d workers", res.Evaluated, workers)
	}
	if n := matches.Load(); n < 1 || n > workers {
		t.Fatalf("predicate matched %d times", n)
	}
	mu.Lock()
	defer mu.Unlock()
	if n := strings.Count(buf.String(), "key found"); n != 1 {
		t.Fatalf("key reported %d times:\n%s", n, buf.String())
	}
}

func TestSearchPredicateMatch(t *testing.T) {
	ct := encrypt(t, secretConfig(), weather)
	res, err := Search(context.Background(), Request{
		Ciphertext: ct,
		Match:      func(s string) bool { return strings.HasPrefix(s, "WEATHERREPORT") },
		Space:      spaceAround(),
		Workers:    2,
		Logger:     quiet(),
	})
	if err != nil {
		t.Fatal(err)
	}
	if !res.Found || !strings.HasPrefix(res.Plaintext, "WEATHERREPORT") {
		t.Fatalf("unexpected result %+v", res)
	}
}

func TestSearchRejectsMalformedRequest(t *testing.T) {
	cases := []struct {
		name string
		req  Request
	}{
		{"length mismatch", Request{Ciphertext: "ABC", Plaintext: "ABCD", Space: spaceAround()}},
		{"empty", Request{Ciphertext: "", Plaintext: "", Space: spaceAround()}},
		{"non letter", Request{Ciphertext: "AB C", Plaintext: "ABCD", Space: spaceAround()}},
		{"lower plaintext", Request{Ciphertext: "ABCD", Plaintext: "abcd", Space: spaceAround()}},
		{"bad space", Request{Ciphertext: "ABCD", Plaintext: "ABCD", Space: keyspace.Space{Reflectors: []string{"B"}, Rotors: []string{"I", "I", "II"}}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tc.req.Logger = quiet()
			_, err := Search(context.Background(), tc.req)
			var ce *machine.ConfigurationError
			if !errors.As(err, &ce) {
				t.Fatalf("expected ConfigurationError, got %v", err)
			}
		})
	}
}

func TestSearchHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res, err := Search(ctx, Request{
		Ciphertext: "ABCDEFGHIJ",
		Plaintext:  "ZZZZZZZZZZ",
		Space:      keyspace.Space{Reflectors: machine.Reflectors(), Rotors: machine.Rotors()},
		Workers:    4,
		Logger:     quiet(),
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if res.Found {
		t.Fatal("cancelled search reported a key")
	}
}

func TestSearchTimeoutIsDistinguishableFromNotFound(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	res, err := Search(ctx, Request{
		Ciphertext: "ABCDEFGHIJ",
		Plaintext:  "ZZZZZZZZZZ",
		Space:      keyspace.Space{Reflectors: machine.Reflectors(), Rotors: machine.Rotors()},
		Workers:    2,
		Logger:     quiet(),
	})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
	if res.Evaluated >= res.Candidates {
		t.Fatalf("evaluated the whole space before the deadline")
	}
}

type lockedWriter struct {
	w  io.Writer
	mu *sync.Mutex
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}
