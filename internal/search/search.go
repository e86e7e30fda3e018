// Package search recovers machine settings by trying every candidate in a
// keyspace.Space against a known ciphertext/plaintext pair.
//
// Partitions of the space are handed to a fixed set of workers. Each
// candidate gets its own machine, so workers share nothing but a stop flag
// and a write-once result slot.
package search

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"enigma/internal/keyspace"
	"enigma/internal/machine"
)

// checkEvery is how many candidates a worker tries between context checks.
// The stop flag is checked before every candidate.
const checkEvery = 256

// errFound unwinds the worker group once a key has been published.
var errFound = errors.New("search: key found")

// Request describes one search run.
type Request struct {
	Ciphertext string
	// Plaintext is compared for exact equality unless Match is set.
	Plaintext string
	// Match, when set, decides whether a candidate decryption is correct.
	// It is called concurrently from several workers.
	Match   func(candidate string) bool
	Space   keyspace.Space
	Workers int
	Logger  *slog.Logger
}

// Result is the outcome of a search. Found is false when the space was
// exhausted without a match.
type Result struct {
	RunID      uuid.UUID
	Found      bool
	Config     machine.Config
	Plaintext  string
	Candidates uint64
	Evaluated  uint64
	Workers    int
	Elapsed    time.Duration
}

func (r Request) validate() error {
	if r.Ciphertext == "" {
		return &machine.ConfigurationError{Field: "ciphertext", Reason: "must not be empty"}
	}
	if err := machine.CheckText("ciphertext", r.Ciphertext); err != nil {
		return err
	}
	if r.Match == nil {
		if len(r.Plaintext) != len(r.Ciphertext) {
			return &machine.ConfigurationError{
				Field:  "plaintext",
				Reason: fmt.Sprintf("length %d does not match ciphertext length %d", len(r.Plaintext), len(r.Ciphertext)),
			}
		}
		if err := machine.CheckText("plaintext", r.Plaintext); err != nil {
			return err
		}
	}
	return r.Space.Validate()
}

type hit struct {
	cfg       machine.Config
	plaintext string
}

type searcher struct {
	space      keyspace.Space
	ciphertext []byte
	plaintext  []byte
	match      func(string) bool
	logger     *slog.Logger

	stop      atomic.Bool
	found     atomic.Pointer[hit]
	evaluated atomic.Uint64
}

// Search tries candidates until one decrypts req.Ciphertext correctly or the
// space is exhausted. A malformed request yields a *machine.ConfigurationError.
// If ctx ends first, the partial Result is returned together with ctx's error.
func Search(ctx context.Context, req Request) (Result, error) {
	if err := req.validate(); err != nil {
		return Result{}, err
	}
	logger := req.Logger
	if logger == nil {
		logger = slog.Default()
	}
	res := Result{RunID: uuid.New(), Candidates: req.Space.Size()}
	logger = logger.With(slog.String("component", "search"), slog.String("run_id", res.RunID.String()))

	parts := req.Space.Partitions()
	workers := req.Workers
	if workers < 1 {
		workers = runtime.NumCPU()
	}
	if workers > len(parts) {
		workers = len(parts)
	}
	res.Workers = workers

	s := &searcher{
		space:      req.Space,
		ciphertext: []byte(req.Ciphertext),
		plaintext:  []byte(req.Plaintext),
		match:      req.Match,
		logger:     logger,
	}

	logger.Info("search started",
		slog.Int("partitions", len(parts)),
		slog.Uint64("candidates", res.Candidates),
		slog.Int("workers", workers),
		slog.Int("length", len(req.Ciphertext)),
	)
	start := time.Now()

	g, gctx := errgroup.WithContext(ctx)
	jobs := make(chan keyspace.Partition)
	g.Go(func() error {
		defer close(jobs)
		for _, p := range parts {
			select {
			case jobs <- p:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
		return nil
	})
	for w := 0; w < workers; w++ {
		g.Go(func() error {
			return s.work(gctx, jobs)
		})
	}
	err := g.Wait()

	res.Elapsed = time.Since(start)
	res.Evaluated = s.evaluated.Load()

	if h := s.found.Load(); h != nil {
		res.Found = true
		res.Config = h.cfg
		res.Plaintext = h.plaintext
		logger.Info("key found",
			slog.String("key", h.cfg.String()),
			slog.Uint64("evaluated", res.Evaluated),
			slog.Duration("elapsed", res.Elapsed),
		)
		return res, nil
	}
	if err != nil {
		logger.Warn("search interrupted",
			slog.String("error", err.Error()),
			slog.Uint64("evaluated", res.Evaluated),
			slog.Duration("elapsed", res.Elapsed),
		)
		return res, err
	}
	logger.Info("search exhausted",
		slog.Uint64("evaluated", res.Evaluated),
		slog.Duration("elapsed", res.Elapsed),
	)
	return res, nil
}

func (s *searcher) work(ctx context.Context, jobs <-chan keyspace.Partition) error {
	var n uint64
	defer func() { s.evaluated.Add(n) }()

	buf := make([]byte, len(s.ciphertext))
	for p := range jobs {
		s.logger.Debug("partition",
			slog.String("reflector", p.Reflector),
			slog.String("rotors", p.Order[0]+"-"+p.Order[1]+"-"+p.Order[2]),
			slog.String("left_ring", string(machine.Letter(p.LeftRing))),
		)
		for pt := range s.space.Points(p) {
			if s.stop.Load() {
				return errFound
			}
			if n%checkEvery == 0 {
				if err := ctx.Err(); err != nil {
					return err
				}
			}
			n++
			text, ok := s.evaluate(pt, buf)
			if !ok {
				continue
			}
			if s.found.CompareAndSwap(nil, &hit{cfg: pt.Config(), plaintext: text}) {
				s.stop.Store(true)
			}
			return errFound
		}
	}
	return nil
}

// evaluate decrypts the ciphertext with a fresh machine for pt.
func (s *searcher) evaluate(pt keyspace.Point, buf []byte) (string, bool) {
	m, err := machine.New(pt.Config())
	if err != nil {
		panic(fmt.Sprintf("search: enumerated invalid candidate: %v", err))
	}
	if s.match == nil {
		if m.Matches(s.ciphertext, s.plaintext) {
			return string(s.plaintext), true
		}
		return "", false
	}
	if err := m.Transform(buf, s.ciphertext); err != nil {
		panic(fmt.Sprintf("search: ciphertext passed validation but failed: %v", err))
	}
	text := string(buf)
	return text, s.match(text)
}
