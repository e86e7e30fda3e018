package app

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"enigma/internal/cli"
	"enigma/internal/machine"
	"enigma/internal/report"
	"enigma/internal/search"
)

// RunCrack searches for the settings that turn the ciphertext into the known
// plaintext and reports them on stdout.
func RunCrack(ctx context.Context, argv []string, stdout, stderr io.Writer) int {
	fs := cli.NewFlagSet("enigma-crack", "recover Enigma settings from a known plaintext by exhaustive search")
	fs.SetOutput(io.Discard)
	opts, err := cli.ParseCrackArgs(fs, argv)
	if err != nil {
		return parseFailure(fs, stdout, stderr, err)
	}
	logger := cli.NewLogger(stderr, opts.Verbose, opts.Quiet).With(slog.String("component", "enigma-crack"))

	format, err := report.ParseFormat(opts.Format)
	if err != nil {
		errorf(stderr, err)
		return ExitUsage
	}
	plaintext, err := cli.Normalize(opts.Plaintext)
	if err != nil {
		errorf(stderr, err)
		return ExitUsage
	}
	ciphertext, err := ciphertextFor(opts, plaintext, logger)
	if err != nil {
		errorf(stderr, err)
		return codeFor(err)
	}
	space, err := opts.Space()
	if err != nil {
		errorf(stderr, err)
		return ExitUsage
	}

	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	res, err := search.Search(ctx, search.Request{
		Ciphertext: ciphertext,
		Plaintext:  plaintext,
		Space:      space,
		Workers:    opts.Workers,
		Logger:     logger,
	})
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			errorf(stderr, fmt.Errorf("search interrupted after %d of %d candidates: %w", res.Evaluated, res.Candidates, err))
			return ExitCancelled
		}
		errorf(stderr, err)
		return codeFor(err)
	}

	outw := bufio.NewWriter(stdout)
	if err := report.WriteResult(outw, format, res); err != nil {
		errorf(stderr, err)
		return ExitFailure
	}
	if err := outw.Flush(); err != nil {
		errorf(stderr, fmt.Errorf("error writing output: %w", err))
		return ExitFailure
	}
	if !res.Found {
		return opts.NoMatchExitCode
	}
	return ExitOK
}

// ciphertextFor returns the normalised -ciphertext, or encrypts the plaintext
// with the -key-* settings when no ciphertext was given.
func ciphertextFor(opts cli.CrackOptions, plaintext string, logger *slog.Logger) (string, error) {
	if opts.Ciphertext != "" {
		ct, err := cli.Normalize(opts.Ciphertext)
		if err != nil {
			return "", err
		}
		if len(ct) != len(plaintext) {
			return "", &machine.ConfigurationError{
				Field:  "plaintext",
				Reason: fmt.Sprintf("length %d does not match ciphertext length %d", len(plaintext), len(ct)),
			}
		}
		return ct, nil
	}
	cfg, err := opts.Machine.Config()
	if err != nil {
		return "", err
	}
	ct, err := machine.Encrypt(cfg, plaintext)
	if err != nil {
		return "", err
	}
	logger.Info("ciphertext generated", slog.String("key", cfg.String()), slog.String("ciphertext", ct))
	return ct, nil
}
