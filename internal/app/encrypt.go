package app

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"

	"enigma/internal/cli"
	"enigma/internal/machine"
	"enigma/internal/report"
)

// RunEncrypt streams stdin through one machine, a line at a time. Rotor state
// carries over between lines unless roundtrip mode is on, which resets the
// rotors for every line and also prints the decryption.
func RunEncrypt(ctx context.Context, argv []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := cli.NewFlagSet("enigma", "encrypt or decrypt stdin with an Enigma machine")
	fs.SetOutput(io.Discard)
	opts, err := cli.ParseEncryptArgs(fs, argv)
	if err != nil {
		return parseFailure(fs, stdout, stderr, err)
	}
	logger := cli.NewLogger(stderr, opts.Verbose, opts.Quiet).With(slog.String("component", "enigma"))

	format, err := report.ParseFormat(opts.Format)
	if err != nil {
		errorf(stderr, err)
		return ExitUsage
	}
	cfg, err := opts.Machine.Config()
	if err != nil {
		errorf(stderr, err)
		return ExitUsage
	}
	m, err := machine.New(cfg)
	if err != nil {
		errorf(stderr, err)
		return ExitUsage
	}
	logger.Debug("machine ready", slog.String("config", cfg.String()))

	outw := bufio.NewWriter(stdout)
	defer func() { _ = outw.Flush() }()

	if opts.ShowConfig {
		if err := report.WriteConfig(outw, format, cfg); err != nil {
			errorf(stderr, err)
			return ExitFailure
		}
	}

	if err := processIO(ctx, m, opts.RoundTrip, stdin, outw); err != nil {
		errorf(stderr, err)
		if ctx.Err() != nil {
			return ExitCancelled
		}
		return codeFor(err)
	}
	if err := outw.Flush(); err != nil {
		errorf(stderr, fmt.Errorf("error writing output: %w", err))
		return ExitFailure
	}
	return ExitOK
}

func processIO(ctx context.Context, m *machine.Machine, roundTrip bool, r io.Reader, w io.Writer) error {
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		if err := ctx.Err(); err != nil {
			return err
		}
		msg, err := cli.Normalize(scanner.Text())
		if err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
		if roundTrip {
			m.Reset()
		}
		enc, err := m.Encrypt(msg)
		if err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
		if !roundTrip {
			if _, err := fmt.Fprintln(w, enc); err != nil {
				return fmt.Errorf("error writing output: %w", err)
			}
			continue
		}
		// Same start positions as the encryption, or the text will not come back.
		m.Reset()
		dec, err := m.Encrypt(enc)
		if err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
		if _, err := fmt.Fprintf(w, "Plain text:\t%s\nEncrypted:\t%s\nDecrypted:\t%s\n", msg, enc, dec); err != nil {
			return fmt.Errorf("error writing output: %w", err)
		}
	}
	return scanner.Err()
}
