// Package app holds the command bodies behind cmd/enigma and cmd/enigma-crack.
// Both return a process exit code instead of exiting.
package app

import (
	"errors"
	"flag"
	"fmt"
	"io"

	"enigma/internal/machine"
)

// Exit codes shared by both commands.
const (
	ExitOK        = 0
	ExitFailure   = 1
	ExitUsage     = 2
	ExitCancelled = 130
)

func errorf(stderr io.Writer, err error) {
	_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
}

// parseFailure maps a flag parsing error onto an exit code, printing usage
// where it helps.
func parseFailure(fs *flag.FlagSet, stdout, stderr io.Writer, err error) int {
	if errors.Is(err, flag.ErrHelp) {
		fs.SetOutput(stdout)
		fs.Usage()
		return ExitOK
	}
	errorf(stderr, err)
	fs.SetOutput(stderr)
	fs.Usage()
	return ExitUsage
}

// codeFor classifies a failure: malformed settings are usage errors.
func codeFor(err error) int {
	var ce *machine.ConfigurationError
	if errors.As(err, &ce) {
		return ExitUsage
	}
	return ExitFailure
}
