// Command enigma-crack recovers Enigma settings from a ciphertext and its
// known plaintext by trying every key in the requested space.
//
//	enigma-crack -ciphertext ILBDAAMTAZ -plaintext HELLOWORLD -reflectors B -plugs 3
package main

import (
	"context"
	"os"
	"os/signal"

	"enigma/internal/app"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := app.RunCrack(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
