// Command enigma encrypts or decrypts stdin, one line at a time, with a
// three rotor Enigma.
//
//	echo "HELLO WORLD" | enigma -rotors I,II,III -reflector B -rings AAA -positions AAA -p "AB CD"
package main

import (
	"context"
	"os"
	"os/signal"

	"enigma/internal/app"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := app.RunEncrypt(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
