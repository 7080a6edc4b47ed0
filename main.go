// emorecv receives one-byte emotion predictions from an EEG classifier
// over TCP and prints the matching label.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"emorecv/cmd"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := cmd.Execute(ctx, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "emorecv: %v\n", err)
		os.Exit(1)
	}
}
