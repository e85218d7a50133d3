package main

import (
	"context"
	"errors"
	"fmt"
	"os"
)

func main() {
	cmd := newRootCommand()
	if err := cmd.Execute(); err != nil {
		if errors.Is(err, context.Canceled) {
			// Interrupted mid-command (watch, caption); conventional SIGINT code.
			os.Exit(130)
		}
		fmt.Fprintf(os.Stderr, "cutout: %v\n", err)
		os.Exit(1)
	}
}
