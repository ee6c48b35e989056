package main

import (
	"context"
	"errors"
	"fmt"
	"os"
)

func main() {
	os.Exit(run())
}

// run executes the root command and returns the process exit status.
// Interrupted runs have already logged their state, so only other errors
// are printed.
func run() int {
	err := newRootCommand().Execute()
	if err == nil {
		return 0
	}
	if !errors.Is(err, context.Canceled) {
		fmt.Fprintf(os.Stderr, "fontmux: %v\n", err)
	}
	return 1
}
