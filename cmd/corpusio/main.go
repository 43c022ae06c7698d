package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/tinylex/corpusio/internal/cli"
	"github.com/tinylex/corpusio/internal/document"
	"github.com/tinylex/corpusio/internal/verify"
)

// Version information
var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

func main() {
	rootCmd := cli.NewRootCommand(Version, Commit, BuildDate)

	if err := rootCmd.Execute(); err != nil {
		// The library reports fatal conditions as errors and leaves
		// terminating to the embedding program; this is that program.
		switch {
		case errors.Is(err, verify.ErrSpecUnresolved):
			fmt.Fprintf(os.Stderr, "no such file: %v\n", err)
		case errors.Is(err, document.ErrFileVanished):
			fmt.Fprintf(os.Stderr, "input disappeared mid-run: %v\n", err)
		default:
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
		os.Exit(1)
	}
}
