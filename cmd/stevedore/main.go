// Package main holds the main command line interface for Stevedore. The package itself is mainly
// concerned with configuring the necessary options before passing control to `internal/cli`, which
// holds the business logic itself.
package main

import (
	"os"
)

func main() {
	// Logging is expected to take place in `internal/cli`, as text output is the primary way of
	// communicating to a user on the terminal and is therefore one of our main concerns.
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
