package cli

import (
	stevedore "github.com/rwx-research/stevedore-cli"
)

// PrintVersion prints the CLI version to stdout.
func (s Service) PrintVersion() {
	s.Log.Infoln(stevedore.Version)
}
