// Package stevedore holds global constants for the Stevedore CLI.
package stevedore

// Version is the current version of the Stevedore CLI. It is set during the build process using `ldflags`.
var Version = "unreleased"
