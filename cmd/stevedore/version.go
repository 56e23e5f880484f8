package main

import (
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Prints the CLI version",
	Run: func(_ *cobra.Command, _ []string) {
		stevedore.PrintVersion()
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
