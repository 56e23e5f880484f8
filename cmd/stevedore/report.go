package main

import (
	"github.com/spf13/cobra"

	"github.com/rwx-research/stevedore-cli/internal/errors"
	"github.com/rwx-research/stevedore-cli/internal/fs"
)

var (
	reportOutputPath string
	reportFormat     string

	reportCmd = &cobra.Command{
		Use:   "report [file...]",
		Short: "Renders a markdown summary of test results files",
		Long:  descriptionReport,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filepaths, err := fs.Local{}.GlobMany(args)
			if err != nil {
				return errors.WithDecoration(errors.WithStack(err))
			}

			return errors.WithDecoration(stevedore.Report(cmd.Context(), filepaths, reportOutputPath, reportFormat))
		},
	}
)

func init() {
	reportCmd.Flags().StringVarP(&reportOutputPath, "output", "o", "", "the file to write the summary to (defaults to stdout)")
	reportCmd.Flags().StringVar(&reportFormat, "format", "summary", "the output format, either 'summary' or 'compact'")

	rootCmd.AddCommand(reportCmd)
}
