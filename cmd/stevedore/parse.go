package main

import (
	"github.com/spf13/cobra"

	"github.com/rwx-research/stevedore-cli/internal/errors"
	"github.com/rwx-research/stevedore-cli/internal/fs"
)

var (
	// parseCmd represents the `parse` sub-command itself
	parseCmd = &cobra.Command{
		Use:   "parse",
		Short: "Parses test results files without uploading them anywhere",
	}

	// parseResultsCmd is the 'results' sub-command of 'parse'
	parseResultsCmd = &cobra.Command{
		Use:   "results [file...]",
		Short: "Parses test results files and prints them as normalized JSON",
		Long:  descriptionParseResults,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filepaths, err := fs.Local{}.GlobMany(args)
			if err != nil {
				return errors.WithDecoration(errors.WithStack(err))
			}

			return errors.WithDecoration(stevedore.Parse(cmd.Context(), filepaths))
		},
	}

	legacyOutPath string

	// parseUploadCmd is the 'upload' sub-command of 'parse'
	parseUploadCmd = &cobra.Command{
		Use:   "upload [file]",
		Short: "Parses a raw test results upload envelope",
		Long:  descriptionParseUpload,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return errors.WithDecoration(stevedore.ParseUpload(cmd.Context(), args[0], legacyOutPath))
		},
	}
)

func init() {
	parseUploadCmd.Flags().StringVar(
		&legacyOutPath, "legacy-out", "",
		"write the decompressed report files in the legacy multi-file format to this path",
	)

	parseCmd.AddCommand(parseResultsCmd)
	parseCmd.AddCommand(parseUploadCmd)
	rootCmd.AddCommand(parseCmd)
}
