package cli

import (
	"context"
	"os"

	"github.com/rwx-research/stevedore-cli/internal/errors"
	"github.com/rwx-research/stevedore-cli/internal/fs"
	"github.com/rwx-research/stevedore-cli/internal/reporting"
)

// Report parses the files supplied in `filepaths` and renders a summary of the results to
// `outputPath`, or to stdout when no output path is given. The format is either "summary" (the
// full markdown summary) or "compact" (the single-comment variant).
func (s Service) Report(_ context.Context, filepaths []string, outputPath string, format string) error {
	if format != "" && format != "summary" && format != "compact" {
		return s.logError(errors.NewConfigurationError("unknown report format %q, expected 'summary' or 'compact'", format))
	}

	results, err := s.parse(filepaths)
	if err != nil {
		return errors.WithStack(err)
	}

	var file fs.File = os.Stdout
	if outputPath != "" {
		file, err = s.FileSystem.Create(outputPath)
		if err != nil {
			return s.logError(errors.NewSystemError("unable to create %q: %s", outputPath, err))
		}
		defer file.Close()
	}

	if format == "compact" {
		if _, err := file.Write([]byte(reporting.BuildMessage(results))); err != nil {
			return s.logError(errors.WithStack(err))
		}

		return nil
	}

	if err := reporting.WriteMarkdownSummary(file, results, s.ReportConfig); err != nil {
		return s.logError(errors.WithStack(err))
	}

	return nil
}
