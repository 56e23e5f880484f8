package cli

import (
	"context"
	"encoding/json"

	"github.com/rwx-research/stevedore-cli/internal/errors"
	"github.com/rwx-research/stevedore-cli/internal/parsing"
	v1 "github.com/rwx-research/stevedore-cli/pkg/testrunschema/v1"
)

// Parse parses the files supplied in `filepaths` and prints them as formatted JSON to stdout.
func (s Service) Parse(_ context.Context, filepaths []string) error {
	results, err := s.parse(filepaths)
	if err != nil {
		return errors.WithStack(err)
	}

	newOutput, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return s.logError(errors.NewInternalError("Unable to output test results as JSON: %s", err))
	}
	s.Log.Infoln(string(newOutput))

	return nil
}

func (s Service) parse(filepaths []string) ([]v1.ParsingInfo, error) {
	results := make([]v1.ParsingInfo, 0, len(filepaths))

	for _, testResultsFilePath := range filepaths {
		s.Log.Debugf("Attempting to parse %q", testResultsFilePath)

		fd, err := s.FileSystem.Open(testResultsFilePath)
		if err != nil {
			return nil, s.logError(errors.NewSystemError("unable to open file: %s", err))
		}
		defer fd.Close()

		parsingInfo, err := parsing.Parse(fd, s.ParseConfig)
		if err != nil {
			return nil, s.logError(errors.WithStack(err))
		}

		if s.Provider.BuildURL != "" {
			for i := range parsingInfo.Testruns {
				parsingInfo.Testruns[i].BuildURL = &s.Provider.BuildURL
			}
		}

		results = append(results, parsingInfo)
	}

	return results, nil
}
