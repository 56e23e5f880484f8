// Package parsing holds the functionality to attempt to parse a test results file and the parsers
// themselves. Each parser produces the normalized test run schema or an error; the orchestrator in this
// file probes the configured parsers in order. An upload in an unknown format is a normal, reportable
// outcome rather than an error.
package parsing

import (
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/rwx-research/stevedore-cli/internal/errors"
	"github.com/rwx-research/stevedore-cli/internal/fs"
	v1 "github.com/rwx-research/stevedore-cli/pkg/testrunschema/v1"
)

type Config struct {
	Parsers []Parser
	Logger  *zap.SugaredLogger
}

func (c Config) Validate() error {
	if len(c.Parsers) == 0 {
		return errors.NewInternalError("No parsers were provided")
	}

	if c.Logger == nil {
		return errors.NewInternalError("No logger was provided")
	}

	return nil
}

// Parse attempts to parse a test results file with each configured parser in order, returning the result
// of the first parser that understands the format. When no parser does, the returned ParsingInfo has a
// nil framework, no test runs, and a warning naming the file; this mirrors how unrecognized uploads are
// reported further down the pipeline.
func Parse(file fs.ReadOnlyFile, cfg Config) (v1.ParsingInfo, error) {
	if err := cfg.Validate(); err != nil {
		return v1.ParsingInfo{}, errors.WithStack(err)
	}

	for _, parser := range cfg.Parsers {
		if err := rewind(file); err != nil {
			return v1.ParsingInfo{}, err
		}

		parsingInfo, err := parser.Parse(file)
		if err != nil {
			cfg.Logger.Debugf("%T was not capable of parsing %q. Error: %v", parser, file.Name(), err)
			continue
		}
		if parsingInfo == nil {
			return v1.ParsingInfo{}, errors.NewInternalError("%T did not error and did not return a result", parser)
		}

		cfg.Logger.Debugf("%T was capable of parsing %q.", parser, file.Name())
		return *parsingInfo, nil
	}

	cfg.Logger.Warnf(
		"Could not determine the test results format of %q. "+
			"Stevedore supports JUnit XML, pytest reportlog and vitest JSON files.",
		file.Name(),
	)

	return v1.NewParsingInfo(nil, nil, []string{
		fmt.Sprintf("Unable to determine the test results format of %s", file.Name()),
	}), nil
}

func rewind(file fs.ReadOnlyFile) error {
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return errors.NewSystemError("Unable to rewind file: %s", err)
	}

	return nil
}
