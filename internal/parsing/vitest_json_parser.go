package parsing

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rwx-research/stevedore-cli/internal/errors"
	"github.com/rwx-research/stevedore-cli/internal/fs"
	v1 "github.com/rwx-research/stevedore-cli/pkg/testrunschema/v1"
)

// VitestJSONParser parses the output of vitest's JSON reporter.
type VitestJSONParser struct{}

// https://github.com/vitest-dev/vitest/blob/main/packages/vitest/src/node/reporters/json.ts
type vitestAssertionResult struct {
	AncestorTitles  []string `json:"ancestorTitles"`
	Duration        *float64 `json:"duration"` // in milliseconds
	FailureMessages []string `json:"failureMessages"`
	FullName        string   `json:"fullName"`
	Status          string   `json:"status"`
	Title           string   `json:"title"`
}

type vitestTestResult struct {
	AssertionResults []vitestAssertionResult `json:"assertionResults"`
	Message          string                  `json:"message"`
	Name             string                  `json:"name"`
	Status           string                  `json:"status"`
}

type vitestTestResults struct {
	NumFailedTests int                `json:"numFailedTests"`
	NumPassedTests int                `json:"numPassedTests"`
	NumTotalTests  int                `json:"numTotalTests"`
	Success        *bool              `json:"success"`
	TestResults    []vitestTestResult `json:"testResults"`
}

func (p VitestJSONParser) Parse(file fs.ReadOnlyFile) (*v1.ParsingInfo, error) {
	var testResults vitestTestResults

	if err := json.NewDecoder(file).Decode(&testResults); err != nil {
		return nil, errors.NewInputError("Unable to parse test results as JSON: %s", err)
	}
	if testResults.TestResults == nil {
		return nil, errors.NewInputError("No test results were found in the JSON")
	}
	if testResults.Success == nil {
		return nil, errors.NewInputError("Test results do not look like vitest JSON (missing success field)")
	}

	framework := v1.FrameworkVitest
	warnings := make([]string, 0)
	testruns := make([]v1.Testrun, 0)

	for _, testResult := range testResults.TestResults {
		file := testResult.Name

		for _, assertionResult := range testResult.AssertionResults {
			name := assertionResult.FullName
			if name == "" {
				name = strings.Join(append(assertionResult.AncestorTitles, assertionResult.Title), " > ")
			}

			outcome, err := p.outcomeOf(assertionResult)
			if err != nil {
				return nil, err
			}

			var duration *float64
			if assertionResult.Duration != nil {
				seconds := *assertionResult.Duration / 1000
				duration = &seconds
			} else {
				warnings = append(warnings, fmt.Sprintf("Missing duration for testcase %q", name))
			}

			var failureMessage *string
			if len(assertionResult.FailureMessages) > 0 {
				message := strings.Join(assertionResult.FailureMessages, "\n")
				failureMessage = &message
			}

			filename := file
			computedName := v1.ComputeName(file, name, framework, nil, nil)

			testruns = append(testruns, v1.Testrun{
				Name:           name,
				Classname:      file,
				Duration:       duration,
				Outcome:        outcome,
				Testsuite:      file,
				FailureMessage: failureMessage,
				Filename:       &filename,
				ComputedName:   &computedName,
			})
		}
	}

	parsingInfo := v1.NewParsingInfo(&framework, testruns, warnings)
	return &parsingInfo, nil
}

func (p VitestJSONParser) outcomeOf(assertionResult vitestAssertionResult) (v1.Outcome, error) {
	switch assertionResult.Status {
	case "passed":
		return v1.OutcomePass, nil
	case "failed":
		return v1.OutcomeFailure, nil
	case "skipped", "pending", "todo", "disabled":
		return v1.OutcomeSkip, nil
	default:
		return "", errors.NewInputError("Unexpected status %q for assertion %q", assertionResult.Status, assertionResult.FullName)
	}
}
