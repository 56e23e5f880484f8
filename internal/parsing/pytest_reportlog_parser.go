package parsing

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rwx-research/stevedore-cli/internal/errors"
	"github.com/rwx-research/stevedore-cli/internal/fs"
	v1 "github.com/rwx-research/stevedore-cli/pkg/testrunschema/v1"
)

// PytestReportlogParser parses the JSON-lines output of the `pytest-reportlog` plugin. Each test case
// produces up to three `TestReport` records (setup, call & teardown); they are merged into a single test
// run with their durations summed.
type PytestReportlogParser struct {
	Network map[string]struct{}
}

type pytestReportlogSessionStart struct {
	PytestVersion *string `json:"pytest_version"`
	ReportType    *string `json:"$report_type"`
}

// This is a subset of the failed longrepr because it's quite challenging to model in Go
type pytestReportlogFailedLongrepr struct {
	Reprcrash struct {
		Path    string `json:"path"`
		Lineno  int    `json:"lineno"`
		Message string `json:"message"`
	} `json:"reprcrash"`
}

type pytestReportlogTestReport struct {
	Nodeid     string          `json:"nodeid"`
	Location   []any           `json:"location"` // ["test_top_level.py", 0, "test_top_level_passing"]
	Outcome    string          `json:"outcome"`  // failed, passed, skipped
	Longrepr   json.RawMessage `json:"longrepr"`
	When       string          `json:"when"`
	Duration   float64         `json:"duration"` // in seconds
	ReportType string          `json:"$report_type"`
}

func (p PytestReportlogParser) Parse(file fs.ReadOnlyFile) (*v1.ParsingInfo, error) {
	decoder := json.NewDecoder(file)

	var sessionStart pytestReportlogSessionStart
	if err := decoder.Decode(&sessionStart); err != nil {
		return nil, errors.NewInputError("Unable to parse test results as JSON: %s", err)
	}
	if sessionStart.ReportType == nil || *sessionStart.ReportType != "SessionStart" {
		return nil, errors.NewInputError(
			"Test results do not look like a pytest reportlog (SessionStart report type missing)",
		)
	}
	if sessionStart.PytestVersion == nil {
		return nil, errors.NewInputError(
			"Test results do not look like a pytest reportlog (Missing pytest version)",
		)
	}

	framework := v1.FrameworkPytest
	warnings := make([]string, 0)

	nodeids := make([]string, 0)
	testrunsByNodeid := make(map[string]*v1.Testrun)

	for decoder.More() {
		var report pytestReportlogTestReport
		if err := decoder.Decode(&report); err != nil {
			return nil, errors.NewInputError("Unable to parse test results as JSON: %s", err)
		}
		if report.ReportType != "TestReport" {
			continue
		}

		outcome, err := p.outcomeOf(report)
		if err != nil {
			return nil, err
		}

		var filename *string
		if len(report.Location) > 0 {
			if file, ok := report.Location[0].(string); ok {
				filename = &file
			}
		}
		if filename == nil {
			warnings = append(warnings, fmt.Sprintf("Missing location for testcase %q", report.Nodeid))
		}

		failureMessage := p.failureMessageOf(report)

		if existing, ok := testrunsByNodeid[report.Nodeid]; ok {
			if existing.Duration != nil {
				duration := *existing.Duration + report.Duration
				existing.Duration = &duration
			}

			// A skipped test never runs its call phase, and a failed one must not be overwritten by a
			// passing teardown.
			if existing.Outcome == v1.OutcomeSkip || existing.Outcome == v1.OutcomeFailure || existing.Outcome == v1.OutcomeError {
				continue
			}

			existing.Outcome = outcome
			if failureMessage != nil {
				existing.FailureMessage = failureMessage
			}

			continue
		}

		duration := report.Duration
		name, classname := splitPytestNodeid(report.Nodeid, filename)
		computedName := v1.ComputeName(classname, name, framework, filename, p.Network)

		testrunsByNodeid[report.Nodeid] = &v1.Testrun{
			Name:           name,
			Classname:      classname,
			Duration:       &duration,
			Outcome:        outcome,
			Testsuite:      "pytest",
			FailureMessage: failureMessage,
			Filename:       filename,
			ComputedName:   &computedName,
		}
		nodeids = append(nodeids, report.Nodeid)
	}

	testruns := make([]v1.Testrun, 0, len(nodeids))
	for _, nodeid := range nodeids {
		testruns = append(testruns, *testrunsByNodeid[nodeid])
	}

	parsingInfo := v1.NewParsingInfo(&framework, testruns, warnings)
	return &parsingInfo, nil
}

func (p PytestReportlogParser) outcomeOf(report pytestReportlogTestReport) (v1.Outcome, error) {
	switch report.Outcome {
	case "passed":
		return v1.OutcomePass, nil
	case "skipped":
		return v1.OutcomeSkip, nil
	case "failed":
		// Failures outside of the call phase are errors: the test body itself never ran.
		if report.When != "call" {
			return v1.OutcomeError, nil
		}
		return v1.OutcomeFailure, nil
	default:
		return "", errors.NewInputError("Unexpected test outcome %q for testcase %q", report.Outcome, report.Nodeid)
	}
}

func (p PytestReportlogParser) failureMessageOf(report pytestReportlogTestReport) *string {
	if report.Outcome != "failed" || len(report.Longrepr) == 0 {
		return nil
	}

	var longrepr pytestReportlogFailedLongrepr
	if err := json.Unmarshal(report.Longrepr, &longrepr); err != nil {
		return nil
	}
	if longrepr.Reprcrash.Message == "" {
		return nil
	}

	message := longrepr.Reprcrash.Message
	return &message
}

// splitPytestNodeid decomposes a pytest node ID like `tests/test_parsers.py::TestParsers::test_junit`
// into the test name & a dotted classname (`tests.test_parsers.TestParsers`), mirroring the shape pytest
// itself writes into JUnit XML reports.
func splitPytestNodeid(nodeid string, filename *string) (string, string) {
	components := strings.Split(nodeid, "::")
	name := components[len(components)-1]

	var classComponents []string
	if len(components) > 2 {
		classComponents = components[1 : len(components)-1]
	}

	var moduleComponents []string
	if filename != nil {
		module := strings.TrimSuffix(*filename, ".py")
		moduleComponents = strings.Split(strings.ReplaceAll(module, "/", "."), ".")
	}

	classname := strings.Join(append(moduleComponents, classComponents...), ".")
	return name, classname
}
