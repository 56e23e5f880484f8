// Package v1 holds the implementation of V1 of the test run schema: the canonical, framework-agnostic
// shape that all parsed test results files are normalized into.
package v1

// MaxFieldLength is the maximum length of any string field on a Testrun. Test cases with longer fields
// are dropped during parsing & surfaced as warnings.
const MaxFieldLength = 1000

// Outcome is the result of a single executed test case.
type Outcome string

const (
	OutcomePass    Outcome = "pass"
	OutcomeFailure Outcome = "failure"
	OutcomeSkip    Outcome = "skip"
	OutcomeError   Outcome = "error"
)

// Testrun is one executed test case in its normalized form. Testruns are constructed once per parse and
// are immutable afterwards.
type Testrun struct {
	Name           string   `json:"name"`
	Classname      string   `json:"classname"`
	Duration       *float64 `json:"duration"` // in seconds
	Outcome        Outcome  `json:"outcome"`
	Testsuite      string   `json:"testsuite"`
	FailureMessage *string  `json:"failure_message"`
	Filename       *string  `json:"filename"`
	BuildURL       *string  `json:"build_url"`
	ComputedName   *string  `json:"computed_name"`

	// Properties holds the nested object assembled from a testcase's `evals.*` property elements.
	// It is nil for test cases without any.
	Properties map[string]any `json:"properties"`
}

// ParsingInfo is the normalized result for one parsed test results file: the detected framework (nil when
// unrecognized), the ordered test runs, and any recoverable anomalies encountered while parsing.
type ParsingInfo struct {
	Framework *Framework `json:"framework"`
	Testruns  []Testrun  `json:"testruns"`
	Warnings  []string   `json:"warnings"`
}

// NewParsingInfo returns a new ParsingInfo. The testruns & warnings sequences may be empty, but are
// never absent.
func NewParsingInfo(framework *Framework, testruns []Testrun, warnings []string) ParsingInfo {
	if testruns == nil {
		testruns = make([]Testrun, 0)
	}

	if warnings == nil {
		warnings = make([]string, 0)
	}

	return ParsingInfo{
		Framework: framework,
		Testruns:  testruns,
		Warnings:  warnings,
	}
}
