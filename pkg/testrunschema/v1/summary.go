package v1

// Summary holds aggregate counts over a collection of test runs.
type Summary struct {
	Tests   int `json:"tests"`
	Failed  int `json:"failed"`
	Passed  int `json:"passed"`
	Skipped int `json:"skipped"`
	Errored int `json:"errored"`
}

// NewSummary computes a Summary for the given test runs.
func NewSummary(testruns []Testrun) Summary {
	summary := Summary{Tests: len(testruns)}

	for _, testrun := range testruns {
		switch testrun.Outcome {
		case OutcomePass:
			summary.Passed++
		case OutcomeFailure:
			summary.Failed++
		case OutcomeSkip:
			summary.Skipped++
		case OutcomeError:
			summary.Errored++
		}
	}

	return summary
}
