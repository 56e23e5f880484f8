package reporting

import (
	"fmt"
	"strings"

	v1 "github.com/rwx-research/stevedore-cli/pkg/testrunschema/v1"
)

// BuildMessage renders the compact comment form of the test results: a one-line tally followed by
// a collapsible table of every failed test with its escaped, path-shortened failure message.
func BuildMessage(results []v1.ParsingInfo) string {
	testruns := make([]v1.Testrun, 0)
	for _, result := range results {
		testruns = append(testruns, result.Testruns...)
	}
	summary := v1.NewSummary(testruns)

	message := new(strings.Builder)
	message.WriteString("### :x: Failed Test Results:\n")
	message.WriteString(fmt.Sprintf(
		"Completed %v tests with **`%v failed`**, %v passed and %v skipped.\n",
		summary.Tests, summary.Failed, summary.Passed, summary.Skipped,
	))
	message.WriteString("<details><summary>View the full list of failed tests</summary>\n\n")
	message.WriteString("| **Test Description** | **Failure message** |\n")
	message.WriteString("| :-- | :-- |\n")

	for _, testrun := range testruns {
		if testrun.Outcome != v1.OutcomeFailure {
			continue
		}

		message.WriteString(fmt.Sprintf(
			"| <pre>Testsuite:<br>%v<br><br>Test name:<br>%v<br></pre> | <pre>",
			testrun.Testsuite, displayName(testrun),
		))

		if testrun.FailureMessage == nil {
			message.WriteString("No failure message available")
		} else {
			message.WriteString(EscapeFailureMessage(ShortenFilePaths(*testrun.FailureMessage)))
		}
		message.WriteString("</pre> |\n")
	}

	return message.String()
}
