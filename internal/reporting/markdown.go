package reporting

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"text/template"

	"github.com/acarl005/stripansi"

	"github.com/rwx-research/stevedore-cli/internal/errors"
	"github.com/rwx-research/stevedore-cli/internal/fs"
	v1 "github.com/rwx-research/stevedore-cli/pkg/testrunschema/v1"
)

type markdownFailure struct {
	Name       string
	RunTime    string
	Fence      string
	StackTrace string
	BuildURL   string
}

const (
	oneMB                    = 1000000
	markdownResultsTruncated = "\n\nYour results have been truncated; markdown summarization has a 1MB limit."
	markdownFailureTemplate  = `<details>
<summary><strong>{{ .Name }}</strong> | {{ .RunTime }}</summary>

{{ .Fence }}
{{ .StackTrace }}
{{ .Fence }}
{{ if .BuildURL }}
[View]({{ .BuildURL }}) the CI Build
{{ end }}
</details>
`
)

// WriteMarkdownSummary renders a markdown summary of the parsed test results to file: a failure
// headline, a table of outcome counts, and a collapsible list of the failed tests ordered by
// shortest run time. Rendering is deterministic for the same input.
func WriteMarkdownSummary(file fs.File, results []v1.ParsingInfo, cfg Configuration) error {
	testruns := make([]v1.Testrun, 0)
	for _, result := range results {
		testruns = append(testruns, result.Testruns...)
	}
	summary := v1.NewSummary(testruns)

	markdown := new(strings.Builder)
	if _, err := markdown.WriteString(
		fmt.Sprintf("### :x: %v %v Failed:\n", summary.Failed, pluralize(summary.Failed, "Test", "Tests")),
	); err != nil {
		return errors.WithStack(err)
	}

	if err := writeMarkdownCountsTable(markdown, summary); err != nil {
		return errors.WithStack(err)
	}

	failures := failuresByShortestRunTime(testruns)
	if len(failures) > cfg.maxFailures() {
		failures = failures[:cfg.maxFailures()]
	}

	if _, err := markdown.WriteString(
		fmt.Sprintf(
			"<details><summary>View the top %v failed tests by shortest run time</summary>\n\n",
			cfg.maxFailures(),
		),
	); err != nil {
		return errors.WithStack(err)
	}

	parsedTemplate, err := template.New("markdownFailureTemplate").Parse(markdownFailureTemplate)
	if err != nil {
		return errors.WithStack(err)
	}

	for _, failure := range failures {
		failureMarkdown := new(strings.Builder)
		if err := parsedTemplate.Execute(failureMarkdown, newMarkdownFailure(failure)); err != nil {
			return errors.WithStack(err)
		}

		if oneMB-markdown.Len()-failureMarkdown.Len()-len(markdownResultsTruncated) <= 0 {
			if _, err := markdown.WriteString(markdownResultsTruncated); err != nil {
				return errors.WithStack(err)
			}
			if _, err := file.Write([]byte(markdown.String())); err != nil {
				return errors.WithStack(err)
			}
			return nil
		}

		if _, err := markdown.WriteString(failureMarkdown.String()); err != nil {
			return errors.WithStack(err)
		}
	}

	if _, err := markdown.WriteString("</details>\n"); err != nil {
		return errors.WithStack(err)
	}

	if _, err := file.Write([]byte(markdown.String())); err != nil {
		return errors.WithStack(err)
	}

	return nil
}

func writeMarkdownCountsTable(markdown *strings.Builder, summary v1.Summary) error {
	if _, err := markdown.WriteString("| Tests completed | Failed | Passed | Skipped |\n"); err != nil {
		return errors.WithStack(err)
	}
	if _, err := markdown.WriteString("| --- | --- | --- | --- |\n"); err != nil {
		return errors.WithStack(err)
	}
	if _, err := markdown.WriteString(
		fmt.Sprintf("| %v | %v | %v | %v |\n", summary.Tests, summary.Failed, summary.Passed, summary.Skipped),
	); err != nil {
		return errors.WithStack(err)
	}

	return nil
}

// failuresByShortestRunTime returns the failed test runs ordered by ascending duration. Failures
// without a recorded duration sort last; ties keep their original order so rendering stays stable.
func failuresByShortestRunTime(testruns []v1.Testrun) []v1.Testrun {
	failures := make([]v1.Testrun, 0)
	for _, testrun := range testruns {
		if testrun.Outcome == v1.OutcomeFailure {
			failures = append(failures, testrun)
		}
	}

	sort.SliceStable(failures, func(i, j int) bool {
		left, right := failures[i].Duration, failures[j].Duration
		switch {
		case left == nil:
			return false
		case right == nil:
			return true
		default:
			return *left < *right
		}
	})

	return failures
}

func newMarkdownFailure(testrun v1.Testrun) markdownFailure {
	runTime := "Unknown run time"
	if testrun.Duration != nil {
		runTime = fmt.Sprintf("%vs run time", strconv.FormatFloat(*testrun.Duration, 'f', -1, 64))
	}

	stackTrace := "No failure message available"
	if testrun.FailureMessage != nil {
		stackTrace = stripansi.Strip(*testrun.FailureMessage)
	}

	buildURL := ""
	if testrun.BuildURL != nil {
		buildURL = *testrun.BuildURL
	}

	return markdownFailure{
		Name:       displayName(testrun),
		RunTime:    runTime,
		Fence:      fenceFor(stackTrace),
		StackTrace: stackTrace,
		BuildURL:   buildURL,
	}
}

func displayName(testrun v1.Testrun) string {
	if testrun.ComputedName != nil {
		return *testrun.ComputedName
	}

	return testrun.Name
}

// fenceFor returns a code fence marker longer than any backtick run inside contents, so that
// embedded fences do not terminate the block early.
func fenceFor(contents string) string {
	longest := 0
	current := 0
	for _, c := range contents {
		if c == '`' {
			current++
			if current > longest {
				longest = current
			}
		} else {
			current = 0
		}
	}

	length := longest + 1
	if length < 3 {
		length = 3
	}

	return strings.Repeat("`", length)
}

func pluralize(count int, singular string, plural string) string {
	if count == 1 {
		return singular
	}

	return plural
}
