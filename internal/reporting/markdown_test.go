package reporting_test

import (
	"strings"

	"github.com/rwx-research/stevedore-cli/internal/mocks"
	"github.com/rwx-research/stevedore-cli/internal/reporting"
	v1 "github.com/rwx-research/stevedore-cli/pkg/testrunschema/v1"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func durationPtr(d float64) *float64 {
	return &d
}

func strPtr(s string) *string {
	return &s
}

var _ = Describe("Markdown Summary", func() {
	var (
		mockFile *mocks.File
		results  []v1.ParsingInfo
	)

	BeforeEach(func() {
		mockFile = new(mocks.File)
		mockFile.Builder = new(strings.Builder)

		results = []v1.ParsingInfo{
			{
				Testruns: []v1.Testrun{
					{Name: "passing one", Outcome: v1.OutcomePass, Duration: durationPtr(0.1)},
					{Name: "passing two", Outcome: v1.OutcomePass, Duration: durationPtr(0.2)},
					{Name: "passing three", Outcome: v1.OutcomePass, Duration: durationPtr(0.3)},
					{Name: "passing four", Outcome: v1.OutcomePass, Duration: durationPtr(0.4)},
					{Name: "passing five", Outcome: v1.OutcomePass, Duration: durationPtr(0.5)},
					{Name: "passing six", Outcome: v1.OutcomePass, Duration: durationPtr(0.6)},
					{Name: "passing seven", Outcome: v1.OutcomePass, Duration: durationPtr(0.7)},
					{
						Name:           "slow failure",
						Outcome:        v1.OutcomeFailure,
						Duration:       durationPtr(2.5),
						FailureMessage: strPtr("expected true to equal false"),
					},
					{
						Name:           "fast failure",
						Outcome:        v1.OutcomeFailure,
						Duration:       durationPtr(0.05),
						FailureMessage: strPtr("assert 1 == 2"),
					},
					{Name: "skipped test", Outcome: v1.OutcomeSkip},
				},
			},
		}
	})

	It("renders the failure headline and the counts table", func() {
		Expect(reporting.WriteMarkdownSummary(mockFile, results, reporting.Configuration{})).To(Succeed())

		summary := mockFile.Builder.String()
		Expect(summary).To(HavePrefix("### :x: 2 Tests Failed:\n"))
		Expect(summary).To(ContainSubstring("| Tests completed | Failed | Passed | Skipped |\n"))
		Expect(summary).To(ContainSubstring("| --- | --- | --- | --- |\n"))
		Expect(summary).To(ContainSubstring("| 10 | 2 | 7 | 1 |\n"))
	})

	It("uses the singular headline for a single failure", func() {
		results[0].Testruns = []v1.Testrun{
			{Name: "only failure", Outcome: v1.OutcomeFailure, FailureMessage: strPtr("nope")},
		}

		Expect(reporting.WriteMarkdownSummary(mockFile, results, reporting.Configuration{})).To(Succeed())
		Expect(mockFile.Builder.String()).To(HavePrefix("### :x: 1 Test Failed:\n"))
	})

	It("lists failures ordered by shortest run time", func() {
		Expect(reporting.WriteMarkdownSummary(mockFile, results, reporting.Configuration{})).To(Succeed())

		summary := mockFile.Builder.String()
		Expect(summary).To(ContainSubstring("View the top 5 failed tests by shortest run time"))
		fastIndex := strings.Index(summary, "fast failure")
		slowIndex := strings.Index(summary, "slow failure")
		Expect(fastIndex).To(BeNumerically(">", 0))
		Expect(slowIndex).To(BeNumerically(">", fastIndex))
		Expect(summary).To(ContainSubstring("0.05s run time"))
		Expect(summary).To(ContainSubstring("assert 1 == 2"))
	})

	It("caps the listed failures at the configured maximum", func() {
		results[0].Testruns = []v1.Testrun{
			{Name: "failure one", Outcome: v1.OutcomeFailure, Duration: durationPtr(0.1)},
			{Name: "failure two", Outcome: v1.OutcomeFailure, Duration: durationPtr(0.2)},
			{Name: "failure three", Outcome: v1.OutcomeFailure, Duration: durationPtr(0.3)},
		}

		Expect(reporting.WriteMarkdownSummary(mockFile, results, reporting.Configuration{MaxFailures: 2})).To(Succeed())

		summary := mockFile.Builder.String()
		Expect(summary).To(ContainSubstring("View the top 2 failed tests by shortest run time"))
		Expect(summary).To(ContainSubstring("failure one"))
		Expect(summary).To(ContainSubstring("failure two"))
		Expect(summary).NotTo(ContainSubstring("failure three"))
	})

	It("links the CI build only when a build URL is present", func() {
		Expect(reporting.WriteMarkdownSummary(mockFile, results, reporting.Configuration{})).To(Succeed())
		Expect(mockFile.Builder.String()).NotTo(ContainSubstring("the CI Build"))

		for i := range results[0].Testruns {
			results[0].Testruns[i].BuildURL = strPtr("https://ci.example.com/builds/42")
		}
		linkedFile := new(mocks.File)
		linkedFile.Builder = new(strings.Builder)

		Expect(reporting.WriteMarkdownSummary(linkedFile, results, reporting.Configuration{})).To(Succeed())
		Expect(linkedFile.Builder.String()).To(
			ContainSubstring("[View](https://ci.example.com/builds/42) the CI Build"),
		)
	})

	It("prefers the computed name for display", func() {
		results[0].Testruns = []v1.Testrun{
			{
				Name:         "test_add",
				ComputedName: strPtr("tests/test_math.py::test_add"),
				Outcome:      v1.OutcomeFailure,
			},
		}

		Expect(reporting.WriteMarkdownSummary(mockFile, results, reporting.Configuration{})).To(Succeed())
		Expect(mockFile.Builder.String()).To(ContainSubstring("tests/test_math.py::test_add"))
	})

	It("sizes the code fence to survive embedded backticks", func() {
		results[0].Testruns = []v1.Testrun{
			{
				Name:           "fenced failure",
				Outcome:        v1.OutcomeFailure,
				FailureMessage: strPtr("expected ```go\nfmt.Println()\n``` to compile"),
			},
		}

		Expect(reporting.WriteMarkdownSummary(mockFile, results, reporting.Configuration{})).To(Succeed())
		Expect(mockFile.Builder.String()).To(ContainSubstring("````\nexpected"))
	})

	It("strips ANSI escape sequences from stack traces", func() {
		results[0].Testruns = []v1.Testrun{
			{
				Name:           "colorful failure",
				Outcome:        v1.OutcomeFailure,
				FailureMessage: strPtr("\x1b[31mexpected\x1b[0m true"),
			},
		}

		Expect(reporting.WriteMarkdownSummary(mockFile, results, reporting.Configuration{})).To(Succeed())
		Expect(mockFile.Builder.String()).To(ContainSubstring("expected true"))
		Expect(mockFile.Builder.String()).NotTo(ContainSubstring("\x1b"))
	})

	It("still renders the table and an empty section without failures", func() {
		results[0].Testruns = []v1.Testrun{
			{Name: "passing", Outcome: v1.OutcomePass, Duration: durationPtr(0.1)},
		}

		Expect(reporting.WriteMarkdownSummary(mockFile, results, reporting.Configuration{})).To(Succeed())

		summary := mockFile.Builder.String()
		Expect(summary).To(HavePrefix("### :x: 0 Tests Failed:\n"))
		Expect(summary).To(ContainSubstring("| 1 | 0 | 1 | 0 |\n"))
		Expect(summary).To(ContainSubstring("View the top 5 failed tests by shortest run time"))
		Expect(summary).To(HaveSuffix("</details>\n"))
	})

	It("renders the same input identically every time", func() {
		Expect(reporting.WriteMarkdownSummary(mockFile, results, reporting.Configuration{})).To(Succeed())

		again := new(mocks.File)
		again.Builder = new(strings.Builder)
		Expect(reporting.WriteMarkdownSummary(again, results, reporting.Configuration{})).To(Succeed())

		Expect(again.Builder.String()).To(Equal(mockFile.Builder.String()))
	})
})
