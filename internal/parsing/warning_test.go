package parsing_test

import (
	"github.com/rwx-research/stevedore-cli/internal/parsing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("FormatWarnings", func() {
	input := []byte("<testsuite>\n  <testcase/>\n</testsuite>\n")

	It("returns nothing when there are no warnings", func() {
		Expect(parsing.FormatWarnings(input, nil, "results.xml")).To(BeEmpty())
	})

	It("converts byte offsets into line and column positions", func() {
		formatted := parsing.FormatWarnings(
			input,
			[]parsing.Warning{
				{Message: "A `testcase` has no name", Location: 25},
			},
			"results.xml",
		)

		Expect(formatted).To(Equal([]string{
			"A `testcase` has no name ending at 2:13 in results.xml",
		}))
	})

	It("formats multiple warnings in document order", func() {
		formatted := parsing.FormatWarnings(
			input,
			[]parsing.Warning{
				{Message: "first", Location: 11},
				{Message: "second", Location: 25},
				{Message: "third", Location: 38},
			},
			"results.xml",
		)

		Expect(formatted).To(Equal([]string{
			"first ending at 1:11 in results.xml",
			"second ending at 2:13 in results.xml",
			"third ending at 3:12 in results.xml",
		}))
	})

	It("clamps locations beyond the end of the input", func() {
		formatted := parsing.FormatWarnings(
			input,
			[]parsing.Warning{
				{Message: "truncated", Location: 9000},
			},
			"results.xml",
		)

		Expect(formatted).To(Equal([]string{
			"truncated ending at 4:0 in results.xml",
		}))
	})
})
