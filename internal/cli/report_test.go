package cli_test

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/rwx-research/stevedore-cli/internal/cli"
	"github.com/rwx-research/stevedore-cli/internal/errors"
	"github.com/rwx-research/stevedore-cli/internal/fs"
	"github.com/rwx-research/stevedore-cli/internal/mocks"
	"github.com/rwx-research/stevedore-cli/internal/parsing"
	"github.com/rwx-research/stevedore-cli/internal/providers"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Report", func() {
	var (
		ctx        context.Context
		service    cli.Service
		outputFile *mocks.File
	)

	BeforeEach(func() {
		ctx = context.Background()

		outputFile = new(mocks.File)
		outputFile.Builder = new(strings.Builder)

		fileSystem := new(mocks.FileSystem)
		fileSystem.MockOpen = func(name string) (fs.File, error) {
			return newMockFile(name, junitFixture), nil
		}
		fileSystem.MockCreate = func(filePath string) (fs.File, error) {
			return outputFile, nil
		}

		service = cli.Service{
			Log:        zap.NewNop().Sugar(),
			FileSystem: fileSystem,
		}
		service.ParseConfig = parsing.Config{
			Parsers: []parsing.Parser{parsing.JUnitParser{}},
			Logger:  service.Log,
		}
	})

	It("writes the markdown summary to the output file", func() {
		Expect(service.Report(ctx, []string{"report.xml"}, "summary.md", "summary")).To(Succeed())

		summary := outputFile.Builder.String()
		Expect(summary).To(HavePrefix("### :x: 1 Test Failed:\n"))
		Expect(summary).To(ContainSubstring("| 2 | 1 | 1 | 0 |"))
		Expect(summary).To(ContainSubstring("test_subtract"))
	})

	It("defaults to the markdown summary when no format is given", func() {
		Expect(service.Report(ctx, []string{"report.xml"}, "summary.md", "")).To(Succeed())
		Expect(outputFile.Builder.String()).To(HavePrefix("### :x: 1 Test Failed:\n"))
	})

	It("links the CI build when the provider carries a build URL", func() {
		service.Provider = providers.Provider{
			BuildURL:     "https://ci.example.com/builds/9",
			ProviderName: "buildkite",
		}

		Expect(service.Report(ctx, []string{"report.xml"}, "summary.md", "summary")).To(Succeed())
		Expect(outputFile.Builder.String()).To(
			ContainSubstring("[View](https://ci.example.com/builds/9) the CI Build"),
		)
	})

	It("writes the compact message when the compact format is requested", func() {
		Expect(service.Report(ctx, []string{"report.xml"}, "message.md", "compact")).To(Succeed())

		message := outputFile.Builder.String()
		Expect(message).To(HavePrefix("### :x: Failed Test Results:\n"))
		Expect(message).To(ContainSubstring("Completed 2 tests with **`1 failed`**, 1 passed and 0 skipped."))
		Expect(message).To(ContainSubstring("| **Test Description** | **Failure message** |"))
		Expect(message).To(ContainSubstring("test_subtract"))
	})

	It("rejects unknown formats", func() {
		err := service.Report(ctx, []string{"report.xml"}, "summary.md", "shouting")

		Expect(err).To(HaveOccurred())
		_, ok := errors.AsConfigurationError(err)
		Expect(ok).To(BeTrue())
		Expect(err.Error()).To(ContainSubstring(`unknown report format "shouting"`))
	})
})
