package upload_test

import (
	"bytes"
	"compress/zlib"
	"encoding/base64"
	"encoding/json"
	"fmt"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/rwx-research/stevedore-cli/internal/errors"
	"github.com/rwx-research/stevedore-cli/internal/logging"
	"github.com/rwx-research/stevedore-cli/internal/upload"
	v1 "github.com/rwx-research/stevedore-cli/pkg/testrunschema/v1"
)

func encodeReport(contents string) string {
	var buf bytes.Buffer
	writer := zlib.NewWriter(&buf)
	_, err := writer.Write([]byte(contents))
	Expect(err).NotTo(HaveOccurred())
	Expect(writer.Close()).To(Succeed())
	return base64.StdEncoding.EncodeToString(buf.Bytes())
}

func encodeEnvelope(envelope upload.RawTestResultUpload) []byte {
	raw, err := json.Marshal(envelope)
	Expect(err).NotTo(HaveOccurred())
	return raw
}

const junitReport = `<?xml version="1.0" encoding="UTF-8"?>
<testsuite name="pytest" tests="2" time="0.5">
  <testcase classname="tests.test_math" name="test_add" time="0.1" />
  <testcase classname="tests.test_math" name="test_subtract" time="0.4">
    <failure message="assert 1 == 2">traceback</failure>
  </testcase>
</testsuite>
`

var _ = Describe("ParseRawUpload", func() {
	var cfg upload.Config

	BeforeEach(func() {
		cfg = upload.Config{Logger: logging.NewNopLogger()}
	})

	It("parses every report file in the envelope, in order", func() {
		raw := encodeEnvelope(upload.RawTestResultUpload{
			TestResultsFiles: []upload.TestResultFile{
				{Filename: "a.xml", Format: "base64+compressed", Data: encodeReport(junitReport)},
				{Filename: "b.xml", Format: "base64+compressed", Data: encodeReport(junitReport)},
			},
		})

		results, _, err := upload.ParseRawUpload(raw, cfg)
		Expect(err).NotTo(HaveOccurred())
		Expect(results).To(HaveLen(2))
		for _, result := range results {
			Expect(result.Testruns).To(HaveLen(2))
			Expect(*result.Framework).To(Equal(v1.FrameworkPytest))
		}
	})

	It("serializes the decompressed reports into the legacy format", func() {
		raw := encodeEnvelope(upload.RawTestResultUpload{
			TestResultsFiles: []upload.TestResultFile{
				{Filename: "report.xml", Format: "base64+compressed", Data: encodeReport(junitReport)},
			},
		})

		_, legacy, err := upload.ParseRawUpload(raw, cfg)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(legacy)).To(Equal(
			fmt.Sprintf("# path=report.xml\n%s\n<<<<<< EOF\n", junitReport),
		))
	})

	It("uses the network to compute pytest display names", func() {
		raw := encodeEnvelope(upload.RawTestResultUpload{
			Network: []string{"tests/test_math.py", "README.md"},
			TestResultsFiles: []upload.TestResultFile{
				{Filename: "report.xml", Format: "base64+compressed", Data: encodeReport(junitReport)},
			},
		})

		results, _, err := upload.ParseRawUpload(raw, cfg)
		Expect(err).NotTo(HaveOccurred())
		Expect(results[0].Testruns[0].ComputedName).NotTo(BeNil())
		Expect(*results[0].Testruns[0].ComputedName).To(Equal("tests/test_math.py::test_add"))
	})

	It("stamps the build URL onto every test run", func() {
		buildURL := "https://ci.example.com/builds/123"
		cfg.BuildURL = &buildURL

		raw := encodeEnvelope(upload.RawTestResultUpload{
			TestResultsFiles: []upload.TestResultFile{
				{Filename: "report.xml", Format: "base64+compressed", Data: encodeReport(junitReport)},
			},
		})

		results, _, err := upload.ParseRawUpload(raw, cfg)
		Expect(err).NotTo(HaveOccurred())
		for _, testrun := range results[0].Testruns {
			Expect(testrun.BuildURL).NotTo(BeNil())
			Expect(*testrun.BuildURL).To(Equal(buildURL))
		}
	})

	It("returns empty results for an envelope without report files", func() {
		raw := encodeEnvelope(upload.RawTestResultUpload{TestResultsFiles: []upload.TestResultFile{}})

		results, legacy, err := upload.ParseRawUpload(raw, cfg)
		Expect(err).NotTo(HaveOccurred())
		Expect(results).To(BeEmpty())
		Expect(legacy).To(BeEmpty())
	})

	It("rejects an envelope that is not valid JSON", func() {
		_, _, err := upload.ParseRawUpload([]byte("not json"), cfg)
		Expect(err).To(HaveOccurred())
		_, ok := errors.AsInputError(err)
		Expect(ok).To(BeTrue())
	})

	It("rejects an envelope missing the test results files", func() {
		_, _, err := upload.ParseRawUpload([]byte(`{"network": []}`), cfg)
		Expect(err).To(HaveOccurred())
		_, ok := errors.AsInputError(err)
		Expect(ok).To(BeTrue())
	})

	It("rejects a report file with invalid base64", func() {
		raw := encodeEnvelope(upload.RawTestResultUpload{
			TestResultsFiles: []upload.TestResultFile{
				{Filename: "report.xml", Format: "base64+compressed", Data: "&&& not base64 &&&"},
			},
		})

		_, _, err := upload.ParseRawUpload(raw, cfg)
		Expect(err).To(HaveOccurred())
		_, ok := errors.AsInputError(err)
		Expect(ok).To(BeTrue())
		Expect(err.Error()).To(ContainSubstring("Error decoding base64"))
	})

	It("rejects a report file that is not zlib compressed", func() {
		raw := encodeEnvelope(upload.RawTestResultUpload{
			TestResultsFiles: []upload.TestResultFile{
				{
					Filename: "report.xml",
					Format:   "base64+compressed",
					Data:     base64.StdEncoding.EncodeToString([]byte("plain text")),
				},
			},
		})

		_, _, err := upload.ParseRawUpload(raw, cfg)
		Expect(err).To(HaveOccurred())
		_, ok := errors.AsInputError(err)
		Expect(ok).To(BeTrue())
		Expect(err.Error()).To(ContainSubstring("Error decompressing"))
	})

	It("requires a logger", func() {
		_, _, err := upload.ParseRawUpload([]byte("{}"), upload.Config{})
		Expect(err).To(HaveOccurred())
		_, ok := errors.AsInternalError(err)
		Expect(ok).To(BeTrue())
	})
})
