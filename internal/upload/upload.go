// Package upload implements parsing of raw test results uploads: a JSON envelope holding one or more
// base64-encoded, zlib-compressed JUnit XML report files, plus the list of files present in the
// repository ("network") that is used to compute display names.
package upload

import (
	"bytes"
	"compress/zlib"
	"encoding/base64"
	"encoding/json"
	"io"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/rwx-research/stevedore-cli/internal/errors"
	"github.com/rwx-research/stevedore-cli/internal/fs"
	"github.com/rwx-research/stevedore-cli/internal/parsing"
	v1 "github.com/rwx-research/stevedore-cli/pkg/testrunschema/v1"
)

// TestResultFile is a single report file inside the upload envelope.
type TestResultFile struct {
	Filename string `json:"filename"`
	Format   string `json:"format"`
	Data     string `json:"data"`
}

// RawTestResultUpload is the upload envelope as submitted by a CI job.
type RawTestResultUpload struct {
	Network          []string         `json:"network"`
	TestResultsFiles []TestResultFile `json:"test_results_files"`
}

// Config holds the configuration for parsing raw uploads.
type Config struct {
	Logger *zap.SugaredLogger

	// BuildURL, when set, is stamped onto every parsed test run.
	BuildURL *string

	// MaxParallelism bounds how many report files are parsed concurrently. Defaults to 4.
	MaxParallelism int
}

func (c Config) Validate() error {
	if c.Logger == nil {
		return errors.NewInternalError("No logger was provided")
	}

	if c.MaxParallelism < 0 {
		return errors.NewConfigurationError("parallelism must be >= 0")
	}

	return nil
}

const (
	legacyFormatPrefix = "# path="
	legacyFormatSuffix = "<<<<<< EOF"

	defaultMaxParallelism = 4
)

// ParseRawUpload parses a raw upload envelope into one ParsingInfo per report file, in envelope order.
// The second return value holds the residual bytes of the upload: the decompressed report files
// serialized in the legacy `# path=` format, for consumers that post-process the original reports.
//
// Report files are independent of each other & are parsed in parallel; the result is deterministic for
// the same input bytes. Recoverable anomalies end up as warnings on the respective ParsingInfo, while an
// upload that cannot be decoded at all fails with an error.
func ParseRawUpload(raw []byte, cfg Config) ([]v1.ParsingInfo, []byte, error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, errors.WithStack(err)
	}

	if err := validateEnvelope(raw); err != nil {
		return nil, nil, err
	}

	var envelope RawTestResultUpload
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, nil, errors.NewInputError("Error deserializing json: %s", err)
	}

	var network map[string]struct{}
	if envelope.Network != nil {
		network = make(map[string]struct{}, len(envelope.Network))
		for _, path := range envelope.Network {
			network[path] = struct{}{}
		}
	}

	sessionID := uuid.New()
	logger := cfg.Logger.With("upload_session", sessionID.String())
	logger.Debugf("Parsing %d test results files", len(envelope.TestResultsFiles))

	maxParallelism := cfg.MaxParallelism
	if maxParallelism == 0 {
		maxParallelism = defaultMaxParallelism
	}

	results := make([]v1.ParsingInfo, len(envelope.TestResultsFiles))
	contents := make([][]byte, len(envelope.TestResultsFiles))

	var eg errgroup.Group
	eg.SetLimit(maxParallelism)

	for i, file := range envelope.TestResultsFiles {
		i, file := i, file

		eg.Go(func() error {
			decompressed, err := decodeFile(file)
			if err != nil {
				return err
			}

			parser := parsing.JUnitParser{Network: network}
			parsingInfo, err := parser.Parse(fs.VirtualReadOnlyFile{
				Reader:   bytes.NewReader(decompressed),
				FileName: file.Filename,
			})
			if err != nil {
				return errors.WithStack(err)
			}

			if cfg.BuildURL != nil {
				for j := range parsingInfo.Testruns {
					parsingInfo.Testruns[j].BuildURL = cfg.BuildURL
				}
			}

			logger.Debugf("Parsed %q: %d test runs, %d warnings",
				file.Filename, len(parsingInfo.Testruns), len(parsingInfo.Warnings))

			results[i] = *parsingInfo
			contents[i] = decompressed
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, nil, err
	}

	return results, serializeToLegacyFormat(envelope.TestResultsFiles, contents), nil
}

// decodeFile reverses the `base64+compressed` transport encoding of a single report file.
func decodeFile(file TestResultFile) ([]byte, error) {
	decoded, err := base64.StdEncoding.DecodeString(file.Data)
	if err != nil {
		return nil, errors.NewInputError("Error decoding base64 in %q: %s", file.Filename, err)
	}

	reader, err := zlib.NewReader(bytes.NewReader(decoded))
	if err != nil {
		return nil, errors.NewInputError("Error decompressing %q: %s", file.Filename, err)
	}
	defer reader.Close()

	decompressed, err := io.ReadAll(reader)
	if err != nil {
		return nil, errors.NewInputError("Error decompressing %q: %s", file.Filename, err)
	}

	return decompressed, nil
}

// serializeToLegacyFormat renders the decompressed report files in the legacy multi-file format:
//
//	# path=<filename>
//	<contents>
//	<<<<<< EOF
func serializeToLegacyFormat(files []TestResultFile, contents [][]byte) []byte {
	var buf bytes.Buffer

	for i, file := range files {
		buf.WriteString(legacyFormatPrefix)
		buf.WriteString(file.Filename)
		buf.WriteByte('\n')
		buf.Write(contents[i])
		buf.WriteByte('\n')
		buf.WriteString(legacyFormatSuffix)
		buf.WriteByte('\n')
	}

	return buf.Bytes()
}
