package cli

import (
	"context"
	"encoding/json"
	"io"

	"github.com/rwx-research/stevedore-cli/internal/errors"
	"github.com/rwx-research/stevedore-cli/internal/upload"
)

// ParseUpload parses a raw test results upload envelope and prints the parsed results as formatted
// JSON to stdout. When `legacyOutPath` is set, the decompressed report files are additionally
// written there in the legacy `# path=` format.
func (s Service) ParseUpload(_ context.Context, uploadPath string, legacyOutPath string) error {
	fd, err := s.FileSystem.Open(uploadPath)
	if err != nil {
		return s.logError(errors.NewSystemError("unable to open file: %s", err))
	}
	defer fd.Close()

	raw, err := io.ReadAll(fd)
	if err != nil {
		return s.logError(errors.NewSystemError("unable to read %q: %s", uploadPath, err))
	}

	cfg := s.UploadConfig
	if cfg.BuildURL == nil && s.Provider.BuildURL != "" {
		cfg.BuildURL = &s.Provider.BuildURL
	}

	results, legacy, err := upload.ParseRawUpload(raw, cfg)
	if err != nil {
		return s.logError(errors.WithStack(err))
	}

	newOutput, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return s.logError(errors.NewInternalError("Unable to output test results as JSON: %s", err))
	}
	s.Log.Infoln(string(newOutput))

	if legacyOutPath == "" {
		return nil
	}

	legacyFile, err := s.FileSystem.Create(legacyOutPath)
	if err != nil {
		return s.logError(errors.NewSystemError("unable to create %q: %s", legacyOutPath, err))
	}
	defer legacyFile.Close()

	if _, err := legacyFile.Write(legacy); err != nil {
		return s.logError(errors.NewSystemError("unable to write %q: %s", legacyOutPath, err))
	}

	return nil
}
