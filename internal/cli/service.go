// Package cli holds the main business logic of the CLI: opening and parsing test results files,
// unpacking raw uploads, and rendering summaries. The terminal UI itself is handled by
// `cmd/stevedore`.
package cli

import (
	"go.uber.org/zap"

	"github.com/rwx-research/stevedore-cli/internal/fs"
	"github.com/rwx-research/stevedore-cli/internal/parsing"
	"github.com/rwx-research/stevedore-cli/internal/providers"
	"github.com/rwx-research/stevedore-cli/internal/reporting"
	"github.com/rwx-research/stevedore-cli/internal/upload"
)

// Service is the main CLI service.
type Service struct {
	Log          *zap.SugaredLogger
	FileSystem   fs.FileSystem
	Provider     providers.Provider
	ParseConfig  parsing.Config
	UploadConfig upload.Config
	ReportConfig reporting.Configuration
}

func (s Service) logError(err error) error {
	s.Log.Errorf(err.Error())
	return err
}
