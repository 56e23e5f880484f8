package mocks

import (
	"os"

	"github.com/rwx-research/stevedore-cli/internal/errors"
	"github.com/rwx-research/stevedore-cli/internal/fs"
)

// FileSystem is a mocked implementation of 'fs.FileSystem'.
type FileSystem struct {
	MockCreate   func(filePath string) (fs.File, error)
	MockOpen     func(name string) (fs.File, error)
	MockGlob     func(pattern string) ([]string, error)
	MockGlobMany func(patterns []string) ([]string, error)
	MockRemove   func(name string) error
	MockStat     func(name string) (os.FileInfo, error)
}

// Create either calls the configured mock of itself or returns an error if that doesn't exist.
func (f *FileSystem) Create(filePath string) (fs.File, error) {
	if f.MockCreate != nil {
		return f.MockCreate(filePath)
	}

	return nil, errors.NewConfigurationError("MockCreate was not configured")
}

func (f *FileSystem) Open(name string) (fs.File, error) {
	if f.MockOpen != nil {
		return f.MockOpen(name)
	}

	return nil, errors.NewConfigurationError("MockOpen was not configured")
}

func (f *FileSystem) Glob(pattern string) ([]string, error) {
	if f.MockGlob != nil {
		return f.MockGlob(pattern)
	}

	return nil, errors.NewConfigurationError("MockGlob was not configured")
}

func (f *FileSystem) GlobMany(patterns []string) ([]string, error) {
	if f.MockGlobMany != nil {
		return f.MockGlobMany(patterns)
	}

	return nil, errors.NewConfigurationError("MockGlobMany was not configured")
}

func (f *FileSystem) Remove(name string) error {
	if f.MockRemove != nil {
		return f.MockRemove(name)
	}

	return errors.NewConfigurationError("MockRemove was not configured")
}

func (f *FileSystem) Stat(name string) (os.FileInfo, error) {
	if f.MockStat != nil {
		return f.MockStat(name)
	}

	return nil, errors.NewConfigurationError("MockStat was not configured")
}
