// Package fs is a thin wrapper around potential file-systems. By default, it is an abstraction over the `os` package
// from the standard library.
package fs

import (
	"os"
	"sort"

	"github.com/yargevad/filepathx"

	"github.com/rwx-research/stevedore-cli/internal/errors"
)

// Local is a local file-system. It wraps the default `os` package
type Local struct{}

// Create creates a new file, truncating any file that may exist under the same name.
func (l Local) Create(filePath string) (File, error) {
	f, err := os.Create(filePath)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return f, nil
}

// Open opens a file for further processing
func (l Local) Open(name string) (File, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return f, nil
}

// Glob expands a single glob pattern. Unlike `filepath.Glob`, this also supports the `**` pattern for
// recursive matching.
func (l Local) Glob(pattern string) ([]string, error) {
	paths, err := filepathx.Glob(pattern)
	return paths, errors.WithStack(err)
}

// GlobMany expands multiple glob patterns at once, returning a sorted list of unique paths.
func (l Local) GlobMany(patterns []string) ([]string, error) {
	seen := make(map[string]struct{})
	expandedPaths := make([]string, 0)

	for _, pattern := range patterns {
		paths, err := l.Glob(pattern)
		if err != nil {
			return nil, errors.WithStack(err)
		}

		for _, path := range paths {
			if _, ok := seen[path]; ok {
				continue
			}

			seen[path] = struct{}{}
			expandedPaths = append(expandedPaths, path)
		}
	}

	sort.Strings(expandedPaths)
	return expandedPaths, nil
}

// Remove deletes a file from the file-system
func (l Local) Remove(name string) error {
	return errors.WithStack(os.Remove(name))
}

// Stat returns file-information for the given path
func (l Local) Stat(name string) (os.FileInfo, error) {
	info, err := os.Stat(name)
	return info, errors.WithStack(err)
}
