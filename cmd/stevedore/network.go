package main

import (
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/rwx-research/stevedore-cli/internal/errors"
)

// repositoryNetwork lists the file paths tracked at HEAD of the enclosing git repository. The set
// is used to recover source files when computing test display names. Outside a repository it
// returns nil, which disables the lookup.
func repositoryNetwork() (map[string]struct{}, error) {
	repository, err := git.PlainOpenWithOptions(".", &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, errors.Wrap(err, "unable to open git repository")
	}

	head, err := repository.Head()
	if err != nil {
		return nil, errors.Wrap(err, "unable to read HEAD")
	}

	commit, err := repository.CommitObject(head.Hash())
	if err != nil {
		return nil, errors.Wrap(err, "unable to read HEAD commit")
	}

	tree, err := commit.Tree()
	if err != nil {
		return nil, errors.Wrap(err, "unable to read HEAD tree")
	}

	network := make(map[string]struct{})
	err = tree.Files().ForEach(func(file *object.File) error {
		network[file.Name] = struct{}{}
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "unable to list repository files")
	}

	return network, nil
}
