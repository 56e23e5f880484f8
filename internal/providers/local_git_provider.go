package providers

import (
	"github.com/go-git/go-git/v5"

	"github.com/rwx-research/stevedore-cli/internal/errors"
)

// MakeLocalGitProvider reads branch, commit sha, and commit message from the git repository at
// path. It carries no build URL; it exists so that local runs still get commit metadata.
func MakeLocalGitProvider(path string) (Provider, error) {
	repository, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return Provider{}, errors.Wrap(err, "unable to open git repository")
	}

	head, err := repository.Head()
	if err != nil {
		return Provider{}, errors.Wrap(err, "unable to read HEAD")
	}

	provider := Provider{
		BranchName:   head.Name().Short(),
		CommitSha:    head.Hash().String(),
		JobTags:      map[string]any{},
		ProviderName: "local",
	}

	commit, err := repository.CommitObject(head.Hash())
	if err == nil {
		provider.AttemptedBy = commit.Author.Name
		provider.CommitMessage = commit.Message
	}

	return provider, nil
}
