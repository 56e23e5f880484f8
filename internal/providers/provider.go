// Package providers detects the CI environment a report was produced in and derives build
// metadata from it: the build URL, branch, commit, and a set of provider-specific job tags.
package providers

import (
	"github.com/caarlos0/env/v7"

	"github.com/rwx-research/stevedore-cli/internal/errors"
)

type Provider struct {
	AttemptedBy   string
	BranchName    string
	BuildURL      string
	CommitMessage string
	CommitSha     string
	JobTags       map[string]any
	ProviderName  string
}

// Detected reports whether a CI provider (or the local git fallback) was identified.
func (p Provider) Detected() bool {
	return p.ProviderName != "" && p.ProviderName != nullProviderName
}

type Env struct {
	Buildkite BuildkiteEnv
	CircleCI  CircleCIEnv
	GitHub    GitHubEnv
}

// Detect identifies the current CI provider from the process environment. When no provider is
// recognized it falls back to reading metadata from the local git repository, and finally to the
// null provider, which carries no build URL.
func Detect() (Provider, error) {
	var environment Env
	if err := env.Parse(&environment); err != nil {
		return Provider{}, errors.Wrap(err, "unable to parse environment variables")
	}

	return DetectFromEnv(environment)
}

func DetectFromEnv(environment Env) (Provider, error) {
	switch {
	case environment.GitHub.Detected:
		return environment.GitHub.makeProvider()
	case environment.Buildkite.Detected:
		return environment.Buildkite.makeProvider()
	case environment.CircleCI.Detected:
		return environment.CircleCI.makeProvider()
	}

	if provider, err := MakeLocalGitProvider("."); err == nil {
		return provider, nil
	}

	return makeNullProvider(), nil
}
