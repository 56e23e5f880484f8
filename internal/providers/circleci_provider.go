package providers

import (
	"github.com/rwx-research/stevedore-cli/internal/errors"
)

type CircleCIEnv struct {
	Detected bool `env:"CIRCLECI"`

	// attempted by
	Username string `env:"CIRCLE_USERNAME"`
	// branch
	Branch string `env:"CIRCLE_BRANCH"`
	// commit sha; note: no commit message
	Sha1 string `env:"CIRCLE_SHA1"`
	// build URL + tags
	BuildNum        string `env:"CIRCLE_BUILD_NUM"`
	BuildURL        string `env:"CIRCLE_BUILD_URL"`
	Job             string `env:"CIRCLE_JOB"`
	ProjectReponame string `env:"CIRCLE_PROJECT_REPONAME"`
	ProjectUsername string `env:"CIRCLE_PROJECT_USERNAME"`
	RepositoryURL   string `env:"CIRCLE_REPOSITORY_URL"`
}

func (cfg CircleCIEnv) makeProvider() (Provider, error) {
	tags, validationError := circleciTags(cfg)
	if validationError != nil {
		return Provider{}, validationError
	}

	provider := Provider{
		AttemptedBy:  cfg.Username,
		BranchName:   cfg.Branch,
		BuildURL:     cfg.BuildURL,
		CommitSha:    cfg.Sha1,
		JobTags:      tags,
		ProviderName: "circleci",
	}

	return provider, nil
}

func circleciTags(cfg CircleCIEnv) (map[string]any, error) {
	err := func() error {
		if cfg.BuildNum == "" {
			return errors.NewConfigurationError("missing build number")
		}

		if cfg.BuildURL == "" {
			return errors.NewConfigurationError("missing build URL")
		}

		if cfg.Job == "" {
			return errors.NewConfigurationError("missing job name")
		}

		return nil
	}()

	tags := map[string]any{
		"circle_build_num":        cfg.BuildNum,
		"circle_build_url":        cfg.BuildURL,
		"circle_job":              cfg.Job,
		"circle_project_reponame": cfg.ProjectReponame,
		"circle_project_username": cfg.ProjectUsername,
		"circle_repository_url":   cfg.RepositoryURL,
	}

	return tags, err
}
