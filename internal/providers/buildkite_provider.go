package providers

import (
	"github.com/rwx-research/stevedore-cli/internal/errors"
)

type BuildkiteEnv struct {
	Detected bool `env:"BUILDKITE"`

	// attempted by
	BuildCreatorEmail string `env:"BUILDKITE_BUILD_CREATOR_EMAIL"`
	// branch
	Branch string `env:"BUILDKITE_BRANCH"`
	// commit message
	Message string `env:"BUILDKITE_MESSAGE"`
	// commit sha
	Commit string `env:"BUILDKITE_COMMIT"`
	// build URL + tags
	BuildID          string `env:"BUILDKITE_BUILD_ID"`
	BuildURL         string `env:"BUILDKITE_BUILD_URL"`
	JobID            string `env:"BUILDKITE_JOB_ID"`
	Label            string `env:"BUILDKITE_LABEL"`
	OrganizationSlug string `env:"BUILDKITE_ORGANIZATION_SLUG"`
	Repo             string `env:"BUILDKITE_REPO"`
}

func (cfg BuildkiteEnv) makeProvider() (Provider, error) {
	tags, validationError := buildkiteTags(cfg)
	if validationError != nil {
		return Provider{}, validationError
	}

	provider := Provider{
		AttemptedBy:   cfg.BuildCreatorEmail,
		BranchName:    cfg.Branch,
		BuildURL:      cfg.BuildURL,
		CommitMessage: cfg.Message,
		CommitSha:     cfg.Commit,
		JobTags:       tags,
		ProviderName:  "buildkite",
	}

	return provider, nil
}

func buildkiteTags(cfg BuildkiteEnv) (map[string]any, error) {
	err := func() error {
		if cfg.OrganizationSlug == "" {
			return errors.NewConfigurationError("missing organization slug")
		}

		if cfg.Repo == "" {
			return errors.NewConfigurationError("missing repository")
		}

		if cfg.JobID == "" {
			return errors.NewConfigurationError("missing job ID")
		}

		if cfg.BuildID == "" {
			return errors.NewConfigurationError("missing build ID")
		}

		if cfg.BuildURL == "" {
			return errors.NewConfigurationError("missing build URL")
		}

		return nil
	}()

	tags := map[string]any{
		"buildkite_build_id":          cfg.BuildID,
		"buildkite_build_url":         cfg.BuildURL,
		"buildkite_job_id":            cfg.JobID,
		"buildkite_label":             cfg.Label,
		"buildkite_organization_slug": cfg.OrganizationSlug,
		"buildkite_repo":              cfg.Repo,
	}

	return tags, err
}
