package providers_test

import (
	"github.com/rwx-research/stevedore-cli/internal/providers"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("DetectFromEnv", func() {
	Describe("GitHub Actions", func() {
		var environment providers.Env

		BeforeEach(func() {
			environment = providers.Env{
				GitHub: providers.GitHubEnv{
					Detected: true,
					// for branch name
					EventName: "push",
					RefName:   "main",
					HeadRef:   "feature-branch",
					// attempted by
					ExecutingActor:  "executor",
					TriggeringActor: "triggerer",
					// for commit sha
					CommitSha: "abc123",
					// for the build URL and tags
					ID:         "4221",
					Attempt:    "1",
					Name:       "some-job",
					Repository: "rwx/stevedore-cli",
					ServerURL:  "https://github.com",
				},
			}
		})

		It("builds a github provider", func() {
			provider, err := providers.DetectFromEnv(environment)
			Expect(err).NotTo(HaveOccurred())
			Expect(provider.ProviderName).To(Equal("github"))
			Expect(provider.BranchName).To(Equal("main"))
			Expect(provider.CommitSha).To(Equal("abc123"))
			Expect(provider.AttemptedBy).To(Equal("triggerer"))
			Expect(provider.BuildURL).To(Equal("https://github.com/rwx/stevedore-cli/actions/runs/4221"))
			Expect(provider.JobTags["github_repository_name"]).To(Equal("stevedore-cli"))
			Expect(provider.JobTags["github_account_owner"]).To(Equal("rwx"))
			Expect(provider.Detected()).To(BeTrue())
		})

		It("uses the head ref as the branch for pull requests", func() {
			environment.GitHub.EventName = "pull_request"

			provider, err := providers.DetectFromEnv(environment)
			Expect(err).NotTo(HaveOccurred())
			Expect(provider.BranchName).To(Equal("feature-branch"))
		})

		It("falls back to the executing actor", func() {
			environment.GitHub.TriggeringActor = ""

			provider, err := providers.DetectFromEnv(environment)
			Expect(err).NotTo(HaveOccurred())
			Expect(provider.AttemptedBy).To(Equal("executor"))
		})

		It("requires a run ID", func() {
			environment.GitHub.ID = ""

			_, err := providers.DetectFromEnv(environment)
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("missing run ID"))
		})
	})

	Describe("Buildkite", func() {
		var environment providers.Env

		BeforeEach(func() {
			environment = providers.Env{
				Buildkite: providers.BuildkiteEnv{
					Detected:          true,
					BuildCreatorEmail: "someone@example.com",
					Branch:            "main",
					Message:           "fix the flaky test",
					Commit:            "def456",
					BuildID:           "build-1",
					BuildURL:          "https://buildkite.com/rwx/stevedore/builds/1",
					JobID:             "job-1",
					Label:             ":go: tests",
					OrganizationSlug:  "rwx",
					Repo:              "git@github.com:rwx/stevedore-cli.git",
				},
			}
		})

		It("builds a buildkite provider", func() {
			provider, err := providers.DetectFromEnv(environment)
			Expect(err).NotTo(HaveOccurred())
			Expect(provider.ProviderName).To(Equal("buildkite"))
			Expect(provider.BuildURL).To(Equal("https://buildkite.com/rwx/stevedore/builds/1"))
			Expect(provider.CommitMessage).To(Equal("fix the flaky test"))
		})

		It("requires a build URL", func() {
			environment.Buildkite.BuildURL = ""

			_, err := providers.DetectFromEnv(environment)
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("missing build URL"))
		})
	})

	Describe("CircleCI", func() {
		var environment providers.Env

		BeforeEach(func() {
			environment = providers.Env{
				CircleCI: providers.CircleCIEnv{
					Detected:        true,
					Username:        "someone",
					Branch:          "main",
					Sha1:            "ghi789",
					BuildNum:        "18",
					BuildURL:        "https://circleci.com/gh/rwx/stevedore-cli/18",
					Job:             "test",
					ProjectReponame: "stevedore-cli",
					ProjectUsername: "rwx",
				},
			}
		})

		It("builds a circleci provider", func() {
			provider, err := providers.DetectFromEnv(environment)
			Expect(err).NotTo(HaveOccurred())
			Expect(provider.ProviderName).To(Equal("circleci"))
			Expect(provider.BuildURL).To(Equal("https://circleci.com/gh/rwx/stevedore-cli/18"))
			Expect(provider.CommitMessage).To(BeEmpty())
		})

		It("requires a job name", func() {
			environment.CircleCI.Job = ""

			_, err := providers.DetectFromEnv(environment)
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("missing job name"))
		})
	})

	It("prefers github when multiple providers are detected", func() {
		environment := providers.Env{
			GitHub: providers.GitHubEnv{
				Detected:   true,
				RefName:    "main",
				CommitSha:  "abc123",
				ID:         "1",
				Attempt:    "1",
				Name:       "job",
				Repository: "rwx/stevedore-cli",
				ServerURL:  "https://github.com",
			},
			CircleCI: providers.CircleCIEnv{Detected: true},
		}

		provider, err := providers.DetectFromEnv(environment)
		Expect(err).NotTo(HaveOccurred())
		Expect(provider.ProviderName).To(Equal("github"))
	})
})

var _ = Describe("Provider", func() {
	It("is not detected when it carries no provider name", func() {
		Expect(providers.Provider{}.Detected()).To(BeFalse())
	})
})
