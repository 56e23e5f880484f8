package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/rwx-research/stevedore-cli/internal/cli"
	"github.com/rwx-research/stevedore-cli/internal/errors"
	"github.com/rwx-research/stevedore-cli/internal/fs"
	"github.com/rwx-research/stevedore-cli/internal/logging"
	"github.com/rwx-research/stevedore-cli/internal/parsing"
	"github.com/rwx-research/stevedore-cli/internal/providers"
	"github.com/rwx-research/stevedore-cli/internal/reporting"
	"github.com/rwx-research/stevedore-cli/internal/upload"
)

var (
	stevedore cli.Service

	configFilePath string
	debug          bool
	maxFailures    int

	rootCmd = &cobra.Command{
		Use:               "stevedore",
		Short:             "Stevedore parses, normalizes, and summarizes CI test results",
		Long:              descriptionStevedore,
		PersistentPreRunE: initCLIService,
		SilenceErrors:     true, // Errors are manually printed in 'main'
		SilenceUsage:      true, // Disables usage text on error
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configFilePath, "config", "", "the path to a configuration file")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().IntVar(&maxFailures, "max-failures", 0, "the maximum number of failed tests to list in summaries")

	if err := viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug")); err != nil {
		panic(err)
	}
	if err := viper.BindPFlag("max-failures", rootCmd.PersistentFlags().Lookup("max-failures")); err != nil {
		panic(err)
	}
	viper.SetEnvPrefix("STEVEDORE")
	viper.AutomaticEnv()

	rootCmd.CompletionOptions.DisableDefaultCmd = true
}

func initCLIService(_ *cobra.Command, _ []string) error {
	if configFilePath != "" {
		viper.SetConfigFile(configFilePath)
		if err := viper.ReadInConfig(); err != nil {
			return errors.NewConfigurationError("unable to read configuration file: %s", err)
		}
	}

	logger := logging.NewProductionLogger()
	if viper.GetBool("debug") {
		logger = logging.NewDebugLogger()
	}

	provider, err := providers.Detect()
	if err != nil {
		// A misconfigured CI environment should not prevent parsing; the results then simply
		// carry no build metadata.
		logger.Warnf("unable to detect CI provider: %s", err)
		provider = providers.Provider{}
	}

	network, err := repositoryNetwork()
	if err != nil {
		logger.Debugf("unable to list repository files: %s", err)
	}

	stevedore = cli.Service{
		Log:        logger,
		FileSystem: fs.Local{},
		Provider:   provider,
		ParseConfig: parsing.Config{
			Parsers: []parsing.Parser{
				parsing.JUnitParser{Network: network},
				parsing.PytestReportlogParser{Network: network},
				parsing.VitestJSONParser{},
			},
			Logger: logger,
		},
		UploadConfig: upload.Config{
			Logger: logger,
		},
		ReportConfig: reporting.Configuration{
			MaxFailures: viper.GetInt("max-failures"),
		},
	}

	return nil
}
