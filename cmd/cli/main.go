package cli

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/thand-io/components/internal/api"
	"github.com/thand-io/components/internal/config"
)

// Global configuration instance
var cfg *config.Config

// loadConfig loads the configuration based on the --config flag or default locations
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	configFile, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, fmt.Errorf("failed to get config flag: %w", err)
	}

	return config.Load(configFile)
}

func preRunConfigE(cmd *cobra.Command, _ []string) error {

	var err error
	cfg, err = loadConfig(cmd)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	verbose, err := cmd.Flags().GetBool("verbose")
	if err == nil && verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}

	// --api-url overrides the configured backend for one invocation
	apiURL, err := cmd.Flags().GetString("api-url")
	if err == nil && len(apiURL) > 0 {
		cfg.API.BaseURL = apiURL
	}

	return nil
}

// newClient builds the configured backend client version.
func newClient() (api.Client, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration not loaded")
	}
	return cfg.NewAPIClient()
}

var rootCmd = &cobra.Command{
	Use:   "components",
	Short: "Search components backend",
	Long: `Backend for the search components: keeps search tokens in a cookie
session and forwards concept and document searches to the backend API.

If no config file is specified, the following locations are searched:
  - ./config.yaml
  - ./config/config.yaml
  - /etc/components/config.yaml
  - ~/.config/components/config.yaml

Every setting can also be set with a COMPONENTS_ environment variable,
for example COMPONENTS_API_BASE_URL.`,
	PersistentPreRunE: preRunConfigE,
	SilenceUsage:      true,
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringP("config", "c", "", "Config file (optional)")
	rootCmd.PersistentFlags().String("api-url", "", "Override the backend API base url")
}

func GetCommandOptions() *cobra.Command {
	return rootCmd
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
