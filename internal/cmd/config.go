package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/rcup/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect configuration",
	Long: `Inspect the effective configuration.

Settings are resolved from, in increasing precedence: built-in defaults,
~/.rcup/config.yaml (or --config), a .env file, RCUP_* environment
variables, and command-line flags.

Environment variables:
  RCUP_API_URL          API base URL
  RCUP_HTTP_TIMEOUT     request timeout, e.g. 30s
  RCUP_TOKEN_BACKEND    file, redis or memory
  RCUP_TOKEN_DIR        directory of the credential file
  RCUP_REDIS_ADDR       redis address for the redis backend
  RCUP_REDIS_PASSWORD   redis password
  RCUP_REDIS_DB         redis database number
  RCUP_REDIS_PREFIX     key prefix for the redis backend
  RCUP_LOG_LEVEL        debug, info, warn, error
  RCUP_LOG_FORMAT       text or json
  RCUP_OUTPUT           text, json or yaml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return app.render(cmd, newConfigView(app.Config))
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the default config file location",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprintln(cmd.OutOrStdout(), config.DefaultPath()) //nolint:errcheck
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configPathCmd)
	rootCmd.AddCommand(configCmd)
}
