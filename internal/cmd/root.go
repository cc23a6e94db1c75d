package cmd

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/rcup/internal/api"
	"github.com/felixgeelhaar/rcup/internal/config"
	"github.com/felixgeelhaar/rcup/internal/ux"
)

var rootCmd = &cobra.Command{
	Use:   "rcup",
	Short: "Command-line client for the Russian Cup sports programming platform",
	Long: `rcup is a command-line client for the Russian Cup sports programming
platform. It signs you in, keeps your session, and lets sportsmen, sponsors
and regional representatives browse and manage events, profiles and ratings.

The session credential is stored in ~/.rcup/rcup_token.json by default
(see RCUP_TOKEN_BACKEND for redis and in-memory storage). When the server
rejects it, the credential is removed and you are asked to sign in again.

Examples:
  rcup auth login --email user@example.com
  rcup events list --status registration
  rcup profile show
  rcup ratings --region Moscow`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setupApp,
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return closeApp()
	},
}

// globalFlags holds the persistent flags shared by every command.
var globalFlags struct {
	apiURL     string
	configPath string
	envFile    string
	logLevel   string
	logFormat  string
	output     string
	noColor    bool
}

// Execute runs the root command
func Execute() error {
	return ExecuteContext(context.Background())
}

// ExecuteContext runs the root command with ctx and prints any error to
// stderr.
func ExecuteContext(ctx context.Context) error {
	err := rootCmd.ExecuteContext(ctx)
	if cerr := closeApp(); err == nil {
		err = cerr
	}
	if err != nil {
		if errors.Is(err, ux.ErrPromptCancelled) || errors.Is(err, context.Canceled) {
			rootCmd.PrintErrln("Operation cancelled")
			return err
		}
		ux.PrintError(rootCmd.ErrOrStderr(), err, ux.NewStyles(globalFlags.noColor))
	}
	return err
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&globalFlags.apiURL, "api-url", "", "API base URL (env RCUP_API_URL, default "+api.DefaultBaseURL+")")
	pf.StringVar(&globalFlags.configPath, "config", "", "config file (default ~/.rcup/config.yaml)")
	pf.StringVar(&globalFlags.envFile, "env-file", "", "dotenv file to read (default .env)")
	pf.StringVar(&globalFlags.logLevel, "log-level", "", "log level: debug, info, warn, error")
	pf.StringVar(&globalFlags.logFormat, "log-format", "", "log format: text, json")
	pf.StringVarP(&globalFlags.output, "output", "o", "", "output format: "+config.OutputText+", "+config.OutputJSON+", "+config.OutputYAML)
	pf.BoolVar(&globalFlags.noColor, "no-color", false, "disable colored output")
}
