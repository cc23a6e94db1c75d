package cmd

import (
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/rcup/internal/api"
	"github.com/felixgeelhaar/rcup/internal/config"
	"github.com/felixgeelhaar/rcup/internal/log"
	"github.com/felixgeelhaar/rcup/internal/metrics"
	"github.com/felixgeelhaar/rcup/internal/profile"
	"github.com/felixgeelhaar/rcup/internal/session"
	"github.com/felixgeelhaar/rcup/internal/token"
	"github.com/felixgeelhaar/rcup/internal/ux"
	"github.com/felixgeelhaar/rcup/internal/version"
)

// App wires the components a command run needs. One App lives for the
// duration of a single command.
type App struct {
	Config    *config.Config
	Logger    *log.Logger
	Registry  *prometheus.Registry
	Metrics   *metrics.Metrics
	Store     *token.Store
	Client    *api.Client
	Guard     *session.Guard
	Profile   *profile.Session
	Navigator *navigator

	styles ux.Styles
	closer io.Closer
}

var app *App

// loadConfig resolves the configuration from file, environment and flags.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(config.LoadOptions{
		Path:    globalFlags.configPath,
		EnvFile: globalFlags.envFile,
	})
	if err != nil {
		return nil, err
	}
	cfg.Apply(config.Overrides{
		APIURL:    globalFlags.apiURL,
		LogLevel:  globalFlags.logLevel,
		LogFormat: globalFlags.logFormat,
		Output:    globalFlags.output,
	})
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setupApp(cmd *cobra.Command, args []string) error {
	if err := closeApp(); err != nil {
		return err
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	app = newApp(cfg, cmd)
	app.Logger.Debug("command started", "command", app.Navigator.Current(), "api_url", cfg.APIURL)
	return nil
}

func newApp(cfg *config.Config, cmd *cobra.Command) *App {
	logCfg := cfg.LoggerConfig()
	logCfg.Output = cmd.ErrOrStderr()
	logger := log.New(logCfg)
	log.SetDefaultLogger(logger)

	registry, m := metrics.NewRegistry()
	slot, closer := cfg.OpenSlot()
	store := token.NewStore(slot, token.NewCodec(), logger)

	styles := ux.NewStyles(globalFlags.noColor)
	nav := newNavigator(cmd, styles)

	client := api.NewClient(api.Options{
		BaseURL:   cfg.APIURL,
		Timeout:   cfg.HTTPTimeout,
		Store:     store,
		Navigator: nav,
		Logger:    logger,
		Metrics:   m,
		UserAgent: version.GetInfo().UserAgent(),
	})
	guard := session.NewGuard(store)

	return &App{
		Config:    cfg,
		Logger:    logger,
		Registry:  registry,
		Metrics:   m,
		Store:     store,
		Client:    client,
		Guard:     guard,
		Profile:   profile.NewSession(client, guard, profile.WithLogger(logger), profile.WithMetrics(m)),
		Navigator: nav,
		styles:    styles,
		closer:    closer,
	}
}

func closeApp() error {
	if app == nil {
		return nil
	}
	err := app.closer.Close()
	app = nil
	return err
}

// render writes data to the command's stdout in the configured format.
func (a *App) render(cmd *cobra.Command, data interface{}) error {
	f, err := ux.NewFormatter(a.Config.Output, &ux.FormatterOptions{
		Writer:  cmd.OutOrStdout(),
		NoColor: globalFlags.noColor,
	})
	if err != nil {
		return err
	}
	return f.Format(data)
}

// notice writes a status line to stderr so stdout stays machine-readable.
func (a *App) notice(cmd *cobra.Command, msg string) {
	cmd.PrintErrln(a.styles.Muted.Render(msg))
}
