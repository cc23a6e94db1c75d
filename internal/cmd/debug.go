package cmd

import (
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/rcup/internal/api"
	"github.com/felixgeelhaar/rcup/internal/health"
	"github.com/felixgeelhaar/rcup/internal/metrics"
)

var debugCmd = &cobra.Command{
	Use:   "debug",
	Short: "Debugging and diagnostic utilities",
	Long: `Debugging and diagnostic utilities for troubleshooting rcup.

Commands:
  doctor    Check the API, the stored credential and the token backend
  metrics   Probe the API and print the client metrics

Examples:
  rcup debug doctor
  rcup debug metrics
  rcup debug metrics --log-level debug`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

var debugMetricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Probe the API and print the client metrics",
	Long: `Send a small set of probe requests through the client (one event
listing, and the profile when signed in), then print the collected metrics
in the Prometheus text exposition format. Probe failures are counted, not
returned.`,
	Args: cobra.NoArgs,
	RunE: runDebugMetrics,
}

var debugDoctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check the API, the stored credential and the token backend",
	Long: `Run diagnostic checks concurrently and report each result:

  api         the API answers at the configured URL
  credential  a valid credential is stored, and how long until it expires
  redis       the redis token backend answers (redis backend only)

The command fails when any check is unhealthy.`,
	Args: cobra.NoArgs,
	RunE: runDebugDoctor,
}

func init() {
	debugCmd.AddCommand(debugDoctorCmd)
	debugCmd.AddCommand(debugMetricsCmd)
	rootCmd.AddCommand(debugCmd)
}

func runDebugDoctor(cmd *cobra.Command, args []string) error {
	manager := health.NewManager(health.WithLogger(app.Logger))
	manager.Add(
		health.NewAPIChecker(app.Client, app.Client.BaseURL()),
		health.NewCredentialChecker(app.Store),
	)
	if rc, ok := app.closer.(redis.UniversalClient); ok {
		manager.Add(health.NewRedisChecker(rc))
	}

	report := manager.Run(cmd.Context())
	if err := app.render(cmd, doctorView(report)); err != nil {
		return err
	}
	if report.Status == health.StatusUnhealthy {
		return fmt.Errorf("%d of %d checks failed", countStatus(report, health.StatusUnhealthy), len(report.Results))
	}
	return nil
}

func countStatus(report health.Report, status health.Status) int {
	n := 0
	for _, r := range report.Results {
		if r.Status == status {
			n++
		}
	}
	return n
}

func runDebugMetrics(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	if _, err := app.Client.ListEvents(ctx, api.EventFilter{Limit: 1}); err != nil {
		app.Logger.WithError(err).Debug("event probe failed")
	}
	if err := app.Profile.Load(ctx); err != nil {
		app.Logger.WithError(err).Debug("profile probe failed")
	}

	return metrics.WriteText(cmd.OutOrStdout(), app.Registry)
}
