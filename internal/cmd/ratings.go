package cmd

import (
	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/rcup/internal/api"
)

var ratingsFlags struct {
	search string
	region string
	limit  int
}

var ratingsCmd = &cobra.Command{
	Use:   "ratings",
	Short: "Show the leaderboard",
	Long: `Show the sportsman leaderboard ordered by score, with a summary of the
shown entries.

Examples:
  rcup ratings
  rcup ratings --search petrov
  rcup ratings --region Moscow --limit 10`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		entries, err := app.Client.Leaderboard(cmd.Context())
		if err != nil {
			return err
		}
		entries = api.FilterRatings(entries, ratingsFlags.search, ratingsFlags.region)
		summary := api.SummarizeRatings(entries)
		if ratingsFlags.limit > 0 && len(entries) > ratingsFlags.limit {
			entries = entries[:ratingsFlags.limit]
		}
		return app.render(cmd, ratingsView{Summary: summary, Entries: entries})
	},
}

func init() {
	ratingsCmd.Flags().StringVar(&ratingsFlags.search, "search", "", "match name or region (case-insensitive)")
	ratingsCmd.Flags().StringVar(&ratingsFlags.region, "region", "", "only this region")
	ratingsCmd.Flags().IntVar(&ratingsFlags.limit, "limit", 0, "show at most this many entries")

	rootCmd.AddCommand(ratingsCmd)
}
