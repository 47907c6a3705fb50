package cli

import (
	"github.com/spf13/cobra"

	"pricetrack/internal/analytics"
)

var (
	statsTimeframe string
	recentLimit    int
)

var savingsCmd = &cobra.Command{
	Use:   "savings",
	Short: "Show where switching supplier saves money",
	RunE: func(cmd *cobra.Command, args []string) error {
		return getApp().Savings(cmd.Context())
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarise price changes over a timeframe",
	RunE: func(cmd *cobra.Command, args []string) error {
		return getApp().Stats(cmd.Context(), statsTimeframe)
	},
}

var recentCmd = &cobra.Command{
	Use:   "recent",
	Short: "Show the newest price observations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return getApp().Recent(cmd.Context(), recentLimit)
	},
}

func init() {
	statsCmd.Flags().StringVar(&statsTimeframe, "timeframe", string(analytics.Month), "week, month or quarter")
	recentCmd.Flags().IntVar(&recentLimit, "limit", analytics.DefaultRecentLimit, "Number of updates to display")
}
