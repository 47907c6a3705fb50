package cli

import (
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API, feed polling and scheduled exports",
	RunE: func(cmd *cobra.Command, args []string) error {
		return getApp().Serve(cmd.Context())
	},
}

var syncFeedsCmd = &cobra.Command{
	Use:   "sync-feeds",
	Short: "Pull every configured supplier feed once",
	RunE: func(cmd *cobra.Command, args []string) error {
		return getApp().SyncFeeds(cmd.Context())
	},
}
