package cli

import (
	"github.com/spf13/cobra"

	"pricetrack/internal/app"
)

var (
	exportPNGPath   string
	exportCSVPath   string
	exportTimeframe string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the catalog as CSV and the price trends as a PNG chart",
	RunE: func(cmd *cobra.Command, args []string) error {
		return getApp().Export(cmd.Context(), app.ExportOptions{
			CSVPath:   exportCSVPath,
			PNGPath:   exportPNGPath,
			Timeframe: exportTimeframe,
		})
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportPNGPath, "png", "", "Path to write the trends chart (defaults to config)")
	exportCmd.Flags().StringVar(&exportCSVPath, "csv", "", "Path to write the CSV export (defaults to config)")
	exportCmd.Flags().StringVar(&exportTimeframe, "timeframe", "", "Chart window: week, month or quarter (defaults to config)")
}
