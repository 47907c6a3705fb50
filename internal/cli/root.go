package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"pricetrack/internal/app"
	"pricetrack/internal/config"
	"pricetrack/internal/logging"
)

var (
	cfgFile   string
	logLevel  string
	appHandle *app.App
)

var rootCmd = &cobra.Command{
	Use:           "pricetrack",
	Short:         "Track supplier prices, spot savings and raise price alerts",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if appHandle != nil || cmd == versionCmd {
			return nil
		}

		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}

		if logLevel != "" {
			cfg.Logging.Level = logLevel
		}
		cfg.Logging.Service = cfg.App.Name
		if cmd != serveCmd {
			cfg.Logging.Output = os.Stderr
		}

		logger := logging.NewLogger(cfg.Logging)
		appHandle = app.NewApp(cfg, logger)
		appHandle.Out = cmd.OutOrStdout()
		return nil
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Path to configuration file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Override log level defined in config")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(productsCmd)
	rootCmd.AddCommand(suppliersCmd)
	rootCmd.AddCommand(alertsCmd)
	rootCmd.AddCommand(compareCmd)
	rootCmd.AddCommand(savingsCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(recentCmd)
	rootCmd.AddCommand(setPriceCmd)
	rootCmd.AddCommand(markReadCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(syncFeedsCmd)
	rootCmd.AddCommand(versionCmd)
}

func getApp() *app.App {
	if appHandle == nil {
		panic("application not initialized; PersistentPreRunE not executed")
	}
	return appHandle
}
