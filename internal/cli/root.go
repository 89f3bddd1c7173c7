package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"finlab/internal/app"
	"finlab/internal/config"
	"finlab/internal/logging"
)

var (
	cfgFile   string
	logLevel  string
	appHandle *app.App
)

var rootCmd = &cobra.Command{
	Use:           "finlab",
	Short:         "Loan amortization and price feature engineering toolkit",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if appHandle != nil {
			return nil
		}

		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}

		if logLevel != "" {
			cfg.Logging.Level = logLevel
		}

		logger := logging.NewLogger(cfg.Logging).With().
			Str("app", cfg.App.Name).
			Str("env", cfg.App.Environment).
			Logger()
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

	rootCmd.AddCommand(emiCmd)
	rootCmd.AddCommand(featuresCmd)
	rootCmd.AddCommand(eligibilityCmd)
	rootCmd.AddCommand(riskCmd)
	rootCmd.AddCommand(budgetCmd)
	rootCmd.AddCommand(savingsCmd)
	rootCmd.AddCommand(exchangeCmd)
	rootCmd.AddCommand(marketCmd)
	rootCmd.AddCommand(versionCmd)
}

func getApp() *app.App {
	if appHandle == nil {
		panic("application not initialized; PersistentPreRunE not executed")
	}
	return appHandle
}
