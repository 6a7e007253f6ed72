// Package root contains the root command for the application
package root

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/Dionysos599/Loan-Disbursement-System/internal/config"
)

// CommonFlags represents the flags that are common to multiple commands
type CommonFlags struct {
	Input      string
	Output     string
	StartMonth string
}

var (
	// Log is the shared logger instance for commands
	Log = logrus.New()

	// Cfg is the loaded application configuration, available after
	// PersistentPreRun has executed.
	Cfg *config.Config

	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "loan-forecast",
		Short: "Forecast monthly loan disbursement balances from a loan tape CSV.",
		Long: `loan-forecast ingests a CSV describing construction/real-estate loans
and produces a month-by-month forecast of each loan's outstanding disbursed
balance using a logistic disbursement model.`,
		Run: func(cmd *cobra.Command, args []string) {
			Log.Info("Welcome to loan-forecast!")
			Log.Info("Use --help to see available commands")
		},
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			config.LoadEnv()

			cfg, err := config.InitializeConfig()
			if err != nil {
				Log.Fatalf("Failed to initialize configuration: %v", err)
			}
			Cfg = cfg
			Log = config.ConfigureLogging(cfg)
		},
	}

	// SharedFlags are accessible to all commands
	SharedFlags = CommonFlags{}
)

// Init initializes the root command and all flags
func Init() {
	Cmd.PersistentFlags().StringVarP(&SharedFlags.Input, "input", "i", "", "Input file")
	Cmd.PersistentFlags().StringVarP(&SharedFlags.Output, "output", "o", "", "Output file")
	Cmd.PersistentFlags().StringVarP(&SharedFlags.StartMonth, "start", "s", "", "Forecast start month (e.g. 2024-07)")
}
