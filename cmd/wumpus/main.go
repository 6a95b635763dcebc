package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var logLevel string

	root := &cobra.Command{
		Use:           "wumpus",
		Short:         "Wumpus world reinforcement-learning trainer",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// .env is optional; flags and real env vars win.
			_ = godotenv.Load()
			if !cmd.Flags().Changed("log-level") {
				if fromEnv := os.Getenv("WUMPUS_LOG_LEVEL"); fromEnv != "" {
					logLevel = fromEnv
				}
			}
			level, err := logrus.ParseLevel(logLevel)
			if err != nil {
				return err
			}
			logrus.SetLevel(level)
			return nil
		},
	}

	root.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(newRunCmd())
	root.AddCommand(newCompareCmd())
	root.AddCommand(newStatsCmd())
	return root
}

// defaultDBPath resolves the history database location: flag, then
// WUMPUS_DB, then none (journaling disabled).
func defaultDBPath(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	return os.Getenv("WUMPUS_DB")
}
