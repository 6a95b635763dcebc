package main

import (
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"wumpus-rl-go/internal/history"
)

func newStatsCmd() *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Summarize journaled runs per policy",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := defaultDBPath(dbPath)
			if path == "" {
				return errors.New("no history database: pass --db or set WUMPUS_DB")
			}
			store, err := history.Open(path)
			if err != nil {
				return err
			}
			defer store.Close()

			summaries, err := store.Summaries()
			if err != nil {
				return err
			}
			if len(summaries) == 0 {
				fmt.Println("no journaled runs yet")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "POLICY\tRUNS\tEPISODES\tSUCCESS RATE\tDEATHS\tTIMEOUTS\tAVG REWARD\tAVG STEPS")
			for _, s := range summaries {
				fmt.Fprintf(w, "%s\t%d\t%d\t%.1f%%\t%d\t%d\t%.2f\t%.1f\n",
					s.Policy, s.Runs, s.Episodes, 100*s.SuccessRate,
					s.Deaths, s.Timeouts, s.MeanReward, s.MeanSteps)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "", "history database path (or WUMPUS_DB)")
	return cmd
}
