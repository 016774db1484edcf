package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/slpstats/internal/report"
)

var trendWindow int

var trendCmd = &cobra.Command{
	Use:   "trend <connect-code>",
	Short: "Chronological per-match performance trend for a player",
	Args:  cobra.ExactArgs(1),
	RunE:  runTrend,
}

func init() {
	trendCmd.Flags().IntVar(&trendWindow, "window", 5, "matches pooled for the rolling l-cancel rate")
}

func runTrend(cmd *cobra.Command, args []string) error {
	if trendWindow < 1 {
		return fmt.Errorf("--window must be at least 1")
	}
	db, err := openStorage()
	if err != nil {
		return err
	}
	defer db.Close()

	stats, err := db.GetAllPlayerMatchStats(args[0])
	if err != nil {
		return fmt.Errorf("query stats: %w", err)
	}
	if len(stats) == 0 {
		fmt.Println("no matches found")
		return nil
	}

	report.PrintTrendTable(os.Stdout, stats, trendWindow)
	return nil
}
