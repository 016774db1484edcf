package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all stored matches",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func runList(cmd *cobra.Command, args []string) error {
	db, err := openStorage()
	if err != nil {
		return err
	}
	defer db.Close()

	matches, err := db.ListMatches()
	if err != nil {
		return fmt.Errorf("list matches: %w", err)
	}
	if len(matches) == 0 {
		fmt.Fprintln(os.Stdout, "No matches stored yet. Run 'slpstats parse <replay.slp>' to add one.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-14s  %-20s  %-22s  %-9s  %7s  %s\n",
		"HASH", "DATE", "STAGE", "TYPE", "FRAMES", "PLAYERS")
	fmt.Fprintf(os.Stdout, "%-14s  %-20s  %-22s  %-9s  %7s  %s\n",
		"──────────────", "────────────────────", "──────────────────────", "─────────", "───────", "───────")
	for _, m := range matches {
		fmt.Fprintf(os.Stdout, "%-14s  %-20s  %-22s  %-9s  %7d  %s\n",
			m.Hash[:12], m.PlayedAt, m.Stage, m.MatchType, m.TotalFrames, m.Players)
	}
	return nil
}
