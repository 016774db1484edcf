package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"

	"github.com/pable/slpstats/internal/report"
)

// summaryCmd is the cobra command for displaying a high-level database overview.
var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show a high-level overview of the database",
	Long: `Display aggregate statistics about all replays stored in the database:
total match count, date range, stage breakdown, most active players,
and match type distribution.`,
	Args: cobra.NoArgs,
	RunE: runSummary,
}

func runSummary(cmd *cobra.Command, args []string) error {
	db, err := openStorage()
	if err != nil {
		return err
	}
	defer db.Close()

	ov, err := db.GetDBOverview()
	if err != nil {
		return fmt.Errorf("get overview: %w", err)
	}
	if ov.TotalMatches == 0 {
		fmt.Fprintln(os.Stdout, "No matches stored yet. Run 'slpstats parse <replay.slp>' to add one.")
		return nil
	}

	played := time.Duration(ov.TotalFrames) * time.Second / 60
	fmt.Fprintf(os.Stdout, "\n=== Database Summary ===\n\n")
	fmt.Fprintf(os.Stdout, "  Matches stored : %d\n", ov.TotalMatches)
	fmt.Fprintf(os.Stdout, "  Date range     : %s → %s\n", ov.EarliestMatch, ov.LatestMatch)
	fmt.Fprintf(os.Stdout, "  Unique stages  : %d\n", ov.UniqueStages)
	fmt.Fprintf(os.Stdout, "  Players seen   : %d\n", ov.UniquePlayers)
	fmt.Fprintf(os.Stdout, "  Time played    : %s\n", played.Round(time.Second))

	// Stage breakdown.
	stages, err := db.GetStageStats()
	if err != nil {
		return fmt.Errorf("get stage stats: %w", err)
	}
	fmt.Fprintf(os.Stdout, "\n--- Stages ---\n\n")
	st := tablewriter.NewTable(os.Stdout, tablewriter.WithConfig(tablewriter.Config{
		Row:    tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignRight}},
		Header: tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignCenter}},
	}))
	st.Header("STAGE", "MATCHES", "P1 WINS", "OTHER WINS", "P1 WIN%", "AVG LENGTH")
	for _, s := range stages {
		total := s.P1Wins + s.P2Wins
		p1Pct := 0.0
		if total > 0 {
			p1Pct = 100.0 * float64(s.P1Wins) / float64(total)
		}
		avg := time.Duration(s.AvgFrame*float64(time.Second)) / 60
		st.Append(
			s.Stage,
			fmt.Sprintf("%d", s.Matches),
			fmt.Sprintf("%d", s.P1Wins),
			fmt.Sprintf("%d", s.P2Wins),
			fmt.Sprintf("%.0f%%", p1Pct),
			avg.Round(time.Second).String(),
		)
	}
	st.Render()

	// Most active players.
	players, err := db.GetTopPlayersByMatches(10)
	if err != nil {
		return fmt.Errorf("get top players: %w", err)
	}
	if len(players) > 0 {
		fmt.Fprintf(os.Stdout, "\n--- Most Active Players ---\n\n")
		report.PrintPlayerAggregateOverview(os.Stdout, players)
	}

	// Match type breakdown, only shown when more than one type is present.
	types, err := db.GetMatchTypeCounts()
	if err != nil {
		return fmt.Errorf("get match types: %w", err)
	}
	if len(types) > 1 {
		fmt.Fprintf(os.Stdout, "\n--- Match Types ---\n\n")
		tt := tablewriter.NewTable(os.Stdout, tablewriter.WithConfig(tablewriter.Config{
			Row:    tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignRight}},
			Header: tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignCenter}},
		}))
		tt.Header("TYPE", "MATCHES")
		for _, t := range types {
			tt.Append(t.MatchType, fmt.Sprintf("%d", t.Matches))
		}
		tt.Render()
	}

	return nil
}
