package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pable/slpstats/internal/aggregator"
	"github.com/pable/slpstats/internal/model"
	"github.com/pable/slpstats/internal/parser"
	"github.com/pable/slpstats/internal/report"
	"github.com/pable/slpstats/internal/storage"
)

var (
	focusCode  string
	parseForce bool
)

var parseCmd = &cobra.Command{
	Use:   "parse <replay.slp>",
	Short: "Decode a replay, detect techniques and store the stats",
	Args:  cobra.ExactArgs(1),
	RunE:  runParse,
}

func init() {
	parseCmd.Flags().StringVar(&focusCode, "player", "", "focus player connect code (e.g. ABC#123)")
	parseCmd.Flags().BoolVar(&parseForce, "force", false, "re-analyze and replace a replay that is already stored")
}

func openStorage() (*storage.DB, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := storage.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}
	return db, nil
}

func runParse(cmd *cobra.Command, args []string) error {
	path := args[0]

	db, err := openStorage()
	if err != nil {
		return err
	}
	defer db.Close()

	fmt.Fprintf(os.Stdout, "Parsing %s...\n", path)
	m, err := parser.ParseFile(path)
	if err != nil {
		return fmt.Errorf("parse replay: %w", err)
	}

	exists, err := db.MatchExists(m.Hash)
	if err != nil {
		return fmt.Errorf("check match: %w", err)
	}
	if exists && !parseForce {
		fmt.Fprintf(os.Stdout, "Replay %s already stored, showing cached results.\n", m.Hash[:12])
		return showByHash(db, m.Hash)
	}

	if err := aggregator.Analyze(m); err != nil {
		return err
	}

	summary, rows, err := storeMatch(db, m, path)
	if err != nil {
		return err
	}

	printMatch(m, summary, rows)
	return nil
}

// storeMatch writes an analyzed match under its own ingest run.
func storeMatch(db *storage.DB, m *model.Match, source string) (model.MatchSummary, []model.PlayerMatchStats, error) {
	summary := aggregator.Summary(m)
	rows := aggregator.PlayerRows(m)

	runID, err := db.StartIngestRun("parse", source)
	if err != nil {
		return summary, rows, fmt.Errorf("start ingest run: %w", err)
	}
	if err := db.InsertMatch(m, summary, rows, runID); err != nil {
		err = fmt.Errorf("insert match: %w", err)
		if ferr := db.FinishIngestRun(runID, 0, 1); ferr != nil {
			err = errors.Join(err, fmt.Errorf("finish ingest run: %w", ferr))
		}
		return summary, rows, err
	}
	if err := db.FinishIngestRun(runID, 1, 0); err != nil {
		return summary, rows, fmt.Errorf("finish ingest run: %w", err)
	}
	return summary, rows, nil
}

// printMatch prints every table of a freshly analyzed match.
func printMatch(m *model.Match, summary model.MatchSummary, rows []model.PlayerMatchStats) {
	report.PrintMatchSummary(os.Stdout, summary)
	report.PrintPlayerTable(os.Stdout, rows, focusCode)

	fmt.Fprintf(os.Stdout, "\n--- L-Cancels ---\n\n")
	report.PrintLCancelTable(os.Stdout, m)
	fmt.Fprintf(os.Stdout, "\n--- Techs ---\n\n")
	report.PrintTechTable(os.Stdout, m)
	fmt.Fprintf(os.Stdout, "\n--- Hits Taken ---\n\n")
	report.PrintDefenseTable(os.Stdout, m)
	if m.Start.Version.AtLeast(model.ItemsMinVersion) {
		fmt.Fprintf(os.Stdout, "\n--- Items ---\n\n")
		report.PrintItemTable(os.Stdout, m)
	}
}

func showByHash(db *storage.DB, hash string) error {
	match, err := db.GetMatchByPrefix(hash)
	if err != nil {
		return fmt.Errorf("query match: %w", err)
	}
	if match == nil {
		return fmt.Errorf("match not found: %s", hash)
	}
	stats, err := db.GetPlayerMatchStats(match.Hash)
	if err != nil {
		return err
	}
	techs, err := db.GetTechBreakdown(match.Hash)
	if err != nil {
		return err
	}
	items, err := db.GetItemCounts(match.Hash)
	if err != nil {
		return err
	}
	report.PrintMatchSummary(os.Stdout, *match)
	report.PrintPlayerTable(os.Stdout, stats, focusCode)
	fmt.Fprintf(os.Stdout, "\n--- Tech Options ---\n\n")
	report.PrintStoredTechs(os.Stdout, techs)
	fmt.Fprintf(os.Stdout, "\n--- Items ---\n\n")
	report.PrintStoredItems(os.Stdout, items)
	return nil
}
