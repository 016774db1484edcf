package cmd

import (
	"context"
	"fmt"
	"os"
	"sort"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/pable/slpstats/internal/aggregator"
	"github.com/pable/slpstats/internal/batch"
)

var (
	batchWorkers int
	batchForce   bool
)

var batchCmd = &cobra.Command{
	Use:   "batch [dir]",
	Short: "Decode and store every replay under a directory",
	Long: `Walk a directory for .slp and .slp.zst files, decode and analyze them
concurrently, and store every replay that succeeds. Files that fail are
listed at the end and never stop the rest of the batch.

Without an argument the SLPSTATS_REPLAY_DIR directory is used.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runBatch,
}

func init() {
	batchCmd.Flags().IntVarP(&batchWorkers, "workers", "w", cfg.Workers, "replays decoded at once")
	batchCmd.Flags().BoolVar(&batchForce, "force", false, "re-analyze replays that are already stored")
}

func runBatch(cmd *cobra.Command, args []string) error {
	dir := cfg.ReplayDir
	if len(args) == 1 {
		dir = args[0]
	}
	if dir == "" {
		return fmt.Errorf("no replay directory: pass one or set SLPSTATS_REPLAY_DIR")
	}

	db, err := openStorage()
	if err != nil {
		return err
	}
	defer db.Close()

	paths, err := batch.Find(dir)
	if err != nil {
		return err
	}
	log.WithField("dir", dir).WithField("replays", len(paths)).Info("batch started")

	runID, err := db.StartIngestRun("batch", dir)
	if err != nil {
		return fmt.Errorf("start ingest run: %w", err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	res, err := batch.Decode(ctx, paths, batch.Options{
		Workers: batchWorkers,
		Process: aggregator.Analyze,
		Log:     log.WithField("run", runID),
	})
	if err != nil {
		return fmt.Errorf("batch: %w", err)
	}

	stored, skipped := 0, 0
	failures := res.Failures
	for _, m := range res.Matches {
		if !batchForce {
			exists, err := db.MatchExists(m.Hash)
			if err != nil {
				return fmt.Errorf("check match: %w", err)
			}
			if exists {
				skipped++
				continue
			}
		}
		if err := db.InsertMatch(m, aggregator.Summary(m), aggregator.PlayerRows(m), runID); err != nil {
			failures = append(failures, batch.Failure{Path: m.Path, Err: fmt.Errorf("insert match: %w", err)})
			continue
		}
		stored++
	}
	if err := db.FinishIngestRun(runID, stored, len(failures)); err != nil {
		return fmt.Errorf("finish ingest run: %w", err)
	}

	fmt.Fprintf(os.Stdout, "\nReplays found : %d\n", len(paths))
	fmt.Fprintf(os.Stdout, "Stored        : %d\n", stored)
	fmt.Fprintf(os.Stdout, "Already stored: %d\n", skipped)
	fmt.Fprintf(os.Stdout, "Failed        : %d\n", len(failures))
	if len(failures) > 0 {
		sort.Slice(failures, func(i, j int) bool { return failures[i].Path < failures[j].Path })
		fmt.Fprintf(os.Stdout, "\n--- Failures ---\n\n")
		for _, f := range failures {
			fmt.Fprintf(os.Stdout, "  %s\n      %v\n", f.Path, f.Err)
		}
	}
	return nil
}
