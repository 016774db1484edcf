package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pable/slpstats/internal/export"
	"github.com/pable/slpstats/internal/parser"
)

var exportOut string

var exportCmd = &cobra.Command{
	Use:   "export <replay.slp>",
	Short: "Export a replay's frame tables as a Parquet file",
	Long: `Decode a replay and write one Parquet row per character per frame, with
positions, percent, stocks, controller inputs, state flags and knockback.
Ice Climbers partner rows are included with follower=true.

Example:
  slpstats export Game_20240301T010203.slp --out frames.parquet
  duckdb -c "SELECT port, avg(percent) FROM 'frames.parquet' GROUP BY port"`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "output file path (default: <replay>.parquet)")
}

func runExport(_ *cobra.Command, args []string) error {
	path := args[0]
	out := exportOut
	if out == "" {
		base := strings.TrimSuffix(strings.TrimSuffix(filepath.Base(path), ".zst"), ".slp")
		out = base + ".parquet"
	}

	m, err := parser.ParseFile(path)
	if err != nil {
		return fmt.Errorf("parse replay: %w", err)
	}
	rows, err := export.WriteFrames(out, m)
	if err != nil {
		return fmt.Errorf("export frames: %w", err)
	}
	fmt.Fprintf(os.Stdout, "Wrote %d rows (%d frames, %d players) to %s\n",
		rows, m.TotalFrames, len(m.Players), out)
	return nil
}
