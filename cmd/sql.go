package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"

	"github.com/pable/slpstats/internal/storage"
)

var sqlCmd = &cobra.Command{
	Use:   "sql <query>",
	Short: "Run a raw SQL query against the stats database",
	Long: `Run an arbitrary SQL query against the stats database and print results as a table.

Schema overview:
  matches(hash, path, played_at, version, stage, match_type, match_id, game_number,
    end_method, total_frames, players, run_id)
  players(hash, port, connect_code, display_name, character, costume, winner,
    wavedashes, wavelands, lcancel_attempts, lcancel_success, techs, missed_techs,
    tech_lockouts, hits_taken, digital, apm, trigger_pref, jump_pref)
  wavedashes(hash, port, frame, angle, direction, x, y, waveland)
  lcancels(hash, port, frame, attack, stocks, percent, success, trigger_frame,
    ground, fastfall, during_hitlag)
  techs(hash, port, frame, tech_type, punished, missed, towards_center,
    towards_opponent, jab_reset, last_hit_by, opponent_dist, input_frame, lockout, ...)
  hits(hash, port, frame, damage, last_hit_by, state_before, crouch_cancel, vcancel,
    hitlag_frames, sdi_inputs, asdi, di_efficacy, kills_no_di, kills_with_di, ...)
  item_counts(hash, port, item, count)
  input_summaries(hash, port, digital, joystick, cstick, analog_trigger, apm, ...)
  ingest_runs(id, kind, source, started_at, finished_at, succeeded, failed)

Ports are 0-based. Stats a replay's version does not record are -1 in players
and have no rows in the event tables.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSQL,
}

func runSQL(cmd *cobra.Command, args []string) error {
	db, err := openStorage()
	if err != nil {
		return err
	}
	defer db.Close()
	return printQuery(db, strings.Join(args, " "))
}

// printQuery runs a query and prints every row as a table.
func printQuery(db *storage.DB, query string) error {
	cols, rows, err := db.QueryRaw(query)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		fmt.Println("(no rows)")
		return nil
	}

	table := tablewriter.NewTable(os.Stdout, tablewriter.WithConfig(tablewriter.Config{
		Row:    tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignRight}},
		Header: tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignCenter}},
	}))

	colsAny := make([]any, len(cols))
	for i, c := range cols {
		colsAny[i] = c
	}
	table.Header(colsAny...)

	for _, row := range rows {
		rowAny := make([]any, len(row))
		for i, v := range row {
			rowAny[i] = v
		}
		table.Append(rowAny...)
	}
	table.Render()
	fmt.Fprintf(os.Stdout, "\n(%d rows)\n", len(rows))
	return nil
}
