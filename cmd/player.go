package cmd

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/pable/slpstats/internal/model"
	"github.com/pable/slpstats/internal/report"
	"github.com/pable/slpstats/internal/storage"
)

// playerCmd is the cobra command for cross-match aggregate analysis of one or more players.
var playerCmd = &cobra.Command{
	Use:   "player <connect-code> [<connect-code>...]",
	Short: "Cross-match analysis for one or more players",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runPlayer,
}

func runPlayer(cmd *cobra.Command, args []string) error {
	db, err := openStorage()
	if err != nil {
		return err
	}
	defer db.Close()
	return printPlayers(db, args)
}

// printPlayers loads every stored match of each connect code and prints the
// overall and per-character tables.
func printPlayers(db *storage.DB, codes []string) error {
	var aggs []model.PlayerAggregate
	var chars []characterAggregate
	for _, code := range codes {
		agg, err := db.GetPlayerAggregate(code)
		if err != nil {
			return fmt.Errorf("query aggregate for %s: %w", code, err)
		}
		if agg == nil {
			fmt.Fprintf(os.Stderr, "No data found for %s\n", code)
			continue
		}
		stats, err := db.GetAllPlayerMatchStats(code)
		if err != nil {
			return fmt.Errorf("query stats for %s: %w", code, err)
		}
		aggs = append(aggs, *agg)
		chars = append(chars, buildCharacterAggregates(stats)...)
	}
	if len(aggs) == 0 {
		return nil
	}

	fmt.Fprintln(os.Stdout)
	report.PrintPlayerAggregateOverview(os.Stdout, aggs)
	fmt.Fprintf(os.Stdout, "\n--- By Character ---\n\n")
	byChar := make([]model.PlayerAggregate, len(chars))
	for i, c := range chars {
		byChar[i] = c.PlayerAggregate
		byChar[i].DisplayName = c.character
	}
	report.PrintPlayerAggregateOverview(os.Stdout, byChar)
	return nil
}

type characterAggregate struct {
	model.PlayerAggregate
	character string
}

// buildCharacterAggregates sums one player's rows per character played, most
// played first. Stats that a replay did not record are left out of the sums.
func buildCharacterAggregates(stats []model.PlayerMatchStats) []characterAggregate {
	byChar := make(map[string]*characterAggregate)
	apm := make(map[string]float64)
	for _, s := range stats {
		c, ok := byChar[s.Character]
		if !ok {
			c = &characterAggregate{character: s.Character}
			c.ConnectCode = s.ConnectCode
			byChar[s.Character] = c
		}
		c.Matches++
		if s.Winner != nil && *s.Winner {
			c.Wins++
		}
		c.Wavedashes += s.Wavedashes
		c.Wavelands += s.Wavelands
		if s.LCancelAttempts >= 0 {
			c.LCancelAttempts += s.LCancelAttempts
			c.LCancelSuccess += s.LCancelSuccess
		}
		if s.Techs >= 0 {
			c.Techs += s.Techs
			c.MissedTechs += s.MissedTechs
		}
		if s.HitsTaken >= 0 {
			c.HitsTaken += s.HitsTaken
		}
		apm[s.Character] += float64(s.APM)
	}

	out := make([]characterAggregate, 0, len(byChar))
	for name, c := range byChar {
		c.AvgAPM = apm[name] / float64(c.Matches)
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Matches != out[j].Matches {
			return out[i].Matches > out[j].Matches
		}
		return out[i].character < out[j].character
	})
	return out
}
