package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/pable/slpstats/internal/report"
	"github.com/pable/slpstats/internal/storage"
)

var (
	cPrompt   = color.New(color.FgCyan, color.Bold)
	cMuted    = color.New(color.Faint)
	cError    = color.New(color.FgRed, color.Bold)
	cWarn     = color.New(color.FgYellow)
	cHeader   = color.New(color.FgCyan, color.Bold)
	cCmd      = color.New(color.FgYellow, color.Bold)
	cGreeting = color.New(color.Bold)
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Start an interactive REPL session",
	Long:  "Open a persistent session against the database. Type 'help' for available commands.",
	Args:  cobra.NoArgs,
	RunE:  runShell,
}

func runShell(_ *cobra.Command, _ []string) error {
	db, err := openStorage()
	if err != nil {
		return err
	}
	defer db.Close()

	cGreeting.Println("slpstats shell")
	cMuted.Println("type 'help' or 'exit'")
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		cPrompt.Print("slpstats")
		cMuted.Print("> ")
		if !scanner.Scan() {
			fmt.Println()
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		tokens := strings.Fields(line)
		cmd, args := tokens[0], tokens[1:]

		switch cmd {
		case "exit", "quit":
			return nil
		case "help":
			shellHelp()
		case "list":
			shellList(db)
		case "show":
			if len(args) == 0 {
				cError.Fprintln(os.Stderr, "usage: show <hash-prefix> [--player <code>]")
				continue
			}
			focusCode = ""
			for i := 1; i+1 < len(args); i++ {
				if args[i] == "--player" {
					focusCode = args[i+1]
				}
			}
			shellShow(db, args[0])
		case "player":
			if len(args) == 0 {
				cError.Fprintln(os.Stderr, "usage: player <connect-code> [<connect-code>...]")
				continue
			}
			if err := printPlayers(db, args); err != nil {
				cError.Fprintf(os.Stderr, "error: %v\n", err)
			}
		case "trend":
			if len(args) != 1 {
				cError.Fprintln(os.Stderr, "usage: trend <connect-code>")
				continue
			}
			shellTrend(db, args[0])
		case "sql":
			if len(args) == 0 {
				cError.Fprintln(os.Stderr, "usage: sql <query>")
				continue
			}
			if err := printQuery(db, strings.Join(args, " ")); err != nil {
				cError.Fprintf(os.Stderr, "error: %v\n", err)
			}
		default:
			cWarn.Fprintf(os.Stderr, "unknown command %q, type 'help'\n", cmd)
		}
	}
	return nil
}

func shellHelp() {
	fmt.Println()
	type entry struct{ cmd, desc string }
	rows := []entry{
		{"list", "list all stored matches"},
		{"show <hash-prefix>", "show a match's stats"},
		{"show <hash-prefix> --player <code>", "same, highlighting one player"},
		{"player <code> [...]", "cross-match analysis for one or more players"},
		{"trend <code>", "per-match trend for one player"},
		{"sql <query>", "run a raw SQL query"},
		{"help", "show this message"},
		{"exit / quit", "close the session"},
	}
	for _, r := range rows {
		fmt.Print("  ")
		cCmd.Printf("%-38s", r.cmd)
		fmt.Println(r.desc)
	}
	fmt.Println()
}

func shellList(db *storage.DB) {
	matches, err := db.ListMatches()
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	if len(matches) == 0 {
		cMuted.Println("No matches stored yet.")
		return
	}
	cHeader.Fprintf(os.Stdout, "%-14s  %-20s  %-22s  %-9s  %s\n",
		"HASH", "DATE", "STAGE", "TYPE", "PLAYERS")
	cMuted.Fprintf(os.Stdout, "%-14s  %-20s  %-22s  %-9s  %s\n",
		"──────────────", "────────────────────", "──────────────────────", "─────────", "───────")
	for _, m := range matches {
		fmt.Fprintf(os.Stdout, "%-14s  %-20s  %-22s  %-9s  %s\n",
			m.Hash[:12], m.PlayedAt, m.Stage, m.MatchType, m.Players)
	}
}

func shellShow(db *storage.DB, prefix string) {
	match, err := db.GetMatchByPrefix(prefix)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	if match == nil {
		fmt.Fprintf(os.Stderr, "no match found with prefix %q\n", prefix)
		return
	}
	if err := showByHash(db, match.Hash); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
	}
}

func shellTrend(db *storage.DB, code string) {
	stats, err := db.GetAllPlayerMatchStats(code)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	if len(stats) == 0 {
		fmt.Fprintf(os.Stderr, "no data for %s\n", code)
		return
	}
	cHeader.Fprintf(os.Stdout, "\n--- Trend: %s ---\n\n", code)
	report.PrintTrendTable(os.Stdout, stats, 5)
}
