package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show <hash-prefix>",
	Short: "Show stored match stats by hash prefix",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func init() {
	showCmd.Flags().StringVar(&focusCode, "player", "", "highlight player connect code")
}

func runShow(cmd *cobra.Command, args []string) error {
	prefix := args[0]

	db, err := openStorage()
	if err != nil {
		return err
	}
	defer db.Close()

	match, err := db.GetMatchByPrefix(prefix)
	if err != nil {
		return fmt.Errorf("query match: %w", err)
	}
	if match == nil {
		fmt.Fprintf(os.Stderr, "No match found with hash prefix %q\n", prefix)
		return nil
	}
	return showByHash(db, match.Hash)
}
