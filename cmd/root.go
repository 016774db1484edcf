package cmd

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/pable/slpstats/internal/config"
)

var (
	dbPath   string
	logLevel string
)

// cfg is loaded before any init so every command can take its flag defaults
// from the environment.
var cfg, cfgErr = loadConfig()

func loadConfig() (config.Config, error) {
	c, err := config.Load()
	if err != nil {
		c.DBPath = config.DefaultDBPath()
		c.LogLevel = "info"
	}
	return c, err
}

var rootCmd = &cobra.Command{
	Use:   "slpstats",
	Short: "Melee replay stats tool",
	Long: `Decode Slippi .slp replays, detect techniques (wavedashes, l-cancels, techs,
DI and SDI) and store per-player stats in a local SQLite database.

Flags override the SLPSTATS_DB, SLPSTATS_WORKERS, SLPSTATS_LOG_LEVEL and
SLPSTATS_REPLAY_DIR environment variables.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cfgErr != nil {
			return fmt.Errorf("load config: %w", cfgErr)
		}
		level, err := log.ParseLevel(logLevel)
		if err != nil {
			return fmt.Errorf("--log-level: %w", err)
		}
		log.SetLevel(level)
		log.SetOutput(os.Stderr)
		return nil
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", cfg.DBPath, "path to SQLite database")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", cfg.LogLevel, "diagnostic log level (debug, info, warn, error)")

	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(batchCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(playerCmd)
	rootCmd.AddCommand(trendCmd)
	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(sqlCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(shellCmd)
	rootCmd.AddCommand(dropCmd)
}
