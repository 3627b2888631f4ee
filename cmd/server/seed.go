package main

import (
	"fmt"
	"time"

	"github.com/rpggio/workboard/internal/config"
	"github.com/spf13/cobra"
)

var now = time.Now

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load the sample projects, employees and contracts",
	Long:  "Writes the sample collections into the configured SQLite database. Records keep fixed ids, so seeding twice replaces them instead of duplicating.",
	RunE:  runSeed,
}

var seedDBPath string

func init() {
	seedCmd.Flags().StringVar(&seedDBPath, "db", "", "SQLite database path (overrides WORKBOARD_DB_PATH)")
	rootCmd.AddCommand(seedCmd)
}

func runSeed(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	if seedDBPath != "" {
		cfg.DB.Path = seedDBPath
	}
	if cfg.DB.Driver != config.DriverSQLite {
		return fmt.Errorf("seed needs the sqlite driver, got %q", cfg.DB.Driver)
	}
	logger := newLogger(cfg)

	b, err := openBackend(cfg, logger)
	if err != nil {
		return err
	}
	defer b.Close()

	if err := b.seed(cmd.Context(), logger); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "seeded %s\n", cfg.DB.Path)
	return nil
}
