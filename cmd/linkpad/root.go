package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/linkpad/linkpad/internal/capture"
	"github.com/linkpad/linkpad/internal/config"
	"github.com/linkpad/linkpad/internal/db"
	"github.com/linkpad/linkpad/internal/logging"
)

var (
	// Flag values, bound in init.
	configDirFlag string
	dbFlag        string
	verbose       bool

	// Initialized by PersistentPreRunE, shared by all subcommands.
	cfg      *config.Config
	database *db.DB
	store    *db.Store
	pipeline *capture.Pipeline
)

var rootCmd = &cobra.Command{
	Use:   "linkpad",
	Short: "linkpad is a personal knowledge-capture store",
	Long: `linkpad records URLs and free-form notes, organizes them with shared
tags and link relations, and indexes page content for full-text search.
Everything lives in a single local SQLite database.`,
	SilenceUsage:      true,
	PersistentPreRunE: initStore,
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return closeStore()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configDirFlag, "config", "", "config directory (default: platform config dir)")
	rootCmd.PersistentFlags().StringVar(&dbFlag, "db", "", "database file (default: platform data dir)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(noteCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(removeCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(exportCmd)
}

// initStore loads config, opens the database, and runs any pending
// migrations. A migration failure aborts before any command runs.
func initStore(cmd *cobra.Command, args []string) error {
	level := logrus.WarnLevel
	if verbose {
		level = logrus.DebugLevel
	}
	logging.Init(os.Stderr, level)

	var err error
	cfg, err = config.Load(configDirFlag, dbFlag)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	database, err = db.Open(cfg.DatabasePath)
	if err != nil {
		return fmt.Errorf("open database %s: %w", cfg.DatabasePath, err)
	}
	if err := db.Migrate(database); err != nil {
		database.Close()
		database = nil
		return fmt.Errorf("migrate database %s: %w", cfg.DatabasePath, err)
	}

	store = db.NewStore(database)
	pipeline = capture.NewPipeline(store,
		capture.NewFetcher(cfg.Fetch.Timeout, cfg.Fetch.MaxBodyBytes))
	return nil
}

func closeStore() error {
	if database != nil {
		return database.Close()
	}
	return nil
}
