package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/linkpad/linkpad/internal/export"
)

var exportCmd = &cobra.Command{
	Use:   "export DIR",
	Short: "Export the store as a markdown vault",
	Long: `Write every link and note as a markdown file under DIR, with tags and
timestamps in YAML front-matter and captured content inline. The store
itself is only read.`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func runExport(cmd *cobra.Command, args []string) error {
	dir := args[0]

	snap, err := export.Take(store)
	if err != nil {
		return fmt.Errorf("unable to read store: %w", err)
	}
	if err := export.WriteVault(snap, dir); err != nil {
		return fmt.Errorf("unable to write vault: %w", err)
	}
	fmt.Printf("Exported %d links and %d notes to %s\n", len(snap.Links), len(snap.Notes), dir)
	return nil
}
