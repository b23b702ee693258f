package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-pilot/internal/history"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List past analyses recorded on this machine",
	RunE:  runHistory,
}

var historyLimit int

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Maximum number of entries to show")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	baseDir, err := resolveBaseDir(cfg)
	if err != nil {
		return err
	}
	store, err := history.Open(baseDir)
	if err != nil {
		return fmt.Errorf("failed to open history: %w", err)
	}
	defer store.Close()

	entries, err := store.List(historyLimit)
	if err != nil {
		return fmt.Errorf("failed to list history: %w", err)
	}
	if len(entries) == 0 {
		fmt.Println("No analyses recorded yet. Run 'resumepilot analyze' to get started.")
		return nil
	}

	for _, entry := range entries {
		title := entry.JobTitle
		if title == "" {
			title = "(untitled)"
		}
		line := fmt.Sprintf("%s  %-30s", entry.CreatedAt.Local().Format("2006-01-02 15:04"), title)
		if entry.CompanyName != "" {
			line += fmt.Sprintf("  @ %s", entry.CompanyName)
		}
		fmt.Printf("%s  score %.0f  [%s]\n", line, entry.OverallScore, entry.ID)
	}
	return nil
}
