package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-pilot/internal/history"
	"github.com/jonathan/resume-pilot/internal/observability"
	"github.com/jonathan/resume-pilot/internal/schemas"
)

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a past analysis",
	Long:  "Show a past analysis by history id or analysis id. Fetches the full result from the server when it is still available.",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
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

	entry, err := store.Find(args[0])
	if err != nil {
		return fmt.Errorf("no recorded analysis matches %q", args[0])
	}

	fmt.Printf("Recorded: %s\n", entry.CreatedAt.Local().Format("2006-01-02 15:04:05"))
	if entry.JobTitle != "" {
		fmt.Printf("Job title: %s\n", entry.JobTitle)
	}
	if entry.CompanyName != "" {
		fmt.Printf("Company: %s\n", entry.CompanyName)
	}

	if entry.AnalysisID == "" {
		fmt.Printf("Overall score: %.0f/100\n", entry.OverallScore)
		return nil
	}

	client, err := newClient(cfg)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	token, err := guestToken(ctx, cfg, client)
	if err != nil {
		return err
	}

	payload, err := client.Analysis(ctx, token, entry.AnalysisID)
	if err != nil {
		// The server may have expired the analysis; fall back to what was
		// recorded locally.
		fmt.Printf("Overall score: %.0f/100\n", entry.OverallScore)
		fmt.Printf("(full result no longer available: %v)\n", err)
		return nil
	}
	result, err := schemas.ParseAnalysisResult(payload)
	if err != nil {
		return fmt.Errorf("unexpected analysis response: %w", err)
	}
	observability.NewPrinter(os.Stdout).PrintAnalysis(result, -1)
	return nil
}
