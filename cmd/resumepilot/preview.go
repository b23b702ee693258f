package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-pilot/internal/template"
)

var previewCmd = &cobra.Command{
	Use:   "preview <analysis-id>",
	Short: "Render an HTML preview of a templated resume",
	Long:  "Render an HTML preview of the structured resume for an analysis using the selected template. Prints a text summary by default; use --out to save the full HTML.",
	Args:  cobra.ExactArgs(1),
	RunE:  runPreview,
}

var (
	previewTemplate string
	previewOut      string
)

func init() {
	previewCmd.Flags().StringVarP(&previewTemplate, "template", "t", "", "Template id (default from config)")
	previewCmd.Flags().StringVarP(&previewOut, "out", "o", "", "Write the full HTML to this file")
	rootCmd.AddCommand(previewCmd)
}

func runPreview(cmd *cobra.Command, args []string) error {
	pipeline, _, err := newPipeline(cmd.Context(), args[0], previewTemplate)
	if err != nil {
		return err
	}

	html, err := pipeline.Preview(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to render preview: %w", err)
	}

	if previewOut != "" {
		if err := os.WriteFile(previewOut, []byte(html), 0o644); err != nil {
			return fmt.Errorf("failed to write preview: %w", err)
		}
		fmt.Printf("Preview written to %s\n", previewOut)
		return nil
	}

	summary, err := template.SummarizePreview(html)
	if err != nil {
		return fmt.Errorf("failed to summarize preview: %w", err)
	}
	if summary.Title != "" {
		fmt.Printf("Title: %s\n", summary.Title)
	}
	for _, heading := range summary.Headings {
		fmt.Printf("  # %s\n", heading)
	}
	if summary.Text != "" {
		fmt.Printf("\n%s\n", summary.Text)
	}
	return nil
}
