package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-pilot/internal/render"
)

var downloadCmd = &cobra.Command{
	Use:   "download <analysis-id>",
	Short: "Download the templated resume as a PDF",
	Long:  "Download the templated resume as a PDF. By default the server renders the document; with --local the preview HTML is rendered to PDF through a headless browser on this machine.",
	Args:  cobra.ExactArgs(1),
	RunE:  runDownload,
}

var (
	downloadTemplate string
	downloadOut      string
	downloadLocal    bool
)

func init() {
	downloadCmd.Flags().StringVarP(&downloadTemplate, "template", "t", "", "Template id (default from config)")
	downloadCmd.Flags().StringVarP(&downloadOut, "out", "o", "resume.pdf", "Output file path")
	downloadCmd.Flags().BoolVar(&downloadLocal, "local", false, "Render the PDF locally with a headless browser")
	rootCmd.AddCommand(downloadCmd)
}

func runDownload(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	pipeline, cfg, err := newPipeline(ctx, args[0], downloadTemplate)
	if err != nil {
		return err
	}

	if downloadLocal {
		html, err := pipeline.Preview(ctx)
		if err != nil {
			return fmt.Errorf("failed to render preview: %w", err)
		}
		pdf, err := render.PDF(ctx, html, render.DefaultTimeout, isVerbose(cfg))
		if err != nil {
			return fmt.Errorf("failed to render PDF locally: %w", err)
		}
		if err := os.WriteFile(downloadOut, pdf, 0o644); err != nil {
			return fmt.Errorf("failed to write PDF: %w", err)
		}
		fmt.Printf("PDF written to %s\n", downloadOut)
		return nil
	}

	path, err := pipeline.Download(ctx, downloadOut)
	if err != nil {
		return fmt.Errorf("failed to download PDF: %w", err)
	}
	fmt.Printf("PDF written to %s\n", path)
	return nil
}
