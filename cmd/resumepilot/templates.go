package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-pilot/internal/api"
	"github.com/jonathan/resume-pilot/internal/observability"
)

var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "List available resume and cover letter templates",
	RunE:  runTemplates,
}

var templatesKind string

func init() {
	templatesCmd.Flags().StringVarP(&templatesKind, "kind", "k", "", "Limit to one kind: resume or cover-letter")
	rootCmd.AddCommand(templatesCmd)
}

func runTemplates(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	client, err := newClient(cfg)
	if err != nil {
		return err
	}

	ctx := cmd.Context()

	switch templatesKind {
	case "":
		catalog, err := client.ListAllTemplates(ctx)
		if err != nil {
			return fmt.Errorf("failed to list templates: %w", err)
		}
		observability.NewPrinter(os.Stdout).PrintTemplates(catalog)
		return nil
	case string(api.TemplateResume), string(api.TemplateCoverLetter):
		templates, err := client.ListTemplates(ctx, api.TemplateKind(templatesKind))
		if err != nil {
			return fmt.Errorf("failed to list templates: %w", err)
		}
		printTemplates("Templates", templates)
		return nil
	default:
		return fmt.Errorf("unknown template kind %q; use resume or cover-letter", templatesKind)
	}
}

func printTemplates(heading string, templates []api.Template) {
	fmt.Printf("%s (%d):\n", heading, len(templates))
	for _, t := range templates {
		fmt.Printf("  %-24s %s", t.ID, t.Name)
		if t.Description != "" {
			fmt.Printf(" - %s", t.Description)
		}
		fmt.Println()
	}
	if len(templates) == 0 {
		fmt.Println("  (none)")
	}
	fmt.Println()
}
