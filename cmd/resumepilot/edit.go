package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-pilot/internal/template"
)

var editCmd = &cobra.Command{
	Use:   "edit",
	Short: "Edit the structured resume for an analysis",
	Long:  "Edit the structured resume for an analysis by dot-separated path, e.g. experience.0.title. Values are parsed as JSON when possible, otherwise taken as strings.",
}

var editAnalysisID string

var editGetCmd = &cobra.Command{
	Use:   "get <path>",
	Short: "Print the value at a path",
	Args:  cobra.ExactArgs(1),
	RunE:  runEditGet,
}

var editSetCmd = &cobra.Command{
	Use:   "set <path> <value>",
	Short: "Set the value at a path and save",
	Args:  cobra.ExactArgs(2),
	RunE:  runEditSet,
}

var editInsertCmd = &cobra.Command{
	Use:   "insert <path> <value>",
	Short: "Insert a value into a list at an index path and save",
	Args:  cobra.ExactArgs(2),
	RunE:  runEditInsert,
}

var editRemoveCmd = &cobra.Command{
	Use:   "remove <path>",
	Short: "Remove the value at a path and save",
	Args:  cobra.ExactArgs(1),
	RunE:  runEditRemove,
}

func init() {
	editCmd.PersistentFlags().StringVarP(&editAnalysisID, "analysis", "a", "", "Analysis id (required)")
	editCmd.MarkPersistentFlagRequired("analysis")

	editCmd.AddCommand(editGetCmd)
	editCmd.AddCommand(editSetCmd)
	editCmd.AddCommand(editInsertCmd)
	editCmd.AddCommand(editRemoveCmd)
	rootCmd.AddCommand(editCmd)
}

// parseValue interprets CLI values: JSON when it parses, raw string otherwise.
// "3" becomes the number 3; quote it ("\"3\"") to force a string.
func parseValue(raw string) any {
	var value any
	if err := json.Unmarshal([]byte(raw), &value); err == nil {
		return value
	}
	return raw
}

func runEditGet(cmd *cobra.Command, args []string) error {
	pipeline, _, err := newPipeline(cmd.Context(), editAnalysisID, "")
	if err != nil {
		return err
	}
	value, err := pipeline.Get(args[0])
	if err != nil {
		return err
	}
	out, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode value: %w", err)
	}
	fmt.Println(string(out))
	return nil
}

func runEditSet(cmd *cobra.Command, args []string) error {
	return applyEdit(cmd, func(p *template.Pipeline) error {
		return p.Edit(args[0], parseValue(args[1]))
	})
}

func runEditInsert(cmd *cobra.Command, args []string) error {
	return applyEdit(cmd, func(p *template.Pipeline) error {
		return p.InsertAt(args[0], parseValue(args[1]))
	})
}

func runEditRemove(cmd *cobra.Command, args []string) error {
	return applyEdit(cmd, func(p *template.Pipeline) error {
		return p.RemoveAt(args[0])
	})
}

func applyEdit(cmd *cobra.Command, mutate func(*template.Pipeline) error) error {
	ctx := cmd.Context()
	pipeline, _, err := newPipeline(ctx, editAnalysisID, "")
	if err != nil {
		return err
	}
	if err := mutate(pipeline); err != nil {
		return err
	}
	if err := pipeline.Save(ctx); err != nil {
		return fmt.Errorf("failed to save structured resume: %w", err)
	}
	fmt.Println("Saved.")
	return nil
}
