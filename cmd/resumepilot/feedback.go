package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-pilot/internal/api"
)

var feedbackCmd = &cobra.Command{
	Use:   "feedback <message>",
	Short: "Send feedback about the product",
	Args:  cobra.ExactArgs(1),
	RunE:  runFeedback,
}

var (
	feedbackCategory string
	feedbackEmail    string
)

func init() {
	feedbackCmd.Flags().StringVarP(&feedbackCategory, "category", "c", "", "Feedback category (bug, feature, other)")
	feedbackCmd.Flags().StringVarP(&feedbackEmail, "email", "e", "", "Reply-to email (optional)")
	rootCmd.AddCommand(feedbackCmd)
}

func runFeedback(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	client, err := newClient(cfg)
	if err != nil {
		return err
	}

	feedback := &api.Feedback{
		Category: feedbackCategory,
		Message:  args[0],
		Email:    feedbackEmail,
		Page:     "cli",
	}
	if err := client.SubmitFeedback(cmd.Context(), feedback); err != nil {
		return fmt.Errorf("failed to send feedback: %w", err)
	}
	fmt.Println("Thanks, feedback sent.")
	return nil
}
