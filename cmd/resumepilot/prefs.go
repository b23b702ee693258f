package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-pilot/internal/api"
)

var prefsCmd = &cobra.Command{
	Use:   "prefs",
	Short: "Manage marketing email preferences (requires a signed-in account)",
}

var prefsGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Show current email preferences",
	RunE:  runPrefsGet,
}

var prefsSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Update email preferences",
	RunE:  runPrefsSet,
}

var prefsUnsubscribeCmd = &cobra.Command{
	Use:   "unsubscribe",
	Short: "Unsubscribe from all marketing email",
	RunE:  runPrefsUnsubscribe,
}

var (
	prefsProductUpdates bool
	prefsCareerTips     bool
	prefsPromotions     bool
)

func init() {
	prefsSetCmd.Flags().BoolVar(&prefsProductUpdates, "product-updates", false, "Receive product update email")
	prefsSetCmd.Flags().BoolVar(&prefsCareerTips, "career-tips", false, "Receive career tips email")
	prefsSetCmd.Flags().BoolVar(&prefsPromotions, "promotions", false, "Receive promotional email")

	prefsCmd.AddCommand(prefsGetCmd)
	prefsCmd.AddCommand(prefsSetCmd)
	prefsCmd.AddCommand(prefsUnsubscribeCmd)
	rootCmd.AddCommand(prefsCmd)
}

func prefsClient() (*api.Client, string, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, "", err
	}
	client, err := newClient(cfg)
	if err != nil {
		return nil, "", err
	}
	token, err := authToken(cfg)
	if err != nil {
		return nil, "", err
	}
	return client, token, nil
}

func runPrefsGet(cmd *cobra.Command, args []string) error {
	client, token, err := prefsClient()
	if err != nil {
		return err
	}
	prefs, err := client.EmailPreferences(cmd.Context(), token)
	if err != nil {
		return fmt.Errorf("failed to fetch preferences: %w", err)
	}
	fmt.Printf("Product updates: %s\n", onOff(prefs.ProductUpdates))
	fmt.Printf("Career tips:     %s\n", onOff(prefs.CareerTips))
	fmt.Printf("Promotions:      %s\n", onOff(prefs.Promotions))
	return nil
}

func runPrefsSet(cmd *cobra.Command, args []string) error {
	client, token, err := prefsClient()
	if err != nil {
		return err
	}
	prefs := &api.EmailPreferences{
		ProductUpdates: prefsProductUpdates,
		CareerTips:     prefsCareerTips,
		Promotions:     prefsPromotions,
	}
	if err := client.UpdateEmailPreferences(cmd.Context(), token, prefs); err != nil {
		return fmt.Errorf("failed to update preferences: %w", err)
	}
	fmt.Println("Preferences updated.")
	return nil
}

func runPrefsUnsubscribe(cmd *cobra.Command, args []string) error {
	client, token, err := prefsClient()
	if err != nil {
		return err
	}
	if err := client.Unsubscribe(cmd.Context(), token); err != nil {
		return fmt.Errorf("failed to unsubscribe: %w", err)
	}
	fmt.Println("Unsubscribed from all marketing email.")
	return nil
}

func onOff(enabled bool) string {
	if enabled {
		return "on"
	}
	return "off"
}
