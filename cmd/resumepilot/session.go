package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-pilot/internal/observability"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Inspect or reset the stored guest session",
}

var sessionInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show the active session and remaining credits",
	RunE:  runSessionInfo,
}

var sessionResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Clear stored credentials and start fresh on the next run",
	RunE:  runSessionReset,
}

func init() {
	sessionCmd.AddCommand(sessionInfoCmd)
	sessionCmd.AddCommand(sessionResetCmd)
	rootCmd.AddCommand(sessionCmd)
}

func runSessionInfo(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	client, err := newClient(cfg)
	if err != nil {
		return err
	}
	mgr, err := newManager(cfg, client)
	if err != nil {
		return err
	}

	sess, err := mgr.Bootstrap(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to start a session: %w", err)
	}

	observability.NewPrinter(os.Stdout).PrintSession(sess, mgr.Credits())
	return nil
}

func runSessionReset(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	client, err := newClient(cfg)
	if err != nil {
		return err
	}
	mgr, err := newManager(cfg, client)
	if err != nil {
		return err
	}

	if err := mgr.Reset(); err != nil {
		return fmt.Errorf("failed to clear stored credentials: %w", err)
	}
	fmt.Println("Stored credentials cleared. The next run will create a new guest session.")
	return nil
}
