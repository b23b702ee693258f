// Package main provides the entry point for the resume-pilot CLI.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "resumepilot",
	Short: "Resume Pilot client",
	Long:  "Resume Pilot analyzes a resume against a job description, scores the match, and generates templated resume documents via the Resume Pilot API.",
}

var (
	apiURLFlag  string
	configFlag  string
	baseDirFlag string
	verbose     bool
)

func init() {
	rootCmd.PersistentFlags().StringVar(&apiURLFlag, "api-url", "", "API base URL (overrides config and RESUME_PILOT_API_URL)")
	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "Path to JSON config file")
	rootCmd.PersistentFlags().StringVar(&baseDirFlag, "base-dir", "", "Directory for credentials and history (default ~/.resume-pilot)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
