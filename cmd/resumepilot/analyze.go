package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/jonathan/resume-pilot/internal/api"
	"github.com/jonathan/resume-pilot/internal/history"
	"github.com/jonathan/resume-pilot/internal/observability"
	"github.com/jonathan/resume-pilot/internal/schemas"
	"github.com/jonathan/resume-pilot/internal/session"
	"github.com/jonathan/resume-pilot/internal/tui"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze a resume against a job description",
	Long:  "Analyze a resume against a job description. Runs the interactive flow by default; with --no-input it submits immediately from flags and prints the result.",
	RunE:  runAnalyze,
}

var (
	analyzeResume      string
	analyzeJobDesc     string
	analyzeJobDescFile string
	analyzeJobTitle    string
	analyzeCompany     string
	analyzeNoInput     bool
)

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeResume, "resume", "r", "", "Path to resume file (.pdf, .docx, or .txt)")
	analyzeCmd.Flags().StringVarP(&analyzeJobDesc, "job-description", "j", "", "Job description text")
	analyzeCmd.Flags().StringVar(&analyzeJobDescFile, "job-description-file", "", "Path to a file containing the job description")
	analyzeCmd.Flags().StringVar(&analyzeJobTitle, "job-title", "", "Job title (optional)")
	analyzeCmd.Flags().StringVar(&analyzeCompany, "company", "", "Company name (optional)")
	analyzeCmd.Flags().BoolVar(&analyzeNoInput, "no-input", false, "Run non-interactively from flags")

	rootCmd.AddCommand(analyzeCmd)
}

// historyRecorder adapts the SQLite history store to the flow's recorder.
type historyRecorder struct {
	store *history.Store
}

func (h historyRecorder) Record(analysisID, jobTitle, companyName string, score float64, credits int) error {
	_, err := h.store.Record(history.Entry{
		AnalysisID:   analysisID,
		JobTitle:     jobTitle,
		CompanyName:  companyName,
		OverallScore: score,
		Credits:      credits,
	})
	return err
}

func runAnalyze(cmd *cobra.Command, args []string) error {
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

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	baseDir, err := resolveBaseDir(cfg)
	if err != nil {
		return err
	}
	store, err := history.Open(baseDir)
	if err != nil {
		return err
	}
	defer store.Close()

	if analyzeNoInput {
		return runAnalyzeOnce(ctx, client, mgr, store)
	}

	opts := []tui.Option{tui.WithHistory(historyRecorder{store: store})}
	program := tea.NewProgram(tui.NewModel(ctx, mgr, client, opts...))
	_, err = program.Run()
	return err
}

func runAnalyzeOnce(ctx context.Context, client *api.Client, mgr *session.Manager, store *history.Store) error {
	if analyzeResume == "" {
		return fmt.Errorf("--resume is required with --no-input")
	}
	jobDesc, err := resolveJobDescription()
	if err != nil {
		return err
	}

	sess, err := mgr.Bootstrap(ctx)
	if err != nil {
		return fmt.Errorf("failed to start a session: %w", err)
	}
	if mgr.Credits() <= 0 {
		return fmt.Errorf("no free analyses remaining; sign up on the web app to continue")
	}

	file, err := os.Open(analyzeResume)
	if err != nil {
		return fmt.Errorf("failed to open resume: %w", err)
	}
	defer file.Close()

	request := &api.AnalysisRequest{
		Resume:         file,
		ResumeName:     filepath.Base(analyzeResume),
		JobDescription: jobDesc,
		JobTitle:       analyzeJobTitle,
		CompanyName:    analyzeCompany,
	}

	payload, err := client.AnalyzeResume(ctx, sess.GuestToken, request)
	if err != nil {
		if api.IsKind(err, api.KindInsufficientCredits) {
			mgr.RecordExhausted()
		}
		return fmt.Errorf("analysis failed: %w", err)
	}

	result, err := schemas.ParseAnalysisResult(payload)
	if err != nil {
		return fmt.Errorf("unexpected analysis response: %w", err)
	}

	if result.CreditsRemaining != nil {
		mgr.RecordAnalysis(*result.CreditsRemaining)
	} else {
		mgr.RecordAnalysis(-1)
	}

	var score float64
	if result.OverallScore != nil {
		score = *result.OverallScore
	}
	if _, err := store.Record(history.Entry{
		AnalysisID:   result.AnalysisID,
		JobTitle:     analyzeJobTitle,
		CompanyName:  analyzeCompany,
		OverallScore: score,
		Credits:      mgr.Credits(),
	}); err != nil && verbose {
		fmt.Fprintf(os.Stderr, "warning: failed to record history: %v\n", err)
	}

	observability.NewPrinter(os.Stdout).PrintAnalysis(result, mgr.Credits())
	return nil
}

func resolveJobDescription() (string, error) {
	if analyzeJobDesc != "" && analyzeJobDescFile != "" {
		return "", fmt.Errorf("--job-description and --job-description-file are mutually exclusive; provide only one")
	}
	if analyzeJobDescFile != "" {
		data, err := os.ReadFile(analyzeJobDescFile)
		if err != nil {
			return "", fmt.Errorf("failed to read job description file: %w", err)
		}
		return string(data), nil
	}
	if strings.TrimSpace(analyzeJobDesc) == "" {
		return "", fmt.Errorf("--job-description or --job-description-file is required with --no-input")
	}
	return analyzeJobDesc, nil
}
