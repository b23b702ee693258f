// Package tui implements the interactive guest analyze flow as a three-step
// terminal UI: welcome (session bootstrap), analyze (upload form), results.
package tui

import (
	"context"
	"errors"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jonathan/resume-pilot/internal/api"
	"github.com/jonathan/resume-pilot/internal/schemas"
)

type step int

const (
	stepWelcome step = iota
	stepAnalyze
	stepResults
)

// analyzer is the slice of the API client the flow needs.
type analyzer interface {
	AnalyzeResume(ctx context.Context, token string, request *api.AnalysisRequest) ([]byte, error)
}

// manager is the slice of the session manager the flow needs.
type manager interface {
	Bootstrap(ctx context.Context) (*api.GuestSession, error)
	Credits() int
	RecordAnalysis(creditsRemaining int)
	RecordExhausted()
}

// recorder persists completed analyses; nil disables history.
type recorder interface {
	Record(analysisID, jobTitle, companyName string, score float64, credits int) error
}

// progressSteps is the cosmetic message sequence shown while the real
// request is in flight. It advances on its own timer, independent of the
// network response.
var progressSteps = []string{
	"Uploading resume...",
	"Extracting resume content...",
	"Matching keywords against the job description...",
	"Scoring your resume...",
	"Preparing recommendations...",
}

// progressInterval is the cosmetic tick cadence.
const progressInterval = 900 * time.Millisecond

// resultsDelay is the short display delay between a successful response and
// the results step, so the progress bar is seen completing.
const resultsDelay = 600 * time.Millisecond

// Form field indices on the analyze step.
const (
	fieldResume = iota
	fieldJobDescription
	fieldJobTitle
	fieldCompany
	fieldCount
)

// Messages. Every async message carries the request sequence number that
// produced it; stale completions are dropped in Update.
type (
	sessionReadyMsg  struct{ session *api.GuestSession }
	sessionFailedMsg struct{ err error }
	analysisDoneMsg  struct {
		seq    int
		result *schemas.AnalysisResult
	}
	analysisFailedMsg struct {
		seq int
		err error
	}
	progressTickMsg struct{ seq int }
	showResultsMsg  struct{ seq int }
)

// Model is the bubbletea model for the guest analyze flow.
type Model struct {
	ctx      context.Context
	manager  manager
	analyzer analyzer
	history  recorder

	step    step
	credits int
	token   string

	// Form state: one string per field, cursor on the focused field.
	fields [fieldCount]string
	focus  int

	inFlight    bool
	reqSeq      int
	progressIdx int

	errMessage string
	errKind    api.Kind

	result *schemas.AnalysisResult

	width int
	quit  bool
}

// Option configures the Model.
type Option func(*Model)

// WithHistory records completed analyses.
func WithHistory(history recorder) Option {
	return func(m *Model) { m.history = history }
}

// NewModel creates the flow model. The context bounds every request the flow
// makes; cancelling it stops in-flight work when the program exits.
func NewModel(ctx context.Context, mgr manager, client analyzer, opts ...Option) Model {
	m := Model{
		ctx:      ctx,
		manager:  mgr,
		analyzer: client,
		step:     stepWelcome,
		width:    80,
	}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

// Init starts the session bootstrap.
func (m Model) Init() tea.Cmd {
	return m.bootstrapCmd()
}

func (m Model) bootstrapCmd() tea.Cmd {
	return func() tea.Msg {
		sess, err := m.manager.Bootstrap(m.ctx)
		if err != nil {
			return sessionFailedMsg{err: err}
		}
		return sessionReadyMsg{session: sess}
	}
}

func progressTick(seq int) tea.Cmd {
	return tea.Tick(progressInterval, func(time.Time) tea.Msg {
		return progressTickMsg{seq: seq}
	})
}

func showResultsAfterDelay(seq int) tea.Cmd {
	return tea.Tick(resultsDelay, func(time.Time) tea.Msg {
		return showResultsMsg{seq: seq}
	})
}

// analyzeCmd runs the real request. It races the cosmetic progress tick;
// only this command's completion can move the flow to results.
func (m Model) analyzeCmd(seq int) tea.Cmd {
	path := m.fields[fieldResume]
	request := &api.AnalysisRequest{
		ResumeName:     path,
		JobDescription: m.fields[fieldJobDescription],
		JobTitle:       m.fields[fieldJobTitle],
		CompanyName:    m.fields[fieldCompany],
	}
	token := m.token
	client := m.analyzer
	ctx := m.ctx

	return func() tea.Msg {
		file, err := os.Open(path)
		if err != nil {
			return analysisFailedMsg{seq: seq, err: err}
		}
		defer file.Close()
		request.Resume = file

		payload, err := client.AnalyzeResume(ctx, token, request)
		if err != nil {
			return analysisFailedMsg{seq: seq, err: err}
		}

		result, err := schemas.ParseAnalysisResult(payload)
		if err != nil {
			return analysisFailedMsg{seq: seq, err: err}
		}
		return analysisDoneMsg{seq: seq, result: result}
	}
}

// CanSubmit reports whether the analyze form is complete: both a resume file
// and a non-empty job description are required.
func (m Model) CanSubmit() bool {
	return strings.TrimSpace(m.fields[fieldResume]) != "" &&
		strings.TrimSpace(m.fields[fieldJobDescription]) != ""
}

// Update is the state machine transition function.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case sessionReadyMsg:
		m.token = msg.session.GuestToken
		m.credits = msg.session.Credits
		m.errMessage = ""
		m.errKind = ""
		m.step = stepAnalyze
		return m, nil

	case sessionFailedMsg:
		m.setError(msg.err)
		return m, nil

	case progressTickMsg:
		// Stale or post-completion ticks are dropped.
		if !m.inFlight || msg.seq != m.reqSeq {
			return m, nil
		}
		if m.progressIdx < len(progressSteps)-1 {
			m.progressIdx++
		}
		return m, progressTick(msg.seq)

	case analysisDoneMsg:
		if msg.seq != m.reqSeq || !m.inFlight {
			return m, nil
		}
		m.inFlight = false
		m.result = msg.result
		// Force the cosmetic progress to complete; a display nicety, not a
		// correctness gate.
		m.progressIdx = len(progressSteps) - 1
		if msg.result.CreditsRemaining != nil {
			m.manager.RecordAnalysis(*msg.result.CreditsRemaining)
		} else {
			m.manager.RecordAnalysis(-1)
		}
		m.credits = m.manager.Credits()
		m.recordHistory(msg.result)
		return m, showResultsAfterDelay(msg.seq)

	case showResultsMsg:
		if msg.seq != m.reqSeq || m.result == nil {
			return m, nil
		}
		m.step = stepResults
		return m, nil

	case analysisFailedMsg:
		if msg.seq != m.reqSeq || !m.inFlight {
			return m, nil
		}
		m.inFlight = false
		m.setError(msg.err)
		if m.errKind == api.KindInsufficientCredits {
			m.manager.RecordExhausted()
			m.credits = 0
		}
		return m, nil

	case tea.KeyMsg:
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m Model) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		if m.step != stepAnalyze || msg.String() == "ctrl+c" {
			m.quit = true
			return m, tea.Quit
		}
	}

	switch m.step {
	case stepWelcome:
		if msg.String() == "r" && m.errMessage != "" {
			m.errMessage = ""
			return m, m.bootstrapCmd()
		}
	case stepAnalyze:
		return m.updateForm(msg)
	case stepResults:
		if msg.String() == "n" {
			// Run another analysis: reset the form, keep the session.
			m.fields = [fieldCount]string{}
			m.focus = fieldResume
			m.result = nil
			m.errMessage = ""
			m.step = stepAnalyze
			return m, nil
		}
	}
	return m, nil
}

func (m Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.inFlight {
		return m, nil
	}

	switch msg.Type {
	case tea.KeyTab, tea.KeyDown:
		m.focus = (m.focus + 1) % fieldCount
		return m, nil
	case tea.KeyShiftTab, tea.KeyUp:
		m.focus = (m.focus + fieldCount - 1) % fieldCount
		return m, nil
	case tea.KeyBackspace:
		field := m.fields[m.focus]
		if field != "" {
			m.fields[m.focus] = field[:len(field)-1]
		}
		return m, nil
	case tea.KeyEnter:
		if !m.CanSubmit() {
			return m, nil
		}
		m.errMessage = ""
		m.inFlight = true
		m.progressIdx = 0
		m.reqSeq++
		return m, tea.Batch(m.analyzeCmd(m.reqSeq), progressTick(m.reqSeq))
	case tea.KeySpace:
		m.fields[m.focus] += " "
		return m, nil
	case tea.KeyRunes:
		m.fields[m.focus] += string(msg.Runes)
		return m, nil
	}
	return m, nil
}

func (m *Model) setError(err error) {
	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		m.errKind = apiErr.Kind
		m.errMessage = apiErr.Message
		return
	}
	m.errKind = api.KindGeneric
	m.errMessage = err.Error()
}

func (m Model) recordHistory(result *schemas.AnalysisResult) {
	if m.history == nil {
		return
	}
	var score float64
	if result.OverallScore != nil {
		score = *result.OverallScore
	}
	_ = m.history.Record(result.AnalysisID, m.fields[fieldJobTitle], m.fields[fieldCompany], score, m.credits)
}
