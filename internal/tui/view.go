package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jonathan/resume-pilot/internal/api"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	focusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	hintStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Italic(true)
	scoreStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
	boxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

var fieldLabels = [fieldCount]string{
	"Resume file (PDF, DOCX or TXT)",
	"Job description (required)",
	"Job title (optional)",
	"Company (optional)",
}

// View renders the current step.
func (m Model) View() string {
	if m.quit {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Resume Pilot"))
	b.WriteString("\n\n")

	switch m.step {
	case stepWelcome:
		b.WriteString(m.viewWelcome())
	case stepAnalyze:
		b.WriteString(m.viewAnalyze())
	case stepResults:
		b.WriteString(m.viewResults())
	}
	return b.String()
}

func (m Model) viewWelcome() string {
	if m.errMessage == "" {
		return "Setting up your guest session...\n"
	}

	var b strings.Builder
	b.WriteString(errStyle.Render(m.errMessage))
	b.WriteString("\n\n")
	switch m.errKind {
	case api.KindRateLimit:
		b.WriteString("Too many guest sessions today. Sign in for unlimited access, or try again tomorrow.\n")
	case api.KindDailyLimit:
		b.WriteString("The free daily quota is used up. Sign in or view pricing to continue.\n")
	case api.KindTimeout, api.KindNetwork:
		b.WriteString("Could not reach the analysis service. Check your connection.\n")
	}
	b.WriteString(hintStyle.Render("press r to retry, q to quit"))
	b.WriteString("\n")
	return b.String()
}

func (m Model) viewAnalyze() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Guest session active. Credits remaining: %d\n\n", m.credits)

	if m.credits == 0 {
		b.WriteString(errStyle.Render("You're out of free analyses."))
		b.WriteString("\n")
		b.WriteString("Sign up to keep improving your resume.\n")
		return b.String()
	}

	if m.inFlight {
		for i, step := range progressSteps {
			marker := "  "
			if i < m.progressIdx {
				marker = "✓ "
			} else if i == m.progressIdx {
				marker = "> "
			}
			fmt.Fprintf(&b, "%s%s\n", marker, step)
		}
		return b.String()
	}

	for i, label := range fieldLabels {
		style := labelStyle
		cursor := " "
		if i == m.focus {
			style = focusStyle
			cursor = ">"
		}
		fmt.Fprintf(&b, "%s %s\n  %s\n", cursor, style.Render(label), m.fields[i])
	}
	b.WriteString("\n")

	if m.errMessage != "" {
		b.WriteString(errStyle.Render(m.errMessage))
		b.WriteString("\n")
		if m.errKind == api.KindInsufficientCredits {
			b.WriteString("Upgrade or sign in to run more analyses.\n")
		}
		b.WriteString("\n")
	}

	if m.CanSubmit() {
		b.WriteString(hintStyle.Render("enter to start analysis, tab to move between fields"))
	} else {
		b.WriteString(hintStyle.Render("fill in the resume file and job description to start"))
	}
	b.WriteString("\n")
	return b.String()
}

func (m Model) viewResults() string {
	var b strings.Builder
	result := m.result
	if result == nil {
		return "No result available.\n"
	}

	if result.OverallScore != nil {
		b.WriteString(scoreStyle.Render(fmt.Sprintf("Overall score: %.0f/100", *result.OverallScore)))
		b.WriteString("\n\n")
	}

	if ma := result.MatchAnalysis; ma != nil {
		if ma.MatchPercentage != nil {
			fmt.Fprintf(&b, "Job match: %.0f%%\n", *ma.MatchPercentage)
		}
		if len(ma.MatchedKeywords) > 0 {
			fmt.Fprintf(&b, "Matched keywords: %s\n", strings.Join(ma.MatchedKeywords, ", "))
		}
		if len(ma.MissingKeywords) > 0 {
			fmt.Fprintf(&b, "Missing keywords: %s\n", strings.Join(ma.MissingKeywords, ", "))
		}
		if ma.Summary != "" {
			fmt.Fprintf(&b, "%s\n", ma.Summary)
		}
		b.WriteString("\n")
	}

	if len(result.ScoreBreakdown) > 0 {
		b.WriteString(labelStyle.Render("Score breakdown"))
		b.WriteString("\n")
		sections := make([]string, 0, len(result.ScoreBreakdown))
		for section := range result.ScoreBreakdown {
			sections = append(sections, section)
		}
		sort.Strings(sections)
		for _, section := range sections {
			fmt.Fprintf(&b, "  %-16s %.0f\n", section, result.ScoreBreakdown[section])
		}
		b.WriteString("\n")
	}

	if len(result.Recommendations) > 0 {
		b.WriteString(labelStyle.Render("Recommendations"))
		b.WriteString("\n")
		for _, rec := range result.Recommendations {
			line := rec.Title
			if rec.Description != "" {
				line += ": " + rec.Description
			}
			b.WriteString(boxStyle.Render(line))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "Credits remaining: %d\n\n", m.credits)
	b.WriteString(hintStyle.Render("n to run another analysis, q to quit"))
	b.WriteString("\n")
	return b.String()
}
