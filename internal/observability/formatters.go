// Package observability provides formatted output utilities for non-interactive CLI mode.
package observability

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/jonathan/resume-pilot/internal/api"
	"github.com/jonathan/resume-pilot/internal/schemas"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for non-interactive mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintSession outputs a human-readable summary of the active guest session.
func (p *Printer) PrintSession(session *api.GuestSession, credits int) {
	if session == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Session:  %s\n", session.SessionID))
	sb.WriteString(fmt.Sprintf("Credits:  %d", credits))
	if !session.ExpiresAt.IsZero() {
		sb.WriteString(fmt.Sprintf("\nExpires:  %s", session.ExpiresAt.Format("2006-01-02 15:04 MST")))
	}

	p.printBox("GUEST SESSION", sb.String())
}

// PrintAnalysis outputs the analysis result: score, keyword match, breakdown,
// and the top recommendations. Credits below zero are not shown.
func (p *Printer) PrintAnalysis(result *schemas.AnalysisResult, credits int) {
	if result == nil {
		return
	}

	var sb strings.Builder

	if result.AnalysisID != "" {
		sb.WriteString(fmt.Sprintf("Analysis: %s\n", result.AnalysisID))
	}
	if result.OverallScore != nil {
		sb.WriteString(fmt.Sprintf("Score:    %.0f/100\n", *result.OverallScore))
	}

	if ma := result.MatchAnalysis; ma != nil {
		if ma.MatchPercentage != nil {
			sb.WriteString(fmt.Sprintf("Keywords: %.0f%% matched\n", *ma.MatchPercentage))
		}
		if len(ma.MissingKeywords) > 0 {
			missing := strings.Join(ma.MissingKeywords, ", ")
			if len(missing) > 40 {
				missing = missing[:37] + "..."
			}
			sb.WriteString(fmt.Sprintf("Missing:  %s\n", missing))
		}
	}

	if len(result.ScoreBreakdown) > 0 {
		sections := make([]string, 0, len(result.ScoreBreakdown))
		for section := range result.ScoreBreakdown {
			sections = append(sections, section)
		}
		sort.Strings(sections)

		sb.WriteString("\nBreakdown:\n")
		for _, section := range sections {
			sb.WriteString(fmt.Sprintf("  %-20s %.0f\n", section, result.ScoreBreakdown[section]))
		}
	}

	if len(result.Recommendations) > 0 {
		sb.WriteString("\nRecommendations:\n")
		count := min(len(result.Recommendations), maxItemsToShow)
		for i := 0; i < count; i++ {
			rec := result.Recommendations[i]
			text := rec.Title
			if text == "" {
				text = rec.Description
			}
			if len(text) > 50 {
				text = text[:47] + "..."
			}
			sb.WriteString(fmt.Sprintf("  • %s\n", text))
		}
		if len(result.Recommendations) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(result.Recommendations)-maxItemsToShow))
		}
	}

	if credits >= 0 {
		sb.WriteString(fmt.Sprintf("\nCredits remaining: %d", credits))
	}

	p.printBox("ANALYSIS RESULT", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintTemplates outputs the template catalog grouped by document kind.
func (p *Printer) PrintTemplates(catalog *api.TemplateCatalog) {
	if catalog == nil {
		return
	}

	var sb strings.Builder
	writeKind := func(heading string, templates []api.Template) {
		sb.WriteString(fmt.Sprintf("%s (%d):\n", heading, len(templates)))
		for _, t := range templates {
			name := t.Name
			if len(name) > 30 {
				name = name[:27] + "..."
			}
			sb.WriteString(fmt.Sprintf("  %-22s %s\n", t.ID, name))
		}
	}
	writeKind("Resume", catalog.Resume)
	sb.WriteString("\n")
	writeKind("Cover letter", catalog.CoverLetter)

	p.printBox("TEMPLATES", strings.TrimSuffix(sb.String(), "\n"))
}
