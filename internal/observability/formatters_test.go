package observability

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/resume-pilot/internal/api"
	"github.com/jonathan/resume-pilot/internal/schemas"
)

func TestPrintSession(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintSession(&api.GuestSession{
		SessionID: "sess-42",
		ExpiresAt: time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC),
	}, 3)

	out := buf.String()
	assert.Contains(t, out, "GUEST SESSION")
	assert.Contains(t, out, "sess-42")
	assert.Contains(t, out, "Credits:  3")
	assert.Contains(t, out, "2026-09-01")
}

func TestPrintSession_Nil(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintSession(nil, 0)
	assert.Empty(t, buf.String())
}

func TestPrintAnalysis(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	score := 78.0
	pct := 64.0
	p.PrintAnalysis(&schemas.AnalysisResult{
		AnalysisID:   "a-17",
		OverallScore: &score,
		MatchAnalysis: &schemas.MatchAnalysis{
			MatchPercentage: &pct,
			MissingKeywords: []string{"Kubernetes", "Terraform"},
		},
		ScoreBreakdown: map[string]float64{
			"skills":     70,
			"experience": 85,
		},
		Recommendations: []schemas.Recommendation{
			{Title: "Add a metrics-driven summary bullet"},
			{Title: "Mention Kubernetes experience"},
		},
	}, 2)

	out := buf.String()
	assert.Contains(t, out, "ANALYSIS RESULT")
	assert.Contains(t, out, "Score:    78/100")
	assert.Contains(t, out, "64% matched")
	assert.Contains(t, out, "Kubernetes, Terraform")
	assert.Contains(t, out, "experience")
	assert.Contains(t, out, "Add a metrics-driven summary bullet")
	assert.Contains(t, out, "Credits remaining: 2")

	// Sorted breakdown: experience before skills.
	assert.Less(t, strings.Index(out, "experience"), strings.Index(out, "skills"))
}

func TestPrintAnalysis_TruncatesLongRecommendations(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	recs := make([]schemas.Recommendation, 8)
	for i := range recs {
		recs[i] = schemas.Recommendation{Title: strings.Repeat("x", 80)}
	}
	p.PrintAnalysis(&schemas.AnalysisResult{Recommendations: recs}, -1)

	out := buf.String()
	assert.Contains(t, out, "...")
	assert.Contains(t, out, "and 3 more")
	assert.NotContains(t, out, "Credits remaining")
}

func TestPrintTemplates(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintTemplates(&api.TemplateCatalog{
		Resume:      []api.Template{{ID: "modern", Name: "Modern"}},
		CoverLetter: []api.Template{{ID: "classic-letter", Name: "Classic"}},
	})

	out := buf.String()
	assert.Contains(t, out, "TEMPLATES")
	assert.Contains(t, out, "Resume (1):")
	assert.Contains(t, out, "modern")
	assert.Contains(t, out, "Cover letter (1):")
	assert.Contains(t, out, "classic-letter")
}
