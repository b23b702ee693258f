package template

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// PreviewSummary is a terminal-friendly digest of a rendered preview.
type PreviewSummary struct {
	Title    string
	Headings []string
	Text     string
}

// maxSummaryText caps the extracted body text shown in the terminal.
const maxSummaryText = 600

// SummarizePreview extracts the title, section headings, and leading body
// text from preview HTML so the CLI can show what the server rendered
// without a browser.
func SummarizePreview(html string) (*PreviewSummary, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse preview HTML: %w", err)
	}

	summary := &PreviewSummary{
		Title: strings.TrimSpace(doc.Find("title").First().Text()),
	}

	doc.Find("h1, h2, h3").Each(func(_ int, s *goquery.Selection) {
		heading := strings.TrimSpace(s.Text())
		if heading != "" {
			summary.Headings = append(summary.Headings, heading)
		}
	})

	text := strings.Join(strings.Fields(doc.Find("body").Text()), " ")
	if len(text) > maxSummaryText {
		text = text[:maxSummaryText] + "..."
	}
	summary.Text = text

	return summary, nil
}
