// Package template drives the document template pipeline: fetch the
// structured resume for an analysis, apply local edits, and turn the result
// into server-rendered previews and PDF downloads.
package template

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/jonathan/resume-pilot/internal/api"
	"github.com/jonathan/resume-pilot/internal/jsonpath"
	"github.com/jonathan/resume-pilot/internal/schemas"
)

// Client is the slice of the API client the pipeline needs.
type Client interface {
	StructuredResume(ctx context.Context, token, analysisID string) ([]byte, error)
	ParseResume(ctx context.Context, token, analysisID string) error
	SaveStructuredResume(ctx context.Context, token, analysisID string, doc map[string]any) error
	PreviewHTML(ctx context.Context, token, analysisID, templateID string, doc map[string]any) (string, error)
	DownloadPDF(ctx context.Context, token, analysisID, templateID string, doc map[string]any) ([]byte, string, error)
}

// parseRetryDelay is how long to wait after triggering the parse step before
// refetching the structured resume.
const parseRetryDelay = 2 * time.Second

// Pipeline holds the editing state for one analysis.
type Pipeline struct {
	client     Client
	token      string
	analysisID string
	templateID string
	verbose    bool

	sleep func(time.Duration)

	doc map[string]any

	// lastPreviewKey fingerprints the template + snapshot that produced the
	// cached preview, so unchanged state never re-renders.
	lastPreviewKey  string
	lastPreviewHTML string
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithVerbose enables progress logging.
func WithVerbose(verbose bool) Option {
	return func(p *Pipeline) { p.verbose = verbose }
}

// WithSleep overrides the parse-retry delay for tests.
func WithSleep(sleep func(time.Duration)) Option {
	return func(p *Pipeline) { p.sleep = sleep }
}

// New creates a pipeline for the given analysis and template.
func New(client Client, token, analysisID, templateID string, opts ...Option) *Pipeline {
	p := &Pipeline{
		client:     client,
		token:      token,
		analysisID: analysisID,
		templateID: templateID,
		sleep:      time.Sleep,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Load fetches the structured resume. When the server has not parsed one yet
// it triggers the parse step once and refetches.
func (p *Pipeline) Load(ctx context.Context) error {
	data, err := p.client.StructuredResume(ctx, p.token, p.analysisID)
	if api.IsNotFound(err) {
		if p.verbose {
			log.Printf("[TEMPLATE] structured resume missing, triggering parse for %s", p.analysisID)
		}
		if err := p.client.ParseResume(ctx, p.token, p.analysisID); err != nil {
			return fmt.Errorf("failed to trigger resume parse: %w", err)
		}
		p.sleep(parseRetryDelay)
		data, err = p.client.StructuredResume(ctx, p.token, p.analysisID)
	}
	if err != nil {
		return err
	}

	doc, err := schemas.ParseStructuredResume(data)
	if err != nil {
		return fmt.Errorf("server returned an invalid structured resume: %w", err)
	}
	p.doc = doc
	return nil
}

// Document returns the current working document.
func (p *Pipeline) Document() map[string]any {
	return p.doc
}

// Get reads a field by dotted path.
func (p *Pipeline) Get(path string) (any, error) {
	if p.doc == nil {
		return nil, fmt.Errorf("no structured resume loaded")
	}
	return jsonpath.Get(p.doc, path)
}

// Edit sets a field by dotted path.
func (p *Pipeline) Edit(path string, value any) error {
	if p.doc == nil {
		return fmt.Errorf("no structured resume loaded")
	}
	return jsonpath.Set(p.doc, path, value)
}

// InsertAt inserts an element into an array field.
func (p *Pipeline) InsertAt(path string, value any) error {
	if p.doc == nil {
		return fmt.Errorf("no structured resume loaded")
	}
	return jsonpath.Insert(p.doc, path, value)
}

// RemoveAt removes a field or array element.
func (p *Pipeline) RemoveAt(path string) error {
	if p.doc == nil {
		return fmt.Errorf("no structured resume loaded")
	}
	return jsonpath.Remove(p.doc, path)
}

// SetTemplate switches the active template; the next Preview re-renders.
func (p *Pipeline) SetTemplate(templateID string) {
	p.templateID = templateID
}

// Save writes the edited document back to the server.
func (p *Pipeline) Save(ctx context.Context) error {
	if p.doc == nil {
		return fmt.Errorf("no structured resume loaded")
	}
	return p.client.SaveStructuredResume(ctx, p.token, p.analysisID, p.doc)
}

// Preview returns the rendered HTML for the current template and document,
// re-requesting only when either has changed since the last call.
func (p *Pipeline) Preview(ctx context.Context) (string, error) {
	key, err := p.previewKey()
	if err != nil {
		return "", err
	}
	if key == p.lastPreviewKey && p.lastPreviewHTML != "" {
		return p.lastPreviewHTML, nil
	}

	html, err := p.client.PreviewHTML(ctx, p.token, p.analysisID, p.templateID, p.doc)
	if err != nil {
		return "", err
	}
	p.lastPreviewKey = key
	p.lastPreviewHTML = html
	return html, nil
}

func (p *Pipeline) previewKey() (string, error) {
	encoded, err := json.Marshal(p.doc)
	if err != nil {
		return "", fmt.Errorf("failed to fingerprint document: %w", err)
	}
	var buf bytes.Buffer
	buf.WriteString(p.templateID)
	buf.WriteByte(0)
	buf.Write(encoded)
	return buf.String(), nil
}

// Download renders the PDF server-side and writes it to outPath. When
// outPath is empty the server-suggested file name is used in the current
// directory. Returns the path written.
func (p *Pipeline) Download(ctx context.Context, outPath string) (string, error) {
	data, name, err := p.client.DownloadPDF(ctx, p.token, p.analysisID, p.templateID, p.doc)
	if err != nil {
		return "", err
	}
	if outPath == "" {
		outPath = name
	}
	if err := os.WriteFile(outPath, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write PDF: %w", err)
	}
	if p.verbose {
		log.Printf("[TEMPLATE] wrote %d bytes to %s", len(data), outPath)
	}
	return outPath, nil
}
