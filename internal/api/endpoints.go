package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"

	"golang.org/x/sync/errgroup"
)

// SubmitFeedback posts a user feedback form.
func (c *Client) SubmitFeedback(ctx context.Context, feedback *Feedback) error {
	if err := feedback.Validate(); err != nil {
		return &Error{Kind: KindGeneric, Message: err.Error(), Cause: err}
	}
	return c.sendJSON(ctx, http.MethodPost, "/api/feedback", "", feedback, nil)
}

// EmailPreferences reads the marketing-email flags for an authenticated user.
func (c *Client) EmailPreferences(ctx context.Context, authToken string) (*EmailPreferences, error) {
	var prefs EmailPreferences
	if err := c.getJSON(ctx, "/api/user/email-preferences", authToken, &prefs); err != nil {
		return nil, err
	}
	return &prefs, nil
}

// UpdateEmailPreferences writes the marketing-email flags.
func (c *Client) UpdateEmailPreferences(ctx context.Context, authToken string, prefs *EmailPreferences) error {
	return c.sendJSON(ctx, http.MethodPut, "/api/user/email-preferences", authToken, prefs, nil)
}

// Unsubscribe disables every email category for the user.
func (c *Client) Unsubscribe(ctx context.Context, authToken string) error {
	return c.sendJSON(ctx, http.MethodPost, "/api/user/unsubscribe", authToken, nil, nil)
}

// ListTemplates fetches the available templates for one document kind.
func (c *Client) ListTemplates(ctx context.Context, kind TemplateKind) ([]Template, error) {
	var templates []Template
	if err := c.getJSON(ctx, "/templates/"+string(kind), "", &templates); err != nil {
		return nil, err
	}
	return templates, nil
}

// ListAllTemplates fetches the resume and cover-letter listings concurrently.
func (c *Client) ListAllTemplates(ctx context.Context) (*TemplateCatalog, error) {
	var catalog TemplateCatalog
	group, ctx := errgroup.WithContext(ctx)

	group.Go(func() error {
		templates, err := c.ListTemplates(ctx, TemplateResume)
		if err != nil {
			return err
		}
		catalog.Resume = templates
		return nil
	})
	group.Go(func() error {
		templates, err := c.ListTemplates(ctx, TemplateCoverLetter)
		if err != nil {
			return err
		}
		catalog.CoverLetter = templates
		return nil
	})

	if err := group.Wait(); err != nil {
		return nil, err
	}
	return &catalog, nil
}

// StructuredResume fetches the parsed resume JSON for an analysis. A 404
// means the parse step has not run yet; callers check IsNotFound and trigger
// ParseResume.
func (c *Client) StructuredResume(ctx context.Context, token, analysisID string) ([]byte, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/analyze/"+url.PathEscape(analysisID)+"/structured-resume", token, nil)
	if err != nil {
		return nil, err
	}
	data, _, err := c.do(req)
	if err != nil {
		return nil, err
	}
	return data, nil
}

// SaveStructuredResume writes the edited resume JSON back to the server.
func (c *Client) SaveStructuredResume(ctx context.Context, token, analysisID string, doc map[string]any) error {
	return c.sendJSON(ctx, http.MethodPut, "/analyze/"+url.PathEscape(analysisID)+"/structured-resume", token, doc, nil)
}

// ParseResume triggers AI structuring of the optimized resume.
func (c *Client) ParseResume(ctx context.Context, token, analysisID string) error {
	return c.sendJSON(ctx, http.MethodPost, "/analyze/"+url.PathEscape(analysisID)+"/parse-resume", token, nil, nil)
}

// renderRequest is the body for preview and download calls.
type renderRequest struct {
	TemplateID string         `json:"template_id"`
	ResumeData map[string]any `json:"resume_data,omitempty"`
}

// PreviewHTML renders a template to HTML with the given resume data.
func (c *Client) PreviewHTML(ctx context.Context, token, analysisID, templateID string, doc map[string]any) (string, error) {
	body, err := json.Marshal(renderRequest{TemplateID: templateID, ResumeData: doc})
	if err != nil {
		return "", &Error{Kind: KindGeneric, Message: "failed to encode render request", Cause: err}
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/analyze/"+url.PathEscape(analysisID)+"/preview-html", token, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	data, _, err := c.do(req)
	if err != nil {
		return "", err
	}

	// The endpoint returns either raw HTML or {"html": "..."}.
	var wrapped struct {
		HTML string `json:"html"`
	}
	if json.Unmarshal(data, &wrapped) == nil && wrapped.HTML != "" {
		return wrapped.HTML, nil
	}
	return string(data), nil
}

// DownloadPDF renders the template server-side and returns the PDF bytes plus
// the server-suggested file name.
func (c *Client) DownloadPDF(ctx context.Context, token, analysisID, templateID string, doc map[string]any) ([]byte, string, error) {
	body, err := json.Marshal(renderRequest{TemplateID: templateID, ResumeData: doc})
	if err != nil {
		return nil, "", &Error{Kind: KindGeneric, Message: "failed to encode render request", Cause: err}
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/analyze/"+url.PathEscape(analysisID)+"/download-pdf", token, bytes.NewReader(body))
	if err != nil {
		return nil, "", err
	}
	req.Header.Set("Content-Type", "application/json")

	data, resp, err := c.do(req)
	if err != nil {
		return nil, "", err
	}

	name := filenameFromDisposition(resp.Header.Get("Content-Disposition"), "resume.pdf")
	return data, name, nil
}

// IsNotFound reports whether err is an API error with a 404 status.
func IsNotFound(err error) bool {
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.StatusCode == http.StatusNotFound
}
