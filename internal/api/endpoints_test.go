package api

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmitFeedback(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/feedback", r.URL.Path)

		var feedback Feedback
		require.NoError(t, json.NewDecoder(r.Body).Decode(&feedback))
		assert.Equal(t, "The analysis missed my certifications.", feedback.Message)
		w.WriteHeader(http.StatusCreated)
	}))

	err := client.SubmitFeedback(context.Background(), &Feedback{
		Category: "accuracy",
		Message:  "The analysis missed my certifications.",
	})
	require.NoError(t, err)
}

func TestSubmitFeedback_RequiresMessage(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatal("no request should be sent")
	}))

	err := client.SubmitFeedback(context.Background(), &Feedback{Email: "a@b.co"})
	require.Error(t, err)
}

func TestEmailPreferences_RoundTrip(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/user/email-preferences", r.URL.Path)
		assert.Equal(t, "Bearer auth-tok", r.Header.Get("Authorization"))

		switch r.Method {
		case http.MethodGet:
			_, _ = w.Write([]byte(`{"product_updates": true, "career_tips": false, "promotions": true}`))
		case http.MethodPut:
			var prefs EmailPreferences
			require.NoError(t, json.NewDecoder(r.Body).Decode(&prefs))
			assert.False(t, prefs.Promotions)
			w.WriteHeader(http.StatusNoContent)
		}
	}))

	prefs, err := client.EmailPreferences(context.Background(), "auth-tok")
	require.NoError(t, err)
	assert.True(t, prefs.ProductUpdates)
	assert.True(t, prefs.Promotions)

	prefs.Promotions = false
	require.NoError(t, client.UpdateEmailPreferences(context.Background(), "auth-tok", prefs))
}

func TestUnsubscribe(t *testing.T) {
	var called bool
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/user/unsubscribe", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	}))

	require.NoError(t, client.Unsubscribe(context.Background(), "auth-tok"))
	assert.True(t, called)
}

func TestListAllTemplates(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/templates/resume":
			_, _ = w.Write([]byte(`[{"id": "modern", "name": "Modern"}, {"id": "classic", "name": "Classic"}]`))
		case "/templates/cover-letter":
			_, _ = w.Write([]byte(`[{"id": "simple", "name": "Simple"}]`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))

	catalog, err := client.ListAllTemplates(context.Background())
	require.NoError(t, err)
	assert.Len(t, catalog.Resume, 2)
	assert.Len(t, catalog.CoverLetter, 1)
	assert.Equal(t, "modern", catalog.Resume[0].ID)
}

func TestListAllTemplates_PartialFailure(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/templates/resume" {
			_, _ = w.Write([]byte(`[]`))
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"detail": "template store unavailable"}`))
	}))

	_, err := client.ListAllTemplates(context.Background())
	require.Error(t, err)
}

func TestStructuredResume_NotFound(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/analyze/a-1/structured-resume", r.URL.Path)
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"detail": "structured resume not found"}`))
	}))

	_, err := client.StructuredResume(context.Background(), "tok-1", "a-1")
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
}

func TestSaveStructuredResume(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)

		var doc map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&doc))
		assert.Equal(t, "Ada", doc["name"])
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{}`))
	}))

	err := client.SaveStructuredResume(context.Background(), "tok-1", "a-1", map[string]any{"name": "Ada"})
	require.NoError(t, err)
}

func TestPreviewHTML_WrappedAndRaw(t *testing.T) {
	t.Run("wrapped", func(t *testing.T) {
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var body renderRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "modern", body.TemplateID)
			_, _ = w.Write([]byte(`{"html": "<html><body>Preview</body></html>"}`))
		}))

		html, err := client.PreviewHTML(context.Background(), "tok-1", "a-1", "modern", nil)
		require.NoError(t, err)
		assert.Contains(t, html, "Preview")
	})

	t.Run("raw", func(t *testing.T) {
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			_, _ = w.Write([]byte(`<html><body>Raw</body></html>`))
		}))

		html, err := client.PreviewHTML(context.Background(), "tok-1", "a-1", "modern", nil)
		require.NoError(t, err)
		assert.Contains(t, html, "Raw")
	})
}

func TestDownloadPDF(t *testing.T) {
	pdf := []byte("%PDF-1.4 rendered")
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/analyze/a-1/download-pdf", r.URL.Path)
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", `attachment; filename="tailored-resume.pdf"`)
		_, _ = w.Write(pdf)
	}))

	data, name, err := client.DownloadPDF(context.Background(), "tok-1", "a-1", "modern", nil)
	require.NoError(t, err)
	assert.Equal(t, pdf, data)
	assert.Equal(t, "tailored-resume.pdf", name)
}

func TestDownloadPDF_NoDisposition(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("%PDF"))
	}))

	_, name, err := client.DownloadPDF(context.Background(), "tok-1", "a-1", "modern", nil)
	require.NoError(t, err)
	assert.Equal(t, "resume.pdf", name)
}
