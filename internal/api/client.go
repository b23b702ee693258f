// Package api is the HTTP client for the resume analysis service. It is the
// only network-facing component: every other package talks to the server
// through it and receives classified *Error values on failure.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"mime"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultTimeout is the default HTTP request timeout.
const DefaultTimeout = 30 * time.Second

// DefaultUserAgent identifies the CLI to the service.
const DefaultUserAgent = "resume-pilot/1.0"

// Options configures the client.
type Options struct {
	Timeout    time.Duration
	UserAgent  string
	Headers    map[string]string
	HTTPClient *http.Client
	Verbose    bool
}

// DefaultOptions returns sensible defaults.
func DefaultOptions() *Options {
	return &Options{
		Timeout:   DefaultTimeout,
		UserAgent: DefaultUserAgent,
	}
}

// Client talks to the resume analysis service.
type Client struct {
	baseURL    string
	httpClient *http.Client
	userAgent  string
	headers    map[string]string
	verbose    bool
}

// New creates a client for the given base URL.
func New(baseURL string, opts *Options) (*Client, error) {
	if opts == nil {
		opts = DefaultOptions()
	}

	parsed, err := url.Parse(baseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("invalid API base URL %q", baseURL)
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout == 0 {
			timeout = DefaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	userAgent := opts.UserAgent
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		userAgent:  userAgent,
		headers:    opts.Headers,
		verbose:    opts.Verbose,
	}, nil
}

// errorEnvelope covers the error shapes the backend emits: the nested
// {"error": {"code", "message"}} envelope, flat {"error_code", "message"},
// and the bare {"detail": "..."} form.
type errorEnvelope struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
	ErrorCode string `json:"error_code"`
	Message   string `json:"message"`
	Detail    string `json:"detail"`
}

func (e *errorEnvelope) code() string {
	if e.Error.Code != "" {
		return e.Error.Code
	}
	return e.ErrorCode
}

func (e *errorEnvelope) message() string {
	for _, m := range []string{e.Error.Message, e.Message, e.Detail} {
		if m != "" {
			return m
		}
	}
	return ""
}

// newRequest builds a request with the standard headers. A fresh request id
// is attached so server logs can be correlated with a CLI invocation.
func (c *Client) newRequest(ctx context.Context, method, path, token string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, &Error{Kind: KindGeneric, Message: "failed to create request", Cause: err}
	}

	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", uuid.NewString())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for key, value := range c.headers {
		req.Header.Set(key, value)
	}
	return req, nil
}

// do executes a request and returns the response body on 2xx. Any other
// status is decoded into a classified *Error.
func (c *Client) do(req *http.Request) ([]byte, *http.Response, error) {
	if c.verbose {
		log.Printf("[API] %s %s", req.Method, req.URL.Path)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if req.Context().Err() == context.DeadlineExceeded {
			return nil, nil, &Error{Kind: KindTimeout, Message: "request timed out", Cause: err}
		}
		return nil, nil, &Error{Kind: classifyTransport(err), Message: "request failed", Cause: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp, &Error{Kind: KindNetwork, Message: "failed to read response", Cause: err}
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return data, resp, nil
	}

	var envelope errorEnvelope
	_ = json.Unmarshal(data, &envelope)

	message := envelope.message()
	if message == "" {
		message = fmt.Sprintf("server returned status %d", resp.StatusCode)
	}

	kind := Classify(envelope.code(), message)
	if kind == KindGeneric && resp.StatusCode == http.StatusUnauthorized {
		kind = KindSessionInvalid
	}

	return nil, resp, &Error{
		Kind:       kind,
		Code:       envelope.code(),
		Message:    message,
		StatusCode: resp.StatusCode,
	}
}

// getJSON issues a GET and decodes the response into out.
func (c *Client) getJSON(ctx context.Context, path, token string, out any) error {
	req, err := c.newRequest(ctx, http.MethodGet, path, token, nil)
	if err != nil {
		return err
	}

	data, _, err := c.do(req)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &Error{Kind: KindGeneric, Message: "failed to decode response", Cause: err}
	}
	return nil
}

// sendJSON issues a request with a JSON body and decodes the response into
// out when out is non-nil.
func (c *Client) sendJSON(ctx context.Context, method, path, token string, body, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return &Error{Kind: KindGeneric, Message: "failed to encode request", Cause: err}
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := c.newRequest(ctx, method, path, token, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	data, _, err := c.do(req)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &Error{Kind: KindGeneric, Message: "failed to decode response", Cause: err}
	}
	return nil
}

// CreateSession creates a new guest session.
func (c *Client) CreateSession(ctx context.Context) (*GuestSession, error) {
	var session GuestSession
	if err := c.sendJSON(ctx, http.MethodPost, "/guest/session", "", nil, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// SessionInfo fetches the current session snapshot. This is the authoritative
// expiry check; client-side validity is only a pre-filter.
func (c *Client) SessionInfo(ctx context.Context, token string) (*GuestSession, error) {
	var session GuestSession
	if err := c.getJSON(ctx, "/guest/session/info", token, &session); err != nil {
		return nil, err
	}
	if session.GuestToken == "" {
		session.GuestToken = token
	}
	return &session, nil
}

// AnalyzeResume posts the resume and job description as multipart form data
// and returns the validated analysis payload.
func (c *Client) AnalyzeResume(ctx context.Context, token string, request *AnalysisRequest) ([]byte, error) {
	if err := request.Validate(); err != nil {
		return nil, &Error{Kind: KindGeneric, Message: err.Error(), Cause: err}
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("resume", request.ResumeName)
	if err != nil {
		return nil, &Error{Kind: KindGeneric, Message: "failed to build upload", Cause: err}
	}
	if _, err := io.Copy(part, request.Resume); err != nil {
		return nil, &Error{Kind: KindGeneric, Message: "failed to read resume file", Cause: err}
	}

	fields := []struct{ name, value string }{
		{"job_description", request.JobDescription},
		{"job_title", request.JobTitle},
		{"company_name", request.CompanyName},
	}
	for _, field := range fields {
		if field.value == "" && field.name != "job_description" {
			continue
		}
		if err := writer.WriteField(field.name, field.value); err != nil {
			return nil, &Error{Kind: KindGeneric, Message: "failed to build upload", Cause: err}
		}
	}
	if err := writer.Close(); err != nil {
		return nil, &Error{Kind: KindGeneric, Message: "failed to build upload", Cause: err}
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/guest/analyze", token, &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	data, _, err := c.do(req)
	if err != nil {
		return nil, err
	}
	return data, nil
}

// Analysis retrieves a prior analysis payload by id.
func (c *Client) Analysis(ctx context.Context, token, analysisID string) ([]byte, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/guest/analysis/"+url.PathEscape(analysisID), token, nil)
	if err != nil {
		return nil, err
	}
	data, _, err := c.do(req)
	if err != nil {
		return nil, err
	}
	return data, nil
}

// filenameFromDisposition extracts the suggested file name from a
// Content-Disposition header, or returns fallback.
func filenameFromDisposition(header, fallback string) string {
	if header == "" {
		return fallback
	}
	_, params, err := mime.ParseMediaType(header)
	if err != nil {
		return fallback
	}
	if name := params["filename"]; name != "" {
		return name
	}
	return fallback
}
