package api

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// GuestSession is the server's view of a guest grant.
type GuestSession struct {
	GuestToken string    `json:"guest_token"`
	Credits    int       `json:"credits"`
	ExpiresAt  time.Time `json:"expires_at"`
	SessionID  string    `json:"session_id"`
}

// AnalysisRequest carries one analysis submission. Resume content is streamed
// from the reader; ResumeName is the original file name and decides the
// accepted-format check.
type AnalysisRequest struct {
	Resume         io.Reader `validate:"required"`
	ResumeName     string    `validate:"required"`
	JobDescription string    `validate:"required"`
	JobTitle       string
	CompanyName    string
}

// acceptedExtensions are the resume upload formats the service accepts.
var acceptedExtensions = map[string]bool{
	".pdf":  true,
	".docx": true,
	".txt":  true,
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the request client-side before any bytes are sent. The
// server re-validates; this only avoids a wasted round trip.
func (r *AnalysisRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return fmt.Errorf("invalid analysis request: %w", err)
		}
		for _, fieldErr := range fieldErrs {
			switch fieldErr.Field() {
			case "Resume":
				return fmt.Errorf("resume file is required")
			case "ResumeName":
				return fmt.Errorf("resume file name is required")
			case "JobDescription":
				return fmt.Errorf("job description is required")
			}
		}
		return err
	}

	if strings.TrimSpace(r.JobDescription) == "" {
		return fmt.Errorf("job description is required")
	}

	ext := strings.ToLower(filepath.Ext(r.ResumeName))
	if !acceptedExtensions[ext] {
		return fmt.Errorf("unsupported resume format %q: accepted formats are PDF, DOCX, TXT", ext)
	}
	return nil
}

// Feedback is a user feedback submission.
type Feedback struct {
	Category string `json:"category,omitempty"`
	Message  string `json:"message" validate:"required"`
	Email    string `json:"email,omitempty" validate:"omitempty,email"`
	Page     string `json:"page,omitempty"`
}

// Validate checks the feedback before submission.
func (f *Feedback) Validate() error {
	if err := validate.Struct(f); err != nil {
		return fmt.Errorf("invalid feedback: %w", err)
	}
	return nil
}

// EmailPreferences holds the per-category marketing email flags.
type EmailPreferences struct {
	ProductUpdates bool `json:"product_updates"`
	CareerTips     bool `json:"career_tips"`
	Promotions     bool `json:"promotions"`
}

// Template describes one downloadable document template.
type Template struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	PreviewURL  string `json:"preview_url,omitempty"`
}

// TemplateKind selects a template listing endpoint.
type TemplateKind string

const (
	TemplateResume      TemplateKind = "resume"
	TemplateCoverLetter TemplateKind = "cover-letter"
)

// TemplateCatalog groups the listings for both document kinds.
type TemplateCatalog struct {
	Resume      []Template `json:"resume"`
	CoverLetter []Template `json:"cover_letter"`
}
