// Package render produces PDFs from preview HTML with a headless browser.
// It backs the download command's --local mode, which keeps working when the
// server's PDF endpoint is unavailable or the session is out of credits.
package render

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// DefaultTimeout bounds a single render. Chrome startup dominates.
const DefaultTimeout = 60 * time.Second

// PDF renders the given HTML to PDF bytes using headless Chrome.
// Requires Chrome/Chromium to be installed on the system.
func PDF(ctx context.Context, html string, timeout time.Duration, verbose bool) ([]byte, error) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if verbose {
		log.Printf("[RENDER] starting headless browser (%d bytes of HTML)", len(html))
	}

	// The file: scheme avoids data-URL length limits for large documents.
	tmp, err := os.CreateTemp("", "resume-pilot-preview-*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to stage preview HTML: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.WriteString(html); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("failed to stage preview HTML: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("failed to stage preview HTML: %w", err)
	}

	allocCtx, cancel := chromedp.NewExecAllocator(ctx,
		append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", true),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
		)...,
	)
	defer cancel()

	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	browserCtx, cancel = context.WithTimeout(browserCtx, timeout)
	defer cancel()

	absPath, err := filepath.Abs(tmp.Name())
	if err != nil {
		return nil, fmt.Errorf("failed to resolve preview path: %w", err)
	}

	var pdf []byte
	err = chromedp.Run(browserCtx,
		chromedp.Navigate("file://"+absPath),
		chromedp.WaitReady("body"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var printErr error
			pdf, _, printErr = page.PrintToPDF().
				WithPrintBackground(true).
				WithPreferCSSPageSize(true).
				Do(ctx)
			return printErr
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to render PDF: %w", err)
	}

	if verbose {
		log.Printf("[RENDER] produced %d bytes of PDF", len(pdf))
	}
	return pdf, nil
}
