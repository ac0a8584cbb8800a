// Package pdf renders HTML into PDF bytes using a headless Chrome instance.
// PDF rendering is fallible and independent of the AI pipeline: callers must
// treat a render failure as loss of the artifact only, never of the
// already-computed resume data.
package pdf

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// DefaultTimeout bounds one render.
const DefaultTimeout = 30 * time.Second

// Renderer converts an HTML document into PDF bytes.
type Renderer interface {
	Render(ctx context.Context, html string) ([]byte, error)
}

// RenderError represents a PDF generation failure.
type RenderError struct {
	Message string
	Cause   error
}

func (e *RenderError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("pdf generation failed: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("pdf generation failed: %s", e.Message)
}

func (e *RenderError) Unwrap() error {
	return e.Cause
}

// ChromeRenderer renders PDFs with headless Chrome.
// Requires Chrome/Chromium to be installed on the system.
type ChromeRenderer struct {
	Timeout time.Duration
}

// NewChromeRenderer creates a ChromeRenderer with the default timeout.
func NewChromeRenderer() *ChromeRenderer {
	return &ChromeRenderer{Timeout: DefaultTimeout}
}

// Render loads the HTML document in a fresh browser context and prints it
// to PDF.
func (r *ChromeRenderer) Render(ctx context.Context, html string) ([]byte, error) {
	timeout := r.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
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

	var buf []byte
	err := chromedp.Run(browserCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			frameTree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(frameTree.Frame.ID, html).Do(ctx)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			buf, _, err = page.PrintToPDF().
				WithPrintBackground(true).
				WithPreferCSSPageSize(true).
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		return nil, &RenderError{Message: "headless browser render failed", Cause: err}
	}
	if len(buf) == 0 {
		return nil, &RenderError{Message: "browser produced an empty PDF"}
	}

	return buf, nil
}
