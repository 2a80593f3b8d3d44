// Package render wraps the headless document-rendering engine behind a
// narrow interface so the analytics pipeline can be tested without driving a
// real browser.
package render

import (
	"bytes"
	"context"
	"errors"
)

// ErrInvalidOutput signals that the rendering engine returned bytes that are
// not a valid PDF document. A truncated or error-page render must fail
// explicitly, never be streamed to the caller as success.
var ErrInvalidOutput = errors.New("rendered output is not a valid PDF document")

// Renderer turns an HTML document into print-ready PDF bytes.
type Renderer interface {
	Render(ctx context.Context, html string, opts Options) ([]byte, error)
}

// Options configure the physical page the engine prints to.
type Options struct {
	Landscape       bool
	PaperWidth      float64 // inches
	PaperHeight     float64 // inches
	Margin          float64 // inches, applied to all four sides
	PrintBackground bool
}

// ReportOptions is the fixed page setup for progress reports: A4 landscape,
// zero margins, background graphics preserved.
func ReportOptions() Options {
	return Options{
		Landscape:       true,
		PaperWidth:      8.27,
		PaperHeight:     11.69,
		Margin:          0,
		PrintBackground: true,
	}
}

var pdfSignature = []byte("%PDF")

// ValidatePDF checks the document signature in the buffer's leading bytes.
func ValidatePDF(buf []byte) error {
	if !bytes.HasPrefix(buf, pdfSignature) {
		return ErrInvalidOutput
	}
	return nil
}
