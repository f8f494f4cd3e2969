// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pdftext

import (
	"context"
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"
)

// PDFOpener reads PDFs with the pure-Go ledongthuc/pdf reader. It needs no
// external tools and yields layout-flattened text.
type PDFOpener struct{}

// NewPDFOpener creates a PDF opener.
func NewPDFOpener() *PDFOpener { return &PDFOpener{} }

// Open parses the PDF cross-reference table and trailer. Malformed files
// surface as *OpenError.
func (o *PDFOpener) Open(_ context.Context, path string) (doc Document, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &OpenError{Path: path, Err: err}
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, &OpenError{Path: path, Err: err}
	}

	// The reader panics on some corrupt cross-reference tables.
	defer func() {
		if r := recover(); r != nil {
			f.Close()
			doc, err = nil, &OpenError{Path: path, Err: fmt.Errorf("malformed PDF: %v", r)}
		}
	}()

	r, err := pdf.NewReader(f, info.Size())
	if err != nil {
		f.Close()
		return nil, &OpenError{Path: path, Err: err}
	}
	return &pdfDocument{f: f, r: r}, nil
}

type pdfDocument struct {
	f *os.File
	r *pdf.Reader
}

func (d *pdfDocument) PageCount() int { return d.r.NumPage() }

// PageText returns the page's text runs in drawing order, one line per
// baseline.
func (d *pdfDocument) PageText(n int) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("decoding page %d: %v", n, r)
		}
	}()

	page := d.r.Page(n)
	if page.V.IsNull() {
		return "", nil
	}
	return joinLines(page.Content().Text), nil
}

// baselineTolerance is how far apart two glyph baselines may be and still
// count as the same line.
const baselineTolerance = 0.5

// joinLines concatenates text runs, starting a new line whenever the
// baseline moves.
func joinLines(runs []pdf.Text) string {
	var b strings.Builder
	for i, t := range runs {
		if i > 0 && math.Abs(t.Y-runs[i-1].Y) > baselineTolerance {
			b.WriteByte('\n')
		}
		b.WriteString(t.S)
	}
	return b.String()
}

func (d *pdfDocument) Close() error { return d.f.Close() }

// TextOpener reads plain-text dumps (for example pdftotext output) in which
// pages are separated by form feeds.
type TextOpener struct{}

// Open reads the whole file and splits it into pages.
func (TextOpener) Open(_ context.Context, path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &OpenError{Path: path, Err: err}
	}
	return splitPages(string(data)), nil
}

// splitPages splits text on form feeds. A trailing form feed does not start
// an extra page.
func splitPages(text string) Document {
	text = strings.TrimSuffix(text, "\f")
	if strings.TrimSpace(text) == "" {
		return pages(nil)
	}
	return pages(strings.Split(text, "\f"))
}
