// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package record reads and writes the plain-text article archive format.
//
// An archive starts with one metadata header line and a blank line. Each
// article follows as a "---" delimiter, an article header line, the article
// body lines, and a blank line.
package record

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/pdiddy/news-archive/pkg/types"
)

// Header is the document-level record written once per archive.
type Header struct {
	Metadata   types.DocumentMetadata
	SourceFile string
	TotalPages int
}

// WriteError reports a failed write to the archive destination.
type WriteError struct {
	Op  string
	Err error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("writing %s: %v", e.Op, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// Writer formats records onto an output stream. It is not safe for
// concurrent use.
type Writer struct {
	w      *bufio.Writer
	style  types.RecordStyle
	header Header
}

// NewWriter wraps w. Call Flush when done.
func NewWriter(w io.Writer, style types.RecordStyle) *Writer {
	return &Writer{w: bufio.NewWriter(w), style: style}
}

// WriteHeader writes the metadata header. Article headers in the full style
// repeat its fields.
func (w *Writer) WriteHeader(h Header) error {
	w.header = h
	m := h.Metadata
	_, err := fmt.Fprintf(w.w,
		"# Metadata: newspaper_name=%s, edition=%s, date=%s, source_file=%s, total_pages=%d\n\n",
		m.NewspaperName, m.Edition, m.Date, h.SourceFile, h.TotalPages)
	if err != nil {
		return &WriteError{Op: "metadata header", Err: err}
	}
	return nil
}

// WriteArticle writes one article record.
func (w *Writer) WriteArticle(a types.Article) error {
	var b strings.Builder
	b.WriteString("---\n")
	fmt.Fprintf(&b, "# Article %d | Page %d", a.Sequence, a.Page)
	if w.style != types.StyleReduced {
		m := w.header.Metadata
		fmt.Fprintf(&b, " | Newspaper: %s | Edition: %s | Date: %s | Source: %s",
			m.NewspaperName, m.Edition, m.Date, w.header.SourceFile)
	}
	b.WriteString("\n")
	b.WriteString(strings.TrimSpace(strings.Join(a.Lines, "\n")))
	b.WriteString("\n\n")

	if _, err := w.w.WriteString(b.String()); err != nil {
		return &WriteError{Op: fmt.Sprintf("article %d", a.Sequence), Err: err}
	}
	return nil
}

// Flush writes any buffered data to the underlying stream.
func (w *Writer) Flush() error {
	if err := w.w.Flush(); err != nil {
		return &WriteError{Op: "archive", Err: err}
	}
	return nil
}
