// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pdftext supplies per-page raw text of newspaper PDFs. Different
// backends (a pure-Go PDF reader, markitdown in a container, form-feed
// separated text dumps) implement Opener.
package pdftext

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/pdiddy/news-archive/internal/container"
	"github.com/pdiddy/news-archive/pkg/types"
)

// Document is an open source document. Pages are numbered from 1.
type Document interface {
	// PageCount returns the number of pages.
	PageCount() int

	// PageText returns the layout-flattened text of page n.
	PageText(n int) (string, error)

	// Close releases the underlying file.
	Close() error
}

// Opener opens a document by path.
type Opener interface {
	Open(ctx context.Context, path string) (Document, error)
}

// OpenError reports a source document that is missing, unreadable, or not a
// valid document.
type OpenError struct {
	Path string
	Err  error
}

func (e *OpenError) Error() string {
	return fmt.Sprintf("opening document %s: %v", e.Path, e.Err)
}

func (e *OpenError) Unwrap() error { return e.Err }

// ForBackend returns the Opener for a configured backend. The markitdown
// backend needs a working docker or podman and the markitdown image.
func ForBackend(b types.Backend) (Opener, error) {
	switch b {
	case types.BackendPDF, "":
		return NewPDFOpener(), nil
	case types.BackendText:
		return TextOpener{}, nil
	case types.BackendMarkitdown:
		rt, err := container.DetectRuntime()
		if err != nil {
			return nil, err
		}
		return NewMarkitdownOpener(rt)
	default:
		return nil, fmt.Errorf("unsupported backend %q: use pdf, markitdown, or text", b)
	}
}

// Load opens path and reads every page into a SourceDocument.
func Load(ctx context.Context, o Opener, path string) (types.SourceDocument, error) {
	doc, err := o.Open(ctx, path)
	if err != nil {
		return types.SourceDocument{}, err
	}
	defer doc.Close()

	src := types.SourceDocument{
		FileName:  filepath.Base(path),
		PageCount: doc.PageCount(),
		Pages:     make([]types.PageText, 0, doc.PageCount()),
	}
	for n := 1; n <= src.PageCount; n++ {
		raw, err := doc.PageText(n)
		if err != nil {
			return types.SourceDocument{}, fmt.Errorf("reading page %d of %s: %w", n, path, err)
		}
		src.Pages = append(src.Pages, types.PageText{Number: n, Raw: raw})
	}
	return src, nil
}

// pages is a Document held entirely in memory.
type pages []string

// Pages returns an in-memory Document over the given page texts.
func Pages(texts ...string) Document { return pages(texts) }

func (p pages) PageCount() int { return len(p) }

func (p pages) PageText(n int) (string, error) {
	if n < 1 || n > len(p) {
		return "", fmt.Errorf("page %d out of range 1-%d", n, len(p))
	}
	return p[n-1], nil
}

func (p pages) Close() error { return nil }
