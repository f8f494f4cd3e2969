// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pdftext

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/pdiddy/news-archive/internal/container"
)

const imageMarkitdown = "markitdown:latest"

// MarkitdownOpener extracts text by piping the PDF through the markitdown
// container image. Its output keeps headings and paragraphs apart, which is
// what the structured variant expects. Pages come back separated by form
// feeds.
type MarkitdownOpener struct {
	runtime container.Runtime
}

// NewMarkitdownOpener verifies that the markitdown image exists in rt.
func NewMarkitdownOpener(rt container.Runtime) (*MarkitdownOpener, error) {
	if err := rt.ImageExists(imageMarkitdown); err != nil {
		return nil, fmt.Errorf("markitdown image not available in %s: %w", rt.Name(), err)
	}
	return &MarkitdownOpener{runtime: rt}, nil
}

// Open runs the whole document through markitdown once and serves pages from
// memory.
func (m *MarkitdownOpener) Open(ctx context.Context, path string) (Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &OpenError{Path: path, Err: err}
	}
	defer f.Close()

	var out bytes.Buffer
	if err := m.runtime.Run(ctx, imageMarkitdown, f, &out); err != nil {
		if ctx.Err() != nil {
			return nil, err
		}
		return nil, &OpenError{Path: path, Err: err}
	}

	doc := splitPages(out.String())
	if doc.PageCount() == 0 {
		return nil, &OpenError{Path: path, Err: errors.New("markitdown produced empty output")}
	}
	return doc, nil
}
