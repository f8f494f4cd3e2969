// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pdftest builds small single-font PDFs for tests. Each page is a
// list of text lines drawn top to bottom at a fixed leading.
package pdftest

import (
	"bytes"
	"fmt"
	"os"
	"strings"
)

const (
	left    = 72
	top     = 720
	leading = 20
)

// Build returns the bytes of a PDF with one page per entry of pages.
func Build(pages ...[]string) []byte {
	// Objects: 1 catalog, 2 page tree, 3 font, then a page and a content
	// stream per page.
	var objects []string
	kids := make([]string, len(pages))
	for i := range pages {
		kids[i] = fmt.Sprintf("%d 0 R", 4+2*i)
	}
	objects = append(objects,
		"<< /Type /Catalog /Pages 2 0 R >>",
		fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), len(pages)),
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>",
	)
	for i, lines := range pages {
		stream := contentStream(lines)
		objects = append(objects,
			fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] "+
				"/Resources << /Font << /F1 3 0 R >> >> /Contents %d 0 R >>", 5+2*i),
			fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(stream), stream),
		)
	}

	var b bytes.Buffer
	b.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = b.Len()
		fmt.Fprintf(&b, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}
	xref := b.Len()
	fmt.Fprintf(&b, "xref\n0 %d\n0000000000 65535 f \n", len(objects)+1)
	for _, off := range offsets {
		fmt.Fprintf(&b, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&b, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)
	return b.Bytes()
}

// Write builds the PDF and writes it to path.
func Write(path string, pages ...[]string) error {
	return os.WriteFile(path, Build(pages...), 0o644)
}

func contentStream(lines []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "BT /F1 12 Tf %d %d Td", left, top)
	for i, line := range lines {
		if i > 0 {
			fmt.Fprintf(&b, " 0 -%d Td", leading)
		}
		fmt.Fprintf(&b, " (%s) Tj", escape(line))
	}
	b.WriteString(" ET")
	return b.String()
}

func escape(s string) string {
	return strings.NewReplacer(`\`, `\\`, `(`, `\(`, `)`, `\)`).Replace(s)
}
