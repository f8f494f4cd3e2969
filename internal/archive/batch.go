// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package archive

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pdiddy/news-archive/pkg/types"
)

// BatchResult holds the outcome of a batch archive run.
type BatchResult struct {
	Archived int
	Skipped  int
	Failed   int
	Articles int
}

// Total returns the total number of PDFs processed.
func (r BatchResult) Total() int {
	return r.Archived + r.Skipped + r.Failed
}

// HasFailures reports whether any PDF failed.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// OutputPath returns the archive path for a PDF inside outDir.
func OutputPath(outDir, pdfPath string) string {
	base := strings.TrimSuffix(filepath.Base(pdfPath), filepath.Ext(pdfPath))
	return filepath.Join(outDir, base+".txt")
}

// ArchiveFile archives one PDF into the configured output directory and
// prints a status line to w. An existing archive is skipped unless the
// pipeline was configured with Force.
func (p *Pipeline) ArchiveFile(ctx context.Context, pdfPath string, w io.Writer) (types.ArchiveStatus, Summary) {
	base := strings.TrimSuffix(filepath.Base(pdfPath), filepath.Ext(pdfPath))
	outPath := OutputPath(p.outputDir, pdfPath)

	if !p.force {
		if _, err := os.Stat(outPath); err == nil {
			fmt.Fprintf(w, "skipped: %s (already exists)\n", base)
			return types.ArchiveNone, Summary{}
		}
	}

	if err := os.MkdirAll(p.outputDir, 0o755); err != nil {
		fmt.Fprintf(w, "failed:  %s (%v)\n", base, err)
		return types.ArchiveFailed, Summary{}
	}

	sum, err := p.Archive(ctx, pdfPath, outPath)
	if err != nil {
		fmt.Fprintf(w, "failed:  %s (%v)\n", base, err)
		return types.ArchiveFailed, sum
	}

	fmt.Fprintf(w, "archived: %s (%d articles from %d pages)\n", base, sum.Articles, sum.Pages)
	return types.ArchiveDone, sum
}

// ArchiveBatch archives each PDF in turn, printing per-file status to w and
// returning a summary. Each PDF is an independent run with its own article
// numbering. A cancelled context stops the batch before the next file.
func (p *Pipeline) ArchiveBatch(ctx context.Context, pdfPaths []string, w io.Writer) BatchResult {
	var result BatchResult
	for _, path := range pdfPaths {
		if ctx.Err() != nil {
			break
		}
		status, sum := p.ArchiveFile(ctx, path, w)
		switch status {
		case types.ArchiveDone:
			result.Archived++
			result.Articles += sum.Articles
		case types.ArchiveNone:
			result.Skipped++
		case types.ArchiveFailed:
			result.Failed++
		}
	}
	fmt.Fprintf(w, "\nBatch summary: %d archived, %d skipped, %d failed (total: %d, articles: %d)\n",
		result.Archived, result.Skipped, result.Failed, result.Total(), result.Articles)
	return result
}

// FindPDFs lists the .pdf files directly inside dir in name order.
func FindPDFs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading input directory %s: %w", dir, err)
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".pdf") {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}
