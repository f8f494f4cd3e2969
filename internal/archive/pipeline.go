// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package archive drives the conversion of a newspaper PDF into an article
// archive: metadata resolution, per-page segmentation, noise filtering, and
// sequential numbering of the surviving articles.
package archive

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/news-archive/internal/logger"
	"github.com/pdiddy/news-archive/internal/metadata"
	"github.com/pdiddy/news-archive/internal/noise"
	"github.com/pdiddy/news-archive/internal/pdftext"
	"github.com/pdiddy/news-archive/internal/record"
	"github.com/pdiddy/news-archive/internal/segment"
	"github.com/pdiddy/news-archive/pkg/types"
)

// Pipeline archives documents one at a time. A Pipeline keeps no state
// between runs; the article counter lives inside each run.
type Pipeline struct {
	opener     pdftext.Opener
	segmenter  *segment.Segmenter
	classifier *noise.Classifier
	resolver   *metadata.Resolver
	style      types.RecordStyle
	outputDir  string
	force      bool
	log        *logger.Logger
}

// New builds a Pipeline for cfg. The structured variant turns on IN BRIEF
// suppression and the structured noise rules.
func New(opener pdftext.Opener, cfg types.ArchiveConfig, log *logger.Logger) (*Pipeline, error) {
	classifier, err := noise.ForVariant(cfg.Variant, cfg.Noise)
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = logger.Discard()
	}
	return &Pipeline{
		opener:     opener,
		segmenter:  segment.New(cfg.Variant == types.VariantStructured),
		classifier: classifier,
		resolver:   metadata.Default(),
		style:      cfg.DefaultStyle(),
		outputDir:  cfg.OutputDir,
		force:      cfg.Force,
		log:        log,
	}, nil
}

// Summary describes one completed (or aborted) run.
type Summary struct {
	SourceFile string
	Metadata   types.DocumentMetadata
	Pages      int
	Candidates int
	Discarded  int
	Articles   int
}

// String returns the completion line reported at the end of a run.
func (s Summary) String() string {
	return fmt.Sprintf("Finished. Total articles: %d", s.Articles)
}

// PageResult is the outcome of segmenting and filtering one page.
type PageResult struct {
	Articles   []types.Article
	Candidates int

	// Next is the sequence number for the first article of the next page.
	Next int
}

// Page segments one page and numbers the surviving candidates from next.
// It has no side effects.
func (p *Pipeline) Page(page types.PageText, next int) PageResult {
	groups := p.segmenter.Page(page.Raw)
	res := PageResult{Candidates: len(groups), Next: next}
	for _, g := range groups {
		if tag := p.classifier.Classify(g); tag != "" {
			p.log.Debug("discarded candidate", "page", page.Number, "rule", tag, "first_line", g[0])
			continue
		}
		res.Articles = append(res.Articles, types.Article{Page: page.Number, Sequence: res.Next, Lines: g})
		res.Next++
	}
	return res
}

// Archive converts the document at pdfPath into an archive at outPath. The
// document is opened and its metadata resolved before outPath is created,
// so a document that cannot be opened leaves no output behind. A failure
// after that point leaves the partial archive in place.
func (p *Pipeline) Archive(ctx context.Context, pdfPath, outPath string) (sum Summary, err error) {
	doc, err := p.opener.Open(ctx, pdfPath)
	if err != nil {
		return Summary{}, err
	}
	defer doc.Close()

	fileName := filepath.Base(pdfPath)
	meta, err := p.resolve(doc, fileName)
	if err != nil {
		return Summary{}, err
	}

	f, err := os.Create(outPath)
	if err != nil {
		return Summary{}, &record.WriteError{Op: outPath, Err: err}
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = &record.WriteError{Op: outPath, Err: cerr}
		}
	}()

	return p.write(ctx, doc, fileName, meta, f)
}

// Process archives an already open document to w.
func (p *Pipeline) Process(ctx context.Context, doc pdftext.Document, fileName string, w io.Writer) (Summary, error) {
	meta, err := p.resolve(doc, fileName)
	if err != nil {
		return Summary{}, err
	}
	return p.write(ctx, doc, fileName, meta, w)
}

// resolve derives metadata from the filename and, when any field is still
// Unknown, from the first page.
func (p *Pipeline) resolve(doc pdftext.Document, fileName string) (types.DocumentMetadata, error) {
	meta := p.resolver.Resolve(fileName)
	if len(meta.Unresolved()) > 0 && doc.PageCount() > 0 {
		first, err := doc.PageText(1)
		if err != nil {
			return meta, fmt.Errorf("reading page 1 of %s: %w", fileName, err)
		}
		meta = metadata.Fallback(meta, first)
	}
	if missing := meta.Unresolved(); len(missing) > 0 {
		p.log.Warn("metadata unresolved", "source", fileName, "fields", strings.Join(missing, ","))
	}
	return meta, nil
}

func (p *Pipeline) write(ctx context.Context, doc pdftext.Document, fileName string, meta types.DocumentMetadata, w io.Writer) (Summary, error) {
	sum := Summary{SourceFile: fileName, Metadata: meta, Pages: doc.PageCount()}

	rw := record.NewWriter(w, p.style)
	if err := rw.WriteHeader(record.Header{Metadata: meta, SourceFile: fileName, TotalPages: sum.Pages}); err != nil {
		return sum, err
	}

	next := 1
	for n := 1; n <= sum.Pages; n++ {
		if err := ctx.Err(); err != nil {
			return sum, err
		}

		raw, err := doc.PageText(n)
		if err != nil {
			return sum, fmt.Errorf("reading page %d of %s: %w", n, fileName, err)
		}

		res := p.Page(types.PageText{Number: n, Raw: raw}, next)
		for _, a := range res.Articles {
			if err := rw.WriteArticle(a); err != nil {
				return sum, err
			}
			sum.Articles++
		}
		next = res.Next
		sum.Candidates += res.Candidates
		sum.Discarded += res.Candidates - len(res.Articles)

		p.log.Debug("page archived", "source", fileName, "page", n,
			"candidates", res.Candidates, "articles", len(res.Articles))
	}

	if err := rw.Flush(); err != nil {
		return sum, err
	}
	return sum, nil
}
