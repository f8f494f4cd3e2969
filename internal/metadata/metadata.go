// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package metadata recovers the newspaper name, edition and date of a
// scanned edition from its filename, falling back to the text of the first
// page for any field the filename does not yield.
package metadata

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"unicode"

	"github.com/pdiddy/news-archive/internal/segment"
	"github.com/pdiddy/news-archive/pkg/types"
)

// DatePattern is one entry of the filename date table.
type DatePattern struct {
	Tag  string
	Expr string
}

// DatePatterns is tried in order against the filename; the first pattern
// that matches anywhere wins.
var DatePatterns = []DatePattern{
	{Tag: "dd-mm-yyyy", Expr: `\d{2}[-_/~]?(?:\d{2}|[A-Za-z]+)[-_/~]?\d{2,4}`},
	{Tag: "yyyy-mm-dd", Expr: `\d{4}[-_/~]?\d{2}[-_/~]?\d{2}`},
	{Tag: "ddmonthyyyy", Expr: `\d{2}[A-Za-z]+\d{4}`},
	{Tag: "dd--dd", Expr: `\d{2}--\d{2}`},
	{Tag: "dd-month-yy", Expr: `\d{2}[-_/~]?[A-Za-z]+[-_/~]?\d{2,4}`},
	{Tag: "dd-yy", Expr: `\d{2}[-_/~]?\d{2,4}`},
}

var (
	// separators treats every Unicode space as whitespace, not only
	// RE2's ASCII \s.
	separators = regexp.MustCompile(`[_\-•●.,:;[:space:]\p{Z}\x{1c}-\x{1f}\x{85}]+`)

	pageDate = regexp.MustCompile(`\d{1,2}[-/ ]\d{1,2}[-/ ]\d{2,4}`)

	// mastheadExclude rejects all-caps lines that are page furniture rather
	// than a masthead.
	mastheadExclude = regexp.MustCompile(`EDITION|PAGE|NEWS|BUREAU|www|FOLLOW US|\d`)
)

const (
	mastheadMin = 4
	mastheadMax = 50
)

type compiledPattern struct {
	tag string
	re  *regexp.Regexp
}

// Resolver derives DocumentMetadata from filenames and first pages.
type Resolver struct {
	dates []compiledPattern
}

// NewResolver compiles a date table into a Resolver.
func NewResolver(patterns []DatePattern) (*Resolver, error) {
	r := &Resolver{dates: make([]compiledPattern, len(patterns))}
	for i, p := range patterns {
		re, err := regexp.Compile(p.Expr)
		if err != nil {
			return nil, fmt.Errorf("compiling date pattern %s: %w", p.Tag, err)
		}
		r.dates[i] = compiledPattern{tag: p.Tag, re: re}
	}
	return r, nil
}

var defaultResolver = func() *Resolver {
	r, err := NewResolver(DatePatterns)
	if err != nil {
		panic(err)
	}
	return r
}()

// Default returns the Resolver built from DatePatterns.
func Default() *Resolver { return defaultResolver }

// Resolve applies the default Resolver to fileName.
func Resolve(fileName string) types.DocumentMetadata {
	return defaultResolver.Resolve(fileName)
}

// MatchDate returns the date substring of base and the tag of the pattern
// that found it. ok is false when no pattern matches.
func (r *Resolver) MatchDate(base string) (date, tag string, ok bool) {
	for _, p := range r.dates {
		if m := p.re.FindString(base); m != "" {
			return m, p.tag, true
		}
	}
	return "", "", false
}

// Resolve parses fileName (with or without directory and extension). The
// date is located first and removed; the remainder is split on separators
// and the first two non-numeric tokens become newspaper name and edition.
func (r *Resolver) Resolve(fileName string) types.DocumentMetadata {
	name := filepath.Base(fileName)
	base := strings.TrimSuffix(name, filepath.Ext(name))

	meta := types.UnknownMetadata()

	rest := base
	if date, _, ok := r.MatchDate(base); ok {
		meta.Date = date
		rest = strings.ReplaceAll(base, date, "")
	}

	var tokens []string
	for _, tok := range separators.Split(rest, -1) {
		if tok == "" || isDigits(tok) {
			continue
		}
		tokens = append(tokens, tok)
	}
	if len(tokens) > 0 {
		meta.NewspaperName = tokens[0]
	}
	if len(tokens) > 1 {
		meta.Edition = tokens[1]
	}
	return meta
}

func isDigits(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return s != ""
}

// Fallback fills the Unknown fields of meta from the raw text of the first
// page. Resolved fields are never overwritten and fields the page does not
// yield stay Unknown.
func Fallback(meta types.DocumentMetadata, firstPage string) types.DocumentMetadata {
	if meta.Date == types.Unknown {
		if m := pageDate.FindString(firstPage); m != "" {
			meta.Date = m
		}
	}

	lines := segment.Normalize(firstPage)

	if meta.NewspaperName == types.Unknown {
		for _, line := range lines {
			if isMasthead(line) {
				meta.NewspaperName = line
				break
			}
		}
	}

	if meta.Edition == types.Unknown {
		for _, line := range lines {
			if strings.Contains(strings.ToLower(line), "edition") {
				meta.Edition = line
				break
			}
		}
	}
	return meta
}

func isMasthead(line string) bool {
	n := segment.Len(line)
	return n > mastheadMin && n < mastheadMax &&
		segment.IsUpper(line) &&
		!mastheadExclude.MatchString(line)
}
