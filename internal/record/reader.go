// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package record

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"

	"github.com/pdiddy/news-archive/pkg/types"
)

// Archive is a parsed archive file.
type Archive struct {
	Header   Header
	Articles []types.Article
}

var (
	headerRe  = regexp.MustCompile(`^# Metadata: newspaper_name=(.*), edition=(.*), date=(.*), source_file=(.*), total_pages=(\d+)$`)
	articleRe = regexp.MustCompile(`^# Article (\d+) \| Page (\d+)(?: \| .*)?$`)
)

const delimiter = "---"

// ErrNoHeader is returned for input without a metadata header line.
var ErrNoHeader = errors.New("missing metadata header")

type parseState int

const (
	wantHeader parseState = iota
	wantDelimiter
	wantArticle
	inBody
)

// Parse reads an archive written by Writer in either record style. A body
// ends at the first blank line, so a "---" inside a body is body text.
func Parse(r io.Reader) (*Archive, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	var (
		arc     Archive
		current types.Article
		state   = wantHeader
		lineNo  int
	)

	finish := func() {
		if len(current.Lines) > 0 {
			arc.Articles = append(arc.Articles, current)
		}
		current = types.Article{}
	}

	for sc.Scan() {
		lineNo++
		line := sc.Text()

		switch state {
		case wantHeader:
			if line == "" {
				continue
			}
			m := headerRe.FindStringSubmatch(line)
			if m == nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, ErrNoHeader)
			}
			pages, _ := strconv.Atoi(m[5])
			arc.Header = Header{
				Metadata:   types.DocumentMetadata{NewspaperName: m[1], Edition: m[2], Date: m[3]},
				SourceFile: m[4],
				TotalPages: pages,
			}
			state = wantDelimiter

		case wantDelimiter:
			switch line {
			case "":
			case delimiter:
				state = wantArticle
			default:
				return nil, fmt.Errorf("line %d: expected %q, got %q", lineNo, delimiter, line)
			}

		case wantArticle:
			m := articleRe.FindStringSubmatch(line)
			if m == nil {
				return nil, fmt.Errorf("line %d: malformed article header %q", lineNo, line)
			}
			current.Sequence, _ = strconv.Atoi(m[1])
			current.Page, _ = strconv.Atoi(m[2])
			state = inBody

		case inBody:
			if line == "" {
				finish()
				state = wantDelimiter
				continue
			}
			current.Lines = append(current.Lines, line)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading archive: %w", err)
	}
	if state == wantHeader {
		return nil, ErrNoHeader
	}
	if state == inBody {
		finish()
	}
	return &arc, nil
}
