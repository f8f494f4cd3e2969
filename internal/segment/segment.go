// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package segment splits a page of extracted newspaper text into article
// candidates. A candidate starts at a heading, a short all-caps line, and
// runs until the next heading or the end of the page.
package segment

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	// headingMin and headingMax bound a heading's length, exclusive.
	headingMin = 5
	headingMax = 100

	// briefExitMin is the length an all-caps line must exceed to end an
	// IN BRIEF roundup.
	briefExitMin = 10

	briefMarker = "IN BRIEF"
)

// IsUpper reports whether s has at least one cased letter and no lower-case
// or title-case letters. Digits and punctuation are ignored.
func IsUpper(s string) bool {
	cased := false
	for _, r := range s {
		switch {
		case unicode.IsLower(r), unicode.IsTitle(r):
			return false
		case unicode.IsUpper(r):
			cased = true
		}
	}
	return cased
}

// Len returns the length of s in characters.
func Len(s string) int {
	return utf8.RuneCountInString(s)
}

// IsHeading reports whether a trimmed line opens a new article.
func IsHeading(line string) bool {
	n := Len(line)
	return n > headingMin && n < headingMax && IsUpper(line)
}

func isLineBreak(r rune) bool {
	switch r {
	case '\n', '\r', '\v', '\f', 0x1c, 0x1d, 0x1e, 0x85, 0x2028, 0x2029:
		return true
	}
	return false
}

// Normalize splits raw page text into lines, trims each one and drops the
// blank ones.
func Normalize(raw string) []string {
	fields := strings.FieldsFunc(raw, isLineBreak)
	lines := make([]string, 0, len(fields))
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			lines = append(lines, f)
		}
	}
	return lines
}

// state is the IN BRIEF suppression state of a page scan.
type state int

const (
	normal state = iota
	suppressing
)

// next applies one line to the state machine. It returns the new state and
// whether the line takes part in segmentation.
func (s state) next(line string) (state, bool) {
	if strings.HasPrefix(strings.ToUpper(line), briefMarker) {
		return suppressing, false
	}
	if s == suppressing {
		if IsUpper(line) && Len(line) > briefExitMin {
			return normal, true
		}
		return suppressing, false
	}
	return normal, true
}

// Segmenter groups normalized lines into article candidates.
type Segmenter struct {
	skipInBrief bool
}

// New returns a Segmenter. With skipInBrief set, IN BRIEF roundups are
// dropped up to the next all-caps line longer than ten characters.
func New(skipInBrief bool) *Segmenter {
	return &Segmenter{skipInBrief: skipInBrief}
}

// Segment splits lines into candidates. Each candidate is non-empty and
// every candidate after the first starts with its heading. Lines before the
// first heading form a candidate of their own.
func (s *Segmenter) Segment(lines []string) [][]string {
	var (
		groups  [][]string
		current []string
		st      = normal
	)

	for _, line := range lines {
		if s.skipInBrief {
			var keep bool
			if st, keep = st.next(line); !keep {
				continue
			}
		}
		if IsHeading(line) && len(current) > 0 {
			groups = append(groups, current)
			current = nil
		}
		current = append(current, line)
	}

	if len(current) > 0 {
		groups = append(groups, current)
	}
	return groups
}

// Page normalizes raw page text and segments it.
func (s *Segmenter) Page(raw string) [][]string {
	return s.Segment(Normalize(raw))
}
