// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Unknown is the placeholder for a metadata field that could not be resolved
// from the filename or the first page.
const Unknown = "Unknown"

// ArchiveStatus indicates the outcome of archiving one newspaper PDF.
type ArchiveStatus string

const (
	ArchiveNone   ArchiveStatus = "skipped"
	ArchiveDone   ArchiveStatus = "archived"
	ArchiveFailed ArchiveStatus = "failed"
)

// PageText is the raw text of one PDF page as returned by the text extractor.
type PageText struct {
	// Number is the 1-based page number.
	Number int `json:"number" yaml:"number"`

	// Raw is the layout-flattened page text, newline separated.
	Raw string `json:"raw" yaml:"raw"`
}

// SourceDocument is a fully loaded newspaper edition.
type SourceDocument struct {
	FileName  string     `json:"file_name" yaml:"file_name"`
	PageCount int        `json:"page_count" yaml:"page_count"`
	Pages     []PageText `json:"pages" yaml:"pages"`
}

// DocumentMetadata holds the newspaper-level fields shared by every record
// written for one source document. A field that could not be resolved holds
// Unknown.
type DocumentMetadata struct {
	NewspaperName string `json:"newspaper_name" yaml:"newspaper_name"`
	Edition       string `json:"edition" yaml:"edition"`
	Date          string `json:"date" yaml:"date"`
}

// UnknownMetadata returns metadata with every field set to Unknown.
func UnknownMetadata() DocumentMetadata {
	return DocumentMetadata{NewspaperName: Unknown, Edition: Unknown, Date: Unknown}
}

// Unresolved lists the names of the fields still set to Unknown, in header
// order. An empty result means the metadata is complete.
func (m DocumentMetadata) Unresolved() []string {
	var fields []string
	if m.NewspaperName == Unknown {
		fields = append(fields, "newspaper_name")
	}
	if m.Edition == Unknown {
		fields = append(fields, "edition")
	}
	if m.Date == Unknown {
		fields = append(fields, "date")
	}
	return fields
}

// Article is one surviving article candidate. Sequence is global across the
// whole document and starts at 1.
type Article struct {
	Page     int      `json:"page" yaml:"page"`
	Sequence int      `json:"sequence" yaml:"sequence"`
	Lines    []string `json:"lines" yaml:"lines"`
}
