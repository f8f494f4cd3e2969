package types

import "time"

// Variant selects the segmentation and filtering rules for the text
// extractor that produced the page text.
type Variant string

const (
	// VariantLayout is for layout-flattened text from a plain PDF reader.
	VariantLayout Variant = "layout"

	// VariantStructured is for pre-structured text from a smarter extractor
	// (markitdown). It skips IN BRIEF roundups and quiz or print boilerplate.
	VariantStructured Variant = "structured"
)

// Backend identifies the PDF text extraction tool.
type Backend string

const (
	BackendPDF        Backend = "pdf"
	BackendMarkitdown Backend = "markitdown"
	BackendText       Backend = "text"
)

// RecordStyle selects the per-article header written to the archive.
type RecordStyle string

const (
	// StyleFull repeats newspaper, edition, date and source on every article.
	StyleFull RecordStyle = "full"

	// StyleReduced writes only the article number and page.
	StyleReduced RecordStyle = "reduced"
)

// NoiseConfig holds the configurable parts of the noise rule tables.
type NoiseConfig struct {
	// Datelines lists the city datelines treated as page furniture.
	// Empty uses the built-in list.
	Datelines []string `json:"datelines,omitempty" yaml:"datelines,omitempty" mapstructure:"datelines"`

	// ExtraPatterns are additional case-insensitive first-line patterns.
	ExtraPatterns []string `json:"extra_patterns,omitempty" yaml:"extra_patterns,omitempty" mapstructure:"extra_patterns"`
}

// ArchiveConfig holds settings for the archive stage.
type ArchiveConfig struct {
	// Variant selects layout or structured rules (default layout).
	Variant Variant `json:"variant" yaml:"variant" mapstructure:"variant"`

	// Backend selects the text extractor: pdf, markitdown, or text.
	Backend Backend `json:"backend" yaml:"backend" mapstructure:"backend"`

	// Style selects the article header. Empty picks the variant default.
	Style RecordStyle `json:"style,omitempty" yaml:"style,omitempty" mapstructure:"style"`

	// InputDir is scanned for PDFs in batch mode.
	InputDir string `json:"input_dir" yaml:"input_dir" mapstructure:"input_dir"`

	// OutputDir receives one <name>.txt archive per PDF.
	OutputDir string `json:"output_dir" yaml:"output_dir" mapstructure:"output_dir"`

	// Force rewrites archives that already exist.
	Force bool `json:"force" yaml:"force" mapstructure:"force"`

	Noise NoiseConfig `json:"noise" yaml:"noise" mapstructure:"noise"`
}

// DefaultStyle returns the record style used when none is configured.
func (c ArchiveConfig) DefaultStyle() RecordStyle {
	if c.Style != "" {
		return c.Style
	}
	if c.Variant == VariantStructured {
		return StyleReduced
	}
	return StyleFull
}

// CatalogConfig holds settings for the article catalog.
type CatalogConfig struct {
	// ArchiveDir is the directory of archive files to index.
	ArchiveDir string `json:"archive_dir" yaml:"archive_dir" mapstructure:"archive_dir"`

	// DBDir holds the SQLite database and exports.
	DBDir string `json:"db_dir" yaml:"db_dir" mapstructure:"db_dir"`

	// MaxResults is the default maximum number of query results (default 20).
	MaxResults int `json:"max_results" yaml:"max_results" mapstructure:"max_results"`
}

// FetchConfig holds settings for downloading edition PDFs.
type FetchConfig struct {
	// RawDir receives downloaded PDFs (default newspapers/raw).
	RawDir string `json:"raw_dir" yaml:"raw_dir" mapstructure:"raw_dir"`

	// UserAgent is sent with every request.
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`

	// Timeout bounds a single download.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// DownloadDelay is the pause between consecutive downloads in a batch.
	DownloadDelay time.Duration `json:"download_delay" yaml:"download_delay" mapstructure:"download_delay"`

	// MaxRetries caps retries on rate limiting or unavailability (default 5).
	MaxRetries int `json:"max_retries" yaml:"max_retries" mapstructure:"max_retries"`
}
