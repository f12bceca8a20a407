// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// ParserType identifies the extraction engine that produced a PDFContent.
type ParserType string

// ParserPDFText is the plain-text extraction engine.
const ParserPDFText ParserType = "pdftext"

// PaperMetadata holds one paper's metadata as parsed from the arXiv Atom
// feed. Records are immutable once fetched; only internal/feed produces them.
type PaperMetadata struct {
	// ArxivID is the provider-assigned identifier in versionless form
	// (e.g. "2301.07041"). It is the dedup and persistence key.
	ArxivID string `json:"arxiv_id" yaml:"arxiv_id"`

	// Title is the paper title with embedded newlines collapsed.
	Title string `json:"title" yaml:"title"`

	// Authors lists the paper authors in feed order.
	Authors []string `json:"authors" yaml:"authors"`

	// Abstract is the paper abstract with embedded newlines collapsed.
	Abstract string `json:"abstract" yaml:"abstract"`

	// Categories holds the arXiv category terms. Set semantics; order is
	// not meaningful.
	Categories []string `json:"categories" yaml:"categories"`

	// Published is the publication timestamp from the feed.
	Published time.Time `json:"published" yaml:"published"`

	// PDFURL is the application/pdf link selected from the entry.
	// Empty when the entry carries no PDF link.
	PDFURL string `json:"pdf_url" yaml:"pdf_url"`
}

// PrimaryCategory returns the first listed category, or "" when none.
func (m PaperMetadata) PrimaryCategory() string {
	if len(m.Categories) == 0 {
		return ""
	}
	return m.Categories[0]
}

// PaperSection is one reconstructed section of an extracted document.
type PaperSection struct {
	Title   string `json:"title" yaml:"title"`
	Content string `json:"content" yaml:"content"`
	Level   int    `json:"level" yaml:"level"`
}

// PDFContent is the structured content extracted from one PDF.
// Only internal/extractor produces it.
type PDFContent struct {
	Sections   []PaperSection    `json:"sections" yaml:"sections"`
	RawText    string            `json:"raw_text" yaml:"raw_text"`
	References []string          `json:"references" yaml:"references"`
	ParserUsed ParserType        `json:"parser_used" yaml:"parser_used"`
	Metadata   map[string]string `json:"metadata" yaml:"metadata"`
}

// ExtractionResult is the tagged outcome of one extraction attempt.
// A soft skip (size/page policy limit) carries no content and is not an
// error; hard failures travel on the Extract error return instead.
type ExtractionResult struct {
	// Content is the extracted content, nil when Skipped.
	Content *PDFContent

	// Skipped reports that extraction was intentionally not performed.
	Skipped bool

	// SkipReason describes why extraction was skipped (e.g. "oversized").
	SkipReason string
}

// PaperRecord is the persistence payload for one paper: metadata fields
// always populated, content fields merged in when extraction succeeded.
type PaperRecord struct {
	PaperMetadata `yaml:",inline"`

	RawText        string            `json:"raw_text,omitempty" yaml:"raw_text,omitempty"`
	Sections       []PaperSection    `json:"sections,omitempty" yaml:"sections,omitempty"`
	References     []string          `json:"references,omitempty" yaml:"references,omitempty"`
	ParserUsed     string            `json:"parser_used,omitempty" yaml:"parser_used,omitempty"`
	ParserMetadata map[string]string `json:"parser_metadata,omitempty" yaml:"parser_metadata,omitempty"`

	// Processed reports whether PDF content was successfully extracted.
	Processed bool `json:"pdf_processed" yaml:"pdf_processed"`

	// ProcessedAt is when extraction finished; zero when not processed.
	ProcessedAt time.Time `json:"pdf_processing_date,omitempty" yaml:"pdf_processing_date,omitempty"`

	// Note carries a diagnostic for metadata-only records.
	Note string `json:"note,omitempty" yaml:"note,omitempty"`
}

// NewPaperRecord builds a metadata-only record for meta.
func NewPaperRecord(meta PaperMetadata) PaperRecord {
	return PaperRecord{PaperMetadata: meta}
}

// WithContent returns a copy of r with content fields merged in and the
// record marked processed at now.
func (r PaperRecord) WithContent(content *PDFContent, now time.Time) PaperRecord {
	r.RawText = content.RawText
	r.Sections = content.Sections
	r.References = content.References
	r.ParserUsed = string(content.ParserUsed)
	r.ParserMetadata = content.Metadata
	r.Processed = true
	r.ProcessedAt = now
	r.Note = ""
	return r
}
