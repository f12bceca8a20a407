// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRunReport_Print(t *testing.T) {
	r := &RunReport{
		Fetched:    10,
		Downloaded: 8,
		Parsed:     7,
		Stored:     10,
		Duration:   2500 * time.Millisecond,
	}
	r.AddError("Download failed: %s", "2301.00001")

	var b strings.Builder
	r.Print(&b)
	out := b.String()

	assert.Contains(t, out, "=== INGESTION REPORT ===")
	assert.Contains(t, out, "Papers fetched:    10")
	assert.Contains(t, out, "PDFs downloaded:   8")
	assert.Contains(t, out, "Processing time:   2.5s")
	assert.Contains(t, out, "Errors:            1")
	assert.Contains(t, out, "- Download failed: 2301.00001")
	assert.Contains(t, out, "Ready for indexing: 10")
}

func TestRunReport_PrintTruncatesErrors(t *testing.T) {
	r := &RunReport{}
	for i := 0; i < 8; i++ {
		r.AddError("error %d", i)
	}

	var b strings.Builder
	r.Print(&b)
	out := b.String()

	assert.Contains(t, out, "- error 4")
	assert.NotContains(t, out, "- error 5")
	assert.Contains(t, out, "... and 3 more")
}

func TestPaperRecord_WithContent(t *testing.T) {
	meta := PaperMetadata{ArxivID: "2301.07041", Categories: []string{"cs.AI", "cs.LG"}}
	assert.Equal(t, "cs.AI", meta.PrimaryCategory())

	rec := NewPaperRecord(meta)
	rec.Note = "oversized"
	assert.False(t, rec.Processed)

	now := time.Now().UTC()
	rec = rec.WithContent(&PDFContent{
		RawText:    "text",
		Sections:   []PaperSection{{Title: "Content", Content: "text", Level: 1}},
		ParserUsed: ParserPDFText,
	}, now)

	assert.True(t, rec.Processed)
	assert.Equal(t, now, rec.ProcessedAt)
	assert.Empty(t, rec.Note)
	assert.Equal(t, string(ParserPDFText), rec.ParserUsed)
}

func TestPrimaryCategory_Empty(t *testing.T) {
	assert.Empty(t, PaperMetadata{}.PrimaryCategory())
}
