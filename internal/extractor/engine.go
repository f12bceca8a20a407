// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extractor

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/pdiddy/paper-ingest/pkg/types"
)

// Element is one item in an engine's content stream. The extractor segments
// the stream into sections at heading elements.
type Element struct {
	Text    string
	Heading bool
	Level   int
}

// Engine converts a PDF into a flat content stream. Engines report hard
// failures as *ParsingError with the cause set where it is detected.
type Engine interface {
	Name() types.ParserType
	Extract(ctx context.Context, path string) ([]Element, error)
}

// maxRawTextBytes guards against pathological documents exhausting memory
// during text accumulation.
const maxRawTextBytes = 8 << 20

// headingScale is the minimum font-size ratio over the body size for a
// line to count as a heading.
const headingScale = 1.2

// TextEngine extracts plain text with ledongthuc/pdf and classifies
// headings by font size relative to the document's dominant size. It does
// no OCR and no table-structure modeling.
type TextEngine struct {
	cfg types.ParserConfig
}

// NewTextEngine creates the default extraction engine.
func NewTextEngine(cfg types.ParserConfig) *TextEngine {
	return &TextEngine{cfg: cfg}
}

// Name returns the engine identifier.
func (e *TextEngine) Name() types.ParserType { return types.ParserPDFText }

type textLine struct {
	text string
	size float64
}

// Extract reads every page's text rows and returns them as elements with
// heading markers.
func (e *TextEngine) Extract(ctx context.Context, path string) ([]Element, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, &ParsingError{Path: path, Cause: CauseCorrupt, Err: err}
	}
	defer f.Close()

	totalPages := r.NumPage()
	if e.cfg.MaxPages > 0 && totalPages > e.cfg.MaxPages {
		return nil, &ParsingError{
			Path:  path,
			Cause: CausePageLimit,
			Err:   fmt.Errorf("%d pages exceeds limit of %d", totalPages, e.cfg.MaxPages),
		}
	}

	var lines []textLine
	var totalBytes int

	for pageNum := 1; pageNum <= totalPages; pageNum++ {
		select {
		case <-ctx.Done():
			return nil, &ParsingError{Path: path, Cause: CauseTimeout, Err: ctx.Err()}
		default:
		}

		page := r.Page(pageNum)
		if page.V.IsNull() {
			continue
		}

		rows, err := page.GetTextByRow()
		if err != nil {
			return nil, &ParsingError{Path: path, Cause: CauseCorrupt, Err: err}
		}

		for _, row := range rows {
			var b strings.Builder
			size := 0.0
			for _, word := range row.Content {
				b.WriteString(word.S)
				if word.FontSize > size {
					size = word.FontSize
				}
			}
			text := strings.TrimSpace(b.String())
			if text == "" {
				continue
			}
			totalBytes += len(text)
			if totalBytes > maxRawTextBytes {
				return nil, &ParsingError{
					Path:  path,
					Cause: CauseResourceExhausted,
					Err:   fmt.Errorf("extracted text exceeds %d bytes", maxRawTextBytes),
				}
			}
			lines = append(lines, textLine{text: text, size: size})
		}
	}

	return classifyLines(lines), nil
}

// classifyLines turns raw lines into elements, marking headings by font
// size. The dominant (most frequent) size is taken as the body size.
func classifyLines(lines []textLine) []Element {
	body := bodyFontSize(lines)

	elements := make([]Element, 0, len(lines))
	for _, ln := range lines {
		el := Element{Text: ln.text}
		if body > 0 && ln.size >= body*headingScale && len(ln.text) < 120 {
			el.Heading = true
			el.Level = 2
			if ln.size >= body*1.5 {
				el.Level = 1
			}
		}
		elements = append(elements, el)
	}
	return elements
}

// bodyFontSize returns the most frequent font size, rounded to halves.
func bodyFontSize(lines []textLine) float64 {
	if len(lines) == 0 {
		return 0
	}
	counts := make(map[float64]int)
	for _, ln := range lines {
		rounded := float64(int(ln.size*2+0.5)) / 2
		counts[rounded]++
	}

	sizes := make([]float64, 0, len(counts))
	for s := range counts {
		sizes = append(sizes, s)
	}
	sort.Float64s(sizes)

	best, bestCount := 0.0, 0
	for _, s := range sizes {
		if counts[s] > bestCount {
			best, bestCount = s, counts[s]
		}
	}
	return best
}
