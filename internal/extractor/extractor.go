// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extractor validates PDF files and converts them into structured
// content. Policy limits (size, pages) produce soft skips; everything else
// is a typed hard failure.
package extractor

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/pdiddy/paper-ingest/pkg/types"
)

// defaultSectionTitle labels content that precedes the first heading, and
// the single section of a document with no headings at all.
const defaultSectionTitle = "Content"

// Extractor validates and extracts PDFs through a pluggable engine.
type Extractor struct {
	cfg    types.ParserConfig
	engine Engine
}

// New creates an Extractor. When engine is nil the default TextEngine
// built from cfg is used.
func New(cfg types.ParserConfig, engine Engine) *Extractor {
	if engine == nil {
		engine = NewTextEngine(cfg)
	}
	return &Extractor{cfg: cfg, engine: engine}
}

// Extract validates path and runs the engine. Policy-limit validation
// failures (oversized, too many pages) return a skipped result with a nil
// error; all other failures return a typed error and no content.
func (x *Extractor) Extract(ctx context.Context, path string) (types.ExtractionResult, error) {
	if err := x.Validate(path); err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) && verr.Kind.SoftSkip() {
			return types.ExtractionResult{Skipped: true, SkipReason: string(verr.Kind)}, nil
		}
		return types.ExtractionResult{}, err
	}

	if x.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, x.cfg.Timeout)
		defer cancel()
	}

	elements, err := x.engine.Extract(ctx, path)
	if err != nil {
		return types.ExtractionResult{}, x.classify(path, err)
	}

	content := buildContent(elements)
	content.References = ExtractReferences(content.RawText)
	content.ParserUsed = x.engine.Name()
	content.Metadata = map[string]string{
		"source":          string(x.engine.Name()),
		"ocr":             strconv.FormatBool(x.cfg.DoOCR),
		"table_structure": strconv.FormatBool(x.cfg.DoTableStructure),
		"note":            "content extracted from PDF; metadata comes from the arXiv feed",
	}

	return types.ExtractionResult{Content: content}, nil
}

// classify ensures every hard failure surfaces as a *ParsingError with an
// explicit cause. Engines set causes themselves; anything untyped from an
// engine is attributed to document corruption unless the context expired.
func (x *Extractor) classify(path string, err error) error {
	var perr *ParsingError
	if errors.As(err, &perr) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &ParsingError{Path: path, Cause: CauseTimeout, Err: err}
	}
	return &ParsingError{Path: path, Cause: CauseCorrupt, Err: err}
}

// buildContent segments the content stream into sections: body text
// accumulated since the previous heading is flushed whenever a heading
// element appears, and a trailing non-empty accumulator is flushed at the
// end. A document with no headings yields one section with the default
// title.
func buildContent(elements []Element) *types.PDFContent {
	var sections []types.PaperSection
	var raw strings.Builder

	current := types.PaperSection{Title: defaultSectionTitle, Level: 1}
	var body strings.Builder

	flush := func() {
		if text := strings.TrimSpace(body.String()); text != "" {
			current.Content = text
			sections = append(sections, current)
		}
		body.Reset()
	}

	for _, el := range elements {
		raw.WriteString(el.Text)
		raw.WriteByte('\n')

		if el.Heading {
			flush()
			level := el.Level
			if level <= 0 {
				level = 1
			}
			current = types.PaperSection{Title: el.Text, Level: level}
			continue
		}
		body.WriteString(el.Text)
		body.WriteByte('\n')
	}
	flush()

	return &types.PDFContent{
		Sections: sections,
		RawText:  strings.TrimSpace(raw.String()),
	}
}
