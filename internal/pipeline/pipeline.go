// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline coordinates the metadata fetch, PDF download, content
// extraction, and persistence stages of one ingestion run. Downloads and
// parsing run in separate bounded pools so a slow parser never holds a
// download slot, and every paper is processed independently: one failure
// is reported and the run continues.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/pdiddy/paper-ingest/internal/feed"
	"github.com/pdiddy/paper-ingest/internal/store"
	"github.com/pdiddy/paper-ingest/pkg/types"
)

const (
	defaultDownloadWorkers = 5
	defaultParseWorkers    = 1
)

// Fetcher provides arXiv metadata and PDF retrieval.
type Fetcher interface {
	FetchMetadata(ctx context.Context, opts feed.FetchOptions) ([]types.PaperMetadata, error)
	DownloadPDF(ctx context.Context, meta types.PaperMetadata, force bool) (string, error)
}

// ContentExtractor turns a downloaded PDF into structured content.
type ContentExtractor interface {
	Extract(ctx context.Context, path string) (types.ExtractionResult, error)
}

// PaperStore persists paper records.
type PaperStore interface {
	Upsert(ctx context.Context, rec types.PaperRecord) (*store.StoredPaper, error)
}

// RunOptions selects what one ingestion run fetches and does.
type RunOptions struct {
	MaxResults      int
	From            string
	To              string
	ExtractContent  bool
	Persist         bool
	ForceRedownload bool
}

// Orchestrator runs the ingestion pipeline.
type Orchestrator struct {
	fetcher   Fetcher
	extractor ContentExtractor
	store     PaperStore
	out       io.Writer

	downloadPool *ants.Pool
	parsePool    *ants.Pool
}

// New builds an orchestrator with bounded download and parse pools sized
// from cfg. A nil store disables persistence; a nil out discards progress
// output.
func New(cfg types.PipelineConfig, fetcher Fetcher, extractor ContentExtractor, st PaperStore, out io.Writer) (*Orchestrator, error) {
	downloads := cfg.MaxConcurrentDownloads
	if downloads <= 0 {
		downloads = defaultDownloadWorkers
	}
	parsers := cfg.MaxConcurrentParsing
	if parsers <= 0 {
		parsers = defaultParseWorkers
	}
	if out == nil {
		out = io.Discard
	}

	downloadPool, err := ants.NewPool(downloads)
	if err != nil {
		return nil, fmt.Errorf("creating download pool: %w", err)
	}
	parsePool, err := ants.NewPool(parsers)
	if err != nil {
		downloadPool.Release()
		return nil, fmt.Errorf("creating parse pool: %w", err)
	}

	return &Orchestrator{
		fetcher:      fetcher,
		extractor:    extractor,
		store:        st,
		out:          out,
		downloadPool: downloadPool,
		parsePool:    parsePool,
	}, nil
}

// Release shuts down the worker pools. The orchestrator cannot be used
// after Release.
func (o *Orchestrator) Release() {
	o.downloadPool.Release()
	o.parsePool.Release()
}

// outcome carries one paper through the run. The PDF path is empty when
// the paper carries no PDF link; content is nil unless parsing succeeded.
type outcome struct {
	meta        types.PaperMetadata
	pdfPath     string
	downloadErr error
	content     *types.PDFContent
	skipReason  string
	skipped     bool
	parseErr    error
}

// Run executes one ingestion pass and always returns a report; the report
// is partial when the metadata fetch itself fails.
func (o *Orchestrator) Run(ctx context.Context, opts RunOptions) (*types.RunReport, error) {
	start := time.Now()
	report := &types.RunReport{Categories: map[string]types.CategoryStats{}}

	papers, err := o.fetcher.FetchMetadata(ctx, feed.FetchOptions{
		MaxResults: opts.MaxResults,
		From:       opts.From,
		To:         opts.To,
	})
	if err != nil {
		report.AddError("Metadata fetch failed: %v", err)
		report.Duration = time.Since(start)
		return report, fmt.Errorf("fetching metadata: %w", err)
	}
	report.Fetched = len(papers)
	fmt.Fprintf(o.out, "fetched %d papers\n", len(papers))

	records := make([]types.PaperRecord, 0, len(papers))
	if !opts.ExtractContent {
		// Metadata-only run: no downloads, no parsing.
		for _, paper := range papers {
			records = append(records, types.NewPaperRecord(paper))
		}
	} else {
		outcomes := make(chan outcome, len(papers))
		var wg sync.WaitGroup
		for _, paper := range papers {
			wg.Add(1)
			go func(meta types.PaperMetadata) {
				defer wg.Done()
				outcomes <- o.process(ctx, meta, opts)
			}(paper)
		}
		wg.Wait()
		close(outcomes)

		for oc := range outcomes {
			records = append(records, o.tally(report, oc))
		}
	}

	if opts.Persist && o.store != nil {
		o.persist(ctx, report, records)
	}

	report.Duration = time.Since(start)
	return report, nil
}

// process runs one paper through the download and parse stages. Each stage
// runs inside its pool, so at most MaxConcurrentDownloads downloads and
// MaxConcurrentParsing parses are in flight; the download slot is released
// before the parse slot is requested.
func (o *Orchestrator) process(ctx context.Context, meta types.PaperMetadata, opts RunOptions) outcome {
	oc := outcome{meta: meta}

	if err := o.inPool(o.downloadPool, func() {
		oc.pdfPath, oc.downloadErr = o.fetcher.DownloadPDF(ctx, meta, opts.ForceRedownload)
	}); err != nil {
		oc.downloadErr = err
	}
	if oc.downloadErr != nil {
		fmt.Fprintf(o.out, "failed: download %s: %v\n", meta.ArxivID, oc.downloadErr)
		return oc
	}
	if oc.pdfPath == "" {
		return oc
	}

	if o.extractor == nil {
		return oc
	}

	if err := o.inPool(o.parsePool, func() {
		var result types.ExtractionResult
		result, oc.parseErr = o.extractor.Extract(ctx, oc.pdfPath)
		oc.content = result.Content
		oc.skipped = result.Skipped
		oc.skipReason = result.SkipReason
	}); err != nil {
		oc.parseErr = err
	}
	if oc.parseErr != nil {
		fmt.Fprintf(o.out, "failed: parse %s: %v\n", meta.ArxivID, oc.parseErr)
	}
	return oc
}

// inPool runs fn inside pool and waits for it to finish. Submit blocks
// when the pool is saturated, which is what bounds stage concurrency.
func (o *Orchestrator) inPool(pool *ants.Pool, fn func()) error {
	done := make(chan struct{})
	if err := pool.Submit(func() {
		defer close(done)
		fn()
	}); err != nil {
		return fmt.Errorf("submitting task: %w", err)
	}
	<-done
	return nil
}

// tally folds one outcome into the report and returns the record to
// persist. Metadata is recorded for every fetched paper, even when the
// download or parse failed.
func (o *Orchestrator) tally(report *types.RunReport, oc outcome) types.PaperRecord {
	rec := types.NewPaperRecord(oc.meta)
	category := oc.meta.PrimaryCategory()

	switch {
	case oc.downloadErr != nil:
		report.DownloadFailures = append(report.DownloadFailures, oc.meta.ArxivID)
		report.AddError("Download failed: %s", oc.meta.ArxivID)
	case oc.pdfPath == "":
		// No PDF link in the feed entry: neither a download nor a failure.
	default:
		report.Downloaded++
		stats := report.Categories[category]
		stats.Downloaded++
		report.Categories[category] = stats
	}

	switch {
	case oc.parseErr != nil:
		report.ParseFailures = append(report.ParseFailures, oc.meta.ArxivID)
		report.AddError("Parse failed: %s: %v", oc.meta.ArxivID, oc.parseErr)
	case oc.skipped:
		rec.Note = oc.skipReason
		fmt.Fprintf(o.out, "skipped: %s: %s\n", oc.meta.ArxivID, oc.skipReason)
	case oc.content != nil:
		rec = rec.WithContent(oc.content, time.Now().UTC())
		report.Parsed++
		stats := report.Categories[category]
		stats.Parsed++
		report.Categories[category] = stats
	}

	return rec
}

// persist upserts each record in its own call. A failing paper is counted
// as an error and the loop continues, so papers stored before the failure
// stay stored.
func (o *Orchestrator) persist(ctx context.Context, report *types.RunReport, records []types.PaperRecord) {
	for _, rec := range records {
		if _, err := o.store.Upsert(ctx, rec); err != nil {
			fmt.Fprintf(o.out, "failed: store %s: %v\n", rec.ArxivID, err)
			report.AddError("Store failed: %s: %v", rec.ArxivID, err)
			continue
		}
		report.Stored++
	}
}
