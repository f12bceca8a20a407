// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"fmt"
	"io"
	"time"
)

// maxPrintedErrors bounds how many error lines a report prints; the full
// list stays in the struct.
const maxPrintedErrors = 5

// CategoryStats counts per-category pipeline progress within one run.
type CategoryStats struct {
	Downloaded int `json:"downloaded" yaml:"downloaded"`
	Parsed     int `json:"parsed" yaml:"parsed"`
}

// RunReport summarizes one orchestrator invocation. A fresh report is
// created per run and returned to the caller; it is never persisted.
type RunReport struct {
	Fetched    int `json:"papers_fetched" yaml:"papers_fetched"`
	Downloaded int `json:"pdfs_downloaded" yaml:"pdfs_downloaded"`
	Parsed     int `json:"pdfs_parsed" yaml:"pdfs_parsed"`
	Stored     int `json:"papers_stored" yaml:"papers_stored"`

	// Duration is the wall-clock time of the whole run.
	Duration time.Duration `json:"processing_time" yaml:"processing_time"`

	// Errors is append-ordered for readability; aside from it, the report
	// is order-independent (counts and sets).
	Errors []string `json:"errors" yaml:"errors"`

	// DownloadFailures and ParseFailures list the affected arXiv ids.
	DownloadFailures []string `json:"download_failures,omitempty" yaml:"download_failures,omitempty"`
	ParseFailures    []string `json:"parse_failures,omitempty" yaml:"parse_failures,omitempty"`

	// Categories breaks downloaded/parsed counts down by primary category.
	Categories map[string]CategoryStats `json:"categories,omitempty" yaml:"categories,omitempty"`
}

// AddError appends a labeled error string to the report.
func (r *RunReport) AddError(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

// HasErrors reports whether any errors were recorded.
func (r *RunReport) HasErrors() bool {
	return len(r.Errors) > 0
}

// Print writes the daily-report block to w. Only the first five errors are
// printed; the rest are summarized by count.
func (r *RunReport) Print(w io.Writer) {
	fmt.Fprintln(w, "=== INGESTION REPORT ===")
	fmt.Fprintf(w, "Papers fetched:    %d\n", r.Fetched)
	fmt.Fprintf(w, "PDFs downloaded:   %d\n", r.Downloaded)
	fmt.Fprintf(w, "PDFs parsed:       %d\n", r.Parsed)
	fmt.Fprintf(w, "Papers stored:     %d\n", r.Stored)
	fmt.Fprintf(w, "Processing time:   %.1fs\n", r.Duration.Seconds())
	fmt.Fprintf(w, "Errors:            %d\n", len(r.Errors))
	for i, e := range r.Errors {
		if i == maxPrintedErrors {
			fmt.Fprintf(w, "  ... and %d more\n", len(r.Errors)-maxPrintedErrors)
			break
		}
		fmt.Fprintf(w, "  - %s\n", e)
	}
	fmt.Fprintf(w, "Ready for indexing: %d\n", r.Stored)
	fmt.Fprintln(w, "=== END REPORT ===")
}
