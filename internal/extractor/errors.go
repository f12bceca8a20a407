// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extractor

import "fmt"

// ValidationKind names a pre-extraction validation failure.
type ValidationKind string

const (
	KindEmpty        ValidationKind = "empty"
	KindOversized    ValidationKind = "oversized"
	KindTooManyPages ValidationKind = "too_many_pages"
	KindBadHeader    ValidationKind = "bad_header"
)

// SoftSkip reports whether this failure is a policy limit rather than a
// broken file. Soft skips store the paper metadata-only without recording
// an error.
func (k ValidationKind) SoftSkip() bool {
	return k == KindOversized || k == KindTooManyPages
}

// ValidationError reports that a PDF failed pre-extraction validation.
type ValidationError struct {
	Path   string
	Kind   ValidationKind
	Detail string
}

func (e *ValidationError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("validating %s: %s (%s)", e.Path, e.Kind, e.Detail)
	}
	return fmt.Sprintf("validating %s: %s", e.Path, e.Kind)
}

// FailureCause classifies a hard extraction failure for diagnostics.
// Causes are assigned at the point of detection, never by inspecting
// error message text.
type FailureCause string

const (
	CauseCorrupt           FailureCause = "corrupt"
	CauseTimeout           FailureCause = "timeout"
	CauseResourceExhausted FailureCause = "resource_exhausted"
	CausePageLimit         FailureCause = "page_limit"
)

// ParsingError reports a hard extraction-engine failure. The paper is
// stored metadata-only and the failure is recorded in the run report.
type ParsingError struct {
	Path  string
	Cause FailureCause
	Err   error
}

func (e *ParsingError) Error() string {
	return fmt.Sprintf("parsing %s (%s): %v", e.Path, e.Cause, e.Err)
}

func (e *ParsingError) Unwrap() error { return e.Err }
