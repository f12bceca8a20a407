// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package feed

import "fmt"

// FeedTimeoutError reports that a feed request timed out. Fatal to the
// enclosing fetch call.
type FeedTimeoutError struct {
	Err error
}

func (e *FeedTimeoutError) Error() string {
	return fmt.Sprintf("arXiv API request timed out: %v", e.Err)
}

func (e *FeedTimeoutError) Unwrap() error { return e.Err }

// FeedHTTPError reports a non-200 response from the feed API. Fatal to the
// enclosing fetch call.
type FeedHTTPError struct {
	StatusCode int
}

func (e *FeedHTTPError) Error() string {
	return fmt.Sprintf("arXiv API returned HTTP %d", e.StatusCode)
}

// FeedParseError reports a malformed Atom document. Fatal to the enclosing
// fetch call; per-entry problems never surface as this error.
type FeedParseError struct {
	Err error
}

func (e *FeedParseError) Error() string {
	return fmt.Sprintf("parsing arXiv response: %v", e.Err)
}

func (e *FeedParseError) Unwrap() error { return e.Err }

// DownloadError reports a terminal PDF download failure for one paper.
// Recoverable by the caller: the paper is stored metadata-only.
type DownloadError struct {
	ArxivID string
	Err     error
}

func (e *DownloadError) Error() string {
	return fmt.Sprintf("downloading PDF for %s: %v", e.ArxivID, e.Err)
}

func (e *DownloadError) Unwrap() error { return e.Err }

// DownloadTimeoutError reports that every download attempt for one paper
// timed out. Recoverable by the caller.
type DownloadTimeoutError struct {
	ArxivID string
	Err     error
}

func (e *DownloadTimeoutError) Error() string {
	return fmt.Sprintf("PDF download timed out for %s: %v", e.ArxivID, e.Err)
}

func (e *DownloadTimeoutError) Unwrap() error { return e.Err }
