// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package feed talks to the arXiv API: it builds category+date queries,
// rate-limits outbound calls, parses the Atom response into paper metadata,
// and downloads PDF binaries with retry and local caching.
package feed

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/pdiddy/paper-ingest/internal/httputil"
	"github.com/pdiddy/paper-ingest/pkg/types"
)

// maxResultsCap is the hard upper bound on page size imposed by the arXiv
// API. Caller input is capped here regardless of configuration.
const maxResultsCap = 2000

// Client fetches paper metadata and PDFs from arXiv. A single Client
// instance carries one rate-limit token shared by all fetch-style calls.
type Client struct {
	cfg  types.FeedConfig
	http *http.Client

	// mu guards lastRequest. The check-and-update sequence runs as one
	// critical section so concurrent callers cannot both pass the gate
	// before either updates the timestamp.
	mu          sync.Mutex
	lastRequest time.Time
}

// NewClient creates a feed client. When httpClient is nil, one is built
// from the configured timeout.
func NewClient(cfg types.FeedConfig, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	return &Client{cfg: cfg, http: httpClient}
}

// FetchOptions are the parameters of one metadata fetch.
type FetchOptions struct {
	// MaxResults is the requested page size. Zero or negative falls back
	// to the configured default; either way the 2000 cap applies.
	MaxResults int

	// Start is the result offset for paging.
	Start int

	// SortBy and SortOrder default to "submittedDate"/"descending".
	SortBy    string
	SortOrder string

	// From and To bound the submission date range, inclusive, as YYYYMMDD.
	// An empty bound is open ("*").
	From string
	To   string
}

// FetchMetadata queries the feed once and returns the parsed entries.
// Entries without an identifier are dropped silently. A malformed document
// fails the whole call with a *FeedParseError.
func (c *Client) FetchMetadata(ctx context.Context, opts FetchOptions) ([]types.PaperMetadata, error) {
	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = c.cfg.MaxResults
	}
	if maxResults > maxResultsCap {
		maxResults = maxResultsCap
	}

	searchQuery := "cat:" + c.cfg.SearchCategory
	if opts.From != "" || opts.To != "" {
		from, to := "*", "*"
		if opts.From != "" {
			from = opts.From + "0000"
		}
		if opts.To != "" {
			to = opts.To + "2359"
		}
		searchQuery += fmt.Sprintf(" AND submittedDate:[%s TO %s]", from, to)
	}

	sortBy := opts.SortBy
	if sortBy == "" {
		sortBy = "submittedDate"
	}
	sortOrder := opts.SortOrder
	if sortOrder == "" {
		sortOrder = "descending"
	}

	url := fmt.Sprintf("%s?search_query=%s&start=%d&max_results=%d&sortBy=%s&sortOrder=%s",
		c.cfg.BaseURL, escapeQuery(searchQuery), opts.Start, maxResults, sortBy, sortOrder)

	return c.fetch(ctx, url)
}

// FetchByID looks up a single paper by arXiv id. The version suffix is
// stripped before the lookup. Returns nil when the feed has no entry.
func (c *Client) FetchByID(ctx context.Context, arxivID string) (*types.PaperMetadata, error) {
	url := fmt.Sprintf("%s?id_list=%s&max_results=1", c.cfg.BaseURL, stripVersion(arxivID))

	papers, err := c.fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	if len(papers) == 0 {
		return nil, nil
	}
	return &papers[0], nil
}

// fetch performs one rate-limited feed request and parses the response.
func (c *Client) fetch(ctx context.Context, url string) ([]types.PaperMetadata, error) {
	if err := c.waitRateLimit(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.cfg.UserAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		if httputil.IsTimeout(err) {
			return nil, &FeedTimeoutError{Err: err}
		}
		return nil, fmt.Errorf("arXiv API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &FeedHTTPError{StatusCode: resp.StatusCode}
	}

	var doc atomFeed
	if err := xml.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, &FeedParseError{Err: err}
	}
	if want := c.cfg.Namespaces["atom"]; want != "" && doc.XMLName.Space != want {
		return nil, &FeedParseError{Err: fmt.Errorf("unexpected feed namespace %q", doc.XMLName.Space)}
	}

	var papers []types.PaperMetadata
	for _, entry := range doc.Entries {
		if meta, ok := paperFromEntry(entry); ok {
			papers = append(papers, meta)
		}
	}
	return papers, nil
}

// waitRateLimit enforces the minimum spacing between feed call starts. The
// timestamp is updated before the call is issued, so the delay is measured
// between call starts, not between completions. The gate is held for the
// whole wait, which keeps concurrent callers strictly sequential.
func (c *Client) waitRateLimit(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.lastRequest.IsZero() && c.cfg.RateLimitDelay > 0 {
		if wait := c.cfg.RateLimitDelay - time.Since(c.lastRequest); wait > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
			}
		}
	}
	c.lastRequest = time.Now()
	return nil
}

// escapeQuery makes the search_query parameter URL-safe while keeping the
// characters the arXiv API expects literally (":", "[", "]", "*").
func escapeQuery(q string) string {
	return strings.ReplaceAll(q, " ", "+")
}
