// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package feed

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/paper-ingest/internal/httputil"
	"github.com/pdiddy/paper-ingest/pkg/types"
)

// SanitizeID makes an arXiv id filesystem-safe. Older ids contain path
// separators (e.g. "math/0211159").
func SanitizeID(arxivID string) string {
	return strings.NewReplacer("/", "_", "\\", "_", ":", "_").Replace(arxivID)
}

// CachePath returns the deterministic local cache path for meta's PDF.
func (c *Client) CachePath(meta types.PaperMetadata) string {
	return filepath.Join(c.cfg.CacheDir, SanitizeID(meta.ArxivID)+".pdf")
}

// DownloadPDF streams meta's PDF to the local cache and returns its path.
// A cached file is returned without a network call unless force is set.
// A missing PDF URL returns ("", nil): the absence is local and not retried.
// Transport errors and timeouts are retried with linear backoff; exhausting
// retries yields a *DownloadTimeoutError or *DownloadError and leaves no
// partial file behind.
func (c *Client) DownloadPDF(ctx context.Context, meta types.PaperMetadata, force bool) (string, error) {
	if meta.PDFURL == "" {
		return "", nil
	}

	destPath := c.CachePath(meta)
	if !force {
		if _, err := os.Stat(destPath); err == nil {
			return destPath, nil
		}
	}

	if err := os.MkdirAll(c.cfg.CacheDir, 0o755); err != nil {
		return "", fmt.Errorf("creating cache directory: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, meta.PDFURL, nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.cfg.UserAgent)
	req.Header.Set("Accept", "application/pdf")

	resp, err := httputil.DoWithRetry(ctx, c.http, req, c.cfg.DownloadMaxRetries)
	if err != nil {
		if httputil.IsTimeout(err) {
			return "", &DownloadTimeoutError{ArxivID: meta.ArxivID, Err: err}
		}
		return "", &DownloadError{ArxivID: meta.ArxivID, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", &DownloadError{ArxivID: meta.ArxivID, Err: fmt.Errorf("HTTP %d from %s", resp.StatusCode, meta.PDFURL)}
	}

	if err := writeFileAtomic(destPath, resp.Body); err != nil {
		return "", &DownloadError{ArxivID: meta.ArxivID, Err: err}
	}

	if err := writeMetadataSidecar(meta, destPath); err != nil {
		return "", fmt.Errorf("writing metadata for %s: %w", meta.ArxivID, err)
	}

	return destPath, nil
}

// writeFileAtomic streams body to destPath through a temp file so a failed
// download never leaves a partial file at the destination.
func writeFileAtomic(destPath string, body io.Reader) error {
	tmpFile, err := os.CreateTemp(filepath.Dir(destPath), ".download-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	_, copyErr := io.Copy(tmpFile, body)
	closeErr := tmpFile.Close()
	if copyErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("writing download: %w", copyErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", closeErr)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}

// writeMetadataSidecar records the paper metadata next to the cached PDF.
func writeMetadataSidecar(meta types.PaperMetadata, pdfPath string) error {
	data, err := yaml.Marshal(meta)
	if err != nil {
		return fmt.Errorf("marshaling metadata: %w", err)
	}
	sidecar := strings.TrimSuffix(pdfPath, ".pdf") + ".yaml"
	return os.WriteFile(sidecar, data, 0o644)
}

// ReadMetadataSidecar loads the metadata sidecar written next to a cached
// PDF. Used by tooling that inspects the cache without hitting the API.
func ReadMetadataSidecar(pdfPath string) (*types.PaperMetadata, error) {
	sidecar := strings.TrimSuffix(pdfPath, ".pdf") + ".yaml"
	data, err := os.ReadFile(sidecar)
	if err != nil {
		return nil, err
	}
	var meta types.PaperMetadata
	if err := yaml.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}
