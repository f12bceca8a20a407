// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package feed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/paper-ingest/internal/httputil"
	"github.com/pdiddy/paper-ingest/pkg/types"
)

func init() {
	httputil.RetryBaseDelay = 1 * time.Millisecond
}

func downloadClient(t *testing.T, ts *httptest.Server) *Client {
	t.Helper()
	cfg := testFeedConfig(ts.URL)
	cfg.CacheDir = t.TempDir()
	cfg.DownloadMaxRetries = 3
	return NewClient(cfg, ts.Client())
}

func pdfMeta(url string) types.PaperMetadata {
	return types.PaperMetadata{
		ArxivID:    "2301.07041",
		Title:      "Test Paper",
		Authors:    []string{"A. Researcher"},
		Categories: []string{"cs.AI"},
		PDFURL:     url,
	}
}

func TestDownloadPDF_WritesFileAndSidecar(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("%PDF-1.5 fake body"))
	}))
	defer ts.Close()

	client := downloadClient(t, ts)
	path, err := client.DownloadPDF(context.Background(), pdfMeta(ts.URL+"/pdf/2301.07041"), false)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.5 fake body", string(data))

	meta, err := ReadMetadataSidecar(path)
	require.NoError(t, err)
	assert.Equal(t, "2301.07041", meta.ArxivID)
	assert.Equal(t, "Test Paper", meta.Title)
}

func TestDownloadPDF_CacheHitSkipsNetwork(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Write([]byte("%PDF-1.5"))
	}))
	defer ts.Close()

	client := downloadClient(t, ts)
	meta := pdfMeta(ts.URL + "/pdf/2301.07041")

	cached := client.CachePath(meta)
	require.NoError(t, os.WriteFile(cached, []byte("%PDF-1.5 cached"), 0o644))

	path, err := client.DownloadPDF(context.Background(), meta, false)
	require.NoError(t, err)
	assert.Equal(t, cached, path)
	assert.Equal(t, int32(0), atomic.LoadInt32(&calls))
}

func TestDownloadPDF_ForceRedownload(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Write([]byte("%PDF-1.5 fresh"))
	}))
	defer ts.Close()

	client := downloadClient(t, ts)
	meta := pdfMeta(ts.URL + "/pdf/2301.07041")
	require.NoError(t, os.WriteFile(client.CachePath(meta), []byte("stale"), 0o644))

	path, err := client.DownloadPDF(context.Background(), meta, true)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.5 fresh", string(data))
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestDownloadPDF_NoPDFURL(t *testing.T) {
	client := NewClient(testFeedConfig("http://unused"), http.DefaultClient)

	path, err := client.DownloadPDF(context.Background(), types.PaperMetadata{ArxivID: "2301.07041"}, false)
	require.NoError(t, err)
	assert.Empty(t, path)
}

func TestDownloadPDF_RetriesThenSucceeds(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte("%PDF-1.5"))
	}))
	defer ts.Close()

	client := downloadClient(t, ts)
	path, err := client.DownloadPDF(context.Background(), pdfMeta(ts.URL+"/pdf/2301.07041"), false)
	require.NoError(t, err)
	assert.FileExists(t, path)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestDownloadPDF_HTTPErrorNoPartialFile(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer ts.Close()

	client := downloadClient(t, ts)
	meta := pdfMeta(ts.URL + "/pdf/2301.07041")

	_, err := client.DownloadPDF(context.Background(), meta, false)
	var dlErr *DownloadError
	require.ErrorAs(t, err, &dlErr)
	assert.Equal(t, "2301.07041", dlErr.ArxivID)

	assert.NoFileExists(t, client.CachePath(meta))

	entries, readErr := os.ReadDir(filepath.Dir(client.CachePath(meta)))
	require.NoError(t, readErr)
	assert.Empty(t, entries)
}

func TestReadMetadataSidecar_Missing(t *testing.T) {
	pdfPath := filepath.Join(t.TempDir(), "2301.07041.pdf")
	require.NoError(t, os.WriteFile(pdfPath, []byte("%PDF-1.5"), 0o644))

	_, err := ReadMetadataSidecar(pdfPath)
	assert.Error(t, err)
}

func TestSanitizeID(t *testing.T) {
	assert.Equal(t, "math_0211159", SanitizeID("math/0211159"))
	assert.Equal(t, "2301.07041", SanitizeID("2301.07041"))
}
