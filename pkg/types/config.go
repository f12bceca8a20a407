package types

import "time"

// FeedConfig holds settings for the arXiv feed client.
type FeedConfig struct {
	// BaseURL is the arXiv query endpoint.
	BaseURL string `json:"base_url" yaml:"base_url"`

	// Namespaces maps prefixes to the feed's XML namespace URIs
	// (atom, opensearch, arxiv).
	Namespaces map[string]string `json:"namespaces" yaml:"namespaces"`

	// RateLimitDelay is the minimum spacing between feed call starts.
	RateLimitDelay time.Duration `json:"rate_limit_delay" yaml:"rate_limit_delay"`

	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests.
	UserAgent string `json:"user_agent" yaml:"user_agent"`

	// MaxResults is the default page size when the caller passes none.
	// Capped at 2000 regardless of caller input.
	MaxResults int `json:"max_results" yaml:"max_results"`

	// SearchCategory is the fixed category filter (e.g. "cs.AI").
	SearchCategory string `json:"search_category" yaml:"search_category"`

	// DownloadMaxRetries bounds PDF download attempts.
	DownloadMaxRetries int `json:"download_max_retries" yaml:"download_max_retries"`

	// CacheDir is the local PDF cache directory.
	CacheDir string `json:"cache_dir" yaml:"cache_dir"`
}

// ParserConfig holds settings for PDF validation and extraction.
type ParserConfig struct {
	// MaxPages is the page-count limit; larger documents are soft-skipped.
	MaxPages int `json:"max_pages" yaml:"max_pages"`

	// MaxFileSizeMB is the file-size limit in megabytes.
	MaxFileSizeMB int `json:"max_file_size_mb" yaml:"max_file_size_mb"`

	// DoOCR enables OCR in engines that support it.
	DoOCR bool `json:"do_ocr" yaml:"do_ocr"`

	// DoTableStructure enables table-structure extraction in engines
	// that support it.
	DoTableStructure bool `json:"do_table_structure" yaml:"do_table_structure"`

	// Timeout bounds a single extraction.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`
}

// PipelineConfig holds the orchestrator's concurrency bounds.
type PipelineConfig struct {
	// MaxConcurrentDownloads bounds the download pool (network-bound work).
	MaxConcurrentDownloads int `json:"max_concurrent_downloads" yaml:"max_concurrent_downloads"`

	// MaxConcurrentParsing bounds the parse pool. Deliberately smaller than
	// the download bound since extraction is resource-heavy.
	MaxConcurrentParsing int `json:"max_concurrent_parsing" yaml:"max_concurrent_parsing"`
}

// StorageConfig holds settings for the SQLite paper store.
type StorageConfig struct {
	// DBPath is the SQLite database file path.
	DBPath string `json:"db_path" yaml:"db_path"`
}

// Config groups all component configurations.
type Config struct {
	Feed     FeedConfig     `json:"feed" yaml:"feed"`
	Parser   ParserConfig   `json:"parser" yaml:"parser"`
	Pipeline PipelineConfig `json:"pipeline" yaml:"pipeline"`
	Storage  StorageConfig  `json:"storage" yaml:"storage"`
}
