// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the paper-ingest CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/paper-ingest/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the paper-ingest CLI.
var rootCmd = &cobra.Command{
	Use:   "paper-ingest",
	Short: "Ingest arXiv papers into a local knowledge store",
	Long: `paper-ingest fetches paper metadata from the arXiv Atom API, downloads
PDFs, extracts sectioned text, and stores the results in a SQLite database.

Each stage is a subcommand: fetch lists metadata, ingest runs the full
pipeline, and stats summarizes the store.`,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./paper-ingest.yaml or ~/.config/paper-ingest/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("paper-ingest")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "paper-ingest"))
		}
	}

	viper.SetEnvPrefix("PAPER_INGEST")
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func setDefaults() {
	viper.SetDefault("feed.base_url", "https://export.arxiv.org/api/query")
	viper.SetDefault("feed.rate_limit_delay", 3*time.Second)
	viper.SetDefault("feed.timeout", 30*time.Second)
	viper.SetDefault("feed.user_agent", "paper-ingest/0.1")
	viper.SetDefault("feed.max_results", 15)
	viper.SetDefault("feed.search_category", "cs.AI")
	viper.SetDefault("feed.download_max_retries", 3)
	viper.SetDefault("feed.cache_dir", filepath.Join("data", "arxiv_pdfs"))

	viper.SetDefault("parser.max_pages", 20)
	viper.SetDefault("parser.max_file_size_mb", 20)
	viper.SetDefault("parser.do_ocr", false)
	viper.SetDefault("parser.do_table_structure", true)
	viper.SetDefault("parser.timeout", 0)

	viper.SetDefault("pipeline.max_concurrent_downloads", 5)
	viper.SetDefault("pipeline.max_concurrent_parsing", 1)

	viper.SetDefault("storage.db_path", filepath.Join("data", "papers.db"))
}

// loadConfig assembles the runtime config from viper (defaults, config
// file, and PAPER_INGEST_* environment variables).
func loadConfig() types.Config {
	return types.Config{
		Feed: types.FeedConfig{
			BaseURL: viper.GetString("feed.base_url"),
			Namespaces: map[string]string{
				"atom":       "http://www.w3.org/2005/Atom",
				"opensearch": "http://a9.com/-/spec/opensearch/1.1/",
				"arxiv":      "http://arxiv.org/schemas/atom",
			},
			RateLimitDelay:     viper.GetDuration("feed.rate_limit_delay"),
			Timeout:            viper.GetDuration("feed.timeout"),
			UserAgent:          viper.GetString("feed.user_agent"),
			MaxResults:         viper.GetInt("feed.max_results"),
			SearchCategory:     viper.GetString("feed.search_category"),
			DownloadMaxRetries: viper.GetInt("feed.download_max_retries"),
			CacheDir:           viper.GetString("feed.cache_dir"),
		},
		Parser: types.ParserConfig{
			MaxPages:         viper.GetInt("parser.max_pages"),
			MaxFileSizeMB:    viper.GetInt("parser.max_file_size_mb"),
			DoOCR:            viper.GetBool("parser.do_ocr"),
			DoTableStructure: viper.GetBool("parser.do_table_structure"),
			Timeout:          viper.GetDuration("parser.timeout"),
		},
		Pipeline: types.PipelineConfig{
			MaxConcurrentDownloads: viper.GetInt("pipeline.max_concurrent_downloads"),
			MaxConcurrentParsing:   viper.GetInt("pipeline.max_concurrent_parsing"),
		},
		Storage: types.StorageConfig{
			DBPath: viper.GetString("storage.db_path"),
		},
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
