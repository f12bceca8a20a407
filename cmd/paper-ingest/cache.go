package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pdiddy/paper-ingest/internal/feed"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "List papers in the local PDF cache",
	Long: `Cache lists the PDFs in the local download cache together with the
metadata recorded alongside each one, without touching the arXiv API.`,
	RunE: runCache,
}

func init() {
	rootCmd.AddCommand(cacheCmd)
}

func runCache(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()

	pdfs, err := filepath.Glob(filepath.Join(cfg.Feed.CacheDir, "*.pdf"))
	if err != nil {
		return fmt.Errorf("scanning cache directory: %w", err)
	}
	if len(pdfs) == 0 {
		fmt.Println("Cache is empty.")
		return nil
	}

	var totalBytes int64
	for _, path := range pdfs {
		info, err := os.Stat(path)
		if err != nil {
			continue
		}
		totalBytes += info.Size()

		meta, err := feed.ReadMetadataSidecar(path)
		if err != nil {
			fmt.Printf("%s  (no metadata)\n", filepath.Base(path))
			continue
		}
		fmt.Printf("%s  %s\n", meta.ArxivID, meta.Title)
	}
	fmt.Printf("%d PDF(s), %.1f MB\n", len(pdfs), float64(totalBytes)/(1<<20))
	return nil
}
