package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/paper-ingest/internal/extractor"
	"github.com/pdiddy/paper-ingest/internal/feed"
	"github.com/pdiddy/paper-ingest/internal/pipeline"
	"github.com/pdiddy/paper-ingest/internal/store"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Fetch, download, parse, and store arXiv papers",
	Long: `Ingest runs the full pipeline: fetch metadata for the configured
category, download the PDFs, extract sectioned text, and upsert each paper
into the store. Re-running the same window updates existing rows instead of
duplicating them.`,
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().Int("max-results", 0, "number of papers to fetch (default from config)")
	ingestCmd.Flags().String("category", "", "arXiv category to search (default from config)")
	ingestCmd.Flags().String("from", "", "start of submission date window (YYYYMMDD)")
	ingestCmd.Flags().String("to", "", "end of submission date window (YYYYMMDD)")
	ingestCmd.Flags().Bool("skip-content", false, "store metadata only, skip PDF download and parsing")
	ingestCmd.Flags().Bool("no-store", false, "run the pipeline without writing to the database")
	ingestCmd.Flags().Bool("force-redownload", false, "re-download PDFs even when cached")

	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()

	if category, _ := cmd.Flags().GetString("category"); category != "" {
		cfg.Feed.SearchCategory = category
	}
	maxResults, _ := cmd.Flags().GetInt("max-results")
	if maxResults == 0 {
		maxResults = cfg.Feed.MaxResults
	}
	from, _ := cmd.Flags().GetString("from")
	to, _ := cmd.Flags().GetString("to")
	skipContent, _ := cmd.Flags().GetBool("skip-content")
	noStore, _ := cmd.Flags().GetBool("no-store")
	force, _ := cmd.Flags().GetBool("force-redownload")

	client := feed.NewClient(cfg.Feed, nil)
	ext := extractor.New(cfg.Parser, nil)

	var st pipeline.PaperStore
	if !noStore {
		s, err := store.NewStore(cfg.Storage)
		if err != nil {
			return fmt.Errorf("opening store: %w", err)
		}
		defer s.Close()
		st = s
	}

	orch, err := pipeline.New(cfg.Pipeline, client, ext, st, os.Stdout)
	if err != nil {
		return err
	}
	defer orch.Release()

	report, err := orch.Run(cmd.Context(), pipeline.RunOptions{
		MaxResults:      maxResults,
		From:            from,
		To:              to,
		ExtractContent:  !skipContent,
		Persist:         !noStore,
		ForceRedownload: force,
	})
	if report != nil {
		report.Print(os.Stdout)
	}
	if err != nil {
		return err
	}
	if report.HasErrors() {
		return fmt.Errorf("%d paper(s) failed during ingestion", len(report.Errors))
	}
	return nil
}
