package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/paper-ingest/internal/feed"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch [arxiv-ids...]",
	Short: "List paper metadata without downloading",
	Long: `Fetch queries the arXiv API and prints paper metadata. With no
arguments it lists recent papers in the configured category; with arXiv ids
it looks up those papers directly.`,
	RunE: runFetch,
}

func init() {
	fetchCmd.Flags().Int("max-results", 0, "number of papers to fetch (default from config)")
	fetchCmd.Flags().String("category", "", "arXiv category to search (default from config)")
	fetchCmd.Flags().String("from", "", "start of submission date window (YYYYMMDD)")
	fetchCmd.Flags().String("to", "", "end of submission date window (YYYYMMDD)")

	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()

	if category, _ := cmd.Flags().GetString("category"); category != "" {
		cfg.Feed.SearchCategory = category
	}
	maxResults, _ := cmd.Flags().GetInt("max-results")
	from, _ := cmd.Flags().GetString("from")
	to, _ := cmd.Flags().GetString("to")

	client := feed.NewClient(cfg.Feed, nil)
	ctx := cmd.Context()

	if len(args) > 0 {
		for _, id := range args {
			paper, err := client.FetchByID(ctx, id)
			if err != nil {
				return fmt.Errorf("fetching %s: %w", id, err)
			}
			if paper == nil {
				fmt.Printf("%s: not found\n", id)
				continue
			}
			printPaper(paper.ArxivID, paper.Title, paper.Authors, paper.Published.Format("2006-01-02"))
		}
		return nil
	}

	papers, err := client.FetchMetadata(ctx, feed.FetchOptions{
		MaxResults: maxResults,
		From:       from,
		To:         to,
	})
	if err != nil {
		return err
	}

	fmt.Printf("%d paper(s)\n", len(papers))
	for _, p := range papers {
		printPaper(p.ArxivID, p.Title, p.Authors, p.Published.Format("2006-01-02"))
	}
	return nil
}

func printPaper(id, title string, authors []string, published string) {
	fmt.Printf("%s  %s\n", id, title)
	fmt.Printf("        %s  (%s)\n", strings.Join(authors, ", "), published)
}
