package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/paper-ingest/internal/store"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarize the paper store",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()

		s, err := store.NewStore(cfg.Storage)
		if err != nil {
			return fmt.Errorf("opening store: %w", err)
		}
		defer s.Close()

		st, err := s.Stats(cmd.Context())
		if err != nil {
			return err
		}

		fmt.Printf("Papers:    %d\n", st.Total)
		fmt.Printf("Processed: %d\n", st.Processed)
		fmt.Printf("With text: %d\n", st.WithText)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
