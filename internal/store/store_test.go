// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/paper-ingest/pkg/types"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(types.StorageConfig{DBPath: filepath.Join(t.TempDir(), "papers.db")})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleRecord(id string) types.PaperRecord {
	return types.NewPaperRecord(types.PaperMetadata{
		ArxivID:    id,
		Title:      "Paper " + id,
		Authors:    []string{"A. Researcher", "B. Colleague"},
		Abstract:   "An abstract.",
		Categories: []string{"cs.AI", "cs.LG"},
		Published:  time.Date(2023, 1, 17, 14, 0, 0, 0, time.UTC),
		PDFURL:     "https://arxiv.org/pdf/" + id,
	})
}

func TestUpsert_InsertAndGet(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	stored, err := s.Upsert(ctx, sampleRecord("2301.07041"))
	require.NoError(t, err)
	require.NotNil(t, stored)

	assert.Equal(t, "2301.07041", stored.ArxivID)
	assert.Equal(t, "Paper 2301.07041", stored.Title)
	assert.Equal(t, []string{"A. Researcher", "B. Colleague"}, stored.Authors)
	assert.Equal(t, []string{"cs.AI", "cs.LG"}, stored.Categories)
	assert.Equal(t, 2023, stored.Published.Year())
	assert.False(t, stored.Processed)
	assert.False(t, stored.CreatedAt.IsZero())
}

func TestUpsert_Idempotent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	rec := sampleRecord("2301.07041")
	_, err := s.Upsert(ctx, rec)
	require.NoError(t, err)

	// Second run carries extracted content; the row is updated, not duplicated.
	content := &types.PDFContent{
		RawText:    "full text",
		Sections:   []types.PaperSection{{Title: "Introduction", Content: "full text", Level: 1}},
		References: []string{"Smith et al. A Paper. 2020."},
		ParserUsed: types.ParserPDFText,
	}
	rec = rec.WithContent(content, time.Now().UTC())

	stored, err := s.Upsert(ctx, rec)
	require.NoError(t, err)

	count, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	assert.True(t, stored.Processed)
	assert.Equal(t, "full text", stored.RawText)
	require.Len(t, stored.Sections, 1)
	assert.Equal(t, "Introduction", stored.Sections[0].Title)
	assert.Equal(t, []string{"Smith et al. A Paper. 2020."}, stored.References)
	assert.Equal(t, string(types.ParserPDFText), stored.ParserUsed)
}

func TestGetByArxivID_Unknown(t *testing.T) {
	s := newTestStore(t)

	stored, err := s.GetByArxivID(context.Background(), "9999.00000")
	require.NoError(t, err)
	assert.Nil(t, stored)
}

func TestStats(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.Upsert(ctx, sampleRecord("2301.00001"))
	require.NoError(t, err)

	withText := sampleRecord("2301.00002").WithContent(&types.PDFContent{
		RawText:    "text",
		ParserUsed: types.ParserPDFText,
	}, time.Now().UTC())
	_, err = s.Upsert(ctx, withText)
	require.NoError(t, err)

	st, err := s.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, Stats{Total: 2, Processed: 1, WithText: 1}, st)
}

func TestUpsert_IndependentRows(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for _, id := range []string{"A.1", "B.2", "C.3"} {
		_, err := s.Upsert(ctx, sampleRecord(id))
		require.NoError(t, err)
	}

	count, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	got, err := s.GetByArxivID(ctx, "B.2")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Paper B.2", got.Title)
}
