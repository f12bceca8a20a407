// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists ingested papers in a SQLite database keyed by the
// versionless arXiv id. Upsert is idempotent: repeating a call with the
// same record leaves one row with that record's content.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/paper-ingest/pkg/types"
)

// Store manages the papers SQLite database.
type Store struct {
	db *sql.DB
}

// StoredPaper is the row image returned by Upsert and the read helpers.
type StoredPaper struct {
	types.PaperRecord

	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewStore opens or creates the database at cfg.DBPath and ensures the
// schema exists.
func NewStore(cfg types.StorageConfig) (*Store, error) {
	if dir := filepath.Dir(cfg.DBPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", cfg.DBPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS papers (
			arxiv_id TEXT PRIMARY KEY,
			title TEXT,
			authors TEXT,
			abstract TEXT,
			categories TEXT,
			published_date TEXT,
			pdf_url TEXT,
			raw_text TEXT,
			sections TEXT,
			refs TEXT,
			parser_used TEXT,
			parser_metadata TEXT,
			pdf_processed INTEGER NOT NULL DEFAULT 0,
			pdf_processing_date TEXT,
			note TEXT,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_papers_processed ON papers(pdf_processed)`,
		`CREATE INDEX IF NOT EXISTS idx_papers_published ON papers(published_date)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Upsert inserts rec or, when the arXiv id already exists, replaces all
// mutable fields including the content columns. Each call is its own
// transaction, so one failing paper never affects rows already written.
func (s *Store) Upsert(ctx context.Context, rec types.PaperRecord) (*StoredPaper, error) {
	authorsJSON, _ := json.Marshal(rec.Authors)
	categoriesJSON, _ := json.Marshal(rec.Categories)
	sectionsJSON, _ := json.Marshal(rec.Sections)
	refsJSON, _ := json.Marshal(rec.References)
	metaJSON, _ := json.Marshal(rec.ParserMetadata)

	publishedStr := ""
	if !rec.Published.IsZero() {
		publishedStr = rec.Published.Format(time.RFC3339)
	}
	processedStr := ""
	if !rec.ProcessedAt.IsZero() {
		processedStr = rec.ProcessedAt.UTC().Format(time.RFC3339)
	}
	now := time.Now().UTC().Format(time.RFC3339)

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO papers (
			arxiv_id, title, authors, abstract, categories, published_date, pdf_url,
			raw_text, sections, refs, parser_used, parser_metadata,
			pdf_processed, pdf_processing_date, note, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(arxiv_id) DO UPDATE SET
			title=excluded.title, authors=excluded.authors,
			abstract=excluded.abstract, categories=excluded.categories,
			published_date=excluded.published_date, pdf_url=excluded.pdf_url,
			raw_text=excluded.raw_text, sections=excluded.sections,
			refs=excluded.refs, parser_used=excluded.parser_used,
			parser_metadata=excluded.parser_metadata,
			pdf_processed=excluded.pdf_processed,
			pdf_processing_date=excluded.pdf_processing_date,
			note=excluded.note, updated_at=excluded.updated_at`,
		rec.ArxivID, rec.Title, string(authorsJSON), rec.Abstract,
		string(categoriesJSON), publishedStr, rec.PDFURL,
		rec.RawText, string(sectionsJSON), string(refsJSON),
		rec.ParserUsed, string(metaJSON),
		boolToInt(rec.Processed), processedStr, rec.Note, now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("upserting paper %s: %w", rec.ArxivID, err)
	}

	return s.GetByArxivID(ctx, rec.ArxivID)
}

// GetByArxivID loads one stored paper, or nil when the id is unknown.
func (s *Store) GetByArxivID(ctx context.Context, arxivID string) (*StoredPaper, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT arxiv_id, title, authors, abstract, categories, published_date,
			pdf_url, raw_text, sections, refs, parser_used, parser_metadata,
			pdf_processed, pdf_processing_date, note, created_at, updated_at
		 FROM papers WHERE arxiv_id = ?`, arxivID)

	var p StoredPaper
	var authorsJSON, categoriesJSON, sectionsJSON, refsJSON, metaJSON string
	var publishedStr, processedStr, createdStr, updatedStr string
	var processed int

	err := row.Scan(&p.ArxivID, &p.Title, &authorsJSON, &p.Abstract,
		&categoriesJSON, &publishedStr, &p.PDFURL,
		&p.RawText, &sectionsJSON, &refsJSON, &p.ParserUsed, &metaJSON,
		&processed, &processedStr, &p.Note, &createdStr, &updatedStr)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading paper %s: %w", arxivID, err)
	}

	json.Unmarshal([]byte(authorsJSON), &p.Authors)
	json.Unmarshal([]byte(categoriesJSON), &p.Categories)
	json.Unmarshal([]byte(sectionsJSON), &p.Sections)
	json.Unmarshal([]byte(refsJSON), &p.References)
	json.Unmarshal([]byte(metaJSON), &p.ParserMetadata)

	p.Processed = processed != 0
	p.Published = parseTime(publishedStr)
	p.ProcessedAt = parseTime(processedStr)
	p.CreatedAt = parseTime(createdStr)
	p.UpdatedAt = parseTime(updatedStr)

	return &p, nil
}

// Stats summarizes stored papers for reporting.
type Stats struct {
	Total     int
	Processed int
	WithText  int
}

// Stats counts total, processed, and text-bearing papers.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	var st Stats
	err := s.db.QueryRowContext(ctx,
		`SELECT count(*),
			coalesce(sum(pdf_processed), 0),
			coalesce(sum(CASE WHEN raw_text != '' THEN 1 ELSE 0 END), 0)
		 FROM papers`,
	).Scan(&st.Total, &st.Processed, &st.WithText)
	if err != nil {
		return Stats{}, fmt.Errorf("counting papers: %w", err)
	}
	return st, nil
}

// Count returns the number of stored papers.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM papers`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting papers: %w", err)
	}
	return n, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, _ := time.Parse(time.RFC3339, s)
	return t
}
