// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package catalog indexes archived articles in SQLite for full-text search
// and structured queries by newspaper, date, and source file.
//
// The FTS5 table requires building with the sqlite_fts5 tag.
package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/news-archive/internal/record"
	"github.com/pdiddy/news-archive/pkg/types"
)

const (
	dbFile        = "catalog.db"
	archiveSuffix = ".txt"
)

// ErrFTS5Unavailable is returned when the SQLite driver was compiled
// without the FTS5 module.
var ErrFTS5Unavailable = errors.New("SQLite FTS5 module unavailable: rebuild with -tags sqlite_fts5")

// Store manages the catalog database.
type Store struct {
	db         *sql.DB
	archiveDir string
	dbDir      string
	maxResults int
}

// NewStore opens or creates the catalog at cfg.DBDir/catalog.db and creates
// the schema if it does not exist.
func NewStore(cfg types.CatalogConfig) (*Store, error) {
	if err := os.MkdirAll(cfg.DBDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating catalog directory: %w", err)
	}

	dbPath := filepath.Join(cfg.DBDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 20
	}

	s := &Store{
		db:         db,
		archiveDir: cfg.ArchiveDir,
		dbDir:      cfg.DBDir,
		maxResults: maxResults,
	}

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
		`CREATE TABLE IF NOT EXISTS editions (
			source_file TEXT PRIMARY KEY,
			newspaper TEXT NOT NULL,
			edition TEXT NOT NULL,
			date TEXT NOT NULL,
			total_pages INTEGER
		)`,
		`CREATE TABLE IF NOT EXISTS articles (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL UNIQUE,
			source_file TEXT NOT NULL REFERENCES editions(source_file),
			sequence INTEGER NOT NULL,
			page INTEGER NOT NULL,
			headline TEXT,
			body TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_articles_source ON articles(source_file)`,
		`CREATE TABLE IF NOT EXISTS indexing_status (
			archive_file TEXT PRIMARY KEY,
			file_mod_time TEXT
		)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	var ftsExists int
	if err := s.db.QueryRow(
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name='articles_fts'`,
	).Scan(&ftsExists); err != nil {
		return fmt.Errorf("checking FTS table: %w", err)
	}
	if ftsExists > 0 {
		return nil
	}

	ftsStatements := []string{
		`CREATE VIRTUAL TABLE articles_fts USING fts5(headline, body, content=articles, content_rowid=rowid)`,
		`CREATE TRIGGER articles_ai AFTER INSERT ON articles BEGIN
			INSERT INTO articles_fts(rowid, headline, body) VALUES (new.rowid, new.headline, new.body);
		END`,
		`CREATE TRIGGER articles_ad AFTER DELETE ON articles BEGIN
			INSERT INTO articles_fts(articles_fts, rowid, headline, body) VALUES('delete', old.rowid, old.headline, old.body);
		END`,
	}
	for _, stmt := range ftsStatements {
		if _, err := s.db.Exec(stmt); err != nil {
			return ftsError(err)
		}
	}
	return nil
}

// ftsError maps the driver's missing-module error to ErrFTS5Unavailable.
func ftsError(err error) error {
	if strings.Contains(err.Error(), "no such module: fts5") {
		return fmt.Errorf("creating FTS infrastructure: %w (%v)", ErrFTS5Unavailable, err)
	}
	return fmt.Errorf("creating FTS infrastructure: %w", err)
}

// IngestSummary holds counts from a catalog indexing run.
type IngestSummary struct {
	Indexed  int
	Updated  int
	Skipped  int
	Failed   int
	Articles int
}

// Total returns the number of archive files processed.
func (s IngestSummary) Total() int {
	return s.Indexed + s.Updated + s.Skipped + s.Failed
}

// Ingest parses every archive file in the archive directory and loads it
// into the catalog. Files whose modification time matches the last run are
// skipped; changed files replace their previous rows.
func (s *Store) Ingest(ctx context.Context, w io.Writer) (IngestSummary, error) {
	entries, err := os.ReadDir(s.archiveDir)
	if err != nil {
		return IngestSummary{}, fmt.Errorf("reading archive directory %s: %w", s.archiveDir, err)
	}

	var summary IngestSummary
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), archiveSuffix) {
			continue
		}
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		name := entry.Name()
		info, err := entry.Info()
		if err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", name, err)
			summary.Failed++
			continue
		}
		modTime := info.ModTime().UTC().Format(time.RFC3339Nano)

		var storedModTime string
		err = s.db.QueryRowContext(ctx,
			`SELECT file_mod_time FROM indexing_status WHERE archive_file = ?`, name,
		).Scan(&storedModTime)
		if err == nil && storedModTime == modTime {
			fmt.Fprintf(w, "skipped %s\n", name)
			summary.Skipped++
			continue
		}
		isUpdate := err == nil

		arc, err := parseFile(filepath.Join(s.archiveDir, name))
		if err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", name, err)
			summary.Failed++
			continue
		}

		if err := s.ingestArchive(ctx, name, arc, modTime); err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", name, err)
			summary.Failed++
			continue
		}

		summary.Articles += len(arc.Articles)
		if isUpdate {
			fmt.Fprintf(w, "updated %s (%d articles)\n", name, len(arc.Articles))
			summary.Updated++
		} else {
			fmt.Fprintf(w, "indexing %s (%d articles)\n", name, len(arc.Articles))
			summary.Indexed++
		}
	}

	fmt.Fprintf(w, "\nindexed: %d, updated: %d, skipped: %d, failed: %d\n",
		summary.Indexed, summary.Updated, summary.Skipped, summary.Failed)
	return summary, nil
}

func parseFile(path string) (*record.Archive, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	arc, err := record.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}
	return arc, nil
}

func (s *Store) ingestArchive(ctx context.Context, archiveFile string, arc *record.Archive, modTime string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	h := arc.Header
	if _, err := tx.ExecContext(ctx, `DELETE FROM articles WHERE source_file = ?`, h.SourceFile); err != nil {
		return fmt.Errorf("deleting old articles: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO editions (source_file, newspaper, edition, date, total_pages)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(source_file) DO UPDATE SET
			newspaper=excluded.newspaper, edition=excluded.edition,
			date=excluded.date, total_pages=excluded.total_pages`,
		h.SourceFile, h.Metadata.NewspaperName, h.Metadata.Edition, h.Metadata.Date, h.TotalPages,
	)
	if err != nil {
		return fmt.Errorf("upserting edition: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO articles (id, source_file, sequence, page, headline, body)
		 VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, a := range arc.Articles {
		_, err := stmt.ExecContext(ctx,
			ArticleID(h.SourceFile, a.Sequence), h.SourceFile, a.Sequence, a.Page,
			a.Lines[0], strings.Join(a.Lines, "\n"),
		)
		if err != nil {
			return fmt.Errorf("inserting article %d: %w", a.Sequence, err)
		}
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO indexing_status (archive_file, file_mod_time) VALUES (?, ?)
		 ON CONFLICT(archive_file) DO UPDATE SET file_mod_time=excluded.file_mod_time`,
		archiveFile, modTime,
	)
	if err != nil {
		return fmt.Errorf("updating indexing status: %w", err)
	}
	return tx.Commit()
}

// ArticleID is the catalog key of an article: source file and sequence.
func ArticleID(sourceFile string, sequence int) string {
	return fmt.Sprintf("%s#%d", sourceFile, sequence)
}
