package search

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/abelbrown/recall/internal/catalog"
	"github.com/abelbrown/recall/internal/logging"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver (no CGO required)
)

// Index is a persistent full-text index over the catalog.
//
// It is a derived cache, never a source of truth: the artifact store remains
// fully reconstructible without it, and Rebuild replaces the whole index
// from a fresh catalog. Useful for querying large stores from the CLI
// without loading every transcript into memory.
type Index struct {
	db *sql.DB
}

// OpenIndex opens (or creates) the index database at path.
func OpenIndex(path string) (*Index, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open index database: %w", err)
	}

	// WAL keeps rebuilds from blocking concurrent readers
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	idx := &Index{db: db}
	if err := idx.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate index: %w", err)
	}
	return idx, nil
}

func (idx *Index) migrate() error {
	schema := `
	CREATE VIRTUAL TABLE IF NOT EXISTS captures USING fts5(
		image_path UNINDEXED,
		captured_at UNINDEXED,
		content,
		description
	);
	`
	_, err := idx.db.Exec(schema)
	return err
}

// Rebuild replaces the index contents with the given catalog in a single
// transaction.
func (idx *Index) Rebuild(records []catalog.Record) error {
	tx, err := idx.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	// Rollback is safe to call even after commit - it's a no-op
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM captures"); err != nil {
		return fmt.Errorf("failed to clear index: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO captures (image_path, captured_at, content, description)
		VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	var indexed int
	for _, rec := range records {
		if _, err := stmt.Exec(rec.ImagePath, rec.Timestamp.Unix(), rec.Text, rec.Description); err != nil {
			logging.Debug("Failed to index record", "path", rec.ImagePath, "error", err)
			continue
		}
		indexed++
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit index rebuild: %w", err)
	}

	logging.Info("Search index rebuilt", "records", indexed)
	return nil
}

// Search returns image paths whose text or description matches the query,
// best match first.
func (idx *Index) Search(query string, limit int) ([]string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}
	if limit <= 0 {
		limit = 100
	}

	// Quote the query so user input is matched literally rather than
	// interpreted as FTS5 syntax
	quoted := `"` + strings.ReplaceAll(query, `"`, `""`) + `"`

	rows, err := idx.db.Query(`
		SELECT image_path FROM captures
		WHERE captures MATCH ?
		ORDER BY rank
		LIMIT ?
	`, quoted, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query index: %w", err)
	}
	defer rows.Close()

	var paths []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, fmt.Errorf("failed to scan result: %w", err)
		}
		paths = append(paths, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating results: %w", err)
	}
	return paths, nil
}

// Count returns the number of indexed captures.
func (idx *Index) Count() (int, error) {
	var n int
	if err := idx.db.QueryRow("SELECT COUNT(*) FROM captures").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count index: %w", err)
	}
	return n, nil
}

// Close closes the underlying database.
func (idx *Index) Close() error {
	return idx.db.Close()
}
