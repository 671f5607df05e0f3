// Package history persists the record of past moves in a local SQLite
// database. The core only appends and deletes; the read side serves list
// display.
package history

import (
	"database/sql"
	"fmt"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/w2sv/filenavigator/core/storage"
)

// =============================================================================
// Entry
// =============================================================================

// Entry is one recorded move.
type Entry struct {
	ID          int64
	FileName    string
	FileType    string
	SourceType  string
	Destination string
	MovedAt     time.Time
	AutoMoved   bool
}

// =============================================================================
// Store
// =============================================================================

// Store is the SQLite-backed move history.
type Store struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS move_history (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	file_name   TEXT    NOT NULL,
	file_type   TEXT    NOT NULL,
	source_type TEXT    NOT NULL,
	destination TEXT    NOT NULL,
	moved_at    INTEGER NOT NULL,
	auto_moved  INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_move_history_moved_at ON move_history (moved_at DESC);
`

// Open opens (and if necessary creates) the history database at path.
func Open(path string) (*Store, error) {
	if err := storage.EnsureStandardDir(filepath.Dir(path)); err != nil {
		return nil, fmt.Errorf("history dir: %w", err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("history db pragma: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("history db schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Append records one successful move.
func (s *Store) Append(entry Entry) error {
	_, err := s.db.Exec(
		`INSERT INTO move_history (file_name, file_type, source_type, destination, moved_at, auto_moved)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		entry.FileName,
		entry.FileType,
		entry.SourceType,
		entry.Destination,
		entry.MovedAt.Unix(),
		entry.AutoMoved,
	)
	if err != nil {
		return fmt.Errorf("append history entry: %w", err)
	}
	return nil
}

// List returns the most recent entries, newest first. A non-positive limit
// returns everything.
func (s *Store) List(limit int) ([]Entry, error) {
	query := `SELECT id, file_name, file_type, source_type, destination, moved_at, auto_moved
	          FROM move_history ORDER BY moved_at DESC, id DESC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var entry Entry
		var movedAt int64
		if err := rows.Scan(&entry.ID, &entry.FileName, &entry.FileType, &entry.SourceType,
			&entry.Destination, &movedAt, &entry.AutoMoved); err != nil {
			return nil, fmt.Errorf("scan history entry: %w", err)
		}
		entry.MovedAt = time.Unix(movedAt, 0)
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// DeleteOne removes a single entry.
func (s *Store) DeleteOne(entry Entry) error {
	_, err := s.db.Exec(`DELETE FROM move_history WHERE id = ?`, entry.ID)
	if err != nil {
		return fmt.Errorf("delete history entry: %w", err)
	}
	return nil
}

// DeleteAll clears the history.
func (s *Store) DeleteAll() error {
	_, err := s.db.Exec(`DELETE FROM move_history`)
	if err != nil {
		return fmt.Errorf("clear history: %w", err)
	}
	return nil
}
