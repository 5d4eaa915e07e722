// Package storage persists a local snapshot of the exercise-template
// catalog so restarts can skip the full paginated remote fetch.
package storage

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/claude/repscope/internal/hevy"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS exercise_templates (
	position INTEGER PRIMARY KEY,
	id TEXT NOT NULL UNIQUE,
	title TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS snapshot_meta (
	key TEXT PRIMARY KEY,
	value TEXT NOT NULL
);`

// Store is a sqlite-backed template snapshot.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the snapshot database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("storage: open %s: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: init schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveTemplates replaces the stored catalog with templates, preserving
// their order, and stamps the snapshot time.
func (s *Store) SaveTemplates(templates []hevy.ExerciseTemplate) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("storage: begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM exercise_templates`); err != nil {
		return fmt.Errorf("storage: clear templates: %w", err)
	}
	for i, t := range templates {
		if _, err := tx.Exec(
			`INSERT INTO exercise_templates (position, id, title) VALUES (?, ?, ?)`,
			i, t.ID, t.Title,
		); err != nil {
			return fmt.Errorf("storage: insert template %s: %w", t.ID, err)
		}
	}
	if _, err := tx.Exec(
		`INSERT INTO snapshot_meta (key, value) VALUES ('fetched_at', ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		time.Now().UTC().Format(time.RFC3339),
	); err != nil {
		return fmt.Errorf("storage: stamp snapshot: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage: commit: %w", err)
	}
	return nil
}

// LoadTemplates returns the stored catalog in saved order, or nil when no
// snapshot exists or the snapshot is older than maxAge.
func (s *Store) LoadTemplates(maxAge time.Duration) ([]hevy.ExerciseTemplate, error) {
	var stamp string
	err := s.db.QueryRow(`SELECT value FROM snapshot_meta WHERE key = 'fetched_at'`).Scan(&stamp)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: read snapshot stamp: %w", err)
	}

	fetchedAt, err := time.Parse(time.RFC3339, stamp)
	if err != nil {
		return nil, fmt.Errorf("storage: parse snapshot stamp: %w", err)
	}
	if maxAge > 0 && time.Since(fetchedAt) > maxAge {
		return nil, nil
	}

	rows, err := s.db.Query(`SELECT id, title FROM exercise_templates ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("storage: query templates: %w", err)
	}
	defer rows.Close()

	var templates []hevy.ExerciseTemplate
	for rows.Next() {
		var t hevy.ExerciseTemplate
		if err := rows.Scan(&t.ID, &t.Title); err != nil {
			return nil, fmt.Errorf("storage: scan template: %w", err)
		}
		templates = append(templates, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: iterate templates: %w", err)
	}
	return templates, nil
}
