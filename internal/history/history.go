// Package history keeps a local record of completed analyses so past runs
// can be listed and re-opened without a round trip to the server.
package history

import (
	"database/sql"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite"
)

// Entry is one recorded analysis.
type Entry struct {
	ID           string
	AnalysisID   string
	JobTitle     string
	CompanyName  string
	OverallScore float64
	Credits      int
	CreatedAt    time.Time
}

// Store persists entries in a SQLite database at baseDir/history.db.
type Store struct {
	db *sql.DB
}

// Open initializes the store. The baseDir parameter allows tests to use
// t.TempDir() instead of ~/.resume-pilot.
func Open(baseDir string) (*Store, error) {
	if err := os.MkdirAll(baseDir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create base directory: %w", err)
	}

	dbPath := filepath.Join(baseDir, "history.db")
	dsn := dbPath + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS analyses (
			id            TEXT PRIMARY KEY,
			analysis_id   TEXT NOT NULL,
			job_title     TEXT NOT NULL DEFAULT '',
			company_name  TEXT NOT NULL DEFAULT '',
			overall_score REAL NOT NULL DEFAULT 0,
			credits       INTEGER NOT NULL DEFAULT 0,
			created_at    TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_analyses_created_at ON analyses(created_at DESC);
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate history database: %w", err)
	}

	return &Store{db: db}, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record saves one completed analysis and returns its local id.
func (s *Store) Record(entry Entry) (string, error) {
	if entry.ID == "" {
		entry.ID = newID()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.Exec(
		`INSERT INTO analyses (id, analysis_id, job_title, company_name, overall_score, credits, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		entry.ID, entry.AnalysisID, entry.JobTitle, entry.CompanyName,
		entry.OverallScore, entry.Credits, entry.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return "", fmt.Errorf("failed to record analysis: %w", err)
	}
	return entry.ID, nil
}

// List returns the most recent entries, newest first.
func (s *Store) List(limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT id, analysis_id, job_title, company_name, overall_score, credits, created_at
		 FROM analyses ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list history: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var entry Entry
		var createdAt string
		if err := rows.Scan(&entry.ID, &entry.AnalysisID, &entry.JobTitle, &entry.CompanyName,
			&entry.OverallScore, &entry.Credits, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan history row: %w", err)
		}
		entry.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// Find resolves an entry by local id or remote analysis id.
func (s *Store) Find(id string) (*Entry, error) {
	row := s.db.QueryRow(
		`SELECT id, analysis_id, job_title, company_name, overall_score, credits, created_at
		 FROM analyses WHERE id = ? OR analysis_id = ? LIMIT 1`, id, id)

	var entry Entry
	var createdAt string
	if err := row.Scan(&entry.ID, &entry.AnalysisID, &entry.JobTitle, &entry.CompanyName,
		&entry.OverallScore, &entry.Credits, &createdAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("no history entry for %q", id)
		}
		return nil, fmt.Errorf("failed to look up history: %w", err)
	}
	entry.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
	return &entry, nil
}

func newID() string {
	entropy := ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0)
	return ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String()
}
