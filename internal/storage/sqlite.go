// Package storage provides SQLite-based persistence for run history.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// Run statuses
const (
	StatusSuccess = "success"
	StatusFailed  = "failed"
	StatusAborted = "aborted"
)

// Store manages the SQLite database connection for run persistence.
type Store struct {
	db *sql.DB
}

// Run is one recorded playthrough.
type Run struct {
	ID            int64
	ControlString string
	Status        string // success, failed or aborted
	Distance      float64
	RawScore      string
	Duration      time.Duration
	Snapshot      string // diagnostic image path, empty if none was written
	CreatedAt     time.Time
}

// Stats summarises the stored runs.
type Stats struct {
	Total        int
	Successes    int
	Failures     int
	Aborts       int
	BestDistance float64 // over non-aborted runs
	MeanDistance float64 // over non-aborted runs
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Create parent directories
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			control_string TEXT NOT NULL,
			status TEXT NOT NULL,
			distance REAL NOT NULL DEFAULT 0,
			raw_score TEXT NOT NULL DEFAULT '',
			duration_ms INTEGER NOT NULL DEFAULT 0,
			snapshot TEXT NOT NULL DEFAULT '',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_runs_status ON runs(status);
		CREATE INDEX IF NOT EXISTS idx_runs_best ON runs(status, distance DESC);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveRun records a run and returns its ID.
func (s *Store) SaveRun(r Run) (int64, error) {
	switch r.Status {
	case StatusSuccess, StatusFailed, StatusAborted:
	default:
		return 0, fmt.Errorf("storage: invalid run status %q", r.Status)
	}

	result, err := s.db.Exec(
		`INSERT INTO runs (control_string, status, distance, raw_score, duration_ms, snapshot)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		r.ControlString, r.Status, r.Distance, r.RawScore, r.Duration.Milliseconds(), r.Snapshot,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save run: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

// RecentRuns retrieves the last N runs, newest first.
func (s *Store) RecentRuns(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.queryRuns(
		`SELECT id, control_string, status, distance, raw_score, duration_ms, snapshot, created_at
		 FROM runs
		 ORDER BY id DESC
		 LIMIT ?`,
		limit,
	)
}

// BestRuns retrieves the N furthest non-aborted runs.
// Ties are broken by the earlier run.
func (s *Store) BestRuns(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.queryRuns(
		`SELECT id, control_string, status, distance, raw_score, duration_ms, snapshot, created_at
		 FROM runs
		 WHERE status != ?
		 ORDER BY distance DESC, id ASC
		 LIMIT ?`,
		StatusAborted, limit,
	)
}

// Stats summarises all stored runs.
func (s *Store) Stats() (Stats, error) {
	var st Stats
	var best, mean sql.NullFloat64
	var successes, failures, aborts sql.NullInt64

	err := s.db.QueryRow(
		`SELECT COUNT(*),
		        SUM(CASE WHEN status = ? THEN 1 ELSE 0 END),
		        SUM(CASE WHEN status = ? THEN 1 ELSE 0 END),
		        SUM(CASE WHEN status = ? THEN 1 ELSE 0 END),
		        MAX(CASE WHEN status != ? THEN distance END),
		        AVG(CASE WHEN status != ? THEN distance END)
		 FROM runs`,
		StatusSuccess, StatusFailed, StatusAborted, StatusAborted, StatusAborted,
	).Scan(&st.Total, &successes, &failures, &aborts, &best, &mean)
	if err != nil {
		return st, fmt.Errorf("storage: cannot query stats: %w", err)
	}

	st.Successes = int(successes.Int64)
	st.Failures = int(failures.Int64)
	st.Aborts = int(aborts.Int64)
	st.BestDistance = best.Float64
	st.MeanDistance = mean.Float64
	return st, nil
}

func (s *Store) queryRuns(query string, args ...any) ([]Run, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var durationMs int64
		var createdAt any
		if err := rows.Scan(&r.ID, &r.ControlString, &r.Status, &r.Distance, &r.RawScore, &durationMs, &r.Snapshot, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		r.Duration = time.Duration(durationMs) * time.Millisecond

		// Parse the datetime - handle both time.Time and string
		switch v := createdAt.(type) {
		case time.Time:
			r.CreatedAt = v
		case string:
			if parsed, err := time.Parse("2006-01-02 15:04:05", v); err == nil {
				r.CreatedAt = parsed
			}
		}
		runs = append(runs, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return runs, nil
}
