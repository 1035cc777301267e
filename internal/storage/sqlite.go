// Package storage provides SQLite-based persistence for testbed run reports.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
//
// Only run summaries are stored; pacing state always starts fresh.
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/xid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

const timeLayout = "2006-01-02 15:04:05"

// Store manages the SQLite database connection for run history.
type Store struct {
	db *sql.DB
}

// Run is the summary of one testbed run.
type Run struct {
	ID            string
	Preset        string
	TargetRate    float64
	Frames        uint64
	WallSeconds   float64
	UpdateStalls  uint64
	RenderStalls  uint64
	StalledMillis int64
	CreatedAt     time.Time
	Results       []RunResult
}

// RunResult is the outcome of one strategy within a run.
type RunResult struct {
	Strategy string
	SimTime  float64
	Drift    float64
	MaxJump  float64
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

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
			id TEXT PRIMARY KEY,
			preset TEXT NOT NULL,
			target_rate REAL NOT NULL,
			frames INTEGER NOT NULL,
			wall_seconds REAL NOT NULL,
			update_stalls INTEGER NOT NULL DEFAULT 0,
			render_stalls INTEGER NOT NULL DEFAULT 0,
			stalled_millis INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at DESC);

		CREATE TABLE IF NOT EXISTS run_results (
			run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			strategy TEXT NOT NULL,
			sim_time REAL NOT NULL,
			drift REAL NOT NULL,
			max_jump REAL NOT NULL,
			PRIMARY KEY (run_id, strategy)
		);
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

// SaveRun records a run and its per-strategy results in one transaction.
// An empty ID is assigned; a zero CreatedAt uses the current time.
// Returns the run ID.
func (s *Store) SaveRun(run Run) (string, error) {
	if run.ID == "" {
		run.ID = xid.New().String()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now()
	}

	tx, err := s.db.Begin()
	if err != nil {
		return "", fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // No-op after commit

	_, err = tx.Exec(
		`INSERT INTO runs (id, preset, target_rate, frames, wall_seconds,
		                   update_stalls, render_stalls, stalled_millis, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Preset, run.TargetRate, int64(run.Frames), run.WallSeconds,
		int64(run.UpdateStalls), int64(run.RenderStalls), run.StalledMillis,
		run.CreatedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return "", fmt.Errorf("storage: cannot save run: %w", err)
	}

	for _, r := range run.Results {
		_, err = tx.Exec(
			"INSERT INTO run_results (run_id, strategy, sim_time, drift, max_jump) VALUES (?, ?, ?, ?, ?)",
			run.ID, r.Strategy, r.SimTime, r.Drift, r.MaxJump,
		)
		if err != nil {
			return "", fmt.Errorf("storage: cannot save result for %s: %w", r.Strategy, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("storage: cannot commit run: %w", err)
	}
	return run.ID, nil
}

// RecentRuns retrieves the most recent runs, newest first, without results.
func (s *Store) RecentRuns(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT id, preset, target_rate, frames, wall_seconds,
		        update_stalls, render_stalls, stalled_millis, created_at
		 FROM runs
		 ORDER BY created_at DESC, rowid DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var frames, updateStalls, renderStalls int64
		var createdAt any
		if err := rows.Scan(&r.ID, &r.Preset, &r.TargetRate, &frames, &r.WallSeconds,
			&updateStalls, &renderStalls, &r.StalledMillis, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		r.Frames = uint64(frames)
		r.UpdateStalls = uint64(updateStalls)
		r.RenderStalls = uint64(renderStalls)
		r.CreatedAt = parseTime(createdAt)
		runs = append(runs, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return runs, nil
}

// RunResults retrieves the per-strategy results of a run, sorted by strategy.
func (s *Store) RunResults(runID string) ([]RunResult, error) {
	rows, err := s.db.Query(
		`SELECT strategy, sim_time, drift, max_jump
		 FROM run_results
		 WHERE run_id = ?
		 ORDER BY strategy`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query results: %w", err)
	}
	defer rows.Close()

	var results []RunResult
	for rows.Next() {
		var r RunResult
		if err := rows.Scan(&r.Strategy, &r.SimTime, &r.Drift, &r.MaxJump); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		results = append(results, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return results, nil
}

// RunCount returns the number of stored runs.
func (s *Store) RunCount() (int, error) {
	var n int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM runs").Scan(&n); err != nil {
		return 0, fmt.Errorf("storage: cannot count runs: %w", err)
	}
	return n, nil
}

// parseTime handles both time.Time and string datetime values.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse(timeLayout, t); err == nil {
			return parsed
		}
		if parsed, err := time.Parse(time.RFC3339, t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
