// Package storage provides SQLite-based persistence for recorded
// simulation runs. Uses the pure-Go modernc.org/sqlite driver to avoid CGO
// dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/robotsim/internal/observers"
)

// ErrRunNotFound is returned when no run matches an ID or ID prefix.
var ErrRunNotFound = errors.New("storage: run not found")

// Store manages the SQLite database connection for recorded runs.
type Store struct {
	db *sql.DB
}

// Compile-time check that Store can back a frame recorder.
var _ observers.FrameSink = (*Store)(nil)

// Run describes one recorded simulation.
type Run struct {
	ID        string
	Name      string
	Scenario  string // Scenario YAML the run was built from
	DT        float64
	Frames    int
	LastStep  int
	CreatedAt time.Time
}

// Frame is one recorded system state.
type Frame struct {
	RunID string
	Step  int
	Time  float64
	State string
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
			name TEXT NOT NULL,
			scenario TEXT NOT NULL,
			dt REAL NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS frames (
			run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			step INTEGER NOT NULL,
			sim_time REAL NOT NULL,
			state TEXT NOT NULL,
			PRIMARY KEY (run_id, step)
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

// CreateRun registers a new run and returns its generated ID.
func (s *Store) CreateRun(name, scenario string, dt float64) (string, error) {
	id := uuid.NewString()
	_, err := s.db.Exec(
		"INSERT INTO runs (id, name, scenario, dt) VALUES (?, ?, ?, ?)",
		id, name, scenario, dt,
	)
	if err != nil {
		return "", fmt.Errorf("storage: cannot create run: %w", err)
	}
	return id, nil
}

// SaveFrame records the serialized state of one step.
// Implements observers.FrameSink.
func (s *Store) SaveFrame(runID string, step int, simTime float64, state string) error {
	_, err := s.db.Exec(
		"INSERT INTO frames (run_id, step, sim_time, state) VALUES (?, ?, ?, ?)",
		runID, step, simTime, state,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot save frame %d of run %s: %w", step, runID, err)
	}
	return nil
}

// Frame returns one frame, or nil if it does not exist.
func (s *Store) Frame(runID string, step int) (*Frame, error) {
	f := Frame{RunID: runID}
	err := s.db.QueryRow(
		"SELECT step, sim_time, state FROM frames WHERE run_id = ? AND step = ?",
		runID, step,
	).Scan(&f.Step, &f.Time, &f.State)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query frame: %w", err)
	}
	return &f, nil
}

// LastFrame returns the highest-numbered frame of a run, or nil if the run
// has none.
func (s *Store) LastFrame(runID string) (*Frame, error) {
	f := Frame{RunID: runID}
	err := s.db.QueryRow(
		`SELECT step, sim_time, state FROM frames
		 WHERE run_id = ?
		 ORDER BY step DESC
		 LIMIT 1`,
		runID,
	).Scan(&f.Step, &f.Time, &f.State)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query last frame: %w", err)
	}
	return &f, nil
}

// Frames returns the frames of a run with step >= from, ordered by step.
func (s *Store) Frames(runID string, from int) ([]Frame, error) {
	rows, err := s.db.Query(
		`SELECT step, sim_time, state FROM frames
		 WHERE run_id = ? AND step >= ?
		 ORDER BY step`,
		runID, from,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query frames: %w", err)
	}
	defer rows.Close()

	var frames []Frame
	for rows.Next() {
		f := Frame{RunID: runID}
		if err := rows.Scan(&f.Step, &f.Time, &f.State); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		frames = append(frames, f)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return frames, nil
}

// DeleteFramesAfter removes every frame of a run with step > step.
// Used when a run is resumed from an earlier frame.
func (s *Store) DeleteFramesAfter(runID string, step int) error {
	_, err := s.db.Exec("DELETE FROM frames WHERE run_id = ? AND step > ?", runID, step)
	if err != nil {
		return fmt.Errorf("storage: cannot truncate run %s: %w", runID, err)
	}
	return nil
}

const runColumns = `
	SELECT r.id, r.name, r.scenario, r.dt, r.created_at,
	       COUNT(f.step), COALESCE(MAX(f.step), -1)
	FROM runs r
	LEFT JOIN frames f ON f.run_id = r.id`

// Runs returns the most recent runs, newest first.
func (s *Store) Runs(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		runColumns+`
		 GROUP BY r.id
		 ORDER BY r.created_at DESC, r.rowid DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return runs, nil
}

// ResolveRun finds the run whose ID equals or uniquely starts with prefix.
func (s *Store) ResolveRun(prefix string) (*Run, error) {
	if prefix == "" {
		return nil, ErrRunNotFound
	}

	rows, err := s.db.Query(
		runColumns+`
		 WHERE substr(r.id, 1, length(?)) = ?
		 GROUP BY r.id
		 ORDER BY (r.id = ?) DESC
		 LIMIT 2`,
		prefix, prefix, prefix,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query runs: %w", err)
	}
	defer rows.Close()

	var matches []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		matches = append(matches, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	switch {
	case len(matches) == 0:
		return nil, fmt.Errorf("%w: %q", ErrRunNotFound, prefix)
	case matches[0].ID == prefix || len(matches) == 1:
		return &matches[0], nil
	default:
		return nil, fmt.Errorf("storage: run prefix %q is ambiguous", prefix)
	}
}

// DeleteRun removes a run and its frames.
func (s *Store) DeleteRun(runID string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // No-op after commit

	if _, err := tx.Exec("DELETE FROM frames WHERE run_id = ?", runID); err != nil {
		return fmt.Errorf("storage: cannot delete frames: %w", err)
	}
	res, err := tx.Exec("DELETE FROM runs WHERE id = ?", runID)
	if err != nil {
		return fmt.Errorf("storage: cannot delete run: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %q", ErrRunNotFound, runID)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage: cannot commit: %w", err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (Run, error) {
	var r Run
	var createdAt any
	if err := row.Scan(&r.ID, &r.Name, &r.Scenario, &r.DT, &createdAt, &r.Frames, &r.LastStep); err != nil {
		return Run{}, fmt.Errorf("storage: cannot scan row: %w", err)
	}
	r.CreatedAt = parseTimestamp(createdAt)
	return r, nil
}

// parseTimestamp handles both time.Time and string values, depending on
// how the driver returns DATETIME columns.
func parseTimestamp(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
