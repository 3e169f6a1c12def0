// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package history records successful processing runs in a SQLite database
// so earlier results can be listed, reopened, and exported.
package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/doc-digest/pkg/types"
)

const (
	dbFile = "history.db"

	// createdLayout is fixed-width so created timestamps sort as text.
	createdLayout = "2006-01-02T15:04:05.000000000Z"
)

// ErrNotFound is returned by Get for an unknown run id.
var ErrNotFound = errors.New("history: run not found")

// Store manages the run history database.
type Store struct {
	db  *sql.DB
	dir string
}

// Open opens or creates dir/history.db and its schema.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating history directory: %w", err)
	}

	db, err := sql.Open("sqlite3", filepath.Join(dir, dbFile)+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db, dir: dir}
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

// Dir returns the directory holding the database.
func (s *Store) Dir() string {
	return s.dir
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			created TEXT NOT NULL,
			model TEXT,
			markdown TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS run_files (
			run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			name TEXT NOT NULL,
			PRIMARY KEY (run_id, position)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Record stores a successful run. A missing RunID is assigned.
func (s *Store) Record(ctx context.Context, res types.GenerationResult) error {
	if res.RunID == "" {
		res.RunID = uuid.NewString()
	}
	if res.Created.IsZero() {
		res.Created = time.Now()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, created, model, markdown) VALUES (?, ?, ?, ?)`,
		res.RunID, res.Created.UTC().Format(createdLayout), res.Model, res.Markdown)
	if err != nil {
		return fmt.Errorf("inserting run %s: %w", res.RunID, err)
	}

	for i, name := range res.Files {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO run_files (run_id, position, name) VALUES (?, ?, ?)`,
			res.RunID, i, name)
		if err != nil {
			return fmt.Errorf("inserting file %s for run %s: %w", name, res.RunID, err)
		}
	}

	return tx.Commit()
}

// List returns up to limit runs, newest first. A limit <= 0 returns all runs.
func (s *Store) List(ctx context.Context, limit int) ([]types.GenerationResult, error) {
	query := `SELECT id, created, model, markdown FROM runs ORDER BY created DESC, id`
	var args []any
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []types.GenerationResult
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating runs: %w", err)
	}

	for i := range runs {
		files, err := s.files(ctx, runs[i].RunID)
		if err != nil {
			return nil, err
		}
		runs[i].Files = files
	}
	return runs, nil
}

// Get returns the run with the given id.
func (s *Store) Get(ctx context.Context, id string) (types.GenerationResult, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, created, model, markdown FROM runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return types.GenerationResult{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return types.GenerationResult{}, err
	}

	run.Files, err = s.files(ctx, id)
	if err != nil {
		return types.GenerationResult{}, err
	}
	return run, nil
}

func (s *Store) files(ctx context.Context, runID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name FROM run_files WHERE run_id = ? ORDER BY position`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying files for run %s: %w", runID, err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scanning file row: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner) (types.GenerationResult, error) {
	var (
		run     types.GenerationResult
		created string
		model   sql.NullString
	)
	if err := sc.Scan(&run.RunID, &created, &model, &run.Markdown); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return run, err
		}
		return run, fmt.Errorf("scanning run: %w", err)
	}
	run.Model = model.String

	t, err := time.Parse(createdLayout, created)
	if err != nil {
		return run, fmt.Errorf("parsing created time %q: %w", created, err)
	}
	run.Created = t
	return run, nil
}
