package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/condmat-tools/conhist/internal/histogram"
)

// Run is one recorded simulation run.
type Run struct {
	ID          int64
	Model       string
	Observables []string
	Trials      int
	Seed        uint64
	Output      string
	Excluded    int
	Duration    time.Duration
	CreatedAt   time.Time
}

// Bin is one histogram row of a recorded run.
type Bin struct {
	Index   int
	Coords  string
	Density float64
}

// RunStore records simulation runs in a SQLite database.
type RunStore struct {
	db *sql.DB
}

// Open opens (or creates) the run database at path.
func Open(ctx context.Context, path string) (*RunStore, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1) // SQLite works best with single writer

	if err := InitSchema(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return &RunStore{db: db}, nil
}

// RecordRun inserts the run and every bin of its binned histogram in
// one transaction and returns the run's id.
func (s *RunStore) RecordRun(ctx context.Context, run Run, h *histogram.Histogram) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO runs (model, observables, trials, seed, output, excluded, duration_ms, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		run.Model, strings.Join(run.Observables, ","), run.Trials, int64(run.Seed),
		run.Output, run.Excluded, run.Duration.Milliseconds(),
		time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get run id: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO bins (run_id, idx, coords, density) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare bin insert: %w", err)
	}
	defer stmt.Close()

	it, err := h.Iter()
	if err != nil {
		return 0, fmt.Errorf("failed to iterate histogram: %w", err)
	}
	idx := 0
	for it.Next() {
		coords := it.Coords()
		parts := make([]string, len(coords))
		for i, c := range coords {
			parts[i] = fmt.Sprintf("%.6e", c)
		}
		if _, err := stmt.ExecContext(ctx, id, idx, strings.Join(parts, " "), it.Density()); err != nil {
			return 0, fmt.Errorf("failed to insert bin %d: %w", idx, err)
		}
		idx++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit run: %w", err)
	}
	return id, nil
}

// ListRuns returns all recorded runs, newest first.
func (s *RunStore) ListRuns(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, model, observables, trials, seed, output, excluded, duration_ms, created_at
		FROM runs ORDER BY id DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var obs, created string
		var seed, durMS int64
		if err := rows.Scan(&r.ID, &r.Model, &obs, &r.Trials, &seed, &r.Output, &r.Excluded, &durMS, &created); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		r.Observables = strings.Split(obs, ",")
		r.Seed = uint64(seed)
		r.Duration = time.Duration(durMS) * time.Millisecond
		if t, err := time.Parse(time.RFC3339, created); err == nil {
			r.CreatedAt = t
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Bins returns the histogram rows of a recorded run in row-major order.
func (s *RunStore) Bins(ctx context.Context, runID int64) ([]Bin, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT idx, coords, density FROM bins WHERE run_id = ? ORDER BY idx`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query bins: %w", err)
	}
	defer rows.Close()

	var bins []Bin
	for rows.Next() {
		var b Bin
		if err := rows.Scan(&b.Index, &b.Coords, &b.Density); err != nil {
			return nil, fmt.Errorf("failed to scan bin: %w", err)
		}
		bins = append(bins, b)
	}
	return bins, rows.Err()
}

// Close closes the database.
func (s *RunStore) Close() error {
	return s.db.Close()
}
