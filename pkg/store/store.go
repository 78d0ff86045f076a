// Package store persists run summaries in a sqlite database.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/ccollicutt/mipscan/pkg/analyzer"
	"github.com/ccollicutt/mipscan/pkg/progress"
)

const schema = `
PRAGMA journal_mode = WAL;
PRAGMA synchronous = NORMAL;
PRAGMA busy_timeout = 5000;

CREATE TABLE IF NOT EXISTS runs (
    source        TEXT PRIMARY KEY,
    batch_id      TEXT NOT NULL DEFAULT '',
    dialect       TEXT NOT NULL DEFAULT '',
    solver        TEXT NOT NULL DEFAULT '',
    status        TEXT,
    status_code   INTEGER,
    sol_code      INTEGER,
    best_solution REAL,
    best_bound    REAL,
    gap           REAL,
    time          REAL,
    nodes         INTEGER,
    error         TEXT NOT NULL DEFAULT '',
    summary       TEXT NOT NULL DEFAULT '',
    parsed_at     TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS runs_batch ON runs(batch_id);

CREATE TABLE IF NOT EXISTS progress_rows (
    source    TEXT NOT NULL,
    row_index INTEGER NOT NULL,
    columns   TEXT NOT NULL,
    cells     TEXT NOT NULL,
    PRIMARY KEY (source, row_index)
);
`

// ErrNotFound is returned when no run is stored for a source.
var ErrNotFound = errors.New("run not found")

// Store is a sqlite-backed run store. It is safe for concurrent use.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens (creating if needed) the database at path and applies the schema.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create store dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return &Store{db: db, now: time.Now}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Run is one stored row of the runs table.
type Run struct {
	Source       string
	BatchID      string
	Dialect      string
	Solver       string
	Status       *string
	StatusCode   *int
	SolCode      *int
	BestSolution *float64
	BestBound    *float64
	Gap          *float64
	Time         *float64
	Nodes        *int
	Error        string
	ParsedAt     time.Time

	// Summary is the full run summary, nil for failed logs.
	Summary *analyzer.RunSummary
}

// SaveBatch stores every result of a batch in one transaction. A source
// that was stored before is replaced.
func (s *Store) SaveBatch(ctx context.Context, batchID string, results []*analyzer.RunResult) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, r := range results {
		if err := s.save(ctx, tx, batchID, r); err != nil {
			return fmt.Errorf("storing %s: %w", r.Source, err)
		}
	}

	return tx.Commit()
}

// Save stores a single result.
func (s *Store) Save(ctx context.Context, batchID string, r *analyzer.RunResult) error {
	return s.SaveBatch(ctx, batchID, []*analyzer.RunResult{r})
}

func (s *Store) save(ctx context.Context, tx *sql.Tx, batchID string, r *analyzer.RunResult) error {
	if _, err := tx.ExecContext(ctx, "DELETE FROM progress_rows WHERE source = ?", r.Source); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM runs WHERE source = ?", r.Source); err != nil {
		return err
	}

	var (
		solver, errText, summary string
		raw                      any
		statusCode, solCode      any
		bestSol, bestBound       any
		gap, elapsed, nodes      any
	)
	if r.Err != nil {
		errText = r.Err.Error()
	}
	if sum := r.Summary; sum != nil {
		solver = sum.Solver
		raw = nullString(sum.Status)
		if sum.StatusCode != nil {
			statusCode = int(*sum.StatusCode)
		}
		if sum.SolCode != nil {
			solCode = int(*sum.SolCode)
		}
		bestSol = nullFloat(sum.BestSolution)
		bestBound = nullFloat(sum.BestBound)
		gap = nullFloat(sum.Gap)
		elapsed = nullFloat(sum.Time)
		if sum.Nodes != nil {
			nodes = *sum.Nodes
		}
		b, err := json.Marshal(sum)
		if err != nil {
			return fmt.Errorf("encoding summary: %w", err)
		}
		summary = string(b)
	}

	_, err := tx.ExecContext(ctx,
		`INSERT INTO runs (source, batch_id, dialect, solver, status, status_code, sol_code,
		 best_solution, best_bound, gap, time, nodes, error, summary, parsed_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.Source, batchID, r.Dialect, solver, raw, statusCode, solCode,
		bestSol, bestBound, gap, elapsed, nodes, errText, summary,
		s.now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return err
	}

	if r.Summary == nil || r.Summary.Progress.Empty() {
		return nil
	}

	columns, err := json.Marshal(r.Summary.Progress.Columns)
	if err != nil {
		return err
	}
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO progress_rows (source, row_index, columns, cells) VALUES (?, ?, ?, ?)`,
	)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, row := range r.Summary.Progress.Rows {
		cells, err := json.Marshal(row)
		if err != nil {
			return err
		}
		if _, err := stmt.ExecContext(ctx, r.Source, i, string(columns), string(cells)); err != nil {
			return err
		}
	}
	return nil
}

const runColumns = `source, batch_id, dialect, solver, status, status_code, sol_code,
	best_solution, best_bound, gap, time, nodes, error, summary, parsed_at`

// Get returns the stored run for source.
func (s *Store) Get(ctx context.Context, source string) (*Run, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+runColumns+" FROM runs WHERE source = ?", source)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, source)
	}
	return run, err
}

// Runs returns the runs of one batch in source order.
func (s *Store) Runs(ctx context.Context, batchID string) ([]*Run, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+runColumns+" FROM runs WHERE batch_id = ? ORDER BY source", batchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// Progress rebuilds the stored progress table of source. A run without
// progress rows yields an empty table.
func (s *Store) Progress(ctx context.Context, source string) (*progress.Table, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT columns, cells FROM progress_rows WHERE source = ? ORDER BY row_index", source)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	table := progress.NewTable()
	for rows.Next() {
		var columns, cells string
		if err := rows.Scan(&columns, &cells); err != nil {
			return nil, err
		}
		if len(table.Columns) == 0 {
			if err := json.Unmarshal([]byte(columns), &table.Columns); err != nil {
				return nil, fmt.Errorf("decoding columns: %w", err)
			}
		}
		var row progress.Row
		if err := json.Unmarshal([]byte(cells), &row); err != nil {
			return nil, fmt.Errorf("decoding row: %w", err)
		}
		table.Rows = append(table.Rows, row)
	}
	return table, rows.Err()
}

// Count returns the number of stored runs.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM runs").Scan(&n)
	return n, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner) (*Run, error) {
	var (
		run                 Run
		raw                 sql.NullString
		statusCode, solCode sql.NullInt64
		bestSol, bestBound  sql.NullFloat64
		gap, elapsed        sql.NullFloat64
		nodes               sql.NullInt64
		summary, parsedAt   string
	)
	err := sc.Scan(&run.Source, &run.BatchID, &run.Dialect, &run.Solver, &raw,
		&statusCode, &solCode, &bestSol, &bestBound, &gap, &elapsed, &nodes,
		&run.Error, &summary, &parsedAt)
	if err != nil {
		return nil, err
	}

	if raw.Valid {
		run.Status = &raw.String
	}
	run.StatusCode = intPtr(statusCode)
	run.SolCode = intPtr(solCode)
	run.BestSolution = floatPtr(bestSol)
	run.BestBound = floatPtr(bestBound)
	run.Gap = floatPtr(gap)
	run.Time = floatPtr(elapsed)
	run.Nodes = intPtr(nodes)
	run.ParsedAt, _ = time.Parse(time.RFC3339, parsedAt)

	if summary != "" {
		run.Summary = &analyzer.RunSummary{}
		if err := json.Unmarshal([]byte(summary), run.Summary); err != nil {
			return nil, fmt.Errorf("decoding summary of %s: %w", run.Source, err)
		}
	}
	return &run, nil
}

func nullString(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func nullFloat(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}

func intPtr(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	n := int(v.Int64)
	return &n
}

func floatPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	return &v.Float64
}
