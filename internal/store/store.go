// Package store persists simulation and sweep runs to sqlite so past
// results can be listed and re-plotted without re-running the engine.
package store

import (
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-migrate/migrate/v4"
	sqlitemigrate "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// DB wraps the sqlite connection used for run persistence.
type DB struct {
	*sql.DB
}

// Open opens (or creates) the database at path and applies any pending
// migrations.
func Open(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database %s: %w", path, err)
	}

	d := &DB{db}
	if err := d.migrateUp(); err != nil {
		db.Close()
		return nil, err
	}
	return d, nil
}

func (db *DB) migrateUp() error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("loading embedded migrations: %w", err)
	}

	driver, err := sqlitemigrate.WithInstance(db.DB, &sqlitemigrate.Config{})
	if err != nil {
		return fmt.Errorf("creating sqlite migrate driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		return fmt.Errorf("creating migrate instance: %w", err)
	}
	// Note: m is not closed here because that would close the underlying
	// DB connection.

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration up failed: %w", err)
	}
	return nil
}

// RunRecord represents a persisted simulation or sweep run.
type RunRecord struct {
	ID          int64           `json:"id"`
	RunID       string          `json:"run_id"`
	Mode        string          `json:"mode"`
	Status      string          `json:"status"`
	Params      json.RawMessage `json:"params"`
	FinalRatio  *float64        `json:"final_ratio,omitempty"`
	Sweeps      *int            `json:"sweeps,omitempty"`
	Equilibrium *bool           `json:"equilibrium,omitempty"`
	Error       string          `json:"error,omitempty"`
	StartedAt   time.Time       `json:"started_at"`
	CompletedAt *time.Time      `json:"completed_at,omitempty"`
}

// SweepPoint is one persisted (threshold, iteration) sample of a sweep run.
type SweepPoint struct {
	RunID       string  `json:"run_id"`
	Threshold   float64 `json:"threshold"`
	Iteration   int     `json:"iteration"`
	Ratio       float64 `json:"ratio"`
	Sweeps      int     `json:"sweeps"`
	Equilibrium bool    `json:"equilibrium"`
}

// InsertRun creates a run record when a run starts.
func (db *DB) InsertRun(rec RunRecord) error {
	query := `
		INSERT INTO runs (run_id, mode, status, params, started_at)
		VALUES (?, ?, ?, ?, ?)
	`
	err := retryOnBusy(func() error {
		_, err := db.Exec(query,
			rec.RunID,
			rec.Mode,
			rec.Status,
			string(rec.Params),
			rec.StartedAt.UTC().Format(time.RFC3339),
		)
		return err
	})
	if err != nil {
		return fmt.Errorf("inserting run %s: %w", rec.RunID, err)
	}
	return nil
}

// CompleteRun updates a run record with its outcome.
func (db *DB) CompleteRun(runID, status string, finalRatio float64, sweeps int, equilibrium bool, completedAt time.Time, errMsg string) error {
	query := `
		UPDATE runs
		SET status = ?, final_ratio = ?, sweeps = ?, equilibrium = ?, completed_at = ?, error = ?
		WHERE run_id = ?
	`
	err := retryOnBusy(func() error {
		_, err := db.Exec(query,
			status,
			finalRatio,
			sweeps,
			equilibrium,
			completedAt.UTC().Format(time.RFC3339),
			nullStr(errMsg),
			runID,
		)
		return err
	})
	if err != nil {
		return fmt.Errorf("completing run %s: %w", runID, err)
	}
	return nil
}

// GetRun returns a single run record, or nil when it does not exist.
func (db *DB) GetRun(runID string) (*RunRecord, error) {
	query := `
		SELECT id, run_id, mode, status, params, final_ratio, sweeps,
		       equilibrium, error, started_at, completed_at
		FROM runs
		WHERE run_id = ?
	`
	var rec RunRecord
	var params, errMsg, startedAt, completedAt sql.NullString
	var finalRatio sql.NullFloat64
	var sweeps, equilibrium sql.NullInt64

	err := db.QueryRow(query, runID).Scan(
		&rec.ID, &rec.RunID, &rec.Mode, &rec.Status,
		&params, &finalRatio, &sweeps, &equilibrium,
		&errMsg, &startedAt, &completedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying run %s: %w", runID, err)
	}

	if params.Valid {
		rec.Params = json.RawMessage(params.String)
	}
	if finalRatio.Valid {
		rec.FinalRatio = &finalRatio.Float64
	}
	if sweeps.Valid {
		n := int(sweeps.Int64)
		rec.Sweeps = &n
	}
	if equilibrium.Valid {
		eq := equilibrium.Int64 != 0
		rec.Equilibrium = &eq
	}
	if errMsg.Valid {
		rec.Error = errMsg.String
	}
	if startedAt.Valid {
		t, err := time.Parse(time.RFC3339, startedAt.String)
		if err != nil {
			return nil, fmt.Errorf("parsing started_at for run %s: %w", runID, err)
		}
		rec.StartedAt = t
	}
	if completedAt.Valid {
		t, err := time.Parse(time.RFC3339, completedAt.String)
		if err != nil {
			return nil, fmt.Errorf("parsing completed_at for run %s: %w", runID, err)
		}
		rec.CompletedAt = &t
	}
	return &rec, nil
}

// ListRuns returns recent runs, most recent first.
func (db *DB) ListRuns(limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	query := `
		SELECT id, run_id, mode, status, final_ratio, sweeps, equilibrium,
		       error, started_at, completed_at
		FROM runs
		ORDER BY started_at DESC
		LIMIT ?
	`
	rows, err := db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer rows.Close()

	var runs []RunRecord
	for rows.Next() {
		var rec RunRecord
		var errMsg, startedAt, completedAt sql.NullString
		var finalRatio sql.NullFloat64
		var sweeps, equilibrium sql.NullInt64

		if err := rows.Scan(&rec.ID, &rec.RunID, &rec.Mode, &rec.Status,
			&finalRatio, &sweeps, &equilibrium, &errMsg, &startedAt, &completedAt); err != nil {
			return nil, fmt.Errorf("scanning run row: %w", err)
		}

		if finalRatio.Valid {
			rec.FinalRatio = &finalRatio.Float64
		}
		if sweeps.Valid {
			n := int(sweeps.Int64)
			rec.Sweeps = &n
		}
		if equilibrium.Valid {
			eq := equilibrium.Int64 != 0
			rec.Equilibrium = &eq
		}
		if errMsg.Valid {
			rec.Error = errMsg.String
		}
		if startedAt.Valid {
			t, err := time.Parse(time.RFC3339, startedAt.String)
			if err != nil {
				return nil, fmt.Errorf("parsing started_at for run row: %w", err)
			}
			rec.StartedAt = t
		}
		if completedAt.Valid {
			t, err := time.Parse(time.RFC3339, completedAt.String)
			if err != nil {
				return nil, fmt.Errorf("parsing completed_at for run row: %w", err)
			}
			rec.CompletedAt = &t
		}
		runs = append(runs, rec)
	}
	return runs, rows.Err()
}

// InsertSweepPoints saves the per-sample results of a sweep run in one
// transaction.
func (db *DB) InsertSweepPoints(points []SweepPoint) error {
	if len(points) == 0 {
		return nil
	}

	return retryOnBusy(func() error {
		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("beginning sweep point insert: %w", err)
		}
		defer tx.Rollback()

		stmt, err := tx.Prepare(`
			INSERT INTO sweep_points (run_id, threshold, iteration, ratio, sweeps, equilibrium)
			VALUES (?, ?, ?, ?, ?, ?)
		`)
		if err != nil {
			return fmt.Errorf("preparing sweep point insert: %w", err)
		}
		defer stmt.Close()

		for _, pt := range points {
			if _, err := stmt.Exec(pt.RunID, pt.Threshold, pt.Iteration, pt.Ratio, pt.Sweeps, pt.Equilibrium); err != nil {
				return fmt.Errorf("inserting sweep point (p=%g, iter=%d): %w", pt.Threshold, pt.Iteration, err)
			}
		}
		return tx.Commit()
	})
}

// ListSweepPoints returns the samples of a sweep run ordered by threshold
// then iteration.
func (db *DB) ListSweepPoints(runID string) ([]SweepPoint, error) {
	rows, err := db.Query(`
		SELECT run_id, threshold, iteration, ratio, sweeps, equilibrium
		FROM sweep_points
		WHERE run_id = ?
		ORDER BY threshold, iteration
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("listing sweep points for %s: %w", runID, err)
	}
	defer rows.Close()

	var points []SweepPoint
	for rows.Next() {
		var pt SweepPoint
		if err := rows.Scan(&pt.RunID, &pt.Threshold, &pt.Iteration, &pt.Ratio, &pt.Sweeps, &pt.Equilibrium); err != nil {
			return nil, fmt.Errorf("scanning sweep point: %w", err)
		}
		points = append(points, pt)
	}
	return points, rows.Err()
}

// retryOnBusy retries a write a few times when sqlite reports the
// database locked by another writer.
func retryOnBusy(fn func() error) error {
	const attempts = 5
	var err error
	for i := 0; i < attempts; i++ {
		err = fn()
		if err == nil || !isBusy(err) {
			return err
		}
		time.Sleep(time.Duration(i+1) * 50 * time.Millisecond)
	}
	return err
}

func isBusy(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "database is locked") || strings.Contains(msg, "SQLITE_BUSY")
}

// nullStr returns nil for empty strings, pointer to string otherwise.
func nullStr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
