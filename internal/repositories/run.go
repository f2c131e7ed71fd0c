package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/markx/internal/models"
	"github.com/desertthunder/markx/internal/shared"
)

var _ models.Repository[*models.Run] = (*RunRepository)(nil)

// RunRepository implements models.Repository[*models.Run] for pipeline run history.
//
// Runs are stored in the runs table and their per-category exports in run_exports.
type RunRepository struct {
	db *sql.DB
}

// NewRunRepository creates a new RunRepository with the given database connection
func NewRunRepository(db *sql.DB) *RunRepository {
	return &RunRepository{db: db}
}

const runColumns = `
	id, sequence, cutoff, status, error_message,
	started_at, completed_at, created_at, updated_at
`

// Create inserts a new run and its exports with generated ID and sequence
func (r *RunRepository) Create(run *models.Run) error {
	sequence, err := NextSequence(r.db, "runs")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	run.SetID(shared.GenerateID())
	run.SetSequence(sequence)

	if err := run.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO runs (
			id, sequence, cutoff, status, error_message,
			started_at, completed_at, created_at, updated_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		run.ID(),
		run.Sequence(),
		run.Cutoff(),
		string(run.Status()),
		nullString(run.ErrorMessage()),
		run.StartedAt(),
		run.CompletedAt(),
		run.CreatedAt(),
		run.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	if err := insertExports(tx, run); err != nil {
		return err
	}

	return tx.Commit()
}

// Get retrieves a run and its exports by ID, excluding soft-deleted runs
func (r *RunRepository) Get(id string) (*models.Run, error) {
	query := `SELECT ` + runColumns + ` FROM runs WHERE id = ? AND deleted_at IS NULL`

	run, err := scanRun(r.db.QueryRow(query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", shared.ErrRunNotFound, id)
	}
	if err != nil {
		return nil, err
	}

	if err := r.loadExports(run); err != nil {
		return nil, err
	}
	return run, nil
}

// Update stores the run's status, error message, completion time and exports
func (r *RunRepository) Update(run *models.Run) error {
	if err := run.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	run.SetUpdatedAt(now)

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.Exec(`
		UPDATE runs
		SET status = ?, error_message = ?, completed_at = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`,
		string(run.Status()),
		nullString(run.ErrorMessage()),
		run.CompletedAt(),
		now,
		run.ID(),
	)
	if err != nil {
		return fmt.Errorf("failed to update run: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrRunNotFound, run.ID())
	}

	if _, err := tx.Exec("DELETE FROM run_exports WHERE run_id = ?", run.ID()); err != nil {
		return fmt.Errorf("failed to clear run exports: %w", err)
	}
	if err := insertExports(tx, run); err != nil {
		return err
	}

	return tx.Commit()
}

// Delete soft-deletes a run by ID
func (r *RunRepository) Delete(id string) error {
	result, err := r.db.Exec(`
		UPDATE runs
		SET deleted_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to delete run: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrRunNotFound, id)
	}

	return nil
}

// List retrieves runs newest first, excluding soft-deleted runs.
//
// Supported criteria: "status" (string) and "limit" (int).
func (r *RunRepository) List(criteria map[string]any) ([]*models.Run, error) {
	query := `SELECT ` + runColumns + ` FROM runs WHERE deleted_at IS NULL`
	args := []any{}

	if status, ok := criteria["status"].(string); ok && status != "" {
		query += " AND status = ?"
		args = append(args, status)
	}

	query += " ORDER BY sequence DESC"

	if limit, ok := criteria["limit"].(int); ok && limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}

	var runs []*models.Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	rows.Close()

	for _, run := range runs {
		if err := r.loadExports(run); err != nil {
			return nil, err
		}
	}
	return runs, nil
}

func (r *RunRepository) loadExports(run *models.Run) error {
	rows, err := r.db.Query(`
		SELECT category, row_count, covers_found, covers_missing, file, error_message
		FROM run_exports
		WHERE run_id = ?
		ORDER BY rowid
	`, run.ID())
	if err != nil {
		return fmt.Errorf("failed to query run exports: %w", err)
	}
	defer rows.Close()

	var exports []models.RunExport
	for rows.Next() {
		var (
			ex       models.RunExport
			file     sql.NullString
			errorMsg sql.NullString
		)
		if err := rows.Scan(&ex.Category, &ex.Rows, &ex.CoversFound, &ex.CoversMissing, &file, &errorMsg); err != nil {
			return fmt.Errorf("failed to scan run export: %w", err)
		}
		ex.File = file.String
		ex.Error = errorMsg.String
		exports = append(exports, ex)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("row iteration error: %w", err)
	}

	run.SetExports(exports)
	return nil
}

func insertExports(tx *sql.Tx, run *models.Run) error {
	for _, ex := range run.Exports() {
		_, err := tx.Exec(`
			INSERT INTO run_exports (run_id, category, row_count, covers_found, covers_missing, file, error_message)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, run.ID(), ex.Category, ex.Rows, ex.CoversFound, ex.CoversMissing, nullString(ex.File), nullString(ex.Error))
		if err != nil {
			return fmt.Errorf("failed to insert export for %s: %w", ex.Category, err)
		}
	}
	return nil
}

// scanner is satisfied by [sql.Row] and [sql.Rows].
type scanner interface {
	Scan(dest ...any) error
}

// scanRun scans a single row into a [models.Run]. sql.ErrNoRows is returned unwrapped.
func scanRun(row scanner) (*models.Run, error) {
	var (
		id           string
		sequence     int
		cutoff       time.Time
		status       string
		errorMessage sql.NullString
		startedAt    time.Time
		completedAt  sql.NullTime
		createdAt    time.Time
		updatedAt    time.Time
	)

	err := row.Scan(
		&id, &sequence, &cutoff, &status, &errorMessage,
		&startedAt, &completedAt, &createdAt, &updatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan run: %w", err)
	}

	var completed *time.Time
	if completedAt.Valid {
		completed = &completedAt.Time
	}

	return models.RestoreRun(
		id, sequence, cutoff, models.RunStatus(status), errorMessage.String,
		startedAt, completed, createdAt, updatedAt,
	), nil
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
