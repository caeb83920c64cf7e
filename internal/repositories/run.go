package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/tunesx/internal/models"
	"github.com/desertthunder/tunesx/internal/shared"
)

const runColumns = "id, tune_type, target, listed, saved, skipped, output, status, started_at, finished_at"

// RunRepository tracks harvest runs.
//
// A run is created as running when a harvest starts and finished with its counters and final status.
type RunRepository struct {
	db *sql.DB
}

// NewRunRepository creates a new RunRepository with the given database connection
func NewRunRepository(db *sql.DB) *RunRepository {
	return &RunRepository{db: db}
}

// Create inserts a run, generating its id and start time when unset
func (r *RunRepository) Create(run *models.Run) error {
	if run.ID == "" {
		run.ID = shared.GenerateID()
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now()
	}
	if run.Status == "" {
		run.Status = models.RunRunning
	}

	if err := run.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO runs (id, tune_type, target, listed, saved, skipped, output, status, started_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.Exec(query, run.ID, run.TuneType, run.Target, run.Listed, run.Saved, run.Skipped, run.Output, string(run.Status), run.StartedAt)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}
	return nil
}

// Finish stores the final counters and status of a run and stamps its finish time
func (r *RunRepository) Finish(run *models.Run) error {
	if err := run.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	query := `
		UPDATE runs
		SET listed = ?, saved = ?, skipped = ?, output = ?, status = ?, finished_at = ?
		WHERE id = ?
	`
	result, err := r.db.Exec(query, run.Listed, run.Saved, run.Skipped, run.Output, string(run.Status), now, run.ID)
	if err != nil {
		return fmt.Errorf("failed to update run: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrRunNotFound, run.ID)
	}

	run.FinishedAt = &now
	return nil
}

// Get retrieves a run by id
func (r *RunRepository) Get(id string) (*models.Run, error) {
	run, err := scanRun(r.db.QueryRow("SELECT "+runColumns+" FROM runs WHERE id = ?", id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", shared.ErrRunNotFound, id)
		}
		return nil, err
	}
	return run, nil
}

// List retrieves the most recent runs first; limit <= 0 returns all of them
func (r *RunRepository) List(limit int) ([]*models.Run, error) {
	query := "SELECT " + runColumns + " FROM runs ORDER BY started_at DESC"
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []*models.Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return runs, nil
}

func scanRun(s scanner) (*models.Run, error) {
	var (
		run        models.Run
		status     string
		finishedAt sql.NullTime
	)

	err := s.Scan(&run.ID, &run.TuneType, &run.Target, &run.Listed, &run.Saved, &run.Skipped, &run.Output, &status, &run.StartedAt, &finishedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan run: %w", err)
	}

	run.Status = models.RunStatus(status)
	if finishedAt.Valid {
		run.FinishedAt = &finishedAt.Time
	}
	return &run, nil
}
