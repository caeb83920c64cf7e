package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/desertthunder/tunesx/internal/models"
	"github.com/desertthunder/tunesx/internal/shared"
)

const tuneColumns = "id, name, type, abc, tune_key, tunebooks"

// TuneCriteria narrows [TuneRepository.List].
type TuneCriteria struct {
	Type  string // exact tune type, empty for all
	Limit int    // zero for no limit
}

// TuneRepository persists [models.TuneRecord] rows and their aliases.
//
// Records are keyed by archive id; saving the same tune again replaces its fields and aliases.
type TuneRepository struct {
	db *sql.DB
}

// NewTuneRepository creates a new TuneRepository with the given database connection
func NewTuneRepository(db *sql.DB) *TuneRepository {
	return &TuneRepository{db: db}
}

// Upsert inserts or replaces a tune and its aliases, tagging it with the run that saved it.
func (r *TuneRepository) Upsert(record models.TuneRecord, runID string) error {
	if record.ID <= 0 {
		return fmt.Errorf("%w: tune id must be positive", shared.ErrInvalidInput)
	}
	if record.Name == "" {
		return fmt.Errorf("%w: tune name is required", shared.ErrInvalidInput)
	}

	now := time.Now()
	var run sql.NullString
	if runID != "" {
		run = sql.NullString{String: runID, Valid: true}
	}

	return withTx(r.db, func(tx *sql.Tx) error {
		query := `
			INSERT INTO tunes (id, name, type, abc, tune_key, tunebooks, run_id, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				name = excluded.name,
				type = excluded.type,
				abc = excluded.abc,
				tune_key = excluded.tune_key,
				tunebooks = excluded.tunebooks,
				run_id = excluded.run_id,
				updated_at = excluded.updated_at
		`
		_, err := tx.Exec(query, record.ID, record.Name, record.Type, record.ABC, record.Key, record.Tunebooks, run, now, now)
		if err != nil {
			return fmt.Errorf("failed to upsert tune: %w", err)
		}

		if _, err := tx.Exec("DELETE FROM tune_aliases WHERE tune_id = ?", record.ID); err != nil {
			return fmt.Errorf("failed to clear aliases: %w", err)
		}

		for i, alias := range record.Aliases {
			if _, err := tx.Exec("INSERT INTO tune_aliases (tune_id, position, alias) VALUES (?, ?, ?)", record.ID, i, alias); err != nil {
				return fmt.Errorf("failed to insert alias: %w", err)
			}
		}
		return nil
	})
}

// Get retrieves a tune by archive id with its aliases in their saved order
func (r *TuneRepository) Get(id int) (*models.TuneRecord, error) {
	row := r.db.QueryRow("SELECT "+tuneColumns+" FROM tunes WHERE id = ?", id)

	record, err := scanTune(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %d", shared.ErrTuneNotFound, id)
		}
		return nil, err
	}

	aliases, err := r.aliases([]int{id})
	if err != nil {
		return nil, err
	}
	record.Aliases = aliases[id]
	if record.Aliases == nil {
		record.Aliases = []string{}
	}
	return record, nil
}

// List retrieves tunes ordered by popularity (tunebook count, then id)
func (r *TuneRepository) List(criteria TuneCriteria) ([]*models.TuneRecord, error) {
	query := "SELECT " + tuneColumns + " FROM tunes"
	args := []any{}

	if criteria.Type != "" {
		query += " WHERE type = ?"
		args = append(args, criteria.Type)
	}

	query += " ORDER BY tunebooks DESC, id ASC"

	if criteria.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, criteria.Limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query tunes: %w", err)
	}
	defer rows.Close()

	var (
		records []*models.TuneRecord
		ids     []int
	)
	for rows.Next() {
		record, err := scanTune(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
		ids = append(ids, record.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	rows.Close()

	aliases, err := r.aliases(ids)
	if err != nil {
		return nil, err
	}
	for _, record := range records {
		record.Aliases = aliases[record.ID]
		if record.Aliases == nil {
			record.Aliases = []string{}
		}
	}
	return records, nil
}

// Count returns the number of stored tunes
func (r *TuneRepository) Count() (int, error) {
	var n int
	if err := r.db.QueryRow("SELECT COUNT(*) FROM tunes").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count tunes: %w", err)
	}
	return n, nil
}

// aliases loads the aliases of the given tunes keyed by tune id.
func (r *TuneRepository) aliases(ids []int) (map[int][]string, error) {
	out := make(map[int][]string, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	query := fmt.Sprintf(`
		SELECT tune_id, alias FROM tune_aliases
		WHERE tune_id IN (%s)
		ORDER BY tune_id, position
	`, placeholders)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query aliases: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id    int
			alias string
		)
		if err := rows.Scan(&id, &alias); err != nil {
			return nil, fmt.Errorf("failed to scan alias: %w", err)
		}
		out[id] = append(out[id], alias)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return out, nil
}

func scanTune(s scanner) (*models.TuneRecord, error) {
	var record models.TuneRecord
	if err := s.Scan(&record.ID, &record.Name, &record.Type, &record.ABC, &record.Key, &record.Tunebooks); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan tune: %w", err)
	}
	return &record, nil
}
