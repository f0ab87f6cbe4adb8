package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/zapponejosh/perpetual-calendar/internal/calendar"
)

// =============================================================================
// Helper Functions
// =============================================================================

// parseTimestamp parses a timestamp from SQLite TEXT format.
// Tries multiple formats and returns nil if parsing fails.
func parseTimestamp(ns sql.NullString) *time.Time {
	if !ns.Valid || ns.String == "" {
		return nil
	}

	// Try RFC3339 format first (with timezone)
	t, err := time.Parse(time.RFC3339, ns.String)
	if err == nil {
		return &t
	}

	// Try SQLite datetime format (no timezone)
	t, err = time.Parse("2006-01-02 15:04:05", ns.String)
	if err == nil {
		return &t
	}

	return nil
}

// =============================================================================
// Simulation Run Queries
// =============================================================================

// SaveRun stores a run and its matches in one transaction and sets run.ID.
// Returns ErrDuplicate if the query is already cached.
func (db *DB) SaveRun(ctx context.Context, run *Run) error {
	return db.WithTx(ctx, func(tx *Tx) error {
		res, err := tx.ExecContext(ctx, `
			INSERT INTO simulation_runs
				(query_day, query_month, query_year, through_year, days_simulated, match_count)
			VALUES (?, ?, ?, ?, ?, ?)
		`,
			run.Query.Day, run.Query.Month, run.Query.Year, boolToInt(run.Query.Through),
			run.Stats.Days, run.Stats.Matches,
		)
		if err != nil {
			if isUniqueViolation(err) {
				return ErrDuplicate
			}
			return fmt.Errorf("insert simulation run: %w", err)
		}

		id, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("get run id: %w", err)
		}

		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO occurrences
				(run_id, sequence,
				 julian_day, julian_month, julian_year,
				 gregorian_day, gregorian_month, gregorian_year,
				 weekday)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		`)
		if err != nil {
			return fmt.Errorf("prepare occurrence insert: %w", err)
		}
		defer stmt.Close()

		for _, m := range run.Matches {
			if _, err := stmt.ExecContext(ctx,
				id, m.Sequence,
				m.Julian.Day, m.Julian.Month, m.Julian.Year,
				m.Gregorian.Day, m.Gregorian.Month, m.Gregorian.Year,
				m.Weekday,
			); err != nil {
				return fmt.Errorf("insert occurrence %d: %w", m.Sequence, err)
			}
		}

		run.ID = id
		return nil
	})
}

// GetRun retrieves the cached run for q with all of its matches.
// Returns ErrNotFound if q has not been simulated yet.
func (db *DB) GetRun(ctx context.Context, q calendar.Query) (*Run, error) {
	var run Run
	var through int
	var createdAt sql.NullString

	err := db.QueryRowContext(ctx, `
		SELECT id, query_day, query_month, query_year, through_year,
		       days_simulated, match_count, created_at
		FROM simulation_runs
		WHERE query_day = ? AND query_month = ? AND query_year = ? AND through_year = ?
	`, q.Day, q.Month, q.Year, boolToInt(q.Through)).Scan(
		&run.ID,
		&run.Query.Day,
		&run.Query.Month,
		&run.Query.Year,
		&through,
		&run.Stats.Days,
		&run.Stats.Matches,
		&createdAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("query simulation run: %w", err)
	}
	run.Query.Through = through != 0
	run.CreatedAt = parseTimestamp(createdAt)

	rows, err := db.QueryContext(ctx, `
		SELECT sequence,
		       julian_day, julian_month, julian_year,
		       gregorian_day, gregorian_month, gregorian_year,
		       weekday
		FROM occurrences
		WHERE run_id = ?
		ORDER BY sequence
	`, run.ID)
	if err != nil {
		return nil, fmt.Errorf("query occurrences: %w", err)
	}
	defer rows.Close()

	run.Matches = make([]calendar.Match, 0, run.Stats.Matches)
	for rows.Next() {
		var m calendar.Match
		if err := rows.Scan(
			&m.Sequence,
			&m.Julian.Day, &m.Julian.Month, &m.Julian.Year,
			&m.Gregorian.Day, &m.Gregorian.Month, &m.Gregorian.Year,
			&m.Weekday,
		); err != nil {
			return nil, fmt.Errorf("scan occurrence: %w", err)
		}
		run.Matches = append(run.Matches, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate occurrences: %w", err)
	}

	return &run, nil
}

// RecentRuns lists the most recently cached runs, newest first.
func (db *DB) RecentRuns(ctx context.Context, limit int) ([]RunSummary, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := db.QueryContext(ctx, `
		SELECT id, query_day, query_month, query_year, through_year,
		       days_simulated, match_count, created_at
		FROM simulation_runs
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query recent runs: %w", err)
	}
	defer rows.Close()

	var runs []RunSummary
	for rows.Next() {
		var r RunSummary
		var through int
		var createdAt sql.NullString
		if err := rows.Scan(
			&r.ID,
			&r.Query.Day,
			&r.Query.Month,
			&r.Query.Year,
			&through,
			&r.Stats.Days,
			&r.Stats.Matches,
			&createdAt,
		); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		r.Query.Through = through != 0
		r.CreatedAt = parseTimestamp(createdAt)
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}

	return runs, nil
}

// DeleteRun removes a cached run and its occurrences.
// Returns ErrNotFound if no run has that ID.
func (db *DB) DeleteRun(ctx context.Context, id int64) error {
	return db.WithTx(ctx, func(tx *Tx) error {
		// The cascade only fires when foreign_keys is on.
		if _, err := tx.ExecContext(ctx, "DELETE FROM occurrences WHERE run_id = ?", id); err != nil {
			return fmt.Errorf("delete occurrences: %w", err)
		}

		res, err := tx.ExecContext(ctx, "DELETE FROM simulation_runs WHERE id = ?", id)
		if err != nil {
			return fmt.Errorf("delete simulation run: %w", err)
		}

		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("rows affected: %w", err)
		}
		if n == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// CountRuns returns how many runs and occurrences are cached.
func (db *DB) CountRuns(ctx context.Context) (runs, occurrences int, err error) {
	err = db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM simulation_runs),
			(SELECT COUNT(*) FROM occurrences)
	`).Scan(&runs, &occurrences)
	if err != nil {
		return 0, 0, fmt.Errorf("count runs: %w", err)
	}
	return runs, occurrences, nil
}
