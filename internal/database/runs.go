package database

import (
	"database/sql"
	"fmt"

	"github.com/goccy/go-json"
)

const runColumns = `id, kind, preferences, top_n, result_count, source_rows, skipped_rows, created_at`

// InsertRun stores a run and its ranked items. Returns the new run ID.
func (db *DB) InsertRun(run NewRun) (int64, error) {
	var prefsJSON *string
	if run.Preferences != nil {
		data, err := json.Marshal(run.Preferences)
		if err != nil {
			return 0, err
		}
		s := string(data)
		prefsJSON = &s
	}

	tx, err := db.conn.Begin()
	if err != nil {
		return 0, fmt.Errorf("begin insert run: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.Exec(
		`INSERT INTO runs (kind, preferences, top_n, result_count, source_rows, skipped_rows)
		VALUES (?, ?, ?, ?, ?, ?)`,
		run.Kind, prefsJSON, run.TopN, len(run.Items), run.SourceRows, run.SkippedRows,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting run: %w", err)
	}
	runID, err := result.LastInsertId()
	if err != nil {
		return 0, err
	}

	for i, item := range run.Items {
		if _, err := tx.Exec(
			`INSERT INTO run_items (run_id, position, title, detail, score) VALUES (?, ?, ?, ?, ?)`,
			runID, i+1, item.Title, item.Detail, item.Score,
		); err != nil {
			return 0, fmt.Errorf("inserting run item %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit run: %w", err)
	}
	return runID, nil
}

// GetRun returns a single run by ID, or nil if it does not exist.
func (db *DB) GetRun(runID int64) (*Run, error) {
	row := db.conn.QueryRow(`SELECT `+runColumns+` FROM runs WHERE id = ?`, runID)
	r, err := scanRun(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return r, nil
}

// GetRecentRuns returns the newest runs first.
func (db *DB) GetRecentRuns(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := db.conn.Query(
		`SELECT `+runColumns+` FROM runs ORDER BY created_at DESC, id DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *r)
	}
	return runs, rows.Err()
}

// GetRunItems returns the items of a run in rank order.
func (db *DB) GetRunItems(runID int64) ([]RunItem, error) {
	rows, err := db.conn.Query(
		`SELECT run_id, position, title, detail, score FROM run_items WHERE run_id = ? ORDER BY position`,
		runID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []RunItem
	for rows.Next() {
		var it RunItem
		var detail *string
		if err := rows.Scan(&it.RunID, &it.Position, &it.Title, &detail, &it.Score); err != nil {
			return nil, err
		}
		if detail != nil {
			it.Detail = *detail
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// DeleteRun removes a run and its items.
func (db *DB) DeleteRun(runID int64) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM run_items WHERE run_id = ?", runID); err != nil {
		return err
	}
	if _, err := tx.Exec("DELETE FROM runs WHERE id = ?", runID); err != nil {
		return err
	}
	return tx.Commit()
}

// GetStats returns aggregate statistics about stored runs.
func (db *DB) GetStats() (*Stats, error) {
	s := &Stats{}
	err := db.conn.QueryRow(
		`SELECT COUNT(*),
			COALESCE(SUM(CASE WHEN kind = 'books' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN kind = 'movies' THEN 1 ELSE 0 END), 0),
			MAX(created_at)
		FROM runs`,
	).Scan(&s.TotalRuns, &s.BookRuns, &s.MovieRuns, &s.LastRunAt)
	if err != nil {
		return nil, fmt.Errorf("counting runs: %w", err)
	}
	if err := db.conn.QueryRow("SELECT COUNT(*) FROM run_items").Scan(&s.TotalItems); err != nil {
		return nil, fmt.Errorf("counting run items: %w", err)
	}
	return s, nil
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (*Run, error) {
	var r Run
	var prefsJSON *string
	if err := row.Scan(&r.ID, &r.Kind, &prefsJSON, &r.TopN, &r.ResultCount,
		&r.SourceRows, &r.SkippedRows, &r.CreatedAt); err != nil {
		return nil, err
	}
	if prefsJSON != nil {
		if err := json.Unmarshal([]byte(*prefsJSON), &r.Preferences); err != nil {
			r.Preferences = nil
		}
	}
	return &r, nil
}
