package database

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/tiMaxal/pairs3d/types"
)

// InitDatabase opens (creating if needed) the run-history database.
func InitDatabase(dbPath string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	createTableSQL := `
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		folder TEXT NOT NULL,
		recursive INTEGER NOT NULL,
		time_diff_ms INTEGER NOT NULL,
		hash_diff INTEGER NOT NULL,
		images_seen INTEGER NOT NULL,
		pairs_moved INTEGER NOT NULL,
		singles_moved INTEGER NOT NULL,
		elapsed_ms INTEGER NOT NULL,
		finished_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_runs_folder ON runs(folder);`

	if _, err := db.Exec(createTableSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("cannot initialize run history schema: %w", err)
	}
	return db, nil
}

// RecordRun appends one completed run to the history ledger.
func RecordRun(db *sql.DB, run types.RunSummary) error {
	stmt, err := db.Prepare(`
		INSERT INTO runs (
			folder, recursive, time_diff_ms, hash_diff, images_seen,
			pairs_moved, singles_moved, elapsed_ms, finished_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("cannot prepare run insert: %w", err)
	}
	defer stmt.Close()

	_, err = stmt.Exec(
		run.Folder,
		run.Recursive,
		run.TimeDiff.Milliseconds(),
		run.HashDiff,
		run.ImagesSeen,
		run.PairsMoved,
		run.SinglesMoved,
		run.Elapsed.Milliseconds(),
		run.FinishedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("cannot record run for %s: %w", run.Folder, err)
	}
	return nil
}

// RecentRuns returns up to limit runs, newest first.
func RecentRuns(db *sql.DB, limit int) ([]types.RunSummary, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := db.Query(`
		SELECT id, folder, recursive, time_diff_ms, hash_diff, images_seen,
		       pairs_moved, singles_moved, elapsed_ms, finished_at
		FROM runs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("cannot query run history: %w", err)
	}
	defer rows.Close()

	var runs []types.RunSummary
	for rows.Next() {
		var run types.RunSummary
		var timeDiffMs, elapsedMs int64
		var finishedAt string

		err := rows.Scan(
			&run.ID, &run.Folder, &run.Recursive, &timeDiffMs, &run.HashDiff,
			&run.ImagesSeen, &run.PairsMoved, &run.SinglesMoved, &elapsedMs, &finishedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("cannot scan run row: %w", err)
		}

		run.TimeDiff = time.Duration(timeDiffMs) * time.Millisecond
		run.Elapsed = time.Duration(elapsedMs) * time.Millisecond
		if ts, err := time.Parse(time.RFC3339, finishedAt); err == nil {
			run.FinishedAt = ts
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}
