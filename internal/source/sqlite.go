package source

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/harrison/loopscope/internal/pattern"
)

const usageSchemaSQL = `
CREATE TABLE IF NOT EXISTS sessions (
	id       INTEGER PRIMARY KEY AUTOINCREMENT,
	app_id   TEXT NOT NULL,
	start_ts INTEGER NOT NULL,
	end_ts   INTEGER NOT NULL,
	batch_id TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_sessions_start ON sessions(start_ts);

CREATE TABLE IF NOT EXISTS import_batches (
	id           TEXT PRIMARY KEY,
	source       TEXT NOT NULL,
	record_count INTEGER NOT NULL,
	imported_at  TEXT NOT NULL
);
`

// SQLiteUsageDB is the usage-log database: the import path writes
// session batches into it and analysis reads windows back out.
type SQLiteUsageDB struct {
	db     *sql.DB
	dbPath string
}

// OpenUsageDB opens (creating if needed) the usage database.
func OpenUsageDB(dbPath string) (*SQLiteUsageDB, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open usage database: %w", err)
	}

	for _, pragma := range []string{
		"PRAGMA busy_timeout=5000",
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("set %s: %w", pragma, err)
		}
	}

	if _, err := db.Exec(usageSchemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("init usage schema: %w", err)
	}

	return &SQLiteUsageDB{db: db, dbPath: dbPath}, nil
}

// Close releases the database handle.
func (u *SQLiteUsageDB) Close() error {
	if u.db != nil {
		return u.db.Close()
	}
	return nil
}

// ReadWindow implements Reader. Results come back ordered by start
// time, which satisfies the engine's input contract.
func (u *SQLiteUsageDB) ReadWindow(ctx context.Context, since, until time.Time) ([]pattern.SessionRecord, error) {
	query := `SELECT app_id, start_ts, end_ts FROM sessions WHERE 1=1`
	args := make([]any, 0, 2)
	if !since.IsZero() {
		query += ` AND start_ts >= ?`
		args = append(args, since.Unix())
	}
	if !until.IsZero() {
		query += ` AND start_ts < ?`
		args = append(args, until.Unix())
	}
	query += ` ORDER BY start_ts, id`

	rows, err := u.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	var records []pattern.SessionRecord
	for rows.Next() {
		var appID string
		var startTS, endTS int64
		if err := rows.Scan(&appID, &startTS, &endTS); err != nil {
			return nil, fmt.Errorf("scan session row: %w", err)
		}
		records = append(records, pattern.SessionRecord{
			AppID: appID,
			Start: time.Unix(startTS, 0),
			End:   time.Unix(endTS, 0),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}
	return records, nil
}

// ImportBatch inserts records as one batch inside a transaction and
// returns the generated batch id. source names where the records came
// from (file path, generator, adapter name).
func (u *SQLiteUsageDB) ImportBatch(ctx context.Context, sourceName string, records []pattern.SessionRecord) (string, error) {
	batchID := uuid.NewString()

	tx, err := u.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin import: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO sessions (app_id, start_ts, end_ts, batch_id) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return "", fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i := range records {
		rec := &records[i]
		if _, err := stmt.ExecContext(ctx, rec.AppID, rec.Start.Unix(), rec.End.Unix(), batchID); err != nil {
			return "", fmt.Errorf("insert session %d: %w", i, err)
		}
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO import_batches (id, source, record_count, imported_at) VALUES (?, ?, ?, ?)`,
		batchID, sourceName, len(records), time.Now().UTC().Format(time.RFC3339)); err != nil {
		return "", fmt.Errorf("record import batch: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit import: %w", err)
	}
	return batchID, nil
}

// SessionCount returns the number of stored sessions.
func (u *SQLiteUsageDB) SessionCount(ctx context.Context) (int, error) {
	var n int
	if err := u.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sessions`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count sessions: %w", err)
	}
	return n, nil
}
