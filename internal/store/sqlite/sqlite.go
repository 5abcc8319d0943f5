// Package sqlite provides a local SQLite-backed record store, used for
// offline runs and as the test substrate for the reconciler's store
// contract.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/jaehui/notisync/internal/models"
	"github.com/jaehui/notisync/internal/store"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS records (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	external_id TEXT NOT NULL,
	title       TEXT NOT NULL DEFAULT '',
	start_date  TEXT NOT NULL,
	end_date    TEXT NOT NULL DEFAULT '',
	archived    INTEGER NOT NULL DEFAULT 0,
	created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_records_external_id ON records(external_id);
`

// DB wraps a sql.DB with record-store operations.
type DB struct {
	conn *sql.DB
}

var _ store.RecordStore = (*DB)(nil)

// Open opens (or creates) the SQLite database and applies the schema.
func Open(dsn string) (*DB, error) {
	conn, err := sql.Open("sqlite3", dsn+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("sqlite: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: ping: %w", err)
	}
	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: apply schema: %w", err)
	}
	return &DB{conn: conn}, nil
}

// Close closes the underlying database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// FindByExternalID returns the non-archived records for id, mirroring the
// Notion query behavior of excluding archived pages.
func (db *DB) FindByExternalID(ctx context.Context, id string) ([]models.SyncedRecord, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT id, external_id, title, start_date, end_date, archived
		FROM records
		WHERE external_id = ? AND archived = 0
		ORDER BY id
	`, id)
	if err != nil {
		return nil, fmt.Errorf("sqlite: query records: %w", err)
	}
	defer rows.Close()

	var records []models.SyncedRecord
	for rows.Next() {
		var (
			rowID            int64
			rec              models.SyncedRecord
			startRaw, endRaw string
			archived         int
		)
		if err := rows.Scan(&rowID, &rec.ExternalID, &rec.Title, &startRaw, &endRaw, &archived); err != nil {
			return nil, fmt.Errorf("sqlite: scan record: %w", err)
		}
		rec.InternalID = strconv.FormatInt(rowID, 10)
		rec.Archived = archived != 0
		if t, err := time.Parse(models.ISODate, startRaw); err == nil {
			rec.Dates.Start = t
		}
		if endRaw != "" {
			if t, err := time.Parse(models.ISODate, endRaw); err == nil {
				rec.Dates.End = t
			}
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterate records: %w", err)
	}
	return records, nil
}

// Create inserts a record and returns its rowid as the internal id.
func (db *DB) Create(ctx context.Context, title string, dates models.DateRange, externalID string) (string, error) {
	end := ""
	if dates.HasEnd() {
		end = dates.End.Format(models.ISODate)
	}
	res, err := db.conn.ExecContext(ctx, `
		INSERT INTO records (external_id, title, start_date, end_date)
		VALUES (?, ?, ?, ?)
	`, externalID, title, dates.Start.Format(models.ISODate), end)
	if err != nil {
		return "", fmt.Errorf("sqlite: insert record: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return "", fmt.Errorf("sqlite: last insert id: %w", err)
	}
	return strconv.FormatInt(id, 10), nil
}

// Archive marks the record archived. The row is kept.
func (db *DB) Archive(ctx context.Context, internalID string) error {
	id, err := strconv.ParseInt(internalID, 10, 64)
	if err != nil {
		return fmt.Errorf("sqlite: internal id %q: %w", internalID, err)
	}
	res, err := db.conn.ExecContext(ctx, `UPDATE records SET archived = 1 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: archive record: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("sqlite: no record with id %s", internalID)
	}
	return nil
}
