package storage

import (
	"context"
	"database/sql"

	_ "github.com/mattn/go-sqlite3"

	"github.com/hyperjump/vectord/internal/errs"
	"github.com/hyperjump/vectord/internal/models"
)

// SQLiteStore implements Store using SQLite. Keys are BLOBs, which SQLite
// compares with memcmp, so ORDER BY key is numeric order.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens or creates a SQLite database at dbPath and initializes the schema.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, errs.Storage("failed to open database", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, errs.Storage("failed to enable WAL", err)
	}
	if _, err := db.Exec("PRAGMA synchronous=FULL"); err != nil {
		_ = db.Close()
		return nil, errs.Storage("failed to set synchronous mode", err)
	}

	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, errs.Storage("failed to initialize schema", err)
	}

	return &SQLiteStore{db: db}, nil
}

func initSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS entries (
		key BLOB PRIMARY KEY,
		value BLOB NOT NULL
	) WITHOUT ROWID;
	`
	_, err := db.Exec(schema)
	return err
}

// Replace deletes every entry and inserts records in one transaction.
func (s *SQLiteStore) Replace(ctx context.Context, records []models.Record) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errs.Storage("failed to begin transaction", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM entries`); err != nil {
		return errs.Storage("failed to clear entries", err)
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO entries (key, value) VALUES (?, ?)`)
	if err != nil {
		return errs.Storage("failed to prepare insert", err)
	}
	defer stmt.Close()

	for i, r := range records {
		value, err := encodeRecord(i, r)
		if err != nil {
			return err
		}
		if _, err := stmt.ExecContext(ctx, encodeKey(i), value); err != nil {
			return errs.Storage("failed to insert entry", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return errs.Storage("failed to commit entries", err)
	}
	if _, err := s.db.ExecContext(ctx, "PRAGMA wal_checkpoint(FULL)"); err != nil {
		return errs.Storage("failed to flush database", err)
	}
	return nil
}

// Load returns every entry ordered by key.
func (s *SQLiteStore) Load(ctx context.Context) ([]models.Record, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key, value FROM entries ORDER BY key`)
	if err != nil {
		return nil, errs.Storage("failed to query entries", err)
	}
	defer rows.Close()

	records := make([]models.Record, 0)
	for rows.Next() {
		var key, value []byte
		if err := rows.Scan(&key, &value); err != nil {
			return nil, errs.Storage("failed to scan entry", err)
		}
		r, err := decodeRecord(key, value)
		if err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, errs.Storage("failed to iterate entries", err)
	}
	return records, nil
}

// Count returns the number of rows in entries.
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM entries`).Scan(&count); err != nil {
		return 0, errs.Storage("failed to count entries", err)
	}
	return count, nil
}

// Backend implements Store.
func (s *SQLiteStore) Backend() string { return BackendSQLite }

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
