//go:build sqlite

package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	_ "modernc.org/sqlite"
)

type SQLiteStore struct {
	path string

	mu sync.RWMutex
	db *sql.DB
}

func NewSQLiteStore(path string) *SQLiteStore {
	return &SQLiteStore{path: path}
}

func (s *SQLiteStore) Init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.path == "" {
		return errors.New("sqlite path is required")
	}
	if s.db != nil {
		return nil
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return err
	}
	if err := createTables(ctx, db); err != nil {
		_ = db.Close()
		return err
	}
	s.db = db
	return nil
}

func createTables(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS batch_summaries (
			id TEXT PRIMARY KEY,
			payload BLOB NOT NULL
		);
		CREATE TABLE IF NOT EXISTS comparisons (
			id TEXT PRIMARY KEY,
			created_at_utc TEXT NOT NULL,
			payload BLOB NOT NULL
		);
	`)
	return err
}

func (s *SQLiteStore) getDB() (*sql.DB, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.db == nil {
		return nil, errors.New("sqlite store is not initialized")
	}
	return s.db, nil
}

func (s *SQLiteStore) SaveBatchSummary(ctx context.Context, summary BatchSummary) error {
	db, err := s.getDB()
	if err != nil {
		return err
	}
	payload, err := encodeBatchSummary(summary)
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx, `
		INSERT INTO batch_summaries (id, payload)
		VALUES (?, ?)
		ON CONFLICT(id) DO UPDATE SET payload = excluded.payload
	`, summary.ID, payload)
	return err
}

func (s *SQLiteStore) GetBatchSummary(ctx context.Context, id string) (BatchSummary, bool, error) {
	db, err := s.getDB()
	if err != nil {
		return BatchSummary{}, false, err
	}
	var payload []byte
	err = db.QueryRowContext(ctx, `SELECT payload FROM batch_summaries WHERE id = ?`, id).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return BatchSummary{}, false, nil
		}
		return BatchSummary{}, false, err
	}
	summary, err := decodeBatchSummary(payload)
	if err != nil {
		return BatchSummary{}, false, fmt.Errorf("decode batch summary %s: %w", id, err)
	}
	return summary, true, nil
}

func (s *SQLiteStore) SaveComparison(ctx context.Context, record ComparisonRecord) error {
	db, err := s.getDB()
	if err != nil {
		return err
	}
	payload, err := encodeComparison(record)
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx, `
		INSERT INTO comparisons (id, created_at_utc, payload)
		VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			created_at_utc = excluded.created_at_utc,
			payload = excluded.payload
	`, record.ID, record.CreatedAtUTC, payload)
	return err
}

func (s *SQLiteStore) GetComparison(ctx context.Context, id string) (ComparisonRecord, bool, error) {
	db, err := s.getDB()
	if err != nil {
		return ComparisonRecord{}, false, err
	}
	var payload []byte
	err = db.QueryRowContext(ctx, `SELECT payload FROM comparisons WHERE id = ?`, id).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ComparisonRecord{}, false, nil
		}
		return ComparisonRecord{}, false, err
	}
	record, err := decodeComparison(payload)
	if err != nil {
		return ComparisonRecord{}, false, fmt.Errorf("decode comparison %s: %w", id, err)
	}
	return record, true, nil
}

func (s *SQLiteStore) ListComparisons(ctx context.Context) ([]ComparisonRecord, error) {
	db, err := s.getDB()
	if err != nil {
		return nil, err
	}
	rows, err := db.QueryContext(ctx, `SELECT payload FROM comparisons ORDER BY created_at_utc`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ComparisonRecord
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, err
		}
		record, err := decodeComparison(payload)
		if err != nil {
			return nil, err
		}
		out = append(out, record)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func newSQLiteStore(path string) (Store, error) {
	return NewSQLiteStore(path), nil
}
