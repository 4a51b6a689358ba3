package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/spec-kit/report-desk/internal/domain"
)

// SQLiteSlot keeps the collection in a key-value table of a local SQLite file.
type SQLiteSlot struct {
	db  *sql.DB
	key string
}

// NewSQLiteSlot opens (or creates) the database at path and ensures the schema.
func NewSQLiteSlot(ctx context.Context, path, key string) (*SQLiteSlot, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("sqlite slot: mkdir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite slot: open: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite slot: wal: %w", err)
	}
	if _, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS kv_slots (
			key        TEXT PRIMARY KEY,
			value      TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite slot: migrate: %w", err)
	}
	return &SQLiteSlot{db: db, key: key}, nil
}

func (s *SQLiteSlot) Load(ctx context.Context) ([]domain.Ticket, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv_slots WHERE key = ?`, s.key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("sqlite slot: load: %w", err)
	}
	tickets, err := decodeTickets([]byte(value))
	if err != nil {
		return nil, false, fmt.Errorf("sqlite slot: %w", err)
	}
	return tickets, true, nil
}

func (s *SQLiteSlot) Save(ctx context.Context, tickets []domain.Ticket) error {
	data, err := encodeTickets(tickets)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO kv_slots (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value=excluded.value, updated_at=excluded.updated_at`,
		s.key, string(data), time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("sqlite slot: save: %w", err)
	}
	return nil
}

func (s *SQLiteSlot) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLiteSlot) Close() error {
	return s.db.Close()
}
