package store

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/gaurav-prasanna/sheetpipe/core/sheet"
)

//go:embed schema.sql
var schemaSQL string

// SQLiteStore persists values in a single-table key-value SQLite database.
type SQLiteStore struct {
	sqlDB *sql.DB
}

// Open opens (creating if needed) the database at path and applies the
// schema.
func Open(path string) (*SQLiteStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	dsn := filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := sqlDB.Exec(schemaSQL); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &SQLiteStore{sqlDB: sqlDB}, nil
}

// Close releases the underlying connection.
func (s *SQLiteStore) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// Save writes cs under the current-sheet key.
func (s *SQLiteStore) Save(ctx context.Context, cs sheet.CharacterSheet) error {
	data, err := encodeSheet(cs)
	if err != nil {
		return err
	}
	return s.put(ctx, KeyCurrentSheet, data)
}

// Load returns the stored sheet, or nil when none is stored.
func (s *SQLiteStore) Load(ctx context.Context) (*sheet.CharacterSheet, error) {
	data, ok, err := s.get(ctx, KeyCurrentSheet)
	if err != nil || !ok {
		return nil, err
	}
	return decodeSheet(data)
}

// Clear removes both the sheet and the raw text.
func (s *SQLiteStore) Clear(ctx context.Context) error {
	if _, err := s.sqlDB.ExecContext(ctx, `DELETE FROM kv WHERE key IN (?, ?)`, KeyCurrentSheet, KeyRawText); err != nil {
		return writeErr("clear", err)
	}
	return nil
}

// SaveRawText stores the most recent extracted text.
func (s *SQLiteStore) SaveRawText(ctx context.Context, text string) error {
	data, err := encodeText(text)
	if err != nil {
		return err
	}
	return s.put(ctx, KeyRawText, data)
}

// LoadRawText returns the stored text and whether one was present.
func (s *SQLiteStore) LoadRawText(ctx context.Context) (string, bool, error) {
	data, ok, err := s.get(ctx, KeyRawText)
	if err != nil || !ok {
		return "", false, err
	}
	text, err := decodeText(data)
	if err != nil {
		return "", false, err
	}
	return text, true, nil
}

func (s *SQLiteStore) put(ctx context.Context, key string, value []byte) error {
	_, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now().UTC().UnixMilli(),
	)
	if err != nil {
		return writeErr("put "+key, err)
	}
	return nil
}

func (s *SQLiteStore) get(ctx context.Context, key string) ([]byte, bool, error) {
	var value []byte
	err := s.sqlDB.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, writeErr("get "+key, err)
	}
	return value, true, nil
}
