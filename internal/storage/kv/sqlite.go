package kv

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	// Регистрация драйвера sqlite3 для использования с database/sql.
	_ "github.com/mattn/go-sqlite3"
)

// Проверка на этапе компиляции: *SQLite реализует Store.
var _ Store = (*SQLite)(nil)

// SQLite — durable-реализация Store поверх единственной таблицы kv.
type SQLite struct {
	db *sql.DB
}

// NewSQLite открывает (или создаёт) файл базы по указанному пути
// и инициализирует таблицу kv.
func NewSQLite(path string) (*SQLite, error) {
	const op = "kv.NewSQLite"

	if path == "" {
		return nil, fmt.Errorf("%s: database path cannot be empty", op)
	}
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_synchronous=NORMAL")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = db.PingContext(context.Background()); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if _, err = db.Exec(`CREATE TABLE IF NOT EXISTS kv (
	    key   TEXT PRIMARY KEY,
	    value TEXT NOT NULL
	)`); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &SQLite{db: db}, nil
}

// Get декодирует значение ключа в dest.
func (s *SQLite) Get(ctx context.Context, key string, dest any) (bool, error) {
	const op = "kv.SQLite.Get"
	select {
	case <-ctx.Done():
		return false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var raw string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return true, nil
}

// Put сохраняет JSON-представление value под ключом key.
func (s *SQLite) Put(ctx context.Context, key string, value any) error {
	const op = "kv.SQLite.Put"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	query := `INSERT INTO kv (key, value) VALUES (?, ?)
			  ON CONFLICT(key) DO UPDATE SET value = excluded.value`
	if _, err := s.db.ExecContext(ctx, query, key, string(raw)); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Delete удаляет ключ.
func (s *SQLite) Delete(ctx context.Context, key string) error {
	const op = "kv.SQLite.Delete"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	if _, err := s.db.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, key); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Close закрывает соединение с базой.
func (s *SQLite) Close() error {
	return s.db.Close()
}
