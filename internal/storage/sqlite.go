package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	applog "github.com/piwi3910/ArcadeLayout/internal/log"
	"github.com/piwi3910/ArcadeLayout/internal/model"

	// Pure-Go SQLite driver (CGO-free)
	_ "modernc.org/sqlite"
)

// DatabaseFileName is the SQLite file kept in the data directory.
const DatabaseFileName = "slots.sqlite"

const (
	tableRooms    = "rooms"
	tableCabinets = "cabinets"
)

// OpenSQLite opens (creating if needed) the slot database at path.
func OpenSQLite(path string) (*Slots, error) {
	l := applog.WithOperation(applog.WithComponent("storage"), "open").With(slog.String("path", path))

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)", filepath.ToSlash(path))
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL;"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}
	if err := ensureSchema(ctx, db); err != nil {
		_ = db.Close()
		l.Error("ensure schema failed", slog.Any("err", err))
		return nil, err
	}

	l.Info("slot database ready")
	return &Slots{
		Rooms:    &sqlStore[model.Layout]{db: db, table: tableRooms},
		Cabinets: &sqlStore[model.CabinetTemplate]{db: db, table: tableCabinets},
		close:    db.Close,
	}, nil
}

func ensureSchema(ctx context.Context, db *sql.DB) error {
	for _, table := range []string{tableRooms, tableCabinets} {
		q := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			id       INTEGER PRIMARY KEY AUTOINCREMENT,
			name     TEXT NOT NULL UNIQUE,
			data     TEXT NOT NULL,
			saved_at TEXT NOT NULL
		);`, table)
		if _, err := db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("failed to create table %s: %w", table, err)
		}
	}
	return nil
}

// sqlStore keeps one namespace in one table, values encoded as JSON.
type sqlStore[T any] struct {
	db    *sql.DB
	table string
}

func (s *sqlStore[T]) Save(ctx context.Context, name string, v T) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s entry: %w", s.table, err)
	}
	q := fmt.Sprintf(`INSERT INTO %s (name, data, saved_at) VALUES (?, ?, ?) ON CONFLICT(name) DO NOTHING`, s.table)
	res, err := s.db.ExecContext(ctx, q, name, string(data), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to save %s entry: %w", s.table, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to save %s entry: %w", s.table, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %q", ErrNameExists, name)
	}
	return nil
}

func (s *sqlStore[T]) Load(ctx context.Context, name string) (T, error) {
	var zero T
	var data string
	q := fmt.Sprintf(`SELECT data FROM %s WHERE name = ?`, s.table)
	err := s.db.QueryRowContext(ctx, q, name).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return zero, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	if err != nil {
		return zero, fmt.Errorf("failed to load %s entry: %w", s.table, err)
	}
	var v T
	if err := json.Unmarshal([]byte(data), &v); err != nil {
		return zero, fmt.Errorf("failed to decode %s entry %q: %w", s.table, name, err)
	}
	return v, nil
}

func (s *sqlStore[T]) Delete(ctx context.Context, name string) error {
	q := fmt.Sprintf(`DELETE FROM %s WHERE name = ?`, s.table)
	res, err := s.db.ExecContext(ctx, q, name)
	if err != nil {
		return fmt.Errorf("failed to delete %s entry: %w", s.table, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return nil
}

func (s *sqlStore[T]) Names(ctx context.Context) ([]string, error) {
	q := fmt.Sprintf(`SELECT name FROM %s ORDER BY id`, s.table)
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", s.table, err)
	}
	defer rows.Close()

	names := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to list %s: %w", s.table, err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}
