package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/pressly/goose/v3"

	"github.com/eduline/studyshop/internal/client/migrations"
	"github.com/eduline/studyshop/internal/dbx"
)

// SQLiteStorage keeps the kv table in a local sqlite database. Several
// client processes may share the same file; Watch picks up their writes
// through the sqlite data_version pragma, which moves whenever a
// different connection commits.
type SQLiteStorage struct {
	db   *sql.DB
	poll time.Duration

	mu          sync.Mutex
	snap        map[string]string
	dataVersion int64
}

// RunMigrations applies the embedded goose migrations to db.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		log.Fatal("failed to set goose dialect:", err)
	}

	return goose.UpContext(ctx, db, ".")
}

// OpenSQLite opens (creating if needed) the storage database at dsn and
// applies migrations. pollInterval controls how often Watch checks for
// external writes.
func OpenSQLite(ctx context.Context, dsn string, pollInterval time.Duration) (*SQLiteStorage, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	// One connection: writes serialize instead of hitting SQLITE_BUSY, and
	// data_version moves exactly when another handle commits.
	db.SetMaxOpenConns(1)

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	s := &SQLiteStorage{db: db, poll: pollInterval, snap: map[string]string{}}

	if snap, err := s.List(ctx); err == nil {
		s.mu.Lock()
		s.snap = snap
		s.mu.Unlock()
	}
	if v, err := s.readDataVersion(ctx); err == nil {
		s.mu.Lock()
		s.dataVersion = v
		s.mu.Unlock()
	}

	return s, nil
}

func (s *SQLiteStorage) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get kv[%s]: %w", key, err)
	}
	return value, nil
}

func (s *SQLiteStorage) Set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO kv (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	if err != nil {
		return fmt.Errorf("failed to set kv[%s]: %w", key, err)
	}
	s.remember(map[string]string{key: value}, nil)
	return nil
}

func (s *SQLiteStorage) SetMany(ctx context.Context, values map[string]string) error {
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		for key, value := range values {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO kv (key, value) VALUES (?, ?)
				ON CONFLICT(key) DO UPDATE SET value = excluded.value
			`, key, value); err != nil {
				return fmt.Errorf("failed to set kv[%s]: %w", key, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.remember(values, nil)
	return nil
}

func (s *SQLiteStorage) Delete(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, key)
	if err != nil {
		return fmt.Errorf("failed to delete kv[%s]: %w", key, err)
	}
	s.remember(nil, []string{key})
	return nil
}

func (s *SQLiteStorage) DeleteMany(ctx context.Context, keys ...string) error {
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		for _, key := range keys {
			if _, err := tx.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, key); err != nil {
				return fmt.Errorf("failed to delete kv[%s]: %w", key, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.remember(nil, keys)
	return nil
}

func (s *SQLiteStorage) List(ctx context.Context) (map[string]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key, value FROM kv`)
	if err != nil {
		return nil, fmt.Errorf("failed to list kv: %w", err)
	}
	defer rows.Close()

	result := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("failed to scan kv row: %w", err)
		}
		result[key] = value
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate kv rows: %w", err)
	}
	return result, nil
}

// remember folds local writes into the snapshot so the watcher does not
// report them back as external changes.
func (s *SQLiteStorage) remember(set map[string]string, deleted []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, value := range set {
		s.snap[key] = value
	}
	for _, key := range deleted {
		delete(s.snap, key)
	}
}

func (s *SQLiteStorage) readDataVersion(ctx context.Context) (int64, error) {
	var v int64
	if err := s.db.QueryRowContext(ctx, `PRAGMA data_version`).Scan(&v); err != nil {
		return 0, err
	}
	return v, nil
}

// Watch polls data_version and, when it moves, diffs the table against the
// last snapshot, delivering one Event per changed key. Runs until ctx is
// done.
func (s *SQLiteStorage) Watch(ctx context.Context, fn WatchFunc) error {
	if s.poll <= 0 {
		return fmt.Errorf("watch disabled: non-positive poll interval")
	}

	go func() {
		ticker := time.NewTicker(s.poll)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				s.pollOnce(ctx, fn)
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

func (s *SQLiteStorage) pollOnce(ctx context.Context, fn WatchFunc) {
	v, err := s.readDataVersion(ctx)
	if err != nil {
		return
	}

	s.mu.Lock()
	unchanged := v == s.dataVersion
	s.dataVersion = v
	s.mu.Unlock()
	if unchanged {
		return
	}

	current, err := s.List(ctx)
	if err != nil {
		return
	}

	s.mu.Lock()
	var events []Event
	for key, value := range current {
		if old, ok := s.snap[key]; !ok || old != value {
			events = append(events, Event{Key: key, Old: s.snap[key], New: value})
		}
	}
	for key, old := range s.snap {
		if _, ok := current[key]; !ok {
			events = append(events, Event{Key: key, Old: old})
		}
	}
	s.snap = current
	s.mu.Unlock()

	for _, ev := range events {
		fn(ev)
	}
}

func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}
