package kv

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/aretw0/jotter/pkg/core"
)

// DefaultSQLiteFileName is the database created inside a data directory.
const DefaultSQLiteFileName = "store.db"

// SQLiteConfig holds the configuration for a SQLiteStore.
type SQLiteConfig struct {
	Path      string
	MustExist bool
	Logger    *slog.Logger
}

// SQLiteStore keeps every key as one row of a single table. It offers the
// same contract as FileStore with per-key writes instead of whole-file
// rewrites.
type SQLiteStore struct {
	db     *sql.DB
	path   string
	logger *slog.Logger
}

var _ Store = (*SQLiteStore)(nil)

// OpenSQLite opens (and migrates) the database at cfg.Path.
func OpenSQLite(cfg SQLiteConfig) (*SQLiteStore, error) {
	if cfg.Path == "" {
		return nil, core.ErrValidation.WithCause(errors.New("store path is empty"))
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	if cfg.MustExist {
		if _, err := os.Stat(cfg.Path); err != nil {
			return nil, storageErr("open store", err)
		}
	} else if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o700); err != nil {
		return nil, storageErr("create store directory", err)
	}

	db, err := sql.Open("sqlite", cfg.Path)
	if err != nil {
		return nil, storageErr("open database", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	// FULL: a Set must be on disk when it returns.
	for _, pragma := range []string{
		"PRAGMA busy_timeout = 5000",
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = FULL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			logger.Debug("sqlite pragma failed", "pragma", pragma, "error", err)
		}
	}

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS kv (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	)`); err != nil {
		db.Close()
		return nil, storageErr("create schema", err)
	}

	logger.Debug("sqlite store opened", "path", cfg.Path)
	return &SQLiteStore{db: db, path: cfg.Path, logger: logger}, nil
}

func (s *SQLiteStore) Get(ctx context.Context, key string, dst any) (bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		if ctx.Err() != nil {
			return false, ctx.Err()
		}
		return false, storageErr("read "+key, err)
	}
	if err := decode(key, []byte(value), dst); err != nil {
		return false, err
	}
	return true, nil
}

func (s *SQLiteStore) Set(ctx context.Context, key string, value any) error {
	raw, err := encode(key, value)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO kv (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, string(raw))
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		s.logger.Error("sqlite write failed", "key", key, "error", err)
		return storageErr("write "+key, err)
	}
	return nil
}

func (s *SQLiteStore) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, key); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return storageErr("delete "+key, err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) count() int {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM kv`).Scan(&n); err != nil {
		return -1
	}
	return n
}
