// Package storage provides the data persistence layer for the finance collections.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/Veraticus/finance-flex/internal/common"
	"github.com/Veraticus/finance-flex/internal/service"
	"github.com/mattn/go-sqlite3"
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

// SQLiteStorage implements service.Store as a key-value table in SQLite.
// Each collection is one row holding the collection's JSON document.
type SQLiteStorage struct {
	db     *sql.DB
	dbPath string
	retry  service.RetryOptions
}

// Option configures a SQLiteStorage.
type Option func(*SQLiteStorage)

// WithRetry sets how often Update retries when the database is busy.
func WithRetry(opts service.RetryOptions) Option {
	return func(s *SQLiteStorage) {
		s.retry = opts
	}
}

// NewSQLiteStorage creates a new SQLite storage instance.
func NewSQLiteStorage(dbPath string, opts ...Option) (*SQLiteStorage, error) {
	if err := validateString(dbPath, "dbPath"); err != nil {
		return nil, err
	}

	if dbPath != MemoryPath {
		dir := filepath.Dir(dbPath)
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, common.StorageError("create database directory", err)
		}
	}

	// _txlock=immediate takes the write lock at BEGIN, so two processes running
	// Update never interleave their read and write phases.
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000&_txlock=immediate")
	if err != nil {
		return nil, common.StorageError("open database", err)
	}

	db.SetMaxOpenConns(1) // SQLite doesn't benefit from multiple connections
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, common.StorageError("ping database", err)
	}

	s := &SQLiteStorage{
		db:     db,
		dbPath: dbPath,
		retry: service.RetryOptions{
			MaxAttempts:  3,
			InitialDelay: 50 * time.Millisecond,
			MaxDelay:     time.Second,
			Multiplier:   2,
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Path returns the database file path.
func (s *SQLiteStorage) Path() string {
	return s.dbPath
}

// InMemory reports whether the database lives only in memory.
func (s *SQLiteStorage) InMemory() bool {
	return s.dbPath == MemoryPath
}

// Close closes the database connection.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// NewCheckpointManager creates a new checkpoint manager for this storage instance.
func (s *SQLiteStorage) NewCheckpointManager() (*CheckpointManager, error) {
	if s.InMemory() {
		return nil, fmt.Errorf("%w: checkpoints need a file-backed database", common.ErrValidation)
	}
	return NewCheckpointManager(s.db, s.dbPath)
}

// View runs fn against a consistent read-only snapshot.
func (s *SQLiteStorage) View(ctx context.Context, fn func(r service.Reader) error) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{ReadOnly: true})
	if err != nil {
		return common.StorageError("begin read", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	return fn(&sqliteTx{tx: tx})
}

// Update runs fn inside a single write transaction. If fn returns an error the
// transaction is rolled back and nothing fn wrote becomes visible.
// A busy database is retried; fn may therefore run more than once and must
// not keep state between calls.
func (s *SQLiteStorage) Update(ctx context.Context, fn func(w service.Writer) error) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	return common.WithRetry(ctx, func() error {
		return s.update(ctx, fn)
	}, s.retry)
}

func (s *SQLiteStorage) update(ctx context.Context, fn func(w service.Writer) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return classify("begin update", err)
	}

	if fnErr := fn(&sqliteTx{tx: tx}); fnErr != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			slog.Error("failed to roll back update", "error", rbErr)
		}
		return fnErr
	}

	if err := tx.Commit(); err != nil {
		return classify("commit update", err)
	}
	return nil
}

// Clear removes every collection.
func (s *SQLiteStorage) Clear(ctx context.Context) error {
	return s.Update(ctx, func(w service.Writer) error {
		for _, c := range service.AllCollections {
			if err := w.Remove(ctx, c); err != nil {
				return err
			}
		}
		return nil
	})
}

// sqliteTx implements service.Writer on top of a sql.Tx.
type sqliteTx struct {
	tx *sql.Tx
}

func (t *sqliteTx) Read(ctx context.Context, c service.Collection) ([]byte, error) {
	if err := validateCollection(c); err != nil {
		return nil, err
	}

	var value string
	err := t.tx.QueryRowContext(ctx, `SELECT value FROM collections WHERE key = ?`, string(c)).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, classify("read "+string(c), err)
	}

	slog.Debug("read collection", "collection", c, "bytes", len(value))
	return []byte(value), nil
}

func (t *sqliteTx) Write(ctx context.Context, c service.Collection, data []byte) error {
	if err := validateCollection(c); err != nil {
		return err
	}
	if len(data) == 0 {
		return fmt.Errorf("%w: collection %s", ErrEmptyDocument, c)
	}

	_, err := t.tx.ExecContext(ctx, `
		INSERT INTO collections (key, value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		string(c), string(data), time.Now().UTC())
	if err != nil {
		return classify("write "+string(c), err)
	}

	slog.Debug("wrote collection", "collection", c, "bytes", len(data))
	return nil
}

func (t *sqliteTx) Remove(ctx context.Context, c service.Collection) error {
	if err := validateCollection(c); err != nil {
		return err
	}

	if _, err := t.tx.ExecContext(ctx, `DELETE FROM collections WHERE key = ?`, string(c)); err != nil {
		return classify("remove "+string(c), err)
	}
	return nil
}

// classify wraps a driver error as a storage error, marking busy and locked
// databases as retryable.
func classify(op string, err error) error {
	wrapped := common.StorageError(op, err)

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) &&
		(sqliteErr.Code == sqlite3.ErrBusy || sqliteErr.Code == sqlite3.ErrLocked) {
		return &common.RetryableError{Err: wrapped, Retryable: true}
	}
	return wrapped
}

var _ service.Store = (*SQLiteStorage)(nil)
