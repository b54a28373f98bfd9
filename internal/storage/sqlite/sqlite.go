// Package sqlite provides a SQLite-backed implementation of the storage.Store interface.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	msqlite "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/mmynk/arisan/internal/storage"
)

// Ensure SQLiteStore implements storage.Store
var _ storage.Store = (*SQLiteStore)(nil)

// SQLiteStore implements storage.Store using SQLite.
type SQLiteStore struct {
	db     *sql.DB
	broker storage.Broker
}

// querier is satisfied by both *sql.DB and *sql.Tx so document helpers can run
// inside or outside a transaction.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// New creates a new SQLiteStore with the given database path.
// It creates the parent directories and runs migrations automatically.
func New(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", dbPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// One connection serializes writers; SQLite allows only one anyway.
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(0)

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// RunTransaction runs fn in a single database transaction and publishes the
// collections it wrote to once the commit succeeds.
func (s *SQLiteStore) RunTransaction(ctx context.Context, fn func(tx storage.Tx) error) error {
	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return &storage.OpError{Op: storage.OpTransaction, Err: mapErr(err)}
	}
	defer sqlTx.Rollback()

	t := &txStore{tx: sqlTx, touched: make(map[string]bool)}
	if err := fn(t); err != nil {
		return err
	}
	if err := sqlTx.Commit(); err != nil {
		return &storage.OpError{Op: storage.OpTransaction, Err: mapErr(err)}
	}

	for collection := range t.touched {
		s.publish(collection)
	}
	return nil
}

// Subscribe registers fn for collection and immediately delivers the current contents.
func (s *SQLiteStore) Subscribe(ctx context.Context, collection string, fn func(storage.Snapshot)) (func(), error) {
	snap, err := s.snapshot(ctx, collection)
	if err != nil {
		return nil, err
	}
	unsubscribe := s.broker.Add(collection, fn)
	fn(snap)
	return unsubscribe, nil
}

func (s *SQLiteStore) snapshot(ctx context.Context, collection string) (storage.Snapshot, error) {
	var (
		docs any
		err  error
	)
	switch collection {
	case storage.CollectionMembers:
		docs, err = s.ListMembers(ctx)
	case storage.CollectionGroups:
		docs, err = s.ListGroups(ctx)
	case storage.CollectionPayments:
		docs, err = listPayments(ctx, s.db, "")
	case storage.CollectionExpenses:
		docs, err = s.ListExpenses(ctx)
	case storage.CollectionSettings:
		docs, err = s.ListSettings(ctx)
	case storage.CollectionAnnouncements:
		docs, err = s.ListAnnouncements(ctx)
	default:
		return storage.Snapshot{}, fmt.Errorf("%w: %s", storage.ErrUnknownCollection, collection)
	}
	if err != nil {
		return storage.Snapshot{}, err
	}
	return storage.Snapshot{Collection: collection, Documents: docs}, nil
}

// publish pushes a fresh snapshot to the collection's subscribers, if any.
func (s *SQLiteStore) publish(collection string) {
	if !s.broker.HasSubscribers(collection) {
		return
	}
	snap, err := s.snapshot(context.Background(), collection)
	if err != nil {
		slog.Warn("Failed to load snapshot for subscribers", "collection", collection, "error", err)
		return
	}
	s.broker.Publish(snap)
}

// mapErr translates driver errors that mean "someone else got there first"
// into storage.ErrConflict.
func mapErr(err error) error {
	var sqliteErr *msqlite.Error
	if !errors.As(err, &sqliteErr) {
		return err
	}
	switch sqliteErr.Code() & 0xff {
	case sqlite3.SQLITE_BUSY, sqlite3.SQLITE_LOCKED:
		return fmt.Errorf("%w: %v", storage.ErrConflict, err)
	}
	switch sqliteErr.Code() {
	case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
		return fmt.Errorf("%w: %v", storage.ErrConflict, err)
	}
	return err
}
