// Package sqlite implements the repository.Store capability set on an embedded
// SQLite database. Foreign keys are enforced but never cascade; callers delete
// children before parents.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
	"github.com/sirupsen/logrus"

	"github.com/nitesh-dev/gymmora-sub000/internal/repository"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx so the same queries run
// inside and outside a transaction.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type queries struct {
	db DBTX
}

// Store is the SQLite backed repository.Store and repository.ExerciseCatalog.
type Store struct {
	*queries
	conn *sql.DB
	path string
}

var (
	_ repository.Store           = (*Store)(nil)
	_ repository.ExerciseCatalog = (*Store)(nil)
	_ repository.Tx              = (*queries)(nil)
)

// Open opens (creating if needed) the database file at path and brings the
// schema up to date.
func Open(ctx context.Context, path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	dsn := "file:" + path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_txlock=immediate"
	conn, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := conn.PingContext(ctx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("ping sqlite database: %w", err)
	}

	if err := migrate(ctx, conn); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("migrate sqlite database: %w", err)
	}

	logrus.WithField("path", path).Debug("sqlite store opened")
	return &Store{
		queries: &queries{db: conn},
		conn:    conn,
		path:    path,
	}, nil
}

// DB returns the underlying connection pool.
func (s *Store) DB() *sql.DB {
	return s.conn
}

func (s *Store) Close(_ context.Context) error {
	return s.conn.Close()
}

// RunInTx runs fn inside one SQLite transaction. Everything fn wrote is
// committed together or rolled back together.
func (s *Store) RunInTx(ctx context.Context, fn func(ctx context.Context, tx repository.Tx) error) error {
	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := fn(ctx, &queries{db: tx}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// inClause returns "?, ?, ?" and the matching args for an IN (...) list.
func inClause[T any](values []T) (string, []any) {
	placeholders := make([]string, len(values))
	args := make([]any, len(values))
	for i, v := range values {
		placeholders[i] = "?"
		args[i] = v
	}
	return strings.Join(placeholders, ", "), args
}

func checkAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}
