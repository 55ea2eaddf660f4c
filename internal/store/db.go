package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/lib/pq"
)

// Driver names accepted by Open: "pgx" (jackc/pgx stdlib) or "postgres" (lib/pq).
const (
	DriverPgx = "pgx"
	DriverPq  = "postgres"
)

func Open(driver, dsn string) (*sql.DB, error) {
	if driver != DriverPgx && driver != DriverPq {
		return nil, fmt.Errorf("unknown database driver %q", driver)
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxIdleConns(5)
	return db, nil
}

// DBStore is the Postgres engine behind the same repository interfaces
// as FileStore.
type DBStore struct {
	db *sql.DB
}

func New(db *sql.DB) *DBStore {
	return &DBStore{db: db}
}

func (s *DBStore) Close() error { return s.db.Close() }

const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == uniqueViolation
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == uniqueViolation
	}
	return false
}
