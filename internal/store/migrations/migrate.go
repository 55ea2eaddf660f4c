// Package migrations owns the Postgres schema of the database store.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"sort"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

//go:embed *.sql
var schemaFS embed.FS

// BookedSlotIndex rejects a second booked row for one doctor, date and
// time. The database store maps its violation to a taken slot.
const BookedSlotIndex = "appointments_booked_slot"

var ErrMissingIndex = errors.New("booked slot index missing")

const (
	ledgerDDL = `CREATE TABLE IF NOT EXISTS schema_migrations (
	name       TEXT PRIMARY KEY,
	applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`
	ledgerRead  = `SELECT name FROM schema_migrations`
	ledgerWrite = `INSERT INTO schema_migrations (name) VALUES ($1) ON CONFLICT (name) DO NOTHING`
	indexCheck  = `SELECT EXISTS (SELECT 1 FROM pg_indexes WHERE tablename = 'appointments' AND indexname = $1)`
)

type Migrator struct {
	db  *sql.DB
	src fs.FS
}

func New(db *sql.DB) *Migrator {
	return &Migrator{db: db, src: schemaFS}
}

// Pending lists schema files not yet in the ledger, in name order.
func (m *Migrator) Pending(ctx context.Context) ([]string, error) {
	if m.db == nil {
		return nil, errors.New("db is required")
	}
	if _, err := m.db.ExecContext(ctx, ledgerDDL); err != nil {
		return nil, fmt.Errorf("create migration ledger: %w", err)
	}

	done, err := m.ledger(ctx)
	if err != nil {
		return nil, err
	}
	names, err := fs.Glob(m.src, "*.sql")
	if err != nil {
		return nil, fmt.Errorf("list schema files: %w", err)
	}
	sort.Strings(names)

	var out []string
	for _, n := range names {
		if !done[n] {
			out = append(out, n)
		}
	}
	return out, nil
}

func (m *Migrator) ledger(ctx context.Context) (map[string]bool, error) {
	rows, err := m.db.QueryContext(ctx, ledgerRead)
	if err != nil {
		return nil, fmt.Errorf("read migration ledger: %w", err)
	}
	defer rows.Close()

	done := map[string]bool{}
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, err
		}
		done[n] = true
	}
	return done, rows.Err()
}

// Up applies the pending files and then checks that double booking is
// still guarded at the database level.
func (m *Migrator) Up(ctx context.Context) ([]string, error) {
	pending, err := m.Pending(ctx)
	if err != nil {
		return nil, err
	}
	var applied []string
	for _, n := range pending {
		if err := m.apply(ctx, n); err != nil {
			return applied, err
		}
		applied = append(applied, n)
	}
	return applied, m.Verify(ctx)
}

func (m *Migrator) apply(ctx context.Context, name string) error {
	body, err := fs.ReadFile(m.src, name)
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin %s: %w", name, err)
	}

	_, err = tx.ExecContext(ctx, string(body))
	switch {
	case err == nil:
		if _, err := tx.ExecContext(ctx, ledgerWrite, name); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("record %s: %w", name, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit %s: %w", name, err)
		}
		return nil
	case alreadyExists(err):
		// tables made by hand before the ledger; Verify still checks the index
		_ = tx.Rollback()
		if _, err := m.db.ExecContext(ctx, ledgerWrite, name); err != nil {
			return fmt.Errorf("record %s: %w", name, err)
		}
		return nil
	default:
		_ = tx.Rollback()
		return fmt.Errorf("apply %s: %w", name, err)
	}
}

// Verify reports ErrMissingIndex when the appointments table lacks
// BookedSlotIndex.
func (m *Migrator) Verify(ctx context.Context) error {
	var ok bool
	if err := m.db.QueryRowContext(ctx, indexCheck, BookedSlotIndex).Scan(&ok); err != nil {
		return fmt.Errorf("check %s: %w", BookedSlotIndex, err)
	}
	if !ok {
		return ErrMissingIndex
	}
	return nil
}

func alreadyExists(err error) bool {
	var code string
	var pgErr *pgconn.PgError
	var pqErr *pq.Error
	switch {
	case errors.As(err, &pgErr):
		code = pgErr.Code
	case errors.As(err, &pqErr):
		code = string(pqErr.Code)
	}
	switch code {
	case "42P07", "42710", "42701": // duplicate table, object, column
		return true
	}
	return false
}
