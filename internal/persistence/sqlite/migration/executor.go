package migration

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

const createVersionTable = `
CREATE TABLE IF NOT EXISTS schema_migrations (
	version INTEGER PRIMARY KEY,
	checksum TEXT NOT NULL,
	applied_at TEXT NOT NULL,
	execution_time_ms INTEGER NOT NULL DEFAULT 0
)`

type appliedRow struct {
	Version     int    `db:"version"`
	Checksum    string `db:"checksum"`
	AppliedAt   string `db:"applied_at"`
	ExecutionMS int64  `db:"execution_time_ms"`
}

// executor runs migrations against a sqlx handle.
type executor struct {
	db  *sqlx.DB
	now func() time.Time
}

func (e *executor) initialize(ctx context.Context) error {
	if _, err := e.db.ExecContext(ctx, createVersionTable); err != nil {
		return fmt.Errorf("migration: create schema_migrations: %w", err)
	}
	return nil
}

func (e *executor) applied(ctx context.Context) (map[int]AppliedMigration, error) {
	var rows []appliedRow
	query := `SELECT version, checksum, applied_at, execution_time_ms FROM schema_migrations ORDER BY version`
	if err := e.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("migration: list applied versions: %w", err)
	}

	out := make(map[int]AppliedMigration, len(rows))
	for _, row := range rows {
		appliedAt, err := time.Parse(time.RFC3339Nano, row.AppliedAt)
		if err != nil {
			return nil, fmt.Errorf("migration: version %d has malformed applied_at %q: %w", row.Version, row.AppliedAt, err)
		}
		out[row.Version] = AppliedMigration{
			Version:       row.Version,
			Checksum:      row.Checksum,
			AppliedAt:     appliedAt,
			ExecutionTime: time.Duration(row.ExecutionMS) * time.Millisecond,
		}
	}
	return out, nil
}

// apply executes the statements of m and records it in the same transaction.
func (e *executor) apply(ctx context.Context, m Migration) (err error) {
	started := e.now()

	tx, err := e.db.BeginTxx(ctx, nil)
	if err != nil {
		return newMigrationError(m.Version, m.FilePath, "begin transaction", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for i, stmt := range splitStatements(m.SQL) {
		if _, execErr := tx.ExecContext(ctx, stmt); execErr != nil {
			return newMigrationError(m.Version, m.FilePath, fmt.Sprintf("execute statement %d", i+1),
				fmt.Errorf("%w: %w", ErrMigrationFailed, execErr))
		}
	}

	elapsed := e.now().Sub(started)
	_, err = tx.ExecContext(ctx,
		`INSERT INTO schema_migrations (version, checksum, applied_at, execution_time_ms) VALUES (?, ?, ?, ?)`,
		m.Version, m.Checksum, e.now().UTC().Format(time.RFC3339Nano), elapsed.Milliseconds(),
	)
	if err != nil {
		return newMigrationError(m.Version, m.FilePath, "record migration", err)
	}

	if err = tx.Commit(); err != nil {
		return newMigrationError(m.Version, m.FilePath, "commit transaction", err)
	}
	return nil
}
