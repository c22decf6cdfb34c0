package migration

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
)

// Manager applies pending migrations in version order.
type Manager struct {
	executor   *executor
	migrations []Migration
	logger     *slog.Logger
}

// NewManager constructs a Manager for migrations, ordered as Scan returns them.
func NewManager(db *sqlx.DB, migrations []Migration, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		executor:   &executor{db: db, now: time.Now},
		migrations: migrations,
		logger:     logger.With("component", "migration"),
	}
}

// Run applies every migration not yet recorded and returns how many ran.
func (m *Manager) Run(ctx context.Context) (int, error) {
	if err := m.executor.initialize(ctx); err != nil {
		return 0, err
	}
	applied, err := m.executor.applied(ctx)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, migration := range m.migrations {
		if previous, ok := applied[migration.Version]; ok {
			if previous.Checksum != migration.Checksum {
				return count, newMigrationError(migration.Version, migration.FilePath, "verify checksum",
					fmt.Errorf("%w: applied %s, file %s", ErrChecksumMismatch, previous.Checksum, migration.Checksum))
			}
			continue
		}

		m.logger.InfoContext(ctx, "applying migration", "version", migration.Version, "description", migration.Description)
		if err := m.executor.apply(ctx, migration); err != nil {
			m.logger.ErrorContext(ctx, "migration failed", "version", migration.Version, "error", err)
			return count, err
		}
		count++
	}

	if count > 0 {
		m.logger.InfoContext(ctx, "migrations applied", "count", count)
	}
	return count, nil
}

// Applied returns the recorded migrations ordered by version.
func (m *Manager) Applied(ctx context.Context) ([]AppliedMigration, error) {
	if err := m.executor.initialize(ctx); err != nil {
		return nil, err
	}
	applied, err := m.executor.applied(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]AppliedMigration, 0, len(applied))
	for _, migration := range m.migrations {
		if record, ok := applied[migration.Version]; ok {
			out = append(out, record)
		}
	}
	return out, nil
}
