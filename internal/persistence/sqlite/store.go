// Package sqlite persists calendar snapshots in SQLite through sqlx.
package sqlite

import (
	"context"
	"embed"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/example/studio-scheduler/internal/persistence/sqlite/migration"
)

const driverName = "sqlite"

//go:embed migrations/*.sql
var migrationFiles embed.FS

func init() {
	sqlx.BindDriver(driverName, sqlx.QUESTION)
}

// Store owns the SQLite connection pool.
type Store struct {
	db     *sqlx.DB
	config Config
	logger *slog.Logger
}

// Open validates cfg, creates the database directory when needed and
// connects. Call Migrate before using repositories.
func Open(ctx context.Context, cfg Config, logger *slog.Logger) (*Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.DSN != ":memory:" && !strings.HasPrefix(cfg.DSN, "file:") {
		if err := os.MkdirAll(filepath.Dir(cfg.DSN), 0o755); err != nil {
			return nil, fmt.Errorf("sqlite: create database directory: %w", err)
		}
	}

	db, err := sqlx.Open(driverName, cfg.dataSourceName())
	if err != nil {
		return nil, fmt.Errorf("sqlite: open database: %w", err)
	}
	// Every connection to ":memory:" is its own database.
	if cfg.DSN == ":memory:" {
		cfg.MaxOpenConns, cfg.MaxIdleConns, cfg.ConnMaxLifetime = 1, 1, 0
	}
	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: ping database: %w", err)
	}

	return &Store{db: db, config: cfg, logger: logger.With("component", "sqlite")}, nil
}

// DB returns the underlying handle.
func (s *Store) DB() *sqlx.DB {
	return s.db
}

// Close closes the connection pool.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Ping tests the database connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Migrate applies the embedded schema migrations. It is safe to call on every start.
func (s *Store) Migrate(ctx context.Context) error {
	migrations, err := migration.Scan(migrationFiles, "migrations")
	if err != nil {
		return err
	}
	applied, err := migration.NewManager(s.db, migrations, s.logger).Run(ctx)
	if err != nil {
		return err
	}
	s.logger.DebugContext(ctx, "schema up to date", "applied", applied, "known", len(migrations))
	return nil
}

// TransactionFunc represents a function that executes within a transaction.
type TransactionFunc func(tx *sqlx.Tx) error

// WithTransaction runs fn inside a transaction, committing when fn returns
// nil and rolling back otherwise, including on panic.
func (s *Store) WithTransaction(ctx context.Context, fn TransactionFunc) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: begin transaction: %w", mapError(err))
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("sqlite: transaction failed (rollback error: %v): %w", rbErr, err)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: commit transaction: %w", mapError(err))
	}
	return nil
}
