// Package migration applies versioned SQL files to a SQLite database.
//
// Files are read from an fs.FS (usually an embed.FS) and must be named
// {version}_{description}.sql, for example "001_session_snapshots.sql".
// Applied versions and their checksums are tracked in schema_migrations, so
// running the same set twice is a no-op and an edited, already applied file
// is reported as ErrChecksumMismatch.
//
// Example usage:
//
//	migrations, err := migration.Scan(files, "migrations")
//	if err != nil {
//		return err
//	}
//	applied, err := migration.NewManager(db, migrations, logger).Run(ctx)
package migration
