package migration

import "time"

// Migration is one versioned SQL file.
type Migration struct {
	Version     int
	Description string
	SQL         string
	FilePath    string
	Checksum    string
}

// AppliedMigration is a row of schema_migrations.
type AppliedMigration struct {
	Version       int
	Checksum      string
	AppliedAt     time.Time
	ExecutionTime time.Duration
}
