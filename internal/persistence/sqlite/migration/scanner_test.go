package migration

import (
	"errors"
	"testing"
	"testing/fstest"
)

func TestScan(t *testing.T) {
	t.Parallel()

	t.Run("orders by numeric version", func(t *testing.T) {
		t.Parallel()

		fsys := fstest.MapFS{
			"migrations/010_add_index.sql":    {Data: []byte("CREATE INDEX idx ON t (a);")},
			"migrations/002_create_table.sql": {Data: []byte("-- table\nCREATE TABLE t (a TEXT);")},
			"migrations/README.md":            {Data: []byte("ignored")},
		}

		migrations, err := Scan(fsys, "migrations")
		if err != nil {
			t.Fatalf("Scan failed: %v", err)
		}
		if len(migrations) != 2 {
			t.Fatalf("expected 2 migrations, got %d", len(migrations))
		}
		if migrations[0].Version != 2 || migrations[1].Version != 10 {
			t.Fatalf("unexpected order %d, %d", migrations[0].Version, migrations[1].Version)
		}
		if migrations[0].Description != "create table" {
			t.Fatalf("unexpected description %q", migrations[0].Description)
		}
		if migrations[0].Checksum == "" || migrations[0].Checksum == migrations[1].Checksum {
			t.Fatalf("expected distinct checksums")
		}
	})

	cases := map[string]fstest.MapFS{
		"bad filename": {"migrations/create.sql": {Data: []byte("SELECT 1;")}},
		"empty file":   {"migrations/001_empty.sql": {Data: []byte("-- nothing here\n")}},
		"zero version": {"migrations/000_zero.sql": {Data: []byte("SELECT 1;")}},
	}
	for name, fsys := range cases {
		fsys := fsys
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			if _, err := Scan(fsys, "migrations"); !errors.Is(err, ErrInvalidMigrationFile) {
				t.Fatalf("expected ErrInvalidMigrationFile, got %v", err)
			}
		})
	}

	t.Run("duplicate versions", func(t *testing.T) {
		t.Parallel()

		fsys := fstest.MapFS{
			"migrations/001_a.sql":  {Data: []byte("SELECT 1;")},
			"migrations/0001_b.sql": {Data: []byte("SELECT 2;")},
		}
		if _, err := Scan(fsys, "migrations"); !errors.Is(err, ErrDuplicateVersion) {
			t.Fatalf("expected ErrDuplicateVersion, got %v", err)
		}
	})
}

func TestSplitStatements(t *testing.T) {
	t.Parallel()

	got := splitStatements("-- header\nCREATE TABLE a (x INT);\n\n  -- second\nCREATE TABLE b (y INT);\n")
	if len(got) != 2 || got[0] != "CREATE TABLE a (x INT)" || got[1] != "CREATE TABLE b (y INT)" {
		t.Fatalf("unexpected statements %q", got)
	}
}
