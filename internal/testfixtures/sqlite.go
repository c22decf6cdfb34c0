package testfixtures

import (
	"context"
	"testing"

	"github.com/example/studio-scheduler/internal/persistence/sqlite"
)

// SQLiteHarness is a migrated in-memory store closed at test cleanup.
type SQLiteHarness struct {
	Store     *sqlite.Store
	Snapshots *sqlite.SnapshotRepository
}

// NewSQLiteHarness opens and migrates a fresh in-memory database.
func NewSQLiteHarness(tb testing.TB) *SQLiteHarness {
	tb.Helper()

	ctx := context.Background()
	store, err := sqlite.Open(ctx, sqlite.InMemoryConfig(), DiscardLogger())
	if err != nil {
		tb.Fatalf("open sqlite: %v", err)
	}
	tb.Cleanup(func() {
		if err := store.Close(); err != nil {
			tb.Errorf("close sqlite: %v", err)
		}
	})
	if err := store.Migrate(ctx); err != nil {
		tb.Fatalf("migrate sqlite: %v", err)
	}
	return &SQLiteHarness{Store: store, Snapshots: sqlite.NewSnapshotRepository(store)}
}
