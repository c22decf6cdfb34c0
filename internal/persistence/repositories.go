package persistence

import "context"

// SnapshotRepository stores the most recent backend sessions per studio so
// calendar views can still render while the backend is unreachable.
type SnapshotRepository interface {
	// ReplaceRange swaps every stored session of set.StudioSlug dated within
	// set.From..set.To for set.Sessions in one transaction.
	ReplaceRange(ctx context.Context, set SnapshotSet) error
	// ListRange returns the stored sessions dated within from..to ordered by
	// start then id. It returns ErrNotFound unless an earlier ReplaceRange
	// covered the whole range.
	ListRange(ctx context.Context, slug, from, to string) (SnapshotSet, error)
}
