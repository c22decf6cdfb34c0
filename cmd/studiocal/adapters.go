package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/example/studio-scheduler/internal/application"
	"github.com/example/studio-scheduler/internal/backend"
	"github.com/example/studio-scheduler/internal/persistence"
	"github.com/example/studio-scheduler/internal/studio"
)

type sessionLister interface {
	ListSessions(ctx context.Context, slug, from, to string) ([]studio.ClassSession, error)
}

type sessionSourceAdapter struct {
	client sessionLister
}

func newSessionSourceAdapter(client sessionLister) *sessionSourceAdapter {
	return &sessionSourceAdapter{client: client}
}

func (a *sessionSourceAdapter) ListSessions(ctx context.Context, slug, from, to string) ([]studio.ClassSession, error) {
	sessions, err := a.client.ListSessions(ctx, slug, from, to)
	if errors.Is(err, backend.ErrStudioNotFound) {
		return nil, fmt.Errorf("%w: %v", application.ErrNotFound, err)
	}
	return sessions, err
}

type snapshotStoreAdapter struct {
	repo     persistence.SnapshotRepository
	location *time.Location
}

func newSnapshotStoreAdapter(repo persistence.SnapshotRepository, loc *time.Location) *snapshotStoreAdapter {
	if loc == nil {
		loc = time.Local
	}
	return &snapshotStoreAdapter{repo: repo, location: loc}
}

func (a *snapshotStoreAdapter) ReplaceRange(ctx context.Context, set application.SnapshotSet) error {
	return a.repo.ReplaceRange(ctx, toPersistenceSnapshotSet(set))
}

func (a *snapshotStoreAdapter) ListRange(ctx context.Context, slug, from, to string) (application.SnapshotSet, error) {
	stored, err := a.repo.ListRange(ctx, slug, from, to)
	if errors.Is(err, persistence.ErrNotFound) {
		return application.SnapshotSet{}, fmt.Errorf("%w: %v", application.ErrNotFound, err)
	}
	if err != nil {
		return application.SnapshotSet{}, err
	}
	return toApplicationSnapshotSet(stored, a.location), nil
}

func toPersistenceSnapshotSet(set application.SnapshotSet) persistence.SnapshotSet {
	sessions := make([]persistence.SessionSnapshot, 0, len(set.Sessions))
	for _, s := range set.Sessions {
		sessions = append(sessions, persistence.SessionSnapshot{
			StudioSlug:     set.StudioSlug,
			SessionID:      s.ID,
			Date:           s.DateKey(),
			Start:          s.StartTime,
			End:            s.EndTime,
			MaxCapacity:    s.MaxCapacity,
			BookedCount:    s.BookedCount,
			InstructorName: s.InstructorName,
			ClassName:      s.ClassName,
			Level:          s.Level,
			Style:          s.Style,
			DropInPrice:    s.DropInPrice,
		})
	}
	return persistence.SnapshotSet{
		StudioSlug: set.StudioSlug,
		From:       set.From,
		To:         set.To,
		FetchedAt:  set.FetchedAt,
		Sessions:   sessions,
	}
}

func toApplicationSnapshotSet(set persistence.SnapshotSet, loc *time.Location) application.SnapshotSet {
	sessions := make([]studio.ClassSession, 0, len(set.Sessions))
	for _, s := range set.Sessions {
		sessions = append(sessions, studio.ClassSession{
			ID:             s.SessionID,
			Date:           s.Date,
			StartTime:      s.Start.In(loc),
			EndTime:        s.End.In(loc),
			MaxCapacity:    s.MaxCapacity,
			BookedCount:    s.BookedCount,
			InstructorName: s.InstructorName,
			ClassName:      s.ClassName,
			Level:          s.Level,
			Style:          s.Style,
			DropInPrice:    s.DropInPrice,
		})
	}
	return application.SnapshotSet{
		StudioSlug: set.StudioSlug,
		From:       set.From,
		To:         set.To,
		FetchedAt:  set.FetchedAt,
		Sessions:   sessions,
	}
}
