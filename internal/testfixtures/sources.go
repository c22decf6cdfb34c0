package testfixtures

import (
	"context"
	"fmt"
	"sync"

	"github.com/example/studio-scheduler/internal/application"
	"github.com/example/studio-scheduler/internal/studio"
)

// SessionSource is an in-memory application.SessionSource.
// Unknown studios yield application.ErrNotFound; a non-nil Err fails every call.
type SessionSource struct {
	mu       sync.Mutex
	sessions map[string][]studio.ClassSession
	err      error
	calls    int
}

var _ application.SessionSource = (*SessionSource)(nil)

// NewSessionSource returns an empty source.
func NewSessionSource() *SessionSource {
	return &SessionSource{sessions: make(map[string][]studio.ClassSession)}
}

// Put registers the studio and appends sessions to it.
func (s *SessionSource) Put(slug string, sessions ...studio.ClassSession) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[slug] = append(s.sessions[slug], sessions...)
}

// Fail makes every subsequent call return err. A nil err restores the source.
func (s *SessionSource) Fail(err error) {
	s.mu.Lock()
	s.err = err
	s.mu.Unlock()
}

// Calls reports how many times ListSessions was invoked.
func (s *SessionSource) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

// ListSessions implements application.SessionSource.
func (s *SessionSource) ListSessions(ctx context.Context, slug, from, to string) ([]studio.ClassSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.err != nil {
		return nil, s.err
	}
	all, ok := s.sessions[slug]
	if !ok {
		return nil, fmt.Errorf("%w: studio %s", application.ErrNotFound, slug)
	}
	out := make([]studio.ClassSession, 0, len(all))
	for _, session := range all {
		if key := session.DateKey(); key >= from && key <= to {
			out = append(out, session)
		}
	}
	return out, nil
}

// SnapshotStore is an in-memory application.SnapshotStore keyed by exact range.
type SnapshotStore struct {
	mu   sync.Mutex
	sets map[string]application.SnapshotSet
	err  error
}

var _ application.SnapshotStore = (*SnapshotStore)(nil)

// NewSnapshotStore returns an empty store.
func NewSnapshotStore() *SnapshotStore {
	return &SnapshotStore{sets: make(map[string]application.SnapshotSet)}
}

// FailWrites makes ReplaceRange return err.
func (s *SnapshotStore) FailWrites(err error) {
	s.mu.Lock()
	s.err = err
	s.mu.Unlock()
}

// Len reports how many ranges are stored.
func (s *SnapshotStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sets)
}

// ReplaceRange implements application.SnapshotStore.
func (s *SnapshotStore) ReplaceRange(_ context.Context, set application.SnapshotSet) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	set.Sessions = studio.Clone(set.Sessions)
	s.sets[rangeKey(set.StudioSlug, set.From, set.To)] = set
	return nil
}

// ListRange implements application.SnapshotStore.
func (s *SnapshotStore) ListRange(_ context.Context, slug, from, to string) (application.SnapshotSet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	set, ok := s.sets[rangeKey(slug, from, to)]
	if !ok {
		return application.SnapshotSet{}, fmt.Errorf("%w: snapshot %s %s..%s", application.ErrNotFound, slug, from, to)
	}
	set.Sessions = studio.Clone(set.Sessions)
	return set, nil
}

func rangeKey(slug, from, to string) string {
	return slug + "|" + from + "|" + to
}
