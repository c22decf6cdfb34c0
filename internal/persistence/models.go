package persistence

import (
	"fmt"
	"time"

	"github.com/example/studio-scheduler/internal/dates"
)

// SessionSnapshot is the last known copy of a backend class session.
type SessionSnapshot struct {
	StudioSlug     string
	SessionID      string
	Date           string
	Start          time.Time
	End            time.Time
	MaxCapacity    int
	BookedCount    int
	InstructorName string
	ClassName      string
	Level          string
	Style          string
	DropInPrice    int64
}

// SnapshotSet groups the sessions fetched for one studio and date range.
// From and To are inclusive YYYY-MM-DD keys.
type SnapshotSet struct {
	StudioSlug string
	From       string
	To         string
	FetchedAt  time.Time
	Sessions   []SessionSnapshot
}

// Validate checks the range and that every session belongs to it.
func (s SnapshotSet) Validate() error {
	if s.StudioSlug == "" {
		return fmt.Errorf("%w: studio slug is required", ErrConstraintViolation)
	}
	if !dates.IsLocalDate(s.From) || !dates.IsLocalDate(s.To) || s.From > s.To {
		return fmt.Errorf("%w: invalid range %q..%q", ErrConstraintViolation, s.From, s.To)
	}
	for _, session := range s.Sessions {
		if session.SessionID == "" {
			return fmt.Errorf("%w: session id is required", ErrConstraintViolation)
		}
		if session.Date < s.From || session.Date > s.To {
			return fmt.Errorf("%w: session %s dated %s is outside %s..%s", ErrConstraintViolation, session.SessionID, session.Date, s.From, s.To)
		}
	}
	return nil
}
