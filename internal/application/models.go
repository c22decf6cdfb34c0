package application

import (
	"time"

	"github.com/example/studio-scheduler/internal/availability"
	"github.com/example/studio-scheduler/internal/recurrence"
	"github.com/example/studio-scheduler/internal/studio"
)

// SnapshotSet is the last known copy of a studio's sessions for a date range.
type SnapshotSet struct {
	StudioSlug string
	From       string
	To         string
	FetchedAt  time.Time
	Sessions   []studio.ClassSession
}

// PreviewParams wraps the data required to preview a recurrence rule.
// An empty Rule.StartDate means today in the studio location.
type PreviewParams struct {
	Rule       recurrence.Rule
	Template   *studio.SessionTemplate
	StudioSlug string
}

// Warning codes attached to previews.
const (
	WarningLargeRange         = "large_range"
	WarningInstructorConflict = "instructor_conflict"
	WarningConflictsUnchecked = "conflicts_unchecked"
	WarningConflictsStale     = "conflicts_stale"
)

// PreviewWarning describes something the caller should review before
// creating the previewed sessions. Warnings never block a preview.
type PreviewWarning struct {
	Code                 string
	Message              string
	Date                 string
	SessionID            string
	ConflictingSessionID string
}

// Preview is the expansion of a recurrence rule.
type Preview struct {
	Dates    []string
	Sessions []studio.ClassSession
	Warnings []PreviewWarning
}

// SessionView is a session together with its booking availability.
type SessionView struct {
	Session      studio.ClassSession
	Availability availability.Result
}

// WeekParams selects the week containing Date (YYYY-MM-DD, default today).
type WeekParams struct {
	StudioSlug string
	Date       string
}

// DayView is one column of a week view.
type DayView struct {
	Date     string
	Weekday  time.Weekday
	Sessions []SessionView
}

// WeekView is Monday through Sunday of one week.
type WeekView struct {
	StudioSlug string
	From       string
	To         string
	Days       [7]DayView
	Stale      bool
	FetchedAt  time.Time
}

// MonthParams selects the month containing Date (YYYY-MM-DD, default today).
type MonthParams struct {
	StudioSlug string
	Date       string
}

// MonthCellView is one day of a month grid.
type MonthCellView struct {
	Date           string
	IsCurrentMonth bool
	IsToday        bool
	Sessions       []SessionView
}

// MonthView is the six week grid covering one month.
type MonthView struct {
	StudioSlug string
	Month      string
	From       string
	To         string
	Cells      []MonthCellView
	Stale      bool
	FetchedAt  time.Time
}
