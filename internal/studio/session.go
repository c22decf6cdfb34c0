// Package studio defines the class session value objects shared across the
// calendar packages.
package studio

import (
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/example/studio-scheduler/internal/dates"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// ValidSlug reports whether slug is a URL-safe studio identifier.
func ValidSlug(slug string) bool {
	return slugPattern.MatchString(slug)
}

// ClassSession is one concrete occurrence of a class on a specific date.
type ClassSession struct {
	ID             string
	Date           string
	StartTime      time.Time
	EndTime        time.Time
	MaxCapacity    int
	BookedCount    int
	InstructorName string
	ClassName      string
	Level          string
	Style          string
	DropInPrice    int64
}

// DateKey returns the local YYYY-MM-DD day the session belongs to.
func (s ClassSession) DateKey() string {
	if s.Date != "" {
		return s.Date
	}
	return dates.FormatLocalDate(s.StartTime)
}

// Validate reports every field that breaks the session invariants.
func (s ClassSession) Validate() error {
	vErr := &ValidationError{}

	requireText(vErr, "class_name", s.ClassName)
	requireText(vErr, "instructor_name", s.InstructorName)
	requireText(vErr, "level", s.Level)
	requireText(vErr, "style", s.Style)

	if s.Date != "" && !dates.IsLocalDate(s.Date) {
		vErr.Add("date", "date must be YYYY-MM-DD")
	}
	if s.StartTime.IsZero() {
		vErr.Add("start_time", "start time is required")
	}
	if s.EndTime.IsZero() {
		vErr.Add("end_time", "end time is required")
	}
	if !s.StartTime.IsZero() && !s.EndTime.IsZero() && !s.EndTime.After(s.StartTime) {
		vErr.Add("end_time", "end time must be after start time")
	}
	if s.MaxCapacity <= 0 {
		vErr.Add("max_capacity", "capacity must be positive")
	}
	if s.BookedCount < 0 {
		vErr.Add("booked_count", "booked count cannot be negative")
	}
	if s.DropInPrice < 0 {
		vErr.Add("drop_in_price", "price cannot be negative")
	}

	if vErr.HasErrors() {
		return vErr
	}
	return nil
}

// Clone returns sessions in a freshly allocated slice.
func Clone(sessions []ClassSession) []ClassSession {
	if sessions == nil {
		return nil
	}
	out := make([]ClassSession, len(sessions))
	copy(out, sessions)
	return out
}

// SortByStart orders sessions by start time, keeping input order for ties.
func SortByStart(sessions []ClassSession) {
	sort.SliceStable(sessions, func(i, j int) bool {
		return sessions[i].StartTime.Before(sessions[j].StartTime)
	})
}

func requireText(vErr *ValidationError, field, value string) {
	if strings.TrimSpace(value) == "" {
		vErr.Add(field, field+" is required")
	}
}
