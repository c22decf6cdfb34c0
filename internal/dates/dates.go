// Package dates holds the calendar-day helpers shared by the scheduler.
//
// Every date string in the service is produced here. Values are derived from
// a time's own location fields, never from a UTC conversion, so a studio in
// UTC+05:30 never sees a class slide onto the previous day.
package dates

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Layout is the canonical YYYY-MM-DD layout used for date keys.
const Layout = "2006-01-02"

// ErrInvalidDate indicates a value is not a well-formed YYYY-MM-DD date.
var ErrInvalidDate = errors.New("dates: invalid date")

// ErrInvalidClock indicates a value is not a well-formed HH:MM time of day.
var ErrInvalidClock = errors.New("dates: invalid clock time")

// ParseError reports the offending input of a failed parse.
type ParseError struct {
	Value string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%v: %q", e.Err, e.Value)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// FormatLocalDate returns t's calendar day in t's own location as YYYY-MM-DD.
func FormatLocalDate(t time.Time) string {
	y, m, d := t.Date()
	return fmt.Sprintf("%04d-%02d-%02d", y, int(m), d)
}

// ParseLocalDate parses a YYYY-MM-DD string into midnight of that day in loc.
// A nil loc means time.Local.
func ParseLocalDate(value string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	trimmed := strings.TrimSpace(value)
	if len(trimmed) != len(Layout) {
		return time.Time{}, &ParseError{Value: value, Err: ErrInvalidDate}
	}
	parsed, err := time.ParseInLocation(Layout, trimmed, loc)
	if err != nil {
		return time.Time{}, &ParseError{Value: value, Err: ErrInvalidDate}
	}
	return parsed, nil
}

// IsLocalDate reports whether value parses as a YYYY-MM-DD date.
func IsLocalDate(value string) bool {
	_, err := ParseLocalDate(value, time.UTC)
	return err == nil
}

// StartOfDay returns midnight of t's calendar day in t's location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// AddDays moves t by n calendar days, keeping the wall clock.
func AddDays(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d+n, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

// MondayIndex returns t's weekday with Monday=0 through Sunday=6.
func MondayIndex(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

// MondayOfWeek returns midnight of the Monday on or before t. Sunday belongs
// to the week that started six days earlier.
func MondayOfWeek(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d-MondayIndex(t), 0, 0, 0, 0, t.Location())
}

const secondsPerDay = 24 * 60 * 60

// DaysBetween returns the number of whole calendar days from a to b using
// each time's local date. The result is negative when b precedes a.
func DaysBetween(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	start := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	end := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int((end.Unix() - start.Unix()) / secondsPerDay)
}

// ParseClock parses an HH:MM 24-hour time of day.
func ParseClock(value string) (hour, minute int, err error) {
	trimmed := strings.TrimSpace(value)
	parts := strings.Split(trimmed, ":")
	if len(parts) != 2 || len(parts[0]) != 2 || len(parts[1]) != 2 {
		return 0, 0, &ParseError{Value: value, Err: ErrInvalidClock}
	}
	hour, herr := strconv.Atoi(parts[0])
	minute, merr := strconv.Atoi(parts[1])
	if herr != nil || merr != nil || hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, 0, &ParseError{Value: value, Err: ErrInvalidClock}
	}
	return hour, minute, nil
}

// At returns the instant at hour:minute on day's calendar date in day's location.
func At(day time.Time, hour, minute int) time.Time {
	y, m, d := day.Date()
	return time.Date(y, m, d, hour, minute, 0, 0, day.Location())
}
