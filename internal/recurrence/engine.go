package recurrence

import (
	"errors"
	"fmt"
	"time"

	"github.com/example/studio-scheduler/internal/dates"
	"github.com/example/studio-scheduler/internal/studio"
)

// Type represents supported recurrence intervals.
type Type string

const (
	// TypeDaily includes every day within the range.
	TypeDaily Type = "daily"
	// TypeWeekly includes the selected weekdays of every week.
	TypeWeekly Type = "weekly"
	// TypeBiweekly includes the selected weekdays of every other week,
	// counted from the rule's own start date.
	TypeBiweekly Type = "biweekly"
)

// Rule describes a recurrence pattern for a class.
//
// DaysOfWeek uses Monday=0 through Sunday=6 and is ignored for daily rules.
// StartDate and EndDate are inclusive YYYY-MM-DD strings.
type Rule struct {
	Type       Type
	DaysOfWeek []int
	StartDate  string
	EndDate    string
}

// ErrInvalidRule indicates the rule cannot be expanded.
var ErrInvalidRule = errors.New("recurrence: invalid rule")

// RuleError names the rule field that failed validation.
type RuleError struct {
	Field  string
	Reason string
}

func (e *RuleError) Error() string {
	return fmt.Sprintf("%v: %s %s", ErrInvalidRule, e.Field, e.Reason)
}

func (e *RuleError) Unwrap() error {
	return ErrInvalidRule
}

// Expand turns rule into the sorted, duplicate free list of YYYY-MM-DD dates
// it selects. An inverted range or an empty weekday set yields an empty list.
func Expand(rule Rule) ([]string, error) {
	days, err := expandDays(rule, time.UTC)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(days))
	for _, day := range days {
		out = append(out, dates.FormatLocalDate(day))
	}
	return out, nil
}

// expandDays walks the range one calendar day at a time in loc.
func expandDays(rule Rule, loc *time.Location) ([]time.Time, error) {
	start, err := dates.ParseLocalDate(rule.StartDate, loc)
	if err != nil {
		return nil, &RuleError{Field: "start_date", Reason: "must be YYYY-MM-DD"}
	}
	end, err := dates.ParseLocalDate(rule.EndDate, loc)
	if err != nil {
		return nil, &RuleError{Field: "end_date", Reason: "must be YYYY-MM-DD"}
	}

	var weekdays [7]bool
	switch rule.Type {
	case TypeDaily:
		for i := range weekdays {
			weekdays[i] = true
		}
	case TypeWeekly, TypeBiweekly:
		for _, day := range rule.DaysOfWeek {
			if day < 0 || day > 6 {
				return nil, &RuleError{Field: "days_of_week", Reason: "must be between 0 (Monday) and 6 (Sunday)"}
			}
			weekdays[day] = true
		}
	default:
		return nil, &RuleError{Field: "type", Reason: "must be daily, weekly or biweekly"}
	}

	total := dates.DaysBetween(start, end)
	if total < 0 {
		return []time.Time{}, nil
	}

	days := make([]time.Time, 0)
	for offset := 0; offset <= total; offset++ {
		current := dates.AddDays(start, offset)
		if !weekdays[dates.MondayIndex(current)] {
			continue
		}
		if rule.Type == TypeBiweekly && (offset/7)%2 != 0 {
			continue
		}
		days = append(days, current)
	}

	return days, nil
}

// Engine expands rules into preview sessions in a fixed studio location.
type Engine struct {
	location    *time.Location
	idGenerator func() string
}

// NewEngine constructs an Engine for loc. A nil loc means time.Local and a
// nil idGenerator leaves preview IDs empty.
func NewEngine(loc *time.Location, idGenerator func() string) *Engine {
	if loc == nil {
		loc = time.Local
	}
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	return &Engine{location: loc, idGenerator: idGenerator}
}

// Dates expands rule into local midnights in the engine location.
func (e *Engine) Dates(rule Rule) ([]time.Time, error) {
	return expandDays(rule, e.location)
}

// Occurrences expands rule and stamps tmpl onto every selected day. Clock
// times are applied per calendar day so DST changes never shift a class.
func (e *Engine) Occurrences(rule Rule, tmpl studio.SessionTemplate) ([]studio.ClassSession, error) {
	if err := tmpl.Validate(); err != nil {
		return nil, err
	}
	days, err := e.Dates(rule)
	if err != nil {
		return nil, err
	}

	sessions := make([]studio.ClassSession, 0, len(days))
	for _, day := range days {
		sessions = append(sessions, tmpl.Build(e.idGenerator(), day))
	}
	return sessions, nil
}
