// Package calendar projects flat session lists onto week and month grids.
//
// Sessions are matched to a day by comparing date keys, never by comparing
// timestamps against day boundaries, so a grid renders the same regardless of
// the server's timezone. Every function is a read-only projection.
package calendar

import (
	"time"

	"github.com/example/studio-scheduler/internal/dates"
	"github.com/example/studio-scheduler/internal/studio"
)

// DaysPerWeek is the number of buckets in a week view.
const DaysPerWeek = 7

// MonthCells is the number of cells in a month grid (six full weeks).
const MonthCells = 6 * DaysPerWeek

// MonthCell is one day of a month grid.
type MonthCell struct {
	Date           time.Time
	Key            string
	IsCurrentMonth bool
	IsToday        bool
	Sessions       []studio.ClassSession
}

// WeekDates returns local midnights for Monday through Sunday of the week
// containing reference.
func WeekDates(reference time.Time) [DaysPerWeek]time.Time {
	var out [DaysPerWeek]time.Time
	monday := dates.MondayOfWeek(reference)
	for i := range out {
		out[i] = dates.AddDays(monday, i)
	}
	return out
}

// PartitionWeek buckets sessions into Monday..Sunday of reference's week.
// Sessions outside the week are dropped; each bucket is ordered by start.
func PartitionWeek(sessions []studio.ClassSession, reference time.Time) [DaysPerWeek][]studio.ClassSession {
	days := WeekDates(reference)
	index := make(map[string]int, DaysPerWeek)
	for i, day := range days {
		index[dates.FormatLocalDate(day)] = i
	}

	var buckets [DaysPerWeek][]studio.ClassSession
	for _, session := range sessions {
		if i, ok := index[session.DateKey()]; ok {
			buckets[i] = append(buckets[i], session)
		}
	}
	for i := range buckets {
		if buckets[i] == nil {
			buckets[i] = []studio.ClassSession{}
		}
		studio.SortByStart(buckets[i])
	}
	return buckets
}

// GridStart returns the Monday on or before the first of reference's month.
func GridStart(reference time.Time) time.Time {
	first := time.Date(reference.Year(), reference.Month(), 1, 0, 0, 0, 0, reference.Location())
	return dates.MondayOfWeek(first)
}

// PartitionMonth builds the month grid for reference, flagging today's cell
// using the current time in reference's location.
func PartitionMonth(sessions []studio.ClassSession, reference time.Time) [MonthCells]MonthCell {
	return PartitionMonthAt(sessions, reference, time.Now().In(reference.Location()))
}

// PartitionMonthAt builds the month grid for reference with an explicit today.
func PartitionMonthAt(sessions []studio.ClassSession, reference, today time.Time) [MonthCells]MonthCell {
	start := GridStart(reference)
	todayKey := dates.FormatLocalDate(today)

	var cells [MonthCells]MonthCell
	index := make(map[string]int, MonthCells)
	for i := range cells {
		day := dates.AddDays(start, i)
		key := dates.FormatLocalDate(day)
		cells[i] = MonthCell{
			Date:           day,
			Key:            key,
			IsCurrentMonth: day.Month() == reference.Month() && day.Year() == reference.Year(),
			IsToday:        key == todayKey,
			Sessions:       []studio.ClassSession{},
		}
		index[key] = i
	}

	for _, session := range sessions {
		if i, ok := index[session.DateKey()]; ok {
			cells[i].Sessions = append(cells[i].Sessions, session)
		}
	}
	for i := range cells {
		studio.SortByStart(cells[i].Sessions)
	}
	return cells
}

// Range returns the inclusive first and last date keys covered by a grid
// starting at start and spanning days cells.
func Range(start time.Time, days int) (string, string) {
	if days <= 0 {
		days = 1
	}
	return dates.FormatLocalDate(start), dates.FormatLocalDate(dates.AddDays(start, days-1))
}
