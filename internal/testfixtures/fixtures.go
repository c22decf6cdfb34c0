package testfixtures

import (
	"time"

	"github.com/example/studio-scheduler/internal/dates"
	"github.com/example/studio-scheduler/internal/persistence"
	"github.com/example/studio-scheduler/internal/studio"
)

var studioLocation = time.FixedZone("IST", 5*60*60+30*60)

// StudioLocation is the fixed +05:30 zone used by fixtures.
func StudioLocation() *time.Location {
	return studioLocation
}

// ReferenceTime is Wednesday 2024-03-06 10:00 in StudioLocation.
func ReferenceTime() time.Time {
	return time.Date(2024, time.March, 6, 10, 0, 0, 0, studioLocation)
}

// SessionFixture describes a class session with sensible defaults.
type SessionFixture struct {
	ID             string
	Date           string
	StartClock     string
	EndClock       string
	InstructorName string
	ClassName      string
	Level          string
	Style          string
	MaxCapacity    int
	BookedCount    int
	DropInPrice    int64
	Location       *time.Location
}

// SessionOption mutates a SessionFixture.
type SessionOption func(*SessionFixture)

// NewSessionFixture returns an 18:00-19:00 salsa class on the reference day.
func NewSessionFixture(id string, opts ...SessionOption) SessionFixture {
	f := SessionFixture{
		ID:             id,
		Date:           dates.FormatLocalDate(ReferenceTime()),
		StartClock:     "18:00",
		EndClock:       "19:00",
		InstructorName: "Asha",
		ClassName:      "Salsa Basics",
		Level:          "beginner",
		Style:          "salsa",
		MaxCapacity:    20,
		BookedCount:    5,
		DropInPrice:    500,
		Location:       studioLocation,
	}
	for _, opt := range opts {
		opt(&f)
	}
	return f
}

// OnDay sets the session date (YYYY-MM-DD).
func OnDay(date string) SessionOption {
	return func(f *SessionFixture) { f.Date = date }
}

// Between sets the start and end clock times (HH:MM).
func Between(start, end string) SessionOption {
	return func(f *SessionFixture) {
		f.StartClock = start
		f.EndClock = end
	}
}

// TaughtBy sets the instructor name.
func TaughtBy(name string) SessionOption {
	return func(f *SessionFixture) { f.InstructorName = name }
}

// Booked sets the booked count and capacity.
func Booked(booked, capacity int) SessionOption {
	return func(f *SessionFixture) {
		f.BookedCount = booked
		f.MaxCapacity = capacity
	}
}

// Session materialises the fixture. It panics on malformed dates or clocks.
func (f SessionFixture) Session() studio.ClassSession {
	day, err := dates.ParseLocalDate(f.Date, f.Location)
	if err != nil {
		panic(err)
	}
	startH, startM, err := dates.ParseClock(f.StartClock)
	if err != nil {
		panic(err)
	}
	endH, endM, err := dates.ParseClock(f.EndClock)
	if err != nil {
		panic(err)
	}
	return studio.ClassSession{
		ID:             f.ID,
		Date:           f.Date,
		StartTime:      dates.At(day, startH, startM),
		EndTime:        dates.At(day, endH, endM),
		MaxCapacity:    f.MaxCapacity,
		BookedCount:    f.BookedCount,
		InstructorName: f.InstructorName,
		ClassName:      f.ClassName,
		Level:          f.Level,
		Style:          f.Style,
		DropInPrice:    f.DropInPrice,
	}
}

// Snapshot materialises the fixture as a stored snapshot row of slug.
func (f SessionFixture) Snapshot(slug string) persistence.SessionSnapshot {
	s := f.Session()
	return persistence.SessionSnapshot{
		StudioSlug:     slug,
		SessionID:      s.ID,
		Date:           s.Date,
		Start:          s.StartTime,
		End:            s.EndTime,
		MaxCapacity:    s.MaxCapacity,
		BookedCount:    s.BookedCount,
		InstructorName: s.InstructorName,
		ClassName:      s.ClassName,
		Level:          s.Level,
		Style:          s.Style,
		DropInPrice:    s.DropInPrice,
	}
}

// Template returns a weekly class template with the fixture defaults.
func Template() studio.SessionTemplate {
	return studio.SessionTemplate{
		ClassName:      "Salsa Basics",
		InstructorName: "Asha",
		Level:          "beginner",
		Style:          "salsa",
		StartClock:     "18:00",
		EndClock:       "19:00",
		MaxCapacity:    20,
		DropInPrice:    500,
	}
}
