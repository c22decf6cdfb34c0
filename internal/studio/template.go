package studio

import (
	"strings"
	"time"

	"github.com/example/studio-scheduler/internal/dates"
)

// SessionTemplate carries the descriptive fields stamped onto every preview
// session generated from a recurrence rule.
type SessionTemplate struct {
	ClassName      string
	InstructorName string
	Level          string
	Style          string
	StartClock     string
	EndClock       string
	MaxCapacity    int
	DropInPrice    int64
}

// Validate checks the template before any session is built from it.
func (t SessionTemplate) Validate() error {
	vErr := &ValidationError{}

	requireText(vErr, "class_name", t.ClassName)
	requireText(vErr, "instructor_name", t.InstructorName)
	requireText(vErr, "level", t.Level)
	requireText(vErr, "style", t.Style)

	startH, startM, startErr := dates.ParseClock(t.StartClock)
	if startErr != nil {
		vErr.Add("start_clock", "start clock must be HH:MM")
	}
	endH, endM, endErr := dates.ParseClock(t.EndClock)
	if endErr != nil {
		vErr.Add("end_clock", "end clock must be HH:MM")
	}
	if startErr == nil && endErr == nil && endH*60+endM <= startH*60+startM {
		vErr.Add("end_clock", "end clock must be after start clock")
	}

	if t.MaxCapacity <= 0 {
		vErr.Add("max_capacity", "capacity must be positive")
	}
	if t.DropInPrice < 0 {
		vErr.Add("drop_in_price", "price cannot be negative")
	}

	if vErr.HasErrors() {
		return vErr
	}
	return nil
}

// Build returns a session for day using the template's clock times in day's
// location. The template must already be valid.
func (t SessionTemplate) Build(id string, day time.Time) ClassSession {
	startH, startM, _ := dates.ParseClock(t.StartClock)
	endH, endM, _ := dates.ParseClock(t.EndClock)

	return ClassSession{
		ID:             id,
		Date:           dates.FormatLocalDate(day),
		StartTime:      dates.At(day, startH, startM),
		EndTime:        dates.At(day, endH, endM),
		MaxCapacity:    t.MaxCapacity,
		BookedCount:    0,
		InstructorName: strings.TrimSpace(t.InstructorName),
		ClassName:      strings.TrimSpace(t.ClassName),
		Level:          strings.TrimSpace(t.Level),
		Style:          strings.TrimSpace(t.Style),
		DropInPrice:    t.DropInPrice,
	}
}
