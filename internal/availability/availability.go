// Package availability labels class sessions by how many spots remain.
package availability

// State is the tri-state availability label shown on calendars.
type State string

const (
	// StateFull means no spots remain.
	StateFull State = "full"
	// StateLow means only a handful of spots remain.
	StateLow State = "low"
	// StateOpen means the session has comfortable capacity left.
	StateOpen State = "open"
)

// LowThreshold is the largest number of remaining spots still labelled low.
const LowThreshold = 3

// Result is the classification of a single session.
type Result struct {
	State          State
	SpotsAvailable int
}

// Bookable reports whether at least one spot remains.
func (r Result) Bookable() bool {
	return r.State != StateFull
}

// Classify derives the availability label from booked count and capacity.
func Classify(bookedCount, maxCapacity int) Result {
	remaining := maxCapacity - bookedCount
	spots := max(0, remaining)

	switch {
	case bookedCount >= maxCapacity:
		return Result{State: StateFull, SpotsAvailable: spots}
	case remaining <= LowThreshold:
		return Result{State: StateLow, SpotsAvailable: spots}
	default:
		return Result{State: StateOpen, SpotsAvailable: spots}
	}
}
