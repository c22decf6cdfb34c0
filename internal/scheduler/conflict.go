// Package scheduler detects instructor double-bookings between class slots.
package scheduler

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rdleal/intervalst/interval"
)

// Slot is the part of a class session relevant to overlap checks.
type Slot struct {
	ID         string
	Instructor string
	Start      time.Time
	End        time.Time
}

// ConflictType describes the type of conflict detected between slots.
type ConflictType string

const (
	// ConflictTypeInstructor indicates an instructor would teach two classes at once.
	ConflictTypeInstructor ConflictType = "instructor"
)

// Conflict pairs a candidate slot with the existing slot it overlaps.
type Conflict struct {
	CandidateID    string
	WithSessionID  string
	Type           ConflictType
	Instructor     string
	CandidateStart time.Time
}

// DetectConflicts reports every candidate that overlaps an existing slot taught
// by the same instructor. Slots touching end to start do not conflict.
func DetectConflicts(existing []Slot, candidates []Slot) ([]Conflict, error) {
	if len(existing) == 0 || len(candidates) == 0 {
		return nil, nil
	}

	// Existing slots sharing the exact same span share one tree entry.
	type span struct{ start, end time.Time }
	grouped := make(map[string]map[span][]int)
	for i, slot := range existing {
		if !slot.End.After(slot.Start) {
			continue
		}
		key := instructorKey(slot.Instructor)
		if key == "" {
			continue
		}
		if grouped[key] == nil {
			grouped[key] = make(map[span][]int)
		}
		s := span{start: slot.Start.UTC(), end: slot.End.UTC()}
		grouped[key][s] = append(grouped[key][s], i)
	}

	trees := make(map[string]*interval.SearchTree[[]int, time.Time], len(grouped))
	for key, spans := range grouped {
		tree := interval.NewSearchTree[[]int](func(x, y time.Time) int { return x.Compare(y) })
		for s, indices := range spans {
			if err := tree.Insert(s.start, s.end, indices); err != nil {
				return nil, fmt.Errorf("scheduler: index slot %s: %w", existing[indices[0]].ID, err)
			}
		}
		trees[key] = tree
	}

	conflicts := make([]Conflict, 0)
	for _, candidate := range candidates {
		tree, ok := trees[instructorKey(candidate.Instructor)]
		if !ok || !candidate.End.After(candidate.Start) {
			continue
		}
		groups, found := tree.AllIntersections(candidate.Start, candidate.End)
		if !found {
			continue
		}
		var matches []int
		for _, indices := range groups {
			matches = append(matches, indices...)
		}
		sort.Ints(matches)
		for _, idx := range matches {
			other := existing[idx]
			if other.ID != "" && other.ID == candidate.ID {
				continue
			}
			if !overlaps(other, candidate) {
				continue
			}
			conflicts = append(conflicts, Conflict{
				CandidateID:    candidate.ID,
				WithSessionID:  other.ID,
				Type:           ConflictTypeInstructor,
				Instructor:     strings.TrimSpace(candidate.Instructor),
				CandidateStart: candidate.Start,
			})
		}
	}

	if len(conflicts) == 0 {
		return nil, nil
	}
	return conflicts, nil
}

func overlaps(a, b Slot) bool {
	return a.Start.Before(b.End) && b.Start.Before(a.End)
}

func instructorKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
