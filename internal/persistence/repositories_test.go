package persistence_test

import (
	"errors"
	"testing"
	"time"

	"github.com/example/studio-scheduler/internal/persistence"
)

func TestSnapshotSetValidate(t *testing.T) {
	t.Parallel()

	base := persistence.SnapshotSet{
		StudioSlug: "salsa-house",
		From:       "2024-03-04",
		To:         "2024-03-10",
		FetchedAt:  time.Date(2024, time.March, 4, 9, 0, 0, 0, time.UTC),
		Sessions: []persistence.SessionSnapshot{
			{SessionID: "1", Date: "2024-03-04"},
			{SessionID: "2", Date: "2024-03-10"},
		},
	}

	if err := base.Validate(); err != nil {
		t.Fatalf("expected valid set, got %v", err)
	}

	cases := map[string]func(s *persistence.SnapshotSet){
		"missing slug":    func(s *persistence.SnapshotSet) { s.StudioSlug = "" },
		"inverted range":  func(s *persistence.SnapshotSet) { s.From, s.To = s.To, s.From },
		"malformed bound": func(s *persistence.SnapshotSet) { s.From = "2024-3-4" },
		"missing id":      func(s *persistence.SnapshotSet) { s.Sessions = []persistence.SessionSnapshot{{Date: "2024-03-05"}} },
		"session outside": func(s *persistence.SnapshotSet) { s.Sessions = []persistence.SessionSnapshot{{SessionID: "9", Date: "2024-03-11"}} },
	}
	for name, mutate := range cases {
		mutate := mutate
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			set := base
			set.Sessions = append([]persistence.SessionSnapshot(nil), base.Sessions...)
			mutate(&set)
			if err := set.Validate(); !errors.Is(err, persistence.ErrConstraintViolation) {
				t.Fatalf("expected constraint violation, got %v", err)
			}
		})
	}
}
