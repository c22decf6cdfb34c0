package availability

import "testing"

func TestClassify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		booked   int
		capacity int
		state    State
		spots    int
	}{
		{name: "exactly full", booked: 20, capacity: 20, state: StateFull, spots: 0},
		{name: "two spots left", booked: 18, capacity: 20, state: StateLow, spots: 2},
		{name: "threshold boundary", booked: 17, capacity: 20, state: StateLow, spots: 3},
		{name: "just above threshold", booked: 16, capacity: 20, state: StateOpen, spots: 4},
		{name: "half booked", booked: 10, capacity: 20, state: StateOpen, spots: 10},
		{name: "overbooked never negative", booked: 25, capacity: 20, state: StateFull, spots: 0},
		{name: "small class starts low", booked: 0, capacity: 3, state: StateLow, spots: 3},
		{name: "empty", booked: 0, capacity: 12, state: StateOpen, spots: 12},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got := Classify(tc.booked, tc.capacity)
			if got.State != tc.state || got.SpotsAvailable != tc.spots {
				t.Fatalf("Classify(%d, %d) = %+v, want state %s spots %d", tc.booked, tc.capacity, got, tc.state, tc.spots)
			}
			if got.Bookable() != (tc.state != StateFull) {
				t.Fatalf("unexpected Bookable for %+v", got)
			}
		})
	}
}
