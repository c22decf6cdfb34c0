package calendar

import (
	"reflect"
	"testing"
	"time"

	"github.com/example/studio-scheduler/internal/dates"
	"github.com/example/studio-scheduler/internal/studio"
)

var ist = time.FixedZone("IST", 5*60*60+30*60)

func session(id string, day, hour int) studio.ClassSession {
	start := time.Date(2024, time.March, day, hour, 0, 0, 0, ist)
	return studio.ClassSession{
		ID:          id,
		Date:        dates.FormatLocalDate(start),
		StartTime:   start,
		EndTime:     start.Add(time.Hour),
		MaxCapacity: 10,
	}
}

func ids(sessions []studio.ClassSession) []string {
	out := make([]string, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, s.ID)
	}
	return out
}

func TestWeekDates(t *testing.T) {
	t.Parallel()

	got := WeekDates(time.Date(2024, time.March, 10, 20, 0, 0, 0, ist)) // Sunday
	if dates.FormatLocalDate(got[0]) != "2024-03-04" || dates.FormatLocalDate(got[6]) != "2024-03-10" {
		t.Fatalf("unexpected week %s..%s", dates.FormatLocalDate(got[0]), dates.FormatLocalDate(got[6]))
	}
}

func TestPartitionWeek(t *testing.T) {
	t.Parallel()

	// Week of Monday 2024-03-04.
	input := []studio.ClassSession{
		session("wed-late", 6, 19),
		session("mon", 4, 18),
		session("wed-early", 6, 7),
		session("sun", 10, 10),
		session("prev-sun", 3, 10),
		session("next-mon", 11, 10),
	}
	snapshot := studio.Clone(input)

	buckets := PartitionWeek(input, time.Date(2024, time.March, 7, 12, 0, 0, 0, ist))

	want := [DaysPerWeek][]string{
		{"mon"},
		{},
		{"wed-early", "wed-late"},
		{},
		{},
		{},
		{"sun"},
	}
	total := 0
	for i, bucket := range buckets {
		if !reflect.DeepEqual(ids(bucket), want[i]) {
			t.Fatalf("day %d: expected %v, got %v", i, want[i], ids(bucket))
		}
		total += len(bucket)
	}
	if total != 4 {
		t.Fatalf("expected 4 in-week sessions to be placed exactly once, got %d", total)
	}
	if !reflect.DeepEqual(input, snapshot) {
		t.Fatalf("input sessions were mutated")
	}
}

func TestPartitionWeek_MatchesByDateKeyNotTimestamp(t *testing.T) {
	t.Parallel()

	// 00:30 IST on Monday is still Sunday in UTC; the session must land on Monday.
	late := time.Date(2024, time.March, 4, 0, 30, 0, 0, ist)
	s := studio.ClassSession{ID: "early-monday", StartTime: late, EndTime: late.Add(time.Hour)}

	utcReference := time.Date(2024, time.March, 6, 12, 0, 0, 0, time.UTC)
	buckets := PartitionWeek([]studio.ClassSession{s}, utcReference.In(ist))
	if len(buckets[0]) != 1 || buckets[0][0].ID != "early-monday" {
		t.Fatalf("expected session on Monday, got %v", buckets)
	}
}

func TestPartitionWeek_IsDeterministic(t *testing.T) {
	t.Parallel()

	input := []studio.ClassSession{session("a", 5, 9), session("b", 5, 9), session("c", 8, 6)}
	ref := time.Date(2024, time.March, 5, 0, 0, 0, 0, ist)

	first := PartitionWeek(input, ref)
	second := PartitionWeek(input, ref)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("partitioning is not deterministic")
	}
	if !reflect.DeepEqual(ids(first[1]), []string{"a", "b"}) {
		t.Fatalf("expected ties to keep input order, got %v", ids(first[1]))
	}
}

func TestPartitionMonthAt(t *testing.T) {
	t.Parallel()

	input := []studio.ClassSession{
		session("leading", 1, 9),
		session("mid-late", 15, 20),
		session("mid-early", 15, 6),
	}
	input = append(input, studio.ClassSession{
		ID:        "outside",
		Date:      "2024-05-20",
		StartTime: time.Date(2024, time.May, 20, 9, 0, 0, 0, ist),
	})

	reference := time.Date(2024, time.March, 20, 12, 0, 0, 0, ist)
	today := time.Date(2024, time.March, 12, 23, 0, 0, 0, ist)
	cells := PartitionMonthAt(input, reference, today)

	if len(cells) != MonthCells {
		t.Fatalf("expected %d cells, got %d", MonthCells, len(cells))
	}
	// March 2024 starts on a Friday; the grid opens on Monday 2024-02-26.
	if cells[0].Key != "2024-02-26" || dates.MondayIndex(cells[0].Date) != 0 {
		t.Fatalf("unexpected grid start %s", cells[0].Key)
	}
	if cells[MonthCells-1].Key != "2024-04-07" {
		t.Fatalf("unexpected grid end %s", cells[MonthCells-1].Key)
	}

	current := 0
	todayCount := 0
	placed := 0
	for i, cell := range cells {
		if i > 0 && dates.DaysBetween(cells[i-1].Date, cell.Date) != 1 {
			t.Fatalf("cells %d and %d are not consecutive", i-1, i)
		}
		if cell.IsCurrentMonth {
			current++
		}
		if cell.IsToday {
			todayCount++
			if cell.Key != "2024-03-12" {
				t.Fatalf("unexpected today cell %s", cell.Key)
			}
		}
		placed += len(cell.Sessions)
	}
	if current != 31 {
		t.Fatalf("expected 31 current-month cells, got %d", current)
	}
	if todayCount != 1 {
		t.Fatalf("expected exactly one today cell, got %d", todayCount)
	}
	if placed != 3 {
		t.Fatalf("expected 3 sessions in grid, got %d", placed)
	}

	mid := cells[dates.DaysBetween(cells[0].Date, time.Date(2024, time.March, 15, 0, 0, 0, 0, ist))]
	if !reflect.DeepEqual(ids(mid.Sessions), []string{"mid-early", "mid-late"}) {
		t.Fatalf("expected sorted mid-month sessions, got %v", ids(mid.Sessions))
	}
}

func TestPartitionMonthAt_MonthStartingOnMonday(t *testing.T) {
	t.Parallel()

	reference := time.Date(2024, time.April, 1, 0, 0, 0, 0, ist)
	cells := PartitionMonthAt(nil, reference, reference)

	if cells[0].Key != "2024-04-01" || !cells[0].IsCurrentMonth || !cells[0].IsToday {
		t.Fatalf("expected grid to start on the 1st, got %+v", cells[0])
	}
	if cells[MonthCells-1].Key != "2024-05-12" || cells[MonthCells-1].IsCurrentMonth {
		t.Fatalf("unexpected trailing cell %+v", cells[MonthCells-1])
	}
	for _, cell := range cells {
		if cell.Sessions == nil {
			t.Fatalf("expected empty, non-nil session lists")
		}
	}
}

func TestRange(t *testing.T) {
	t.Parallel()

	from, to := Range(GridStart(time.Date(2024, time.March, 20, 0, 0, 0, 0, ist)), MonthCells)
	if from != "2024-02-26" || to != "2024-04-07" {
		t.Fatalf("unexpected range %s..%s", from, to)
	}
}
