package dates

import (
	"errors"
	"testing"
	"time"
)

func mustLocation(t *testing.T, name string) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation(name)
	if err != nil {
		t.Skipf("timezone %s unavailable: %v", name, err)
	}
	return loc
}

func TestFormatLocalDate(t *testing.T) {
	t.Parallel()

	zones := []*time.Location{
		time.UTC,
		time.FixedZone("IST", 5*60*60+30*60),
		time.FixedZone("HST", -10*60*60),
		time.FixedZone("LINT", 14*60*60),
	}

	for _, loc := range zones {
		loc := loc
		t.Run(loc.String(), func(t *testing.T) {
			t.Parallel()

			for _, hour := range []int{0, 1, 12, 23} {
				value := time.Date(2024, time.March, 9, hour, 59, 0, 0, loc)
				if got := FormatLocalDate(value); got != "2024-03-09" {
					t.Fatalf("hour %d: expected 2024-03-09, got %s", hour, got)
				}
			}
		})
	}

	t.Run("zero pads single digit fields", func(t *testing.T) {
		t.Parallel()

		value := time.Date(987, time.January, 5, 0, 0, 0, 0, time.UTC)
		if got := FormatLocalDate(value); got != "0987-01-05" {
			t.Fatalf("expected 0987-01-05, got %s", got)
		}
	})

	t.Run("is stable across a DST transition", func(t *testing.T) {
		t.Parallel()

		loc := mustLocation(t, "America/New_York")
		for hour := 0; hour < 24; hour++ {
			value := time.Date(2024, time.March, 10, hour, 30, 0, 0, loc)
			if got := FormatLocalDate(value); got != "2024-03-10" {
				t.Fatalf("hour %d: expected 2024-03-10, got %s", hour, got)
			}
		}
	})
}

func TestParseLocalDate(t *testing.T) {
	t.Parallel()

	loc := time.FixedZone("IST", 5*60*60+30*60)

	got, err := ParseLocalDate("2024-02-29", loc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := time.Date(2024, time.February, 29, 0, 0, 0, 0, loc)
	if !got.Equal(want) || got.Location() != loc {
		t.Fatalf("expected %v, got %v", want, got)
	}
	if FormatLocalDate(got) != "2024-02-29" {
		t.Fatalf("round trip failed: %s", FormatLocalDate(got))
	}

	for _, input := range []string{"", "2024-2-29", "2023-02-29", "29-02-2024", "2024/02/29", "2024-02-29T10:00"} {
		_, err := ParseLocalDate(input, loc)
		if !errors.Is(err, ErrInvalidDate) {
			t.Fatalf("input %q: expected ErrInvalidDate, got %v", input, err)
		}
		var pErr *ParseError
		if !errors.As(err, &pErr) || pErr.Value != input {
			t.Fatalf("input %q: expected ParseError carrying the input, got %v", input, err)
		}
	}
}

func TestMondayOfWeek(t *testing.T) {
	t.Parallel()

	loc := time.FixedZone("IST", 5*60*60+30*60)

	tests := []struct {
		name string
		in   time.Time
		want string
	}{
		{name: "monday maps to itself", in: time.Date(2024, time.January, 1, 18, 0, 0, 0, loc), want: "2024-01-01"},
		{name: "wednesday", in: time.Date(2024, time.January, 3, 9, 0, 0, 0, loc), want: "2024-01-01"},
		{name: "sunday belongs to previous monday", in: time.Date(2024, time.January, 7, 23, 59, 0, 0, loc), want: "2024-01-01"},
		{name: "crosses month boundary", in: time.Date(2024, time.March, 2, 7, 0, 0, 0, loc), want: "2024-02-26"},
		{name: "crosses year boundary", in: time.Date(2025, time.January, 1, 7, 0, 0, 0, loc), want: "2024-12-30"},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got := MondayOfWeek(tc.in)
			if FormatLocalDate(got) != tc.want {
				t.Fatalf("expected %s, got %s", tc.want, FormatLocalDate(got))
			}
			if got.Hour() != 0 || got.Minute() != 0 || got.Location() != loc {
				t.Fatalf("expected local midnight, got %v", got)
			}
			if MondayIndex(got) != 0 {
				t.Fatalf("expected a Monday, got %s", got.Weekday())
			}
		})
	}
}

func TestMondayIndex(t *testing.T) {
	t.Parallel()

	start := time.Date(2024, time.January, 1, 12, 0, 0, 0, time.UTC) // Monday
	for i := 0; i < 7; i++ {
		if got := MondayIndex(AddDays(start, i)); got != i {
			t.Fatalf("day %d: expected index %d, got %d", i, i, got)
		}
	}
}

func TestDaysBetween_IgnoresDSTShift(t *testing.T) {
	t.Parallel()

	loc := mustLocation(t, "Europe/Berlin")
	before := time.Date(2024, time.March, 30, 0, 0, 0, 0, loc)
	after := time.Date(2024, time.April, 1, 0, 0, 0, 0, loc)

	if got := DaysBetween(before, after); got != 2 {
		t.Fatalf("expected 2 days, got %d", got)
	}
	if got := DaysBetween(after, before); got != -2 {
		t.Fatalf("expected -2 days, got %d", got)
	}
}

func TestDaysBetween_BeyondDurationRange(t *testing.T) {
	t.Parallel()

	start := time.Date(1700, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2100, time.December, 31, 23, 0, 0, 0, time.UTC)

	if got := DaysBetween(start, end); got != 146461 {
		t.Fatalf("expected 146461 days, got %d", got)
	}
}

func TestAddDays_KeepsWallClockAcrossDST(t *testing.T) {
	t.Parallel()

	loc := mustLocation(t, "America/New_York")
	start := time.Date(2024, time.March, 9, 18, 0, 0, 0, loc)
	next := AddDays(start, 1)

	if next.Hour() != 18 || FormatLocalDate(next) != "2024-03-10" {
		t.Fatalf("expected 2024-03-10 18:00, got %v", next)
	}
}

func TestParseClock(t *testing.T) {
	t.Parallel()

	hour, minute, err := ParseClock("07:45")
	if err != nil || hour != 7 || minute != 45 {
		t.Fatalf("expected 07:45, got %d:%d (%v)", hour, minute, err)
	}

	for _, input := range []string{"", "7:45", "24:00", "12:60", "ab:cd", "12:00:00"} {
		if _, _, err := ParseClock(input); !errors.Is(err, ErrInvalidClock) {
			t.Fatalf("input %q: expected ErrInvalidClock, got %v", input, err)
		}
	}
}
