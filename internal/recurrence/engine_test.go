package recurrence

import (
	"errors"
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/example/studio-scheduler/internal/dates"
	"github.com/example/studio-scheduler/internal/studio"
)

func TestExpand(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		rule Rule
		want []string
	}{
		{
			name: "daily includes both endpoints",
			rule: Rule{Type: TypeDaily, StartDate: "2024-03-01", EndDate: "2024-03-03"},
			want: []string{"2024-03-01", "2024-03-02", "2024-03-03"},
		},
		{
			name: "daily ignores weekday selection",
			rule: Rule{Type: TypeDaily, DaysOfWeek: []int{0}, StartDate: "2024-03-01", EndDate: "2024-03-02"},
			want: []string{"2024-03-01", "2024-03-02"},
		},
		{
			name: "single day range",
			rule: Rule{Type: TypeDaily, StartDate: "2024-03-01", EndDate: "2024-03-01"},
			want: []string{"2024-03-01"},
		},
		{
			name: "inverted range is empty",
			rule: Rule{Type: TypeDaily, StartDate: "2024-03-03", EndDate: "2024-03-01"},
			want: []string{},
		},
		{
			name: "weekly monday and wednesday",
			rule: Rule{Type: TypeWeekly, DaysOfWeek: []int{0, 2}, StartDate: "2024-01-01", EndDate: "2024-01-14"},
			want: []string{"2024-01-01", "2024-01-03", "2024-01-08", "2024-01-10"},
		},
		{
			name: "weekly sunday uses index six",
			rule: Rule{Type: TypeWeekly, DaysOfWeek: []int{6}, StartDate: "2024-01-01", EndDate: "2024-01-14"},
			want: []string{"2024-01-07", "2024-01-14"},
		},
		{
			name: "weekly duplicate weekdays produce no duplicates",
			rule: Rule{Type: TypeWeekly, DaysOfWeek: []int{4, 4, 4}, StartDate: "2024-01-01", EndDate: "2024-01-12"},
			want: []string{"2024-01-05", "2024-01-12"},
		},
		{
			name: "weekly with no weekdays is empty",
			rule: Rule{Type: TypeWeekly, StartDate: "2024-01-01", EndDate: "2024-03-01"},
			want: []string{},
		},
		{
			name: "biweekly mondays skip odd weeks",
			rule: Rule{Type: TypeBiweekly, DaysOfWeek: []int{0}, StartDate: "2024-01-01", EndDate: "2024-02-12"},
			want: []string{"2024-01-01", "2024-01-15", "2024-01-29", "2024-02-12"},
		},
		{
			name: "biweekly phase follows the rule start date",
			rule: Rule{Type: TypeBiweekly, DaysOfWeek: []int{0}, StartDate: "2024-01-08", EndDate: "2024-02-12"},
			want: []string{"2024-01-08", "2024-01-22", "2024-02-05"},
		},
		{
			name: "biweekly counts weeks from a mid-week start",
			rule: Rule{Type: TypeBiweekly, DaysOfWeek: []int{0, 3}, StartDate: "2024-01-03", EndDate: "2024-01-31"},
			// Weeks start on Wed 01-03: [01-03..01-09] even, [01-10..01-16] odd, [01-17..01-23] even, [01-24..01-30] odd, [01-31] even.
			want: []string{"2024-01-04", "2024-01-08", "2024-01-18", "2024-01-22"},
		},
		{
			name: "crosses a leap day",
			rule: Rule{Type: TypeDaily, StartDate: "2024-02-28", EndDate: "2024-03-01"},
			want: []string{"2024-02-28", "2024-02-29", "2024-03-01"},
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, err := Expand(tc.rule)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestExpand_RejectsMalformedRules(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		rule  Rule
		field string
	}{
		{name: "bad start date", rule: Rule{Type: TypeDaily, StartDate: "2024-13-01", EndDate: "2024-12-01"}, field: "start_date"},
		{name: "missing end date", rule: Rule{Type: TypeDaily, StartDate: "2024-01-01"}, field: "end_date"},
		{name: "unknown type", rule: Rule{Type: "monthly", StartDate: "2024-01-01", EndDate: "2024-01-31"}, field: "type"},
		{name: "weekday out of range", rule: Rule{Type: TypeWeekly, DaysOfWeek: []int{7}, StartDate: "2024-01-01", EndDate: "2024-01-31"}, field: "days_of_week"},
		{name: "negative weekday", rule: Rule{Type: TypeBiweekly, DaysOfWeek: []int{-1}, StartDate: "2024-01-01", EndDate: "2024-01-31"}, field: "days_of_week"},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, err := Expand(tc.rule)
			if !errors.Is(err, ErrInvalidRule) {
				t.Fatalf("expected ErrInvalidRule, got %v (dates %v)", err, got)
			}
			var rErr *RuleError
			if !errors.As(err, &rErr) || rErr.Field != tc.field {
				t.Fatalf("expected RuleError for %s, got %v", tc.field, err)
			}
			if got != nil {
				t.Fatalf("expected no dates on error, got %v", got)
			}
		})
	}
}

func TestExpand_WeeklyProperties(t *testing.T) {
	t.Parallel()

	start := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	for mask := 1; mask < 1<<7; mask += 9 {
		var selected []int
		allowed := map[int]bool{}
		for day := 0; day < 7; day++ {
			if mask&(1<<day) != 0 {
				selected = append(selected, day)
				allowed[day] = true
			}
		}

		for _, span := range []int{0, 6, 13, 45, 120} {
			rule := Rule{
				Type:       TypeWeekly,
				DaysOfWeek: selected,
				StartDate:  dates.FormatLocalDate(dates.AddDays(start, mask)),
				EndDate:    dates.FormatLocalDate(dates.AddDays(start, mask+span)),
			}
			first, err := Expand(rule)
			if err != nil {
				t.Fatalf("mask %07b span %d: unexpected error %v", mask, span, err)
			}
			second, _ := Expand(rule)
			if !reflect.DeepEqual(first, second) {
				t.Fatalf("mask %07b span %d: expansion is not idempotent", mask, span)
			}

			prev := ""
			for _, value := range first {
				day, err := dates.ParseLocalDate(value, time.UTC)
				if err != nil {
					t.Fatalf("unparseable output %q", value)
				}
				if !allowed[dates.MondayIndex(day)] {
					t.Fatalf("mask %07b: %s has unselected weekday %s", mask, value, day.Weekday())
				}
				if value < rule.StartDate || value > rule.EndDate {
					t.Fatalf("mask %07b: %s outside [%s, %s]", mask, value, rule.StartDate, rule.EndDate)
				}
				if value <= prev {
					t.Fatalf("mask %07b: output not strictly increasing at %s", mask, value)
				}
				prev = value
			}
		}
	}
}

func TestEngine_Occurrences(t *testing.T) {
	t.Parallel()

	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("timezone unavailable: %v", err)
	}

	counter := 0
	engine := NewEngine(loc, func() string {
		counter++
		return fmt.Sprintf("preview-%d", counter)
	})

	tmpl := studio.SessionTemplate{
		ClassName:      "Hip Hop Foundations",
		InstructorName: "Maya",
		Level:          "beginner",
		Style:          "hip-hop",
		StartClock:     "18:00",
		EndClock:       "19:00",
		MaxCapacity:    15,
	}
	rule := Rule{Type: TypeDaily, StartDate: "2024-03-09", EndDate: "2024-03-11"}

	sessions, err := engine.Occurrences(rule, tmpl)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sessions) != 3 {
		t.Fatalf("expected 3 sessions, got %d", len(sessions))
	}

	wantDates := []string{"2024-03-09", "2024-03-10", "2024-03-11"}
	for i, session := range sessions {
		if session.Date != wantDates[i] || session.DateKey() != wantDates[i] {
			t.Fatalf("session %d: expected date %s, got %s", i, wantDates[i], session.Date)
		}
		if session.StartTime.Hour() != 18 || session.StartTime.Location() != loc {
			t.Fatalf("session %d: expected 18:00 local, got %v", i, session.StartTime)
		}
		if session.EndTime.Sub(session.StartTime) != time.Hour {
			t.Fatalf("session %d: expected one hour, got %v", i, session.EndTime.Sub(session.StartTime))
		}
		if session.ID != fmt.Sprintf("preview-%d", i+1) {
			t.Fatalf("session %d: unexpected id %s", i, session.ID)
		}
	}

	t.Run("rejects an invalid template before expanding", func(t *testing.T) {
		t.Parallel()

		bad := tmpl
		bad.StartClock = "25:00"
		_, err := NewEngine(time.UTC, nil).Occurrences(Rule{Type: "unknown"}, bad)
		var vErr *studio.ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected template ValidationError, got %v", err)
		}
	})
}

func TestExpand_CenturiesLongRange(t *testing.T) {
	t.Parallel()

	got, err := Expand(Rule{Type: TypeDaily, StartDate: "1700-01-01", EndDate: "2100-12-31"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 146462 {
		t.Fatalf("expected 146462 dates, got %d", len(got))
	}
	if got[0] != "1700-01-01" || got[len(got)-1] != "2100-12-31" {
		t.Fatalf("unexpected bounds %s..%s", got[0], got[len(got)-1])
	}
}
