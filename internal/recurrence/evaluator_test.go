package recurrence

import (
	"testing"
	"time"
)

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func datePtr(t time.Time) *time.Time {
	return &t
}

func TestOccursOn_NormalizesTimeOfDay(t *testing.T) {
	t.Parallel()

	anchor := time.Date(2025, time.March, 10, 14, 30, 0, 0, time.UTC)
	rule := ParseRule("FREQ=DAILY;INTERVAL=1")
	window := Window{StartsOn: &anchor, Indefinite: true}

	midnight := date(2025, time.March, 10)
	lateEvening := time.Date(2025, time.March, 10, 23, 59, 0, 0, time.UTC)

	if !OccursOn(rule, window, midnight) {
		t.Fatal("expected rule to occur at midnight on the anchor date")
	}
	if OccursOn(rule, window, midnight) != OccursOn(rule, window, lateEvening) {
		t.Fatal("evaluation must not depend on time-of-day")
	}
}

func TestOccursOn_DailyInterval(t *testing.T) {
	t.Parallel()

	rule := ParseRule("FREQ=DAILY;INTERVAL=3")
	window := Window{StartsOn: datePtr(date(2025, time.January, 1)), Indefinite: true}

	tests := []struct {
		target time.Time
		want   bool
	}{
		{date(2025, time.January, 1), true},
		{date(2025, time.January, 2), false},
		{date(2025, time.January, 3), false},
		{date(2025, time.January, 4), true},
		{date(2025, time.January, 7), true},
		{date(2024, time.December, 29), false}, // before anchor, even on the period
	}

	for _, tc := range tests {
		if got := OccursOn(rule, window, tc.target); got != tc.want {
			t.Errorf("OccursOn(%s) = %v, want %v", tc.target.Format("2006-01-02"), got, tc.want)
		}
	}
}

func TestOccursOn_WeeklyWithExplicitDays(t *testing.T) {
	t.Parallel()

	// Anchor 2025-01-06 is a Monday; interval 2 selects weeks 0, 2, 4, ...
	rule := ParseRule("FREQ=WEEKLY;INTERVAL=2;BYDAY=MO,WE")
	window := Window{StartsOn: datePtr(date(2025, time.January, 6)), Indefinite: true}

	tests := []struct {
		target time.Time
		want   bool
	}{
		{date(2025, time.January, 6), true},   // Monday, week 0
		{date(2025, time.January, 8), true},   // Wednesday, week 0
		{date(2025, time.January, 7), false},  // Tuesday not in BYDAY
		{date(2025, time.January, 13), false}, // Monday, week 1: wrong parity
		{date(2025, time.January, 15), false}, // Wednesday, week 1
		{date(2025, time.January, 20), true},  // Monday, week 2
		{date(2025, time.January, 22), true},  // Wednesday, week 2
	}

	for _, tc := range tests {
		if got := OccursOn(rule, window, tc.target); got != tc.want {
			t.Errorf("OccursOn(%s) = %v, want %v", tc.target.Format("2006-01-02"), got, tc.want)
		}
	}
}

func TestOccursOn_WeeklyWithoutByDayUsesAnchorWeekday(t *testing.T) {
	t.Parallel()

	// Anchor 2025-01-02 is a Thursday.
	rule := ParseRule("FREQ=WEEKLY;INTERVAL=1")
	window := Window{StartsOn: datePtr(date(2025, time.January, 2)), Indefinite: true}

	for offset := 0; offset < 28; offset++ {
		target := date(2025, time.January, 2).AddDate(0, 0, offset)
		want := target.Weekday() == time.Thursday
		if got := OccursOn(rule, window, target); got != want {
			t.Errorf("OccursOn(%s, %s) = %v, want %v", target.Format("2006-01-02"), target.Weekday(), got, want)
		}
	}
}

func TestOccursOn_WeeklyMidweekAnchor(t *testing.T) {
	t.Parallel()

	// Anchor 2025-01-08 is a Wednesday. Monday and Tuesday of the anchor
	// week fall before the anchor and must not occur, even though their
	// week matches the interval.
	rule := ParseRule("FREQ=WEEKLY;INTERVAL=1;BYDAY=MO,TU,WE")
	window := Window{StartsOn: datePtr(date(2025, time.January, 8)), Indefinite: true}

	if OccursOn(rule, window, date(2025, time.January, 6)) {
		t.Error("Monday before the anchor must not occur")
	}
	if OccursOn(rule, window, date(2025, time.January, 7)) {
		t.Error("Tuesday before the anchor must not occur")
	}
	if !OccursOn(rule, window, date(2025, time.January, 8)) {
		t.Error("anchor Wednesday should occur")
	}
	if !OccursOn(rule, window, date(2025, time.January, 13)) {
		t.Error("Monday of the following week should occur")
	}
}

func TestOccursOn_IndefiniteOverridesEndDate(t *testing.T) {
	t.Parallel()

	rule := ParseRule("FREQ=DAILY;INTERVAL=1")
	window := Window{
		StartsOn:   datePtr(date(2025, time.January, 1)),
		Indefinite: true,
		EndsOn:     datePtr(date(2025, time.January, 10)),
	}

	if !OccursOn(rule, window, date(2025, time.June, 1)) {
		t.Fatal("indefinite window must ignore a populated end date")
	}

	window.Indefinite = false
	if OccursOn(rule, window, date(2025, time.June, 1)) {
		t.Fatal("bounded window must honor the end date")
	}
	if !OccursOn(rule, window, date(2025, time.January, 10)) {
		t.Fatal("the end date itself is inclusive")
	}
}

func TestOccursOn_AbsentAnchorNeverOccurs(t *testing.T) {
	t.Parallel()

	rules := []string{
		"FREQ=DAILY;INTERVAL=1",
		"FREQ=WEEKLY;INTERVAL=1;BYDAY=MO,TU,WE,TH,FR,SA,SU",
		"",
		"garbage",
	}

	for _, raw := range rules {
		rule := ParseRule(raw)
		for _, window := range []Window{
			{},
			{Indefinite: true},
			{EndsOn: datePtr(date(2030, time.January, 1))},
		} {
			for offset := 0; offset < 14; offset++ {
				target := date(2025, time.January, 1).AddDate(0, 0, offset)
				if OccursOn(rule, window, target) {
					t.Fatalf("rule %q occurred on %s without an anchor date", raw, target.Format("2006-01-02"))
				}
			}
		}
	}
}

func TestOccursOn_UnsupportedFrequencyNeverOccurs(t *testing.T) {
	t.Parallel()

	rule := ParseRule("FREQ=MONTHLY;INTERVAL=1")
	window := Window{StartsOn: datePtr(date(2025, time.January, 1)), Indefinite: true}

	for offset := 0; offset < 60; offset++ {
		target := date(2025, time.January, 1).AddDate(0, 0, offset)
		if OccursOn(rule, window, target) {
			t.Fatalf("unsupported frequency occurred on %s", target.Format("2006-01-02"))
		}
	}
}

func TestDateOnly(t *testing.T) {
	t.Parallel()

	stamp := time.Date(2025, time.March, 10, 23, 59, 59, 999, time.UTC)
	want := date(2025, time.March, 10)
	if got := DateOnly(stamp); !got.Equal(want) {
		t.Fatalf("DateOnly = %v, want %v", got, want)
	}
}
