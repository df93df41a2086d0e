package recurrence

import (
	"testing"
	"time"
)

func TestParseRule(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		raw      string
		want     Rule
	}{
		{
			name: "daily with explicit interval",
			raw:  "FREQ=DAILY;INTERVAL=3",
			want: Rule{Frequency: FrequencyDaily, Interval: 3},
		},
		{
			name: "weekly with byday set",
			raw:  "FREQ=WEEKLY;INTERVAL=2;BYDAY=MO,WE,FR",
			want: Rule{Frequency: FrequencyWeekly, Interval: 2, Weekdays: []time.Weekday{time.Monday, time.Wednesday, time.Friday}},
		},
		{
			name: "keys and values are case-insensitive",
			raw:  "freq=weekly;interval=1;byday=mo,su",
			want: Rule{Frequency: FrequencyWeekly, Interval: 1, Weekdays: []time.Weekday{time.Monday, time.Sunday}},
		},
		{
			name: "interval defaults to one when absent",
			raw:  "FREQ=DAILY",
			want: Rule{Frequency: FrequencyDaily, Interval: 1},
		},
		{
			name: "non-positive interval defaults to one",
			raw:  "FREQ=DAILY;INTERVAL=0",
			want: Rule{Frequency: FrequencyDaily, Interval: 1},
		},
		{
			name: "non-numeric interval defaults to one",
			raw:  "FREQ=DAILY;INTERVAL=often",
			want: Rule{Frequency: FrequencyDaily, Interval: 1},
		},
		{
			name: "unsupported frequency never matches",
			raw:  "FREQ=MONTHLY;INTERVAL=1",
			want: Rule{Frequency: FrequencyUnspecified, Interval: 1},
		},
		{
			name: "absent frequency never matches",
			raw:  "INTERVAL=2;BYDAY=TU",
			want: Rule{Frequency: FrequencyUnspecified, Interval: 2, Weekdays: []time.Weekday{time.Tuesday}},
		},
		{
			name: "unknown tokens are dropped silently",
			raw:  "FREQ=WEEKLY;COUNT=10;nonsense;BYDAY=XX,WE, th ",
			want: Rule{Frequency: FrequencyWeekly, Interval: 1, Weekdays: []time.Weekday{time.Wednesday, time.Thursday}},
		},
		{
			name: "duplicate weekday codes collapse",
			raw:  "FREQ=WEEKLY;BYDAY=MO,mo,MO",
			want: Rule{Frequency: FrequencyWeekly, Interval: 1, Weekdays: []time.Weekday{time.Monday}},
		},
		{
			name: "empty string",
			raw:  "",
			want: Rule{Frequency: FrequencyUnspecified, Interval: 1},
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got := ParseRule(tc.raw)
			if got.Frequency != tc.want.Frequency {
				t.Errorf("frequency = %v, want %v", got.Frequency, tc.want.Frequency)
			}
			if got.Interval != tc.want.Interval {
				t.Errorf("interval = %d, want %d", got.Interval, tc.want.Interval)
			}
			if len(got.Weekdays) != len(tc.want.Weekdays) {
				t.Fatalf("weekdays = %v, want %v", got.Weekdays, tc.want.Weekdays)
			}
			for i, day := range tc.want.Weekdays {
				if got.Weekdays[i] != day {
					t.Errorf("weekdays[%d] = %v, want %v", i, got.Weekdays[i], day)
				}
			}
		})
	}
}

func TestRuleString_RoundTrips(t *testing.T) {
	t.Parallel()

	anchor := time.Date(2025, time.January, 6, 0, 0, 0, 0, time.UTC)
	window := Window{StartsOn: &anchor, Indefinite: true}

	rules := []string{
		"FREQ=DAILY;INTERVAL=1",
		"FREQ=DAILY;INTERVAL=4",
		"FREQ=WEEKLY;INTERVAL=1",
		"FREQ=WEEKLY;INTERVAL=2;BYDAY=MO,WE",
		"FREQ=WEEKLY;INTERVAL=3;BYDAY=SA,SU",
	}

	for _, raw := range rules {
		raw := raw
		t.Run(raw, func(t *testing.T) {
			t.Parallel()

			parsed := ParseRule(raw)
			rendered := parsed.String()
			if rendered != raw {
				t.Fatalf("String() = %q, want %q", rendered, raw)
			}

			reparsed := ParseRule(rendered)
			for offset := 0; offset < 60; offset++ {
				target := anchor.AddDate(0, 0, offset)
				if OccursOn(parsed, window, target) != OccursOn(reparsed, window, target) {
					t.Fatalf("evaluation diverged after round trip on %s", target.Format("2006-01-02"))
				}
			}
		})
	}
}

func TestRuleString_UnsupportedFrequencyIsEmpty(t *testing.T) {
	t.Parallel()

	if got := (Rule{}).String(); got != "" {
		t.Fatalf("String() = %q, want empty string", got)
	}
}
