package recurrence

import "time"

// Window bounds the dates on which a rule may produce occurrences.
type Window struct {
	// StartsOn anchors the recurrence. Without an anchor the owning entity
	// never occurs.
	StartsOn *time.Time
	// Indefinite disables the end bound entirely: a populated EndsOn is
	// ignored while Indefinite is set. This is a deliberate override, not a
	// data error.
	Indefinite bool
	EndsOn     *time.Time
}

// DateOnly strips the time-of-day from t, keeping the calendar date as
// observed in t's own location. Evaluation and ledger lookups compare dates
// exclusively through this normalization.
func DateOnly(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// OccursOn reports whether the rule fires on the target date within the
// window. Every malformed or out-of-range configuration evaluates to false;
// there is no error path.
func OccursOn(rule Rule, window Window, target time.Time) bool {
	if window.StartsOn == nil {
		return false
	}

	day := DateOnly(target)
	anchor := DateOnly(*window.StartsOn)

	if day.Before(anchor) {
		return false
	}
	if !window.Indefinite && window.EndsOn != nil && day.After(DateOnly(*window.EndsOn)) {
		return false
	}

	interval := rule.Interval
	if interval < 1 {
		interval = 1
	}

	switch rule.Frequency {
	case FrequencyDaily:
		return wholeDaysBetween(anchor, day)%interval == 0
	case FrequencyWeekly:
		weeks := wholeDaysBetween(startOfWeek(anchor), startOfWeek(day)) / 7
		// Week anchoring can disagree with the day-level bound at week
		// boundaries; guard rather than trust the earlier comparison.
		if weeks < 0 {
			return false
		}
		if weeks%interval != 0 {
			return false
		}
		if len(rule.Weekdays) == 0 {
			// A weekly rule without BYDAY repeats the anchor's own weekday.
			return day.Weekday() == anchor.Weekday()
		}
		return containsWeekday(rule.Weekdays, day.Weekday())
	default:
		return false
	}
}

func wholeDaysBetween(from, to time.Time) int {
	return int(to.Sub(from) / (24 * time.Hour))
}

// startOfWeek returns the Monday beginning the week that contains t.
// Monday anchoring is fixed regardless of locale.
func startOfWeek(t time.Time) time.Time {
	day := DateOnly(t)
	return day.AddDate(0, 0, -mondayIndex(day.Weekday()))
}
