package recurrence

import (
	"sort"
	"strconv"
	"strings"
	"time"
)

// Frequency represents supported recurrence cadences.
type Frequency int

const (
	// FrequencyUnspecified indicates the rule frequency is not set or not
	// supported. Rules with this frequency never produce an occurrence.
	FrequencyUnspecified Frequency = iota
	// FrequencyDaily repeats every Interval days from the anchor date.
	FrequencyDaily
	// FrequencyWeekly repeats on selected weekdays every Interval weeks.
	FrequencyWeekly
)

// Rule describes a parsed recurrence configuration for a job or assignment.
type Rule struct {
	Frequency Frequency
	Interval  int
	Weekdays  []time.Weekday
}

var weekdayByCode = map[string]time.Weekday{
	"MO": time.Monday,
	"TU": time.Tuesday,
	"WE": time.Wednesday,
	"TH": time.Thursday,
	"FR": time.Friday,
	"SA": time.Saturday,
	"SU": time.Sunday,
}

var codeByWeekday = map[time.Weekday]string{
	time.Monday:    "MO",
	time.Tuesday:   "TU",
	time.Wednesday: "WE",
	time.Thursday:  "TH",
	time.Friday:    "FR",
	time.Saturday:  "SA",
	time.Sunday:    "SU",
}

// ParseRule interprets a recurrence rule string of the form
// FREQ=WEEKLY;INTERVAL=2;BYDAY=MO,WE,FR. Keys, frequency names, and weekday
// codes are case-insensitive. Malformed or unknown tokens are dropped rather
// than reported: a rule that cannot be understood evaluates to "never
// occurs", so a broken recurrence disables one job instead of failing the
// whole listing. ParseRule never returns an error.
func ParseRule(raw string) Rule {
	rule := Rule{Frequency: FrequencyUnspecified, Interval: 1}

	for _, token := range strings.Split(raw, ";") {
		key, value, ok := strings.Cut(token, "=")
		if !ok {
			continue
		}
		key = strings.ToUpper(strings.TrimSpace(key))
		value = strings.TrimSpace(value)

		switch key {
		case "FREQ":
			switch strings.ToUpper(value) {
			case "DAILY":
				rule.Frequency = FrequencyDaily
			case "WEEKLY":
				rule.Frequency = FrequencyWeekly
			}
		case "INTERVAL":
			if interval, err := strconv.Atoi(value); err == nil && interval > 0 {
				rule.Interval = interval
			}
		case "BYDAY":
			for _, code := range strings.Split(value, ",") {
				day, known := weekdayByCode[strings.ToUpper(strings.TrimSpace(code))]
				if !known {
					continue
				}
				if !containsWeekday(rule.Weekdays, day) {
					rule.Weekdays = append(rule.Weekdays, day)
				}
			}
		}
	}

	sortWeekdays(rule.Weekdays)
	return rule
}

// String renders the rule in the wire format understood by ParseRule. The
// output of String always re-parses to a rule with identical evaluation
// behavior. Rules without a supported frequency render as the empty string.
func (r Rule) String() string {
	var freq string
	switch r.Frequency {
	case FrequencyDaily:
		freq = "DAILY"
	case FrequencyWeekly:
		freq = "WEEKLY"
	default:
		return ""
	}

	interval := r.Interval
	if interval < 1 {
		interval = 1
	}

	var builder strings.Builder
	builder.WriteString("FREQ=")
	builder.WriteString(freq)
	builder.WriteString(";INTERVAL=")
	builder.WriteString(strconv.Itoa(interval))

	if len(r.Weekdays) > 0 {
		days := make([]time.Weekday, len(r.Weekdays))
		copy(days, r.Weekdays)
		sortWeekdays(days)

		codes := make([]string, 0, len(days))
		for _, day := range days {
			codes = append(codes, codeByWeekday[day])
		}
		builder.WriteString(";BYDAY=")
		builder.WriteString(strings.Join(codes, ","))
	}

	return builder.String()
}

func containsWeekday(days []time.Weekday, target time.Weekday) bool {
	for _, day := range days {
		if day == target {
			return true
		}
	}
	return false
}

// sortWeekdays orders weekdays Monday first, matching the week anchoring
// used by evaluation.
func sortWeekdays(days []time.Weekday) {
	sort.Slice(days, func(i, j int) bool {
		return mondayIndex(days[i]) < mondayIndex(days[j])
	})
}

func mondayIndex(day time.Weekday) int {
	return (int(day) + 6) % 7
}
