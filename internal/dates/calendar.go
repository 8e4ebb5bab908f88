package dates

import (
	"sort"
	"strings"
	"time"

	appLog "groupmeet/internal/log"
)

// Layout is the canonical date format used throughout configuration and
// reports.
const Layout = "2006-01-02"

// ParseDate parses a YYYY-MM-DD string into a UTC-midnight time.Time.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(Layout, strings.TrimSpace(s), time.UTC)
}

// SameDate reports whether a and b fall on the same calendar day.
func SameDate(a, b time.Time) bool {
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}

// MeetingDates expands a date range, a set of target weekdays and a weekly
// frequency into the ordered calendar of meeting dates.
//
// For each requested weekday the first occurrence on or after start is found,
// then stepped forward by frequencyWeeks*7 days until past end. The per-day
// sequences are merged, sorted, deduplicated, clipped to [start, end] and any
// globally forbidden date is removed. An empty result is valid: it means no
// meeting fits the range.
func MeetingDates(start, end time.Time, weekdays []time.Weekday, frequencyWeeks int, forbidden []time.Time) []time.Time {
	if frequencyWeeks < 1 {
		frequencyWeeks = 1
	}

	step := time.Duration(frequencyWeeks) * 7 * 24 * time.Hour

	seen := make(map[time.Time]struct{})
	out := make([]time.Time, 0)

	for _, wd := range weekdays {
		// Days forward to the first occurrence of wd on or after start.
		ahead := (int(wd) - int(start.Weekday()) + 7) % 7
		for d := start.AddDate(0, 0, ahead); !d.After(end); d = d.Add(step) {
			if _, dup := seen[d]; dup {
				continue
			}
			seen[d] = struct{}{}
			out = append(out, d)
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })

	if len(forbidden) == 0 {
		return out
	}

	kept := out[:0]
	for _, d := range out {
		blocked := false
		for _, f := range forbidden {
			if SameDate(d, f) {
				blocked = true
				break
			}
		}
		if !blocked {
			kept = append(kept, d)
		}
	}
	return kept
}

// ParseWeekdays converts weekday names (full or three-letter English,
// case-insensitive) into time.Weekday values. An unrecognized name is
// replaced by today's weekday with a warning, mirroring the historical
// behavior of falling back to "today is a meeting day".
func ParseWeekdays(names []string) []time.Weekday {
	out := make([]time.Weekday, 0, len(names))
	for _, name := range names {
		wd, ok := weekdayByName(name)
		if !ok {
			appLog.Warn("invalid meeting weekday, assuming today is a meeting day", "value", name)
			wd = time.Now().Weekday()
		}
		out = append(out, wd)
	}
	return out
}

func weekdayByName(name string) (time.Weekday, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		full := strings.ToLower(wd.String())
		if name == full || name == full[:3] {
			return wd, true
		}
	}
	return 0, false
}
