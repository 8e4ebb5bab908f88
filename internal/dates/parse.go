package dates

import (
	"strings"
	"time"

	appLog "groupmeet/internal/log"
)

// Date-list specifications name concrete dates for a participant or for the
// whole schedule. A spec is a comma-separated list whose entries are either a
// single date:
//
//	2026-03-04
//
// or an inclusive range wrapped in parentheses with an underscore separator:
//
//	(2026-03-02_2026-03-13)
//
// A range resolves to the calendar's meeting dates inside it; a single date
// is kept as-is and intersected with the calendar later. Malformed entries
// and zero-length ranges are skipped with a warning; parsing always returns
// whatever could be understood.

const (
	listSep    = ","
	rangeOpen  = "("
	rangeClose = ")"
	rangeSep   = "_"
)

// ParseDateList resolves a date-list specification against the meeting
// calendar.
func ParseDateList(spec string, calendar []time.Time) []time.Time {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return nil
	}

	out := make([]time.Time, 0)
	for _, entry := range strings.Split(spec, listSep) {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		if strings.HasPrefix(entry, rangeOpen) {
			out = append(out, parseRange(entry, calendar)...)
			continue
		}
		d, err := ParseDate(entry)
		if err != nil {
			appLog.Warn("invalid date in date list, skipping", "entry", entry)
			continue
		}
		out = append(out, d)
	}
	return out
}

func parseRange(entry string, calendar []time.Time) []time.Time {
	body := strings.TrimSuffix(strings.TrimPrefix(entry, rangeOpen), rangeClose)
	bounds := strings.SplitN(body, rangeSep, 2)
	if len(bounds) != 2 {
		appLog.Warn("invalid date range, skipping", "entry", entry)
		return nil
	}

	start, err := ParseDate(bounds[0])
	if err != nil {
		appLog.Warn("invalid range start, skipping", "entry", entry)
		return nil
	}
	end, err := ParseDate(bounds[1])
	if err != nil {
		appLog.Warn("invalid range end, skipping", "entry", entry)
		return nil
	}
	if start.Equal(end) {
		appLog.Warn("zero-length date range, skipping", "entry", entry)
		return nil
	}
	if end.Before(start) {
		start, end = end, start
	}

	out := make([]time.Time, 0)
	for _, d := range calendar {
		if !d.Before(start) && !d.After(end) {
			out = append(out, d)
		}
	}
	return out
}

// Contains reports whether the list holds a date on the same day as d.
func Contains(list []time.Time, d time.Time) bool {
	for _, l := range list {
		if SameDate(l, d) {
			return true
		}
	}
	return false
}
