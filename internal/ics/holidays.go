package ics

import (
	"bytes"
	"errors"
	"sort"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/teambition/rrule-go"

	appLog "groupmeet/internal/log"
)

// occurrenceCap bounds RRULE expansion per event, so a malformed unbounded
// rule cannot blow up a run.
const occurrenceCap = 1000

// HolidayDates extracts the days covered by a holiday ICS feed inside
// [rangeStart, rangeEnd]. Recurring events (annual public holidays carry
// RRULEs) are expanded into concrete occurrences; unparseable events are
// skipped with a warning so one bad VEVENT cannot sink the feed.
func HolidayDates(body []byte, rangeStart, rangeEnd time.Time) ([]time.Time, error) {
	if len(body) == 0 {
		return nil, errors.New("empty ICS body")
	}

	cal, err := ical.ParseCalendar(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	seen := make(map[time.Time]struct{})
	out := make([]time.Time, 0)
	add := func(t time.Time) {
		day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
		if day.Before(rangeStart) || day.After(rangeEnd) {
			return
		}
		if _, dup := seen[day]; dup {
			return
		}
		seen[day] = struct{}{}
		out = append(out, day)
	}

	for _, ve := range cal.Events() {
		start, err := eventStart(ve)
		if err != nil {
			appLog.Warn("holiday event has no usable start, skipping", "err", err)
			continue
		}

		rruleProp := ve.GetProperty(ical.ComponentPropertyRrule)
		if rruleProp == nil || rruleProp.Value == "" {
			add(start)
			continue
		}

		r, err := rrule.StrToRRule(rruleProp.Value)
		if err != nil {
			appLog.Warn("holiday event has invalid RRULE, using its start only",
				"rrule", rruleProp.Value, "err", err)
			add(start)
			continue
		}
		r.DTStart(start)

		occ := r.Between(rangeStart.In(start.Location()), rangeEnd.In(start.Location()).Add(24*time.Hour), true)
		if len(occ) > occurrenceCap {
			appLog.Warn("holiday RRULE expansion truncated", "cap", occurrenceCap)
			occ = occ[:occurrenceCap]
		}
		for _, t := range occ {
			add(t)
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out, nil
}

// eventStart resolves a VEVENT's start, trying the timed form first and the
// all-day (VALUE=DATE) form second.
func eventStart(ve *ical.VEvent) (time.Time, error) {
	if start, err := ve.GetStartAt(); err == nil {
		return start, nil
	}
	return ve.GetAllDayStartAt()
}
