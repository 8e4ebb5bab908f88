package ics

import (
	"fmt"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"

	"groupmeet/internal/model"
	"groupmeet/internal/schedule"
)

// ExportSchedule renders the finished schedule as an iCalendar payload: one
// all-day VEVENT per meeting with the presenters and notetakers in the
// description, ready to import into any calendar client.
func ExportSchedule(res *schedule.Result, participants []model.Participant) string {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId("-//groupmeet//schedule//EN")

	now := time.Now().UTC()

	for d, day := range res.Calendar {
		uid := fmt.Sprintf("groupmeet-%s@groupmeet", day.Format("20060102"))
		ev := cal.AddEvent(uid)
		ev.SetDtStampTime(now)
		ev.SetAllDayStartAt(day)
		ev.SetAllDayEndAt(day.AddDate(0, 0, 1))
		ev.SetSummary("Group meeting: " + joinAssigned(res.Presenters, d, participants))
		ev.SetDescription(fmt.Sprintf("Presenters: %s\nNotetakers: %s",
			joinAssigned(res.Presenters, d, participants),
			joinAssigned(res.Notetakers, d, participants)))
	}

	return cal.Serialize()
}

func joinAssigned(status model.AssignmentMatrix, d int, participants []model.Participant) string {
	names := make([]string, 0)
	for p, assigned := range status[d] {
		if assigned {
			names = append(names, participants[p].Name)
		}
	}
	if len(names) == 0 {
		return "(unassigned)"
	}
	return strings.Join(names, ", ")
}
