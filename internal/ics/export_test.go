package ics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"groupmeet/internal/dates"
	"groupmeet/internal/model"
	"groupmeet/internal/schedule"
)

func TestExportSchedule(t *testing.T) {
	day, err := dates.ParseDate("2026-03-04")
	require.NoError(t, err)

	res := &schedule.Result{
		Calendar:   []time.Time{day},
		Presenters: model.NewAssignmentMatrix(1, 2),
		Notetakers: model.NewAssignmentMatrix(1, 2),
	}
	res.Presenters[0][0] = true
	res.Notetakers[0][1] = true

	participants := []model.Participant{
		{Name: "ana", Present: true, Notes: true},
		{Name: "ben", Present: true, Notes: true},
	}

	out := ExportSchedule(res, participants)

	require.Contains(t, out, "BEGIN:VCALENDAR")
	require.Contains(t, out, "END:VCALENDAR")
	require.Contains(t, out, "UID:groupmeet-20260304@groupmeet")
	require.Contains(t, out, "DTSTART;VALUE=DATE:20260304")
	require.Contains(t, out, "DTEND;VALUE=DATE:20260305")
	require.Contains(t, out, "SUMMARY:Group meeting: ana")
	require.Contains(t, out, "Presenters: ana")
	require.Contains(t, out, "Notetakers: ben")
}

func TestExportScheduleUnassignedSlots(t *testing.T) {
	day, err := dates.ParseDate("2026-03-04")
	require.NoError(t, err)

	res := &schedule.Result{
		Calendar:   []time.Time{day},
		Presenters: model.NewAssignmentMatrix(1, 1),
		Notetakers: model.NewAssignmentMatrix(1, 1),
	}

	out := ExportSchedule(res, []model.Participant{{Name: "ana"}})
	require.Contains(t, out, "(unassigned)")
}
