// Package report renders a scheduling result into the human-readable text
// summary: one block per meeting plus per-person totals.
package report

import (
	"fmt"
	"io"
	"os"
	"strings"

	"groupmeet/internal/dates"
	"groupmeet/internal/model"
	"groupmeet/internal/schedule"
)

// Render writes the schedule to w. Meetings where a role could not be fully
// staffed carry an explicit shortfall marker so under-filled slots are
// visible rather than silent.
func Render(w io.Writer, res *schedule.Result, participants []model.Participant, params schedule.Params) error {
	if len(res.Calendar) == 0 {
		_, err := fmt.Fprintln(w, "no meetings scheduled")
		return err
	}

	for d, day := range res.Calendar {
		if _, err := fmt.Fprintln(w, day.Format(dates.Layout)); err != nil {
			return err
		}
		if err := renderRole(w, "presenters", res.Presenters, d, participants, params.Presenters); err != nil {
			return err
		}
		if err := renderRole(w, "notetakers", res.Notetakers, d, participants, params.Notetakers); err != nil {
			return err
		}
	}

	presTotals := res.Presenters.Totals()
	noteTotals := res.Notetakers.Totals()
	for p, person := range participants {
		_, err := fmt.Fprintf(w, "%s presented %d times, took notes %d times\n",
			person.Name, presTotals[p], noteTotals[p])
		if err != nil {
			return err
		}
	}
	return nil
}

func renderRole(w io.Writer, label string, status model.AssignmentMatrix, d int, participants []model.Participant, quota int) error {
	names := make([]string, 0, quota)
	for p, assigned := range status[d] {
		if assigned {
			names = append(names, participants[p].Name)
		}
	}

	line := fmt.Sprintf("%s: %s", label, strings.Join(names, ", "))
	if len(names) < quota {
		line += fmt.Sprintf(" (only %d of %d filled)", len(names), quota)
	}
	_, err := fmt.Fprintln(w, line)
	return err
}

// FileName is the default report path for a date range, e.g.
// schedule_2026-03-02_2026-06-26.txt.
func FileName(start, end string) string {
	return fmt.Sprintf("schedule_%s_%s.txt", start, end)
}

// Save renders the schedule to the given path.
func Save(path string, res *schedule.Result, participants []model.Participant, params schedule.Params) error {
	var b strings.Builder
	if err := Render(&b, res, participants, params); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(b.String()), 0o644)
}
