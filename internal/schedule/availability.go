package schedule

import (
	"time"

	"groupmeet/internal/dates"
	"groupmeet/internal/model"
)

// ResolveAvailability builds the presenter and notetaker availability
// matrices for the given calendar.
//
// For each participant, their forbidden and forced date-lists are resolved
// into masks over the calendar. Forbidden rows become Unavailable. Every
// meeting within interval of one of their own forced meetings is also marked
// Unavailable, so random picks cannot land right next to a mandatory
// appearance; the forced rows themselves are written last, so Required
// always wins over that padding.
//
// Forced dates bind to the presenter role when the participant can present,
// otherwise to the notetaker role. A participant forced into one role is
// Unavailable for the other role that day; a participant ineligible for a
// role is Unavailable in that role's matrix everywhere.
func ResolveAvailability(calendar []time.Time, participants []model.Participant, interval int) (pres, note model.AvailabilityMatrix) {
	nMeet := len(calendar)
	pres = model.NewAvailabilityMatrix(nMeet, len(participants))
	note = model.NewAvailabilityMatrix(nMeet, len(participants))

	for p, person := range participants {
		forbidden := dates.ParseDateList(person.Forbid, calendar)
		forced := dates.ParseDateList(person.Force, calendar)

		blocked := make([]bool, nMeet)
		required := make([]bool, nMeet)
		for d, day := range calendar {
			blocked[d] = dates.Contains(forbidden, day)
			required[d] = dates.Contains(forced, day)
		}
		padForced(blocked, required, interval)

		for d := 0; d < nMeet; d++ {
			switch {
			case person.Present:
				if blocked[d] {
					pres[d][p] = model.Unavailable
				}
				if required[d] {
					// Forced to present: cannot take notes that day.
					pres[d][p] = model.Required
					note[d][p] = model.Unavailable
				}
				if !person.Notes {
					note[d][p] = model.Unavailable
				} else if blocked[d] {
					note[d][p] = model.Unavailable
				}
			case person.Notes:
				pres[d][p] = model.Unavailable
				if blocked[d] {
					note[d][p] = model.Unavailable
				}
				if required[d] {
					note[d][p] = model.Required
				}
			default:
				pres[d][p] = model.Unavailable
				note[d][p] = model.Unavailable
			}
		}
	}

	return pres, note
}

// padForced extends the blocked mask by interval meetings on each side of
// every required meeting, clipped to the calendar bounds. The required rows
// end up blocked too; callers write Required after the blocked rows, so the
// forced meeting itself stays Required.
func padForced(blocked, required []bool, interval int) {
	for d, req := range required {
		if !req {
			continue
		}
		lo := max(0, d-interval)
		hi := min(d+interval, len(blocked)-1)
		for m := lo; m <= hi; m++ {
			blocked[m] = true
		}
	}
}
