// Package schedule contains the core of the scheduler: resolving
// per-participant availability over the meeting calendar and filling
// presenter and notetaker slots by constrained random draws.
package schedule

import (
	"fmt"
	"math/rand"
	"time"

	appLog "groupmeet/internal/log"
	"groupmeet/internal/model"
)

// Params are the scheduling knobs.
type Params struct {
	// Presenters and Notetakers are the per-meeting quotas.
	Presenters int
	Notetakers int

	// Interval is the cooldown, in meetings, before a participant may repeat
	// a role.
	Interval int

	// Seed drives every random draw. Identical inputs plus identical seed
	// reproduce the schedule exactly.
	Seed int64
}

// Session owns one scheduling run: the calendar, the participant records and
// a private random generator. Sessions are single-threaded and not reusable
// across runs; construct a new one per schedule.
type Session struct {
	Calendar     []time.Time
	Participants []model.Participant
	Params       Params

	rnd *rand.Rand
}

// Result is the output of a run. The availability matrices are the resolved,
// pre-assignment snapshots; the assignment matrices are the final schedule.
type Result struct {
	Calendar []time.Time

	PresenterAvailability model.AvailabilityMatrix
	NotetakerAvailability model.AvailabilityMatrix

	Presenters model.AssignmentMatrix
	Notetakers model.AssignmentMatrix
}

// NewSession validates the inputs and builds a session. Structural problems
// (no participants, impossible quotas, a participant forced into a role they
// are eligible for in no form) are rejected here, before any computation.
func NewSession(calendar []time.Time, participants []model.Participant, params Params) (*Session, error) {
	if len(participants) == 0 {
		return nil, fmt.Errorf("no participants configured")
	}
	if params.Presenters < 1 {
		return nil, fmt.Errorf("presenters per meeting must be positive, got %d", params.Presenters)
	}
	if params.Notetakers < 1 {
		return nil, fmt.Errorf("notetakers per meeting must be positive, got %d", params.Notetakers)
	}
	if params.Interval < 0 {
		return nil, fmt.Errorf("interval must not be negative, got %d", params.Interval)
	}
	for _, p := range participants {
		if p.Force != "" && !p.Present && !p.Notes {
			return nil, fmt.Errorf("participant %q has forced dates but is eligible for no role", p.Name)
		}
	}

	return &Session{
		Calendar:     calendar,
		Participants: participants,
		Params:       params,
		rnd:          rand.New(rand.NewSource(params.Seed)),
	}, nil
}

// Run resolves availability and fills both roles for every meeting.
func (s *Session) Run() *Result {
	res := &Result{Calendar: s.Calendar}

	if len(s.Calendar) == 0 {
		appLog.Warn("no meetings fall in the configured range, nothing to schedule")
		res.Presenters = model.NewAssignmentMatrix(0, len(s.Participants))
		res.Notetakers = model.NewAssignmentMatrix(0, len(s.Participants))
		return res
	}

	pres, note := ResolveAvailability(s.Calendar, s.Participants, s.Params.Interval)
	res.PresenterAvailability = pres.Clone()
	res.NotetakerAvailability = note.Clone()

	res.Presenters, res.Notetakers = s.Assign(pres, note)
	return res
}
