package schedule

import (
	appLog "groupmeet/internal/log"
	"groupmeet/internal/model"
)

// Assign fills both roles for every meeting and returns the assignment
// matrices. Presenter slots for the whole calendar are resolved first, then
// notetaker slots: presenter picks mark the picked people unavailable for
// notetaking that day, and the notetaker pass must see the final presenter
// outcome, not an intermediate state.
//
// The passed matrices are treated as the live availability state and are
// mutated as side effects propagate; callers that need the resolved
// snapshots must clone them first.
func (s *Session) Assign(pres, note model.AvailabilityMatrix) (model.AssignmentMatrix, model.AssignmentMatrix) {
	nMeet := len(s.Calendar)
	nPeople := len(s.Participants)

	presenters := 0
	noters := 0
	for _, p := range s.Participants {
		if p.Present {
			presenters++
		}
		if p.Notes {
			noters++
		}
	}

	pStatus := prefillRequired(pres, nMeet, nPeople)
	nStatus := prefillRequired(note, nMeet, nPeople)

	// Snapshot both matrices before any side effect lands; the fallback
	// pools must see the resolver's output, not intermediate mutations.
	pOrig := pres.Clone()
	nOrig := note.Clone()

	s.fillRole(roleFill{
		name:     "presenter",
		live:     pres,
		orig:     pOrig,
		status:   pStatus,
		opposite: note,
		quota:    s.Params.Presenters,
		cap:      fairCap(nMeet, s.Params.Presenters, presenters),
	})
	s.fillRole(roleFill{
		name:     "notetaker",
		live:     note,
		orig:     nOrig,
		status:   nStatus,
		opposite: pres,
		quota:    s.Params.Notetakers,
		cap:      fairCap(nMeet, s.Params.Notetakers, noters),
	})

	return pStatus, nStatus
}

// fairCap is the soft maximum number of times one person should fill a role:
// ceil(meetings * slots / eligible). Zero eligible people disables the cap;
// every draw will come up empty anyway.
func fairCap(meetings, quota, eligible int) int {
	if eligible == 0 {
		return 0
	}
	return (meetings*quota + eligible - 1) / eligible
}

// prefillRequired seeds an assignment matrix from the Required cells of the
// availability matrix. Forced assignments are in place before any random
// draw happens.
func prefillRequired(avail model.AvailabilityMatrix, nMeet, nPeople int) model.AssignmentMatrix {
	status := model.NewAssignmentMatrix(nMeet, nPeople)
	for d := 0; d < nMeet; d++ {
		for p := 0; p < nPeople; p++ {
			if avail[d][p] == model.Required {
				status[d][p] = true
			}
		}
	}
	return status
}

// roleFill bundles the per-role state threaded through one filling pass.
type roleFill struct {
	name     string
	live     model.AvailabilityMatrix // mutated by side effects
	orig     model.AvailabilityMatrix // resolved snapshot for the fallback pool
	status   model.AssignmentMatrix
	opposite model.AvailabilityMatrix // the other role's live matrix
	quota    int
	cap      int
}

// fillRole walks the calendar in order and fills the role's remaining slots
// at each meeting by a seeded random draw without replacement.
//
// Candidates come from the live availability, which earlier meetings have
// already mutated. When that pool is smaller than the shortfall, the pool is
// rebuilt from the resolved snapshot instead, keeping only people whose
// nearest prior assignment of this role is more than interval meetings away.
// If even that pool is too small the meeting stays under-filled; there is no
// further relaxation.
func (s *Session) fillRole(r roleFill) {
	nMeet := len(r.live)
	interval := s.Params.Interval

	counts := r.status.Totals()

	for d := 0; d < nMeet; d++ {
		have := r.status.RowCount(d)
		if have >= r.quota {
			continue
		}
		remaining := r.quota - have

		pool := availableAt(r.live, d)
		if len(pool) < remaining {
			pool = s.fallbackPool(r, d)
		}

		chosen := s.draw(pool, remaining)
		if len(chosen) < remaining {
			appLog.Warn("not enough candidates, leaving meeting under-filled",
				"role", r.name,
				"date", s.Calendar[d].Format("2006-01-02"),
				"filled", have+len(chosen),
				"quota", r.quota,
			)
		}

		for _, c := range chosen {
			r.status[d][c] = true
			counts[c]++

			// Not pickable again at this meeting, for either role.
			r.live[d][c] = model.Required
			r.opposite[d][c] = model.Unavailable

			// Cooldown window around this meeting, both directions. Required
			// entries are never overwritten.
			lo := max(0, d-interval)
			hi := min(d+interval, nMeet-1)
			for m := lo; m <= hi; m++ {
				if r.live[m][c] != model.Required {
					r.live[m][c] = model.Unavailable
				}
			}
		}

		// Anyone at or past the fairness cap sits out the remaining meetings
		// unless a forced date says otherwise.
		if r.cap > 0 {
			for p, n := range counts {
				if n < r.cap {
					continue
				}
				for m := d + 1; m < nMeet; m++ {
					if r.live[m][p] != model.Required {
						r.live[m][p] = model.Unavailable
					}
				}
			}
		}
	}
}

// availableAt lists the participants with Available status at meeting d.
func availableAt(avail model.AvailabilityMatrix, d int) []int {
	out := make([]int, 0, len(avail[d]))
	for p, a := range avail[d] {
		if a == model.Available {
			out = append(out, p)
		}
	}
	return out
}

// fallbackPool rebuilds the candidate pool for meeting d from the resolved
// availability snapshot, applying the cooldown directly: a candidate is kept
// only if every meeting where they already hold this role is more than
// interval away from d.
func (s *Session) fallbackPool(r roleFill, d int) []int {
	out := make([]int, 0)
	for _, p := range availableAt(r.orig, d) {
		tooClose := false
		for m := range r.status {
			if r.status[m][p] && abs(d-m) <= s.Params.Interval {
				tooClose = true
				break
			}
		}
		if !tooClose {
			out = append(out, p)
		}
	}
	return out
}

// draw picks k distinct entries from pool uniformly at random using the
// session generator. If the pool holds k or fewer entries, the whole pool is
// returned and no randomness is consumed.
func (s *Session) draw(pool []int, k int) []int {
	if k >= len(pool) {
		return pool
	}
	picked := append([]int(nil), pool...)
	for i := 0; i < k; i++ {
		j := i + s.rnd.Intn(len(picked)-i)
		picked[i], picked[j] = picked[j], picked[i]
	}
	return picked[:k]
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
