package schedule

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"groupmeet/internal/model"
)

func runSession(t *testing.T, participants []model.Participant, params Params) *Result {
	t.Helper()
	sess, err := NewSession(sixWednesdays(t), participants, params)
	require.NoError(t, err)
	return sess.Run()
}

// requireSpacing asserts that no participant holds the role twice within
// interval meetings, except where one of the two rows was Required.
func requireSpacing(t *testing.T, status model.AssignmentMatrix, avail model.AvailabilityMatrix, interval int) {
	t.Helper()
	for p := 0; p < len(status[0]); p++ {
		for d := 0; d < len(status); d++ {
			if !status[d][p] {
				continue
			}
			for m := d + 1; m <= d+interval && m < len(status); m++ {
				if !status[m][p] {
					continue
				}
				if avail[d][p] == model.Required || avail[m][p] == model.Required {
					continue
				}
				t.Fatalf("participant %d holds the role at meetings %d and %d, interval %d", p, d, m, interval)
			}
		}
	}
}

func TestAssignBalancedScenario(t *testing.T) {
	// Six weekly meetings, four unconstrained participants, two presenters
	// and two notetakers per meeting, cooldown of one meeting.
	participants := []model.Participant{both("ana"), both("ben"), both("cal"), both("dee")}
	params := Params{Presenters: 2, Notetakers: 2, Interval: 1, Seed: 9}

	res := runSession(t, participants, params)

	for d := range res.Calendar {
		require.Equal(t, 2, res.Presenters.RowCount(d), "meeting %d presenters", d)
		require.Equal(t, 2, res.Notetakers.RowCount(d), "meeting %d notetakers", d)
		for p := range participants {
			require.False(t, res.Presenters[d][p] && res.Notetakers[d][p],
				"participant %d presents and takes notes at meeting %d", p, d)
		}
	}

	// Fairness cap is ceil(6*2/4) = 3; with full staffing everyone lands
	// between two and three turns per role.
	for p, n := range res.Presenters.Totals() {
		require.GreaterOrEqual(t, n, 2, "participant %d presenter turns", p)
		require.LessOrEqual(t, n, 3, "participant %d presenter turns", p)
	}
	for p, n := range res.Notetakers.Totals() {
		require.GreaterOrEqual(t, n, 2, "participant %d notetaker turns", p)
		require.LessOrEqual(t, n, 3, "participant %d notetaker turns", p)
	}

	requireSpacing(t, res.Presenters, res.PresenterAvailability, params.Interval)
	requireSpacing(t, res.Notetakers, res.NotetakerAvailability, params.Interval)
}

func TestAssignDeterministic(t *testing.T) {
	participants := []model.Participant{
		both("ana"), both("ben"), both("cal"), both("dee"),
		{Name: "eli", Present: true, Notes: false, Forbid: "2026-03-11"},
		{Name: "fay", Present: false, Notes: true, Force: "2026-03-25"},
	}
	params := Params{Presenters: 2, Notetakers: 2, Interval: 2, Seed: 42}

	a := runSession(t, participants, params)
	b := runSession(t, participants, params)

	require.Empty(t, cmp.Diff(a.Presenters, b.Presenters))
	require.Empty(t, cmp.Diff(a.Notetakers, b.Notetakers))
}

func TestAssignSeedChangesDraws(t *testing.T) {
	participants := []model.Participant{
		both("ana"), both("ben"), both("cal"), both("dee"),
		both("eli"), both("fay"), both("gus"), both("hal"),
	}
	a := runSession(t, participants, Params{Presenters: 3, Notetakers: 3, Interval: 1, Seed: 1})
	b := runSession(t, participants, Params{Presenters: 3, Notetakers: 3, Interval: 1, Seed: 2})

	if cmp.Diff(a.Presenters, b.Presenters) == "" && cmp.Diff(a.Notetakers, b.Notetakers) == "" {
		t.Fatal("different seeds produced identical schedules; the generator is not being used")
	}
}

func TestAssignHonorsForcedDates(t *testing.T) {
	p := both("ana")
	p.Force = "2026-03-18"
	participants := []model.Participant{p, both("ben"), both("cal"), both("dee")}

	res := runSession(t, participants, Params{Presenters: 2, Notetakers: 2, Interval: 1, Seed: 7})

	require.True(t, res.Presenters[2][0], "forced presenter must be assigned")
	require.False(t, res.Notetakers[2][0], "forced presenter cannot take notes that day")
}

func TestAssignQuotaNeverExceeded(t *testing.T) {
	participants := []model.Participant{
		both("ana"), both("ben"), both("cal"), both("dee"), both("eli"),
	}
	res := runSession(t, participants, Params{Presenters: 1, Notetakers: 2, Interval: 0, Seed: 3})

	for d := range res.Calendar {
		require.LessOrEqual(t, res.Presenters.RowCount(d), 1)
		require.LessOrEqual(t, res.Notetakers.RowCount(d), 2)
	}
}

func TestAssignUnderFilledMeetings(t *testing.T) {
	// Two participants cannot staff two presenter slots with a cooldown:
	// shortfalls are recorded as data, never as an error.
	participants := []model.Participant{both("ana"), both("ben")}
	res := runSession(t, participants, Params{Presenters: 2, Notetakers: 2, Interval: 2, Seed: 5})

	for d := range res.Calendar {
		require.LessOrEqual(t, res.Presenters.RowCount(d), 2)
	}
	short := 0
	for d := range res.Calendar {
		if res.Presenters.RowCount(d) < 2 {
			short++
		}
	}
	require.Positive(t, short, "expected at least one under-filled meeting")
}

func TestAssignIneligibleNeverPicked(t *testing.T) {
	participants := []model.Participant{
		{Name: "ana", Present: true, Notes: false},
		{Name: "ben", Present: false, Notes: true},
		both("cal"), both("dee"),
	}
	res := runSession(t, participants, Params{Presenters: 1, Notetakers: 1, Interval: 1, Seed: 11})

	for d := range res.Calendar {
		require.False(t, res.Presenters[d][1], "non-presenter picked to present")
		require.False(t, res.Notetakers[d][0], "non-notetaker picked for notes")
	}
}
