package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"groupmeet/internal/dates"
	"groupmeet/internal/model"
	"groupmeet/internal/schedule"
)

func fixtureResult(t *testing.T) (*schedule.Result, []model.Participant) {
	t.Helper()

	start, err := dates.ParseDate("2026-03-04")
	require.NoError(t, err)
	calendar := []time.Time{start, start.AddDate(0, 0, 7)}

	res := &schedule.Result{
		Calendar:   calendar,
		Presenters: model.NewAssignmentMatrix(2, 3),
		Notetakers: model.NewAssignmentMatrix(2, 3),
	}
	// Meeting 0 fully staffed, meeting 1 short one presenter.
	res.Presenters[0][0] = true
	res.Presenters[0][1] = true
	res.Notetakers[0][2] = true
	res.Presenters[1][2] = true
	res.Notetakers[1][0] = true

	participants := []model.Participant{
		{Name: "ana", Present: true, Notes: true},
		{Name: "ben", Present: true, Notes: true},
		{Name: "cal", Present: true, Notes: true},
	}
	return res, participants
}

func TestRender(t *testing.T) {
	res, participants := fixtureResult(t)
	params := schedule.Params{Presenters: 2, Notetakers: 1}

	var b strings.Builder
	require.NoError(t, Render(&b, res, participants, params))
	out := b.String()

	require.Contains(t, out, "2026-03-04")
	require.Contains(t, out, "2026-03-11")
	require.Contains(t, out, "presenters: ana, ben")
	require.Contains(t, out, "notetakers: cal")
	require.Contains(t, out, "presenters: cal (only 1 of 2 filled)")
	require.Contains(t, out, "ana presented 1 times, took notes 1 times")
	require.Contains(t, out, "ben presented 1 times, took notes 0 times")
}

func TestRenderEmptyCalendar(t *testing.T) {
	res := &schedule.Result{}
	var b strings.Builder
	require.NoError(t, Render(&b, res, nil, schedule.Params{}))
	require.Contains(t, b.String(), "no meetings scheduled")
}

func TestSaveAndFileName(t *testing.T) {
	res, participants := fixtureResult(t)
	path := filepath.Join(t.TempDir(), FileName("2026-03-04", "2026-03-11"))
	require.Equal(t, "schedule_2026-03-04_2026-03-11.txt", filepath.Base(path))

	require.NoError(t, Save(path, res, participants, schedule.Params{Presenters: 2, Notetakers: 1}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "presenters: ana, ben")
}
