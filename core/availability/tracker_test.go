package availability

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/crewplan/core/roster"
	"github.com/kilianp07/crewplan/core/schedule"
	"github.com/kilianp07/crewplan/core/timeofday"
	"github.com/kilianp07/crewplan/infra/sheet"
)

func iv(start, end string) timeofday.Interval {
	return timeofday.Interval{Start: timeofday.MustParse(start), End: timeofday.MustParse(end)}
}

func TestIsFreeHalfOpen(t *testing.T) {
	tr := New()
	tr.Commit("a", iv("PM 1:00", "PM 2:00"))

	checks := []struct {
		name string
		span timeofday.Interval
		free bool
	}{
		{"adjacent after", iv("PM 2:00", "PM 3:00"), true},
		{"adjacent before", iv("PM 12:00", "PM 1:00"), true},
		{"overlap tail", iv("PM 1:45", "PM 3:00"), false},
		{"inside", iv("PM 1:15", "PM 1:30"), false},
		{"covering", iv("PM 12:00", "PM 4:00"), false},
	}
	for _, c := range checks {
		free, conflict := tr.IsFree("a", c.span)
		if free != c.free {
			t.Fatalf("%s: IsFree=%v want %v", c.name, free, c.free)
		}
		if !free && conflict != iv("PM 1:00", "PM 2:00") {
			t.Fatalf("%s: conflict=%v", c.name, conflict)
		}
	}
	free, _ := tr.IsFree("b", iv("PM 1:00", "PM 2:00"))
	assert.True(t, free, "unknown helpers have no bookings")
}

func TestReleaseRemovesExactlyOne(t *testing.T) {
	tr := New()
	span := iv("AM 9:00", "AM 10:00")
	tr.Commit("a", span)
	tr.Commit("a", span)

	assert.False(t, tr.Release("a", iv("AM 9:00", "AM 10:15")), "inexact match is a no-op")
	assert.True(t, tr.Release("a", span))
	assert.Len(t, tr.Bookings("a"), 1)
	assert.True(t, tr.Release("a", span))
	assert.False(t, tr.Release("a", span))
	free, _ := tr.IsFree("a", span)
	assert.True(t, free)
}

func TestBusySets(t *testing.T) {
	tr := New()
	tr.Commit("a", iv("PM 1:00", "PM 2:00"))
	tr.Commit("b", iv("PM 1:30", "PM 3:00"))

	assert.Equal(t, []string{"a"}, tr.BusyAt(timeofday.MustParse("PM 1:00")).Sorted())
	assert.Equal(t, []string{"b"}, tr.BusyAt(timeofday.MustParse("PM 2:00")).Sorted())
	assert.Equal(t, []string{"a", "b"}, tr.BusyDuring(iv("PM 1:45", "PM 2:15")).Sorted())
}

func sampleStore() *schedule.Store {
	return schedule.New([]schedule.Task{
		{Start: "PM 1:00", End: "PM 2:00", Title: "A", NeededText: "2", Assigned: []string{"a", "b"}},
		{Start: "PM 2:00", End: "PM 3:00", Title: "B", NeededText: "1", Assigned: []string{"a"}},
		{Start: "PM 1:30", End: "PM 2:30", Title: "C", NeededText: "1", Assigned: []string{"b"}},
		{Start: "미정", End: "-", Title: "D", NeededText: "3", Assigned: []string{"a", "x", "y", "z"}},
	}, schedule.Options{})
}

func TestBuildSkipsUnparseable(t *testing.T) {
	tr := Build(sampleStore())
	assert.Len(t, tr.Bookings("a"), 2)
	assert.Empty(t, tr.Bookings("x"))
}

func TestTrackerSurvivesSaveReload(t *testing.T) {
	s := sampleStore()
	before := Build(s)
	path := filepath.Join(t.TempDir(), "assignment.csv")
	require.NoError(t, s.Save(path))
	reloaded, err := schedule.Load(path, schedule.Options{})
	require.NoError(t, err)
	after := Build(reloaded)

	probes := []timeofday.Interval{
		iv("AM 9:00", "AM 10:00"),
		iv("PM 1:00", "PM 1:15"),
		iv("PM 1:59", "PM 2:01"),
		iv("PM 2:30", "PM 3:00"),
		iv("PM 3:00", "PM 4:00"),
	}
	for _, name := range []string{"a", "b", "x"} {
		for _, p := range probes {
			f1, _ := before.IsFree(name, p)
			f2, _ := after.IsFree(name, p)
			if f1 != f2 {
				t.Fatalf("%s %v: before=%v after=%v", name, p, f1, f2)
			}
		}
	}
}

func TestAudit(t *testing.T) {
	tbl, err := sheet.Decode(strings.NewReader("이름,a,b,c\n8.14목,1,1,1\n"), false)
	require.NoError(t, err)
	idx, err := roster.Parse(tbl)
	require.NoError(t, err)

	s := sampleStore()
	s.SetCrew(schedule.NewCrew("8.14목", []string{"c", "b", "q"}))
	r := Audit(s, idx)

	require.Len(t, r.Overlaps, 1)
	assert.Equal(t, "b", r.Overlaps[0].Helper)
	assert.Equal(t, "A", r.Overlaps[0].A.Task.Title)
	assert.Equal(t, "C", r.Overlaps[0].B.Task.Title)

	require.Len(t, r.Overfull, 1)
	assert.Equal(t, "D", r.Overfull[0].Task.Title)
	assert.Equal(t, 1, r.Overfull[0].Extra)

	assert.Equal(t, []string{"q", "x", "y", "z"}, r.Unknown)
	assert.Equal(t, []string{"b"}, r.CrewConflicts)
	assert.False(t, r.Clean())
}
