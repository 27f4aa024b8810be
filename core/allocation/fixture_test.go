package allocation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kilianp07/crewplan/core/metrics"
	"github.com/kilianp07/crewplan/core/roster"
	"github.com/kilianp07/crewplan/core/schedule"
	"github.com/kilianp07/crewplan/infra/sheet"
)

const rosterCSV = `팀,진행팀,진행팀,안내팀,안내팀,시설팀,시설팀
이름,가,나,다,라,마,바
8.14목,1,1,1,1,1,0
8.15금,1,1,1,1,1,1
`

func fixtureRoster(t *testing.T) *roster.Index {
	t.Helper()
	tbl, err := sheet.Decode(strings.NewReader(rosterCSV), false)
	require.NoError(t, err)
	idx, err := roster.Parse(tbl)
	require.NoError(t, err)
	return idx
}

// fixtureTasks, in sorted order:
//
//	0 09:00~10:00 개회 1/1
//	1 10:00~11:00 안내 1/1
//	2 11:00~12:00 점심 준비 1/1
//	3 13:00~14:00 접수 0/2
//	4 13:30~15:00 찬양 0/2
//	5 14:00~15:00 정리 0/1
//	6 미정 추후 공지, needs nobody
func fixtureTasks() []schedule.Task {
	return []schedule.Task{
		{Start: "AM 9:00", End: "AM 10:00", Title: "개회", Location: "본당", NeededText: "1", Assigned: []string{"가"}},
		{Start: "AM 10:00", End: "AM 11:00", Title: "안내", Location: "로비", NeededText: "1", Assigned: []string{"나"}},
		{Start: "AM 11:00", End: "PM 12:00", Title: "점심 준비", Location: "식당", NeededText: "1", Assigned: []string{"다"}},
		{Start: "PM 1:00", End: "PM 2:00", Title: "접수", Location: "로비", NeededText: "2"},
		{Start: "PM 1:30", End: "PM 3:00", Title: "찬양", Location: "본당", NeededText: "1+1"},
		{Start: "PM 2:00", End: "PM 3:00", Title: "정리", Location: "-", NeededText: "1"},
		{Start: "미정", End: "-", Title: "추후 공지", Location: "-", NeededText: "미정"},
	}
}

type recordingSink struct {
	assigned, unassigned int
	rejected             map[string]int
	seats                metrics.SeatsEvent
}

func (r *recordingSink) RecordAssign(ev metrics.AssignEvent) error {
	r.assigned += ev.Accepted
	if r.rejected == nil {
		r.rejected = map[string]int{}
	}
	for k, v := range ev.Rejected {
		r.rejected[k] += v
	}
	return nil
}

func (r *recordingSink) RecordUnassign(_ string, n int) error { r.unassigned += n; return nil }

func (r *recordingSink) RecordSeats(ev metrics.SeatsEvent) error { r.seats = ev; return nil }

func (r *recordingSink) RecordMerge(metrics.MergeEvent) error { return nil }

func newSession(t *testing.T, opts Options) *Session {
	t.Helper()
	if opts.Day == "" {
		opts.Day = "목"
	}
	s, err := NewSession(schedule.New(fixtureTasks(), schedule.Options{}), fixtureRoster(t), opts)
	require.NoError(t, err)
	return s
}

func loadSession(t *testing.T, path string) (*Session, error) {
	t.Helper()
	store, err := schedule.Load(path, schedule.Options{})
	if err != nil {
		return nil, err
	}
	return NewSession(store, fixtureRoster(t), Options{Day: "목"})
}
