package schedule

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/crewplan/infra/sheet"
)

const scheduleCSV = `시작시간,종료시간,일정,장소,세부 내용,담당자,필요 도우미 수,배정된 도우미,비고
PM 2:00,PM 3:00,찬양 리허설,본당,-,김목사,3+2,,메모
AM 9:00,AM 10:15,"접수
데스크",로비,명찰 배부,-,7,"김다비, 박주영",
미정,-,추후 공지,-,-,-,미정,,
PM 1:00,PM 2:00,점심 배식,식당,-,-,2,-,
8.14목 하루 종일,-,시설조 활동,-,-,-,2,"이진, 최윤영",
`

func loadStore(t *testing.T) *Store {
	t.Helper()
	tbl, err := sheet.Decode(strings.NewReader(scheduleCSV), true)
	require.NoError(t, err)
	s, err := FromTable(tbl, Options{})
	require.NoError(t, err)
	return s
}

func TestParseNeeded(t *testing.T) {
	cases := map[string]int{
		"7":    7,
		" 7 ":  7,
		"3+2":  5,
		"2명":   2,
		"미정":   0,
		"-":    0,
		"":     0,
		"3.0":  3,
		"1,2,3": 6,
	}
	for in, want := range cases {
		if got := ParseNeeded(in); got != want {
			t.Errorf("ParseNeeded(%q)=%d want %d", in, got, want)
		}
	}
}

func TestParseAssigned(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, ParseAssigned(" a, b ,a,-,,"))
	assert.Nil(t, ParseAssigned("-"))
	assert.Equal(t, "a, b", FormatAssigned([]string{"a", "b"}))
}

func TestLoadSortsAndSplitsCrew(t *testing.T) {
	s := loadStore(t)
	require.Equal(t, 4, s.Len())
	titles := []string{}
	for _, task := range s.Tasks() {
		titles = append(titles, task.DisplayTitle())
	}
	assert.Equal(t, []string{"접수 데스크", "점심 배식", "찬양 리허설", "추후 공지"}, titles)

	crew := s.Crew()
	require.NotNil(t, crew)
	assert.Equal(t, "8.14목", crew.Day)
	assert.Equal(t, []string{"이진", "최윤영"}, crew.Members)
	assert.True(t, crew.Exclusion().Has("이진"))

	first, err := s.Get(0)
	require.NoError(t, err)
	assert.Equal(t, 7, first.Needed())
	assert.Equal(t, Understaffed, first.Status())
	assert.Equal(t, 5, first.Open())

	last, _ := s.Get(3)
	assert.Equal(t, 0, last.Needed())
	assert.Equal(t, Staffed, last.Status())
	_, ok := last.Interval()
	assert.False(t, ok)
}

func TestFindByKey(t *testing.T) {
	s := loadStore(t)
	idx, err := s.Find(Key{Start: "PM 2:00", Title: "찬양 리허설", Location: "본당"})
	require.NoError(t, err)
	assert.Equal(t, 2, idx)
	_, err = s.Find(Key{Start: "PM 9:00"})
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestSaveRoundTrip(t *testing.T) {
	s := loadStore(t)
	require.NoError(t, s.SetAssigned(1, []string{"김다비"}))
	path := filepath.Join(t.TempDir(), "assignment.csv")
	require.NoError(t, s.Save(path))

	again, err := Load(path, Options{})
	require.NoError(t, err)
	assert.Equal(t, s.Table(), again.Table())

	tbl := again.Table()
	assert.Equal(t, "비고", tbl.Header[8])
	assert.Equal(t, "메모", tbl.Rows[2][8], "unknown columns survive")
	assert.Equal(t, "시설조 활동", tbl.Rows[len(tbl.Rows)-1][2], "crew row is last")
	assert.Equal(t, "김다비", tbl.Rows[1][7])
}

func TestMissingAssignedColumnIsAdded(t *testing.T) {
	tbl, err := sheet.Decode(strings.NewReader("시작시간,종료시간,일정,필요 도우미 수\nPM 1:00,PM 2:00,a,1\n"), true)
	require.NoError(t, err)
	s, err := FromTable(tbl, Options{})
	require.NoError(t, err)
	assert.Equal(t, "배정된 도우미", s.Header()[4])
}

func TestMissingRequiredColumn(t *testing.T) {
	tbl, err := sheet.Decode(strings.NewReader("시작시간,일정\nPM 1:00,a\n"), true)
	require.NoError(t, err)
	_, err = FromTable(tbl, Options{})
	assert.ErrorIs(t, err, ErrMissingColumn)
}

func TestSeats(t *testing.T) {
	s := loadStore(t)
	filled, needed := s.Seats()
	assert.Equal(t, 2, filled)
	assert.Equal(t, 14, needed)
}

func TestFileNames(t *testing.T) {
	now := time.Date(2025, 8, 14, 9, 5, 0, 0, time.UTC)
	name := AssignmentFileName("8.14목", now)
	assert.Equal(t, "assignment_8.14목_20250814_0905.csv", name)
	day, err := DayFromFileName("/tmp/" + name)
	require.NoError(t, err)
	assert.Equal(t, "8.14목", day)
	_, err = DayFromFileName("event_schedule.csv")
	assert.Error(t, err)
	assert.Equal(t, "full_schedule_8.14목_20250814_0905.csv", CrossReferenceFileName("8.14목", now))

	dir := t.TempDir()
	for _, f := range []string{name, "assignment_8.15금_20250815_1000.csv", "other.csv", "x_8.14목_event_schedule.csv"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, f), []byte("a\n"), 0o644))
	}
	files, err := ListAssignmentFiles(dir)
	require.NoError(t, err)
	assert.Len(t, files, 2)

	found, err := FindScheduleFiles(dir, "*_event_schedule.csv", "목")
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "x_8.14목_event_schedule.csv")}, found)
}
