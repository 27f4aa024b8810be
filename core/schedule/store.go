// Package schedule holds the time-ordered task list of one event day along
// with its facility crew, and converts it to and from the tabular files
// exchanged with the spreadsheet collaborators.
package schedule

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/kilianp07/crewplan/core/timeofday"
	"github.com/kilianp07/crewplan/infra/sheet"
)

var (
	// ErrNotFound is returned when no task matches a lookup.
	ErrNotFound = errors.New("schedule: task not found")
	// ErrMissingColumn is returned when a required column is absent.
	ErrMissingColumn = errors.New("schedule: missing column")
	// ErrIndex is returned for out-of-range task indexes.
	ErrIndex = errors.New("schedule: index out of range")
)

// DefaultCrewTitle is the title of the facility crew row.
const DefaultCrewTitle = "시설조 활동"

// Column header aliases; the first entry is used when a column is created.
var (
	colStart    = []string{"시작시간", "start"}
	colEnd      = []string{"종료시간", "end"}
	colTitle    = []string{"일정", "title"}
	colLocation = []string{"장소", "location"}
	colDetails  = []string{"세부 내용", "details"}
	colOwner    = []string{"담당자", "owner"}
	colNeeded   = []string{"필요 도우미 수", "needed"}
	colAssigned = []string{"배정된 도우미", "assigned"}
)

type columns struct {
	start, end, title, location, details, owner, needed, assigned int
}

// DefaultHeader is the column layout of the normalized event schedule.
func DefaultHeader() []string {
	return []string{colStart[0], colEnd[0], colTitle[0], colLocation[0], colDetails[0], colOwner[0], colNeeded[0], colAssigned[0]}
}

// Options controls how a table is loaded.
type Options struct {
	// CrewTitle identifies the facility crew row. Empty uses DefaultCrewTitle.
	CrewTitle string
}

func (o Options) crewTitle() string {
	if o.CrewTitle == "" {
		return DefaultCrewTitle
	}
	return o.CrewTitle
}

// Store is the ordered task list of one schedule file.
type Store struct {
	header    []string
	cols      columns
	tasks     []*Task
	crew      *Crew
	crewTitle string
}

// New builds a store over tasks using the default header.
func New(tasks []Task, opts Options) *Store {
	s := &Store{header: DefaultHeader(), crewTitle: opts.crewTitle()}
	s.cols = columns{0, 1, 2, 3, 4, 5, 6, 7}
	for i := range tasks {
		t := tasks[i]
		t.Assigned = append([]string(nil), t.Assigned...)
		s.tasks = append(s.tasks, &t)
	}
	s.sort()
	return s
}

// Load reads the schedule or assignment file at path.
func Load(path string, opts Options) (*Store, error) {
	t, err := sheet.ReadFile(path, true)
	if err != nil {
		return nil, fmt.Errorf("read schedule: %w", err)
	}
	return FromTable(t, opts)
}

// FromTable builds a store from a decoded table, sorting tasks by start time.
// Rows with an unreadable start sort last in file order.
func FromTable(t sheet.Table, opts Options) (*Store, error) {
	s := &Store{header: append([]string(nil), t.Header...), crewTitle: opts.crewTitle()}
	s.cols = columns{
		start:    t.Column(colStart...),
		end:      t.Column(colEnd...),
		title:    t.Column(colTitle...),
		location: t.Column(colLocation...),
		details:  t.Column(colDetails...),
		owner:    t.Column(colOwner...),
		needed:   t.Column(colNeeded...),
		assigned: t.Column(colAssigned...),
	}
	required := []struct {
		name string
		idx  int
	}{
		{colStart[0], s.cols.start},
		{colEnd[0], s.cols.end},
		{colTitle[0], s.cols.title},
		{colNeeded[0], s.cols.needed},
	}
	for _, r := range required {
		if r.idx < 0 {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, r.name)
		}
	}
	if s.cols.assigned < 0 {
		s.header = append(s.header, colAssigned[0])
		s.cols.assigned = len(s.header) - 1
	}
	for _, row := range t.Rows {
		if blank(row) {
			continue
		}
		task := s.decode(row)
		if strings.TrimSpace(task.Title) == s.crewTitle {
			if s.crew == nil {
				s.crew = crewFromTask(task)
			}
			continue
		}
		s.tasks = append(s.tasks, &task)
	}
	s.sort()
	return s, nil
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func (s *Store) decode(row []string) Task {
	cells := make([]string, len(s.header))
	copy(cells, row)
	return Task{
		Start:      sheet.Cell(cells, s.cols.start),
		End:        sheet.Cell(cells, s.cols.end),
		Title:      sheet.Cell(cells, s.cols.title),
		Location:   sheet.Cell(cells, s.cols.location),
		Details:    sheet.Cell(cells, s.cols.details),
		Owner:      sheet.Cell(cells, s.cols.owner),
		NeededText: sheet.Cell(cells, s.cols.needed),
		Assigned:   ParseAssigned(sheet.Cell(cells, s.cols.assigned)),
		row:        cells,
	}
}

func (s *Store) encode(t Task) []string {
	cells := make([]string, len(s.header))
	copy(cells, t.row)
	set := func(col int, v string) {
		if col >= 0 {
			cells[col] = v
		}
	}
	set(s.cols.start, t.Start)
	set(s.cols.end, t.End)
	set(s.cols.title, t.Title)
	set(s.cols.location, t.Location)
	set(s.cols.details, t.Details)
	set(s.cols.owner, t.Owner)
	set(s.cols.needed, t.NeededText)
	set(s.cols.assigned, FormatAssigned(t.Assigned))
	return cells
}

func (s *Store) sort() {
	sort.SliceStable(s.tasks, func(i, j int) bool {
		a, aok := timeofday.Parse(s.tasks[i].Start)
		b, bok := timeofday.Parse(s.tasks[j].Start)
		switch {
		case aok && bok:
			return a < b
		case aok:
			return true
		default:
			return false
		}
	})
}

// Len returns the number of tasks, excluding the facility crew.
func (s *Store) Len() int { return len(s.tasks) }

// Get returns a copy of task i.
func (s *Store) Get(i int) (Task, error) {
	if i < 0 || i >= len(s.tasks) {
		return Task{}, fmt.Errorf("%w: %d", ErrIndex, i)
	}
	t := *s.tasks[i]
	t.Assigned = append([]string(nil), t.Assigned...)
	return t, nil
}

// Tasks returns copies of every task in order.
func (s *Store) Tasks() []Task {
	out := make([]Task, len(s.tasks))
	for i := range s.tasks {
		out[i], _ = s.Get(i)
	}
	return out
}

// SetAssigned replaces the helper list of task i.
func (s *Store) SetAssigned(i int, names []string) error {
	if i < 0 || i >= len(s.tasks) {
		return fmt.Errorf("%w: %d", ErrIndex, i)
	}
	s.tasks[i].Assigned = append([]string(nil), names...)
	return nil
}

// Find returns the index of the first task with the given identity key.
func (s *Store) Find(k Key) (int, error) {
	for i, t := range s.tasks {
		if t.Key() == k {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: %s", ErrNotFound, k)
}

// Crew returns the facility crew, or nil when the day has none.
func (s *Store) Crew() *Crew { return s.crew }

// SetCrew replaces the facility crew. A nil or empty crew removes the row.
func (s *Store) SetCrew(c *Crew) {
	if c != nil && len(c.Members) == 0 {
		c = nil
	}
	s.crew = c
}

// CrewTitle returns the title used for the facility crew row.
func (s *Store) CrewTitle() string { return s.crewTitle }

// Header returns the column layout used when saving.
func (s *Store) Header() []string { return append([]string(nil), s.header...) }

// Replace swaps the task list, keeping header and crew, and re-sorts.
func (s *Store) Replace(tasks []Task) {
	s.tasks = s.tasks[:0]
	for i := range tasks {
		t := tasks[i]
		t.Assigned = append([]string(nil), t.Assigned...)
		s.tasks = append(s.tasks, &t)
	}
	s.sort()
}

// Table renders the store in file order with the crew row last.
func (s *Store) Table() sheet.Table {
	t := sheet.Table{Header: s.Header()}
	for _, task := range s.tasks {
		t.Rows = append(t.Rows, s.encode(*task))
	}
	if s.crew != nil {
		t.Rows = append(t.Rows, s.encode(s.crew.Task(s.crewTitle)))
	}
	return t
}

// Save atomically writes the store to path.
func (s *Store) Save(path string) error {
	if err := sheet.WriteFile(path, s.Table()); err != nil {
		return fmt.Errorf("save schedule %s: %w", path, err)
	}
	return nil
}

// Seats sums needed and filled seats over all staffable tasks.
func (s *Store) Seats() (filled, needed int) {
	for _, t := range s.tasks {
		n := t.Needed()
		if n == 0 {
			continue
		}
		needed += n
		a := len(t.Assigned)
		if a > n {
			a = n
		}
		filled += a
	}
	return filled, needed
}

func itoa(n int) string { return strconv.Itoa(n) }
