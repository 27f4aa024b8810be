package allocation

import (
	"fmt"
	"time"

	"github.com/kilianp07/crewplan/core/roster"
	"github.com/kilianp07/crewplan/core/timeofday"
	"github.com/kilianp07/crewplan/pkg/export"
)

// SearchMode selects a read-only query.
type SearchMode int

const (
	// SearchHelper lists the tasks of one helper.
	SearchHelper SearchMode = iota + 1
	// SearchTask lists the assignees of one task.
	SearchTask
	// SearchCrossReference dumps every helper with every task.
	SearchCrossReference
	// SearchFree splits the day into ranges with the same free helpers.
	SearchFree
)

func (m SearchMode) valid() bool { return m >= SearchHelper && m <= SearchFree }

// DefaultSlot is the granularity of SearchFree.
const DefaultSlot = 15 * time.Minute

// HelperTasks is the answer to a helper lookup.
type HelperTasks struct {
	Name  string
	Team  string
	Crew  bool
	Tasks []Entry
}

// TasksOf returns the tasks name is assigned to, in time order, and whether
// name is on the facility crew.
func (s *Session) TasksOf(name string) (HelperTasks, error) {
	h := HelperTasks{Name: name, Team: s.roster.TeamOf(name), Crew: s.store.Crew().Has(name)}
	for i, t := range s.store.Tasks() {
		if t.Has(name) {
			h.Tasks = append(h.Tasks, Entry{Index: i, Task: t})
		}
	}
	if !s.roster.Has(name) && len(h.Tasks) == 0 && !h.Crew {
		return h, fmt.Errorf("%w: %q", roster.ErrNotFound, name)
	}
	return h, nil
}

// Assignees returns the helpers on task i.
func (s *Session) Assignees(i int) ([]string, error) {
	t, err := s.store.Get(i)
	if err != nil {
		return nil, fmt.Errorf("%w: %d", ErrBadIndex, i+1)
	}
	return t.Assigned, nil
}

// CrossReference lists every helper of the day with each of their tasks.
// Helpers without tasks appear once with no assignment.
func (s *Session) CrossReference() []export.Row {
	people := s.Pool()
	crew := s.store.Crew()
	for name := range crew.Exclusion() {
		people.Add(name)
	}
	tasks := s.store.Tasks()
	for _, t := range tasks {
		for _, name := range t.Assigned {
			people.Add(name)
		}
	}
	var rows []export.Row
	for _, name := range people.Sorted() {
		team := s.roster.TeamOf(name)
		n := len(rows)
		if crew.Has(name) {
			ct := crew.Task(s.store.CrewTitle())
			rows = append(rows, export.Row{Helper: name, Team: team, Start: ct.Start, End: ct.End, Title: ct.Title, Location: ct.Location})
		}
		for _, t := range tasks {
			if t.Has(name) {
				rows = append(rows, export.Row{Helper: name, Team: team, Start: t.Start, End: t.End, Title: t.DisplayTitle(), Location: t.Location})
			}
		}
		if len(rows) == n {
			rows = append(rows, export.Unassigned(name, team))
		}
	}
	return rows
}

// FreeRange is a span during which the same helpers are free.
type FreeRange struct {
	timeofday.Interval
	Free []string
}

// Span returns the range from the earliest task start to the latest task end.
func (s *Session) Span() (timeofday.Interval, bool) {
	var span timeofday.Interval
	found := false
	for _, t := range s.store.Tasks() {
		iv, ok := t.Interval()
		if !ok {
			continue
		}
		if !found || iv.Start < span.Start {
			span.Start = iv.Start
		}
		if !found || iv.End > span.End {
			span.End = iv.End
		}
		found = true
	}
	return span, found
}

// FreeDuring returns the assignable helpers without a booking overlapping iv.
func (s *Session) FreeDuring(iv timeofday.Interval) []string {
	return s.Assignable().Without(s.tracker.BusyDuring(iv)).Sorted()
}

// FreeRanges slices the operating day into slot sized pieces, computes the
// free helpers of each and merges neighbours with identical sets. Slots
// shorter than a minute fall back to DefaultSlot.
func (s *Session) FreeRanges(slot time.Duration) []FreeRange {
	if slot < time.Minute {
		slot = DefaultSlot
	}
	span, ok := s.Span()
	if !ok {
		return nil
	}
	var out []FreeRange
	for at := span.Start; at < span.End; at = at.Add(slot) {
		piece := timeofday.Interval{Start: at, End: at.Add(slot)}
		if piece.End > span.End {
			piece.End = span.End
		}
		free := s.FreeDuring(piece)
		if n := len(out); n > 0 && sameNames(out[n-1].Free, free) {
			out[n-1].End = piece.End
			continue
		}
		out = append(out, FreeRange{Interval: piece, Free: free})
	}
	return out
}

func sameNames(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

