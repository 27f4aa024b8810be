package availability

import (
	"sort"

	"github.com/kilianp07/crewplan/core/roster"
	"github.com/kilianp07/crewplan/core/schedule"
	"github.com/kilianp07/crewplan/core/timeofday"
)

// Booking is one helper seat on a task.
type Booking struct {
	Index int
	Task  schedule.Task
}

// Overlap is a pair of bookings of one helper whose intervals intersect.
type Overlap struct {
	Helper string
	A, B   Booking
}

// Overfull is a task holding more helpers than it needs.
type Overfull struct {
	Index int
	Task  schedule.Task
	Extra int
}

// Report is the result of an offline audit of a schedule.
type Report struct {
	Overlaps []Overlap
	Overfull []Overfull
	// Unknown lists assigned names missing from the roster.
	Unknown []string
	// CrewConflicts lists crew members also assigned to a task.
	CrewConflicts []string
}

// Clean reports whether the audit found nothing.
func (r Report) Clean() bool {
	return len(r.Overlaps) == 0 && len(r.Overfull) == 0 && len(r.Unknown) == 0 && len(r.CrewConflicts) == 0
}

// Audit checks s for double bookings, over-capacity tasks, crew members on
// tasks and, when idx is non-nil, names missing from the roster.
func Audit(s *schedule.Store, idx *roster.Index) Report {
	var r Report
	byHelper := map[string][]Booking{}
	unknown := roster.Set{}
	crew := s.Crew().Exclusion()
	crewHits := roster.Set{}

	for i, task := range s.Tasks() {
		if n := task.Needed(); len(task.Assigned) > n {
			r.Overfull = append(r.Overfull, Overfull{Index: i, Task: task, Extra: len(task.Assigned) - n})
		}
		for _, name := range task.Assigned {
			byHelper[name] = append(byHelper[name], Booking{Index: i, Task: task})
			if idx != nil && !idx.Has(name) {
				unknown.Add(name)
			}
			if crew.Has(name) {
				crewHits.Add(name)
			}
		}
	}
	if idx != nil {
		for name := range crew {
			if !idx.Has(name) {
				unknown.Add(name)
			}
		}
	}

	names := make([]string, 0, len(byHelper))
	for name := range byHelper {
		names = append(names, name)
	}
	roster.SortNames(names)
	for _, name := range names {
		r.Overlaps = append(r.Overlaps, overlapsOf(name, byHelper[name])...)
	}
	r.Unknown = unknown.Sorted()
	r.CrewConflicts = crewHits.Sorted()
	return r
}

func overlapsOf(name string, list []Booking) []Overlap {
	type timed struct {
		Booking
		iv timeofday.Interval
	}
	var ts []timed
	for _, b := range list {
		iv, ok := b.Task.Interval()
		if !ok {
			continue
		}
		ts = append(ts, timed{b, iv})
	}
	sort.SliceStable(ts, func(i, j int) bool { return ts[i].iv.Start < ts[j].iv.Start })
	var out []Overlap
	for i := range ts {
		for j := i + 1; j < len(ts) && ts[j].iv.Start < ts[i].iv.End; j++ {
			if ts[i].iv.Overlaps(ts[j].iv) {
				out = append(out, Overlap{Helper: name, A: ts[i].Booking, B: ts[j].Booking})
			}
		}
	}
	return out
}
