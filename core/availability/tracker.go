// Package availability tracks the intervals each helper is booked for during
// one day and answers conflict queries against them.
package availability

import (
	"sort"

	"github.com/kilianp07/crewplan/core/roster"
	"github.com/kilianp07/crewplan/core/schedule"
	"github.com/kilianp07/crewplan/core/timeofday"
)

// Tracker maps helper names to their committed intervals.
type Tracker struct {
	booked map[string][]timeofday.Interval
}

// New returns an empty tracker.
func New() *Tracker {
	return &Tracker{booked: map[string][]timeofday.Interval{}}
}

// Build scans every task of s and commits its assignees. Tasks whose times
// cannot be parsed are skipped; the facility crew is not part of s.Tasks.
func Build(s *schedule.Store) *Tracker {
	t := New()
	for _, task := range s.Tasks() {
		iv, ok := task.Interval()
		if !ok {
			continue
		}
		for _, name := range task.Assigned {
			t.Commit(name, iv)
		}
	}
	return t
}

// IsFree reports whether name has no booking overlapping iv. When it does,
// the first overlapping interval is returned.
func (t *Tracker) IsFree(name string, iv timeofday.Interval) (bool, timeofday.Interval) {
	for _, b := range t.booked[name] {
		if b.Overlaps(iv) {
			return false, b
		}
	}
	return true, timeofday.Interval{}
}

// Commit books iv for name. Callers check IsFree first.
func (t *Tracker) Commit(name string, iv timeofday.Interval) {
	t.booked[name] = append(t.booked[name], iv)
}

// Release removes exactly one booking equal to iv. It returns false when
// name had no such booking.
func (t *Tracker) Release(name string, iv timeofday.Interval) bool {
	list := t.booked[name]
	for i, b := range list {
		if b == iv {
			list = append(list[:i], list[i+1:]...)
			if len(list) == 0 {
				delete(t.booked, name)
			} else {
				t.booked[name] = list
			}
			return true
		}
	}
	return false
}

// Bookings returns name's intervals sorted by start.
func (t *Tracker) Bookings(name string) []timeofday.Interval {
	out := append([]timeofday.Interval(nil), t.booked[name]...)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Start != out[j].Start {
			return out[i].Start < out[j].Start
		}
		return out[i].End < out[j].End
	})
	return out
}

// BusyAt returns the helpers with a booking containing instant at.
func (t *Tracker) BusyAt(at timeofday.Instant) roster.Set {
	busy := roster.Set{}
	for name, list := range t.booked {
		for _, b := range list {
			if b.Contains(at) {
				busy.Add(name)
				break
			}
		}
	}
	return busy
}

// BusyDuring returns the helpers with a booking overlapping iv. An empty
// interval (Start == End) is treated as the instant Start.
func (t *Tracker) BusyDuring(iv timeofday.Interval) roster.Set {
	if iv.Start == iv.End {
		return t.BusyAt(iv.Start)
	}
	busy := roster.Set{}
	for name, list := range t.booked {
		for _, b := range list {
			if b.Overlaps(iv) {
				busy.Add(name)
				break
			}
		}
	}
	return busy
}
