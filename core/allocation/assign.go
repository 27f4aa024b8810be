package allocation

import (
	"context"
	"fmt"
	"strings"

	"github.com/kilianp07/crewplan/core/journal"
	"github.com/kilianp07/crewplan/core/metrics"
	"github.com/kilianp07/crewplan/core/timeofday"
)

// Conflict is a name refused because of an overlapping booking.
type Conflict struct {
	Name string
	With timeofday.Interval
	// Here is set when the helper is already on the focused task.
	Here bool
}

// AssignResult partitions the names of one assign command.
type AssignResult struct {
	Assigned    []string
	Invalid     []string
	Unavailable []string
	Conflicts   []Conflict
	// Truncated holds the names dropped because they exceeded the open seats.
	Truncated []string
	// Filled is set when the command filled the last open seat.
	Filled bool
	// Open is the number of seats left after the command.
	Open int
}

// Rejected returns the number of refused names per reason.
func (r AssignResult) Rejected() map[string]int {
	return map[string]int{
		metrics.ReasonUnknown:     len(r.Invalid),
		metrics.ReasonUnavailable: len(r.Unavailable),
		metrics.ReasonConflict:    len(r.Conflicts),
		metrics.ReasonOverflow:    len(r.Truncated),
	}
}

// Assign validates names against the roster, the day pool and the tracker,
// and commits the accepted ones to the focused task. Input longer than the
// open seats is cut to fit before validation.
func (s *Session) Assign(ctx context.Context, names []string) (AssignResult, error) {
	var res AssignResult
	task, err := s.Current()
	if err != nil {
		return res, err
	}
	open := task.Open()
	if open == 0 {
		return res, fmt.Errorf("%w: %s", ErrTaskFull, task.Key())
	}
	names = SplitNames(strings.Join(names, ","))
	if len(names) > open {
		res.Truncated = append(res.Truncated, names[open:]...)
		names = names[:open]
		s.log.Warnf("%s: %d names over capacity dropped: %v", task.Key(), len(res.Truncated), res.Truncated)
	}

	iv, timed := task.Interval()
	assignable := s.Assignable()
	assigned := task.Assigned
	for _, name := range names {
		switch {
		case !s.roster.Has(name):
			res.Invalid = append(res.Invalid, name)
		case !assignable.Has(name):
			res.Unavailable = append(res.Unavailable, name)
		case contains(assigned, name):
			res.Conflicts = append(res.Conflicts, Conflict{Name: name, With: iv, Here: true})
		default:
			if timed {
				if free, with := s.tracker.IsFree(name, iv); !free {
					res.Conflicts = append(res.Conflicts, Conflict{Name: name, With: with})
					continue
				}
				s.tracker.Commit(name, iv)
			}
			assigned = append(assigned, name)
			res.Assigned = append(res.Assigned, name)
		}
	}

	if len(res.Assigned) > 0 {
		if err := s.store.SetAssigned(s.cursor, assigned); err != nil {
			return res, err
		}
		if !timed {
			s.log.Warnf("%s: assigned without a conflict check, time is unreadable", task.Key())
		}
		rec := journal.Record{Action: journal.ActionAssign, Task: task.Key().String(), Helpers: res.Assigned}
		if timed {
			rec.Interval = iv.String()
		}
		s.write(ctx, rec)
		s.log.Infof("%s: assigned %v", task.Key(), res.Assigned)
	}
	res.Open = task.Needed() - len(assigned)
	if res.Open < 0 {
		res.Open = 0
	}
	res.Filled = len(res.Assigned) > 0 && res.Open == 0

	if err := s.metrics.RecordAssign(metrics.AssignEvent{Day: s.day, Accepted: len(res.Assigned), Rejected: res.Rejected()}); err != nil {
		s.log.Warnf("record assign: %v", err)
	}
	s.recordSeats()
	return res, nil
}

// Unassign removes name from the focused task and releases its booking.
// It reports false, changing nothing, when name is not on the task.
func (s *Session) Unassign(ctx context.Context, name string) (bool, error) {
	task, err := s.Current()
	if err != nil {
		return false, err
	}
	if !task.Has(name) {
		s.log.Warnf("%s: %q is not assigned", task.Key(), name)
		return false, nil
	}
	kept := make([]string, 0, len(task.Assigned)-1)
	for _, a := range task.Assigned {
		if a != name {
			kept = append(kept, a)
		}
	}
	if err := s.store.SetAssigned(s.cursor, kept); err != nil {
		return false, err
	}
	rec := journal.Record{Action: journal.ActionUnassign, Task: task.Key().String(), Helpers: []string{name}}
	if iv, ok := task.Interval(); ok {
		s.tracker.Release(name, iv)
		rec.Interval = iv.String()
	}
	s.write(ctx, rec)
	s.log.Infof("%s: removed %s", task.Key(), name)
	if err := s.metrics.RecordUnassign(s.day, 1); err != nil {
		s.log.Warnf("record unassign: %v", err)
	}
	s.recordSeats()
	return true, nil
}

func contains(list []string, name string) bool {
	for _, n := range list {
		if n == name {
			return true
		}
	}
	return false
}
