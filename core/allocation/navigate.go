package allocation

import (
	"fmt"

	"github.com/kilianp07/crewplan/core/schedule"
)

// staffable reports whether task i still takes helpers.
func (s *Session) staffable(i int) bool {
	t, err := s.store.Get(i)
	return err == nil && t.Status() != schedule.Staffed
}

// Advance moves forward one task, then past every task that needs no one
// more. The cursor may end at Len.
func (s *Session) Advance() int {
	next := s.cursor + 1
	for next < s.store.Len() && !s.staffable(next) {
		next++
	}
	if next > s.store.Len() {
		next = s.store.Len()
	}
	s.cursor = next
	return s.cursor
}

// Retreat moves back to the nearest earlier task that needs helpers, staffed
// or not. With none before the cursor it stays put.
func (s *Session) Retreat() int {
	prev := s.cursor - 1
	if prev >= s.store.Len() {
		prev = s.store.Len() - 1
	}
	for ; prev >= 0; prev-- {
		if t, err := s.store.Get(prev); err == nil && t.Needed() > 0 {
			s.cursor = prev
			break
		}
	}
	return s.cursor
}

// JumpTo focuses task i without skipping.
func (s *Session) JumpTo(i int) error {
	if i < 0 || i >= s.store.Len() {
		return fmt.Errorf("%w: %d", ErrBadIndex, i+1)
	}
	s.cursor = i
	return nil
}

// FirstOpen returns the first task still taking helpers, or 0 when every
// task is staffed.
func (s *Session) FirstOpen() int {
	for i := 0; i < s.store.Len(); i++ {
		if s.staffable(i) {
			return i
		}
	}
	return 0
}

// Entry is one line of the jump menu.
type Entry struct {
	Index int
	Task  schedule.Task
}

// Buckets groups tasks for the jump menu. Tasks that need nobody are left out.
type Buckets struct {
	Understaffed []Entry
	Unassigned   []Entry
	Staffed      []Entry
}

// JumpMenu partitions the staffable tasks by staffing level.
func (s *Session) JumpMenu() Buckets {
	var b Buckets
	for i, t := range s.store.Tasks() {
		if t.Needed() == 0 {
			continue
		}
		e := Entry{Index: i, Task: t}
		switch t.Status() {
		case schedule.Understaffed:
			b.Understaffed = append(b.Understaffed, e)
		case schedule.Unassigned:
			b.Unassigned = append(b.Unassigned, e)
		default:
			b.Staffed = append(b.Staffed, e)
		}
	}
	return b
}
