package allocation

import (
	"context"
	"strings"

	"github.com/kilianp07/crewplan/core/journal"
	"github.com/kilianp07/crewplan/core/schedule"
)

// DefaultCrewCapacity bounds the facility crew.
const DefaultCrewCapacity = 10

// CrewResult partitions the names of one crew add.
type CrewResult struct {
	Added       []string
	Invalid     []string
	Unavailable []string
	// Booked holds helpers already assigned to a task of the day.
	Booked    []string
	Duplicate []string
	// Overflow holds names beyond the crew capacity.
	Overflow []string
}

// CrewSelector edits the facility crew before the main loop. Changes are
// applied to the session immediately.
type CrewSelector struct {
	s        *Session
	capacity int
}

// CrewSelector returns a selector bounded by capacity, starting from the
// crew already in the schedule.
func (s *Session) CrewSelector(capacity int) *CrewSelector {
	if capacity <= 0 {
		capacity = DefaultCrewCapacity
	}
	return &CrewSelector{s: s, capacity: capacity}
}

// Capacity returns the crew size limit.
func (c *CrewSelector) Capacity() int { return c.capacity }

// Members returns the current crew.
func (c *CrewSelector) Members() []string {
	if crew := c.s.store.Crew(); crew != nil {
		return append([]string(nil), crew.Members...)
	}
	return nil
}

// Candidates returns the day's helpers that could still join the crew.
func (c *CrewSelector) Candidates() []string {
	var out []string
	for _, name := range c.s.Assignable().Sorted() {
		if !c.booked(name) {
			out = append(out, name)
		}
	}
	return out
}

func (c *CrewSelector) booked(name string) bool {
	for _, t := range c.s.store.Tasks() {
		if t.Has(name) {
			return true
		}
	}
	return false
}

// Add validates names and puts the accepted ones on the crew. Crew members
// are exempt from time checks but may not hold any task of the day.
func (c *CrewSelector) Add(ctx context.Context, names []string) CrewResult {
	var res CrewResult
	members := c.Members()
	for _, name := range SplitNames(strings.Join(names, ",")) {
		switch {
		case !c.s.roster.Has(name):
			res.Invalid = append(res.Invalid, name)
		case !c.s.pool.Has(name):
			res.Unavailable = append(res.Unavailable, name)
		case contains(members, name):
			res.Duplicate = append(res.Duplicate, name)
		case c.booked(name):
			res.Booked = append(res.Booked, name)
		case len(members) >= c.capacity:
			res.Overflow = append(res.Overflow, name)
		default:
			members = append(members, name)
			res.Added = append(res.Added, name)
		}
	}
	if len(res.Added) > 0 {
		c.set(members)
		c.s.write(ctx, journal.Record{Action: journal.ActionCrewAdd, Task: c.s.store.CrewTitle(), Helpers: res.Added})
		c.s.log.Infof("crew: added %v (%d/%d)", res.Added, len(members), c.capacity)
	}
	return res
}

// Remove takes name off the crew. It reports false when name is not a member.
func (c *CrewSelector) Remove(ctx context.Context, name string) bool {
	members := c.Members()
	if !contains(members, name) {
		return false
	}
	kept := make([]string, 0, len(members)-1)
	for _, m := range members {
		if m != name {
			kept = append(kept, m)
		}
	}
	c.set(kept)
	c.s.write(ctx, journal.Record{Action: journal.ActionCrewRemove, Task: c.s.store.CrewTitle(), Helpers: []string{name}})
	return true
}

// Full reports whether the crew reached its capacity.
func (c *CrewSelector) Full() bool { return len(c.Members()) >= c.capacity }

func (c *CrewSelector) set(members []string) {
	c.s.store.SetCrew(schedule.NewCrew(c.s.day, members))
}
