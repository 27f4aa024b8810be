package schedule

import (
	"strings"

	"github.com/kilianp07/crewplan/core/roster"
)

// allDaySuffix follows the day label in the crew row's start cell.
const allDaySuffix = " 하루 종일"

// Crew is the facility crew of one day: helpers withdrawn from every other
// task. Members is the only state; the exclusion set and the persisted row
// are both projections of it.
type Crew struct {
	Day     string
	Members []string
	row     []string
}

// NewCrew creates a crew for day.
func NewCrew(day string, members []string) *Crew {
	return &Crew{Day: day, Members: append([]string(nil), members...)}
}

func crewFromTask(t Task) *Crew {
	day := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(t.Start), strings.TrimSpace(allDaySuffix)))
	return &Crew{Day: day, Members: t.Assigned, row: t.row}
}

// Exclusion returns the members as a set.
func (c *Crew) Exclusion() roster.Set {
	if c == nil {
		return roster.Set{}
	}
	return roster.NewSet(c.Members...)
}

// Has reports whether name is on the crew.
func (c *Crew) Has(name string) bool {
	if c == nil {
		return false
	}
	for _, m := range c.Members {
		if m == name {
			return true
		}
	}
	return false
}

// Task renders the crew as its synthetic schedule row.
func (c *Crew) Task(title string) Task {
	return Task{
		Start:      c.Day + allDaySuffix,
		End:        Placeholder,
		Title:      title,
		Location:   Placeholder,
		Details:    Placeholder,
		Owner:      Placeholder,
		NeededText: itoa(len(c.Members)),
		Assigned:   append([]string(nil), c.Members...),
		row:        c.row,
	}
}
