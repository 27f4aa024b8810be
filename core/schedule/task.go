package schedule

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/kilianp07/crewplan/core/timeofday"
)

// Placeholder marks a descriptive field as "not applicable".
const Placeholder = "-"

// Task is one staffing unit of the event schedule.
type Task struct {
	Start      string
	End        string
	Title      string
	Location   string
	Details    string
	Owner      string
	NeededText string
	Assigned   []string

	// row keeps the source cells so unknown columns survive a save.
	row []string
}

// Needed is the parsed helper count; 0 means the task is never staffed.
func (t Task) Needed() int { return ParseNeeded(t.NeededText) }

// Interval parses the task's start and end. ok is false for tasks whose
// times cannot be read; such tasks take no part in conflict detection.
func (t Task) Interval() (timeofday.Interval, bool) {
	return timeofday.ParseInterval(t.Start, t.End)
}

// Key returns the identity key used to match the task across versions.
func (t Task) Key() Key {
	return Key{
		Start:    strings.TrimSpace(t.Start),
		Title:    strings.TrimSpace(t.Title),
		Location: strings.TrimSpace(t.Location),
	}
}

// Has reports whether name is assigned to the task.
func (t Task) Has(name string) bool {
	for _, a := range t.Assigned {
		if a == name {
			return true
		}
	}
	return false
}

// Open returns how many more helpers the task can take.
func (t Task) Open() int {
	n := t.Needed() - len(t.Assigned)
	if n < 0 {
		return 0
	}
	return n
}

// Status classifies the task's staffing level.
func (t Task) Status() Status {
	switch {
	case t.Needed() > 0 && len(t.Assigned) == 0:
		return Unassigned
	case len(t.Assigned) < t.Needed():
		return Understaffed
	default:
		return Staffed
	}
}

// Detached returns a copy of t that no longer carries the cells of the file
// it was read from, for moving a task into a store with another layout.
func (t Task) Detached() Task {
	t.row = nil
	t.Assigned = append([]string(nil), t.Assigned...)
	return t
}

// DisplayTitle flattens multi-line titles for one-line listings.
func (t Task) DisplayTitle() string {
	return strings.Join(strings.Fields(t.Title), " ")
}

// Status is the staffing level of a task.
type Status int

const (
	// Understaffed tasks have at least one helper but fewer than needed.
	Understaffed Status = iota
	// Unassigned tasks need helpers and have none.
	Unassigned
	// Staffed tasks have every seat filled, or need nobody.
	Staffed
)

func (s Status) String() string {
	switch s {
	case Understaffed:
		return "understaffed"
	case Unassigned:
		return "unassigned"
	default:
		return "staffed"
	}
}

// Key identifies a task across schedule regenerations. The helper count is
// deliberately not part of it: a changed count is a modification.
type Key struct {
	Start    string
	Title    string
	Location string
}

func (k Key) String() string {
	return k.Start + "-" + k.Title + "-" + k.Location
}

var digits = regexp.MustCompile(`\d+`)

// ParseNeeded reads free-form helper counts: "7" is 7, "3+2" is 5 and text
// without digits (e.g. "미정") is 0.
func ParseNeeded(text string) int {
	s := strings.TrimSpace(text)
	if n, err := strconv.Atoi(s); err == nil {
		if n < 0 {
			return 0
		}
		return n
	}
	total := 0
	for _, m := range digits.FindAllString(s, -1) {
		n, err := strconv.Atoi(m)
		if err != nil {
			continue
		}
		total += n
	}
	return total
}

// ParseAssigned splits a comma separated helper cell, dropping blanks,
// placeholders and repeated names.
func ParseAssigned(cell string) []string {
	var out []string
	seen := map[string]bool{}
	for _, part := range strings.Split(cell, ",") {
		name := strings.TrimSpace(part)
		if name == "" || name == Placeholder || seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	return out
}

// FormatAssigned renders names the way ParseAssigned reads them.
func FormatAssigned(names []string) string {
	return strings.Join(names, ", ")
}
