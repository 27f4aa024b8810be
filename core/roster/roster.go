// Package roster indexes the helper roster: who exists, which team they
// belong to and on which event days they can be scheduled.
//
// The roster export is transposed: every helper is a column, and the rows
// carry the name, the team, an optional contact and one availability flag per
// event day ("1" means available).
package roster

import (
	"errors"
	"fmt"
	"strings"

	"github.com/kilianp07/crewplan/infra/sheet"
)

// UnassignedTeam labels helpers without a team.
const UnassignedTeam = "Unassigned"

var (
	// ErrNoNameRow is returned when the roster has no recognizable name row.
	ErrNoNameRow = errors.New("roster: no name row")
	// ErrNotFound is returned for names absent from the roster.
	ErrNotFound = errors.New("roster: helper not found")
	// ErrUnknownDay is returned when a day tag matches no availability row.
	ErrUnknownDay = errors.New("roster: unknown day")
)

var (
	nameLabels    = []string{"이름", "name", "Name", "성명"}
	teamLabels    = []string{"팀", "team", "Team", "소속"}
	contactLabels = []string{"연락처", "contact", "Contact", "전화번호", "phone"}
)

// Helper is one roster entry.
type Helper struct {
	Name    string
	Team    string
	Contact string
	Days    Set
}

// AvailableOn reports whether the helper can work on day.
func (h Helper) AvailableOn(day string) bool { return h.Days.Has(day) }

// Index is the immutable, in-memory roster.
type Index struct {
	helpers    map[string]*Helper
	order      []string
	days       []string
	// Duplicates lists names met again after their first column. Only the
	// first column counts.
	Duplicates []string
}

// Load reads and indexes the roster CSV at path.
func Load(path string) (*Index, error) {
	t, err := sheet.ReadFile(path, false)
	if err != nil {
		return nil, fmt.Errorf("read roster: %w", err)
	}
	return Parse(t)
}

// Parse indexes a header-less roster table. The first raw row is the sheet
// title unless it already carries a field label.
func Parse(t sheet.Table) (*Index, error) {
	rows := t.Rows
	if len(rows) > 0 && fieldOf(label(rows[0])) == "" {
		rows = rows[1:]
	}
	var names, teams, contacts []string
	type dayRow struct {
		label string
		cells []string
	}
	var dayRows []dayRow
	for _, row := range rows {
		l := label(row)
		if l == "" {
			continue
		}
		switch fieldOf(l) {
		case "name":
			if names == nil {
				names = row
			}
		case "team":
			teams = row
		case "contact":
			contacts = row
		default:
			dayRows = append(dayRows, dayRow{label: l, cells: row})
		}
	}
	if names == nil {
		return nil, ErrNoNameRow
	}
	x := &Index{helpers: make(map[string]*Helper)}
	for _, d := range dayRows {
		x.days = append(x.days, d.label)
	}
	for col := 1; col < len(names); col++ {
		name := strings.TrimSpace(names[col])
		if name == "" {
			continue
		}
		if _, dup := x.helpers[name]; dup {
			x.Duplicates = append(x.Duplicates, name)
			continue
		}
		h := &Helper{
			Name:    name,
			Team:    strings.TrimSpace(sheet.Cell(teams, col)),
			Contact: strings.TrimSpace(sheet.Cell(contacts, col)),
			Days:    Set{},
		}
		if h.Team == "" {
			h.Team = UnassignedTeam
		}
		for _, d := range dayRows {
			if strings.TrimSpace(sheet.Cell(d.cells, col)) == "1" {
				h.Days.Add(d.label)
			}
		}
		x.helpers[name] = h
		x.order = append(x.order, name)
	}
	return x, nil
}

func label(row []string) string {
	return strings.TrimSpace(sheet.Cell(row, 0))
}

func fieldOf(l string) string {
	for _, n := range nameLabels {
		if l == n {
			return "name"
		}
	}
	for _, n := range teamLabels {
		if l == n {
			return "team"
		}
	}
	for _, n := range contactLabels {
		if l == n {
			return "contact"
		}
	}
	return ""
}

// Len returns the number of helpers.
func (x *Index) Len() int { return len(x.order) }

// Names returns helper names in roster order.
func (x *Index) Names() []string {
	out := make([]string, len(x.order))
	copy(out, x.order)
	return out
}

// Days returns the availability row labels in roster order.
func (x *Index) Days() []string {
	out := make([]string, len(x.days))
	copy(out, x.days)
	return out
}

// Has reports whether name is on the roster. Matching is exact after trimming.
func (x *Index) Has(name string) bool {
	_, ok := x.helpers[strings.TrimSpace(name)]
	return ok
}

// Lookup returns the helper called name.
func (x *Index) Lookup(name string) (Helper, error) {
	h, ok := x.helpers[strings.TrimSpace(name)]
	if !ok {
		return Helper{}, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return *h, nil
}

// TeamOf returns the helper's team, or UnassignedTeam.
func (x *Index) TeamOf(name string) string {
	if h, ok := x.helpers[strings.TrimSpace(name)]; ok {
		return h.Team
	}
	return UnassignedTeam
}

// AvailableOn returns the helpers flagged available for day.
func (x *Index) AvailableOn(day string) Set {
	s := Set{}
	for _, n := range x.order {
		if x.helpers[n].Days.Has(day) {
			s.Add(n)
		}
	}
	return s
}

// ResolveDay maps a short tag such as "목" to the first day label containing it.
func (x *Index) ResolveDay(tag string) (string, error) {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return "", fmt.Errorf("%w: empty tag", ErrUnknownDay)
	}
	for _, d := range x.days {
		if d == tag {
			return d, nil
		}
	}
	for _, d := range x.days {
		if strings.Contains(d, tag) {
			return d, nil
		}
	}
	return "", fmt.Errorf("%w: %q (known: %s)", ErrUnknownDay, tag, strings.Join(x.days, ", "))
}
