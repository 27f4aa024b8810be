package roster

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Set is a set of helper names.
type Set map[string]struct{}

// NewSet builds a set from names.
func NewSet(names ...string) Set {
	s := make(Set, len(names))
	for _, n := range names {
		s.Add(n)
	}
	return s
}

func (s Set) Add(name string)      { s[name] = struct{}{} }
func (s Set) Remove(name string)   { delete(s, name) }
func (s Set) Has(name string) bool { _, ok := s[name]; return ok }

// Without returns the members of s that are not in other.
func (s Set) Without(other Set) Set {
	out := make(Set, len(s))
	for n := range s {
		if !other.Has(n) {
			out.Add(n)
		}
	}
	return out
}

// Sorted returns the members in Korean collation order.
func (s Set) Sorted() []string {
	out := make([]string, 0, len(s))
	for n := range s {
		out = append(out, n)
	}
	SortNames(out)
	return out
}

// SortNames orders names the way a Korean reader expects (가나다 order),
// falling back to code point order for other scripts.
func SortNames(names []string) {
	c := collate.New(language.Korean)
	sort.SliceStable(names, func(i, j int) bool {
		return c.CompareString(names[i], names[j]) < 0
	})
}

// TeamGroup lists the members of one team.
type TeamGroup struct {
	Team  string
	Names []string
}

// GroupByTeam buckets names by team, teams and members both collated.
func (x *Index) GroupByTeam(names Set) []TeamGroup {
	byTeam := map[string][]string{}
	for n := range names {
		t := x.TeamOf(n)
		byTeam[t] = append(byTeam[t], n)
	}
	teams := make([]string, 0, len(byTeam))
	for t := range byTeam {
		teams = append(teams, t)
	}
	SortNames(teams)
	out := make([]TeamGroup, 0, len(teams))
	for _, t := range teams {
		members := byTeam[t]
		SortNames(members)
		out = append(out, TeamGroup{Team: t, Names: members})
	}
	return out
}
