// Package reconcile re-applies a regenerated schedule onto a saved
// assignment without losing the helpers already placed. Every difference
// is put to the operator; nothing is resolved silently.
package reconcile

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/kilianp07/crewplan/core/journal"
	"github.com/kilianp07/crewplan/core/logger"
	"github.com/kilianp07/crewplan/core/metrics"
	"github.com/kilianp07/crewplan/core/schedule"
)

// Kind classifies a task when two schedule versions are compared.
type Kind string

const (
	Unchanged Kind = "unchanged"
	Modified  Kind = "modified"
	Added     Kind = "added"
	Removed   Kind = "removed"
)

// Decision is the operator's answer to one change.
type Decision int

const (
	No Decision = iota
	Yes
	// All approves this change and every later change of the same kind.
	All
)

// FieldDiff is one compared field that differs.
type FieldDiff struct {
	Field string
	Old   string
	New   string
}

// Change is a task that differs between Base and New. Base is the zero
// Task for additions, New for removals.
type Change struct {
	Kind  Kind
	Base  schedule.Task
	New   schedule.Task
	Diffs []FieldDiff
}

// Title returns the one-line name of the changed task.
func (c Change) Title() string {
	t := c.New
	if c.Kind == Removed {
		t = c.Base
	}
	return fmt.Sprintf("(%s) %s", t.Start, t.DisplayTitle())
}

// Approver decides on changes.
type Approver interface {
	Approve(c Change) Decision
}

// ApproverFunc adapts a function to Approver.
type ApproverFunc func(Change) Decision

func (f ApproverFunc) Approve(c Change) Decision { return f(c) }

// Outcome records the decision taken on a change.
type Outcome struct {
	Change   Change
	Approved bool
	// Prompted is false when an earlier All decided the change.
	Prompted bool
}

// Trim records helpers dropped because a task now needs fewer.
type Trim struct {
	Key     schedule.Key
	Kept    []string
	Dropped []string
}

// Result summarises a merge.
type Result struct {
	Unchanged int
	Outcomes  []Outcome
	Trims     []Trim
	// Tasks is the merged task list, before re-sorting.
	Tasks []schedule.Task
}

// Prompts counts the changes put to the approver.
func (r Result) Prompts() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Prompted {
			n++
		}
	}
	return n
}

// Count returns how many changes of kind were approved and declined.
func (r Result) Count(kind Kind) (approved, declined int) {
	for _, o := range r.Outcomes {
		if o.Change.Kind != kind {
			continue
		}
		if o.Approved {
			approved++
		} else {
			declined++
		}
	}
	return approved, declined
}

// Options carries the collaborators of a merge.
type Options struct {
	Logger  logger.Logger
	Journal *journal.Journal
	Metrics metrics.Sink
	// Day labels journal records.
	Day string
}

// Merge compares base with fresh by identity key, asks approver about
// every modified, added and removed task, trims over-full tasks and
// replaces the tasks of base with the result. The facility crew of base is
// kept as is. The caller saves base.
func Merge(ctx context.Context, base, fresh *schedule.Store, approver Approver, opts Options) (Result, error) {
	var res Result
	if base == nil || fresh == nil {
		return res, errors.New("reconcile: base and new schedules are required")
	}
	if approver == nil {
		approver = ApproverFunc(func(Change) Decision { return No })
	}
	log := logger.OrNop(opts.Logger)
	sink := metrics.OrNop(opts.Metrics)

	unchanged, modified, added, removed := diff(base.Tasks(), fresh.Tasks())
	res.Unchanged = len(unchanged)
	tasks := append([]schedule.Task(nil), unchanged...)

	write := func(action journal.Action, t schedule.Task, helpers []string, note string) {
		opts.Journal.Write(ctx, journal.Record{Day: opts.Day, Action: action, Task: t.Key().String(), Helpers: helpers, Note: note})
	}
	decide := decider(approver)

	for _, c := range modified {
		o := decide(c)
		res.Outcomes = append(res.Outcomes, o)
		merged := c.Base
		if o.Approved {
			merged.Start, merged.End = c.New.Start, c.New.End
			merged.Title, merged.Location = c.New.Title, c.New.Location
			merged.Details, merged.Owner = c.New.Details, c.New.Owner
			merged.NeededText = c.New.NeededText
			write(journal.ActionMergeApply, merged, merged.Assigned, describe(c.Diffs))
		} else {
			write(journal.ActionMergeKeep, merged, merged.Assigned, describe(c.Diffs))
		}
		tasks = append(tasks, merged)
	}
	for _, c := range added {
		o := decide(c)
		res.Outcomes = append(res.Outcomes, o)
		if o.Approved {
			t := c.New.Detached()
			t.Assigned = nil
			tasks = append(tasks, t)
			write(journal.ActionMergeAdd, t, nil, "")
		}
	}
	for _, c := range removed {
		o := decide(c)
		res.Outcomes = append(res.Outcomes, o)
		if o.Approved {
			write(journal.ActionMergeDrop, c.Base, c.Base.Assigned, "")
			continue
		}
		tasks = append(tasks, c.Base)
	}
	for _, o := range res.Outcomes {
		if err := sink.RecordMerge(metrics.MergeEvent{Kind: string(o.Change.Kind), Approved: o.Approved}); err != nil {
			log.Warnf("record merge: %v", err)
		}
	}

	for i := range tasks {
		n := tasks[i].Needed()
		if n == 0 || len(tasks[i].Assigned) <= n {
			continue
		}
		tr := Trim{
			Key:     tasks[i].Key(),
			Kept:    append([]string(nil), tasks[i].Assigned[:n]...),
			Dropped: append([]string(nil), tasks[i].Assigned[n:]...),
		}
		tasks[i].Assigned = tr.Kept
		res.Trims = append(res.Trims, tr)
		write(journal.ActionMergeTrim, tasks[i], tr.Dropped, "")
		log.Infof("%s: trimmed %v", tr.Key, tr.Dropped)
	}

	res.Tasks = tasks
	base.Replace(tasks)
	log.Infof("merge: %d unchanged, %d changes, %d trimmed", res.Unchanged, len(res.Outcomes), len(res.Trims))
	return res, nil
}

// decider remembers All per kind.
func decider(a Approver) func(Change) Outcome {
	all := map[Kind]bool{}
	return func(c Change) Outcome {
		if all[c.Kind] {
			return Outcome{Change: c, Approved: true}
		}
		d := a.Approve(c)
		if d == All {
			all[c.Kind] = true
		}
		return Outcome{Change: c, Approved: d != No, Prompted: true}
	}
}

// diff pairs tasks by identity key. Repeated keys pair in file order.
func diff(base, fresh []schedule.Task) (unchanged []schedule.Task, modified, added, removed []Change) {
	queue := map[schedule.Key][]int{}
	for i, t := range base {
		queue[t.Key()] = append(queue[t.Key()], i)
	}
	used := make([]bool, len(base))
	for _, n := range fresh {
		k := n.Key()
		q := queue[k]
		if len(q) == 0 {
			added = append(added, Change{Kind: Added, New: n})
			continue
		}
		b := base[q[0]]
		used[q[0]] = true
		queue[k] = q[1:]
		if d := compare(b, n); len(d) > 0 {
			modified = append(modified, Change{Kind: Modified, Base: b, New: n, Diffs: d})
			continue
		}
		unchanged = append(unchanged, b)
	}
	for i, b := range base {
		if !used[i] {
			removed = append(removed, Change{Kind: Removed, Base: b})
		}
	}
	return unchanged, modified, added, removed
}

func compare(b, n schedule.Task) []FieldDiff {
	fields := []struct {
		name     string
		old, new string
	}{
		{"start", b.Start, n.Start},
		{"end", b.End, n.End},
		{"title", b.Title, n.Title},
		{"location", b.Location, n.Location},
	}
	var out []FieldDiff
	for _, f := range fields {
		if strings.TrimSpace(f.old) != strings.TrimSpace(f.new) {
			out = append(out, FieldDiff{Field: f.name, Old: f.old, New: f.new})
		}
	}
	// "5" and "5.0" or "2" and "2명" are the same head count
	if b.Needed() != n.Needed() {
		out = append(out, FieldDiff{Field: "needed", Old: b.NeededText, New: n.NeededText})
	}
	return out
}

func describe(diffs []FieldDiff) string {
	parts := make([]string, len(diffs))
	for i, d := range diffs {
		parts[i] = fmt.Sprintf("%s %s -> %s", d.Field, d.Old, d.New)
	}
	return strings.Join(parts, "; ")
}
