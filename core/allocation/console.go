package allocation

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/kilianp07/crewplan/core/roster"
	"github.com/kilianp07/crewplan/core/schedule"
	"github.com/kilianp07/crewplan/pkg/export"
)

const help = "names[,names] assign | -name remove | n next | b back | j [k] jump | s [1-4] search | q save and quit"

// ConsoleOptions wires a Console to its input and output.
type ConsoleOptions struct {
	In  io.Reader
	Out io.Writer
	// Slot is the granularity of the free range search.
	Slot time.Duration
	// ExportDir receives cross-reference files saved from search.
	ExportDir string
	Now       func() time.Time
}

// Console reads commands line by line and applies them to a Session.
type Console struct {
	s         *Session
	in        *bufio.Scanner
	out       io.Writer
	slot      time.Duration
	exportDir string
	now       func() time.Time
}

// NewConsole creates a console over s. Nil streams default to stdin/stdout.
func NewConsole(s *Session, opts ConsoleOptions) *Console {
	in := opts.In
	if in == nil {
		in = os.Stdin
	}
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	dir := opts.ExportDir
	if dir == "" {
		dir = "."
	}
	return &Console{
		s:         s,
		in:        bufio.NewScanner(in),
		out:       out,
		slot:      opts.Slot,
		exportDir: dir,
		now:       now,
	}
}

// Attach points the console at s. A console created without a session can
// prompt but not Run.
func (c *Console) Attach(s *Session) { c.s = s }

func (c *Console) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(c.out, format, args...)
}

// Ask prints prompt and reads one trimmed line. ok is false at end of input.
func (c *Console) Ask(prompt string) (string, bool) {
	c.printf("%s", prompt)
	if !c.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(c.in.Text()), true
}

// Confirm asks a yes/no question; anything but y or yes is no.
func (c *Console) Confirm(prompt string) bool {
	line, ok := c.Ask(prompt + " (y/n) ")
	if !ok {
		return false
	}
	switch strings.ToLower(line) {
	case "y", "yes":
		return true
	}
	return false
}

// Choose lists options and returns the 0-based pick. ok is false when the
// operator enters 0 or input ends.
func (c *Console) Choose(title string, options []string) (int, bool) {
	c.printf("%s\n", title)
	for i, o := range options {
		c.printf("  %d) %s\n", i+1, o)
	}
	for {
		line, ok := c.Ask("number (0 to cancel): ")
		if !ok {
			return 0, false
		}
		k, err := strconv.Atoi(line)
		if err != nil || k < 0 || k > len(options) {
			c.printf("enter a number between 0 and %d\n", len(options))
			continue
		}
		if k == 0 {
			return 0, false
		}
		return k - 1, true
	}
}

// Run drives the task loop until the operator quits, input ends or every
// task has been walked past. Committed changes are kept in all cases.
func (c *Console) Run(ctx context.Context) error {
	for !c.s.Done() {
		if err := ctx.Err(); err != nil {
			return err
		}
		c.renderTask()
		line, ok := c.Ask("> ")
		if !ok {
			return nil
		}
		cmd, err := ParseCommand(line)
		if errors.Is(err, ErrBlankInput) {
			continue
		}
		if err != nil {
			c.printf("%v: %q\n%s\n", err, line, help)
			continue
		}
		if quit := c.apply(ctx, cmd); quit {
			return nil
		}
	}
	c.printf("all %d tasks reviewed\n", c.s.Len())
	return nil
}

func (c *Console) apply(ctx context.Context, cmd Command) bool {
	switch v := cmd.(type) {
	case Advance:
		c.s.Advance()
	case Retreat:
		c.s.Retreat()
	case Jump:
		if v.Menu {
			c.jumpMenu()
			return false
		}
		if err := c.s.JumpTo(v.Index); err != nil {
			c.printf("%v\n", err)
		}
	case Search:
		c.search(v.Mode)
	case Assign:
		res, err := c.s.Assign(ctx, v.Names)
		if err != nil {
			c.printf("%v\n", err)
			return false
		}
		c.reportAssign(res)
		if res.Filled {
			c.s.Advance()
		}
	case Unassign:
		removed, err := c.s.Unassign(ctx, v.Name)
		switch {
		case err != nil:
			c.printf("%v\n", err)
		case removed:
			c.printf("removed %s\n", v.Name)
		default:
			c.printf("%s is not assigned to this task\n", v.Name)
		}
	case Quit:
		return true
	}
	return false
}

func (c *Console) renderTask() {
	t, err := c.s.Current()
	if err != nil {
		return
	}
	c.printf("\n[%d/%d] %s ~ %s  %s", c.s.Cursor()+1, c.s.Len(), t.Start, t.End, t.DisplayTitle())
	if t.Location != "" && t.Location != schedule.Placeholder {
		c.printf(" @ %s", t.Location)
	}
	c.printf("\n")
	if t.Details != "" && t.Details != schedule.Placeholder {
		c.printf("  %s\n", t.Details)
	}
	c.printf("  %s %d/%d: %s\n", t.Status(), len(t.Assigned), t.Needed(), namesOrDash(t.Assigned))

	var free roster.Set
	if iv, ok := t.Interval(); ok {
		free = roster.NewSet(c.s.FreeDuring(iv)...)
	} else {
		free = c.s.Assignable()
	}
	for _, a := range t.Assigned {
		free.Remove(a)
	}
	c.printf("  available (%d):\n", len(free))
	for _, g := range c.s.roster.GroupByTeam(free) {
		c.printf("    %s: %s\n", g.Team, strings.Join(g.Names, ", "))
	}
}

func (c *Console) reportAssign(res AssignResult) {
	if len(res.Truncated) > 0 {
		c.printf("over capacity, ignored: %s\n", strings.Join(res.Truncated, ", "))
	}
	if len(res.Assigned) > 0 {
		c.printf("assigned: %s\n", strings.Join(res.Assigned, ", "))
	}
	if len(res.Invalid) > 0 {
		c.printf("not on the roster: %s\n", strings.Join(res.Invalid, ", "))
	}
	if len(res.Unavailable) > 0 {
		c.printf("not available today or on the facility crew: %s\n", strings.Join(res.Unavailable, ", "))
	}
	for _, cf := range res.Conflicts {
		if cf.Here {
			c.printf("time conflict: %s is already on this task\n", cf.Name)
			continue
		}
		c.printf("time conflict: %s is booked %s\n", cf.Name, cf.With)
	}
	switch {
	case res.Filled:
		c.printf("task fully staffed\n")
	case res.Open > 0:
		c.printf("%d more needed\n", res.Open)
	}
}

func (c *Console) jumpMenu() {
	b := c.s.JumpMenu()
	section := func(title string, entries []Entry) {
		c.printf("%s (%d)\n", title, len(entries))
		for _, e := range entries {
			c.printf("  %3d. %s ~ %s  %s  %d/%d  %s\n", e.Index+1, e.Task.Start, e.Task.End,
				e.Task.DisplayTitle(), len(e.Task.Assigned), e.Task.Needed(), namesOrDash(e.Task.Assigned))
		}
	}
	section("understaffed", b.Understaffed)
	section("unassigned", b.Unassigned)
	section("staffed", b.Staffed)
	for {
		line, ok := c.Ask("task number (0 to cancel): ")
		if !ok {
			return
		}
		k, err := strconv.Atoi(line)
		if err != nil {
			c.printf("not a number: %q\n", line)
			continue
		}
		if k == 0 {
			return
		}
		if err := c.s.JumpTo(k - 1); err != nil {
			c.printf("%v\n", err)
			continue
		}
		return
	}
}

func (c *Console) search(mode SearchMode) {
	if mode == 0 {
		k, ok := c.Choose("search", []string{"tasks of a helper", "assignees of a task", "full cross-reference", "free helpers over the day"})
		if !ok {
			return
		}
		mode = SearchMode(k + 1)
	}
	switch mode {
	case SearchHelper:
		name, ok := c.Ask("helper name: ")
		if !ok || name == "" {
			return
		}
		h, err := c.s.TasksOf(name)
		if err != nil {
			c.printf("%v\n", err)
			return
		}
		c.printf("%s (%s)\n", h.Name, h.Team)
		if h.Crew {
			c.printf("  facility crew, all day\n")
		}
		for _, e := range h.Tasks {
			c.printf("  %d. %s ~ %s  %s\n", e.Index+1, e.Task.Start, e.Task.End, e.Task.DisplayTitle())
		}
		if !h.Crew && len(h.Tasks) == 0 {
			c.printf("  %s\n", export.NoAssignment)
		}
	case SearchTask:
		line, ok := c.Ask("task number: ")
		if !ok {
			return
		}
		k, err := strconv.Atoi(line)
		if err != nil {
			c.printf("not a number: %q\n", line)
			return
		}
		names, err := c.s.Assignees(k - 1)
		if err != nil {
			c.printf("%v\n", err)
			return
		}
		c.printf("  %s\n", namesOrDash(names))
	case SearchCrossReference:
		rows := c.s.CrossReference()
		for _, r := range rows {
			c.printf("  %s\t%s\t%s ~ %s\t%s\n", r.Helper, r.Team, r.Start, r.End, r.Title)
		}
		if c.Confirm("save to file?") {
			path := filepath.Join(c.exportDir, schedule.CrossReferenceFileName(c.s.Day(), c.now()))
			if err := export.WriteFile(path, rows); err != nil {
				c.printf("save failed: %v\n", err)
				return
			}
			c.printf("saved %s\n", path)
		}
	case SearchFree:
		for _, r := range c.s.FreeRanges(c.slot) {
			c.printf("  %s (%d): %s\n", r.Interval, len(r.Free), namesOrDash(r.Free))
		}
	}
}

// RunCrew edits the facility crew until the operator enters q or input ends.
func (c *Console) RunCrew(ctx context.Context, sel *CrewSelector) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		c.printf("\nfacility crew %d/%d: %s\n", len(sel.Members()), sel.Capacity(), namesOrDash(sel.Members()))
		for _, g := range c.s.roster.GroupByTeam(roster.NewSet(sel.Candidates()...)) {
			c.printf("    %s: %s\n", g.Team, strings.Join(g.Names, ", "))
		}
		line, ok := c.Ask("crew> ")
		if !ok {
			return nil
		}
		cmd, err := ParseCommand(line)
		if errors.Is(err, ErrBlankInput) {
			continue
		}
		switch v := cmd.(type) {
		case Quit:
			return nil
		case Assign:
			c.reportCrew(sel.Add(ctx, v.Names))
		case Unassign:
			if !sel.Remove(ctx, v.Name) {
				c.printf("%s is not on the crew\n", v.Name)
			}
		default:
			c.printf("names[,names] add | -name remove | q done\n")
		}
	}
}

func (c *Console) reportCrew(res CrewResult) {
	lists := []struct {
		label string
		names []string
	}{
		{"added", res.Added},
		{"not on the roster", res.Invalid},
		{"not available today", res.Unavailable},
		{"already on a task", res.Booked},
		{"already on the crew", res.Duplicate},
		{"crew is full, ignored", res.Overflow},
	}
	for _, l := range lists {
		if len(l.names) > 0 {
			c.printf("%s: %s\n", l.label, strings.Join(l.names, ", "))
		}
	}
}

func namesOrDash(names []string) string {
	if len(names) == 0 {
		return schedule.Placeholder
	}
	return strings.Join(names, ", ")
}
