package reconcile

import (
	"fmt"
	"io"
	"strings"
)

// LineReader prints a prompt and returns the next answer. ok is false once
// input has ended.
type LineReader interface {
	Ask(prompt string) (line string, ok bool)
}

// Prompter asks the operator about each change on a terminal.
type Prompter struct {
	in  LineReader
	out io.Writer
}

// NewPrompter reads answers from in and writes the change details to out.
// in usually shares out as its prompt writer.
func NewPrompter(in LineReader, out io.Writer) *Prompter {
	return &Prompter{in: in, out: out}
}

var questions = map[Kind]string{
	Modified: "apply this change?",
	Added:    "add this task?",
	Removed:  "delete this task?",
}

// Approve prints the change and reads y, n or all. Anything else, or the
// end of input, declines.
func (p *Prompter) Approve(c Change) Decision {
	_, _ = fmt.Fprintf(p.out, "\n[%s] %s\n", c.Kind, c.Title())
	switch c.Kind {
	case Modified:
		for _, d := range c.Diffs {
			_, _ = fmt.Fprintf(p.out, "    %s: %s -> %s\n", d.Field, d.Old, d.New)
		}
		if len(c.Base.Assigned) > 0 {
			_, _ = fmt.Fprintf(p.out, "    helpers kept: %s\n", strings.Join(c.Base.Assigned, ", "))
		}
	case Added:
		_, _ = fmt.Fprintf(p.out, "    needs %d\n", c.New.Needed())
	case Removed:
		if len(c.Base.Assigned) > 0 {
			_, _ = fmt.Fprintf(p.out, "    helpers released: %s\n", strings.Join(c.Base.Assigned, ", "))
		}
	}
	line, ok := p.in.Ask(fmt.Sprintf("    %s (y/n/all) ", questions[c.Kind]))
	if !ok {
		return No
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return Yes
	case "a", "all":
		return All
	}
	return No
}
