package allocation

import (
	"errors"
	"strconv"
	"strings"
)

var (
	// ErrBlankInput is returned for empty input lines.
	ErrBlankInput = errors.New("blank input")
	// ErrUnknownCommand is returned for input that is neither a command nor names.
	ErrUnknownCommand = errors.New("unknown command")
)

// Command is one operator instruction in the task focus state.
type Command interface {
	command()
}

// Advance moves to the next task, skipping fully staffed ones.
type Advance struct{}

// Retreat moves to the previous task.
type Retreat struct{}

// Jump moves to a task by index. Menu asks for the target from the bucket
// listing instead.
type Jump struct {
	Index int
	Menu  bool
}

// Search enters the read-only search mode. Mode 0 asks which search to run.
type Search struct {
	Mode SearchMode
}

// Assign puts helpers on the focused task.
type Assign struct {
	Names []string
}

// Unassign removes one helper from the focused task.
type Unassign struct {
	Name string
}

// Quit ends the loop.
type Quit struct{}

func (Advance) command()  {}
func (Retreat) command()  {}
func (Jump) command()     {}
func (Search) command()   {}
func (Assign) command()   {}
func (Unassign) command() {}
func (Quit) command()     {}

// removalMarker prefixes a name to remove it.
const removalMarker = "-"

// ParseCommand turns one input line into a Command. Task numbers in the
// input are 1-based; Jump.Index is 0-based.
func ParseCommand(line string) (Command, error) {
	text := strings.TrimSpace(line)
	if text == "" {
		return nil, ErrBlankInput
	}
	fields := strings.Fields(text)
	switch strings.ToLower(fields[0]) {
	case "n":
		if len(fields) == 1 {
			return Advance{}, nil
		}
	case "b":
		if len(fields) == 1 {
			return Retreat{}, nil
		}
	case "q":
		if len(fields) == 1 {
			return Quit{}, nil
		}
	case "j":
		switch len(fields) {
		case 1:
			return Jump{Menu: true}, nil
		case 2:
			k, err := strconv.Atoi(fields[1])
			if err != nil || k < 1 {
				return nil, ErrUnknownCommand
			}
			return Jump{Index: k - 1}, nil
		}
		return nil, ErrUnknownCommand
	case "s":
		switch len(fields) {
		case 1:
			return Search{}, nil
		case 2:
			m, err := strconv.Atoi(fields[1])
			if err != nil || !SearchMode(m).valid() {
				return nil, ErrUnknownCommand
			}
			return Search{Mode: SearchMode(m)}, nil
		}
		return nil, ErrUnknownCommand
	}
	if strings.HasPrefix(text, removalMarker) {
		name := strings.TrimSpace(strings.TrimPrefix(text, removalMarker))
		if name == "" {
			return nil, ErrUnknownCommand
		}
		return Unassign{Name: name}, nil
	}
	names := SplitNames(text)
	if len(names) == 0 {
		return nil, ErrUnknownCommand
	}
	return Assign{Names: names}, nil
}

// SplitNames splits comma separated input, dropping blanks.
func SplitNames(text string) []string {
	var out []string
	for _, part := range strings.Split(text, ",") {
		if name := strings.TrimSpace(part); name != "" {
			out = append(out, name)
		}
	}
	return out
}
