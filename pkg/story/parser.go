package story

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// MalformedDirectiveError reports a line that matches a directive prefix but
// violates that directive's required shape. It aborts parsing of the
// document; the caller decides whether that is fatal to the run.
type MalformedDirectiveError struct {
	Line   int
	Reason string
}

func (e *MalformedDirectiveError) Error() string {
	return fmt.Sprintf("malformed directive on line %d: %s", e.Line, e.Reason)
}

// choiceSeparator splits the parts of a choice directive.
const choiceSeparator = " -> "

// Parse converts raw markup lines into an ordered block sequence in a single
// stateful pass. Directive lines mutate the block under construction; a
// block-start line seals it. The final block is sealed unconditionally, so a
// document with no block-start lines yields exactly one anonymous block.
// Duplicate block names are accepted; lookup returns the first match.
func Parse(lines []string) ([]Block, error) {
	var blocks []Block
	current := newBlock("")
	seenBlock := false

	for i, line := range lines {
		lineNum := i + 1
		switch {
		case strings.HasPrefix(line, ":-"):
			name := strings.TrimSpace(line[2:])
			if name == "" {
				return nil, &MalformedDirectiveError{Line: lineNum, Reason: "block start is missing a name"}
			}
			if seenBlock {
				blocks = append(blocks, current)
			}
			seenBlock = true
			current = newBlock(name)

		case strings.HasPrefix(line, "*-"):
			parts := strings.Split(line, choiceSeparator)
			if len(parts) < 3 {
				return nil, &MalformedDirectiveError{Line: lineNum, Reason: "choice needs `*- label -> keywords -> target`"}
			}
			current.Choices = append(current.Choices, Choice{
				Label:    strings.TrimSpace(parts[0][2:]),
				Keywords: parts[1],
				Target:   parts[2],
			})

		case strings.HasPrefix(line, "->"):
			target := strings.TrimSpace(line[2:])
			if target == "" {
				return nil, &MalformedDirectiveError{Line: lineNum, Reason: "transition is missing a target"}
			}
			current.Choices = append(current.Choices, Choice{Target: target})

		case strings.HasPrefix(line, "=-"):
			parts := strings.Split(line, " = ")
			if len(parts) < 2 {
				return nil, &MalformedDirectiveError{Line: lineNum, Reason: "flag effect needs `=- name = bool`"}
			}
			name := strings.TrimSpace(parts[0][2:])
			if name == "" {
				return nil, &MalformedDirectiveError{Line: lineNum, Reason: "flag effect is missing a name"}
			}
			value, err := strconv.ParseBool(strings.TrimSpace(parts[1]))
			if err != nil {
				return nil, &MalformedDirectiveError{Line: lineNum, Reason: fmt.Sprintf("flag value %q is not a bool", parts[1])}
			}
			current.Flags[name] = value

		case strings.HasPrefix(line, "+-"):
			parts := strings.Split(line, " + ")
			if len(parts) < 2 {
				return nil, &MalformedDirectiveError{Line: lineNum, Reason: "counter effect needs `+- name + int`"}
			}
			name := strings.TrimSpace(parts[0][2:])
			if name == "" {
				return nil, &MalformedDirectiveError{Line: lineNum, Reason: "counter effect is missing a name"}
			}
			delta, err := strconv.Atoi(strings.TrimSpace(parts[1]))
			if err != nil {
				return nil, &MalformedDirectiveError{Line: lineNum, Reason: fmt.Sprintf("counter value %q is not an integer", parts[1])}
			}
			current.Counters[name] = delta

		default:
			// Plain text. Conditional and color directives embedded here are
			// resolved at render time, not at parse time.
			current.Text = append(current.Text, line)
		}
	}

	blocks = append(blocks, current)
	return blocks, nil
}

// ParseDocument reads markup from r and parses it into a named Document.
func ParseDocument(name string, r io.Reader) (*Document, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading document %q: %w", name, err)
	}

	blocks, err := Parse(lines)
	if err != nil {
		return nil, fmt.Errorf("parsing document %q: %w", name, err)
	}
	return &Document{Name: name, Blocks: blocks}, nil
}

func newBlock(name string) Block {
	return Block{
		Name:     name,
		Flags:    make(map[string]bool),
		Counters: make(map[string]int),
	}
}
