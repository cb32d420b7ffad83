package story

import (
	"strconv"
	"strings"
)

// Style is the rendering hint attached to a resolved line.
type Style int

const (
	StyleDefault Style = iota
	StyleYellow
	StyleBlue
	StyleGreen
	StyleRed
	// StyleQuestion marks a question prompt, rendered in a distinguished
	// highlight and preceded by a blank line.
	StyleQuestion
)

// Line is a fully resolved, renderable line of story text.
type Line struct {
	Text  string
	Style Style
}

// Env is the read side of the play-state that conditionals evaluate against.
// Effects apply only after a block's text has rendered, so every conditional
// within one block observes the environment as of block entry.
type Env interface {
	Flag(name string) bool
	Counter(name string) int
}

const (
	conditionalSeparator = " => "

	// maxConditionalDepth caps nested conditional resolution. Story files
	// never nest anywhere near this deep; the cap guards against cycles in
	// hand-edited markup.
	maxConditionalDepth = 32
)

// node is the tagged-variant form of one raw text line.
type node interface{ lineNode() }

type plainNode struct {
	text  string
	style Style
}

type flagNode struct {
	flag    string
	then    string
	orElse  string
	hasElse bool
}

type counterNode struct {
	counter string
	op      string
	value   int
	then    string
	orElse  string
	hasElse bool
	valid   bool
}

func (plainNode) lineNode()   {}
func (flagNode) lineNode()    {}
func (counterNode) lineNode() {}

// Resolve evaluates the conditional and color directives embedded in a raw
// text line against env. It reports false when a conditional misses with no
// else branch, meaning nothing should be rendered for this line. The chosen
// branch is itself re-resolved, so conditionals may wrap color hints or
// further conditionals up to maxConditionalDepth.
func Resolve(raw string, env Env) (Line, bool) {
	for depth := 0; depth <= maxConditionalDepth; depth++ {
		switch n := parseNode(raw).(type) {
		case plainNode:
			return Line{Text: n.text, Style: n.style}, true
		case flagNode:
			switch {
			case env.Flag(n.flag):
				raw = n.then
			case n.hasElse:
				raw = n.orElse
			default:
				return Line{}, false
			}
		case counterNode:
			switch {
			case n.valid && comparePredicate(env.Counter(n.counter), n.op, n.value):
				raw = n.then
			case n.hasElse:
				raw = n.orElse
			default:
				return Line{}, false
			}
		}
	}
	return Line{}, false
}

// FilterLabel evaluates a leading conditional directive on a choice label.
// The label becomes the then branch when the condition holds; a false
// condition drops the choice entirely. Choices have no else branch, and
// unconditional labels pass through verbatim.
func FilterLabel(label string, env Env) (string, bool) {
	switch n := parseNode(label).(type) {
	case flagNode:
		if env.Flag(n.flag) {
			return n.then, true
		}
		return "", false
	case counterNode:
		if n.valid && comparePredicate(env.Counter(n.counter), n.op, n.value) {
			return n.then, true
		}
		return "", false
	default:
		return label, true
	}
}

// parseNode classifies one raw line into its tagged variant.
func parseNode(raw string) node {
	switch {
	case strings.HasPrefix(raw, "?- "):
		parts := strings.Split(raw, conditionalSeparator)
		if len(parts) < 2 {
			// No then branch: not a usable conditional, show it as written.
			return plainNode{text: raw}
		}
		n := flagNode{flag: parts[0][3:], then: parts[1]}
		if len(parts) > 2 {
			n.orElse = strings.Join(parts[2:], conditionalSeparator)
			n.hasElse = true
		}
		return n

	case strings.HasPrefix(raw, "#- "):
		parts := strings.Split(raw, conditionalSeparator)
		if len(parts) < 2 {
			return plainNode{text: raw}
		}
		n := counterNode{then: parts[1]}
		if len(parts) > 2 {
			n.orElse = strings.Join(parts[2:], conditionalSeparator)
			n.hasElse = true
		}
		fields := strings.Fields(parts[0])
		if len(fields) == 4 {
			if value, err := strconv.Atoi(fields[3]); err == nil {
				n.counter = fields[1]
				n.op = fields[2]
				n.value = value
				n.valid = true
			}
		}
		return n

	case strings.HasPrefix(raw, "-y "):
		return plainNode{text: raw[3:], style: StyleYellow}
	case strings.HasPrefix(raw, "-b "):
		return plainNode{text: raw[3:], style: StyleBlue}
	case strings.HasPrefix(raw, "-g "):
		return plainNode{text: raw[3:], style: StyleGreen}
	case strings.HasPrefix(raw, "-r "):
		return plainNode{text: raw[3:], style: StyleRed}

	case strings.HasPrefix(raw, "  "):
		return plainNode{text: raw, style: StyleQuestion}

	default:
		return plainNode{text: raw}
	}
}

func comparePredicate(counter int, op string, value int) bool {
	switch op {
	case "<":
		return counter < value
	case "<=":
		return counter <= value
	case "==":
		return counter == value
	case ">=":
		return counter >= value
	case ">":
		return counter > value
	default:
		return false
	}
}
