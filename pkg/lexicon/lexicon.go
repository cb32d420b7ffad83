// Package lexicon provides the named intent dictionaries used to classify
// free-form player input, plus the input sanitizer.
package lexicon

import (
	"strings"
	"unicode"
)

// Marker prefixes a choice keyword field that refers to a named dictionary
// instead of a literal phrase.
const Marker = "@"

// Dictionary names accepted by IsMember.
const (
	Affirmatives = "@AFFIRMATIVES"
	Negatives    = "@NEGATIVES"
	Unsuratives  = "@UNSURATIVES"
	Norths       = "@NORTHS"
	Easts        = "@EASTS"
	Souths       = "@SOUTHS"
	Wests        = "@WESTS"
	Ups          = "@UPS"
	Downs        = "@DOWNS"
	Returns      = "@RETURNS"
	Exits        = "@EXITS"
	Saves        = "@SAVES"
	Loads        = "@LOADS"
)

var dictionaries = map[string][]string{
	Affirmatives: {
		"10-4", "affirmative", "alright", "aye", "ok", "okay", "please",
		"positive", "sure", "y", "yay", "ye", "yeah", "yeah ok", "yeah sure",
		"yep", "yes", "yes please", "yup",
	},
	Negatives: {
		"n", "nah", "nay", "negative", "never", "no", "nope", "no please",
		"not ok", "not okay", "no way",
	},
	Unsuratives: {
		"dunno", "huh", "idk", "i dont know", "i dunno", "i guess", "maybe",
		"no clue", "no idea", "not sure", "que", "shrug", "unsure", "what",
	},
	Norths: {
		"forward", "go forward", "go north", "n", "north", "northbound", "northward",
	},
	Easts: {
		"e", "east", "eastbound", "eastward", "go east", "go right", "right",
	},
	Souths: {
		"backward", "go backward", "go south", "s", "south", "southbound", "southward",
	},
	Wests: {
		"go left", "go west", "left", "w", "west", "westbound", "westward",
	},
	Ups: {
		"ascend", "climb", "climb up", "fly", "fly up", "go up", "rise", "u", "up",
	},
	Downs: {
		"climb down", "d", "descend", "down", "fall", "glide", "go down",
	},
	Returns: {
		"b", "back", "fall back", "go back", "r", "retreat", "return", "run", "run away",
	},
	Exits: {
		"exit", "exit game", "quit", "quit game",
	},
	Saves: {
		"save", "save game",
	},
	Loads: {
		"load", "load game",
	},
}

// IsDictionary reports whether a choice keyword field refers to a named
// dictionary rather than a literal phrase.
func IsDictionary(keywords string) bool {
	return strings.HasPrefix(keywords, Marker)
}

// IsMember reports whether phrase belongs to the named dictionary. Unknown
// dictionary names match nothing.
func IsMember(dictionary, phrase string) bool {
	for _, entry := range dictionaries[dictionary] {
		if entry == phrase {
			return true
		}
	}
	return false
}

// Dict adapts the package dictionaries to a capability interface, so callers
// can depend on a lookup value instead of package functions.
type Dict struct{}

// IsMember reports whether phrase belongs to the named dictionary.
func (Dict) IsMember(dictionary, phrase string) bool {
	return IsMember(dictionary, phrase)
}

// Sanitize normalizes raw player input: strips every character that is not a
// letter, digit, or space, trims surrounding whitespace, and lowercases.
func Sanitize(raw string) string {
	kept := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == ' ' {
			return r
		}
		return -1
	}, raw)
	return strings.ToLower(strings.TrimSpace(kept))
}

// Answer classifies a yes/no reply.
type Answer int

const (
	AnswerYes Answer = iota
	AnswerNo
	AnswerUnsure
)

// ParseAnswer classifies sanitized input as a yes/no/unsure reply. It reports
// false when the input matches none of the answer dictionaries.
func ParseAnswer(input string) (Answer, bool) {
	switch {
	case IsMember(Affirmatives, input):
		return AnswerYes, true
	case IsMember(Negatives, input):
		return AnswerNo, true
	case IsMember(Unsuratives, input):
		return AnswerUnsure, true
	default:
		return 0, false
	}
}

// Direction classifies a movement reply.
type Direction int

const (
	North Direction = iota
	East
	South
	West
	Up
	Down
	Return
)

// ParseDirection classifies sanitized input as a travel direction. It reports
// false when the input matches none of the direction dictionaries.
func ParseDirection(input string) (Direction, bool) {
	switch {
	case IsMember(Norths, input):
		return North, true
	case IsMember(Easts, input):
		return East, true
	case IsMember(Souths, input):
		return South, true
	case IsMember(Wests, input):
		return West, true
	case IsMember(Ups, input):
		return Up, true
	case IsMember(Downs, input):
		return Down, true
	case IsMember(Returns, input):
		return Return, true
	default:
		return 0, false
	}
}
