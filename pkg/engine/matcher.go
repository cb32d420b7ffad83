package engine

import (
	"strconv"
	"strings"

	"github.com/fictionkit/storyloom/pkg/lexicon"
	"github.com/fictionkit/storyloom/pkg/story"
)

// Dictionary reports membership of a normalized phrase in a named intent
// dictionary. It is consulted only for choices whose keyword field carries
// the dictionary marker.
type Dictionary interface {
	IsMember(dictionary, phrase string) bool
}

// Matcher decides whether sanitized player input selects a presented choice.
type Matcher struct {
	dict Dictionary
}

// NewMatcher creates a Matcher backed by the given dictionary capability.
func NewMatcher(dict Dictionary) *Matcher {
	return &Matcher{dict: dict}
}

// Matches reports whether input selects choice, presented at the given
// 1-based ordinal among the currently shown choices. Input is assumed
// sanitized and non-empty. A choice matches when the input equals the
// sanitized label, the raw target, or the ordinal's decimal string; when the
// keyword field contains the input as a substring; or when the keyword field
// names a dictionary that contains the input.
func (m *Matcher) Matches(choice story.Choice, input string, ordinal int) bool {
	if lexicon.Sanitize(choice.Label) == input {
		return true
	}
	if choice.Target == input {
		return true
	}
	if strconv.Itoa(ordinal) == input {
		return true
	}
	if choice.Keywords != "" && strings.Contains(choice.Keywords, input) {
		return true
	}
	if lexicon.IsDictionary(choice.Keywords) && m.dict != nil {
		return m.dict.IsMember(choice.Keywords, input)
	}
	return false
}
