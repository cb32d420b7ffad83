// Package textfilter softens profanity in rendered story text for
// family-friendly content ratings.
package textfilter

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// replacements maps each filtered word to its family-friendly alternative.
var replacements = map[string]string{
	"fuck":     "fudge",
	"shit":     "shoot",
	"damn":     "dang",
	"hell":     "heck",
	"ass":      "butt",
	"bitch":    "jerk",
	"bastard":  "jerk",
	"crap":     "crud",
	"piss":     "ticked",
	"goddamn":  "gosh-dang",
	"asshole":  "jerk",
	"bullshit": "baloney",
	"dumbass":  "dummy",
	"prick":    "jerk",
}

// Filter replaces profanity in story text with family-friendly alternatives,
// preserving the case pattern of the original word.
type Filter struct {
	regexes map[string]*regexp.Regexp
}

// New builds a Filter with patterns precompiled for each filtered word.
func New() *Filter {
	f := &Filter{regexes: make(map[string]*regexp.Regexp, len(replacements))}
	for word := range replacements {
		f.regexes[word] = regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(word) + `\b`)
	}
	return f
}

// Apply returns text with every filtered word replaced.
func (f *Filter) Apply(text string) string {
	result := text
	for word, re := range f.regexes {
		replacement := replacements[word]
		result = re.ReplaceAllStringFunc(result, func(match string) string {
			return preserveCase(match, replacement)
		})
	}
	return result
}

// Enabled reports whether a content rating calls for filtering.
func Enabled(rating string) bool {
	switch strings.ToUpper(strings.TrimSpace(rating)) {
	case "G", "PG", "PG13", "PG-13":
		return true
	default:
		return false
	}
}

// preserveCase applies the case pattern of the original word to the
// replacement.
func preserveCase(original, replacement string) string {
	if original == "" {
		return replacement
	}
	if strings.ToUpper(original) == original {
		return strings.ToUpper(replacement)
	}
	if strings.ToLower(original) == original {
		return replacement
	}
	titleCaser := cases.Title(language.English)
	if titleCaser.String(strings.ToLower(original)) == original {
		return titleCaser.String(replacement)
	}

	// Mixed case: copy the original's case rune by rune.
	originalRunes := []rune(original)
	out := make([]rune, 0, len(replacement))
	for i, r := range []rune(replacement) {
		if i < len(originalRunes) && unicode.IsUpper(originalRunes[i]) {
			out = append(out, unicode.ToUpper(r))
		} else {
			out = append(out, unicode.ToLower(r))
		}
	}
	return string(out)
}
