package lexicon

import (
	"testing"

	"pgregory.net/rapid"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Hello, World!", "hello world"},
		{"  YES!  ", "yes"},
		{"go   north", "go   north"},
		{"10-4", "104"},
		{"don't", "dont"},
		{"...", ""},
		{"", ""},
	}

	for _, tt := range tests {
		if got := Sanitize(tt.in); got != tt.want {
			t.Errorf("Sanitize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

// Sanitize is idempotent: sanitizing sanitized input changes nothing.
func TestSanitize_Idempotent(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		in := rapid.String().Draw(t, "in")
		once := Sanitize(in)
		if twice := Sanitize(once); twice != once {
			t.Fatalf("Sanitize not idempotent: %q -> %q -> %q", in, once, twice)
		}
	})
}

func TestIsMember(t *testing.T) {
	tests := []struct {
		dict   string
		phrase string
		want   bool
	}{
		{Affirmatives, "yes", true},
		{Affirmatives, "yeah sure", true},
		{Affirmatives, "no", false},
		{Negatives, "no way", true},
		{Unsuratives, "i dunno", true},
		{Norths, "go forward", true},
		{Exits, "quit game", true},
		{Saves, "save", true},
		{Loads, "load game", true},
		{"@NOSUCHDICT", "yes", false},
	}

	for _, tt := range tests {
		if got := IsMember(tt.dict, tt.phrase); got != tt.want {
			t.Errorf("IsMember(%q, %q) = %v, want %v", tt.dict, tt.phrase, got, tt.want)
		}
	}
}

func TestIsDictionary(t *testing.T) {
	if !IsDictionary("@AFFIRMATIVES") {
		t.Error("Expected @AFFIRMATIVES to be a dictionary reference")
	}
	if IsDictionary("walk away") {
		t.Error("Expected literal keywords not to be a dictionary reference")
	}
}

func TestParseAnswer(t *testing.T) {
	tests := []struct {
		in     string
		want   Answer
		wantOK bool
	}{
		{"yes", AnswerYes, true},
		{"nope", AnswerNo, true},
		{"i guess", AnswerUnsure, true},
		{"purple", 0, false},
	}

	for _, tt := range tests {
		got, ok := ParseAnswer(tt.in)
		if ok != tt.wantOK || (ok && got != tt.want) {
			t.Errorf("ParseAnswer(%q) = %v, %v; want %v, %v", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestParseDirection(t *testing.T) {
	tests := []struct {
		in     string
		want   Direction
		wantOK bool
	}{
		{"north", North, true},
		{"go right", East, true},
		{"climb down", Down, true},
		{"run away", Return, true},
		{"sideways", 0, false},
	}

	for _, tt := range tests {
		got, ok := ParseDirection(tt.in)
		if ok != tt.wantOK || (ok && got != tt.want) {
			t.Errorf("ParseDirection(%q) = %v, %v; want %v, %v", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}
