package console

import (
	"strings"
	"testing"

	"github.com/fictionkit/storyloom/pkg/story"
	"github.com/fictionkit/storyloom/pkg/textfilter"
)

// Styled output degrades to plain text without a terminal, so these tests
// assert content, not escape codes.

func TestRenderLine_PlainContent(t *testing.T) {
	got := RenderLine(story.Line{Text: "The cellar is cold."}, 0, nil)
	if got != "The cellar is cold." {
		t.Errorf("RenderLine = %q", got)
	}
}

func TestRenderLine_Wraps(t *testing.T) {
	ln := story.Line{Text: "one two three four five"}
	got := RenderLine(ln, 10, nil)
	if !strings.Contains(got, "\n") {
		t.Errorf("Expected wrapped output, got %q", got)
	}
	for _, line := range strings.Split(got, "\n") {
		if len(line) > 10 {
			t.Errorf("Line %q exceeds wrap width", line)
		}
	}
}

func TestRenderLine_AppliesFilter(t *testing.T) {
	ln := story.Line{Text: "What the hell?", Style: story.StyleRed}
	got := RenderLine(ln, 0, textfilter.New())
	if !strings.Contains(got, "heck") || strings.Contains(got, "hell") {
		t.Errorf("Expected filtered output, got %q", got)
	}
}

func TestRenderLine_QuotedSpansKeepContent(t *testing.T) {
	ln := story.Line{Text: `The guard says "halt" and waits.`, Style: story.StyleYellow}
	got := RenderLine(ln, 0, nil)
	if got != ln.Text {
		t.Errorf("RenderLine = %q, want content preserved", got)
	}
}

func TestRenderChoices(t *testing.T) {
	got := RenderChoices([]string{"Go left", "Go right"})
	want := "1) Go left\n2) Go right\n"
	if got != want {
		t.Errorf("RenderChoices = %q, want %q", got, want)
	}
}

func TestRenderNotice(t *testing.T) {
	got := RenderNotice("Game saved!")
	if !strings.Contains(got, "Game saved!") {
		t.Errorf("RenderNotice = %q", got)
	}
}
