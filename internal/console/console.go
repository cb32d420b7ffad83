// Package console renders resolved story lines for terminals and intercepts
// the control-command vocabulary before input reaches the interpreter.
package console

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/fictionkit/storyloom/pkg/story"
	"github.com/fictionkit/storyloom/pkg/textfilter"
)

var (
	yellowStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	blueStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	greenStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	redStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))

	// questionStyle marks question prompts embedded in story text.
	questionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("51"))

	noticeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Italic(true)
	promptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// RenderLine turns a resolved line into styled terminal output, wrapped to
// width when width is positive. When a highlighted line holds two or more
// quotation marks, only the quoted spans take the highlight and the rest
// renders in the default style.
func RenderLine(ln story.Line, width int, filter *textfilter.Filter) string {
	text := ln.Text
	if filter != nil {
		text = filter.Apply(text)
	}
	if width > 0 {
		text = wordwrap.String(text, width)
	}

	style, highlighted := styleFor(ln.Style)
	if !highlighted {
		return text
	}
	if strings.Count(text, `"`) >= 2 {
		return renderQuoted(text, style)
	}
	return style.Render(text)
}

// RenderChoices formats the numbered choice list.
func RenderChoices(labels []string) string {
	var b strings.Builder
	for i, label := range labels {
		fmt.Fprintf(&b, "%d) %s\n", i+1, label)
	}
	return b.String()
}

// RenderNotice formats a system message.
func RenderNotice(text string) string {
	return noticeStyle.Render(text)
}

func styleFor(s story.Style) (lipgloss.Style, bool) {
	switch s {
	case story.StyleYellow:
		return yellowStyle, true
	case story.StyleBlue:
		return blueStyle, true
	case story.StyleGreen:
		return greenStyle, true
	case story.StyleRed:
		return redStyle, true
	case story.StyleQuestion:
		return questionStyle, true
	default:
		return lipgloss.NewStyle(), false
	}
}

// renderQuoted highlights only the spans between paired quotation marks,
// quote characters included; text outside quotes keeps the default style.
func renderQuoted(text string, style lipgloss.Style) string {
	parts := strings.Split(text, `"`)
	var b strings.Builder
	for i, part := range parts {
		if i > 0 {
			b.WriteString(style.Render(`"`))
		}
		if i%2 == 1 {
			b.WriteString(style.Render(part))
		} else {
			b.WriteString(part)
		}
	}
	return b.String()
}
