package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"math/rand"
	"time"

	"github.com/fictionkit/storyloom/internal/config"
	"github.com/fictionkit/storyloom/pkg/story"
	"github.com/fictionkit/storyloom/pkg/textfilter"
)

// lineDelay is the base pause after each story line when pacing is on.
const lineDelay = 600 * time.Millisecond

// Plain renders the story as styled lines on a line-oriented terminal and
// reads raw input from a reader. It implements engine.Renderer and serves as
// the raw source for ControlInput.
type Plain struct {
	out     io.Writer
	scanner *bufio.Scanner
	width   int
	fast    bool
	filter  *textfilter.Filter
	rng     *rand.Rand
}

// NewPlain builds a plain console from the runtime config.
func NewPlain(in io.Reader, out io.Writer, cfg *config.Config) *Plain {
	p := &Plain{
		out:     out,
		scanner: bufio.NewScanner(in),
		width:   cfg.WrapWidth,
		fast:    cfg.FastMode,
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	if textfilter.Enabled(cfg.Rating) {
		p.filter = textfilter.New()
	}
	return p
}

// Line displays one resolved story line. Empty lines render nothing;
// question prompts get a separating blank line first.
func (p *Plain) Line(ln story.Line) {
	if ln.Text == "" {
		return
	}
	if ln.Style == story.StyleQuestion {
		fmt.Fprintln(p.out)
	}
	fmt.Fprintln(p.out, RenderLine(ln, p.width, p.filter))
	p.pause()
}

// BlockEnd prints the separator after a block's text.
func (p *Plain) BlockEnd() {
	fmt.Fprintln(p.out)
}

// Choices prints the ordered, numbered option list.
func (p *Plain) Choices(labels []string) {
	fmt.Fprint(p.out, RenderChoices(labels))
	fmt.Fprintln(p.out)
}

// Notice prints a system message.
func (p *Plain) Notice(text string) {
	fmt.Fprintln(p.out, RenderNotice(text))
}

// ReadRaw reads one raw line of player input.
func (p *Plain) ReadRaw(ctx context.Context) (string, error) {
	fmt.Fprint(p.out, promptStyle.Render(":: "))
	if !p.scanner.Scan() {
		if err := p.scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return p.scanner.Text(), nil
}

// pause applies per-line pacing with a little jitter, unless fast mode is on.
func (p *Plain) pause() {
	if p.fast {
		return
	}
	jitter := time.Duration(p.rng.Int63n(int64(lineDelay / 2)))
	time.Sleep(lineDelay + jitter)
}
