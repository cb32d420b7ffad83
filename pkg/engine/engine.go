// Package engine executes parsed story documents against the mutable
// play-state: it renders block text through the conditional resolver, applies
// effects, filters and presents choices, matches player input, and follows
// targets across blocks and documents.
package engine

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/fictionkit/storyloom/pkg/state"
	"github.com/fictionkit/storyloom/pkg/story"
)

// Signal accompanies player input from the control layer.
type Signal int

const (
	// SignalNone means the input is ordinary player text.
	SignalNone Signal = iota
	// SignalQuit aborts the choice loop for an orderly shutdown.
	SignalQuit
	// SignalRestart means the play-state changed out of band (save or load);
	// the interpreter re-enters the block recorded in the state's progress.
	SignalRestart
)

// Renderer receives resolved story output. Rendering details (timing,
// colors, wrapping) live behind this interface.
type Renderer interface {
	// Line displays one resolved line of story text.
	Line(ln story.Line)
	// BlockEnd marks the end of a block's text.
	BlockEnd()
	// Choices displays an ordered, numbered list of choice labels.
	Choices(labels []string)
	// Notice displays a system message such as "I didn't understand that."
	Notice(text string)
}

// InputSource yields sanitized player input. Control commands (quit, save,
// load) are intercepted upstream and surface here only as signals.
type InputSource interface {
	ReadLine(ctx context.Context) (string, Signal, error)
}

// Library loads and parses story documents by name.
type Library interface {
	Document(ctx context.Context, name string) (*story.Document, error)
}

const endOfStoryNotice = "This path leads nowhere. The story ends here."

// Engine is the block interpreter. It is the sole writer of the play-state
// for the duration of a run.
type Engine struct {
	library Library
	render  Renderer
	input   InputSource
	matcher *Matcher
	state   *state.State
	logger  *slog.Logger
}

// New assembles an Engine from its collaborators.
func New(library Library, render Renderer, input InputSource, matcher *Matcher, st *state.State, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		library: library,
		render:  render,
		input:   input,
		matcher: matcher,
		state:   st,
		logger:  logger,
	}
}

// presented is a choice that survived filtering, with its resolved label.
type presented struct {
	choice story.Choice
	label  string
}

// Run starts the story at the document and block recorded in the state's
// progress and executes blocks until a branch ends or the player quits.
// Failure to load the starting document is the only fatal error; navigation
// failures mid-run end the branch gracefully.
func (e *Engine) Run(ctx context.Context) error {
	doc, err := e.library.Document(ctx, e.state.Progress.Document)
	if err != nil {
		return fmt.Errorf("loading starting document %q: %w", e.state.Progress.Document, err)
	}

	blockName := e.state.Progress.Block
	if blockName == "" && doc.First() != nil {
		blockName = doc.First().Name
	}

	// Explicit trampoline: each iteration executes one block and computes the
	// next, so long stories never grow the call stack.
	for {
		block, ok := doc.Block(blockName)
		if !ok {
			e.logger.Warn("block not found", "document", doc.Name, "block", blockName)
			e.render.Notice(endOfStoryNotice)
			return nil
		}
		e.state.SetProgress(doc.Name, block.Name)

		e.renderText(block)
		e.applyEffects(block)

		if e.state.Flag(state.GameOverFlag) {
			return nil
		}

		choices := e.filterChoices(block)

		var target string
		switch len(choices) {
		case 0:
			// The narrative ends here.
			return nil
		case 1:
			// Auto-advance: follow the single choice without prompting.
			target = choices[0].choice.Target
		default:
			selected, sig, err := e.promptChoice(ctx, choices)
			if err != nil {
				return err
			}
			switch sig {
			case SignalQuit:
				return nil
			case SignalRestart:
				doc, blockName, err = e.reload(ctx)
				if err != nil {
					return err
				}
				continue
			}
			target = selected
		}

		doc, blockName, ok = e.follow(ctx, doc, target)
		if !ok {
			return nil
		}
	}
}

// renderText passes each raw line through the conditional resolver and
// displays the lines that yield output. Conditional misses render nothing.
func (e *Engine) renderText(block *story.Block) {
	for _, raw := range block.Text {
		if ln, ok := story.Resolve(raw, e.state); ok {
			e.render.Line(ln)
		}
	}
	e.render.BlockEnd()
}

// applyEffects writes the block's flag and counter effects. The two maps are
// disjoint namespaces, so their relative order is immaterial.
func (e *Engine) applyEffects(block *story.Block) {
	for name, value := range block.Flags {
		e.state.SetFlag(name, value)
	}
	for name, delta := range block.Counters {
		e.state.UpdateCounter(name, delta)
	}
}

// filterChoices drops choices whose conditional label evaluates false and
// resolves the labels of the rest, preserving order. Surviving choices carry
// the resolved label, so the matcher sees the same text the player does.
func (e *Engine) filterChoices(block *story.Block) []presented {
	var out []presented
	for _, c := range block.Choices {
		if label, ok := story.FilterLabel(c.Label, e.state); ok {
			c.Label = label
			out = append(out, presented{choice: c, label: label})
		}
	}
	return out
}

// promptChoice presents the filtered choices and loops on player input until
// one matches or the control layer signals. Empty input repeats silently;
// unmatched input draws a short notice.
func (e *Engine) promptChoice(ctx context.Context, choices []presented) (string, Signal, error) {
	labels := make([]string, len(choices))
	for i, p := range choices {
		labels[i] = p.label
	}
	e.render.Choices(labels)

	for {
		input, sig, err := e.input.ReadLine(ctx)
		if err != nil {
			return "", SignalQuit, err
		}
		if sig != SignalNone {
			return "", sig, nil
		}
		if input == "" {
			continue
		}

		for i, p := range choices {
			if e.matcher.Matches(p.choice, input, i+1) {
				return p.choice.Target, SignalNone, nil
			}
		}
		e.render.Notice("I didn't understand that.")
	}
}

// follow resolves a choice target into the next document and block. Block
// and document transitions both clear the saved-progress flag. A target that
// resolves to neither ends the branch without failing the run.
func (e *Engine) follow(ctx context.Context, doc *story.Document, target string) (*story.Document, string, bool) {
	if story.IsDocumentTarget(target) {
		next, err := e.library.Document(ctx, target)
		if err != nil {
			e.logger.Warn("target document not found", "document", doc.Name, "target", target, "error", err)
			e.render.Notice(endOfStoryNotice)
			return nil, "", false
		}
		if next.First() == nil {
			e.logger.Warn("target document is empty", "target", target)
			e.render.Notice(endOfStoryNotice)
			return nil, "", false
		}
		e.state.SetFlag(state.SavedFlag, false)
		return next, next.First().Name, true
	}

	if _, ok := doc.Block(target); !ok {
		e.logger.Warn("target block not found", "document", doc.Name, "target", target)
		e.render.Notice(endOfStoryNotice)
		return nil, "", false
	}
	e.state.SetFlag(state.SavedFlag, false)
	return doc, target, true
}

// reload re-enters the story at the position recorded in the state's
// progress. Used after an out-of-band save or load.
func (e *Engine) reload(ctx context.Context) (*story.Document, string, error) {
	doc, err := e.library.Document(ctx, e.state.Progress.Document)
	if err != nil {
		return nil, "", fmt.Errorf("reloading document %q: %w", e.state.Progress.Document, err)
	}
	blockName := e.state.Progress.Block
	if blockName == "" && doc.First() != nil {
		blockName = doc.First().Name
	}
	return doc, blockName, nil
}
