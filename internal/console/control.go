package console

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/fictionkit/storyloom/internal/storage"
	"github.com/fictionkit/storyloom/pkg/engine"
	"github.com/fictionkit/storyloom/pkg/lexicon"
	"github.com/fictionkit/storyloom/pkg/state"
	"github.com/fictionkit/storyloom/pkg/story"
)

// RawSource yields raw, unsanitized player lines.
type RawSource interface {
	ReadRaw(ctx context.Context) (string, error)
}

// ControlInput sits between the raw input source and the interpreter. It
// sanitizes every line and intercepts the control vocabulary (quit, save,
// load) so those commands never reach the choice matcher. Save and load
// mutate the shared play-state and signal the engine to re-enter the block
// recorded in its progress.
type ControlInput struct {
	src    RawSource
	store  storage.Store
	state  *state.State
	render engine.Renderer
	logger *slog.Logger
}

var _ engine.InputSource = (*ControlInput)(nil)

// NewControlInput wires the control layer around a raw source.
func NewControlInput(src RawSource, store storage.Store, st *state.State, render engine.Renderer, logger *slog.Logger) *ControlInput {
	return &ControlInput{src: src, store: store, state: st, render: render, logger: logger}
}

// ReadLine returns the next sanitized player line, or a signal when a
// control command was handled instead. End of input reads as a quit.
func (c *ControlInput) ReadLine(ctx context.Context) (string, engine.Signal, error) {
	for {
		raw, err := c.src.ReadRaw(ctx)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return "", engine.SignalQuit, nil
			}
			return "", engine.SignalQuit, err
		}
		input := lexicon.Sanitize(raw)

		switch {
		case lexicon.IsMember(lexicon.Exits, input):
			return c.quit(ctx)
		case lexicon.IsMember(lexicon.Saves, input):
			c.save(ctx)
			return "", engine.SignalRestart, nil
		case lexicon.IsMember(lexicon.Loads, input):
			if c.load(ctx) {
				return "", engine.SignalRestart, nil
			}
		default:
			return input, engine.SignalNone, nil
		}
	}
}

// quit runs the orderly shutdown path, offering to persist unsaved progress
// first.
func (c *ControlInput) quit(ctx context.Context) (string, engine.Signal, error) {
	if !c.state.Flag(state.SavedFlag) {
		switch c.askSaveFirst(ctx) {
		case lexicon.AnswerYes:
			c.save(ctx)
		case lexicon.AnswerUnsure:
			c.render.Notice("I'll just save for you...")
			c.save(ctx)
		case lexicon.AnswerNo:
		}
	}
	c.render.Notice("See you next time!")
	return "", engine.SignalQuit, nil
}

// askSaveFirst loops a yes/no question until it gets a parseable answer.
// Input errors read as "no" so quitting always completes.
func (c *ControlInput) askSaveFirst(ctx context.Context) lexicon.Answer {
	for {
		c.render.Line(story.Line{Text: "  Do you want to save first?", Style: story.StyleQuestion})

		raw, err := c.src.ReadRaw(ctx)
		if err != nil {
			return lexicon.AnswerNo
		}
		input := lexicon.Sanitize(raw)
		if input == "" {
			continue
		}
		if answer, ok := lexicon.ParseAnswer(input); ok {
			return answer
		}
		c.render.Notice("I didn't understand that.")
	}
}

func (c *ControlInput) save(ctx context.Context) {
	if err := c.store.SaveState(ctx, c.state); err != nil {
		c.logger.Error("save failed", "name", c.state.Name, "error", err)
		c.render.Notice("Couldn't save the game.")
		return
	}
	c.state.SetFlag(state.SavedFlag, true)
	c.render.Notice("Game saved!")
}

func (c *ControlInput) load(ctx context.Context) bool {
	loaded, err := c.store.LoadState(ctx, c.state.Name)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			c.render.Notice("No save data found.")
		} else {
			c.logger.Error("load failed", "name", c.state.Name, "error", err)
			c.render.Notice("Couldn't load the game.")
		}
		return false
	}
	*c.state = *loaded
	c.render.Notice("Game loaded!")
	return true
}
