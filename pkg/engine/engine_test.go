package engine

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/fictionkit/storyloom/pkg/lexicon"
	"github.com/fictionkit/storyloom/pkg/state"
	"github.com/fictionkit/storyloom/pkg/story"
)

// memoryLibrary serves pre-parsed documents by name.
type memoryLibrary map[string]*story.Document

func (l memoryLibrary) Document(_ context.Context, name string) (*story.Document, error) {
	d, ok := l[name]
	if !ok {
		return nil, fmt.Errorf("document %q not found", name)
	}
	return d, nil
}

// recordingRenderer captures everything the interpreter emits.
type recordingRenderer struct {
	lines   []string
	notices []string
	choices [][]string
	ends    int
}

func (r *recordingRenderer) Line(ln story.Line) { r.lines = append(r.lines, ln.Text) }
func (r *recordingRenderer) BlockEnd()          { r.ends++ }
func (r *recordingRenderer) Choices(labels []string) {
	r.choices = append(r.choices, append([]string(nil), labels...))
}
func (r *recordingRenderer) Notice(text string) { r.notices = append(r.notices, text) }

// scriptedInput replays a fixed sequence of player inputs.
type scriptedInput struct {
	responses []response
}

type response struct {
	text string
	sig  Signal
}

func (s *scriptedInput) ReadLine(_ context.Context) (string, Signal, error) {
	if len(s.responses) == 0 {
		return "", SignalQuit, io.EOF
	}
	r := s.responses[0]
	s.responses = s.responses[1:]
	return r.text, r.sig, nil
}

type inputFunc func(ctx context.Context) (string, Signal, error)

func (f inputFunc) ReadLine(ctx context.Context) (string, Signal, error) { return f(ctx) }

func mustParse(t *testing.T, name, text string) *story.Document {
	t.Helper()
	blocks, err := story.Parse(strings.Split(text, "\n"))
	if err != nil {
		t.Fatalf("Parse(%s) failed: %v", name, err)
	}
	return &story.Document{Name: name, Blocks: blocks}
}

func newTestEngine(lib Library, render Renderer, input InputSource, st *state.State) *Engine {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(lib, render, input, NewMatcher(lexicon.Dict{}), st, logger)
}

const helloStory = `:- start
Hello.
-> middle
:- middle
You made it.`

const crossroadsStory = `:- crossroads
Pick a path.
*- Go left -> west path -> left_end
*- Go right -> @AFFIRMATIVES -> right_end
:- left_end
You went left.
:- right_end
You went right.`

func TestEngine_AutoAdvance(t *testing.T) {
	lib := memoryLibrary{"hello.txt": mustParse(t, "hello.txt", helloStory)}
	render := &recordingRenderer{}
	st := state.New("tester")
	st.SetProgress("hello.txt", "")
	st.SetFlag(state.SavedFlag, true)

	err := newTestEngine(lib, render, &scriptedInput{}, st).Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	want := []string{"Hello.", "You made it."}
	if len(render.lines) != len(want) || render.lines[0] != want[0] || render.lines[1] != want[1] {
		t.Errorf("Rendered lines = %v, want %v", render.lines, want)
	}
	if len(render.choices) != 0 {
		t.Errorf("Expected no prompt on a single-choice block, got %v", render.choices)
	}
	if st.Progress.Block != "middle" {
		t.Errorf("Progress block = %q, want middle", st.Progress.Block)
	}
	if st.Flag(state.SavedFlag) {
		t.Error("Expected saved flag cleared after following a choice")
	}
}

func TestEngine_PromptMatching(t *testing.T) {
	tests := []struct {
		name      string
		inputs    []response
		wantBlock string
		notices   int
	}{
		{"sanitized label", []response{{text: "go left"}}, "left_end", 0},
		{"ordinal", []response{{text: "2"}}, "right_end", 0},
		{"target", []response{{text: "right_end"}}, "right_end", 0},
		{"keyword substring", []response{{text: "west"}}, "left_end", 0},
		{"dictionary", []response{{text: "yes"}}, "right_end", 0},
		{"retry after miss", []response{{text: "banana"}, {text: "1"}}, "left_end", 1},
		{"empty input repeats", []response{{text: ""}, {text: "1"}}, "left_end", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lib := memoryLibrary{"cross.txt": mustParse(t, "cross.txt", crossroadsStory)}
			render := &recordingRenderer{}
			st := state.New("tester")
			st.SetProgress("cross.txt", "")

			err := newTestEngine(lib, render, &scriptedInput{responses: tt.inputs}, st).Run(context.Background())
			if err != nil {
				t.Fatalf("Run failed: %v", err)
			}
			if st.Progress.Block != tt.wantBlock {
				t.Errorf("Progress block = %q, want %q", st.Progress.Block, tt.wantBlock)
			}
			if len(render.notices) != tt.notices {
				t.Errorf("Notices = %v, want %d", render.notices, tt.notices)
			}
			if len(render.choices) != 1 || len(render.choices[0]) != 2 {
				t.Fatalf("Presented choices = %v, want one prompt with two labels", render.choices)
			}
			if render.choices[0][0] != "Go left" || render.choices[0][1] != "Go right" {
				t.Errorf("Choice labels = %v", render.choices[0])
			}
		})
	}
}

const gateStory = `:- gate
Two ways out.
*- #- score >= 50 => Bribe the guard -> bribe -> bribed
*- Walk away -> walk -> walked
:- bribed
The guard pockets the coins.
:- walked
You keep your money.`

func TestEngine_ChoiceFilteredByCounter(t *testing.T) {
	lib := memoryLibrary{"gate.txt": mustParse(t, "gate.txt", gateStory)}
	render := &recordingRenderer{}
	st := state.New("tester")
	st.SetProgress("gate.txt", "")

	// With a low score only one choice survives, so the interpreter
	// auto-advances without prompting.
	err := newTestEngine(lib, render, &scriptedInput{}, st).Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(render.choices) != 0 {
		t.Errorf("Expected no prompt with one surviving choice, got %v", render.choices)
	}
	if st.Progress.Block != "walked" {
		t.Errorf("Progress block = %q, want walked", st.Progress.Block)
	}
}

func TestEngine_ChoiceUnlockedByCounter(t *testing.T) {
	lib := memoryLibrary{"gate.txt": mustParse(t, "gate.txt", gateStory)}
	render := &recordingRenderer{}
	st := state.New("tester")
	st.SetProgress("gate.txt", "")
	st.AddScore(60)

	input := &scriptedInput{responses: []response{{text: "1"}}}
	err := newTestEngine(lib, render, input, st).Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(render.choices) != 1 || len(render.choices[0]) != 2 {
		t.Fatalf("Presented choices = %v, want one prompt with two labels", render.choices)
	}
	if render.choices[0][0] != "Bribe the guard" {
		t.Errorf("First label = %q, want resolved conditional label", render.choices[0][0])
	}
	if st.Progress.Block != "bribed" {
		t.Errorf("Progress block = %q, want bribed", st.Progress.Block)
	}
}

// A gated choice is selectable by the text the player actually sees, not the
// raw label with its conditional directive.
func TestEngine_ConditionalChoiceMatchesDisplayedLabel(t *testing.T) {
	lib := memoryLibrary{"gate.txt": mustParse(t, "gate.txt", gateStory)}
	render := &recordingRenderer{}
	st := state.New("tester")
	st.SetProgress("gate.txt", "")
	st.AddScore(60)

	input := &scriptedInput{responses: []response{{text: "bribe the guard"}}}
	err := newTestEngine(lib, render, input, st).Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(render.notices) != 0 {
		t.Errorf("Notices = %v, want none", render.notices)
	}
	if st.Progress.Block != "bribed" {
		t.Errorf("Progress block = %q, want bribed", st.Progress.Block)
	}
}

const lampStory = `:- first
?- lamp_on => The lamp is on. => The room is dark.
=- lamp_on = true
+- score + 10
*- #- score >= 10 => Rich choice -> rich -> rich_end
*- Poor choice -> poor -> poor_end
:- rich_end
Rich.
:- poor_end
Poor.`

// Text resolves against the state before the block's effects apply; choice
// filtering runs after.
func TestEngine_EffectsApplyAfterText(t *testing.T) {
	lib := memoryLibrary{"lamp.txt": mustParse(t, "lamp.txt", lampStory)}
	render := &recordingRenderer{}
	st := state.New("tester")
	st.SetProgress("lamp.txt", "")

	input := &scriptedInput{responses: []response{{text: "1"}}}
	err := newTestEngine(lib, render, input, st).Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(render.lines) == 0 || render.lines[0] != "The room is dark." {
		t.Errorf("First line = %v, want pre-effect else branch", render.lines)
	}
	if len(render.choices) != 1 || len(render.choices[0]) != 2 {
		t.Fatalf("Presented choices = %v, want both after the counter effect", render.choices)
	}
	if !st.Flag("lamp_on") {
		t.Error("Expected lamp_on set by block effects")
	}
	if st.Counter(state.ScoreCounter) != 10 {
		t.Errorf("Score = %d, want 10", st.Counter(state.ScoreCounter))
	}
}

const sequelStory = `:- opening
A new chapter.`

func TestEngine_CrossDocumentTransfer(t *testing.T) {
	lib := memoryLibrary{
		"hello.txt":  mustParse(t, "hello.txt", ":- start\nHello.\n-> sequel.txt"),
		"sequel.txt": mustParse(t, "sequel.txt", sequelStory),
	}
	render := &recordingRenderer{}
	st := state.New("tester")
	st.SetProgress("hello.txt", "")
	st.SetFlag(state.SavedFlag, true)

	err := newTestEngine(lib, render, &scriptedInput{}, st).Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if st.Progress.Document != "sequel.txt" || st.Progress.Block != "opening" {
		t.Errorf("Progress = %+v, want sequel.txt/opening", st.Progress)
	}
	if st.Flag(state.SavedFlag) {
		t.Error("Expected saved flag cleared on document transfer")
	}
	last := render.lines[len(render.lines)-1]
	if last != "A new chapter." {
		t.Errorf("Last line = %q, want sequel text", last)
	}
}

func TestEngine_GameOverStopsRun(t *testing.T) {
	const doomed = `:- doom
You died.
=- game_over = true
*- Continue -> c -> nowhere
*- Retry -> r -> nowhere`
	lib := memoryLibrary{"doom.txt": mustParse(t, "doom.txt", doomed)}
	render := &recordingRenderer{}
	st := state.New("tester")
	st.SetProgress("doom.txt", "")

	err := newTestEngine(lib, render, &scriptedInput{}, st).Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(render.choices) != 0 {
		t.Errorf("Expected no prompt after game over, got %v", render.choices)
	}
	if st.Progress.Block != "doom" {
		t.Errorf("Progress block = %q, want doom", st.Progress.Block)
	}
}

func TestEngine_MissingStartingDocument(t *testing.T) {
	st := state.New("tester")
	st.SetProgress("absent.txt", "")

	err := newTestEngine(memoryLibrary{}, &recordingRenderer{}, &scriptedInput{}, st).Run(context.Background())
	if err == nil {
		t.Fatal("Expected an error for a missing starting document")
	}
}

func TestEngine_MissingBlockEndsBranch(t *testing.T) {
	lib := memoryLibrary{"hello.txt": mustParse(t, "hello.txt", helloStory)}
	render := &recordingRenderer{}
	st := state.New("tester")
	st.SetProgress("hello.txt", "ghost")

	err := newTestEngine(lib, render, &scriptedInput{}, st).Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(render.notices) != 1 || render.notices[0] != endOfStoryNotice {
		t.Errorf("Notices = %v, want the end-of-story notice", render.notices)
	}
}

func TestEngine_MissingTargetEndsBranch(t *testing.T) {
	const dangling = `:- start
Onward.
-> ghost`
	lib := memoryLibrary{"dangle.txt": mustParse(t, "dangle.txt", dangling)}
	render := &recordingRenderer{}
	st := state.New("tester")
	st.SetProgress("dangle.txt", "")

	err := newTestEngine(lib, render, &scriptedInput{}, st).Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(render.notices) != 1 || render.notices[0] != endOfStoryNotice {
		t.Errorf("Notices = %v, want the end-of-story notice", render.notices)
	}
	if st.Progress.Block != "start" {
		t.Errorf("Progress block = %q, want start", st.Progress.Block)
	}
}

func TestEngine_QuitSignal(t *testing.T) {
	lib := memoryLibrary{"cross.txt": mustParse(t, "cross.txt", crossroadsStory)}
	render := &recordingRenderer{}
	st := state.New("tester")
	st.SetProgress("cross.txt", "")

	input := &scriptedInput{responses: []response{{sig: SignalQuit}}}
	err := newTestEngine(lib, render, input, st).Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if st.Progress.Block != "crossroads" {
		t.Errorf("Progress block = %q, want crossroads", st.Progress.Block)
	}
}

func TestEngine_RestartSignalReenters(t *testing.T) {
	lib := memoryLibrary{
		"cross.txt": mustParse(t, "cross.txt", crossroadsStory),
		"hello.txt": mustParse(t, "hello.txt", helloStory),
	}
	render := &recordingRenderer{}
	st := state.New("tester")
	st.SetProgress("cross.txt", "")

	// Simulates a load: the control layer rewrites progress out of band and
	// asks the interpreter to re-enter.
	restarted := false
	input := inputFunc(func(context.Context) (string, Signal, error) {
		if !restarted {
			restarted = true
			st.SetProgress("hello.txt", "middle")
			return "", SignalRestart, nil
		}
		return "", SignalQuit, nil
	})

	err := newTestEngine(lib, render, input, st).Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	last := render.lines[len(render.lines)-1]
	if last != "You made it." {
		t.Errorf("Last line = %q, want text from the restarted block", last)
	}
	if st.Progress.Document != "hello.txt" || st.Progress.Block != "middle" {
		t.Errorf("Progress = %+v, want hello.txt/middle", st.Progress)
	}
}
