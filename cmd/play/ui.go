package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/fictionkit/storyloom/internal/config"
	"github.com/fictionkit/storyloom/internal/console"
	"github.com/fictionkit/storyloom/internal/storage"
	"github.com/fictionkit/storyloom/pkg/engine"
	"github.com/fictionkit/storyloom/pkg/lexicon"
	"github.com/fictionkit/storyloom/pkg/state"
	"github.com/fictionkit/storyloom/pkg/story"
	"github.com/fictionkit/storyloom/pkg/textfilter"
)

const placeholderText = "Type a choice and press Enter..."

var (
	titleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	echoStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

type eventKind int

const (
	eventLine eventKind = iota
	eventNotice
	eventChoices
	eventDone
)

// uiEvent crosses from the engine goroutine into the UI loop.
type uiEvent struct {
	kind   eventKind
	styled string
	plain  string
	err    error
}

type eventMsg uiEvent

// uiRenderer implements engine.Renderer by forwarding rendered text to the
// UI event channel.
type uiRenderer struct {
	events chan<- uiEvent
	width  int
	filter *textfilter.Filter
}

func (r *uiRenderer) Line(ln story.Line) {
	if ln.Text == "" {
		return
	}
	if ln.Style == story.StyleQuestion {
		r.events <- uiEvent{kind: eventLine}
	}
	r.events <- uiEvent{
		kind:   eventLine,
		styled: console.RenderLine(ln, r.width, r.filter),
		plain:  ln.Text,
	}
}

func (r *uiRenderer) BlockEnd() {
	r.events <- uiEvent{kind: eventLine}
}

func (r *uiRenderer) Choices(labels []string) {
	rendered := strings.TrimRight(console.RenderChoices(labels), "\n")
	r.events <- uiEvent{kind: eventChoices, styled: rendered, plain: rendered}
}

func (r *uiRenderer) Notice(text string) {
	r.events <- uiEvent{kind: eventNotice, styled: console.RenderNotice(text), plain: text}
}

// uiSource feeds lines typed into the textarea to the control layer.
type uiSource struct {
	ch <-chan string
}

func (s uiSource) ReadRaw(ctx context.Context) (string, error) {
	select {
	case line, ok := <-s.ch:
		if !ok {
			return "", io.EOF
		}
		return line, nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// UI is the BubbleTea model. The interpreter runs in its own goroutine and
// talks to the UI through the event and input channels.
type UI struct {
	viewport viewport.Model
	textarea textarea.Model

	events  chan uiEvent
	inputCh chan string
	start   func()

	lines      []string // styled viewport content
	transcript []string // plain content for the clipboard
	ready      bool
	done       bool
	err        error
	width      int
	height     int
}

// NewUI wires the engine, control layer, and renderer around channels and
// returns the model. The engine goroutine starts on Init.
func NewUI(cfg *config.Config, store storage.Store, library *storage.Library, st *state.State, log *slog.Logger) *UI {
	ta := textarea.New()
	ta.Placeholder = placeholderText
	ta.Focus()
	ta.Prompt = statusStyle.Render(":: ")
	ta.CharLimit = 200
	ta.SetWidth(50)
	ta.SetHeight(1)
	ta.ShowLineNumbers = false

	vp := viewport.New(80, 20)

	events := make(chan uiEvent, 64)
	inputCh := make(chan string, 4)

	var filter *textfilter.Filter
	if textfilter.Enabled(cfg.Rating) {
		filter = textfilter.New()
	}
	render := &uiRenderer{events: events, width: cfg.WrapWidth, filter: filter}
	input := console.NewControlInput(uiSource{ch: inputCh}, store, st, render, log)
	eng := engine.New(library, render, input, engine.NewMatcher(lexicon.Dict{}), st, log)

	return &UI{
		viewport: vp,
		textarea: ta,
		events:   events,
		inputCh:  inputCh,
		start: func() {
			go func() {
				err := eng.Run(context.Background())
				events <- uiEvent{kind: eventDone, err: err}
			}()
		},
	}
}

func (m *UI) Init() tea.Cmd {
	m.start()
	return tea.Batch(textarea.Blink, waitForEvent(m.events))
}

func waitForEvent(ch <-chan uiEvent) tea.Cmd {
	return func() tea.Msg {
		return eventMsg(<-ch)
	}
}

func (m *UI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var (
		taCmd tea.Cmd
		vpCmd tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = msg.Width - 2
		m.viewport.Height = msg.Height - 5
		m.textarea.SetWidth(msg.Width - 4)
		m.ready = true
		m.refresh()

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			if m.done {
				return m, tea.Quit
			}
			// Route through the control layer so unsaved progress gets its
			// save-first question.
			m.submit("quit")
			return m, nil
		case tea.KeyEnter:
			if m.done {
				return m, tea.Quit
			}
			value := strings.TrimSpace(m.textarea.Value())
			m.textarea.Reset()
			if value == "" {
				return m, nil
			}
			if strings.HasPrefix(value, "/") {
				return m.handleCommand(value)
			}
			m.submit(value)
			return m, nil
		}

	case eventMsg:
		ev := uiEvent(msg)
		if ev.kind == eventDone {
			m.done = true
			if ev.err != nil {
				m.err = ev.err
				m.append(errStyle.Render("Error: "+ev.err.Error()), "")
			}
			m.append(statusStyle.Render("The End. Press Enter to exit."), "The End.")
			m.refresh()
			return m, nil
		}
		m.append(ev.styled, ev.plain)
		m.refresh()
		return m, waitForEvent(m.events)
	}

	m.textarea, taCmd = m.textarea.Update(msg)
	m.viewport, vpCmd = m.viewport.Update(msg)
	return m, tea.Batch(taCmd, vpCmd)
}

func (m *UI) View() string {
	if !m.ready {
		return "Loading..."
	}
	return fmt.Sprintf(
		"%s\n%s\n\n%s\n%s",
		titleStyle.Render("STORYLOOM"),
		m.viewport.View(),
		m.textarea.View(),
		statusStyle.Render("Enter: choose • /copy: copy transcript • Ctrl+C: quit"),
	)
}

// submit hands one line of player input to the engine and echoes it in the
// transcript. Input typed while the engine is not awaiting a choice is
// dropped.
func (m *UI) submit(line string) {
	select {
	case m.inputCh <- line:
		m.append(echoStyle.Render(":: "+line), ":: "+line)
		m.refresh()
	default:
	}
}

func (m *UI) handleCommand(input string) (tea.Model, tea.Cmd) {
	switch strings.ToLower(input) {
	case "/copy":
		if err := clipboard.WriteAll(strings.Join(m.transcript, "\n")); err != nil {
			m.append(errStyle.Render("Couldn't copy the transcript."), "")
		} else {
			m.append(statusStyle.Render("Transcript copied to clipboard."), "")
		}
	case "/help":
		m.append(statusStyle.Render("Pick choices by number, label, or keyword. Commands: save, load, quit."), "")
	default:
		m.append(statusStyle.Render("Unknown command: "+input), "")
	}
	m.refresh()
	return m, nil
}

func (m *UI) append(styled, plain string) {
	m.lines = append(m.lines, styled)
	if plain != "" {
		m.transcript = append(m.transcript, plain)
	}
}

func (m *UI) refresh() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(strings.Join(m.lines, "\n"))
	m.viewport.GotoBottom()
}
