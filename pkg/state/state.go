package state

import (
	"fmt"

	"github.com/google/uuid"
)

// ScoreCounter is seeded to zero on every new State.
const ScoreCounter = "score"

// SavedFlag marks that the current progress has been persisted. It is set by
// a successful save and cleared whenever the interpreter follows a choice.
const SavedFlag = "saved"

// GameOverFlag ends the run when a block's effects set it true.
const GameOverFlag = "game_over"

// Progress is the player's current position in the story.
type Progress struct {
	Document string `json:"document"`
	Block    string `json:"block"`
}

// State is the mutable play-state of one run: named boolean flags, named
// integer counters, and the current position. Unset keys read as zero values.
// The interpreter is the sole writer for the duration of a run.
type State struct {
	Name      string          `json:"name"` // stable identity used for persistence
	SessionID uuid.UUID       `json:"session_id"`
	Progress  Progress        `json:"progress"`
	Flags     map[string]bool `json:"flags"`
	Counters  map[string]int  `json:"counters"`
}

// New creates an empty State with the given identity and the score counter
// seeded to zero.
func New(name string) *State {
	return &State{
		Name:      name,
		SessionID: uuid.New(),
		Flags:     make(map[string]bool),
		Counters:  map[string]int{ScoreCounter: 0},
	}
}

// Flag returns the value of a named flag. Unset flags read as false.
func (s *State) Flag(name string) bool {
	return s.Flags[name]
}

// SetFlag sets a named flag. Writes are last-write-wins per key.
func (s *State) SetFlag(name string, v bool) {
	if s.Flags == nil {
		s.Flags = make(map[string]bool)
	}
	s.Flags[name] = v
}

// Counter returns the value of a named counter. Unset counters read as 0.
func (s *State) Counter(name string) int {
	return s.Counters[name]
}

// UpdateCounter adds delta to a named counter, defaulting the old value to 0.
func (s *State) UpdateCounter(name string, delta int) {
	if s.Counters == nil {
		s.Counters = make(map[string]int)
	}
	s.Counters[name] += delta
}

// AddScore adds n to the score counter.
func (s *State) AddScore(n int) {
	s.UpdateCounter(ScoreCounter, n)
}

// SetProgress records the current document and block.
func (s *State) SetProgress(document, block string) {
	s.Progress = Progress{Document: document, Block: block}
}

// String renders the state for diagnostics.
func (s *State) String() string {
	return fmt.Sprintf("  Name: %s\n  Progress: [Document: %s, Block: %s]\n  Flags: %v\n  Counters: %v",
		s.Name, s.Progress.Document, s.Progress.Block, s.Flags, s.Counters)
}
