// Package storage persists play-state between runs and loads story documents
// from the story directory.
package storage

import (
	"context"
	"errors"

	"github.com/fictionkit/storyloom/pkg/state"
)

// ErrNotFound is returned when no saved state exists for an identity.
var ErrNotFound = errors.New("saved state not found")

// Store persists play-state keyed by its identity name.
type Store interface {
	SaveState(ctx context.Context, st *state.State) error
	LoadState(ctx context.Context, name string) (*state.State, error)
	Ping(ctx context.Context) error
	Close() error
}
