package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/fictionkit/storyloom/pkg/state"
)

// FileStore keeps saved states as JSON files in a save directory, one file
// per identity.
type FileStore struct {
	dir    string
	logger *slog.Logger
}

var _ Store = (*FileStore)(nil)

// NewFileStore creates a file-backed store rooted at dir.
func NewFileStore(dir string, logger *slog.Logger) *FileStore {
	if dir == "" {
		dir = "./saves"
	}
	return &FileStore{dir: dir, logger: logger}
}

func (f *FileStore) SaveState(ctx context.Context, st *state.State) error {
	if err := validName(st.Name); err != nil {
		return err
	}
	if err := os.MkdirAll(f.dir, 0o755); err != nil {
		return fmt.Errorf("creating save directory: %w", err)
	}

	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling state: %w", err)
	}

	path := f.path(st.Name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		f.logger.Error("Failed to write save file", "path", path, "error", err)
		return fmt.Errorf("writing save file: %w", err)
	}
	return nil
}

func (f *FileStore) LoadState(ctx context.Context, name string) (*state.State, error) {
	if err := validName(name); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(f.path(name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		f.logger.Error("Failed to read save file", "name", name, "error", err)
		return nil, fmt.Errorf("reading save file: %w", err)
	}

	var st state.State
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("unmarshaling state: %w", err)
	}
	return &st, nil
}

func (f *FileStore) Ping(ctx context.Context) error {
	if _, err := os.Stat(f.dir); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("save directory unavailable: %w", err)
	}
	return nil
}

func (f *FileStore) Close() error { return nil }

func (f *FileStore) path(name string) string {
	return filepath.Join(f.dir, name+".json")
}

// validName rejects identities that would resolve outside the save directory.
func validName(name string) error {
	if name == "" {
		return fmt.Errorf("save identity is empty")
	}
	if filepath.Base(name) != name {
		return fmt.Errorf("save identity %q must not contain path separators", name)
	}
	return nil
}
