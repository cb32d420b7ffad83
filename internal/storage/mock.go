package storage

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/fictionkit/storyloom/pkg/state"
)

// MockStore is an in-memory Store for tests. It round-trips states through
// JSON so tests observe the same field behavior as the real backends.
type MockStore struct {
	mu     sync.Mutex
	states map[string][]byte
}

var _ Store = (*MockStore)(nil)

func NewMockStore() *MockStore {
	return &MockStore{states: make(map[string][]byte)}
}

func (m *MockStore) SaveState(ctx context.Context, st *state.State) error {
	data, err := json.Marshal(st)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.states[st.Name] = data
	return nil
}

func (m *MockStore) LoadState(ctx context.Context, name string) (*state.State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.states[name]
	if !ok {
		return nil, ErrNotFound
	}
	var st state.State
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, err
	}
	return &st, nil
}

func (m *MockStore) Ping(ctx context.Context) error { return nil }

func (m *MockStore) Close() error { return nil }
