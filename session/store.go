package session

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	termgrid "github.com/danielgatis/go-termgrid"
)

// ErrNotFound is returned when no state is saved under a name.
var ErrNotFound = errors.New("session: not found")

// Store persists grid state and history per session name.
type Store interface {
	LoadState(ctx context.Context, name string) (termgrid.SessionState, error)
	SaveState(ctx context.Context, name string, state termgrid.SessionState) error
	AppendHistory(ctx context.Context, name, line string) error
	// LoadHistory returns up to limit of the newest lines, oldest first.
	// A non-positive limit returns everything.
	LoadHistory(ctx context.Context, name string, limit int) ([]string, error)
	Close() error
}

var (
	_ Store = (*MemoryStore)(nil)
	_ Store = (*SQLiteStore)(nil)
)

// MemoryStore keeps sessions in memory. States are stored encoded so callers
// never share slices with the store.
type MemoryStore struct {
	mu      sync.Mutex
	states  map[string][]byte
	history map[string][]string
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		states:  make(map[string][]byte),
		history: make(map[string][]string),
	}
}

func (m *MemoryStore) LoadState(ctx context.Context, name string) (termgrid.SessionState, error) {
	m.mu.Lock()
	data, ok := m.states[name]
	m.mu.Unlock()
	if !ok {
		return termgrid.SessionState{}, ErrNotFound
	}
	var s termgrid.SessionState
	err := json.Unmarshal(data, &s)
	return s, err
}

func (m *MemoryStore) SaveState(ctx context.Context, name string, state termgrid.SessionState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.states[name] = data
	return nil
}

func (m *MemoryStore) AppendHistory(ctx context.Context, name, line string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.history[name] = append(m.history[name], line)
	return nil
}

func (m *MemoryStore) LoadHistory(ctx context.Context, name string, limit int) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	lines := m.history[name]
	if limit > 0 && len(lines) > limit {
		lines = lines[len(lines)-limit:]
	}
	return append([]string(nil), lines...), nil
}

func (m *MemoryStore) Close() error { return nil }
