package mocks

import (
	"path/filepath"
	"sync"

	"github.com/user/stillcut/pkg/ports"
)

// FrameSink is a mock implementation of ports.FrameSink. Saved data is
// kept in memory keyed by name.
type FrameSink struct {
	mu sync.RWMutex

	SaveFunc func(name string, data []byte) (string, error)

	// Dir is prepended to returned paths when set.
	Dir string

	// Recorded calls for verification
	SaveCalls []string
	saved     map[string][]byte
}

// NewFrameSink creates a new mock FrameSink.
func NewFrameSink() *FrameSink {
	return &FrameSink{
		saved: make(map[string][]byte),
	}
}

func (m *FrameSink) Save(name string, data []byte) (string, error) {
	m.mu.Lock()
	m.SaveCalls = append(m.SaveCalls, name)
	m.mu.Unlock()

	if m.SaveFunc != nil {
		return m.SaveFunc(name, data)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	cp := make([]byte, len(data))
	copy(cp, data)
	m.saved[name] = cp
	if m.Dir != "" {
		return filepath.Join(m.Dir, name), nil
	}
	return name, nil
}

// Saved returns the stored bytes for a name (for test verification).
func (m *FrameSink) Saved(name string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.saved[name]
	return data, ok
}

// SavedCount returns the number of stored entries.
func (m *FrameSink) SavedCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.saved)
}

var _ ports.FrameSink = (*FrameSink)(nil)
