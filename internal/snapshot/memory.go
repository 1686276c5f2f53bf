package snapshot

import (
	"context"
	"slices"
	"sync"
)

// Memory keeps the document in process memory.
type Memory struct {
	mu      sync.Mutex
	data    []byte
	saved   bool
	saves   int
	failErr error
}

// NewMemory returns an empty in-memory Store. If initial is non-nil it is
// returned by Load as if it had been saved.
func NewMemory(initial []byte) *Memory {
	m := &Memory{}
	if initial != nil {
		m.data = slices.Clone(initial)
		m.saved = true
	}
	return m
}

// Load implements Store.
func (m *Memory) Load(_ context.Context) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.saved {
		return nil, ErrNotFound
	}
	return slices.Clone(m.data), nil
}

// Save implements Store.
func (m *Memory) Save(_ context.Context, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failErr != nil {
		return m.failErr
	}
	m.data = slices.Clone(data)
	m.saved = true
	m.saves++
	return nil
}

// Saves returns how many times Save succeeded.
func (m *Memory) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

// FailSaves makes every subsequent Save return err. A nil err restores normal
// behavior.
func (m *Memory) FailSaves(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failErr = err
}

// Driver implements Store.
func (m *Memory) Driver() Driver {
	return DriverMemory
}

// Close implements Store.
func (m *Memory) Close() error {
	return nil
}
