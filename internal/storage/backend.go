// ABOUTME: Slot backend interface for vehicle log storage
// ABOUTME: Each slot holds one JSON document, mirroring browser key-value storage

package storage

import (
	"fmt"
	"sort"
	"sync"
)

// Backend stores whole documents under named slots.
type Backend interface {
	// Get returns the slot contents or ErrNotFound.
	Get(slot string) ([]byte, error)
	// Set replaces the slot contents.
	Set(slot string, value []byte) error
	// Delete removes a slot. Deleting a missing slot is not an error.
	Delete(slot string) error
	// Slots lists the slot names currently stored, sorted.
	Slots() ([]string, error)
	Close() error
}

// Memory is an in-process Backend used by tests and the "memory" backend.
type Memory struct {
	mu     sync.RWMutex
	slots  map[string][]byte
	closed bool
}

// Compile-time check that Memory implements Backend.
var _ Backend = (*Memory)(nil)

// NewMemory creates an empty in-memory backend.
func NewMemory() *Memory {
	return &Memory{slots: make(map[string][]byte)}
}

// Get returns a copy of the slot contents.
func (m *Memory) Get(slot string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return nil, ErrClosed
	}
	v, ok := m.slots[slot]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

// Set stores a copy of value.
func (m *Memory) Set(slot string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	m.slots[slot] = append([]byte(nil), value...)
	return nil
}

// Delete removes a slot.
func (m *Memory) Delete(slot string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	delete(m.slots, slot)
	return nil
}

// Slots lists the stored slot names.
func (m *Memory) Slots() ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return nil, ErrClosed
	}
	names := make([]string, 0, len(m.slots))
	for k := range m.slots {
		names = append(names, k)
	}
	sort.Strings(names)
	return names, nil
}

// Close marks the backend closed.
func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// FailingBackend wraps a Backend and fails writes to selected slots.
// It exists so callers can exercise partial-write recovery.
type FailingBackend struct {
	Backend
	FailSlots map[string]error
}

// Set fails for slots listed in FailSlots.
func (f *FailingBackend) Set(slot string, value []byte) error {
	if err, ok := f.FailSlots[slot]; ok {
		return fmt.Errorf("set %s: %w", slot, err)
	}
	return f.Backend.Set(slot, value)
}
