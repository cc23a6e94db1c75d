package token

import (
	"context"
	"errors"
	"sync"
)

// DefaultKey identifies the credential slot in every backend.
const DefaultKey = "rcup_token"

// ErrCorruptSlot is returned by a Slot whose persisted state cannot be read
// back as a credential. Store treats it as invalid state and purges it.
var ErrCorruptSlot = errors.New("credential slot is corrupt")

// Slot is a single persistent key/value cell holding the raw credential.
type Slot interface {
	// Load returns the stored value and whether one exists.
	Load(ctx context.Context) (string, bool, error)

	// Store replaces the stored value.
	Store(ctx context.Context, value string) error

	// Delete clears the slot. Deleting an empty slot is not an error.
	Delete(ctx context.Context) error
}

// MemorySlot keeps the credential in process memory.
type MemorySlot struct {
	mu    sync.Mutex
	value string
	set   bool
}

// NewMemorySlot creates an empty in-memory slot.
func NewMemorySlot() *MemorySlot {
	return &MemorySlot{}
}

// Load implements Slot.
func (m *MemorySlot) Load(ctx context.Context) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.value, m.set, nil
}

// Store implements Slot.
func (m *MemorySlot) Store(ctx context.Context, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.value, m.set = value, true
	return nil
}

// Delete implements Slot.
func (m *MemorySlot) Delete(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.value, m.set = "", false
	return nil
}

var _ Slot = (*MemorySlot)(nil)
