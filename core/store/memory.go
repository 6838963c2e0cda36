package store

import (
	"context"
	"sync"

	"github.com/gaurav-prasanna/sheetpipe/core/sheet"
)

// MemoryStore keeps encoded values in a map. It goes through the same JSON
// encoding as SQLiteStore so encode failures surface identically.
type MemoryStore struct {
	mu     sync.Mutex
	values map[string][]byte
}

// NewMemory creates an empty MemoryStore.
func NewMemory() *MemoryStore {
	return &MemoryStore{values: make(map[string][]byte)}
}

// Save replaces the stored sheet.
func (m *MemoryStore) Save(_ context.Context, cs sheet.CharacterSheet) error {
	data, err := encodeSheet(cs)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[KeyCurrentSheet] = data
	return nil
}

// Load returns the stored sheet, or nil when nothing was saved.
func (m *MemoryStore) Load(_ context.Context) (*sheet.CharacterSheet, error) {
	m.mu.Lock()
	data, ok := m.values[KeyCurrentSheet]
	m.mu.Unlock()
	if !ok {
		return nil, nil
	}
	return decodeSheet(data)
}

// Clear removes the sheet and the raw text.
func (m *MemoryStore) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, KeyCurrentSheet)
	delete(m.values, KeyRawText)
	return nil
}

// SaveRawText replaces the stored extraction text.
func (m *MemoryStore) SaveRawText(_ context.Context, text string) error {
	data, err := encodeText(text)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[KeyRawText] = data
	return nil
}

// LoadRawText returns the stored extraction text and whether any was saved.
func (m *MemoryStore) LoadRawText(_ context.Context) (string, bool, error) {
	m.mu.Lock()
	data, ok := m.values[KeyRawText]
	m.mu.Unlock()
	if !ok {
		return "", false, nil
	}
	text, err := decodeText(data)
	if err != nil {
		return "", false, err
	}
	return text, true, nil
}

// Put stores raw bytes under key. Tests use it to plant corrupt values.
func (m *MemoryStore) Put(key string, value []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = append([]byte(nil), value...)
}
