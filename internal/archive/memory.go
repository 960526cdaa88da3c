package archive

import (
	"context"
	"sort"
	"sync"

	"github.com/goliatone/go-edxml/pkg/interfaces"
)

// MemoryStore keeps conversions in process memory.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]interfaces.ArchivedConversion
}

// NewMemoryStore constructs an empty in-memory archive.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: map[string]interfaces.ArchivedConversion{}}
}

var _ interfaces.ConversionArchive = (*MemoryStore)(nil)

func (m *MemoryStore) Lookup(_ context.Context, key string) (*interfaces.ArchivedConversion, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entry, ok := m.entries[key]
	if !ok {
		return nil, nil
	}
	return &entry, nil
}

func (m *MemoryStore) Save(_ context.Context, entry interfaces.ArchivedConversion) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if existing, ok := m.entries[entry.Key]; ok {
		entry.CreatedAt = existing.CreatedAt
	}
	m.entries[entry.Key] = entry
	return nil
}

// List returns every entry ordered by key.
func (m *MemoryStore) List(context.Context) ([]interfaces.ArchivedConversion, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]interfaces.ArchivedConversion, 0, len(m.entries))
	for _, entry := range m.entries {
		out = append(out, entry)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}
