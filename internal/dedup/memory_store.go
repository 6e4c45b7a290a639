package dedup

import (
	"context"
	"sync"

	mapset "github.com/deckarep/golang-set/v2"
)

// MemoryStore keeps ids for the lifetime of the process only. Backs the
// "memory" seen_store backend and tests.
type MemoryStore struct {
	mu  sync.Mutex
	ids []string
}

func NewMemoryStore(ids ...string) *MemoryStore {
	return &MemoryStore{ids: ids}
}

func (m *MemoryStore) Load(ctx context.Context) (mapset.Set[string], error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return mapset.NewThreadUnsafeSet(m.ids...), nil
}

func (m *MemoryStore) Append(ctx context.Context, ids []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ids = append(m.ids, ids...)
	return nil
}

// IDs returns every appended id in order, duplicates included
func (m *MemoryStore) IDs() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.ids...)
}

func (m *MemoryStore) Close() error { return nil }
