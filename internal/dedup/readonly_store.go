package dedup

import (
	"context"

	mapset "github.com/deckarep/golang-set/v2"
)

// ReadOnlyStore reads through to another Store and drops every Append, so a
// dry run sees the real history without recording anything
type ReadOnlyStore struct {
	inner Store
}

func NewReadOnlyStore(inner Store) *ReadOnlyStore {
	return &ReadOnlyStore{inner: inner}
}

func (s *ReadOnlyStore) Load(ctx context.Context) (mapset.Set[string], error) {
	return s.inner.Load(ctx)
}

func (s *ReadOnlyStore) Append(ctx context.Context, ids []string) error {
	return nil
}

func (s *ReadOnlyStore) Close() error {
	return s.inner.Close()
}
