package dedup

import (
	"context"
	"fmt"

	mapset "github.com/deckarep/golang-set/v2"
)

// Store persists the ids of LinkedIn postings exported by earlier runs.
// It is append-only: Load reads the full set once per run and Append adds
// newly exported ids. Duplicate ids are harmless.
type Store interface {
	Load(ctx context.Context) (mapset.Set[string], error)
	Append(ctx context.Context, ids []string) error
	Close() error
}

const (
	BackendFile     = "file"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

// StoreOptions selects and configures a Store backend
type StoreOptions struct {
	Backend     string
	Path        string
	RedisURL    string
	RedisKey    string
	DatabaseURL string
}

// OpenStore builds the Store named by opts.Backend (file when empty)
func OpenStore(ctx context.Context, opts StoreOptions) (Store, error) {
	switch opts.Backend {
	case "", BackendFile:
		return NewFileStore(opts.Path), nil
	case BackendRedis:
		return NewRedisStore(ctx, opts.RedisURL, opts.RedisKey)
	case BackendPostgres:
		return NewPostgresStore(ctx, opts.DatabaseURL)
	case BackendMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown seen store backend %q", opts.Backend)
	}
}
