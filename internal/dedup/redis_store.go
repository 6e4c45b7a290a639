package dedup

import (
	"context"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/redis/go-redis/v9"

	apperrors "go-jobsift/internal/errors"
)

const defaultRedisKey = "jobsift:seen:linkedin"

// RedisStore keeps the seen ids in a single Redis set
type RedisStore struct {
	client *redis.Client
	key    string
}

// NewRedisStore parses redisURL and verifies connectivity
func NewRedisStore(ctx context.Context, redisURL, key string) (*RedisStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, apperrors.StoreIO("parse redis url", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, apperrors.StoreIO("redis ping failed", err)
	}

	if key == "" {
		key = defaultRedisKey
	}
	return &RedisStore{client: client, key: key}, nil
}

func (r *RedisStore) Load(ctx context.Context) (mapset.Set[string], error) {
	members, err := r.client.SMembers(ctx, r.key).Result()
	if err != nil {
		return nil, apperrors.StoreIO("redis SMEMBERS "+r.key, err)
	}
	return mapset.NewThreadUnsafeSet(members...), nil
}

func (r *RedisStore) Append(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	members := make([]interface{}, len(ids))
	for i, id := range ids {
		members[i] = id
	}
	if err := r.client.SAdd(ctx, r.key, members...).Err(); err != nil {
		return apperrors.StoreIO("redis SADD "+r.key, err)
	}
	return nil
}

func (r *RedisStore) Close() error {
	return r.client.Close()
}
