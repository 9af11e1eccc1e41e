package repository

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by Get for keys that were never written or whose
// TTL has elapsed. The two cases are indistinguishable.
var ErrNotFound = errors.New("repository: not found")

// KV is the TTL key-value contract every backend implements.
type KV interface {
	Put(ctx context.Context, key, value string, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	ListKeysWithPrefix(ctx context.Context, prefix string) ([]string, error)
}

func validatePut(key string, ttl time.Duration) error {
	if key == "" {
		return errors.New("repository: key must not be empty")
	}
	if ttl <= 0 {
		return errors.New("repository: ttl must be positive")
	}
	return nil
}

var (
	_ KV = (*DynamoClient)(nil)
	_ KV = (*RedisClient)(nil)
	_ KV = (*MemoryClient)(nil)
)
