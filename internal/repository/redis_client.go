package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	redis "github.com/redis/go-redis/v9"
)

const scanBatch = 100

// redisAPI is the subset of *redis.Client used by RedisClient.
type redisAPI interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
	Scan(ctx context.Context, cursor uint64, match string, count int64) *redis.ScanCmd
}

// RedisClient stores TTL'd values as plain Redis strings; expiry is native.
type RedisClient struct {
	api redisAPI
}

// NewRedis wraps an existing go-redis client (or fake).
func NewRedis(api redisAPI) (*RedisClient, error) {
	if api == nil {
		return nil, errors.New("repository: redis client must not be nil")
	}
	return &RedisClient{api: api}, nil
}

// DialRedis connects to addr and verifies the connection with PING.
func DialRedis(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	if strings.TrimSpace(addr) == "" {
		return nil, errors.New("repository: redis address must not be empty")
	}
	client := redis.NewClient(&redis.Options{
		Addr:        addr,
		Password:    password,
		DB:          db,
		DialTimeout: 3 * time.Second,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("repository: redis ping %s: %w", addr, err)
	}
	return client, nil
}

func (c *RedisClient) Put(ctx context.Context, key, value string, ttl time.Duration) error {
	if err := validatePut(key, ttl); err != nil {
		return err
	}
	if err := c.api.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("repository: Put %q: %w", key, err)
	}
	return nil
}

func (c *RedisClient) Get(ctx context.Context, key string) (string, error) {
	v, err := c.api.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("repository: Get %q: %w", key, err)
	}
	return v, nil
}

// ListKeysWithPrefix walks SCAN to completion. SCAN may repeat keys across
// iterations, so the result is de-duplicated.
func (c *RedisClient) ListKeysWithPrefix(ctx context.Context, prefix string) ([]string, error) {
	match := escapeGlob(prefix) + "*"
	seen := make(map[string]struct{})
	var keys []string
	var cursor uint64
	for {
		batch, next, err := c.api.Scan(ctx, cursor, match, scanBatch).Result()
		if err != nil {
			return nil, fmt.Errorf("repository: ListKeysWithPrefix scan: %w", err)
		}
		for _, k := range batch {
			if _, dup := seen[k]; dup {
				continue
			}
			seen[k] = struct{}{}
			keys = append(keys, k)
		}
		if next == 0 {
			break
		}
		cursor = next
	}
	return keys, nil
}

func escapeGlob(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '*', '?', '[', ']', '\\':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
