package triggers

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultKeyPrefix namespaces trigger keys in Redis.
const DefaultKeyPrefix = "signup-pruner:trigger:"

// RedisRegistry is a Registry shared between processes through Redis.
// Each hook is one key holding the due time in Unix nanoseconds.
type RedisRegistry struct {
	client *redis.Client
	prefix string
}

// NewRedisRegistry connects to the Redis server at url
// (redis://[:password@]host:port/db).
func NewRedisRegistry(url, prefix string) (*RedisRegistry, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, &RegistryError{Backend: "redis", Operation: "connect", Cause: err}
	}
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return &RedisRegistry{
		client: redis.NewClient(opt),
		prefix: prefix,
	}, nil
}

func (r *RedisRegistry) key(hook string) string {
	return r.prefix + hook
}

// Ping verifies the Redis server is reachable.
func (r *RedisRegistry) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return &RegistryError{Backend: "redis", Operation: "ping", Cause: err}
	}
	return nil
}

func (r *RedisRegistry) Next(ctx context.Context, hook string) (time.Time, bool, error) {
	val, err := r.client.Get(ctx, r.key(hook)).Result()
	if errors.Is(err, redis.Nil) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, &RegistryError{Backend: "redis", Operation: "next", Hook: hook, Cause: err}
	}

	nanos, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return time.Time{}, false, &RegistryError{Backend: "redis", Operation: "next", Hook: hook, Cause: err}
	}
	return time.Unix(0, nanos).UTC(), true, nil
}

func (r *RedisRegistry) Schedule(ctx context.Context, hook string, at time.Time) error {
	val := strconv.FormatInt(at.UnixNano(), 10)
	if err := r.client.Set(ctx, r.key(hook), val, 0).Err(); err != nil {
		return &RegistryError{Backend: "redis", Operation: "schedule", Hook: hook, Cause: err}
	}
	return nil
}

func (r *RedisRegistry) Clear(ctx context.Context, hook string) error {
	if err := r.client.Del(ctx, r.key(hook)).Err(); err != nil {
		return &RegistryError{Backend: "redis", Operation: "clear", Hook: hook, Cause: err}
	}
	return nil
}

func (r *RedisRegistry) Close() error {
	return r.client.Close()
}
