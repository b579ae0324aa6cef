// cache хранит последний собранный дайджест в Redis,
// чтобы повторные запросы не перезагружали все ленты.
package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// DigestCache — минимальный контракт кэша дайджеста.
type DigestCache interface {
	// Get возвращает текст дайджеста и признак его наличия в кэше.
	Get(ctx context.Context) (string, bool, error)
	// Set сохраняет текст дайджеста с TTL.
	Set(ctx context.Context, text string, ttl time.Duration) error
	// Close закрывает клиент.
	Close() error
}

type redisCache struct {
	rdb    *redis.Client
	prefix string
}

// NewRedisCache создаёт клиент Redis из URL (например, redis://:pass@host:6379/0).
// Если prefix пустой — используется "infomonitor:".
func NewRedisCache(ctx context.Context, redisURL, prefix string) (DigestCache, error) {
	if prefix == "" {
		prefix = "infomonitor:"
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	rdb := redis.NewClient(opt)

	// Fail-fast на старте.
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, err
	}

	return &redisCache{rdb: rdb, prefix: prefix}, nil
}

func (c *redisCache) key() string { return c.prefix + "digest:daily" }

func (c *redisCache) Get(ctx context.Context) (string, bool, error) {
	text, err := c.rdb.Get(ctx, c.key()).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}

	return text, true, nil
}

func (c *redisCache) Set(ctx context.Context, text string, ttl time.Duration) error {
	return c.rdb.Set(ctx, c.key(), text, ttl).Err()
}

func (c *redisCache) Close() error { return c.rdb.Close() }

// Noop — кэш-заглушка для конфигурации без Redis: всегда промах.
type Noop struct{}

func (Noop) Get(context.Context) (string, bool, error) { return "", false, nil }
func (Noop) Set(context.Context, string, time.Duration) error { return nil }
func (Noop) Close() error { return nil }
