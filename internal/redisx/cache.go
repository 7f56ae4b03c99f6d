package redisx

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// JSONCache is a read-through helper; redis errors are logged, never returned,
// so the database stays the source of truth.
type JSONCache[T any] struct {
	rdb *redis.Client
	key func(id int64) string
	ttl time.Duration
}

func NewJSONCache[T any](rdb *redis.Client, key func(id int64) string, ttl time.Duration) *JSONCache[T] {
	return &JSONCache[T]{rdb: rdb, key: key, ttl: ttl}
}

func (c *JSONCache[T]) Get(ctx context.Context, id int64) (T, bool) {
	var v T
	b, err := c.rdb.Get(ctx, c.key(id)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Warn().Err(err).Str("key", c.key(id)).Msg("cache get failed")
		}
		return v, false
	}
	if err := json.Unmarshal(b, &v); err != nil {
		return v, false
	}
	return v, true
}

func (c *JSONCache[T]) Set(ctx context.Context, id int64, v T) {
	b, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, c.key(id), b, c.ttl).Err(); err != nil {
		log.Warn().Err(err).Str("key", c.key(id)).Msg("cache set failed")
	}
}

func (c *JSONCache[T]) Del(ctx context.Context, id int64) {
	if err := c.rdb.Del(ctx, c.key(id)).Err(); err != nil {
		log.Warn().Err(err).Str("key", c.key(id)).Msg("cache invalidate failed")
	}
}
