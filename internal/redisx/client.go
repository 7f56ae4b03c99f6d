package redisx

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

func New(addr string) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         addr,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})
}

// Deduper menandai event yang sudah diproses.
type Deduper struct {
	RDB     *redis.Client
	Service string
}

// FirstSeen returns true only for the first caller with this id within TTLDedup.
func (d *Deduper) FirstSeen(ctx context.Context, id string) (bool, error) {
	return d.RDB.SetNX(ctx, DedupKey(d.Service, id), "1", TTLDedup).Result()
}

// Forget drops the mark so a failed event can be retried.
func (d *Deduper) Forget(ctx context.Context, id string) error {
	return d.RDB.Del(ctx, DedupKey(d.Service, id)).Err()
}
