package geo

import (
	"context"
	"encoding/json"
	"time"

	"shootdispatch/models"

	"github.com/go-redis/redis/v8"
	"github.com/hashicorp/golang-lru/v2/expirable"
)

// Cache stores resolved coordinates by address key.
type Cache interface {
	Get(ctx context.Context, key string) (models.Coordinates, bool, error)
	Set(ctx context.Context, key string, c models.Coordinates) error
}

// MemoryCache is a bounded in-process LRU with per-entry TTL.
type MemoryCache struct {
	lru *expirable.LRU[string, models.Coordinates]
}

func NewMemoryCache(size int, ttl time.Duration) *MemoryCache {
	if size <= 0 {
		size = 1024
	}
	return &MemoryCache{lru: expirable.NewLRU[string, models.Coordinates](size, nil, ttl)}
}

func (m *MemoryCache) Get(_ context.Context, key string) (models.Coordinates, bool, error) {
	c, ok := m.lru.Get(key)
	return c, ok, nil
}

func (m *MemoryCache) Set(_ context.Context, key string, c models.Coordinates) error {
	m.lru.Add(key, c)
	return nil
}

// Len reports the number of live entries.
func (m *MemoryCache) Len() int {
	return m.lru.Len()
}

const coordsKeyPrefix = "geo:coords:"

// RedisCache shares resolved coordinates across instances.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

func (r *RedisCache) Get(ctx context.Context, key string) (models.Coordinates, bool, error) {
	data, err := r.client.Get(ctx, coordsKeyPrefix+key).Result()
	if err == redis.Nil {
		return models.Coordinates{}, false, nil
	}
	if err != nil {
		return models.Coordinates{}, false, err
	}
	var c models.Coordinates
	if err := json.Unmarshal([]byte(data), &c); err != nil {
		return models.Coordinates{}, false, err
	}
	return c, true, nil
}

func (r *RedisCache) Set(ctx context.Context, key string, c models.Coordinates) error {
	b, err := json.Marshal(c)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, coordsKeyPrefix+key, b, r.ttl).Err()
}

// TieredCache reads the first tier, then the second, backfilling the first
// on a second-tier hit. Writes go to both.
type TieredCache struct {
	First  Cache
	Second Cache
}

func (t *TieredCache) Get(ctx context.Context, key string) (models.Coordinates, bool, error) {
	if c, ok, err := t.First.Get(ctx, key); err == nil && ok {
		return c, true, nil
	}
	c, ok, err := t.Second.Get(ctx, key)
	if err != nil || !ok {
		return c, ok, err
	}
	_ = t.First.Set(ctx, key, c)
	return c, true, nil
}

func (t *TieredCache) Set(ctx context.Context, key string, c models.Coordinates) error {
	firstErr := t.First.Set(ctx, key, c)
	if err := t.Second.Set(ctx, key, c); err != nil {
		return err
	}
	return firstErr
}
