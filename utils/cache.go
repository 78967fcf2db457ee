// File: utils/cache.go
package utils

import (
	"context"
	"log"
	"time"

	"shootdispatch/config"

	"github.com/go-redis/redis/v8"
)

var (
	// CacheClient backs the geocode cache.
	CacheClient *redis.Client
	// SessionClient backs dispatch sessions.
	SessionClient *redis.Client
)

func newRedisClient(db int, name string) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       db,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := client.Ping(ctx).Result(); err != nil {
		log.Fatalf("Failed to connect to Redis (%s): %v", name, err)
	}
	return client
}

// GetCacheClient returns the generic cache client.
func GetCacheClient() *redis.Client {
	if CacheClient == nil {
		CacheClient = newRedisClient(config.AppConfig.RedisCacheDB, "Cache")
	}
	return CacheClient
}

// GetSessionClient returns the Redis client for dispatch sessions.
func GetSessionClient() *redis.Client {
	if SessionClient == nil {
		SessionClient = newRedisClient(config.AppConfig.RedisSessionDB, "Session")
	}
	return SessionClient
}
