package cache

import (
	"time"

	"gps-monitor/pkg/redis"
)

// NewSnapshotCache creates a Redis snapshot cache on top of the shared client.
func NewSnapshotCache(client *redis.Client, config CacheConfig) SnapshotCache {
	return NewRedisSnapshotCache(client, config)
}

// NewDefaultSnapshotCache uses DefaultCacheConfig with the given TTL.
func NewDefaultSnapshotCache(client *redis.Client, ttl time.Duration) SnapshotCache {
	config := DefaultCacheConfig()
	if ttl > 0 {
		config.SnapshotTTL = ttl
	}
	return NewRedisSnapshotCache(client, config)
}
